package schema

import (
	"strings"

	"google.golang.org/protobuf/types/descriptorpb"
)

// Category is what a field's element type refers to
type Category int

const (
	CategoryPrimitive Category = iota
	CategoryMessage
	CategoryEnum
)

// Cardinality is how many values a field holds and whether it may be absent
type Cardinality int

const (
	Singular Cardinality = iota
	RepeatedList
	RepeatedMap
	OneofMember
	ExplicitlyOptional
)

// Classification describes a field as seen by a code generator
type Classification struct {
	Category    Category
	Cardinality Cardinality

	// MapEntry is the synthetic key/value type when Cardinality is RepeatedMap
	MapEntry *descriptorpb.DescriptorProto
}

// Classify derives the classification of field, declared in message whose
// fully-qualified name is messageName. A repeated field is a map only when its
// element type is a map-entry type nested directly in message.
func Classify(field *descriptorpb.FieldDescriptorProto, message *descriptorpb.DescriptorProto, messageName string) Classification {
	c := Classification{Category: CategoryPrimitive}

	switch field.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_MESSAGE:
		c.Category = CategoryMessage
	case descriptorpb.FieldDescriptorProto_TYPE_ENUM:
		c.Category = CategoryEnum
	}

	switch {
	case field.GetLabel() == descriptorpb.FieldDescriptorProto_LABEL_REPEATED:
		c.Cardinality = RepeatedList
		if entry := nestedMapEntry(field, message, messageName); entry != nil {
			c.Cardinality = RepeatedMap
			c.MapEntry = entry
		}
	case field.GetProto3Optional():
		c.Cardinality = ExplicitlyOptional
	case field.OneofIndex != nil:
		c.Cardinality = OneofMember
	default:
		c.Cardinality = Singular
	}

	return c
}

// Nullable reports whether the field's value may be absent
func (c Classification) Nullable() bool {
	return c.Cardinality == OneofMember || c.Cardinality == ExplicitlyOptional
}

// Repeated reports whether the field holds a collection
func (c Classification) Repeated() bool {
	return c.Cardinality == RepeatedList || c.Cardinality == RepeatedMap
}

func nestedMapEntry(field *descriptorpb.FieldDescriptorProto, message *descriptorpb.DescriptorProto, messageName string) *descriptorpb.DescriptorProto {
	if field.GetType() != descriptorpb.FieldDescriptorProto_TYPE_MESSAGE {
		return nil
	}

	typeName := strings.TrimPrefix(field.GetTypeName(), ".")
	for _, nested := range message.GetNestedType() {
		if typeName == messageName+"."+nested.GetName() && nested.GetOptions().GetMapEntry() {
			return nested
		}
	}
	return nil
}
