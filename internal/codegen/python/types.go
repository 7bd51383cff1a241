package python

import (
	"fmt"
	"strings"

	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/tracdap/tracgen/internal/schema"
)

// reservedRoot is the proto package root whose generated packages are
// imported under a short alias and remapped to the target package
const reservedRoot = "trac"

var primitiveTypes = map[descriptorpb.FieldDescriptorProto_Type]string{
	descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:   "float",
	descriptorpb.FieldDescriptorProto_TYPE_FLOAT:    "float",
	descriptorpb.FieldDescriptorProto_TYPE_INT64:    "int",
	descriptorpb.FieldDescriptorProto_TYPE_UINT64:   "int",
	descriptorpb.FieldDescriptorProto_TYPE_INT32:    "int",
	descriptorpb.FieldDescriptorProto_TYPE_FIXED64:  "int",
	descriptorpb.FieldDescriptorProto_TYPE_FIXED32:  "int",
	descriptorpb.FieldDescriptorProto_TYPE_BOOL:     "bool",
	descriptorpb.FieldDescriptorProto_TYPE_STRING:   "str",
	descriptorpb.FieldDescriptorProto_TYPE_BYTES:    "bytes",
	descriptorpb.FieldDescriptorProto_TYPE_UINT32:   "int",
	descriptorpb.FieldDescriptorProto_TYPE_SFIXED32: "int",
	descriptorpb.FieldDescriptorProto_TYPE_SFIXED64: "int",
	descriptorpb.FieldDescriptorProto_TYPE_SINT32:   "int",
	descriptorpb.FieldDescriptorProto_TYPE_SINT64:   "int",
	// TYPE_GROUP is deprecated and has no mapping
}

// typeName converts a proto type reference into a Python name. Names in pkg
// are made relative to it; names under the reserved root lose the root so they
// resolve through the aliased sub-package import.
func typeName(pkg, protoName string) string {
	name := strings.TrimPrefix(protoName, ".")

	if pkg != "" && strings.HasPrefix(name, pkg+".") {
		name = name[len(pkg)+1:]
	}

	if strings.HasPrefix(name, reservedRoot+".") {
		name = name[len(reservedRoot)+1:]
	}

	return name
}

// baseType resolves the element type of a field, ignoring cardinality
func baseType(pkg string, field *descriptorpb.FieldDescriptorProto) (string, error) {
	switch field.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, descriptorpb.FieldDescriptorProto_TYPE_ENUM:
		return typeName(pkg, field.GetTypeName()), nil
	}

	if name, ok := primitiveTypes[field.GetType()]; ok {
		return name, nil
	}

	return "", schema.NewGenerationError(schema.ErrUnknownFieldType,
		field.GetName(), fmt.Sprintf("type code = %d", field.GetType()))
}

// fieldType resolves the full type hint for a field
func fieldType(pkg string, field *descriptorpb.FieldDescriptorProto, cls schema.Classification) (string, error) {
	if cls.Cardinality == schema.RepeatedMap {
		return mapType(pkg, field, cls.MapEntry)
	}

	base, err := baseType(pkg, field)
	if err != nil {
		return "", err
	}

	switch {
	case cls.Cardinality == schema.RepeatedList:
		return "_tp.List[" + base + "]", nil
	case cls.Nullable():
		return "_tp.Optional[" + base + "]", nil
	default:
		return base, nil
	}
}

func mapType(pkg string, field *descriptorpb.FieldDescriptorProto, entry *descriptorpb.DescriptorProto) (string, error) {
	if len(entry.GetField()) < 2 {
		return "", schema.NewGenerationError(schema.ErrUnknownTypeReference,
			field.GetTypeName(), "map entry must declare key and value fields")
	}

	key, err := baseType(pkg, entry.GetField()[0])
	if err != nil {
		return "", err
	}
	value, err := baseType(pkg, entry.GetField()[1])
	if err != nil {
		return "", err
	}

	return "_tp.Dict[" + key + ", " + value + "]", nil
}

// defaultValue resolves the default expression for a field. Collections get a
// fresh instance per object; enums default to their first declared value;
// everything else defaults to None.
func defaultValue(pkg string, field *descriptorpb.FieldDescriptorProto, cls schema.Classification, types *schema.TypeRegistry) (string, error) {
	switch {
	case cls.Cardinality == schema.RepeatedMap:
		return "_dc.field(default_factory=dict)", nil
	case cls.Cardinality == schema.RepeatedList:
		return "_dc.field(default_factory=list)", nil
	case cls.Nullable():
		return "None", nil
	case cls.Category == schema.CategoryMessage:
		return "None", nil
	case cls.Category == schema.CategoryEnum:
		return enumDefault(pkg, field, types)
	default:
		return "None", nil
	}
}

func enumDefault(pkg string, field *descriptorpb.FieldDescriptorProto, types *schema.TypeRegistry) (string, error) {
	info, ok := types.Lookup(field.GetTypeName())
	if !ok || info.Kind != schema.KindEnum {
		return "", schema.NewGenerationError(schema.ErrUnknownTypeReference,
			field.GetTypeName(), "field "+field.GetName())
	}

	values := info.Enum.GetValue()
	if len(values) == 0 {
		return "", schema.NewGenerationError(schema.ErrUnknownTypeReference,
			field.GetTypeName(), "enum declares no values")
	}

	return typeName(pkg, field.GetTypeName()) + "." + values[0].GetName(), nil
}
