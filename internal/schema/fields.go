package schema

import (
	"fmt"
	"sync"

	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
)

// FieldTable holds the field numbers of descriptor.proto that appear in
// SourceCodeInfo paths. They are fixed for a given descriptor.proto version.
type FieldTable struct {
	FileMessage   int32 // FileDescriptorProto.message_type
	FileEnum      int32 // FileDescriptorProto.enum_type
	FileService   int32 // FileDescriptorProto.service
	MessageField  int32 // DescriptorProto.field
	MessageNested int32 // DescriptorProto.nested_type
	MessageEnum   int32 // DescriptorProto.enum_type
	EnumValue     int32 // EnumDescriptorProto.value
	ServiceMethod int32 // ServiceDescriptorProto.method
}

var loadFieldTable = sync.OnceValues(func() (FieldTable, error) {
	file := (&descriptorpb.FileDescriptorProto{}).ProtoReflect().Descriptor()
	message := (&descriptorpb.DescriptorProto{}).ProtoReflect().Descriptor()
	enum := (&descriptorpb.EnumDescriptorProto{}).ProtoReflect().Descriptor()
	service := (&descriptorpb.ServiceDescriptorProto{}).ProtoReflect().Descriptor()

	var t FieldTable
	lookups := []struct {
		desc protoreflect.MessageDescriptor
		name string
		dst  *int32
	}{
		{file, "message_type", &t.FileMessage},
		{file, "enum_type", &t.FileEnum},
		{file, "service", &t.FileService},
		{message, "field", &t.MessageField},
		{message, "nested_type", &t.MessageNested},
		{message, "enum_type", &t.MessageEnum},
		{enum, "value", &t.EnumValue},
		{service, "method", &t.ServiceMethod},
	}

	for _, l := range lookups {
		n, err := FieldNumber(l.desc, l.name)
		if err != nil {
			return FieldTable{}, err
		}
		*l.dst = n
	}

	return t, nil
})

// LoadFieldTable resolves the descriptor field numbers. The table is computed
// once per process.
func LoadFieldTable() (FieldTable, error) {
	return loadFieldTable()
}

// FieldNumber returns the number of the named field of a descriptor message
func FieldNumber(desc protoreflect.MessageDescriptor, name string) (int32, error) {
	fd := desc.Fields().ByName(protoreflect.Name(name))
	if fd == nil {
		return 0, NewGenerationError(ErrMissingDescriptorField,
			fmt.Sprintf("%s.%s", desc.Name(), name), "")
	}
	return int32(fd.Number()), nil
}
