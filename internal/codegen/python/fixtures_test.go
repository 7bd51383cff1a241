package python

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/tracdap/tracgen/internal/config"
	"github.com/tracdap/tracgen/internal/schema"
)

type fieldOpt func(*descriptorpb.FieldDescriptorProto)

func repeated() fieldOpt {
	return func(f *descriptorpb.FieldDescriptorProto) {
		f.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
	}
}

func optional() fieldOpt {
	return func(f *descriptorpb.FieldDescriptorProto) {
		f.Proto3Optional = proto.Bool(true)
	}
}

func oneof(index int32) fieldOpt {
	return func(f *descriptorpb.FieldDescriptorProto) {
		f.OneofIndex = proto.Int32(index)
	}
}

func ref(typeName string) fieldOpt {
	return func(f *descriptorpb.FieldDescriptorProto) {
		f.TypeName = proto.String(typeName)
	}
}

func field(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type, opts ...fieldOpt) *descriptorpb.FieldDescriptorProto {
	f := &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   typ.Enum(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func enumType(name string, values ...string) *descriptorpb.EnumDescriptorProto {
	e := &descriptorpb.EnumDescriptorProto{Name: proto.String(name)}
	for i, v := range values {
		e.Value = append(e.Value, &descriptorpb.EnumValueDescriptorProto{
			Name:   proto.String(v),
			Number: proto.Int32(int32(i)),
		})
	}
	return e
}

func message(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{Name: proto.String(name), Field: fields}
}

func mapEntry(name string, key, value *descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	entry := message(name, key, value)
	entry.Options = &descriptorpb.MessageOptions{MapEntry: proto.Bool(true)}
	return entry
}

func protoFile(name, pkg string, deps ...string) *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:       proto.String(name),
		Package:    proto.String(pkg),
		Dependency: deps,
	}
}

func comment(leading string, path ...int32) *descriptorpb.SourceCodeInfo_Location {
	return &descriptorpb.SourceCodeInfo_Location{
		Path:            path,
		LeadingComments: proto.String(leading),
	}
}

func newTestGenerator(t *testing.T, opts config.Options, files ...*descriptorpb.FileDescriptorProto) *Generator {
	t.Helper()
	gen, err := NewGenerator(opts, schema.BuildTypeRegistry(files), zerolog.Nop())
	require.NoError(t, err)
	return gen
}
