package plugin

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/pluginpb"

	"github.com/tracdap/tracgen/internal/codegen"
)

// Test plan:
// - A request round-trips through stdin/stdout framing
// - Options in the parameter string reach the generator
// - Option and generation errors are reported in the response

func typeFile() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("trac/metadata/type.proto"),
		Package: proto.String("trac.metadata"),
		EnumType: []*descriptorpb.EnumDescriptorProto{{
			Name: proto.String("BasicType"),
			Value: []*descriptorpb.EnumValueDescriptorProto{
				{Name: proto.String("BASIC_TYPE_NOT_SET"), Number: proto.Int32(0)},
			},
		}},
	}
}

func TestRun(t *testing.T) {
	req := &pluginpb.CodeGeneratorRequest{
		FileToGenerate: []string{"trac/metadata/type.proto"},
		ProtoFile:      []*descriptorpb.FileDescriptorProto{typeFile()},
	}
	data, err := proto.Marshal(req)
	require.NoError(t, err)

	var out bytes.Buffer
	err = Run(bytes.NewReader(data), &out, codegen.DefaultRegistry, zerolog.Nop())
	require.NoError(t, err)

	resp := &pluginpb.CodeGeneratorResponse{}
	require.NoError(t, proto.Unmarshal(out.Bytes(), resp))

	assert.Empty(t, resp.GetError())
	assert.Equal(t, SupportedFeatures, resp.GetSupportedFeatures())
	require.Len(t, resp.GetFile(), 2)
	assert.Equal(t, "trac/metadata/type.py", resp.GetFile()[0].GetName())
	assert.Equal(t, "trac/metadata/__init__.py", resp.GetFile()[1].GetName())
}

func TestRun_BadInput(t *testing.T) {
	var out bytes.Buffer
	err := Run(bytes.NewReader([]byte{0xff, 0xff, 0xff}), &out, codegen.DefaultRegistry, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse plugin request")
	assert.Zero(t, out.Len())
}

func TestGenerate(t *testing.T) {
	nested := typeFile()
	nested.MessageType = []*descriptorpb.DescriptorProto{{
		Name:     proto.String("Holder"),
		EnumType: []*descriptorpb.EnumDescriptorProto{{Name: proto.String("Inner")}},
	}}

	tests := []struct {
		name        string
		parameter   string
		file        *descriptorpb.FileDescriptorProto
		paths       []string
		errContains string
	}{
		{
			name:  "default options",
			file:  typeFile(),
			paths: []string{"trac/metadata/type.py", "trac/metadata/__init__.py"},
		},
		{
			name:      "flat pack",
			parameter: "flat_pack",
			file:      typeFile(),
			paths:     []string{"trac/metadata.py"},
		},
		{
			name:      "filtered",
			parameter: "packages=trac.config",
			file:      typeFile(),
			paths:     nil,
		},
		{
			name:        "bad parameter",
			parameter:   "flat_pack=maybe",
			file:        typeFile(),
			errContains: "invalid value for flat_pack",
		},
		{
			name:      "unknown parameter ignored",
			parameter: "colour=blue",
			file:      typeFile(),
			paths:     []string{"trac/metadata/type.py", "trac/metadata/__init__.py"},
		},
		{
			name:        "nested enum",
			file:        nested,
			errContains: "nested enums are not supported: Holder.Inner",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := Generate(&pluginpb.CodeGeneratorRequest{
				FileToGenerate: []string{tt.file.GetName()},
				Parameter:      proto.String(tt.parameter),
				ProtoFile:      []*descriptorpb.FileDescriptorProto{tt.file},
			}, codegen.DefaultRegistry, zerolog.Nop())

			assert.Equal(t, SupportedFeatures, resp.GetSupportedFeatures())

			if tt.errContains != "" {
				assert.Contains(t, resp.GetError(), tt.errContains)
				assert.Empty(t, resp.GetFile())
				return
			}

			assert.Empty(t, resp.GetError())
			var paths []string
			for _, f := range resp.GetFile() {
				paths = append(paths, f.GetName())
			}
			assert.Equal(t, tt.paths, paths)
		})
	}
}
