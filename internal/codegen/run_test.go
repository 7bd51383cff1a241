package codegen

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/tracdap/tracgen/internal/config"
	"github.com/tracdap/tracgen/internal/schema"
)

// Test plan:
// - Requested files are grouped by package in order of first appearance
// - An empty file list generates every file in the request
// - A file missing from the request is an error
// - A generator error aborts the run with no output
// - The default registry produces python output end to end

func protoFile(name, pkg string) *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String(name),
		Package: proto.String(pkg),
	}
}

func mockRegistry(gen *mockGenerator) *Registry {
	r := NewRegistry()
	r.Register("mock", func(opts config.Options, types *schema.TypeRegistry, logger zerolog.Logger) (Generator, error) {
		return gen, nil
	})
	return r
}

func TestRun_GroupsByPackage(t *testing.T) {
	files := []*descriptorpb.FileDescriptorProto{
		protoFile("trac/metadata/type.proto", "trac.metadata"),
		protoFile("trac/config/config.proto", "trac.config"),
		protoFile("trac/metadata/object.proto", "trac.metadata"),
		protoFile("google/protobuf/empty.proto", "google.protobuf"),
	}

	tests := []struct {
		name     string
		generate []string
		expected map[string]string
		order    []string
	}{
		{
			name:     "explicit file list",
			generate: []string{"trac/metadata/type.proto", "trac/config/config.proto", "trac/metadata/object.proto"},
			order:    []string{"trac.metadata.mock", "trac.config.mock"},
			expected: map[string]string{
				"trac.metadata.mock": "trac/metadata/type.proto\ntrac/metadata/object.proto\n",
				"trac.config.mock":   "trac/config/config.proto\n",
			},
		},
		{
			name:  "empty list generates everything",
			order: []string{"trac.metadata.mock", "trac.config.mock", "google.protobuf.mock"},
			expected: map[string]string{
				"trac.metadata.mock":   "trac/metadata/type.proto\ntrac/metadata/object.proto\n",
				"trac.config.mock":     "trac/config/config.proto\n",
				"google.protobuf.mock": "google/protobuf/empty.proto\n",
			},
		},
		{
			name:     "dependencies only feed the registry",
			generate: []string{"trac/config/config.proto"},
			order:    []string{"trac.config.mock"},
			expected: map[string]string{
				"trac.config.mock": "trac/config/config.proto\n",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Run(Request{
				Files:           files,
				FilesToGenerate: tt.generate,
				Options:         config.Options{Language: "mock"},
			}, mockRegistry(&mockGenerator{lang: "mock"}), zerolog.Nop())
			require.NoError(t, err)

			require.Len(t, out, len(tt.order))
			for i, path := range tt.order {
				assert.Equal(t, path, out[i].Path)
				assert.Equal(t, tt.expected[path], out[i].Content)
			}
		})
	}
}

func TestRun_MissingFile(t *testing.T) {
	_, err := Run(Request{
		Files:           []*descriptorpb.FileDescriptorProto{protoFile("a.proto", "a")},
		FilesToGenerate: []string{"b.proto"},
		Options:         config.Options{Language: "mock"},
	}, mockRegistry(&mockGenerator{lang: "mock"}), zerolog.Nop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "b.proto")
}

func TestRun_GeneratorErrorAborts(t *testing.T) {
	boom := schema.NewGenerationError(schema.ErrUnknownFieldType, "field", "")

	out, err := Run(Request{
		Files:   []*descriptorpb.FileDescriptorProto{protoFile("a.proto", "a")},
		Options: config.Options{Language: "mock"},
	}, mockRegistry(&mockGenerator{lang: "mock", err: boom}), zerolog.Nop())

	require.Error(t, err)
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, schema.ErrUnknownFieldType))
}

func TestRun_UnsupportedLanguage(t *testing.T) {
	_, err := Run(Request{
		Files:   []*descriptorpb.FileDescriptorProto{protoFile("a.proto", "a")},
		Options: config.Options{Language: "cobol"},
	}, NewRegistry(), zerolog.Nop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported language: cobol")
}

func TestRun_Python(t *testing.T) {
	// Test: one file, one enum, default options
	file := protoFile("trac/metadata/type.proto", "trac.metadata")
	file.EnumType = []*descriptorpb.EnumDescriptorProto{{
		Name: proto.String("BasicType"),
		Value: []*descriptorpb.EnumValueDescriptorProto{
			{Name: proto.String("BASIC_TYPE_NOT_SET"), Number: proto.Int32(0)},
		},
	}}

	out, err := Run(Request{Files: []*descriptorpb.FileDescriptorProto{file}}, DefaultRegistry, zerolog.Nop())
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, "trac/metadata/type.py", out[0].Path)
	assert.Contains(t, out[0].Content, "class BasicType(_enum.Enum):\n")
	assert.Equal(t, "trac/metadata/__init__.py", out[1].Path)
	assert.Equal(t, "# Code generated by TRAC\n\nfrom .type import BasicType\n", out[1].Content)
}
