package schema

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

// Test plan:
// - Every enum, message and service is registered under its qualified name
// - Nested declarations are qualified by their enclosing messages
// - Lookup accepts the leading dot used in field type references
// - Random nesting trees register every declaration exactly once

func sampleFiles() []*descriptorpb.FileDescriptorProto {
	return []*descriptorpb.FileDescriptorProto{
		{
			Name:    proto.String("trac/metadata/object.proto"),
			Package: proto.String("trac.metadata"),
			EnumType: []*descriptorpb.EnumDescriptorProto{
				{Name: proto.String("ObjectType")},
			},
			MessageType: []*descriptorpb.DescriptorProto{
				{
					Name: proto.String("Tag"),
					NestedType: []*descriptorpb.DescriptorProto{
						{
							Name: proto.String("Header"),
							NestedType: []*descriptorpb.DescriptorProto{
								{Name: proto.String("Header")},
							},
						},
					},
					EnumType: []*descriptorpb.EnumDescriptorProto{
						{Name: proto.String("Kind")},
					},
				},
				{Name: proto.String("Header")},
			},
			Service: []*descriptorpb.ServiceDescriptorProto{
				{Name: proto.String("TagService")},
			},
		},
		{
			Name: proto.String("root.proto"),
			MessageType: []*descriptorpb.DescriptorProto{
				{Name: proto.String("Root")},
			},
		},
	}
}

func TestBuildTypeRegistry(t *testing.T) {
	r := BuildTypeRegistry(sampleFiles())

	assert.Equal(t, 8, r.Len())

	tests := []struct {
		name string
		kind Kind
	}{
		{".trac.metadata.ObjectType", KindEnum},
		{"trac.metadata.Header", KindMessage},
		{"trac.metadata.Tag.Header", KindMessage},
		{"trac.metadata.Tag", KindMessage},
		{".trac.metadata.Tag.Header.Header", KindMessage},
		{".trac.metadata.Tag.Kind", KindEnum},
		{"trac.metadata.TagService", KindService},
		{".Root", KindMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, ok := r.Lookup(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.kind, info.Kind)
		})
	}

	_, ok := r.Lookup(".trac.metadata.Missing")
	assert.False(t, ok)
}

func TestTypeInfo(t *testing.T) {
	tests := []struct {
		info TypeInfo
		name string
		kind string
	}{
		{EnumInfo(&descriptorpb.EnumDescriptorProto{Name: proto.String("E")}), "E", "enum"},
		{MessageInfo(&descriptorpb.DescriptorProto{Name: proto.String("M")}), "M", "message"},
		{ServiceInfo(&descriptorpb.ServiceDescriptorProto{Name: proto.String("S")}), "S", "service"},
		{TypeInfo{}, "", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.info.Name())
			assert.Equal(t, tt.kind, tt.info.Kind.String())
		})
	}
}

func TestBuildTypeRegistry_PropertyUniqueNames(t *testing.T) {
	// Test: every declaration of a random nesting tree is registered once,
	// even when simple names repeat at different depths

	for i := 0; i < 50; i++ {
		t.Run(fmt.Sprintf("random_tree_%d", i), func(t *testing.T) {
			rng := rand.New(rand.NewSource(int64(i)))

			file := &descriptorpb.FileDescriptorProto{
				Name:    proto.String("p/random.proto"),
				Package: proto.String("p"),
			}
			kinds := make(map[string]Kind)
			for j, n := 0, rng.Intn(4)+1; j < n; j++ {
				name := fmt.Sprintf("M%d", j)
				file.MessageType = append(file.MessageType, randomMessage(rng, "p."+name, name, 0, kinds))
			}

			r := BuildTypeRegistry([]*descriptorpb.FileDescriptorProto{file})
			assert.Equal(t, len(kinds), r.Len())

			for name, kind := range kinds {
				info, ok := r.Lookup(name)
				require.True(t, ok, "missing %s", name)
				assert.Equal(t, kind, info.Kind, name)
			}
		})
	}
}

// randomMessage builds a message tree whose nested types reuse the same
// simple names at every level, recording each full name in kinds
func randomMessage(rng *rand.Rand, fullName, name string, depth int, kinds map[string]Kind) *descriptorpb.DescriptorProto {
	kinds[fullName] = KindMessage
	msg := &descriptorpb.DescriptorProto{Name: proto.String(name)}

	if depth >= 3 {
		return msg
	}

	for j, n := 0, rng.Intn(3); j < n; j++ {
		nested := fmt.Sprintf("M%d", j)
		msg.NestedType = append(msg.NestedType, randomMessage(rng, fullName+"."+nested, nested, depth+1, kinds))
	}
	for j, n := 0, rng.Intn(2); j < n; j++ {
		enum := fmt.Sprintf("E%d", j)
		kinds[fullName+"."+enum] = KindEnum
		msg.EnumType = append(msg.EnumType, &descriptorpb.EnumDescriptorProto{Name: proto.String(enum)})
	}

	return msg
}
