package schema

import (
	"strings"

	"google.golang.org/protobuf/types/descriptorpb"
)

// TypeRegistry maps fully-qualified type names to their declarations across
// every file of a compilation unit. It is read-only once built.
type TypeRegistry struct {
	types map[string]TypeInfo
}

// BuildTypeRegistry registers every enum, message and service declared in
// files, including nested declarations. Names have no leading dot.
func BuildTypeRegistry(files []*descriptorpb.FileDescriptorProto) *TypeRegistry {
	r := &TypeRegistry{types: make(map[string]TypeInfo)}

	for _, file := range files {
		scope := ""
		if file.GetPackage() != "" {
			scope = file.GetPackage() + "."
		}

		for _, msg := range file.GetMessageType() {
			r.registerMessage(scope, msg)
		}
		for _, enum := range file.GetEnumType() {
			r.types[scope+enum.GetName()] = EnumInfo(enum)
		}
		for _, svc := range file.GetService() {
			r.types[scope+svc.GetName()] = ServiceInfo(svc)
		}
	}

	return r
}

func (r *TypeRegistry) registerMessage(scope string, msg *descriptorpb.DescriptorProto) {
	inner := scope + msg.GetName() + "."

	for _, nested := range msg.GetNestedType() {
		r.registerMessage(inner, nested)
	}
	for _, enum := range msg.GetEnumType() {
		r.types[inner+enum.GetName()] = EnumInfo(enum)
	}

	r.types[scope+msg.GetName()] = MessageInfo(msg)
}

// Lookup returns the declaration registered under name. A leading dot, as
// used in field type references, is ignored.
func (r *TypeRegistry) Lookup(name string) (TypeInfo, bool) {
	info, ok := r.types[strings.TrimPrefix(name, ".")]
	return info, ok
}

// Len returns the number of registered declarations
func (r *TypeRegistry) Len() int {
	return len(r.types)
}
