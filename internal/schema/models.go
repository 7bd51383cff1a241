// Package schema holds the language-independent view of a compiled protobuf
// schema that code generators consume: the type registry, source locations,
// descriptor field numbers and field classification.
package schema

import (
	"google.golang.org/protobuf/types/descriptorpb"
)

// Kind identifies which declaration a TypeInfo holds
type Kind int

const (
	KindEnum Kind = iota + 1
	KindMessage
	KindService
)

// String returns the lower-case kind name
func (k Kind) String() string {
	switch k {
	case KindEnum:
		return "enum"
	case KindMessage:
		return "message"
	case KindService:
		return "service"
	default:
		return "unknown"
	}
}

// TypeInfo is a tagged declaration. Exactly one of Enum, Message or Service is
// set, matching Kind.
type TypeInfo struct {
	Kind    Kind
	Enum    *descriptorpb.EnumDescriptorProto
	Message *descriptorpb.DescriptorProto
	Service *descriptorpb.ServiceDescriptorProto
}

// Name returns the simple (unqualified) name of the declaration
func (t TypeInfo) Name() string {
	switch t.Kind {
	case KindEnum:
		return t.Enum.GetName()
	case KindMessage:
		return t.Message.GetName()
	case KindService:
		return t.Service.GetName()
	default:
		return ""
	}
}

// EnumInfo wraps an enum descriptor as a TypeInfo
func EnumInfo(e *descriptorpb.EnumDescriptorProto) TypeInfo {
	return TypeInfo{Kind: KindEnum, Enum: e}
}

// MessageInfo wraps a message descriptor as a TypeInfo
func MessageInfo(m *descriptorpb.DescriptorProto) TypeInfo {
	return TypeInfo{Kind: KindMessage, Message: m}
}

// ServiceInfo wraps a service descriptor as a TypeInfo
func ServiceInfo(s *descriptorpb.ServiceDescriptorProto) TypeInfo {
	return TypeInfo{Kind: KindService, Service: s}
}
