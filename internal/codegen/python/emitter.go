package python

import (
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/tracdap/tracgen/internal/codegen/writer"
	"github.com/tracdap/tracgen/internal/schema"
)

// declaration is a node handed to the emitter
type declaration struct {
	info schema.TypeInfo

	// scope is the dotted path of enclosing messages inside the file, empty
	// for top-level declarations
	scope string

	// fullName is the fully-qualified proto name
	fullName string
}

// emitter renders the declarations of one proto file
type emitter struct {
	pkg    string
	types  *schema.TypeRegistry
	fields schema.FieldTable
	logger zerolog.Logger
}

// emit is the single entry point for every declaration kind
func (e *emitter) emit(ctx schema.Context, decl declaration) (*writer.Fragment, error) {
	switch decl.info.Kind {
	case schema.KindEnum:
		return e.emitEnum(ctx, decl)
	case schema.KindMessage:
		return e.emitMessage(ctx, decl)
	case schema.KindService:
		return e.emitService(ctx, decl)
	default:
		return nil, fmt.Errorf("unsupported declaration kind: %s", decl.info.Kind)
	}
}

func (e *emitter) emitEnum(ctx schema.Context, decl declaration) (*writer.Fragment, error) {
	enum := decl.info.Enum

	// The dataclass default for an enum field is evaluated when the enclosing
	// class body runs, so the enum must already exist at module level.
	if decl.scope != "" {
		name := decl.scope + "." + enum.GetName()
		e.logger.Error().Str("enum", name).Msg("nested enums are not supported")
		return nil, schema.NewGenerationError(schema.ErrNestedEnum, name, "")
	}

	e.logger.Debug().Str("enum", decl.fullName).Msg("generating enum")

	scope := ctx.Scope()
	w := writer.NewWriterAt(indentUnit, ctx.Depth)

	w.WriteLinef("class %s(_enum.Enum):", enum.GetName())
	w.Newline()
	w.WriteRaw(docstring(scope.LeadingComment(), ctx.Depth+1))
	w.Indent()

	if len(enum.GetValue()) == 0 {
		w.WriteLine("pass")
		w.Newline()
		return writer.Text("enum:"+enum.GetName(), w.String()), nil
	}

	values := schema.Under(scope, e.fields.EnumValue, ctx.Depth+1)
	for i, value := range enum.GetValue() {
		valueCtx := values.Step(i)
		comment := inlineDocstring(valueCtx.Scope().LeadingComment(), valueCtx.Depth)

		w.Writef("%s = %d,", value.GetName(), value.GetNumber())
		if comment != "" {
			w.Write(" " + comment)
		}
		w.Newline()
		w.Newline()
	}

	return writer.Text("enum:"+enum.GetName(), w.String()), nil
}

func (e *emitter) emitMessage(ctx schema.Context, decl declaration) (*writer.Fragment, error) {
	msg := decl.info.Message

	e.logger.Debug().
		Str("message", decl.fullName).
		Int("depth", ctx.Depth).
		Msg("generating message")

	scope := ctx.Scope()
	nestedScope := msg.GetName()
	if decl.scope != "" {
		nestedScope = decl.scope + "." + msg.GetName()
	}

	header := writer.NewWriterAt(indentUnit, ctx.Depth)
	header.WriteLine("@_dc.dataclass")
	header.WriteLinef("class %s:", msg.GetName())
	header.Newline()
	header.WriteRaw(docstring(scope.LeadingComment(), ctx.Depth+1))

	nestedEnums := writer.Join("enums", "")
	enumCtx := schema.Under(scope, e.fields.MessageEnum, ctx.Depth+1)
	for i, enum := range msg.GetEnumType() {
		frag, err := e.emit(enumCtx.Step(i), declaration{
			info:     schema.EnumInfo(enum),
			scope:    nestedScope,
			fullName: decl.fullName + "." + enum.GetName(),
		})
		if err != nil {
			return nil, err
		}
		nestedEnums.Add(frag)
	}

	nestedTypes := writer.Join("classes", "")
	nestedCtx := schema.Under(scope, e.fields.MessageNested, ctx.Depth+1)
	for i, nested := range msg.GetNestedType() {
		// Map entry types only describe the key and value of a map field
		if nested.GetOptions().GetMapEntry() {
			continue
		}
		frag, err := e.emit(nestedCtx.Step(i), declaration{
			info:     schema.MessageInfo(nested),
			scope:    nestedScope,
			fullName: decl.fullName + "." + nested.GetName(),
		})
		if err != nil {
			return nil, err
		}
		nestedTypes.Add(frag)
	}

	members, err := e.emitMembers(schema.Under(scope, e.fields.MessageField, ctx.Depth+1), decl)
	if err != nil {
		return nil, err
	}

	return writer.Join("message:"+msg.GetName(), "",
		writer.Text("header", header.String()),
		nestedEnums,
		nestedTypes,
		members,
	), nil
}

func (e *emitter) emitMembers(ctx schema.Context, decl declaration) (*writer.Fragment, error) {
	msg := decl.info.Message
	members := writer.Join("members", "")

	if len(msg.GetField()) == 0 {
		return members.Add(writer.Text("pass", indent(ctx.Depth)+"pass\n\n")), nil
	}

	for i, field := range msg.GetField() {
		member, err := e.emitMember(ctx.Step(i), decl, field)
		if err != nil {
			return nil, err
		}
		members.Add(member)
	}

	return members, nil
}

func (e *emitter) emitMember(ctx schema.Context, decl declaration, field *descriptorpb.FieldDescriptorProto) (*writer.Fragment, error) {
	cls := schema.Classify(field, decl.info.Message, decl.fullName)

	typ, err := fieldType(e.pkg, field, cls)
	if err != nil {
		return nil, err
	}
	def, err := defaultValue(e.pkg, field, cls, e.types)
	if err != nil {
		return nil, err
	}

	w := writer.NewWriterAt(indentUnit, ctx.Depth)
	w.WriteLinef("%s: %s = %s", field.GetName(), typ, def)
	w.Newline()
	w.WriteRaw(docstring(ctx.Scope().LeadingComment(), ctx.Depth))

	return writer.Text("member:"+field.GetName(), w.String()), nil
}

func (e *emitter) emitService(ctx schema.Context, decl declaration) (*writer.Fragment, error) {
	svc := decl.info.Service

	e.logger.Debug().Str("service", decl.fullName).Msg("generating service")

	scope := ctx.Scope()
	w := writer.NewWriterAt(indentUnit, ctx.Depth)

	w.WriteLinef("class %s:", svc.GetName())
	w.Newline()
	w.WriteRaw(docstring(scope.LeadingComment(), ctx.Depth+1))
	w.Indent()

	if len(svc.GetMethod()) == 0 {
		w.WriteLine("pass")
		w.Newline()
	}

	methods := schema.Under(scope, e.fields.ServiceMethod, ctx.Depth+1)
	for i, method := range svc.GetMethod() {
		methodCtx := methods.Step(i)

		w.WriteLinef("def %s(self, request: %s) -> %s:",
			method.GetName(),
			typeName(e.pkg, method.GetInputType()),
			typeName(e.pkg, method.GetOutputType()))
		w.Newline()
		w.WriteRaw(docstring(methodCtx.Scope().LeadingComment(), methodCtx.Depth+1))
		w.Indent()
		w.WriteLine("pass")
		w.Newline()
		w.Dedent()
	}

	return writer.Text("service:"+svc.GetName(), w.String()), nil
}
