// Package python generates Python dataclass modules from protobuf descriptors
package python

import (
	"path"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/tracdap/tracgen/internal/codegen/writer"
	"github.com/tracdap/tracgen/internal/config"
	"github.com/tracdap/tracgen/internal/schema"
)

const (
	fileHeader = "# Code generated by TRAC\n\n"

	stdImports = "from __future__ import annotations\n" +
		"import typing as _tp  # noqa\n" +
		"import dataclasses as _dc  # noqa\n" +
		"import enum as _enum  # noqa\n\n"

	manifestFile = "__init__.py"
)

// Generator generates Python code for one compilation unit
type Generator struct {
	opts   config.Options
	types  *schema.TypeRegistry
	fields schema.FieldTable
	logger zerolog.Logger
}

// NewGenerator creates a new Python code generator. The type registry must
// cover every file that generated code can reference.
func NewGenerator(opts config.Options, types *schema.TypeRegistry, logger zerolog.Logger) (*Generator, error) {
	fields, err := schema.LoadFieldTable()
	if err != nil {
		return nil, err
	}

	return &Generator{
		opts:   opts.WithDefaults(),
		types:  types,
		fields: fields,
		logger: logger.With().Str("generator", "python").Logger(),
	}, nil
}

// Language returns the name of the target language
func (g *Generator) Language() string {
	return "python"
}

// FileExtension returns the file extension for generated files
func (g *Generator) FileExtension() string {
	return ".py"
}

type packageOutput int

const (
	outputFull packageOutput = iota
	outputPlaceholder
	outputNone
)

// packageFilter decides what to emit for pkg given the packages option
func packageFilter(pkg, filter string) packageOutput {
	switch {
	case filter == "" || pkg == filter || strings.HasPrefix(pkg, filter+"."):
		return outputFull
	case strings.HasPrefix(filter, pkg+"."):
		return outputPlaceholder
	default:
		return outputNone
	}
}

// GeneratePackage generates the output files for one proto package from the
// files that declare it
func (g *Generator) GeneratePackage(pkg string, files []*descriptorpb.FileDescriptorProto) ([]writer.File, error) {
	pkgPath := strings.ReplaceAll(pkg, ".", "/")

	switch packageFilter(pkg, g.opts.Packages) {
	case outputNone:
		g.logger.Debug().Str("package", pkg).Str("filter", g.opts.Packages).Msg("package filtered out")
		return nil, g.checkFiles(files)
	case outputPlaceholder:
		g.logger.Debug().Str("package", pkg).Str("filter", g.opts.Packages).Msg("emitting placeholder package")
		if err := g.checkFiles(files); err != nil {
			return nil, err
		}
		return []writer.File{{Path: path.Join(pkgPath, manifestFile), Content: ""}}, nil
	}

	g.logger.Info().
		Str("package", pkg).
		Int("files", len(files)).
		Bool("flat_pack", g.opts.FlatPack).
		Msg("generating package")

	if g.opts.FlatPack && len(files) > 0 {
		return g.generateFlatPack(pkg, pkgPath, files)
	}

	output := make([]writer.File, 0, len(files)+1)
	manifest := writer.Join("manifest", "", writer.Text("header", strings.TrimSuffix(fileHeader, "\n")))

	for _, file := range files {
		imports := newImportSet(pkg, g.opts.TargetPackage)
		imports.addDependencies(file.GetDependency(), false)

		body, err := g.generateFile(file)
		if err != nil {
			return nil, err
		}

		module := writer.Join("module:"+file.GetName(), "",
			writer.Text("header", fileHeader),
			writer.Text("std_imports", stdImports),
			imports.fragment(),
			body)

		output = append(output, writer.File{
			Path:    path.Join(pkgPath, moduleName(file.GetName())+g.FileExtension()),
			Content: trimTrailingNewlines(module.String()),
		})

		manifest.Add(manifestImports(file))
	}

	output = append(output, writer.File{
		Path:    path.Join(pkgPath, manifestFile),
		Content: manifest.String(),
	})

	return output, nil
}

// checkFiles renders files and discards the output. Filtered packages are
// still generated so that any fatal error aborts the run.
func (g *Generator) checkFiles(files []*descriptorpb.FileDescriptorProto) error {
	for _, file := range files {
		if _, err := g.generateFile(file); err != nil {
			return err
		}
	}
	return nil
}

// generateFlatPack merges every module of the package into <package>.py with
// a single header and import block
func (g *Generator) generateFlatPack(pkg, pkgPath string, files []*descriptorpb.FileDescriptorProto) ([]writer.File, error) {
	imports := newImportSet(pkg, g.opts.TargetPackage)
	bodies := writer.Join("modules", "")

	for _, file := range files {
		imports.addDependencies(file.GetDependency(), true)

		body, err := g.generateFile(file)
		if err != nil {
			return nil, err
		}
		bodies.Add(body)
	}

	module := writer.Join("module:"+pkg, "",
		writer.Text("header", fileHeader),
		writer.Text("std_imports", stdImports),
		imports.fragment(),
		bodies)

	flatPath := pkgPath + g.FileExtension()
	if pkgPath == "" {
		flatPath = manifestFile
	}

	return []writer.File{{Path: flatPath, Content: trimTrailingNewlines(module.String())}}, nil
}

// generateFile renders the enums, messages and services of one proto file
func (g *Generator) generateFile(file *descriptorpb.FileDescriptorProto) (*writer.Fragment, error) {
	g.logger.Debug().Str("file", file.GetName()).Msg("generating file")

	pkg := file.GetPackage()
	e := &emitter{
		pkg:    pkg,
		types:  g.types,
		fields: g.fields,
		logger: g.logger,
	}
	locations := schema.NewTable(file.GetSourceCodeInfo())

	enums := writer.Join("enums", "\n")
	enumCtx := schema.Under(locations, g.fields.FileEnum, 0)
	for i, enum := range file.GetEnumType() {
		frag, err := e.emit(enumCtx.Step(i), declaration{
			info:     schema.EnumInfo(enum),
			fullName: qualify(pkg, enum.GetName()),
		})
		if err != nil {
			return nil, err
		}
		enums.Add(frag)
	}

	messages := writer.Join("messages", "\n")
	messageCtx := schema.Under(locations, g.fields.FileMessage, 0)
	for i, msg := range file.GetMessageType() {
		frag, err := e.emit(messageCtx.Step(i), declaration{
			info:     schema.MessageInfo(msg),
			fullName: qualify(pkg, msg.GetName()),
		})
		if err != nil {
			return nil, err
		}
		messages.Add(frag)
	}

	services := writer.Join("services", "\n")
	serviceCtx := schema.Under(locations, g.fields.FileService, 0)
	for i, svc := range file.GetService() {
		frag, err := e.emit(serviceCtx.Step(i), declaration{
			info:     schema.ServiceInfo(svc),
			fullName: qualify(pkg, svc.GetName()),
		})
		if err != nil {
			return nil, err
		}
		services.Add(frag)
	}

	return writer.Join("body:"+file.GetName(), "",
		enums, writer.Text("", "\n"),
		messages, writer.Text("", "\n"),
		services, writer.Text("", "\n"),
	), nil
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

// trimTrailingNewlines collapses trailing blank lines to a single newline
func trimTrailingNewlines(s string) string {
	for strings.HasSuffix(s, "\n\n") {
		s = s[:len(s)-1]
	}
	return s
}
