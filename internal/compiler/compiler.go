// Package compiler compiles .proto sources into file descriptors with source
// info, in the form protoc hands to a plugin
package compiler

import (
	"context"
	"fmt"

	"github.com/bufbuild/protocompile"
	"github.com/rs/zerolog"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
)

// Compiler wraps a protocompile compiler configured with import paths
type Compiler struct {
	resolver protocompile.Resolver
	logger   zerolog.Logger
}

// New creates a compiler that resolves imports from the given directories.
// The google/protobuf well-known types are always available.
func New(importPaths []string, logger zerolog.Logger) *Compiler {
	return &Compiler{
		resolver: protocompile.WithStandardImports(&protocompile.SourceResolver{
			ImportPaths: importPaths,
		}),
		logger: logger.With().Str("component", "compiler").Logger(),
	}
}

// NewFromSources creates a compiler over in-memory sources keyed by path
func NewFromSources(sources map[string]string, logger zerolog.Logger) *Compiler {
	return &Compiler{
		resolver: protocompile.WithStandardImports(&protocompile.SourceResolver{
			Accessor: protocompile.SourceAccessorFromMap(sources),
		}),
		logger: logger.With().Str("component", "compiler").Logger(),
	}
}

// Compile compiles files and returns them with every transitive dependency.
// Dependencies come before the files that import them.
func (c *Compiler) Compile(ctx context.Context, files ...string) ([]*descriptorpb.FileDescriptorProto, error) {
	compiler := protocompile.Compiler{
		Resolver:       c.resolver,
		SourceInfoMode: protocompile.SourceInfoStandard,
	}

	c.logger.Debug().Strs("files", files).Msg("compiling proto sources")

	results, err := compiler.Compile(ctx, files...)
	if err != nil {
		return nil, fmt.Errorf("failed to compile proto files: %w", err)
	}

	var ordered []*descriptorpb.FileDescriptorProto
	seen := make(map[string]bool)

	var visit func(fd protoreflect.FileDescriptor)
	visit = func(fd protoreflect.FileDescriptor) {
		if seen[fd.Path()] {
			return
		}
		seen[fd.Path()] = true

		imports := fd.Imports()
		for i := 0; i < imports.Len(); i++ {
			visit(imports.Get(i).FileDescriptor)
		}
		ordered = append(ordered, protodesc.ToFileDescriptorProto(fd))
	}

	for _, fd := range results {
		visit(fd)
	}

	c.logger.Debug().Int("descriptors", len(ordered)).Msg("compiled proto sources")
	return ordered, nil
}
