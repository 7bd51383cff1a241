package codegen

import (
	"github.com/rs/zerolog"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/tracdap/tracgen/internal/codegen/writer"
	"github.com/tracdap/tracgen/internal/config"
	"github.com/tracdap/tracgen/internal/schema"
)

// Generator is the interface that all language-specific code generators must implement
type Generator interface {
	// GeneratePackage generates the output files for one proto package from
	// the files that declare it, in input order
	GeneratePackage(pkg string, files []*descriptorpb.FileDescriptorProto) ([]writer.File, error)

	// Language returns the name of the target language (e.g., "python")
	Language() string

	// FileExtension returns the file extension for generated files (e.g., ".py")
	FileExtension() string
}

// Factory creates a generator for one run. The type registry covers every
// file of the compilation unit, not just the files being generated.
type Factory func(opts config.Options, types *schema.TypeRegistry, logger zerolog.Logger) (Generator, error)
