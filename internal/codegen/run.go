package codegen

import (
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/tracdap/tracgen/internal/codegen/writer"
	"github.com/tracdap/tracgen/internal/config"
	"github.com/tracdap/tracgen/internal/schema"
)

// Request is one generation run
type Request struct {
	// Files is the full compilation unit, dependencies included
	Files []*descriptorpb.FileDescriptorProto

	// FilesToGenerate names the files to emit code for. Empty means all of Files.
	FilesToGenerate []string

	Options config.Options
}

// packageFiles is the set of requested files declaring one package
type packageFiles struct {
	name  string
	files []*descriptorpb.FileDescriptorProto
}

// Run generates code for the requested files. The first error aborts the run
// and no output is returned.
func Run(req Request, registry *Registry, logger zerolog.Logger) ([]writer.File, error) {
	opts := req.Options.WithDefaults()

	types := schema.BuildTypeRegistry(req.Files)
	logger.Debug().Int("types", types.Len()).Int("files", len(req.Files)).Msg("built type registry")

	gen, err := registry.Get(opts.Language, opts, types, logger)
	if err != nil {
		return nil, err
	}

	packages, err := groupPackages(req.Files, req.FilesToGenerate)
	if err != nil {
		return nil, err
	}

	var output []writer.File
	for _, pkg := range packages {
		files, err := gen.GeneratePackage(pkg.name, pkg.files)
		if err != nil {
			return nil, fmt.Errorf("failed to generate package %q: %w", pkg.name, err)
		}
		output = append(output, files...)
	}

	logger.Info().
		Str("language", gen.Language()).
		Int("packages", len(packages)).
		Int("outputs", len(output)).
		Msg("generation complete")

	return output, nil
}

// groupPackages groups the requested files by package, keeping packages in
// order of first appearance and files in request order
func groupPackages(all []*descriptorpb.FileDescriptorProto, names []string) ([]packageFiles, error) {
	byName := make(map[string]*descriptorpb.FileDescriptorProto, len(all))
	for _, file := range all {
		byName[file.GetName()] = file
	}

	requested := all
	if len(names) > 0 {
		requested = make([]*descriptorpb.FileDescriptorProto, 0, len(names))
		for _, name := range names {
			file, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("file to generate not found in request: %s", name)
			}
			requested = append(requested, file)
		}
	}

	var packages []packageFiles
	index := make(map[string]int)
	for _, file := range requested {
		pkg := file.GetPackage()
		i, ok := index[pkg]
		if !ok {
			i = len(packages)
			index[pkg] = i
			packages = append(packages, packageFiles{name: pkg})
		}
		packages[i].files = append(packages[i].files, file)
	}

	return packages, nil
}
