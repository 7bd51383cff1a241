package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/tracdap/tracgen/internal/codegen"
	"github.com/tracdap/tracgen/internal/compiler"
	"github.com/tracdap/tracgen/internal/config"
)

// ProtoCompiler turns .proto paths into descriptors, dependencies first
type ProtoCompiler interface {
	Compile(ctx context.Context, files ...string) ([]*descriptorpb.FileDescriptorProto, error)
}

// project is the resolved configuration of one generation run
type project struct {
	root   string
	config *config.Config
}

type GenerateCommand struct {
	flags      *Flags
	filesystem FileSystem
	logger     zerolog.Logger
	registry   *codegen.Registry

	newCompiler func(importPaths []string, logger zerolog.Logger) ProtoCompiler
}

func NewGenerateCommand(flags *Flags, logger zerolog.Logger) *GenerateCommand {
	return &GenerateCommand{
		flags:      flags,
		filesystem: &osFileSystem{},
		logger:     logger,
		registry:   codegen.DefaultRegistry,
		newCompiler: func(importPaths []string, logger zerolog.Logger) ProtoCompiler {
			return compiler.New(importPaths, logger)
		},
	}
}

func (gc *GenerateCommand) Run(ctx context.Context) error {
	proj, err := gc.resolveProject()
	if err != nil {
		return err
	}
	cfg := proj.config

	files := cfg.Files
	if len(files) == 0 {
		files, err = discoverProtoFiles(cfg.ImportPaths[0], cfg.Watch.Exclude)
		if err != nil {
			return fmt.Errorf("failed to find proto files: %w", err)
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no .proto files found under %s", cfg.ImportPaths[0])
	}

	gc.logger.Info().
		Strs("import_paths", cfg.ImportPaths).
		Int("files", len(files)).
		Str("out", cfg.Out).
		Msg("generating code")

	descriptors, err := gc.newCompiler(cfg.ImportPaths, gc.logger).Compile(ctx, files...)
	if err != nil {
		return err
	}

	output, err := codegen.Run(codegen.Request{
		Files:           descriptors,
		FilesToGenerate: files,
		Options:         cfg.Options,
	}, gc.registry, gc.logger)
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	for _, f := range output {
		path := filepath.Join(cfg.Out, filepath.FromSlash(f.Path))
		if err := gc.filesystem.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := gc.filesystem.WriteFile(path, []byte(f.Content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		gc.logger.Debug().Str("path", path).Msg("wrote file")
	}

	gc.logger.Info().Int("files", len(output)).Str("out", cfg.Out).Msg("code generated")
	return nil
}

// resolveProject loads the project config, applies command line overrides and
// makes every path absolute against the project root
func (gc *GenerateCommand) resolveProject() (*project, error) {
	var (
		cfg  *config.Config
		root string
		err  error
	)

	switch {
	case gc.flags.ConfigPath != "":
		cfg, err = config.LoadConfigFromPath(gc.flags.ConfigPath)
		if err != nil {
			return nil, err
		}
		root, err = filepath.Abs(filepath.Dir(gc.flags.ConfigPath))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve project root: %w", err)
		}
	default:
		cfg, root, err = config.LoadConfig()
		if errors.Is(err, config.ErrConfigNotFound) {
			gc.logger.Debug().Msg("no config file found, using defaults")
			cfg = config.DefaultConfig()
			root, err = gc.filesystem.Getwd()
		}
		if err != nil {
			return nil, err
		}
	}

	gc.applyFlags(cfg)

	for i, p := range cfg.ImportPaths {
		cfg.ImportPaths[i] = absolute(root, p)
	}
	cfg.Out = absolute(root, cfg.Out)

	return &project{root: root, config: cfg}, nil
}

func (gc *GenerateCommand) applyFlags(cfg *config.Config) {
	f := gc.flags

	if f.Out != "" {
		cfg.Out = f.Out
	}
	if len(f.ProtoPaths) > 0 {
		cfg.ImportPaths = f.ProtoPaths
	}
	if f.TargetPackage != "" {
		cfg.Options.TargetPackage = f.TargetPackage
	}
	if f.Packages != "" {
		cfg.Options.Packages = f.Packages
	}
	if f.FlatPack {
		cfg.Options.FlatPack = true
	}
	if f.Language != "" {
		cfg.Options.Language = f.Language
	}
	if len(f.Files) > 0 {
		cfg.Files = f.Files
	}
}

func absolute(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}

// discoverProtoFiles lists the .proto files below dir as slash-separated paths
// relative to it, skipping excluded directories
func discoverProtoFiles(dir string, exclude []string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != dir && isExcluded(d.Name(), exclude) {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(path, ".proto") {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})

	return files, err
}

func isExcluded(name string, exclude []string) bool {
	for _, pattern := range exclude {
		if matched, _ := filepath.Match(strings.TrimSuffix(pattern, "/"), name); matched {
			return true
		}
	}
	return false
}
