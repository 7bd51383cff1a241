package commands

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog"

	"github.com/tracdap/tracgen/internal/config"
)

type InitOptions struct {
	ImportPath    string
	Out           string
	TargetPackage string
	FlatPack      bool
}

type InitCommand struct {
	filesystem FileSystem
	logger     zerolog.Logger
	// For testing: if set, skip prompting
	testOptions *InitOptions
}

func NewInitCommand(logger zerolog.Logger) *InitCommand {
	return &InitCommand{
		filesystem: &osFileSystem{},
		logger:     logger,
	}
}

func (c *Controller) Init(ctx context.Context) error {
	cmd := NewInitCommand(c.Logger)
	return cmd.Run(ctx)
}

func (ic *InitCommand) Run(ctx context.Context) error {
	return ic.RunWithOptions(ctx)
}

func (ic *InitCommand) RunWithOptions(ctx context.Context, opts ...tea.ProgramOption) error {
	dir, err := ic.filesystem.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	configPath := filepath.Join(dir, config.FileName)
	if _, err := ic.filesystem.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists in %s", config.FileName, dir)
	}

	var options *InitOptions

	// For testing: use provided options instead of prompting
	if ic.testOptions != nil {
		options = ic.testOptions
	} else {
		options, err = ic.promptInitOptions(opts...)
		if err != nil {
			return fmt.Errorf("failed to get init options: %w", err)
		}
	}

	cfg := config.DefaultConfig()
	cfg.ImportPaths = []string{options.ImportPath}
	cfg.Out = options.Out
	cfg.Options.TargetPackage = options.TargetPackage
	cfg.Options.FlatPack = options.FlatPack

	data, err := cfg.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := ic.filesystem.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	ic.logger.Info().Str("path", configPath).Msg("created project config")
	return nil
}

func (ic *InitCommand) promptInitOptions(opts ...tea.ProgramOption) (*InitOptions, error) {
	options := &InitOptions{
		ImportPath:    ".",
		Out:           "./gen",
		TargetPackage: config.DefaultTargetPackage,
	}

	form := ic.createInitForm(options)

	if len(opts) > 0 {
		// For testing: run with provided options
		program := tea.NewProgram(form, opts...)
		if _, err := program.Run(); err != nil {
			return nil, err
		}
	} else {
		// Normal execution
		if err := form.Run(); err != nil {
			return nil, err
		}
	}

	return options, nil
}

func (ic *InitCommand) createInitForm(options *InitOptions) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Proto import path").
				Description("Directory that .proto imports are resolved against").
				Value(&options.ImportPath).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("import path cannot be empty")
					}
					if _, err := ic.filesystem.Stat(s); err != nil {
						return fmt.Errorf("directory %s does not exist", s)
					}
					return nil
				}),

			huh.NewInput().
				Title("Output directory").
				Description("Where generated Python packages are written").
				Value(&options.Out).
				Validate(notEmpty("output directory")),

			huh.NewInput().
				Title("Target package").
				Description("Python root package for cross-package imports").
				Value(&options.TargetPackage).
				Validate(notEmpty("target package")),

			huh.NewConfirm().
				Title("Flat pack").
				Description("Generate one module per package instead of one per file").
				Value(&options.FlatPack),
		),
	)
}

func notEmpty(what string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s cannot be empty", what)
		}
		return nil
	}
}
