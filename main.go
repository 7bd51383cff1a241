package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/tracdap/tracgen/internal/codegen"
	"github.com/tracdap/tracgen/internal/commands"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

// generateFlags are shared by generate and watch
func generateFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to tracgen.yaml (default: search the working directory and its parents)",
		},
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "output directory for generated code",
		},
		&cli.StringSliceFlag{
			Name:    "proto-path",
			Aliases: []string{"I"},
			Usage:   "directory searched for .proto imports (repeatable)",
		},
		&cli.StringFlag{
			Name:  "target-package",
			Usage: "Python root package for cross-package imports",
		},
		&cli.StringFlag{
			Name:  "packages",
			Usage: "only generate this proto package and its sub-packages",
		},
		&cli.BoolFlag{
			Name:  "flat-pack",
			Usage: "generate one module per package",
		},
		&cli.StringFlag{
			Name:  "lang",
			Usage: "target language (" + strings.Join(codegen.DefaultRegistry.Languages(), ", ") + ")",
		},
	}
}

func readFlags(flags *commands.Flags, c *cli.Command) {
	flags.ConfigPath = c.String("config")
	flags.Out = c.String("out")
	flags.ProtoPaths = c.StringSlice("proto-path")
	flags.TargetPackage = c.String("target-package")
	flags.Packages = c.String("packages")
	flags.FlatPack = c.Bool("flat-pack")
	flags.Language = c.String("lang")
	flags.Files = c.Args().Slice()
}

func main() {
	ctrl := &commands.Controller{
		Flags: &commands.Flags{},
	}

	// stdout carries the plugin response, so logs always go to stderr
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	app := &cli.Command{
		Name:    "tracgen",
		Usage:   "Generate Python dataclasses from protobuf schemas. Without a command, runs as a protoc plugin.",
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("TRACGEN_LOG_LEVEL"),
				Value:   "warn",
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level, err := zerolog.ParseLevel(c.String("log-level"))
			if err != nil {
				return ctx, fmt.Errorf("failed to parse log level: %w", err)
			}

			log.Logger = log.Level(level)
			ctrl.Logger = log.Logger

			return ctx, nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return ctrl.Plugin(ctx)
		},
		Commands: []*cli.Command{
			{
				Name:      "generate",
				Usage:     "Compile .proto files and write generated code",
				ArgsUsage: "[file.proto ...]",
				Flags:     generateFlags(),
				Action: func(ctx context.Context, c *cli.Command) error {
					readFlags(ctrl.Flags, c)
					return ctrl.Generate(ctx)
				},
			},
			{
				Name:      "watch",
				Usage:     "Regenerate code whenever .proto files change",
				ArgsUsage: "[file.proto ...]",
				Flags:     generateFlags(),
				Action: func(ctx context.Context, c *cli.Command) error {
					readFlags(ctrl.Flags, c)
					return ctrl.Watch(ctx)
				},
			},
			{
				Name:  "init",
				Usage: "Create a tracgen.yaml project config",
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Init(ctx)
				},
			},
		},
	}

	ctx := context.Background()

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run tracgen")
	}
}
