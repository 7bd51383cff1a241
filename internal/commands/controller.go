// Package commands contains the CLI commands for the application
package commands

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/tracdap/tracgen/internal/codegen"
	"github.com/tracdap/tracgen/internal/plugin"
)

type Flags struct {
	ConfigPath    string
	Out           string
	ProtoPaths    []string
	TargetPackage string
	Packages      string
	FlatPack      bool
	Language      string
	Files         []string
}

type Controller struct {
	Flags  *Flags
	Logger zerolog.Logger

	// Stdin and Stdout carry the plugin protocol; nil means the process streams
	Stdin  io.Reader
	Stdout io.Writer
}

// Plugin runs as a protoc plugin: one request on stdin, one response on stdout
func (c *Controller) Plugin(ctx context.Context) error {
	stdin, stdout := c.Stdin, c.Stdout
	if stdin == nil {
		stdin = os.Stdin
	}
	if stdout == nil {
		stdout = os.Stdout
	}

	return plugin.Run(stdin, stdout, codegen.DefaultRegistry, c.Logger)
}

func (c *Controller) Generate(ctx context.Context) error {
	return NewGenerateCommand(c.Flags, c.Logger).Run(ctx)
}

func (c *Controller) Watch(ctx context.Context) error {
	return NewWatchCommand(c.Flags, c.Logger).Run(ctx)
}
