package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/tracdap/tracgen/internal/watch"
)

type WatchCommand struct {
	generate *GenerateCommand
	logger   zerolog.Logger
}

func NewWatchCommand(flags *Flags, logger zerolog.Logger) *WatchCommand {
	return &WatchCommand{
		generate: NewGenerateCommand(flags, logger),
		logger:   logger,
	}
}

// Run regenerates on every source change until interrupted
func (wc *WatchCommand) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	proj, err := wc.generate.resolveProject()
	if err != nil {
		return err
	}

	session := watch.NewSession(proj.root, wc.generate.Run, wc.logger)
	return session.Watch(ctx, proj.config.Watch.Patterns, proj.config.Watch.Exclude)
}
