package watch

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// RegenerateFunc runs one full generation pass
type RegenerateFunc func(ctx context.Context) error

// Session regenerates code whenever a watched source changes. Regeneration
// passes never overlap; a change that arrives during a pass schedules exactly
// one more pass after it.
type Session struct {
	root       string
	regenerate RegenerateFunc
	logger     zerolog.Logger

	mu      sync.Mutex
	running bool
	pending bool

	// ctx is the context of the running Watch call
	ctx context.Context
}

// NewSession creates a session rooted at root. Paths in log messages are
// relative to root.
func NewSession(root string, regenerate RegenerateFunc, logger zerolog.Logger) *Session {
	return &Session{
		root:       root,
		regenerate: regenerate,
		logger:     logger,
		ctx:        context.Background(),
	}
}

// Watch runs an initial pass, then regenerates on every change the watcher
// reports until ctx is done. A failed pass is logged and watching continues.
func (s *Session) Watch(ctx context.Context, patterns, exclude []string) error {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	s.runPass()

	fw, err := NewFileWatcher(patterns, exclude, s.HandleFileChange, s.logger)
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.AddDirectory(s.root); err != nil {
		return err
	}

	s.logger.Info().Str("root", s.root).Strs("patterns", patterns).Msg("watching for changes")

	err = fw.Start(ctx)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// HandleFileChange is called when a watched file changes
func (s *Session) HandleFileChange(path string, op fsnotify.Op) {
	// Ignore temporary files
	if strings.Contains(path, ".tmp") || strings.HasSuffix(path, "~") {
		return
	}

	var action string
	switch {
	case op.Has(fsnotify.Create):
		action = "created"
	case op.Has(fsnotify.Write):
		action = "modified"
	case op.Has(fsnotify.Remove):
		action = "deleted"
	case op.Has(fsnotify.Rename):
		action = "renamed"
	default:
		return
	}

	relPath, err := filepath.Rel(s.root, path)
	if err != nil {
		relPath = path
	}
	s.logger.Info().Str("file", relPath).Str("action", action).Msg("source changed")

	s.mu.Lock()
	if s.running {
		s.pending = true
		s.mu.Unlock()
		s.logger.Debug().Msg("generation in progress, queued another pass")
		return
	}
	s.running = true
	s.mu.Unlock()

	go s.drain()
}

// drain runs passes until no change is pending
func (s *Session) drain() {
	for {
		s.execute()

		s.mu.Lock()
		if !s.pending {
			s.running = false
			s.mu.Unlock()
			return
		}
		s.pending = false
		s.mu.Unlock()
	}
}

// runPass runs one pass synchronously unless a pass is already running
func (s *Session) runPass() {
	s.mu.Lock()
	if s.running {
		s.pending = true
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.drain()
}

func (s *Session) execute() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	if ctx.Err() != nil {
		return
	}

	start := time.Now()
	if err := s.regenerate(ctx); err != nil {
		s.logger.Error().Err(err).Msg("generation failed")
		return
	}
	s.logger.Info().Dur("elapsed", time.Since(start)).Msg("generation completed")
}

// Idle reports whether no pass is running or queued
func (s *Session) Idle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.running && !s.pending
}
