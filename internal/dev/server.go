package dev

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/vango-dev/introsite/internal/config"
)

// Options configures the development server.
type Options struct {
	// Config is the project configuration.
	Config *config.Config

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Interval overrides the watcher polling interval.
	Interval time.Duration

	// OnReload is called after browsers were told to reload.
	OnReload func(clients int)
}

// Server coordinates the Tool, the file Watcher and the ReloadServer.
type Server struct {
	config   *config.Config
	tool     *Tool
	watcher  *Watcher
	reload   *ReloadServer
	logger   *slog.Logger
	onReload func(int)
	changeCh chan Change
}

// NewServer creates a development server for the project.
func NewServer(opts Options) *Server {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:   cfg,
		tool:     NewTool(cfg.HotReloadEnabled()),
		logger:   logger.With("component", "dev"),
		onReload: opts.OnReload,
		changeCh: make(chan Change, 64),
		watcher: NewWatcher(WatcherConfig{
			Paths:    cfg.WatchPaths(),
			Ignore:   append(append([]string{}, DefaultIgnore...), cfg.Dev.Ignore...),
			Interval: opts.Interval,
		}),
	}
	if cfg.HotReloadEnabled() {
		s.reload = NewReloadServer()
	}
	return s
}

// Tool returns the ssr.DevTool implementation.
func (s *Server) Tool() *Tool { return s.tool }

// ReloadHandler returns the WebSocket endpoint, or nil when live reload is
// disabled.
func (s *Server) ReloadHandler() http.Handler {
	if s.reload == nil {
		return nil
	}
	return s.reload
}

// Start watches for changes until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.watcher.OnChange(func(change Change) {
		select {
		case s.changeCh <- change:
		default:
		}
	})

	go s.processChanges(ctx)
	s.logger.Info("watching for changes", "paths", s.config.WatchPaths())

	err := s.watcher.Start(ctx)
	if s.reload != nil {
		s.reload.Close()
	}
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// processChanges serializes change handling and coalesces bursts.
func (s *Server) processChanges(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case change := <-s.changeCh:
			changes := []Change{change}
			for draining := true; draining; {
				select {
				case next := <-s.changeCh:
					changes = append(changes, next)
				default:
					draining = false
				}
			}
			s.handleChanges(ctx, changes)
		}
	}
}

// handleChanges invalidates the module cache on source changes and tells
// browsers to reload. A stylesheet-only batch reloads stylesheets in place.
func (s *Server) handleChanges(ctx context.Context, changes []Change) {
	if len(changes) == 0 {
		return
	}

	cssOnly := true
	hasSource := false
	for _, change := range changes {
		s.logger.Info("changed", "path", change.Path, "type", change.Type.String())
		if change.Type != ChangeCSS {
			cssOnly = false
		}
		if change.Type == ChangeSource {
			hasSource = true
		}
	}

	if hasSource {
		s.tool.Invalidate()
		if _, err := s.tool.LoadSourceModule(ctx, s.config.SourcePath()); err != nil {
			s.logger.Error("profile source invalid", "error", err)
			s.notifyError(err.Error())
			return
		}
		s.clearError()
	}

	if cssOnly {
		if s.reload != nil {
			s.reload.NotifyCSS(changes[0].Path)
		}
		return
	}
	s.notifyReload()
}

func (s *Server) notifyReload() {
	if s.reload == nil {
		s.logger.Info("live reload disabled; refresh the browser")
		return
	}
	s.reload.NotifyReload()
	if s.onReload != nil {
		s.onReload(s.reload.ClientCount())
	}
	s.logger.Debug("reloaded browsers", "clients", s.reload.ClientCount())
}

func (s *Server) notifyError(msg string) {
	if s.reload != nil {
		s.reload.NotifyError(msg)
	}
}

func (s *Server) clearError() {
	if s.reload != nil {
		s.reload.ClearError()
	}
}
