package ssr

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"strconv"
	"syscall"
	"time"

	"github.com/vango-dev/introsite/internal/errors"
)

// Listen binds the configured address. A port held by another process is
// E210; any other bind failure is E211.
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.rt.Addr())
	if err != nil {
		if stderrors.Is(err, syscall.EADDRINUSE) {
			return nil, errors.New("E210").
				WithDetail("port " + strconv.Itoa(s.rt.Port()) + " is already in use").
				WithSuggestion("Stop the other process or set PORT to a free port").
				Wrap(err)
		}
		return nil, errors.New("E211").
			WithDetail("listen on " + s.rt.Addr()).
			Wrap(err)
	}
	return ln, nil
}

// ListenAndServe binds and serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.New("E211").Wrap(err)

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
		s.logger.Info("server shutdown complete")
		return nil
	}
}
