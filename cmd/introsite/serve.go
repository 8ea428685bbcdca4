package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/introsite/internal/config"
	"github.com/vango-dev/introsite/internal/dev"
	"github.com/vango-dev/introsite/internal/errors"
	"github.com/vango-dev/introsite/pkg/ssr"
)

func serveCmd(dir *string) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the page server",
		Long: `Run the page server.

Every GET path answers with the rendered page. Static files are served
from public/ and client/ in development and from dist/client in
production.

Environment:
  NODE_ENV    "production" selects production mode
  PORT        listening port (default 3000)
  LOG_LEVEL   debug, info, warn or error
  LOG_FORMAT  text or json

Examples:
  introsite serve
  NODE_ENV=production PORT=8080 introsite serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, *dir, host, port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (overrides PORT)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default all interfaces)")

	return cmd
}

func runServe(cmd *cobra.Command, dir, host string, port int) error {
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	if host != "" {
		cfg.Server.Host = host
	}

	rt, err := config.FromEnv(cfg, os.Getenv)
	if err != nil {
		return err
	}
	if port > 0 {
		rt = rt.WithPort(port)
	}

	logger := newLogger(cmd.ErrOrStderr(), rt)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := ssr.Options{Runtime: rt, Logger: logger}
	if !rt.IsProduction() {
		devServer := dev.NewServer(dev.Options{
			Config: cfg,
			Logger: logger,
			OnReload: func(clients int) {
				logger.Info("browsers reloaded", "clients", clients)
			},
		})
		opts.Dev = devServer.Tool()
		opts.Reload = devServer.ReloadHandler()

		devCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := devServer.Start(devCtx); err != nil {
				logger.Error("dev server stopped", "error", err)
			}
		}()
	}

	srv, err := ssr.New(opts)
	if err != nil {
		return err
	}

	logger.Info("starting", "mode", string(rt.Mode()), "port", rt.Port(), "root", rt.Root())
	if err := srv.ListenAndServe(ctx); err != nil {
		if errors.HasCode(err, "E210") {
			logger.Error("port already in use", "port", rt.Port())
		} else {
			logger.Error("server failed", "error", err)
		}
		return err
	}
	return nil
}
