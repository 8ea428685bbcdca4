package main

import (
	"context"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/introsite/internal/build"
	"github.com/vango-dev/introsite/internal/config"
)

func buildCmd(dir *string) *cobra.Command {
	var (
		output string
		shape  string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build for production",
		Long: `Build the site for production.

This command:
  • Fingerprints the client bootstrap and public/ assets
  • Rewrites the template to reference the hashed files
  • Writes the render bundle the production server loads
  • Generates the asset manifest

Examples:
  introsite build
  introsite build --output=out
  introsite build --export-shape=default`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, *dir, output, shape)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (default from introsite.json)")
	cmd.Flags().StringVar(&shape, "export-shape", "", "Render export shape: named, default-property or default")

	return cmd
}

func runBuild(cmd *cobra.Command, dir, output, shape string) error {
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	if output != "" {
		cfg.Build.Output = output
	}

	out := cmd.OutOrStdout()
	info(out, "Building for production...")

	builder := build.New(cfg, build.Options{
		ExportShape: shape,
		OnProgress: func(step string) {
			info(out, step)
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := builder.Build(ctx)
	if err != nil {
		return err
	}

	success(out, "Build complete in %s", result.Duration.Round(1000000))
	if result.ClientEmbedded {
		warn(out, "No %s found, shipped the built-in client", filepath.Join(cfg.Paths.Client, config.ClientEntry))
	}
	rel := func(p string) string {
		if r, err := filepath.Rel(cfg.Dir(), p); err == nil {
			return r
		}
		return p
	}
	info(out, "Template: %s", rel(result.Template))
	info(out, "Client:   %s", rel(result.ClientFile))
	info(out, "Bundle:   %s (%s export)", rel(result.Bundle), result.ExportShape)
	info(out, "Assets:   %d", result.Manifest.Len())
	info(out, "To run:   NODE_ENV=production introsite serve")
	return nil
}
