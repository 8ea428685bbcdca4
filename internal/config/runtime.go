package config

import (
	"log/slog"
	"net"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vango-dev/introsite/internal/errors"
)

// Mode is the deployment mode.
type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
)

// Environment variable names read by FromEnv.
const (
	EnvMode      = "NODE_ENV"
	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"
)

// Runtime is the immutable configuration the server runs with. It is built
// once at startup and never changes; the zero value is not usable.
type Runtime struct {
	mode      Mode
	port      int
	host      string
	logLevel  slog.Level
	logFormat string
	project   Config
}

// FromEnv combines the project configuration with the environment.
// getenv is usually os.Getenv.
func FromEnv(cfg *Config, getenv func(string) string) (Runtime, error) {
	rt := Runtime{
		mode:      ModeDevelopment,
		port:      DefaultPort,
		host:      cfg.Server.Host,
		logLevel:  slog.LevelInfo,
		logFormat: "text",
		project:   *cfg,
	}

	if getenv(EnvMode) == "production" {
		rt.mode = ModeProduction
	}

	if raw := strings.TrimSpace(getenv(EnvPort)); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port < 0 || port > 65535 {
			return Runtime{}, errors.New("E122").
				WithDetail("PORT=" + raw + " is not a valid port").
				WithSuggestion("Set PORT to an integer between 0 and 65535")
		}
		rt.port = port
	}

	switch strings.ToLower(getenv(EnvLogLevel)) {
	case "debug":
		rt.logLevel = slog.LevelDebug
	case "warn", "warning":
		rt.logLevel = slog.LevelWarn
	case "error":
		rt.logLevel = slog.LevelError
	}

	if strings.EqualFold(getenv(EnvLogFormat), "json") {
		rt.logFormat = "json"
	}

	return rt, nil
}

// WithPort returns a copy of r listening on port.
func (r Runtime) WithPort(port int) Runtime {
	r.port = port
	return r
}

// Mode returns the deployment mode.
func (r Runtime) Mode() Mode { return r.mode }

// IsProduction reports whether the runtime is in production mode.
func (r Runtime) IsProduction() bool { return r.mode == ModeProduction }

// Port returns the listening port.
func (r Runtime) Port() int { return r.port }

// Addr returns the listen address.
func (r Runtime) Addr() string {
	return net.JoinHostPort(r.host, strconv.Itoa(r.port))
}

// LogLevel returns the configured log level.
func (r Runtime) LogLevel() slog.Level { return r.logLevel }

// LogFormat returns "text" or "json".
func (r Runtime) LogFormat() string { return r.logFormat }

// Root returns the project root.
func (r Runtime) Root() string { return r.project.Dir() }

// Project returns a copy of the project configuration.
func (r Runtime) Project() Config { return r.project }

// TemplatePath returns the HTML template for the active mode.
func (r Runtime) TemplatePath() string {
	if r.IsProduction() {
		return filepath.Join(r.project.ClientOutputPath(), "index.html")
	}
	return r.project.TemplatePath()
}

// StaticDirs returns the directories static assets are served from, in
// lookup order.
func (r Runtime) StaticDirs() []string {
	if r.IsProduction() {
		return []string{r.project.ClientOutputPath()}
	}
	return []string{r.project.PublicPath(), r.project.ClientPath()}
}

// SourceEntry returns the source module loaded in development.
func (r Runtime) SourceEntry() string {
	return r.project.SourcePath()
}

// BundleCandidates returns the absolute render bundle candidates in
// priority order.
func (r Runtime) BundleCandidates() []string {
	out := make([]string, 0, len(r.project.Bundle.Candidates))
	for _, c := range r.project.Bundle.Candidates {
		out = append(out, r.project.Resolve(c))
	}
	return out
}
