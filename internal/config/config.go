package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/vango-dev/introsite/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "introsite.json"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultOutput is the default build output directory.
	DefaultOutput = "dist"

	// DefaultTemplate is the HTML template at the project root.
	DefaultTemplate = "index.html"

	// DefaultSource is the profile source read by the development server.
	DefaultSource = "src/profile.yaml"

	// DefaultClient is the directory holding the client bootstrap.
	DefaultClient = "client"

	// DefaultPublic is the directory of static assets.
	DefaultPublic = "public"

	// ClientEntry is the client bootstrap file name inside the client dir.
	ClientEntry = "entry-client.js"
)

// Export shapes the builder can write the render export in.
const (
	ShapeNamed           = "named"
	ShapeDefaultProperty = "default-property"
	ShapeDefault         = "default"
)

// Config represents the complete introsite.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Paths contains source paths relative to the project root.
	Paths PathsConfig `json:"paths,omitempty"`

	// Build contains production build configuration.
	Build BuildConfig `json:"build,omitempty"`

	// Bundle contains render bundle lookup configuration.
	Bundle BundleConfig `json:"bundle,omitempty"`

	// Server contains HTTP listener configuration.
	Server ServerConfig `json:"server,omitempty"`

	// Dev contains development server configuration.
	Dev DevConfig `json:"dev,omitempty"`

	// dir is the project root the config belongs to.
	dir string
}

// PathsConfig contains path configuration for project sources.
type PathsConfig struct {
	// Template is the source HTML template containing the SSR placeholder.
	Template string `json:"template,omitempty"`

	// Source is the profile source module loaded in development.
	Source string `json:"source,omitempty"`

	// Client is the directory containing entry-client.js.
	Client string `json:"client,omitempty"`

	// Public is the directory of static assets.
	Public string `json:"public,omitempty"`
}

// BuildConfig contains production build settings.
type BuildConfig struct {
	// Output is the output directory for builds.
	Output string `json:"output,omitempty"`

	// ExportShape selects where the builder places the render export:
	// "named", "default-property" or "default".
	ExportShape string `json:"exportShape,omitempty"`
}

// BundleConfig contains render bundle lookup settings.
type BundleConfig struct {
	// Candidates are bundle paths tried in order; the first existing wins.
	Candidates []string `json:"candidates,omitempty"`
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	// Host is the interface to bind to. Empty binds all interfaces.
	Host string `json:"host,omitempty"`
}

// DevConfig contains development server settings.
type DevConfig struct {
	// HotReload enables browser live reload in development.
	HotReload *bool `json:"hotReload,omitempty"`

	// Watch contains paths to watch for changes.
	Watch []string `json:"watch,omitempty"`

	// Ignore contains patterns to ignore during watch.
	Ignore []string `json:"ignore,omitempty"`
}

// New creates a new Config with default values rooted at dir.
func New(dir string) *Config {
	c := &Config{dir: dir}
	c.applyDefaults()
	return c
}

// Load reads configuration from the specified directory. A missing
// introsite.json is not an error: defaults are used.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return New(dir), nil
	}
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.dir = filepath.Dir(path)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Dir returns the project root.
func (c *Config) Dir() string {
	return c.dir
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = "introsite"
	}
	if c.Paths.Template == "" {
		c.Paths.Template = DefaultTemplate
	}
	if c.Paths.Source == "" {
		c.Paths.Source = DefaultSource
	}
	if c.Paths.Client == "" {
		c.Paths.Client = DefaultClient
	}
	if c.Paths.Public == "" {
		c.Paths.Public = DefaultPublic
	}
	if c.Build.Output == "" {
		c.Build.Output = DefaultOutput
	}
	if c.Build.ExportShape == "" {
		c.Build.ExportShape = ShapeNamed
	}
	if len(c.Bundle.Candidates) == 0 {
		server := filepath.Join(c.Build.Output, "server")
		c.Bundle.Candidates = []string{
			filepath.Join(server, "entry-server.json"),
			filepath.Join(server, "entry-server.bundle.json"),
			filepath.Join(server, "index.json"),
		}
	}
	if c.Dev.HotReload == nil {
		enabled := true
		c.Dev.HotReload = &enabled
	}
	if c.Dev.Watch == nil {
		c.Dev.Watch = []string{
			filepath.Dir(c.Paths.Source),
			c.Paths.Client,
			c.Paths.Public,
			c.Paths.Template,
		}
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Build.ExportShape {
	case ShapeNamed, ShapeDefaultProperty, ShapeDefault:
	default:
		return errors.New("E120").
			WithDetail("build.exportShape must be one of named, default-property, default; got " + c.Build.ExportShape)
	}
	return nil
}

// Resolve returns p joined to the project root unless it is absolute.
func (c *Config) Resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir, p)
}

// OutputPath returns the build output directory.
func (c *Config) OutputPath() string {
	return c.Resolve(c.Build.Output)
}

// ClientOutputPath returns the directory production static assets are
// served from.
func (c *Config) ClientOutputPath() string {
	return filepath.Join(c.OutputPath(), "client")
}

// ServerOutputPath returns the directory the render bundle is written to.
func (c *Config) ServerOutputPath() string {
	return filepath.Join(c.OutputPath(), "server")
}

// TemplatePath returns the source template path.
func (c *Config) TemplatePath() string {
	return c.Resolve(c.Paths.Template)
}

// SourcePath returns the profile source path.
func (c *Config) SourcePath() string {
	return c.Resolve(c.Paths.Source)
}

// ClientPath returns the client source directory.
func (c *Config) ClientPath() string {
	return c.Resolve(c.Paths.Client)
}

// PublicPath returns the static asset directory.
func (c *Config) PublicPath() string {
	return c.Resolve(c.Paths.Public)
}

// HotReloadEnabled reports whether development live reload is on.
func (c *Config) HotReloadEnabled() bool {
	return c.Dev.HotReload == nil || *c.Dev.HotReload
}

// WatchPaths returns the absolute development watch paths.
func (c *Config) WatchPaths() []string {
	paths := make([]string, 0, len(c.Dev.Watch))
	for _, p := range c.Dev.Watch {
		paths = append(paths, c.Resolve(p))
	}
	return paths
}
