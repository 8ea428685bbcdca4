package build

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"

	"github.com/vango-dev/introsite/client"
	"github.com/vango-dev/introsite/internal/app"
	"github.com/vango-dev/introsite/internal/bundle"
	"github.com/vango-dev/introsite/internal/config"
	"github.com/vango-dev/introsite/internal/errors"
	"github.com/vango-dev/introsite/pkg/assets"
)

// BundleName is the render bundle file written under dist/server.
const BundleName = "entry-server.json"

// Result contains the build output.
type Result struct {
	// Duration is how long the build took.
	Duration time.Duration

	// Output is the build output directory.
	Output string

	// Template is the rewritten template under dist/client.
	Template string

	// ClientFile is the fingerprinted client bootstrap.
	ClientFile string

	// ClientEmbedded is true when the project had no client source and
	// the built-in bootstrap was shipped.
	ClientEmbedded bool

	// Bundle is the render bundle path.
	Bundle string

	// ExportShape is the shape the render export was written in.
	ExportShape string

	// Manifest is the asset manifest.
	Manifest *assets.Manifest

	// Profile is the page content baked into the bundle.
	Profile app.Profile
}

// Options configures the builder.
type Options struct {
	// ExportShape overrides the configured build.exportShape.
	ExportShape string

	// OnProgress is called with progress updates.
	OnProgress func(step string)
}

// Builder handles production builds.
type Builder struct {
	config  *config.Config
	options Options
}

// New creates a new builder.
func New(cfg *config.Config, options Options) *Builder {
	if options.ExportShape == "" {
		options.ExportShape = cfg.Build.ExportShape
	}
	if options.ExportShape == "" {
		options.ExportShape = config.ShapeNamed
	}
	return &Builder{
		config:  cfg,
		options: options,
	}
}

// Build performs a production build.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()

	switch b.options.ExportShape {
	case config.ShapeNamed, config.ShapeDefaultProperty, config.ShapeDefault:
	default:
		return nil, errors.New("E142").
			WithDetail("unknown export shape " + b.options.ExportShape).
			WithSuggestion("Use one of named, default-property, default")
	}

	outputDir := b.config.OutputPath()
	clientDir := b.config.ClientOutputPath()
	serverDir := b.config.ServerOutputPath()

	result := &Result{
		Output:      outputDir,
		ExportShape: b.options.ExportShape,
		Manifest:    assets.NewManifest(),
	}

	// Clean output directory
	b.progress("Cleaning output directory...")
	if err := os.RemoveAll(outputDir); err != nil {
		return nil, errors.New("E142").Wrap(err)
	}
	for _, dir := range []string{clientDir, serverDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.New("E142").Wrap(err)
		}
	}

	b.progress("Loading profile...")
	profile, err := b.loadProfile()
	if err != nil {
		return nil, err
	}
	result.Profile = profile

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.progress("Bundling client...")
	clientFile, embedded, err := b.bundleClient(clientDir, result.Manifest)
	if err != nil {
		return nil, errors.New("E142").WithDetail("client bundling failed").Wrap(err)
	}
	result.ClientFile = clientFile
	result.ClientEmbedded = embedded

	b.progress("Copying assets...")
	if err := b.copyAssets(ctx, clientDir, result.Manifest); err != nil {
		return nil, errors.New("E142").WithDetail("asset copy failed").Wrap(err)
	}

	b.progress("Writing template...")
	template, err := b.writeTemplate(clientDir, result.Manifest)
	if err != nil {
		return nil, err
	}
	result.Template = template

	b.progress("Writing render bundle...")
	bundlePath, err := b.writeBundle(serverDir, profile)
	if err != nil {
		return nil, errors.New("E142").WithDetail("render bundle write failed").Wrap(err)
	}
	result.Bundle = bundlePath

	b.progress("Writing manifest...")
	if err := result.Manifest.Save(filepath.Join(outputDir, "manifest.json")); err != nil {
		return nil, errors.New("E142").WithDetail("manifest write failed").Wrap(err)
	}

	result.Duration = time.Since(start)
	return result, nil
}

// loadProfile reads the profile source. A project without one builds the
// built-in profile.
func (b *Builder) loadProfile() (app.Profile, error) {
	path := b.config.SourcePath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		b.progress("No profile source, using built-in profile")
		return app.DefaultProfile(), nil
	}
	p, err := app.LoadProfile(path)
	if err != nil {
		return app.Profile{}, errors.New("E142").WithDetail("profile source " + path).Wrap(err)
	}
	return p, nil
}

// bundleClient writes the client bootstrap with a content hash in its name.
func (b *Builder) bundleClient(clientDir string, manifest *assets.Manifest) (string, bool, error) {
	src := filepath.Join(b.config.ClientPath(), config.ClientEntry)
	data, err := os.ReadFile(src)
	embedded := false
	if os.IsNotExist(err) {
		data = client.EntryJS
		embedded = true
	} else if err != nil {
		return "", false, err
	}

	hash := hashBytes(data)
	name := hashedName(config.ClientEntry, hash)
	out := filepath.Join(clientDir, name)
	if err := atomic.WriteFile(out, bytes.NewReader(data)); err != nil {
		return "", false, err
	}
	manifest.Set(config.ClientEntry, name)
	return out, embedded, nil
}

// copyAssets copies public/ files into assets/ with cache busting.
func (b *Builder) copyAssets(ctx context.Context, clientDir string, manifest *assets.Manifest) error {
	srcDir := b.config.PublicPath()
	if _, err := os.Stat(srcDir); os.IsNotExist(err) {
		return nil // No public directory
	}

	assetsDir := filepath.Join(clientDir, "assets")

	return filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		relPath, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}

		hash, err := hashFile(path)
		if err != nil {
			return err
		}
		rel := filepath.ToSlash(relPath)
		hashed := filepath.ToSlash(filepath.Join(filepath.Dir(relPath), hashedName(filepath.Base(relPath), hash)))
		destPath := filepath.Join(assetsDir, filepath.FromSlash(hashed))

		if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
			return err
		}
		if err := copyFile(path, destPath); err != nil {
			return err
		}

		manifest.Set(rel, "assets/"+hashed)
		return nil
	})
}

// writeTemplate copies the template into dist/client with its asset
// references pointed at the hashed files.
func (b *Builder) writeTemplate(clientDir string, manifest *assets.Manifest) (string, error) {
	src := b.config.TemplatePath()
	data, err := os.ReadFile(src)
	if err != nil {
		return "", errors.New("E142").
			WithDetail("template " + src).
			WithSuggestion("Create " + b.config.Paths.Template + " containing <!--ssr-outlet-->").
			Wrap(err)
	}

	html := string(data)
	resolver := assets.NewResolver(manifest, "/")
	html, n := assets.RewriteAttr(html, "src", []string{config.ClientEntry}, resolver)
	if n == 0 {
		b.progress("Template does not reference /" + config.ClientEntry)
	}
	html, _ = assets.RewriteAttr(html, "href", manifest.Sources(), resolver)

	out := filepath.Join(clientDir, "index.html")
	if err := atomic.WriteFile(out, strings.NewReader(html)); err != nil {
		return "", errors.New("E142").WithDetail("template write failed").Wrap(err)
	}
	return out, nil
}

func (b *Builder) writeBundle(serverDir string, p app.Profile) (string, error) {
	var buf bytes.Buffer
	if err := bundle.Encode(&buf, bundle.ForShape(p, b.options.ExportShape)); err != nil {
		return "", err
	}
	out := filepath.Join(serverDir, BundleName)
	return out, atomic.WriteFile(out, &buf)
}

// progress reports build progress.
func (b *Builder) progress(step string) {
	if b.options.OnProgress != nil {
		b.options.OnProgress(step)
	}
}

// hashedName inserts the first eight hash characters before the extension.
func hashedName(name, hash string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s.%s%s", base, hash[:8], ext)
}

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashFile returns the SHA256 hash of a file.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// copyFile copies a file.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	return atomic.WriteFile(dst, in)
}

// Clean removes the build output directory.
func (b *Builder) Clean() error {
	return os.RemoveAll(b.config.OutputPath())
}
