// Package bundle reads and writes the production render bundle: the JSON
// file the builder emits under dist/server and the production server loads
// as its render module.
package bundle

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/vango-dev/introsite/internal/app"
	"github.com/vango-dev/introsite/internal/config"
	"github.com/vango-dev/introsite/internal/errors"
	"github.com/vango-dev/introsite/pkg/module"
)

// Format is the bundle format version written and accepted.
const Format = "introsite-bundle/v1"

// Export kinds.
const (
	KindRender = "render"
	KindObject = "object"
	KindValue  = "value"
)

// File is the on-disk bundle.
type File struct {
	Format  string            `json:"format"`
	Exports map[string]Export `json:"exports"`
}

// Export is one exported member of the bundle.
type Export struct {
	Kind    string            `json:"kind"`
	Profile *app.Profile      `json:"profile,omitempty"`
	Members map[string]Export `json:"members,omitempty"`
	Value   json.RawMessage   `json:"value,omitempty"`
}

// ForShape describes a bundle exporting the render function for p in the
// given export shape. Unknown shapes fall back to a named export.
func ForShape(p app.Profile, shape string) File {
	render := Export{Kind: KindRender, Profile: &p}
	meta, _ := json.Marshal(map[string]string{"title": p.Title, "format": Format})

	exports := map[string]Export{
		"meta": {Kind: KindValue, Value: meta},
	}
	switch shape {
	case config.ShapeDefaultProperty:
		exports[module.DefaultExport] = Export{
			Kind:    KindObject,
			Members: map[string]Export{module.RenderExport: render},
		}
	case config.ShapeDefault:
		exports[module.DefaultExport] = render
	default:
		exports[module.RenderExport] = render
	}
	return File{Format: Format, Exports: exports}
}

// Encode writes f as indented JSON.
func Encode(w io.Writer, f File) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(f)
}

// Decode reads a bundle and builds its module. Render exports become
// module.RenderFunc values.
func Decode(r io.Reader) (module.Module, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return module.Module{}, errors.New("E205").Wrap(err)
	}
	if f.Format != Format {
		return module.Module{}, errors.New("E205").
			WithDetail(fmt.Sprintf("unsupported format %q, want %q", f.Format, Format))
	}

	exports := make(map[string]any, len(f.Exports))
	for name, exp := range f.Exports {
		v, err := decodeExport(exp)
		if err != nil {
			return module.Module{}, errors.New("E205").
				WithDetail("export " + name).
				Wrap(err)
		}
		exports[name] = v
	}
	return module.New(exports), nil
}

func decodeExport(exp Export) (any, error) {
	switch exp.Kind {
	case KindRender:
		if exp.Profile == nil {
			return nil, fmt.Errorf("render export has no profile")
		}
		// Round-trip through ParseProfile so bundles get the same
		// validation and defaults as source profiles.
		data, err := json.Marshal(exp.Profile)
		if err != nil {
			return nil, err
		}
		p, err := app.ParseProfile(data, "bundle.json")
		if err != nil {
			return nil, err
		}
		return app.Renderer(p), nil

	case KindObject:
		obj := make(map[string]any, len(exp.Members))
		for name, member := range exp.Members {
			v, err := decodeExport(member)
			if err != nil {
				return nil, fmt.Errorf("member %s: %w", name, err)
			}
			obj[name] = v
		}
		return obj, nil

	case KindValue:
		var v any
		if len(exp.Value) == 0 {
			return nil, nil
		}
		if err := json.Unmarshal(exp.Value, &v); err != nil {
			return nil, err
		}
		return v, nil

	default:
		return nil, fmt.Errorf("unknown export kind %q", exp.Kind)
	}
}

// Find returns the first candidate that exists as a regular file.
func Find(candidates []string) (string, error) {
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", errors.New("E202").
		WithDetail("tried " + strings.Join(candidates, ", ")).
		WithSuggestion("Run 'introsite build' before starting in production mode")
}

// Loader loads bundles and keeps each loaded module for the life of the
// Loader, keyed by path. It is safe for concurrent use.
type Loader struct {
	mu      sync.RWMutex
	modules map[string]module.Module
}

// NewLoader creates an empty Loader.
func NewLoader() *Loader {
	return &Loader{modules: make(map[string]module.Module)}
}

// Open loads the first existing candidate.
func (l *Loader) Open(candidates []string) (module.Module, string, error) {
	path, err := Find(candidates)
	if err != nil {
		return module.Module{}, "", err
	}
	m, err := l.Load(path)
	return m, path, err
}

// Load returns the module at path, decoding it on first use.
func (l *Loader) Load(path string) (module.Module, error) {
	l.mu.RLock()
	m, ok := l.modules[path]
	l.mu.RUnlock()
	if ok {
		return m, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if m, ok := l.modules[path]; ok {
		return m, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return module.Module{}, errors.New("E202").Wrap(err)
	}
	defer f.Close()

	m, err = Decode(f)
	if err != nil {
		return module.Module{}, err
	}
	l.modules[path] = m
	return m, nil
}

// Cached returns the sorted paths currently held by the Loader.
func (l *Loader) Cached() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	paths := make([]string, 0, len(l.modules))
	for p := range l.modules {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
