// Package module defines the export contract between the template server and
// a loaded render module.
//
// A module is a set of named exports. The render function is looked up in a
// fixed priority order (see EntryShapes) so that modules written with a named
// export, a default object carrying a render member, or a bare default
// callable are all accepted.
package module

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// RenderFunc maps a request URL to an HTML fragment.
type RenderFunc func(url string) (string, error)

// DefaultExport is the export name of a module's default export.
const DefaultExport = "default"

// RenderExport is the conventional name of the render function.
const RenderExport = "render"

// Module holds the exports of a loaded source module or bundle.
type Module struct {
	Exports map[string]any
}

// New creates a module from its exports.
func New(exports map[string]any) Module {
	if exports == nil {
		exports = map[string]any{}
	}
	return Module{Exports: exports}
}

// Keys returns the sorted export names.
func (m Module) Keys() []string {
	keys := make([]string, 0, len(m.Exports))
	for k := range m.Exports {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EntryShape names where a render function was found.
type EntryShape string

const (
	Named           EntryShape = "named"            // exports.render
	DefaultProperty EntryShape = "default-property" // exports.default.render
	Default         EntryShape = "default"          // exports.default
)

// EntryShapes is the resolution order used by ResolveEntry.
var EntryShapes = []EntryShape{Named, DefaultProperty, Default}

// ErrNoEntry is matched by errors.Is for a *NoEntryError.
var ErrNoEntry = errors.New("module has no callable render export")

// NoEntryError reports a module with no callable render export.
type NoEntryError struct {
	Keys []string
}

func (e *NoEntryError) Error() string {
	return fmt.Sprintf("%s (exports: [%s])", ErrNoEntry.Error(), strings.Join(e.Keys, ", "))
}

// Is reports whether target is ErrNoEntry.
func (e *NoEntryError) Is(target error) bool { return target == ErrNoEntry }

// ResolveEntry finds the render function, trying each of EntryShapes in
// order and returning the first callable candidate.
func ResolveEntry(m Module) (RenderFunc, EntryShape, error) {
	for _, shape := range EntryShapes {
		if fn, ok := AsRenderFunc(lookup(m, shape)); ok {
			return fn, shape, nil
		}
	}
	return nil, "", &NoEntryError{Keys: m.Keys()}
}

func lookup(m Module, shape EntryShape) any {
	switch shape {
	case Named:
		return m.Exports[RenderExport]
	case DefaultProperty:
		if obj, ok := m.Exports[DefaultExport].(map[string]any); ok {
			return obj[RenderExport]
		}
		return nil
	case Default:
		return m.Exports[DefaultExport]
	}
	return nil
}

// AsRenderFunc adapts the callable forms a module may export.
func AsRenderFunc(v any) (RenderFunc, bool) {
	switch fn := v.(type) {
	case RenderFunc:
		return fn, fn != nil
	case func(string) (string, error):
		return fn, fn != nil
	case func(string) string:
		if fn == nil {
			return nil, false
		}
		return func(url string) (string, error) { return fn(url), nil }, true
	}
	return nil, false
}
