package dev

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vango-dev/introsite/internal/app"
	"github.com/vango-dev/introsite/pkg/module"
)

// ClientScriptSrc is the URL the client bootstrap is served from in
// development.
const ClientScriptSrc = "/entry-client.js"

// Tool is the development implementation of ssr.DevTool.
type Tool struct {
	hotReload bool

	mu    sync.Mutex
	cache map[string]module.Module
}

// NewTool creates a Tool. With hotReload off, templates are not given the
// live-reload client.
func NewTool(hotReload bool) *Tool {
	return &Tool{
		hotReload: hotReload,
		cache:     make(map[string]module.Module),
	}
}

// TransformTemplate adds the client bootstrap script tag if the template
// lacks one and injects DevClientScript before </body>. Both are added at
// most once.
func (t *Tool) TransformTemplate(_ string, raw string) (string, error) {
	out := raw
	if !strings.Contains(out, `src="`+ClientScriptSrc+`"`) {
		out = injectBeforeBody(out, `<script type="module" src="`+ClientScriptSrc+`"></script>`+"\n")
	}
	if t.hotReload && !strings.Contains(out, devScriptMarker) {
		out = injectBeforeBody(out, DevClientScript)
	}
	return out, nil
}

// injectBeforeBody inserts snippet before the last </body>, falling back
// to </html> and then to the end of the document.
func injectBeforeBody(doc, snippet string) string {
	if idx := strings.LastIndex(doc, "</body>"); idx != -1 {
		return doc[:idx] + snippet + doc[idx:]
	}
	if idx := strings.LastIndex(doc, "</html>"); idx != -1 {
		return doc[:idx] + snippet + doc[idx:]
	}
	return doc + snippet
}

// LoadSourceModule reads the profile at path and returns a module whose
// named render export renders it. The module is cached until Invalidate.
func (t *Tool) LoadSourceModule(ctx context.Context, path string) (module.Module, error) {
	if err := ctx.Err(); err != nil {
		return module.Module{}, err
	}
	key := filepath.Clean(path)

	t.mu.Lock()
	defer t.mu.Unlock()
	if m, ok := t.cache[key]; ok {
		return m, nil
	}

	profile, err := app.LoadProfile(path)
	if err != nil {
		return module.Module{}, err
	}
	m := module.New(map[string]any{
		module.RenderExport: app.Renderer(profile),
		"profile":           profile,
	})
	t.cache[key] = m
	return m, nil
}

// Invalidate drops every cached module.
func (t *Tool) Invalidate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.cache)
}

// Cached reports whether a module for path is cached.
func (t *Tool) Cached(path string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.cache[filepath.Clean(path)]
	return ok
}
