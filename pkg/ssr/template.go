package ssr

import (
	"context"
	"strings"

	"github.com/vango-dev/introsite/pkg/module"
)

// Placeholder is the marker in the HTML template replaced by the rendered
// page.
const Placeholder = "<!--ssr-outlet-->"

// RootID is the id of the element the rendered fragment is wrapped in and
// the client bootstrap hydrates.
const RootID = "root"

// Substitute replaces the first Placeholder in template with the fragment
// wrapped in the root container. ok is false when the template has no
// placeholder, in which case template is returned unchanged.
func Substitute(template, fragment string) (page string, ok bool) {
	i := strings.Index(template, Placeholder)
	if i < 0 {
		return template, false
	}
	var b strings.Builder
	b.Grow(len(template) + len(fragment) + 32)
	b.WriteString(template[:i])
	b.WriteString(`<div id="` + RootID + `">`)
	b.WriteString(fragment)
	b.WriteString(`</div>`)
	b.WriteString(template[i+len(Placeholder):])
	return b.String(), true
}

// DevTool is the development collaborator: it rewrites the raw template for
// the browser and loads the render module from source.
type DevTool interface {
	TransformTemplate(url, raw string) (string, error)
	LoadSourceModule(ctx context.Context, path string) (module.Module, error)
}
