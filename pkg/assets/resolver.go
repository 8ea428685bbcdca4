package assets

import "strings"

// Resolver turns a source asset name into the URL path a page should
// reference.
type Resolver interface {
	// Asset resolves source to its URL path, prefix included.
	//
	//   resolver.Asset("entry-client.js") → "/entry-client.3f2a9c1d.js"
	Asset(source string) string
}

type manifestResolver struct {
	manifest *Manifest
	prefix   string
}

// NewResolver creates a Resolver that looks names up in m and prepends
// prefix to the result.
func NewResolver(m *Manifest, prefix string) Resolver {
	return &manifestResolver{
		manifest: m,
		prefix:   prefix,
	}
}

func (r *manifestResolver) Asset(source string) string {
	return r.prefix + r.manifest.Resolve(strings.TrimPrefix(source, "/"))
}

type passthrough struct {
	prefix string
}

// NewPassthroughResolver returns names unchanged apart from the prefix.
// Development serves unhashed sources, so dev and production paths only
// differ by the fingerprint.
func NewPassthroughResolver(prefix string) Resolver {
	return &passthrough{prefix: prefix}
}

func (p *passthrough) Asset(source string) string {
	return p.prefix + strings.TrimPrefix(source, "/")
}

// RewriteAttr replaces every attr="/name" reference in html whose name the
// resolver maps, returning the rewritten document and the number of
// replacements.
func RewriteAttr(html, attr string, names []string, r Resolver) (string, int) {
	n := 0
	for _, name := range names {
		old := attr + `="/` + name + `"`
		c := strings.Count(html, old)
		if c == 0 {
			continue
		}
		html = strings.ReplaceAll(html, old, attr+`="`+r.Asset(name)+`"`)
		n += c
	}
	return html, n
}
