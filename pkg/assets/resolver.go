package assets

import (
	"fmt"
	"html/template"
	"strings"
)

// Resolver provides asset path resolution.
type Resolver interface {
	// Asset resolves a source asset path to its full URL path.
	Asset(source string) string

	// Tags returns the stylesheet and script tags that load entry.
	Tags(entry string) template.HTML
}

// manifestResolver wraps a Manifest to implement Resolver.
type manifestResolver struct {
	manifest *Manifest
	prefix   string
}

// NewResolver creates a Resolver from a Manifest with a path prefix, such
// as "/static/dist/".
func NewResolver(m *Manifest, prefix string) Resolver {
	return &manifestResolver{
		manifest: m,
		prefix:   prefix,
	}
}

func (r *manifestResolver) Asset(source string) string {
	return r.prefix + r.manifest.Resolve(source)
}

func (r *manifestResolver) Tags(entry string) template.HTML {
	var b strings.Builder
	for _, css := range r.manifest.stylesheets(entry) {
		fmt.Fprintf(&b, `<link rel="stylesheet" href="%s">`, template.HTMLEscapeString(r.prefix+css))
	}
	fmt.Fprintf(&b, `<script type="module" src="%s"></script>`, template.HTMLEscapeString(r.Asset(entry)))
	return template.HTML(b.String())
}

// devResolver serves everything from the bundler's dev server.
type devResolver struct {
	origin string
}

// NewDevResolver creates a resolver for development mode. Assets are
// loaded from origin (e.g. "http://localhost:5173") and the dev server's
// hot-reload client is injected before the entry.
func NewDevResolver(origin string) Resolver {
	return &devResolver{origin: strings.TrimSuffix(origin, "/")}
}

func (d *devResolver) Asset(source string) string {
	return d.origin + "/" + strings.TrimPrefix(source, "/")
}

func (d *devResolver) Tags(entry string) template.HTML {
	return template.HTML(fmt.Sprintf(
		`<script type="module" src="%s"></script><script type="module" src="%s"></script>`,
		template.HTMLEscapeString(d.Asset("@vite/client")),
		template.HTMLEscapeString(d.Asset(entry))))
}
