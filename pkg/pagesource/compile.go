package pagesource

import (
	"bytes"
	"fmt"
	"html/template"
	"path"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/knowdesk/pagekit/pkg/page"
)

const (
	pagesDir   = "pages"
	layoutsDir = "layouts"

	// DefaultLayoutName is the layout used for pages without a directive.
	DefaultLayoutName = "Layout"
)

var layoutDirective = regexp.MustCompile(`^\s*(?:\{\{/\*|<!--)\s*layout:\s*([\w/-]+)\s*(?:\*/\}\}|-->)`)

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	sanitize = bluemonday.UGCPolicy()
)

// supported reports whether ext is a page source extension.
func supported(ext string) bool {
	switch ext {
	case ".html", ".tmpl", ".md":
		return true
	}
	return false
}

// compiler turns page sources into components.
type compiler struct {
	layouts map[string]*page.Component
}

// compile builds the component for one source file. name is the page name
// (path without extension).
func (c *compiler) compile(name, ext string, src []byte) (*page.Component, error) {
	layout, err := c.directive(name, src)
	if err != nil {
		return nil, err
	}

	var comp *page.Component
	switch ext {
	case ".html", ".tmpl":
		comp, err = page.NewTemplate(name, string(src))
		if err != nil {
			return nil, err
		}
	case ".md":
		var buf bytes.Buffer
		if err := markdown.Convert(src, &buf); err != nil {
			return nil, fmt.Errorf("render markdown %q: %w", name, err)
		}
		comp = page.Static(name, template.HTML(sanitize.SanitizeBytes(buf.Bytes())))
	default:
		return nil, fmt.Errorf("page %q: unsupported extension %q", name, ext)
	}

	comp.Layout = layout
	return comp, nil
}

func (c *compiler) directive(name string, src []byte) (*page.Component, error) {
	firstLine, _, _ := strings.Cut(string(src), "\n")
	m := layoutDirective.FindStringSubmatch(firstLine)
	if m == nil {
		return nil, nil
	}
	layout, ok := c.layouts[m[1]]
	if !ok {
		return nil, fmt.Errorf("page %q: unknown layout %q", name, m[1])
	}
	return layout, nil
}

// addLayout compiles a layout source.
func (c *compiler) addLayout(rel string, src []byte) error {
	ext := path.Ext(rel)
	if ext != ".html" && ext != ".tmpl" {
		return nil
	}
	name := strings.TrimSuffix(rel, ext)
	comp, err := page.NewTemplate(name, string(src))
	if err != nil {
		return err
	}
	if c.layouts == nil {
		c.layouts = map[string]*page.Component{}
	}
	c.layouts[name] = comp
	return nil
}

// registryOptions returns the options for a registry using c's layouts.
func (c *compiler) registryOptions() []page.RegistryOption {
	if l, ok := c.layouts[DefaultLayoutName]; ok {
		return []page.RegistryOption{page.WithDefaultLayout(l)}
	}
	return nil
}

// splitPage returns the page name and extension of a path relative to the
// pages directory.
func splitPage(rel string) (name, ext string) {
	ext = path.Ext(rel)
	return strings.TrimSuffix(rel, ext), ext
}
