package page

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
)

// maxLayoutDepth bounds nested layouts; deeper chains are treated as cycles.
const maxLayoutDepth = 8

// RouteFunc builds a URL from a route name and parameter.
type RouteFunc func(name string, params any) string

// RenderContext is passed to a component while it renders.
type RenderContext struct {
	Context context.Context

	// Props are the page props from the descriptor.
	Props map[string]any

	// Route is the ambient URL builder.
	Route RouteFunc

	// Content holds the rendered child when a layout renders.
	Content template.HTML
}

// RenderFunc writes a component's markup.
type RenderFunc func(w io.Writer, rc *RenderContext) error

// Component is a loaded page or layout.
type Component struct {
	Name string

	// Layout wraps the component. Nil means the default layout applies.
	Layout *Component

	Render RenderFunc

	// Missing is set on placeholder components to the page name that
	// could not be resolved.
	Missing string
}

// withLayout returns a copy of c that uses layout unless c declares its own.
func (c *Component) withLayout(layout *Component) *Component {
	out := *c
	if out.Layout == nil {
		out.Layout = layout
	}
	return &out
}

// Resolved is the result of resolving a page name.
type Resolved struct {
	Default *Component
}

// RenderTree renders c and then each layout around it, innermost first.
func RenderTree(w io.Writer, c *Component, rc *RenderContext) error {
	var content bytes.Buffer
	if err := c.render(&content, rc); err != nil {
		return err
	}

	depth := 0
	for layout := c.Layout; layout != nil; layout = layout.Layout {
		depth++
		if depth > maxLayoutDepth {
			return fmt.Errorf("component %q: layout chain deeper than %d", c.Name, maxLayoutDepth)
		}
		lrc := *rc
		lrc.Content = template.HTML(content.String())
		var next bytes.Buffer
		if err := layout.render(&next, &lrc); err != nil {
			return err
		}
		content = next
	}

	_, err := w.Write(content.Bytes())
	return err
}

func (c *Component) render(w io.Writer, rc *RenderContext) error {
	if c.Render == nil {
		return fmt.Errorf("component %q has no render function", c.Name)
	}
	if err := c.Render(w, rc); err != nil {
		return fmt.Errorf("render %q: %w", c.Name, err)
	}
	return nil
}

// NewTemplate parses src as an html/template component. Templates receive
// the RenderContext as data ({{ .Props.title }}, {{ .Content }}) and may
// call {{ route "name" param }}.
func NewTemplate(name, src string) (*Component, error) {
	tmpl, err := template.New(name).Funcs(routeFuncs(nil)).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse template %q: %w", name, err)
	}
	return &Component{
		Name: name,
		Render: func(w io.Writer, rc *RenderContext) error {
			t, err := tmpl.Clone()
			if err != nil {
				return err
			}
			return t.Funcs(routeFuncs(rc.Route)).Execute(w, rc)
		},
	}, nil
}

// Static returns a component that always writes markup.
func Static(name string, markup template.HTML) *Component {
	return &Component{
		Name: name,
		Render: func(w io.Writer, _ *RenderContext) error {
			_, err := io.WriteString(w, string(markup))
			return err
		},
	}
}

func routeFuncs(route RouteFunc) template.FuncMap {
	return template.FuncMap{
		"route": func(name string, params ...any) string {
			if route == nil {
				return "/"
			}
			var p any
			if len(params) > 0 {
				p = params[0]
			}
			return route(name, p)
		},
	}
}

// PlaceholderName is the name of placeholder components.
const PlaceholderName = "Placeholder"

// Placeholder returns the component rendered when page name could not be
// resolved. It names the missing page for diagnosis.
func Placeholder(name string) *Component {
	return &Component{
		Name:    PlaceholderName,
		Missing: name,
		Render: func(w io.Writer, _ *RenderContext) error {
			_, err := fmt.Fprintf(w,
				`<div class="page-placeholder"><h1>Welcome</h1><p>The page <code>%s</code> is not available.</p></div>`,
				template.HTMLEscapeString(name))
			return err
		},
	}
}

// BaseLayout is used when a registry has no default layout of its own.
var BaseLayout = &Component{
	Name: "BaseLayout",
	Render: func(w io.Writer, rc *RenderContext) error {
		_, err := fmt.Fprintf(w, `<main class="container">%s</main>`, rc.Content)
		return err
	},
}
