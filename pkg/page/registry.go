package page

import (
	"context"
	"sort"
	"strings"
)

// KeyPrefix is the prefix of every registry key.
const KeyPrefix = "./pages/"

// DefaultExtensions are tried in order when looking a page up.
var DefaultExtensions = []string{".html", ".tmpl", ".md"}

// Loader lazily loads a page component.
type Loader func(ctx context.Context) (*Component, error)

// Key returns the registry key for a page name and extension.
func Key(name, ext string) string {
	return KeyPrefix + name + ext
}

// Registry maps ./pages/<name>.<ext> keys to loaders. It is populated once
// and read-only afterwards, so it is safe for concurrent use.
type Registry struct {
	loaders map[string]Loader
	exts    []string
	layout  *Component
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithExtensions sets the extensions Find tries, in order.
func WithExtensions(exts ...string) RegistryOption {
	return func(r *Registry) {
		r.exts = append([]string(nil), exts...)
	}
}

// WithDefaultLayout sets the layout applied to pages without one.
func WithDefaultLayout(c *Component) RegistryOption {
	return func(r *Registry) {
		r.layout = c
	}
}

// NewRegistry copies loaders into a new Registry. Nil loaders are skipped.
func NewRegistry(loaders map[string]Loader, opts ...RegistryOption) *Registry {
	r := &Registry{
		loaders: make(map[string]Loader, len(loaders)),
		exts:    DefaultExtensions,
	}
	for k, l := range loaders {
		if l != nil {
			r.loaders[k] = l
		}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Find returns the key and loader for page name.
func (r *Registry) Find(name string) (string, Loader, bool) {
	if name == "" {
		return "", nil, false
	}
	for _, ext := range r.exts {
		key := Key(name, ext)
		if l, ok := r.loaders[key]; ok {
			return key, l, true
		}
	}
	return "", nil, false
}

// DefaultLayout returns the registry's default layout, or BaseLayout.
func (r *Registry) DefaultLayout() *Component {
	if r.layout != nil {
		return r.layout
	}
	return BaseLayout
}

// Keys returns all registry keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.loaders))
	for k := range r.loaders {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Pages returns the page names of all keys with a known extension.
func (r *Registry) Pages() []string {
	var names []string
	for _, k := range r.Keys() {
		rest := strings.TrimPrefix(k, KeyPrefix)
		for _, ext := range r.exts {
			if strings.HasSuffix(rest, ext) {
				names = append(names, strings.TrimSuffix(rest, ext))
				break
			}
		}
	}
	return names
}

// Len returns the number of registered loaders.
func (r *Registry) Len() int {
	return len(r.loaders)
}
