package routes

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/knowdesk/pagekit/internal/errors"
)

// RootPath is returned for unknown route names.
const RootPath = "/"

// Table is an immutable route-name to URL mapping.
// It is safe for concurrent use.
type Table struct {
	entries map[string]Entry
	logger  *slog.Logger
}

// Option configures a Table.
type Option func(*Table)

// WithLogger sets the logger used for route-not-found diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(t *Table) {
		if l != nil {
			t.logger = l
		}
	}
}

// NewTable copies entries into a new Table. It panics if any entry is the
// zero Entry, which can only come from a programming error.
func NewTable(entries map[string]Entry, opts ...Option) *Table {
	t := &Table{
		entries: make(map[string]Entry, len(entries)),
		logger:  slog.Default(),
	}
	for name, e := range entries {
		if !e.Valid() {
			panic(fmt.Sprintf("routes: invalid entry for %q", name))
		}
		t.entries[name] = e
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// URL returns the URL for name. Unknown names are logged and yield "/".
func (t *Table) URL(name string, params any) string {
	url, err := t.Resolve(name, params)
	if err != nil {
		t.logger.Warn("route not found", "name", name)
		return RootPath
	}
	return url
}

// Resolve is URL without the fallback: unknown names return an R001 error.
func (t *Table) Resolve(name string, params any) (string, error) {
	e, ok := t.entries[name]
	if !ok {
		return "", errors.New(errors.CodeRouteNotFound).WithDetail("route %q", name)
	}
	if e.kind == KindFixed {
		return e.url, nil
	}
	return e.build(narrow(params)), nil
}

// Lookup returns the entry registered under name.
func (t *Table) Lookup(name string) (Entry, bool) {
	e, ok := t.entries[name]
	return e, ok
}

// Names returns all route names in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of routes.
func (t *Table) Len() int {
	return len(t.entries)
}

// Func returns t.URL as a plain function value, suitable for template
// function maps and context injection.
func (t *Table) Func() func(name string, params any) string {
	return t.URL
}
