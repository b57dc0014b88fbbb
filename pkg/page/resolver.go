package page

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/knowdesk/pagekit/internal/errors"
)

// Resolver turns page names into components using a Registry.
type Resolver struct {
	registry *Registry
	logger   *slog.Logger
	observer Observer
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverLogger sets the resolver's logger.
func WithResolverLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithObserver sets the observer notified around module loads.
func WithObserver(o Observer) ResolverOption {
	return func(r *Resolver) {
		if o != nil {
			r.observer = o
		}
	}
}

// NewResolver creates a Resolver over registry.
func NewResolver(registry *Registry, opts ...ResolverOption) *Resolver {
	if registry == nil {
		registry = NewRegistry(nil)
	}
	r := &Resolver{
		registry: registry,
		logger:   slog.Default(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Registry returns the resolver's registry.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// Resolve finds and loads page name. The loaded component is copied and
// given the registry's default layout unless it declares one. A missing
// page yields P002; a failing or panicking loader yields P003.
func (r *Resolver) Resolve(ctx context.Context, name string) (*Resolved, error) {
	key, load, ok := r.registry.Find(name)
	if !ok {
		return nil, errors.New(errors.CodeModuleNotFound).WithDetail("page %q", name)
	}

	loadCtx, done := r.observer.LoadStarted(ctx, name, key)
	c, err := safeLoad(loadCtx, load)
	if err == nil && c == nil {
		err = fmt.Errorf("loader returned no component")
	}
	if err != nil {
		err = errors.New(errors.CodeModuleLoad).WithDetail("page %q from %s", name, key).Wrap(err)
	}
	done(err)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("page resolved", "component", name, "key", key)
	return &Resolved{Default: c.withLayout(r.registry.DefaultLayout())}, nil
}

// Placeholder returns the placeholder page for name in the default layout.
func (r *Resolver) Placeholder(name string) *Resolved {
	return &Resolved{Default: Placeholder(name).withLayout(r.registry.DefaultLayout())}
}

func safeLoad(ctx context.Context, load Loader) (c *Component, err error) {
	defer func() {
		if p := recover(); p != nil {
			c, err = nil, fmt.Errorf("loader panic: %v", p)
		}
	}()
	return load(ctx)
}
