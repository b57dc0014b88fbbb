package page

import "context"

// Observer receives resolution events. Implementations live in
// pkg/middleware (Prometheus, OpenTelemetry).
type Observer interface {
	// LoadStarted is called before a module loader runs. The returned
	// context is passed to the loader and done is called with its result.
	LoadStarted(ctx context.Context, name, key string) (_ context.Context, done func(err error))

	// Finished is called once per bootstrap with the final result.
	Finished(ctx context.Context, res *Result)
}

// Reporter shows an error message to the user.
type Reporter interface {
	ShowError(message string)
}

type nopObserver struct{}

func (nopObserver) LoadStarted(ctx context.Context, _, _ string) (context.Context, func(error)) {
	return ctx, func(error) {}
}

func (nopObserver) Finished(context.Context, *Result) {}
