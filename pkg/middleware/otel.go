package middleware

import (
	"context"
	"fmt"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/knowdesk/pagekit/internal/errors"
	"github.com/knowdesk/pagekit/pkg/page"
)

// Default tracer name for pagekit.
const defaultTracerName = "pagekit"

// OTelConfig configures the OpenTelemetry tracer.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "pagekit").
	TracerName string

	// Provider supplies the tracer. Default: the global provider.
	Provider trace.TracerProvider

	// Filter determines which requests to trace.
	// If nil, all requests are traced.
	Filter func(r *http.Request) bool
}

// OTelOption configures the OpenTelemetry tracer.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.Provider = tp
	}
}

// WithRequestFilter sets a filter function for requests.
func WithRequestFilter(filter func(r *http.Request) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// Tracing creates spans around page module loads and HTTP requests. It
// implements page.Observer.
//
// Configure the global tracer provider in main() before serving:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
type Tracing struct {
	tracer trace.Tracer
	filter func(r *http.Request) bool
}

// NewTracing creates a Tracing.
func NewTracing(opts ...OTelOption) *Tracing {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	provider := config.Provider
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &Tracing{
		tracer: provider.Tracer(config.TracerName),
		filter: config.Filter,
	}
}

// LoadStarted implements page.Observer. The returned context carries the
// load span so the loader's own calls are children of it.
func (t *Tracing) LoadStarted(ctx context.Context, name, key string) (context.Context, func(error)) {
	ctx, span := t.tracer.Start(ctx, "page.load",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("pagekit.component", name),
			attribute.String("pagekit.module", key),
		))
	return ctx, func(err error) {
		defer span.End()
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("pagekit.error_code", errors.CodeOf(err)))
			span.SetStatus(codes.Error, err.Error())
			return
		}
		span.SetStatus(codes.Ok, "")
	}
}

// Finished implements page.Observer by annotating the span active in ctx.
func (t *Tracing) Finished(ctx context.Context, res *page.Result) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent("page.bootstrap", trace.WithAttributes(
		attribute.String("pagekit.component", res.Descriptor.Component),
		attribute.String("pagekit.state", res.State.String()),
		attribute.String("pagekit.outcome", res.Outcome()),
		attribute.Bool("pagekit.fallback", res.Fallback),
	))
}

// Handler starts a server span for each request and stores it in the
// request context.
func (t *Tracing) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if t.filter != nil && !t.filter(r) {
			next.ServeHTTP(w, r)
			return
		}

		ctx, span := t.tracer.Start(r.Context(), fmt.Sprintf("HTTP %s", r.Method),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.RequestURI()),
			))
		defer span.End()

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := routePattern(r)
		span.SetName(fmt.Sprintf("HTTP %s %s", r.Method, route))
		span.SetAttributes(
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		)
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	})
}

// SpanFromContext retrieves the current trace span from ctx.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}
