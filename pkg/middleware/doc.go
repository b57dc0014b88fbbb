// Package middleware provides metrics and tracing for pagekit servers.
//
// Both Metrics and Tracing serve two roles: they wrap HTTP handlers, and
// they implement page.Observer so page bootstraps and module loads are
// recorded. Combine observers with Observers:
//
//	reg := prometheus.NewRegistry()
//	metrics := middleware.NewMetrics(middleware.WithRegistry(reg))
//	tracing := middleware.NewTracing()
//
//	r := chi.NewRouter()
//	r.Use(tracing.Handler, metrics.Handler)
//
//	obs := middleware.Observers(metrics, tracing)
//	resolver := page.NewResolver(registry, page.WithObserver(obs))
//
// # Prometheus Metrics
//
//   - pagekit_resolutions_total{outcome}
//   - pagekit_module_load_seconds{status}
//   - pagekit_module_load_errors_total{code}
//   - pagekit_http_requests_total{method,route,status}
//   - pagekit_http_request_duration_seconds{method,route}
//
// # OpenTelemetry
//
// Tracing uses the global tracer provider unless WithTracerProvider is
// given. Module loads become "page.load" spans; bootstraps are recorded as
// "page.bootstrap" events on the request span.
package middleware
