package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/knowdesk/pagekit/internal/errors"
	"github.com/knowdesk/pagekit/pkg/page"
)

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func TestMetricsObserver(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()))

	_, done := m.LoadStarted(context.Background(), "Projects/Index", "./pages/Projects/Index.html")
	done(nil)
	_, done = m.LoadStarted(context.Background(), "Broken", "./pages/Broken.html")
	done(errors.New(errors.CodeModuleLoad))
	_, done = m.LoadStarted(context.Background(), "Odd", "./pages/Odd.html")
	done(fmt.Errorf("plain"))

	if got := metricHistogramCount(t, m.loadSeconds.WithLabelValues("success")); got != 1 {
		t.Errorf("success loads = %d, want 1", got)
	}
	if got := metricHistogramCount(t, m.loadSeconds.WithLabelValues("error")); got != 2 {
		t.Errorf("error loads = %d, want 2", got)
	}
	if got := metricCounterValue(t, m.loadErrors.WithLabelValues(errors.CodeModuleLoad)); got != 1 {
		t.Errorf("P003 errors = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.loadErrors.WithLabelValues("unknown")); got != 1 {
		t.Errorf("unknown errors = %v, want 1", got)
	}

	m.Finished(context.Background(), &page.Result{State: page.StateMounted})
	m.Finished(context.Background(), &page.Result{State: page.StateMounted, Fallback: true})
	m.Finished(context.Background(), &page.Result{State: page.StateMounted, Fallback: true})

	if got := metricCounterValue(t, m.resolutions.WithLabelValues("mounted")); got != 1 {
		t.Errorf("mounted = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.resolutions.WithLabelValues("fallback")); got != 2 {
		t.Errorf("fallback = %v, want 2", got)
	}
}

func TestMetricsOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(
		WithRegistry(reg),
		WithNamespace("kb"),
		WithSubsystem("web"),
		WithConstLabels(prometheus.Labels{"app": "docs"}),
		WithBuckets([]float64{0.1, 1}),
	)

	_, done := m.LoadStarted(context.Background(), "Home", "./pages/Home.html")
	done(nil)

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	var found *dto.MetricFamily
	for _, f := range families {
		if f.GetName() == "kb_web_module_load_seconds" {
			found = f
		}
	}
	if found == nil {
		t.Fatalf("kb_web_module_load_seconds not gathered")
	}
	metric := found.GetMetric()[0]
	var app string
	for _, lp := range metric.GetLabel() {
		if lp.GetName() == "app" {
			app = lp.GetValue()
		}
	}
	if app != "docs" {
		t.Errorf("app label = %q, want docs", app)
	}
	buckets := metric.GetHistogram().GetBucket()
	if len(buckets) < 2 || buckets[0].GetUpperBound() != 0.1 || buckets[1].GetUpperBound() != 1 {
		t.Errorf("buckets = %v", buckets)
	}
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()), WithNamespace("test"))

	r := chi.NewRouter()
	r.Use(m.Handler)
	r.Get("/projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/fail", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	for _, path := range []string{"/projects/1", "/projects/2", "/fail", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	tests := []struct {
		route  string
		status string
		want   float64
	}{
		{"/projects/{id}", "200", 2},
		{"/fail", "500", 1},
		{"unmatched", "404", 1},
	}
	for _, tt := range tests {
		got := metricCounterValue(t, m.requests.WithLabelValues(http.MethodGet, tt.route, tt.status))
		if got != tt.want {
			t.Errorf("requests{%s,%s} = %v, want %v", tt.route, tt.status, got, tt.want)
		}
	}
	if got := metricHistogramCount(t, m.requestDuration.WithLabelValues(http.MethodGet, "/projects/{id}")); got != 2 {
		t.Errorf("duration samples = %d, want 2", got)
	}
}

func TestObservers(t *testing.T) {
	a := NewMetrics(WithRegistry(prometheus.NewRegistry()))
	b := NewMetrics(WithRegistry(prometheus.NewRegistry()))
	obs := Observers(a, nil, b)

	_, done := obs.LoadStarted(context.Background(), "Home", "./pages/Home.html")
	done(nil)
	obs.Finished(context.Background(), &page.Result{State: page.StateMounted})

	for i, m := range []*Metrics{a, b} {
		if got := metricHistogramCount(t, m.loadSeconds.WithLabelValues("success")); got != 1 {
			t.Errorf("observer %d loads = %d, want 1", i, got)
		}
		if got := metricCounterValue(t, m.resolutions.WithLabelValues("mounted")); got != 1 {
			t.Errorf("observer %d mounted = %v, want 1", i, got)
		}
	}
}
