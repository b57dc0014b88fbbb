package server

import (
	"context"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/knowdesk/pagekit/internal/config"
	"github.com/knowdesk/pagekit/internal/errors"
	"github.com/knowdesk/pagekit/pkg/assets"
	"github.com/knowdesk/pagekit/pkg/inertia"
	"github.com/knowdesk/pagekit/pkg/middleware"
	"github.com/knowdesk/pagekit/pkg/page"
	"github.com/knowdesk/pagekit/pkg/pagesource"
	"github.com/knowdesk/pagekit/pkg/routes"
)

// tracerName names the tracer the server's spans are recorded under.
const tracerName = "github.com/knowdesk/pagekit/internal/server"

// Timeouts applied to the HTTP server.
const (
	ReadHeaderTimeout = 10 * time.Second
	ReadTimeout       = 60 * time.Second
	WriteTimeout      = 30 * time.Second
	IdleTimeout       = 2 * time.Minute
	ShutdownTimeout   = 30 * time.Second
)

// Server serves host documents for the configured views.
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	table    *routes.Table
	registry *page.Registry
	renderer *inertia.Renderer
	router   chi.Router
	views    []View
}

// View binds a URL path to the page component rendered there.
type View struct {
	Route     string
	Path      string
	Component string
}

// Option configures a Server.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	registry *page.Registry
	s3       pagesource.S3API
	tracer   []middleware.OTelOption
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithRegistry uses reg instead of loading pages from the configured source.
func WithRegistry(reg *page.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// WithS3Client sets the client used when pages come from a bucket.
func WithS3Client(c pagesource.S3API) Option {
	return func(o *options) {
		o.s3 = c
	}
}

// WithTracing passes options to the tracing middleware.
func WithTracing(opts ...middleware.OTelOption) Option {
	return func(o *options) {
		o.tracer = append(o.tracer, opts...)
	}
}

// New builds a Server from cfg.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Server, error) {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger

	table, err := LoadTable(cfg, logger)
	if err != nil {
		return nil, err
	}

	registry := o.registry
	if registry == nil {
		registry, err = LoadRegistry(ctx, cfg, o.s3)
		if err != nil {
			return nil, err
		}
	}
	logger.Info("pages loaded", "count", registry.Len(), "routes", table.Len())

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricOpts := []middleware.MetricsOption{middleware.WithRegistry(promReg)}
	if cfg.Name != "" {
		metricOpts = append(metricOpts, middleware.WithConstLabels(prometheus.Labels{"app": cfg.Name}))
	}
	metrics := middleware.NewMetrics(metricOpts...)
	tracing := middleware.NewTracing(append([]middleware.OTelOption{middleware.WithTracerName(tracerName)}, o.tracer...)...)
	observer := middleware.Observers(metrics, tracing)

	resolver := page.NewResolver(registry,
		page.WithResolverLogger(logger),
		page.WithObserver(observer))

	renderer := inertia.New(
		inertia.WithVersion(cfg.Version),
		inertia.WithMountID(cfg.MountID),
		inertia.WithTitle(cfg.Name),
		inertia.WithAssets(loadAssets(cfg, logger), cfg.Assets.Entry),
		inertia.WithLogger(logger),
		inertia.WithPrerender(resolver, table.Func()),
		inertia.WithObserver(observer),
	)
	renderer.ShareFunc(func(r *http.Request) map[string]any {
		return map[string]any{"request_id": chimw.GetReqID(r.Context())}
	})

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		table:    table,
		registry: registry,
		renderer: renderer,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(tracing.Handler, metrics.Handler)

	if cfg.Metrics.Enabled {
		r.Method(http.MethodGet, cfg.Metrics.Path, promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
	}
	if dir := cfg.StaticPath(); dir != "" {
		if _, err := os.Stat(dir); err == nil {
			prefix := strings.TrimSuffix(cfg.Static.Prefix, "/")
			r.Handle(prefix+"/*", http.StripPrefix(prefix, http.FileServer(http.Dir(dir))))
		}
	}

	s.views = s.bindViews()
	for _, v := range s.views {
		r.Method(http.MethodGet, v.Path, s.viewHandler(v))
	}
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		props := map[string]any{"status": http.StatusNotFound}
		if err := renderer.RenderStatus(w, req, http.StatusNotFound, page.SentinelComponent, props); err != nil {
			logger.Error("not found render failed", "error", err)
		}
	})

	s.router = r
	return s, nil
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Views returns the bound views sorted by path.
func (s *Server) Views() []View {
	return append([]View(nil), s.views...)
}

// Table returns the route table in use.
func (s *Server) Table() *routes.Table {
	return s.table
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
		s.logger.Info("server shutdown complete")
		return nil
	}
}

// bindViews resolves configured views to URL paths. Views naming unknown
// routes or routes without a URL template are skipped with a warning.
func (s *Server) bindViews() []View {
	var views []View
	for key, component := range s.cfg.Views {
		v := View{Route: key, Component: component}
		if strings.HasPrefix(key, "/") {
			v.Route, v.Path = "", key
		} else {
			e, ok := s.table.Lookup(key)
			if !ok {
				s.logger.Warn("view names unknown route", "route", key, "component", component)
				continue
			}
			tmpl, ok := e.Template()
			if !ok || strings.HasPrefix(tmpl, "/api/") {
				s.logger.Warn("view route has no page URL", "route", key, "component", component)
				continue
			}
			v.Path = tmpl
		}
		views = append(views, v)
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Path < views[j].Path })
	return views
}

// viewHandler renders v with its path parameters as props.
func (s *Server) viewHandler(v View) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		props := map[string]any{}
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			for i, k := range rctx.URLParams.Keys {
				if k != "*" {
					props[k] = rctx.URLParams.Values[i]
				}
			}
		}
		if err := s.renderer.Render(w, r, v.Component, props); err != nil {
			s.logger.Error("render failed", "component", v.Component, "path", r.URL.Path, "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	})
}

// LoadTable returns the configured route table: the HCL file when one is
// configured, the application routes otherwise.
func LoadTable(cfg *config.Config, logger *slog.Logger) (*routes.Table, error) {
	path := cfg.RoutesPath()
	if path == "" {
		return routes.Default(), nil
	}
	return routes.LoadHCL(path, routes.WithLogger(logger))
}

// LoadRegistry builds the page registry the way the server does: from the
// configured S3 bucket when one is set, from the pages directory otherwise.
// A nil client is built from the S3 config.
func LoadRegistry(ctx context.Context, cfg *config.Config, client pagesource.S3API) (*page.Registry, error) {
	if bucket := cfg.Pages.S3.Bucket; bucket != "" {
		if client == nil {
			client = NewS3Client(cfg.Pages.S3)
		}
		return pagesource.FromS3(ctx, client, bucket, cfg.Pages.S3.Prefix)
	}
	dir := cfg.PagesPath()
	if _, err := os.Stat(dir); err != nil {
		return nil, errors.New(errors.CodeMissingConfig).
			WithDetail("pages directory %s", dir).
			WithSuggestion("Set pages.dir in " + config.ConfigFileName).
			Wrap(err)
	}
	return pagesource.FromFS(os.DirFS(dir))
}

// loadAssets picks the dev-server resolver when configured, the build
// manifest otherwise. A missing manifest yields an empty one.
func loadAssets(cfg *config.Config, logger *slog.Logger) assets.Resolver {
	if cfg.Assets.DevServer != "" {
		return assets.NewDevResolver(cfg.Assets.DevServer)
	}
	m, err := assets.Load(cfg.ManifestPath())
	if err != nil {
		if !stderrors.Is(err, fs.ErrNotExist) {
			logger.Warn("asset manifest unreadable", "path", cfg.ManifestPath(), "error", err)
		} else {
			logger.Warn("asset manifest missing", "path", cfg.ManifestPath())
		}
		m = assets.NewManifest()
	}
	return assets.NewResolver(m, cfg.Assets.Prefix)
}
