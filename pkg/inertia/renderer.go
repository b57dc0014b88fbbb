package inertia

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log/slog"
	"maps"
	"net/http"
	"sync"

	"github.com/knowdesk/pagekit/pkg/alert"
	"github.com/knowdesk/pagekit/pkg/assets"
	"github.com/knowdesk/pagekit/pkg/page"
)

// Protocol headers.
const (
	HeaderInertia  = "X-Inertia"
	HeaderVersion  = "X-Inertia-Version"
	HeaderLocation = "X-Inertia-Location"
)

// DefaultEntry is the bundler entry loaded by the host document.
const DefaultEntry = "src/app.js"

// ShareFunc computes shared props for a request.
type ShareFunc func(r *http.Request) map[string]any

// Renderer produces Inertia responses. Shared props are safe to register
// concurrently with rendering.
type Renderer struct {
	version string
	mountID string
	title   string
	lang    string
	assets  assets.Resolver
	entry   string
	logger  *slog.Logger

	resolver *page.Resolver
	route    page.RouteFunc
	observer page.Observer

	mu     sync.RWMutex
	shared map[string]any
	funcs  []ShareFunc
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithVersion sets the asset version sent with every descriptor.
func WithVersion(v string) Option {
	return func(r *Renderer) {
		r.version = v
	}
}

// WithMountID sets the id of the element the descriptor is attached to.
func WithMountID(id string) Option {
	return func(r *Renderer) {
		r.mountID = id
	}
}

// WithTitle sets the host document title.
func WithTitle(title string) Option {
	return func(r *Renderer) {
		r.title = title
	}
}

// WithLang sets the host document language.
func WithLang(lang string) Option {
	return func(r *Renderer) {
		r.lang = lang
	}
}

// WithAssets sets the resolver for the stylesheet and script tags of entry.
func WithAssets(res assets.Resolver, entry string) Option {
	return func(r *Renderer) {
		r.assets = res
		if entry != "" {
			r.entry = entry
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		r.logger = l
	}
}

// WithPrerender mounts each host document on the server using resolver.
// route is the URL builder given to components; nil selects the default
// route table.
func WithPrerender(resolver *page.Resolver, route page.RouteFunc) Option {
	return func(r *Renderer) {
		r.resolver = resolver
		r.route = route
	}
}

// WithObserver sets the observer notified of prerender bootstraps.
func WithObserver(o page.Observer) Option {
	return func(r *Renderer) {
		r.observer = o
	}
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		version: page.FallbackVersion,
		mountID: page.DefaultMountID,
		lang:    "ja",
		entry:   DefaultEntry,
		logger:  slog.Default(),
		shared:  make(map[string]any),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Version returns the asset version.
func (r *Renderer) Version() string {
	return r.version
}

// Share registers a prop included in every response.
func (r *Renderer) Share(key string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shared[key] = value
}

// ShareFunc registers a function whose props are included in every
// response. Later functions override earlier ones.
func (r *Renderer) ShareFunc(fn ShareFunc) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs = append(r.funcs, fn)
}

// Props returns the shared props for req merged under props.
func (r *Renderer) Props(req *http.Request, props map[string]any) map[string]any {
	r.mu.RLock()
	merged := maps.Clone(r.shared)
	funcs := append([]ShareFunc(nil), r.funcs...)
	r.mu.RUnlock()

	if merged == nil {
		merged = make(map[string]any)
	}
	for _, fn := range funcs {
		maps.Copy(merged, fn(req))
	}
	maps.Copy(merged, props)
	return merged
}

// Descriptor builds the page descriptor for req.
func (r *Renderer) Descriptor(req *http.Request, component string, props map[string]any) page.Descriptor {
	return page.Descriptor{
		Component: component,
		Props:     r.Props(req, props),
		URL:       req.URL.RequestURI(),
		Version:   r.version,
	}
}

// IsInertia reports whether req was sent by the client-side router.
func IsInertia(req *http.Request) bool {
	return req.Header.Get(HeaderInertia) != ""
}

// Render writes the response for component with props.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, component string, props map[string]any) error {
	return r.RenderStatus(w, req, http.StatusOK, component, props)
}

// RenderStatus is like Render with an explicit status code.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, status int, component string, props map[string]any) error {
	if IsInertia(req) && r.stale(req) {
		w.Header().Set(HeaderLocation, req.URL.RequestURI())
		w.WriteHeader(http.StatusConflict)
		return nil
	}

	desc := r.Descriptor(req, component, props)
	if IsInertia(req) {
		return r.writeJSON(w, status, desc)
	}
	return r.writeDocument(w, req, status, desc)
}

// Handler returns a handler rendering component with props computed per
// request. props may be nil.
func (r *Renderer) Handler(component string, props func(*http.Request) map[string]any) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var p map[string]any
		if props != nil {
			p = props(req)
		}
		if err := r.Render(w, req, component, p); err != nil {
			r.logger.Error("render failed", "component", component, "path", req.URL.Path, "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	})
}

// stale reports whether a GET carries an asset version other than ours.
func (r *Renderer) stale(req *http.Request) bool {
	if req.Method != http.MethodGet {
		return false
	}
	v := req.Header.Get(HeaderVersion)
	return v != "" && v != r.version
}

func (r *Renderer) writeJSON(w http.ResponseWriter, status int, desc page.Descriptor) error {
	data, err := desc.Encode()
	if err != nil {
		return err
	}
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Vary", "Accept")
	h.Set(HeaderInertia, "true")
	w.WriteHeader(status)
	_, err = w.Write(data)
	return err
}

var hostTemplate = template.Must(template.New("host").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
{{- if .Title}}
<title>{{.Title}}</title>
{{- end}}
{{.Assets}}
</head>
<body>
<div id="{{.MountID}}" data-page="{{.Page}}"></div>
</body>
</html>
`))

type hostData struct {
	Lang    string
	Title   string
	Assets  template.HTML
	MountID string
	Page    string
}

// Document returns the host document for desc.
func (r *Renderer) Document(desc page.Descriptor) ([]byte, error) {
	data, err := json.Marshal(desc)
	if err != nil {
		return nil, err
	}
	var tags template.HTML
	if r.assets != nil {
		tags = r.assets.Tags(r.entry)
	}
	var buf bytes.Buffer
	err = hostTemplate.Execute(&buf, hostData{
		Lang:    r.lang,
		Title:   r.title,
		Assets:  tags,
		MountID: r.mountID,
		Page:    string(data),
	})
	return buf.Bytes(), err
}

func (r *Renderer) writeDocument(w http.ResponseWriter, req *http.Request, status int, desc page.Descriptor) error {
	body, err := r.Document(desc)
	if err != nil {
		return err
	}
	if r.resolver != nil {
		body, err = r.prerender(req, body)
		if err != nil {
			return err
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Vary", HeaderInertia)
	w.WriteHeader(status)
	_, err = w.Write(body)
	return err
}

// prerender bootstraps the host document and returns the mounted markup.
func (r *Renderer) prerender(req *http.Request, body []byte) ([]byte, error) {
	doc, err := page.ParseDocument(bytes.NewReader(body), r.mountID)
	if err != nil {
		return nil, err
	}
	route := r.route
	if route == nil {
		route = page.Route(req.Context())
	}

	notices := alert.NewStack()
	bs := page.NewBootstrap(page.Config{
		Document: doc,
		Resolver: r.resolver,
		Runtime:  page.NewHTMLRuntime(doc, page.WithRoute(route), page.WithNotices(notices)),
		Location: req.URL.RequestURI(),
		Logger:   r.logger,
		Reporter: notices,
		Observer: r.observer,
	})
	ctx := page.WithRouteFunc(req.Context(), route)
	res := bs.Run(ctx)
	r.logger.Debug("page prerendered",
		"path", req.URL.Path,
		"state", res.State.String(),
		"outcome", res.Outcome())

	var out bytes.Buffer
	if err := doc.Render(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
