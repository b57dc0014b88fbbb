// Package inertia renders page descriptors for the client-side bootstrap.
//
// A Renderer answers each page request in one of two ways. Requests that
// carry the X-Inertia header receive the descriptor as JSON; all others
// receive a host document whose mount element holds the descriptor in its
// data-page attribute:
//
//	r := inertia.New(
//	    inertia.WithVersion(cfg.Version),
//	    inertia.WithAssets(resolver, "src/app.js"),
//	)
//	r.ShareFunc(func(req *http.Request) map[string]any {
//	    return map[string]any{"auth": map[string]any{"user": nil}}
//	})
//
//	mux.Get("/projects", func(w http.ResponseWriter, req *http.Request) {
//	    r.Render(w, req, "Projects/Index", map[string]any{"projects": list})
//	})
//
// With WithPrerender the host document is additionally bootstrapped on the
// server so the mount element already contains the rendered page.
package inertia
