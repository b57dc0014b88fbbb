// Package page resolves a page descriptor embedded in a host document to a
// lazily loaded page component and mounts it.
//
// A bootstrap moves through three states:
//
//	Parsing ──> Resolving ──> Mounted
//	   │            │
//	   └──> ErrorFallback <┘
//
// Parsing reads the JSON descriptor from the mount element's data-page
// attribute. Resolving looks the component name up in a Registry of lazy
// loaders (keys of the form ./pages/<name>.<ext>) and applies the default
// layout when the page declares none. Mounted renders the page inside its
// layout into the mount element.
//
// None of the failure paths are fatal. A descriptor that cannot be parsed
// is replaced by FallbackDescriptor, and a page that cannot be found or
// loaded is replaced by a placeholder in the default layout:
//
//	doc, _ := page.ParseDocument(r, "app")
//	rt := page.NewHTMLRuntime(doc, page.WithRoute(routes.Default().URL))
//	res := page.NewBootstrap(page.Config{
//	    Document: doc,
//	    Resolver: page.NewResolver(registry),
//	    Runtime:  rt,
//	    Location: "https://example.com/projects",
//	}).Run(ctx)
//
//	doc.Render(w)
//
// Bootstrap runs at most once. A failed resolution is not retried.
package page
