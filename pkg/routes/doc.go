// Package routes maps symbolic route names to URLs.
//
// A Table is built once at startup and never mutated. Each name maps to an
// Entry that is either a fixed URL or a generator taking one positional
// parameter:
//
//	t := routes.NewTable(map[string]routes.Entry{
//	    "project.index":  routes.Fixed("/projects"),
//	    "project.detail": routes.Pattern("/projects/{id}"),
//	})
//
//	t.URL("project.index", nil)                      // "/projects"
//	t.URL("project.detail", 42)                      // "/projects/42"
//	t.URL("project.detail", routes.P("id", 42))      // "/projects/42"
//	t.URL("missing", nil)                            // "/" (logged)
//
// Only the first value of an object parameter is used; additional keys are
// dropped. Values are not URL-encoded.
//
// Tables can also be loaded from HCL files, see ParseHCL.
package routes
