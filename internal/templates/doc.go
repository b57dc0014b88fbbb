// Package templates provides project templates for pagekit init.
//
// Available templates:
//   - minimal: pagekit.json, a layout and a home page
//   - full: the application's views with example pages, an HCL route
//     file and a sample host document
//
// Usage:
//
//	tmpl, err := templates.Get("full")
//	if err != nil {
//	    return err
//	}
//	err = tmpl.Create("./myapp", templates.Config{ProjectName: "myapp"})
package templates
