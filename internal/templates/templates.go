package templates

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/knowdesk/pagekit/internal/config"
	"github.com/knowdesk/pagekit/internal/errors"
)

// Config contains template configuration.
type Config struct {
	// ProjectName is the name of the project, used as the page title.
	ProjectName string

	// Description is a short project description.
	Description string

	// Version is the initial asset version.
	Version string
}

// Template represents a project template.
type Template struct {
	// Name is the template name.
	Name string

	// Description describes the template.
	Description string

	// Files is a map of relative paths to file contents.
	Files map[string]string
}

// Available templates.
var templates = map[string]*Template{
	"minimal": minimalTemplate(),
	"full":    fullTemplate(),
}

// Get returns a template by name.
func Get(name string) (*Template, error) {
	tmpl, ok := templates[name]
	if !ok {
		return nil, errors.New(errors.CodeUnknownTemplate).
			WithDetail("template %q", name).
			WithSuggestion("Available templates: " + strings.Join(List(), ", "))
	}
	return tmpl, nil
}

// List returns all available template names, sorted.
func List() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create generates a project from the template. It refuses to overwrite
// an existing pagekit.json.
func (t *Template) Create(dir string, cfg Config) error {
	if cfg.Version == "" {
		cfg.Version = config.DefaultVersion
	}
	if _, err := os.Stat(filepath.Join(dir, config.ConfigFileName)); err == nil {
		return errors.New(errors.CodeProjectExists).WithDetail("%s already contains %s", dir, config.ConfigFileName)
	}

	// Page sources are themselves templates; use distinct delimiters so
	// their actions survive scaffolding.
	for relPath, content := range t.Files {
		tmpl, err := template.New(relPath).Delims("[[", "]]").Parse(content)
		if err != nil {
			return errors.Newf(errors.CategoryCLI, "invalid template %s: %v", relPath, err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, cfg); err != nil {
			return errors.Newf(errors.CategoryCLI, "template execute error %s: %v", relPath, err)
		}

		fullPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(fullPath, buf.Bytes(), 0644); err != nil {
			return err
		}
	}

	return nil
}

const configFile = `{
  "name": "[[.ProjectName]]",
  "version": "[[.Version]]",
  "pages": { "dir": "frontend" },
  "metrics": { "enabled": true }
}
`

const layoutFile = `<nav class="navbar"><a href="{{ route "project.index" }}">[[.ProjectName]]</a></nav>
<main class="container">{{ .Content }}</main>
`

const homeFile = `# [[.ProjectName]]

[[.Description]]
`

// minimalTemplate returns the minimal template.
func minimalTemplate() *Template {
	return &Template{
		Name:        "minimal",
		Description: "A layout and a home page",
		Files: map[string]string{
			"pagekit.json":                 configFile,
			"frontend/layouts/Layout.html": layoutFile,
			"frontend/pages/Home/Home.md":  homeFile,
		},
	}
}

// fullTemplate returns the full template with the application's views.
func fullTemplate() *Template {
	return &Template{
		Name:        "full",
		Description: "Project and knowledge pages, HCL routes and a sample host document",
		Files: map[string]string{
			"pagekit.json": `{
  "name": "[[.ProjectName]]",
  "version": "[[.Version]]",
  "routes": "routes.hcl",
  "pages": { "dir": "frontend" },
  "assets": { "manifest": "static/dist/.vite/manifest.json" },
  "metrics": { "enabled": true }
}
`,
			"routes.hcl": `locals {
  api = "/api/v1"
}

route "auth.login" {
  url = "/auth/login"
}

route "project.index" {
  url = "/projects"
}

route "project.detail" {
  pattern = "/projects/{id}"
}

route "projects.destroy" {
  pattern = "${local.api}/projects/{id}"
}

route "knowledge.index" {
  url = "/knowledge"
}

route "knowledge.detail" {
  pattern = "/knowledge/{id}"
}

route "knowledge.query" {
  pattern = "${local.api}/knowledge/{id}/search"
}

route "api.auth.me" {
  url = "${local.api}/auth/me"
}
`,
			"frontend/layouts/Layout.html": layoutFile,
			"frontend/layouts/Auth.html": `<main class="container auth">{{ .Content }}</main>
`,
			"frontend/pages/Home/Home.md": homeFile,
			"frontend/pages/auth/Login.html": `{{/* layout: Auth */}}
<h1>Log in</h1>
<form method="post" action="{{ route "auth.login" }}">
  <input name="email" type="email">
  <input name="password" type="password">
  <button type="submit">Log in</button>
</form>
`,
			"frontend/pages/projects/Index.html": `<h1>Projects</h1>
<a href="{{ route "project.detail" 1 }}">First project</a>
`,
			"frontend/pages/projects/Detail.html": `<h1>Project {{ .Props.id }}</h1>
<button data-delete="{{ route "projects.destroy" .Props.id }}">Delete</button>
`,
			"frontend/pages/knowledge/Index.md": `# Knowledge bases
`,
			"frontend/pages/knowledge/Detail.html": `<h1>Knowledge base {{ .Props.id }}</h1>
<form data-search="{{ route "knowledge.query" .Props.id }}"><input name="query"></form>
`,
			"index.html": `<!DOCTYPE html>
<html>
<body>
<div id="app" data-page="{&#34;component&#34;:&#34;projects/Detail&#34;,&#34;props&#34;:{&#34;id&#34;:1},&#34;url&#34;:&#34;/projects/1&#34;,&#34;version&#34;:&#34;[[.Version]]&#34;}"></div>
</body>
</html>
`,
		},
	}
}
