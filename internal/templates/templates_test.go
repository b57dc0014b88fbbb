package templates

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/knowdesk/pagekit/internal/config"
	"github.com/knowdesk/pagekit/internal/errors"
	"github.com/knowdesk/pagekit/pkg/page"
	"github.com/knowdesk/pagekit/pkg/pagesource"
	"github.com/knowdesk/pagekit/pkg/routes"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"minimal", false},
		{"full", false},
		{"nonexistent", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Get(tt.name)
			if tt.wantErr {
				if errors.CodeOf(err) != errors.CodeUnknownTemplate {
					t.Errorf("err = %v, want %s", err, errors.CodeUnknownTemplate)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tmpl.Name != tt.name {
				t.Errorf("Name = %q, want %q", tmpl.Name, tt.name)
			}
		})
	}
}

func TestList(t *testing.T) {
	names := List()
	if strings.Join(names, ",") != "full,minimal" {
		t.Errorf("List() = %v", names)
	}
}

func TestCreateMinimal(t *testing.T) {
	dir := t.TempDir()
	tmpl, _ := Get("minimal")
	if err := tmpl.Create(dir, Config{ProjectName: "atlas", Description: "Team notes"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "atlas" || cfg.Version != config.DefaultVersion {
		t.Errorf("config = %+v", cfg)
	}

	home, err := os.ReadFile(filepath.Join(dir, "frontend/pages/Home/Home.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(home), "# atlas") || !strings.Contains(string(home), "Team notes") {
		t.Errorf("Home.md = %q", home)
	}

	layout, _ := os.ReadFile(filepath.Join(dir, "frontend/layouts/Layout.html"))
	if !strings.Contains(string(layout), `{{ .Content }}`) {
		t.Errorf("layout actions should be kept: %q", layout)
	}
}

func TestCreateRefusesExistingProject(t *testing.T) {
	dir := t.TempDir()
	tmpl, _ := Get("minimal")
	if err := tmpl.Create(dir, Config{ProjectName: "a"}); err != nil {
		t.Fatal(err)
	}
	err := tmpl.Create(dir, Config{ProjectName: "b"})
	if errors.CodeOf(err) != errors.CodeProjectExists {
		t.Errorf("err = %v, want %s", err, errors.CodeProjectExists)
	}
}

// The full template must produce a project whose sample document mounts.
func TestCreateFullBootstraps(t *testing.T) {
	dir := t.TempDir()
	tmpl, _ := Get("full")
	if err := tmpl.Create(dir, Config{ProjectName: "atlas", Version: "3.1.0"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	table, err := routes.LoadHCL(cfg.RoutesPath())
	if err != nil {
		t.Fatalf("LoadHCL: %v", err)
	}
	if got := table.URL("projects.destroy", 4); got != "/api/v1/projects/4" {
		t.Errorf("projects.destroy = %q", got)
	}

	registry, err := pagesource.FromFS(os.DirFS(cfg.PagesPath()))
	if err != nil {
		t.Fatalf("FromFS: %v", err)
	}
	f, err := os.Open(filepath.Join(dir, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	doc, err := page.ParseDocument(f, cfg.MountID)
	if err != nil {
		t.Fatal(err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	res := page.NewBootstrap(page.Config{
		Document: doc,
		Resolver: page.NewResolver(registry, page.WithResolverLogger(logger)),
		Runtime:  page.NewHTMLRuntime(doc, page.WithRoute(table.Func())),
		Logger:   logger,
	}).Run(context.Background())

	if res.State != page.StateMounted || res.Fallback {
		t.Fatalf("state = %v, errors = %v", res.State, res.Errors)
	}
	if res.Descriptor.Version != "3.1.0" {
		t.Errorf("version = %q", res.Descriptor.Version)
	}
	if !strings.Contains(res.Root.HTML, `data-delete="/api/v1/projects/1"`) {
		t.Errorf("root html = %s", res.Root.HTML)
	}
}
