package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/knowdesk/pagekit/internal/config"
	"github.com/knowdesk/pagekit/pkg/inertia"
	"github.com/knowdesk/pagekit/pkg/page"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// project lays out a pagekit project in a temp dir and loads its config.
func project(t *testing.T, files map[string]string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		writeFile(t, filepath.Join(dir, name), content)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Metrics.Enabled = true
	return cfg
}

func defaultProject(t *testing.T) *config.Config {
	return project(t, map[string]string{
		"frontend/layouts/Layout.html":        `<main class="container">{{ .Content }}</main>`,
		"frontend/pages/projects/Detail.html": `<h1>Project {{ .Props.id }}</h1><a href="{{ route "project.edit" .Props.id }}">edit</a>`,
		"frontend/pages/Home/Home.md":         "# Welcome\n",
		"static/app.css":                      "body{}",
	})
}

func newServer(t *testing.T, cfg *config.Config, opts ...Option) *Server {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	s, err := New(context.Background(), cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func get(t *testing.T, h http.Handler, path string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServeView(t *testing.T) {
	s := newServer(t, defaultProject(t))
	h := s.Handler()

	rec := get(t, h, "/projects/7", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`<main class="container"><h1>Project 7</h1>`,
		`href="/projects/7/edit"`,
		`data-page=`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("missing %q in\n%s", want, body)
		}
	}

	rec = get(t, h, "/", nil)
	if !strings.Contains(rec.Body.String(), "<h1>Welcome</h1>") {
		t.Errorf("home page not rendered:\n%s", rec.Body.String())
	}
}

func TestServeInertiaJSON(t *testing.T) {
	s := newServer(t, defaultProject(t))

	rec := get(t, s.Handler(), "/projects/12", map[string]string{inertia.HeaderInertia: "true"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var desc page.Descriptor
	if err := json.Unmarshal(rec.Body.Bytes(), &desc); err != nil {
		t.Fatal(err)
	}
	if desc.Component != "projects/Detail" || desc.Props["id"] != "12" || desc.URL != "/projects/12" {
		t.Errorf("descriptor = %+v", desc)
	}
	if desc.Props["request_id"] == "" {
		t.Error("request_id should be shared")
	}
}

func TestServeMissingPage(t *testing.T) {
	s := newServer(t, defaultProject(t))

	// knowledge/Index has a view but no page source.
	rec := get(t, s.Handler(), "/knowledge", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "page-placeholder") || !strings.Contains(body, "alert-danger") {
		t.Errorf("expected placeholder with alert:\n%s", body)
	}

	rec = get(t, s.Handler(), "/no/such/path", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), page.SentinelComponent) {
		t.Errorf("404 page should name the sentinel component")
	}
}

func TestServeStaticAndMetrics(t *testing.T) {
	s := newServer(t, defaultProject(t))
	h := s.Handler()

	if rec := get(t, h, "/static/app.css", nil); rec.Code != http.StatusOK || rec.Body.String() != "body{}" {
		t.Errorf("static: %d %q", rec.Code, rec.Body.String())
	}

	get(t, h, "/projects/1", nil)
	rec := get(t, h, "/metrics", nil)
	body := rec.Body.String()
	for _, want := range []string{
		`pagekit_http_requests_total{app="pagekit",method="GET",route="/projects/{id}",status="200"} 1`,
		`pagekit_resolutions_total{app="pagekit",outcome="mounted"} 1`,
		`pagekit_module_load_seconds_count{app="pagekit",status="success"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestBindViews(t *testing.T) {
	cfg := defaultProject(t)
	cfg.Views = map[string]string{
		"project.detail":   "projects/Detail",
		"projects.destroy": "api/Only",
		"nope.route":       "Nope",
		"/about":           "About",
	}
	s := newServer(t, cfg)

	got := s.Views()
	want := []View{
		{Path: "/about", Component: "About"},
		{Route: "project.detail", Path: "/projects/{id}", Component: "projects/Detail"},
	}
	if len(got) != len(want) {
		t.Fatalf("views = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("views[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestHCLRoutes(t *testing.T) {
	cfg := project(t, map[string]string{
		"routes.hcl": `
locals {
  base = "/p"
}
route "project.detail" {
  pattern = "/p/{id}"
}
route "home" {
  url = local.base
}
`,
		"frontend/pages/projects/Detail.html": `<b>{{ .Props.id }}</b>`,
	})
	cfg.Routes = "routes.hcl"
	cfg.Views = map[string]string{"project.detail": "projects/Detail"}

	s := newServer(t, cfg)
	if s.Table().Len() != 2 {
		t.Fatalf("table len = %d", s.Table().Len())
	}
	rec := get(t, s.Handler(), "/p/3", nil)
	if !strings.Contains(rec.Body.String(), "<b>3</b>") {
		t.Errorf("body:\n%s", rec.Body.String())
	}
}

func TestMissingPagesDir(t *testing.T) {
	cfg := project(t, nil)
	_, err := New(context.Background(), cfg, WithLogger(quietLogger()))
	if err == nil {
		t.Fatal("expected error for missing pages dir")
	}
}

type bucket map[string]string

func (b bucket) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	var keys []string
	for k := range b {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func (b bucket) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(b[aws.ToString(in.Key)]))}, nil
}

func TestServeFromS3(t *testing.T) {
	cfg := project(t, nil)
	cfg.Pages.S3 = config.S3Config{Bucket: "pages", Prefix: "site", Region: "eu-west-1"}

	s := newServer(t, cfg, WithS3Client(bucket{
		"site/pages/knowledge/Detail.md": "## Knowledge base\n",
	}))
	rec := get(t, s.Handler(), "/knowledge/5", nil)
	if !strings.Contains(rec.Body.String(), "<h2>Knowledge base</h2>") {
		t.Errorf("body:\n%s", rec.Body.String())
	}
}

func TestLoadRegistry(t *testing.T) {
	s3Pages := bucket{
		"site/pages/Remote.md": "# remote\n",
		"other/pages/Stray.md": "# stray\n",
	}
	tests := []struct {
		name  string
		files map[string]string
		s3    config.S3Config
		want  []string
	}{
		{
			name:  "pages directory",
			files: map[string]string{"frontend/pages/Local.html": "<p>local</p>"},
			want:  []string{"Local"},
		},
		{
			name:  "bucket wins over directory",
			files: map[string]string{"frontend/pages/Local.html": "<p>local</p>"},
			s3:    config.S3Config{Bucket: "pages", Prefix: "site", Region: "eu-west-1"},
			want:  []string{"Remote"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := project(t, tt.files)
			cfg.Pages.S3 = tt.s3
			reg, err := LoadRegistry(context.Background(), cfg, s3Pages)
			if err != nil {
				t.Fatal(err)
			}
			if got := reg.Pages(); strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Pages() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewS3Client(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	c := NewS3Client(config.S3Config{Region: "us-east-1", Endpoint: "http://localhost:9000", PathStyle: true})
	o := c.Options()
	if o.Region != "us-east-1" || !o.UsePathStyle || aws.ToString(o.BaseEndpoint) != "http://localhost:9000" {
		t.Errorf("options = %+v", o)
	}
	if _, ok := o.Credentials.(aws.AnonymousCredentials); !ok {
		t.Errorf("credentials = %T, want anonymous", o.Credentials)
	}
}
