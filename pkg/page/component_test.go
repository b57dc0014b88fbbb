package page

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestRenderTreeWithLayouts(t *testing.T) {
	outer := &Component{
		Name: "Outer",
		Render: func(w io.Writer, rc *RenderContext) error {
			_, err := io.WriteString(w, "<outer>"+string(rc.Content)+"</outer>")
			return err
		},
	}
	inner := mustTemplate(t, "Inner", `<inner>{{ .Content }}</inner>`)
	inner.Layout = outer
	pg := mustTemplate(t, "Page", `<p>{{ .Props.msg }}</p>`)
	pg.Layout = inner

	var buf bytes.Buffer
	rc := &RenderContext{Context: context.Background(), Props: map[string]any{"msg": "<hi>"}}
	if err := RenderTree(&buf, pg, rc); err != nil {
		t.Fatal(err)
	}
	want := "<outer><inner><p>&lt;hi&gt;</p></inner></outer>"
	if buf.String() != want {
		t.Errorf("RenderTree = %q, want %q", buf.String(), want)
	}
}

func TestRenderTreeLayoutCycle(t *testing.T) {
	a := Static("A", "a")
	b := Static("B", "b")
	a.Layout = b
	b.Layout = a

	err := RenderTree(io.Discard, a, &RenderContext{})
	if err == nil || !strings.Contains(err.Error(), "layout chain") {
		t.Errorf("RenderTree cycle err = %v", err)
	}
}

func TestRenderTreeErrors(t *testing.T) {
	if err := RenderTree(io.Discard, &Component{Name: "Empty"}, &RenderContext{}); err == nil {
		t.Error("component without Render should fail")
	}

	boom := errors.New("boom")
	c := &Component{Name: "Bad", Render: func(io.Writer, *RenderContext) error { return boom }}
	if err := RenderTree(io.Discard, c, &RenderContext{}); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped boom", err)
	}
}

func TestTemplateRouteFunc(t *testing.T) {
	c := mustTemplate(t, "Links", `<a href="{{ route "project.detail" .Props.id }}">x</a><a href="{{ route "home" }}">h</a>`)

	var buf bytes.Buffer
	rc := &RenderContext{
		Props: map[string]any{"id": 7},
		Route: func(name string, p any) string {
			if name == "home" {
				return "/"
			}
			return fmt.Sprintf("/projects/%v", p)
		},
	}
	if err := RenderTree(&buf, c, rc); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != `<a href="/projects/7">x</a><a href="/">h</a>` {
		t.Errorf("rendered = %q", got)
	}

	// Without an installed route func the template still renders.
	buf.Reset()
	if err := RenderTree(&buf, c, &RenderContext{Props: map[string]any{"id": 1}}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `href="/"`) {
		t.Errorf("rendered = %q", buf.String())
	}
}

func TestNewTemplateParseError(t *testing.T) {
	if _, err := NewTemplate("bad", "{{ .Props "); err == nil {
		t.Error("expected parse error")
	}
}

func TestPlaceholderEscapesName(t *testing.T) {
	c := Placeholder(`<script>x</script>`)
	if c.Missing != `<script>x</script>` || c.Name != PlaceholderName {
		t.Errorf("placeholder = %+v", c)
	}
	var buf bytes.Buffer
	if err := RenderTree(&buf, c, &RenderContext{}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "<script>") || !strings.Contains(buf.String(), "&lt;script&gt;") {
		t.Errorf("placeholder markup = %q", buf.String())
	}
}

func TestWithLayoutDoesNotMutate(t *testing.T) {
	own := Static("Own", "")
	c := Static("Page", "")
	c.Layout = own

	got := c.withLayout(BaseLayout)
	if got.Layout != own {
		t.Error("explicit layout must be kept")
	}

	bare := Static("Bare", "")
	got = bare.withLayout(BaseLayout)
	if got.Layout != BaseLayout {
		t.Error("default layout should apply")
	}
	if bare.Layout != nil {
		t.Error("original component must not be mutated")
	}
}
