package page

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"strings"
	"testing"
)

func hostDoc(t *testing.T, payload string) *Document {
	t.Helper()
	src := `<!DOCTYPE html><html><head><title>t</title></head><body>` +
		`<div id="app" data-page="` + template.HTMLEscapeString(payload) + `"></div></body></html>`
	doc, err := ParseDocument(strings.NewReader(src), "")
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	return doc
}

func renderDoc(t *testing.T, doc *Document) string {
	t.Helper()
	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return buf.String()
}

func mustTemplate(t *testing.T, name, src string) *Component {
	t.Helper()
	c, err := NewTemplate(name, src)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func staticLoader(c *Component) Loader {
	return func(context.Context) (*Component, error) { return c, nil }
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

type recordingReporter struct {
	messages []string
}

func (r *recordingReporter) ShowError(message string) {
	r.messages = append(r.messages, message)
}
