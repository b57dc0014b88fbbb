package page

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/knowdesk/pagekit/internal/errors"
)

// RootAttr marks the mount element with the id of the mounted root.
const RootAttr = "data-root"

// Runtime renders a resolved page and attaches it to the mount point.
type Runtime interface {
	Mount(ctx context.Context, page *Resolved, props map[string]any) (*Root, error)
}

// Root is the single render tree created by a successful mount.
type Root struct {
	ID        string
	Component *Component
	Props     map[string]any
	HTML      string
}

// Notices supplies markup rendered above the page, such as pending alerts.
type Notices interface {
	Flush() template.HTML
}

// HTMLRuntime mounts pages into a parsed host Document.
type HTMLRuntime struct {
	doc     *Document
	route   RouteFunc
	notices Notices

	mu   sync.Mutex
	root *Root
}

// RuntimeOption configures an HTMLRuntime.
type RuntimeOption func(*HTMLRuntime)

// WithRoute installs the URL builder made available to every component.
func WithRoute(route RouteFunc) RuntimeOption {
	return func(rt *HTMLRuntime) {
		rt.route = route
	}
}

// WithNotices sets the source of markup rendered above the page.
func WithNotices(n Notices) RuntimeOption {
	return func(rt *HTMLRuntime) {
		rt.notices = n
	}
}

// NewHTMLRuntime creates a runtime that mounts into doc.
func NewHTMLRuntime(doc *Document, opts ...RuntimeOption) *HTMLRuntime {
	rt := &HTMLRuntime{doc: doc}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.route == nil {
		rt.route = Route(context.Background())
	}
	return rt
}

// Mount renders page with props and replaces the mount element's children.
// Only one root may be mounted; a failed mount leaves the document as it was.
func (rt *HTMLRuntime) Mount(ctx context.Context, page *Resolved, props map[string]any) (*Root, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.root != nil {
		return nil, errors.New(errors.CodeMountFailed).WithDetail("root %s already mounted", rt.root.ID)
	}
	if page == nil || page.Default == nil {
		return nil, errors.New(errors.CodeMountFailed).WithDetail("no component")
	}
	if rt.doc == nil {
		return nil, errors.New(errors.CodeMountFailed).WithDetail("no host document")
	}
	if props == nil {
		props = map[string]any{}
	}

	rc := &RenderContext{
		Context: WithRouteFunc(ctx, rt.route),
		Props:   props,
		Route:   rt.route,
	}
	var body bytes.Buffer
	if err := RenderTree(&body, page.Default, rc); err != nil {
		return nil, errors.New(errors.CodeMountFailed).Wrap(err)
	}

	var out bytes.Buffer
	if rt.notices != nil {
		out.WriteString(string(rt.notices.Flush()))
	}
	out.Write(body.Bytes())

	mount := rt.doc.mountNode()
	nodes, err := html.ParseFragment(bytes.NewReader(out.Bytes()), mount)
	if err != nil {
		return nil, errors.New(errors.CodeMountFailed).Wrap(fmt.Errorf("parse rendered markup: %w", err))
	}

	root := &Root{
		ID:        uuid.NewString(),
		Component: page.Default,
		Props:     props,
		HTML:      out.String(),
	}
	replaceChildren(mount, nodes)
	setAttr(mount, RootAttr, root.ID)
	rt.root = root
	return root, nil
}

// Root returns the mounted root, or nil.
func (rt *HTMLRuntime) Root() *Root {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.root
}
