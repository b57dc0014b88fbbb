package page

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/knowdesk/pagekit/internal/errors"
)

const (
	// DefaultMountID is the id of the element the page is mounted into.
	DefaultMountID = "app"

	// PageAttr is the attribute carrying the JSON descriptor.
	PageAttr = "data-page"
)

// Document is a parsed host document.
type Document struct {
	root    *html.Node
	mountID string
}

// ParseDocument parses an HTML host document. An empty mountID selects
// DefaultMountID.
func ParseDocument(r io.Reader, mountID string) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse host document: %w", err)
	}
	if mountID == "" {
		mountID = DefaultMountID
	}
	return &Document{root: root, mountID: mountID}, nil
}

// NewDocument returns an empty host document. Pages mounted into it get a
// freshly created mount element.
func NewDocument(mountID string) *Document {
	doc, _ := ParseDocument(strings.NewReader(""), mountID)
	return doc
}

// MountID returns the id of the mount element.
func (d *Document) MountID() string {
	return d.mountID
}

// PageData returns the raw data-page attribute of the mount element.
func (d *Document) PageData() ([]byte, error) {
	mount := findByID(d.root, d.mountID)
	if mount == nil {
		return nil, errors.New(errors.CodeDescriptorParse).WithDetail("no element with id %q", d.mountID)
	}
	for _, a := range mount.Attr {
		if a.Namespace == "" && a.Key == PageAttr {
			return []byte(a.Val), nil
		}
	}
	return nil, errors.New(errors.CodeDescriptorParse).WithDetail("element %q has no %s attribute", d.mountID, PageAttr)
}

// Descriptor reads and decodes the page descriptor.
func (d *Document) Descriptor() (Descriptor, error) {
	data, err := d.PageData()
	if err != nil {
		return Descriptor{}, err
	}
	return ParseDescriptor(data)
}

// Render writes the document, including any mounted page, to w.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// mountNode returns the mount element, creating it at the end of <body>
// when the document lacks one.
func (d *Document) mountNode() *html.Node {
	if n := findByID(d.root, d.mountID); n != nil {
		return n
	}
	body := findElement(d.root, atom.Body)
	if body == nil {
		body = d.root
	}
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
		Attr:     []html.Attribute{{Key: "id", Val: d.mountID}},
	}
	body.AppendChild(n)
	return n
}

// replaceChildren swaps the mount element's children for nodes.
func replaceChildren(parent *html.Node, nodes []*html.Node) {
	for c := parent.FirstChild; c != nil; {
		next := c.NextSibling
		parent.RemoveChild(c)
		c = next
	}
	for _, n := range nodes {
		parent.AppendChild(n)
	}
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Namespace == "" && a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}
