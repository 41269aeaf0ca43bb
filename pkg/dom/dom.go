// Package dom is the in-memory element model that inlinesvg mutates.
//
// Nodes are golang.org/x/net/html nodes, so markup assigned with
// SetInnerHTML is parsed exactly as a browser would parse SVG foreign
// content, and the whole tree can be rendered back to HTML.
package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// SVGNamespace is the namespace x/net/html assigns to SVG foreign content.
const SVGNamespace = "svg"

// Document is a minimal HTML document with a head and a body.
type Document struct {
	root *html.Node
	head *html.Node
	body *html.Node
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	root := &html.Node{Type: html.DocumentNode}
	htmlEl := &html.Node{Type: html.ElementNode, Data: "html", DataAtom: atom.Html}
	head := &html.Node{Type: html.ElementNode, Data: "head", DataAtom: atom.Head}
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	root.AppendChild(htmlEl)
	htmlEl.AppendChild(head)
	htmlEl.AppendChild(body)
	return &Document{root: root, head: head, body: body}
}

// Head returns the document head.
func (d *Document) Head() *Element { return Wrap(d.head) }

// Body returns the document body.
func (d *Document) Body() *Element { return Wrap(d.body) }

// QuerySelector returns the first node in the document matching sel.
func (d *Document) QuerySelector(sel string) *Element {
	return Wrap(query(d.root, sel))
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// CreateElement returns a detached HTML element.
func CreateElement(tag string) *Element {
	return Wrap(&html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))})
}

// CreateSVGElement returns a detached element in the SVG namespace.
func CreateSVGElement(tag string) *Element {
	return Wrap(&html.Node{
		Type:      html.ElementNode,
		Data:      tag,
		DataAtom:  atom.Lookup([]byte(tag)),
		Namespace: SVGNamespace,
	})
}

// Element is a handle on an element node.
type Element struct {
	n *html.Node
}

// Wrap returns an Element for n, or nil when n is nil.
func Wrap(n *html.Node) *Element {
	if n == nil {
		return nil
	}
	return &Element{n: n}
}

// Node returns the underlying node.
func (e *Element) Node() *html.Node { return e.n }

// TagName returns the element's tag.
func (e *Element) TagName() string { return e.n.Data }

// AttrName returns the qualified name of a, such as "xlink:href".
func AttrName(a html.Attribute) string {
	if a.Namespace != "" {
		return a.Namespace + ":" + a.Key
	}
	return a.Key
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.n.Attr {
		if AttrName(a) == name {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttr reports whether the named attribute is present.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attr(name)
	return ok
}

// SetAttr sets the named attribute, replacing an existing value in place.
func (e *Element) SetAttr(name, value string) {
	for i, a := range e.n.Attr {
		if AttrName(a) == name {
			e.n.Attr[i].Val = value
			return
		}
	}
	e.n.Attr = append(e.n.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttr removes the named attribute if present.
func (e *Element) RemoveAttr(name string) {
	attrs := e.n.Attr[:0]
	for _, a := range e.n.Attr {
		if AttrName(a) != name {
			attrs = append(attrs, a)
		}
	}
	e.n.Attr = attrs
}

// Attrs returns a copy of the element's attributes.
func (e *Element) Attrs() []html.Attribute {
	return append([]html.Attribute(nil), e.n.Attr...)
}

// Dataset returns the data-* attribute for a camelCase key ("svgName" reads
// "data-svg-name").
func (e *Element) Dataset(key string) (string, bool) {
	return e.Attr(DataAttr(key))
}

// SetDataset writes the data-* attribute for a camelCase key.
func (e *Element) SetDataset(key, value string) {
	e.SetAttr(DataAttr(key), value)
}

// RemoveDataset removes the data-* attribute for a camelCase key.
func (e *Element) RemoveDataset(key string) {
	e.RemoveAttr(DataAttr(key))
}

// DataAttr converts a camelCase dataset key to its attribute name.
func DataAttr(key string) string {
	var sb strings.Builder
	sb.WriteString("data-")
	for _, r := range key {
		if r >= 'A' && r <= 'Z' {
			sb.WriteByte('-')
			r += 'a' - 'A'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// SetInnerHTML replaces the element's children with markup parsed in the
// element's context.
func (e *Element) SetInnerHTML(markup string) error {
	for c := e.n.FirstChild; c != nil; {
		next := c.NextSibling
		e.n.RemoveChild(c)
		c = next
	}
	if markup == "" {
		return nil
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), e.n)
	if err != nil {
		return fmt.Errorf("parse inner markup: %w", err)
	}
	for _, c := range nodes {
		e.n.AppendChild(c)
	}
	return nil
}

// InnerHTML renders the element's children.
func (e *Element) InnerHTML() string {
	var sb strings.Builder
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&sb, c)
	}
	return sb.String()
}

// TextContent returns the concatenated text of all descendants.
func (e *Element) TextContent() string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.n)
	return sb.String()
}

// SetTextContent replaces the element's children with a single text node.
func (e *Element) SetTextContent(text string) {
	for c := e.n.FirstChild; c != nil; {
		next := c.NextSibling
		e.n.RemoveChild(c)
		c = next
	}
	e.n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// Children returns the element children in order.
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, Wrap(c))
		}
	}
	return out
}

// Append adds child as the last child.
func (e *Element) Append(child *Element) {
	detach(child.n)
	e.n.AppendChild(child.n)
}

// Prepend inserts child before the first child.
func (e *Element) Prepend(child *Element) {
	detach(child.n)
	if e.n.FirstChild == nil {
		e.n.AppendChild(child.n)
		return
	}
	e.n.InsertBefore(child.n, e.n.FirstChild)
}

// QuerySelector returns the first descendant matching sel.
func (e *Element) QuerySelector(sel string) *Element {
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if m := query(c, sel); m != nil {
			return Wrap(m)
		}
	}
	return nil
}

// Remove detaches the element from its parent.
func (e *Element) Remove() {
	detach(e.n)
}

// Attached reports whether the element has a parent.
func (e *Element) Attached() bool {
	return e.n.Parent != nil
}

// Render writes the element as HTML.
func (e *Element) Render(w io.Writer) error {
	return html.Render(w, e.n)
}

// String renders the element, for tests and diagnostics.
func (e *Element) String() string {
	var sb strings.Builder
	_ = e.Render(&sb)
	return sb.String()
}

func detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

func query(n *html.Node, sel string) *html.Node {
	s, err := cascadia.Compile(sel)
	if err != nil {
		return nil
	}
	return s.MatchFirst(n)
}
