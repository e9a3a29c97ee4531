package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Transformer rewrites rendered HTML. Transformers run in order over the
// parsed fragment after Markdown conversion, mirroring the open-ended
// transformer list the rendering pipeline exposes.
type Transformer interface {
	Name() string
	Transform(n *html.Node) error
}

// DefaultTransformers are always present; user transformers are merged after
// them.
func DefaultTransformers() []Transformer {
	return []Transformer{headingAnchors{}, externalLinks{}}
}

// applyTransformers parses rendered HTML, runs every transformer over it and
// serializes the result.
func applyTransformers(rendered []byte, transformers []Transformer) ([]byte, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(bytes.NewReader(rendered), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse rendered html: %w", err)
	}

	for _, t := range transformers {
		for _, n := range nodes {
			if err := t.Transform(n); err != nil {
				return nil, fmt.Errorf("transformer %s: %w", t.Name(), err)
			}
		}
	}

	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return nil, fmt.Errorf("render transformed html: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// headingAnchors appends a self-link to every h2-h4 carrying an id, so
// section headings are directly addressable.
type headingAnchors struct{}

func (headingAnchors) Name() string { return "heading-anchors" }

func (headingAnchors) Transform(root *html.Node) error {
	walk(root, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch n.DataAtom {
		case atom.H2, atom.H3, atom.H4:
		default:
			return
		}
		id := attr(n, "id")
		if id == "" {
			return
		}
		anchor := &html.Node{
			Type:     html.ElementNode,
			Data:     "a",
			DataAtom: atom.A,
			Attr: []html.Attribute{
				{Key: "class", Val: "heading-anchor"},
				{Key: "href", Val: "#" + id},
				{Key: "aria-hidden", Val: "true"},
			},
		}
		anchor.AppendChild(&html.Node{Type: html.TextNode, Data: "#"})
		n.AppendChild(anchor)
	})
	return nil
}

// externalLinks opens absolute http(s) links in a new tab with rel protection.
type externalLinks struct{}

func (externalLinks) Name() string { return "external-links" }

func (externalLinks) Transform(root *html.Node) error {
	walk(root, func(n *html.Node) {
		if n.Type != html.ElementNode || n.DataAtom != atom.A {
			return
		}
		href := attr(n, "href")
		if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
			return
		}
		if attr(n, "target") == "" {
			n.Attr = append(n.Attr, html.Attribute{Key: "target", Val: "_blank"})
		}
		if attr(n, "rel") == "" {
			n.Attr = append(n.Attr, html.Attribute{Key: "rel", Val: "noopener noreferrer"})
		}
	})
	return nil
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
