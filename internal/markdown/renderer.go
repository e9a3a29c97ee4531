// Package markdown renders doc page bodies to HTML.
//
// The pipeline is goldmark with GFM extensions, a chroma-backed code
// renderer emitting a light/dark theme pair, package-install tab groups, and
// a post-render HTML transformer list. Raw HTML passes through so MDX-style
// component tags (<Callout>, <Steps>, <Card>) survive into the output for the
// site's client layer.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	ghtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Renderer converts Markdown bodies to HTML. It is safe for concurrent use;
// per-call state lives in the parse, not the Renderer.
type Renderer struct {
	opts Options
	md   goldmark.Markdown
}

// NewRenderer constructs a Renderer for the given options. Options are
// validated here because every later render depends on their shape.
func NewRenderer(opts Options) (*Renderer, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("markdown options: %w", err)
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.DefinitionList,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			// Raw HTML (MDX component tags) must pass through.
			ghtml.WithUnsafe(),
			renderer.WithNodeRenderers(
				util.Prioritized(newCodeRenderer(opts), 100),
			),
		),
	)

	return &Renderer{opts: opts, md: md}, nil
}

// Options returns the renderer's immutable options value.
func (r *Renderer) Options() Options { return r.opts }

// Render converts a Markdown body (frontmatter already removed) to HTML and
// applies the transformer list.
func (r *Renderer) Render(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}
	return applyTransformers(buf.Bytes(), r.opts.Transformers)
}
