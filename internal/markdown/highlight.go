package markdown

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// inlineLangPattern matches the tail-language convention for code spans:
// `fmt.Println(){:go}` highlights as Go with the marker stripped.
var inlineLangPattern = regexp.MustCompile(`\{:([a-zA-Z0-9_+#.-]+)\}\s*$`)

// codeRenderer replaces goldmark's default fenced-code and code-span output
// with chroma-highlighted HTML. Fenced blocks are emitted twice, once per
// theme, with CSS selecting the active variant; `package-install` blocks
// become package-manager tab groups instead.
type codeRenderer struct {
	opts Options
}

func newCodeRenderer(opts Options) *codeRenderer { return &codeRenderer{opts: opts} }

func (r *codeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(gmast.KindFencedCodeBlock, r.renderFencedCodeBlock)
	reg.Register(gmast.KindCodeSpan, r.renderCodeSpan)
}

func (r *codeRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node gmast.Node, entering bool) (gmast.WalkStatus, error) {
	if !entering {
		return gmast.WalkContinue, nil
	}
	n := node.(*gmast.FencedCodeBlock)

	lang := string(n.Language(source))
	code := linesText(source, n.Lines())

	if lang == packageInstallLang {
		if err := r.writePackageInstall(w, code); err != nil {
			return gmast.WalkStop, err
		}
		return gmast.WalkSkipChildren, nil
	}

	if err := r.writeThemedBlock(w, lang, code); err != nil {
		return gmast.WalkStop, err
	}
	return gmast.WalkSkipChildren, nil
}

func (r *codeRenderer) renderCodeSpan(w util.BufWriter, source []byte, node gmast.Node, entering bool) (gmast.WalkStatus, error) {
	if !entering {
		return gmast.WalkContinue, nil
	}

	code := spanText(source, node)
	m := inlineLangPattern.FindStringSubmatch(code)
	if m == nil {
		_, _ = w.WriteString("<code>")
		_, _ = w.Write(util.EscapeHTML([]byte(code)))
		_, _ = w.WriteString("</code>")
		return gmast.WalkSkipChildren, nil
	}

	lang := m[1]
	stripped := strings.TrimSuffix(code, m[0])
	if err := r.writeThemedSpan(w, lang, stripped); err != nil {
		return gmast.WalkStop, err
	}
	return gmast.WalkSkipChildren, nil
}

// writeThemedBlock emits the light and dark variants of a highlighted block.
func (r *codeRenderer) writeThemedBlock(w io.Writer, lang, code string) error {
	if _, err := fmt.Fprintf(w, "<div class=\"code-block\" data-lang=%q>", lang); err != nil {
		return err
	}
	for _, variant := range r.variants() {
		if _, err := fmt.Fprintf(w, "<div class=\"code-%s\">", variant.class); err != nil {
			return err
		}
		if err := highlight(w, lang, code, variant.theme, false); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "</div>"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</div>")
	return err
}

func (r *codeRenderer) writeThemedSpan(w io.Writer, lang, code string) error {
	for _, variant := range r.variants() {
		if _, err := fmt.Fprintf(w, "<code class=\"code-%s\" data-lang=%q>", variant.class, lang); err != nil {
			return err
		}
		if err := highlight(w, lang, code, variant.theme, true); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "</code>"); err != nil {
			return err
		}
	}
	return nil
}

type themeVariant struct {
	class string
	theme string
}

func (r *codeRenderer) variants() [2]themeVariant {
	return [2]themeVariant{
		{class: "light", theme: r.opts.LightTheme},
		{class: "dark", theme: r.opts.DarkTheme},
	}
}

// highlight writes chroma-highlighted HTML for code in the named style.
// Unknown languages fall back to plain-text tokenization rather than failing
// the render.
func highlight(w io.Writer, lang, code, styleName string, inline bool) error {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	formatterOpts := []chromahtml.Option{}
	if inline {
		formatterOpts = append(formatterOpts, chromahtml.InlineCode(true), chromahtml.PreventSurroundingPre(true))
	}
	formatter := chromahtml.New(formatterOpts...)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return fmt.Errorf("tokenise %q block: %w", lang, err)
	}
	if err := formatter.Format(w, style, iterator); err != nil {
		return fmt.Errorf("format %q block: %w", lang, err)
	}
	return nil
}

func linesText(source []byte, lines *text.Segments) string {
	var sb strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	return sb.String()
}

func spanText(source []byte, node gmast.Node) string {
	var sb strings.Builder
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*gmast.Text); ok {
			sb.Write(t.Segment.Value(source))
		}
	}
	return sb.String()
}
