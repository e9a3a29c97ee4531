package site

import (
	"html"
	"html/template"
	"strings"

	"github.com/elizaos/docsite/internal/content"
)

// renderNavHTML builds the sidebar tree for a page. Directory entries without
// an index page render as unlinked group labels; the current route is marked
// active.
func renderNavHTML(root *content.Node, current string) template.HTML {
	var sb strings.Builder
	writeNavList(&sb, root.Children, current)
	return template.HTML(sb.String())
}

func writeNavList(sb *strings.Builder, nodes []*content.Node, current string) {
	if len(nodes) == 0 {
		return
	}
	sb.WriteString("<ul>")
	for _, n := range nodes {
		sb.WriteString("<li>")
		switch {
		case n.Route == "":
			sb.WriteString(`<span class="nav-group">`)
			sb.WriteString(html.EscapeString(n.Title))
			sb.WriteString("</span>")
		case n.Route == current:
			sb.WriteString(`<a class="active" href="`)
			sb.WriteString(html.EscapeString(n.Route))
			sb.WriteString(`">`)
			sb.WriteString(html.EscapeString(n.Title))
			sb.WriteString("</a>")
		default:
			sb.WriteString(`<a href="`)
			sb.WriteString(html.EscapeString(n.Route))
			sb.WriteString(`">`)
			sb.WriteString(html.EscapeString(n.Title))
			sb.WriteString("</a>")
		}
		writeNavList(sb, n.Children, current)
		sb.WriteString("</li>")
	}
	sb.WriteString("</ul>")
}
