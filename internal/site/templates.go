package site

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/elizaos/docsite/internal/config"
	"github.com/elizaos/docsite/internal/content"
)

//go:embed layouts/*.tmpl
var layoutFS embed.FS

// pageData is everything the base layout needs for one page.
type pageData struct {
	Site              config.SiteConfig
	Title             string
	Description       string
	Route             string
	HomeRoute         string
	Content           template.HTML
	NavHTML           template.HTML
	Prev              *content.Node
	Next              *content.Node
	LastModified      string
	EditURL           string
	ComponentProvider string
}

func loadLayouts() (*template.Template, error) {
	t, err := template.ParseFS(layoutFS, "layouts/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse layouts: %w", err)
	}
	return t, nil
}

func renderLayout(t *template.Template, w io.Writer, data pageData) error {
	if err := t.ExecuteTemplate(w, "base.html.tmpl", data); err != nil {
		return fmt.Errorf("execute layout for %s: %w", data.Route, err)
	}
	return nil
}
