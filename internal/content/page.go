package content

import (
	"path"
	"strings"
	"time"

	"github.com/elizaos/docsite/internal/frontmatter"
)

// Page represents a discovered documentation page.
type Page struct {
	Path        string             // Absolute path to the file
	RelPath     string             // Path relative to the content root (slash-separated)
	Route       string             // Published route, e.g. /docs/core/agents
	Section     string             // Top-level content directory ("" for root pages)
	Frontmatter frontmatter.Fields // Parsed frontmatter
	Body        []byte             // Markdown body with frontmatter removed
	Checksum    string             // sha256 of the full source file, frontmatter included

	// Populated from git metadata when available.
	LastModified time.Time
	EditURL      string
}

// Asset is a non-markdown file (image, attachment) carried into the output
// unchanged.
type Asset struct {
	Path     string
	RelPath  string
	Checksum string
}

// RouteFor derives the published route for a content-relative path.
//
// The extension is stripped and index pages collapse onto their directory:
// "core/agents.mdx" -> basePath + "/core/agents", "core/index.mdx" ->
// basePath + "/core".
func RouteFor(basePath, relPath string) string {
	p := strings.TrimSuffix(relPath, path.Ext(relPath))
	if path.Base(p) == "index" {
		p = path.Dir(p)
	}
	if p == "." || p == "" {
		return cleanBase(basePath)
	}
	return cleanBase(basePath) + "/" + p
}

func cleanBase(basePath string) string {
	b := strings.TrimSuffix(basePath, "/")
	if b == "" {
		return ""
	}
	if !strings.HasPrefix(b, "/") {
		b = "/" + b
	}
	return b
}

// OutputPath maps a route to the file the static site writes for it, using
// directory-style clean URLs (/docs/foo -> docs/foo/index.html).
func OutputPath(route string) string {
	trimmed := strings.Trim(route, "/")
	if trimmed == "" {
		return "index.html"
	}
	return trimmed + "/index.html"
}
