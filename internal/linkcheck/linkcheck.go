// Package linkcheck verifies that links inside doc pages resolve: relative
// and absolute internal links must land on a known route or asset, and
// fragments must name a heading ID present in the rendered target.
package linkcheck

import (
	"fmt"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/elizaos/docsite/internal/content"
)

// Issue is one broken link.
type Issue struct {
	Page        string // content-relative path of the page holding the link
	Destination string
	Reason      string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: link %q %s", i.Page, i.Destination, i.Reason)
}

// Checker validates a corpus's links against its own route and asset sets.
type Checker struct {
	routes  map[string]bool
	assets  map[string]bool
	anchors map[string]map[string]bool // route -> id set, from rendered HTML
}

// NewChecker indexes the corpus's routes and assets.
func NewChecker(c *content.Corpus, basePath string) *Checker {
	ch := &Checker{
		routes:  map[string]bool{},
		assets:  map[string]bool{},
		anchors: map[string]map[string]bool{},
	}
	for _, p := range c.Pages {
		ch.routes[p.Route] = true
	}
	base := strings.TrimSuffix(basePath, "/")
	for _, a := range c.Assets {
		ch.assets[base+"/"+a.RelPath] = true
	}
	return ch
}

// AddDocument records the anchor IDs of a rendered page so fragment links to
// that route can be verified.
func (ch *Checker) AddDocument(route string, rendered []byte) {
	ch.anchors[route] = collectAnchorIDs(rendered)
}

// Check extracts links from every page body and reports unresolvable ones.
func (ch *Checker) Check(c *content.Corpus) []Issue {
	var issues []Issue
	for i := range c.Pages {
		p := &c.Pages[i]
		for _, dest := range extractDestinations(p.Body) {
			if issue := ch.checkOne(p, dest); issue != nil {
				issues = append(issues, *issue)
			}
		}
	}
	return issues
}

func (ch *Checker) checkOne(p *content.Page, dest string) *Issue {
	if dest == "" || isExternal(dest) {
		return nil
	}

	target, fragment, _ := strings.Cut(dest, "#")

	route := p.Route
	if target != "" {
		route = ch.resolveRoute(p, target)
		if !ch.routes[route] {
			if ch.assets[route] {
				return nil
			}
			return &Issue{Page: p.RelPath, Destination: dest, Reason: "does not resolve to a known route"}
		}
	}

	if fragment != "" {
		ids, known := ch.anchors[route]
		if known && !ids[fragment] {
			return &Issue{Page: p.RelPath, Destination: dest, Reason: fmt.Sprintf("anchor #%s not found in target", fragment)}
		}
	}
	return nil
}

// resolveRoute turns a link target into a site route. Absolute targets are
// used as-is; relative ones resolve against the page's source directory, the
// way docs authors write them. Authors may link to source files, so .md/.mdx
// suffixes are stripped and a trailing /index collapses like RouteFor does.
func (ch *Checker) resolveRoute(p *content.Page, target string) string {
	target = strings.TrimSuffix(strings.TrimSuffix(target, ".mdx"), ".md")
	var route string
	if strings.HasPrefix(target, "/") {
		route = path.Clean(strings.TrimSuffix(target, "/"))
	} else {
		route = path.Clean(path.Join(routeDir(p), target))
	}
	if route == "/index" {
		return "/"
	}
	return strings.TrimSuffix(route, "/index")
}

// routeDir is the base relative links resolve against: index pages own their
// directory's route, so it is the route itself; everything else resolves
// against the parent.
func routeDir(p *content.Page) string {
	switch path.Base(p.RelPath) {
	case "index.mdx", "index.md":
		return p.Route
	default:
		return path.Dir(p.Route)
	}
}

func isExternal(dest string) bool {
	return strings.Contains(dest, "://") ||
		strings.HasPrefix(dest, "mailto:") ||
		strings.HasPrefix(dest, "tel:")
}

// extractDestinations parses a Markdown body and returns link and image
// destinations in document order.
func extractDestinations(body []byte) []string {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	var dests []string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Link:
			dests = append(dests, string(node.Destination))
		case *gmast.Image:
			dests = append(dests, string(node.Destination))
		case *gmast.AutoLink:
			dests = append(dests, string(node.URL(body)))
		}
		return gmast.WalkContinue, nil
	})
	return dests
}
