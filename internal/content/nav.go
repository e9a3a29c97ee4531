package content

import (
	"path"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Node is one entry in the navigation tree. Directory nodes without an index
// page have an empty Route.
type Node struct {
	Title    string
	Route    string
	Children []*Node

	name  string // file stem or directory name, used for meta ordering
	order int
}

var titleCaser = cases.Title(language.English)

// TitleFromName derives a human title from a file or directory name
// ("getting-started" -> "Getting Started").
func TitleFromName(name string) string {
	return titleCaser.String(strings.ReplaceAll(strings.ReplaceAll(name, "-", " "), "_", " "))
}

// BuildNav assembles the navigation tree for a corpus. Directory meta files
// control ordering and directory titles; pages absent from meta sort after
// listed ones, alphabetically by title.
func BuildNav(c *Corpus) *Node {
	root := &Node{name: "."}
	dirs := map[string]*Node{".": root}

	ensureDir := func(dir string) *Node {
		if n, ok := dirs[dir]; ok {
			return n
		}
		// Create ancestors first.
		var build func(d string) *Node
		build = func(d string) *Node {
			if n, ok := dirs[d]; ok {
				return n
			}
			parent := build(parentDir(d))
			n := &Node{name: path.Base(d), Title: TitleFromName(path.Base(d))}
			if m, ok := c.Metas[d]; ok && m.Title != "" {
				n.Title = m.Title
			}
			parent.Children = append(parent.Children, n)
			dirs[d] = n
			return n
		}
		return build(dir)
	}

	for i := range c.Pages {
		p := &c.Pages[i]
		dir := parentDir(p.RelPath)
		stem := strings.TrimSuffix(path.Base(p.RelPath), path.Ext(p.RelPath))

		if stem == "index" {
			n := ensureDir(dir)
			n.Route = p.Route
			if p.Frontmatter.Title != "" {
				n.Title = p.Frontmatter.Title
			}
			continue
		}

		n := ensureDir(dir)
		child := &Node{name: stem, Title: p.Frontmatter.Title, Route: p.Route}
		if child.Title == "" {
			child.Title = TitleFromName(stem)
		}
		n.Children = append(n.Children, child)
	}

	sortNav(root, ".", c.Metas)
	return root
}

func parentDir(rel string) string {
	d := path.Dir(rel)
	if d == "" {
		return "."
	}
	return d
}

func sortNav(n *Node, dir string, metas map[string]Meta) {
	meta := metas[dir]
	for _, ch := range n.Children {
		ch.order = meta.Order(ch.name)
	}
	sort.SliceStable(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if a.order != b.order {
			return a.order < b.order
		}
		return a.Title < b.Title
	})
	for _, ch := range n.Children {
		child := dir + "/" + ch.name
		if dir == "." {
			child = ch.name
		}
		sortNav(ch, child, metas)
	}
}

// Flatten returns nav entries with routes in display order, used for
// prev/next page links.
func (n *Node) Flatten() []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(node *Node) {
		if node.Route != "" {
			out = append(out, node)
		}
		for _, ch := range node.Children {
			walk(ch)
		}
	}
	for _, ch := range n.Children {
		walk(ch)
	}
	if n.Route != "" {
		out = append([]*Node{{Title: n.Title, Route: n.Route}}, out...)
	}
	return out
}
