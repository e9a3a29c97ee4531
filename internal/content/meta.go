package content

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// MetaFileName is the per-directory navigation metadata file. The underscore
// prefix keeps it out of the route set by the same rule that excludes drafts.
const MetaFileName = "_meta.yaml"

// Meta is per-directory navigation/ordering metadata.
type Meta struct {
	// Title overrides the directory's derived navigation title.
	Title string `yaml:"title,omitempty"`
	// Pages lists entry names (file stems or subdirectory names) in display
	// order. Entries not listed sort after these, alphabetically.
	Pages []string `yaml:"pages,omitempty"`
}

// LoadMeta reads and parses a _meta.yaml file.
func LoadMeta(path string) (Meta, error) {
	var m Meta
	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("read meta file: %w", err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parse meta file %s: %w", path, err)
	}
	return m, nil
}

// Order returns the position of name in the meta's page list, or len(Pages)
// when absent so unlisted entries sort last.
func (m Meta) Order(name string) int {
	for i, p := range m.Pages {
		if p == name {
			return i
		}
	}
	return len(m.Pages)
}

// checkMetaEntries flags meta page entries that name no page or subdirectory,
// usually a leftover after renaming a file.
func checkMetaEntries(c *Corpus) []Problem {
	names := map[string]map[string]bool{}
	add := func(dir, name string) {
		if names[dir] == nil {
			names[dir] = map[string]bool{}
		}
		names[dir][name] = true
	}

	for i := range c.Pages {
		rel := c.Pages[i].RelPath
		stem := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
		add(parentDir(rel), stem)
		// Every ancestor directory is an entry of its own parent.
		for dir := parentDir(rel); dir != "."; dir = parentDir(dir) {
			add(parentDir(dir), path.Base(dir))
		}
	}

	var problems []Problem
	for dir, meta := range c.Metas {
		for _, entry := range meta.Pages {
			if !names[dir][entry] {
				rel := path.Join(dir, MetaFileName)
				problems = append(problems, Problem{
					RelPath: rel,
					Err:     fmt.Errorf("meta entry %q matches no page or directory", entry),
				})
			}
		}
	}
	sort.Slice(problems, func(i, j int) bool {
		if problems[i].RelPath != problems[j].RelPath {
			return problems[i].RelPath < problems[j].RelPath
		}
		return problems[i].Err.Error() < problems[j].Err.Error()
	})
	return problems
}
