package content

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/elizaos/docsite/internal/config"
	"github.com/elizaos/docsite/internal/frontmatter"
	"github.com/elizaos/docsite/internal/logfields"
)

// ErrContentDirNotFound indicates the configured content root does not exist.
var ErrContentDirNotFound = errors.New("content directory not found")

// assetExtensions are non-markdown files carried into the output unchanged.
var assetExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".svg": true, ".webp": true, ".ico": true, ".pdf": true,
	".mp4": true, ".webm": true,
}

// Problem records a per-file failure. A problem rejects that file from the
// corpus without failing the whole scan.
type Problem struct {
	RelPath string
	Err     error
}

func (p Problem) String() string { return fmt.Sprintf("%s: %v", p.RelPath, p.Err) }

// Corpus is the validated result of scanning a content source.
type Corpus struct {
	Pages    []Page
	Assets   []Asset
	Metas    map[string]Meta // directory (slash-relative, "." for root) -> meta
	Problems []Problem
}

// Source declares where content lives and what shape it must have.
type Source struct {
	Root     string
	BasePath string
	Include  []string
	Exclude  []string
	Schema   frontmatter.Schema
}

// NewSource builds a Source from configuration with the default page schema.
func NewSource(cfg config.ContentConfig) *Source {
	return &Source{
		Root:     cfg.Dir,
		BasePath: cfg.BasePath,
		Include:  cfg.Include,
		Exclude:  cfg.Exclude,
		Schema:   frontmatter.DefaultSchema,
	}
}

// Matches reports whether a content-relative path belongs to the page set.
// Exclusion wins over inclusion, so underscore-prefixed files never match.
func (s *Source) Matches(relPath string) bool {
	return MatchAny(s.Include, relPath) && !MatchAny(s.Exclude, relPath)
}

// Scan walks the content root and produces the corpus: pages matched by the
// include/exclude globs and validated against the frontmatter schema, assets,
// and per-directory navigation meta. Files that fail parsing or validation are
// recorded as Problems and left out of the page set.
func (s *Source) Scan() (*Corpus, error) {
	root, err := filepath.Abs(s.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve content dir: %w", err)
	}
	if st, err := os.Stat(root); err != nil || !st.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrContentDirNotFound, s.Root)
	}

	corpus := &Corpus{Metas: map[string]Meta{}}
	routes := map[string]string{} // route -> first claiming rel path

	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		base := filepath.Base(p)

		if base == MetaFileName || base == "_meta.yml" {
			// Meta files for excluded directories are ignored wholesale.
			if dir := filepath.ToSlash(filepath.Dir(rel)); dir != "." && MatchAny(s.Exclude, dir) {
				return nil
			}
			meta, err := LoadMeta(p)
			if err != nil {
				corpus.Problems = append(corpus.Problems, Problem{RelPath: rel, Err: err})
				return nil
			}
			dir := filepath.ToSlash(filepath.Dir(rel))
			corpus.Metas[dir] = meta
			return nil
		}

		if MatchAny(s.Exclude, rel) {
			return nil
		}

		if !s.Matches(rel) {
			if assetExtensions[strings.ToLower(filepath.Ext(base))] {
				sum, err := fileChecksum(p)
				if err != nil {
					corpus.Problems = append(corpus.Problems, Problem{RelPath: rel, Err: err})
					return nil
				}
				corpus.Assets = append(corpus.Assets, Asset{Path: p, RelPath: rel, Checksum: sum})
			}
			return nil
		}

		page, err := s.loadPage(p, rel)
		if err != nil {
			corpus.Problems = append(corpus.Problems, Problem{RelPath: rel, Err: err})
			return nil
		}

		if page.Frontmatter.Draft {
			slog.Debug("Skipping draft page", logfields.Path(rel))
			return nil
		}

		if prev, dup := routes[page.Route]; dup {
			corpus.Problems = append(corpus.Problems, Problem{
				RelPath: rel,
				Err:     fmt.Errorf("route %s already claimed by %s", page.Route, prev),
			})
			return nil
		}
		routes[page.Route] = rel

		corpus.Pages = append(corpus.Pages, page)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk content dir: %w", walkErr)
	}

	sort.Slice(corpus.Pages, func(i, j int) bool { return corpus.Pages[i].RelPath < corpus.Pages[j].RelPath })
	sort.Slice(corpus.Assets, func(i, j int) bool { return corpus.Assets[i].RelPath < corpus.Assets[j].RelPath })

	corpus.Problems = append(corpus.Problems, checkMetaEntries(corpus)...)

	slog.Debug("Content scan complete",
		logfields.Path(s.Root),
		slog.Int("pages", len(corpus.Pages)),
		slog.Int("assets", len(corpus.Assets)),
		slog.Int("problems", len(corpus.Problems)))

	return corpus, nil
}

func (s *Source) loadPage(absPath, relPath string) (Page, error) {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return Page{}, fmt.Errorf("read page: %w", err)
	}

	raw, body, had, err := frontmatter.Split(data)
	if err != nil {
		return Page{}, err
	}
	if !had {
		return Page{}, &frontmatter.ValidationError{Missing: []string{"title", "description"}}
	}

	fields, err := frontmatter.Parse(raw)
	if err != nil {
		return Page{}, fmt.Errorf("parse frontmatter: %w", err)
	}
	if err := s.Schema.Validate(fields); err != nil {
		return Page{}, err
	}

	section := ""
	if i := strings.Index(relPath, "/"); i >= 0 {
		section = relPath[:i]
	}

	return Page{
		Path:        absPath,
		RelPath:     relPath,
		Route:       RouteFor(s.BasePath, relPath),
		Section:     section,
		Frontmatter: fields,
		Body:        body,
		Checksum:    checksumBytes(data),
	}, nil
}
