// Package site turns a scanned content corpus into a static HTML site. The
// build runs as a sequence of stages (prepare, scan, render, assets,
// manifest); stage failures are classified fatal, warning or canceled, and
// every build ends with a persisted record of what it produced.
package site

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/elizaos/docsite/internal/assets"
	"github.com/elizaos/docsite/internal/config"
	"github.com/elizaos/docsite/internal/content"
	"github.com/elizaos/docsite/internal/gitinfo"
	"github.com/elizaos/docsite/internal/linkcheck"
	"github.com/elizaos/docsite/internal/logfields"
	"github.com/elizaos/docsite/internal/manifest"
	"github.com/elizaos/docsite/internal/markdown"
	"github.com/elizaos/docsite/internal/metrics"
)

// Generator builds the static site for one configuration.
type Generator struct {
	cfg       *config.Config
	outputDir string
	renderer  *markdown.Renderer
	layouts   *template.Template
	recorder  metrics.Recorder
	store     *manifest.Store
	git       *gitinfo.Info
}

// Option customizes a Generator.
type Option func(*Generator)

// WithRecorder injects a metrics recorder (NoopRecorder by default).
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Generator) { g.recorder = r }
}

// WithStore attaches a build history store; each completed build is appended.
func WithStore(s *manifest.Store) Option {
	return func(g *Generator) { g.store = s }
}

// NewGenerator creates a site generator. The markdown options are built from
// config once and shared by every build.
func NewGenerator(cfg *config.Config, outputDir string, opts ...Option) (*Generator, error) {
	renderer, err := markdown.NewRenderer(markdown.NewOptions(cfg.Markdown))
	if err != nil {
		return nil, err
	}
	layouts, err := loadLayouts()
	if err != nil {
		return nil, err
	}

	g := &Generator{
		cfg:       cfg,
		outputDir: filepath.Clean(outputDir),
		renderer:  renderer,
		layouts:   layouts,
		recorder:  metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// OutputDir returns the build target directory.
func (g *Generator) OutputDir() string { return g.outputDir }

// Build runs the full stage pipeline and returns the build record. The
// record is also persisted to the output directory (and the history store
// when attached), whatever the outcome.
func (g *Generator) Build(ctx context.Context) (*manifest.BuildRecord, error) {
	record := &manifest.BuildRecord{
		BuildID:   uuid.NewString(),
		StartedAt: time.Now(),
	}
	bs := newBuildState(g, record)

	slog.Info("Starting site build",
		logfields.BuildID(record.BuildID),
		logfields.Path(g.cfg.Content.Dir),
		slog.String("output", g.outputDir))

	err := runStages(ctx, bs, []namedStage{
		{"prepare", stagePrepare},
		{"scan", stageScan},
		{"render", stageRender},
		{"assets", stageAssets},
		{"manifest", stageManifest},
	})

	record.Duration = time.Since(bs.start)
	g.recorder.ObserveBuildDuration(record.Duration)

	if err != nil {
		record.Outcome = "failed"
		var se *StageError
		if ok := asStageError(err, &se); ok && se.Kind == StageErrorCanceled {
			record.Outcome = "canceled"
		}
		g.recorder.IncBuildOutcome(record.Outcome)
		return record, err
	}

	g.recorder.IncBuildOutcome(record.Outcome)
	slog.Info("Site build complete",
		logfields.BuildID(record.BuildID),
		slog.String("outcome", record.Outcome),
		logfields.Count(record.PageCount),
		logfields.DurationMS(float64(record.Duration.Milliseconds())))
	return record, nil
}

// BuildIfChanged skips the build when the content-set hash matches the last
// persisted report and the output still looks intact.
func (g *Generator) BuildIfChanged(ctx context.Context) (*manifest.BuildRecord, bool, error) {
	prev, err := manifest.Load(g.outputDir)
	if err == nil && prev.ContentHash != "" && g.outputLooksValid() {
		corpus, scanErr := content.NewSource(g.cfg.Content).Scan()
		if scanErr == nil {
			hash, hashErr := content.ComputeContentHash(corpus)
			if hashErr == nil && hash == prev.ContentHash {
				slog.Debug("Content set unchanged, skipping build", slog.String("content_hash", hash))
				g.recorder.IncRebuildSkipped()
				return prev, true, nil
			}
		}
	}

	record, err := g.Build(ctx)
	return record, false, err
}

func (g *Generator) outputLooksValid() bool {
	if fi, err := os.Stat(filepath.Join(g.outputDir, assets.ServiceWorkerName)); err != nil || fi.IsDir() {
		return false
	}
	entries, err := os.ReadDir(g.outputDir)
	return err == nil && len(entries) > 1
}

func stagePrepare(_ context.Context, bs *BuildState) error {
	g := bs.Generator
	if g.cfg.Output.Clean {
		if err := os.RemoveAll(g.outputDir); err != nil {
			return fmt.Errorf("clean output dir: %w", err)
		}
	}
	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	info, err := gitinfo.Open(g.cfg.Content.Dir)
	if err != nil {
		return newWarnStageError("prepare", fmt.Errorf("git metadata unavailable: %w", err))
	}
	g.git = info
	return nil
}

func stageScan(_ context.Context, bs *BuildState) error {
	g := bs.Generator
	corpus, err := content.NewSource(g.cfg.Content).Scan()
	if err != nil {
		return err
	}

	for _, p := range corpus.Problems {
		bs.Record.Problems = append(bs.Record.Problems, p.String())
	}

	bs.Corpus = corpus
	bs.Nav = content.BuildNav(corpus)
	bs.Record.PageCount = len(corpus.Pages)
	bs.Record.AssetCount = len(corpus.Assets)
	bs.Record.Pages = content.DigestPages(corpus.Pages)

	hash, err := content.ComputeContentHash(corpus)
	if err != nil {
		return err
	}
	bs.Record.ContentHash = hash

	if len(corpus.Pages) == 0 {
		return newWarnStageError("scan", fmt.Errorf("no pages found under %s", g.cfg.Content.Dir))
	}
	return nil
}

func stageRender(ctx context.Context, bs *BuildState) error {
	g := bs.Generator
	flat := bs.Nav.Flatten()
	position := map[string]int{}
	for i, n := range flat {
		position[n.Route] = i
	}

	checker := linkcheck.NewChecker(bs.Corpus, g.cfg.Content.BasePath)

	// First pass: convert every body so fragment targets are known before
	// links are judged.
	rendered := make(map[string][]byte, len(bs.Corpus.Pages))
	for i := range bs.Corpus.Pages {
		if err := ctx.Err(); err != nil {
			return newCanceledStageError("render", err)
		}
		p := &bs.Corpus.Pages[i]
		html, err := g.renderer.Render(p.Body)
		if err != nil {
			return fmt.Errorf("render %s: %w", p.RelPath, err)
		}
		rendered[p.Route] = html
		checker.AddDocument(p.Route, html)
	}

	for _, issue := range checker.Check(bs.Corpus) {
		bs.Record.Problems = append(bs.Record.Problems, issue.String())
	}

	provider := g.renderer.Options().ComponentProvider
	for i := range bs.Corpus.Pages {
		p := &bs.Corpus.Pages[i]
		g.decoratePage(p)

		data := pageData{
			Site:              g.cfg.Site,
			Title:             p.Frontmatter.Title,
			Description:       p.Frontmatter.Description,
			Route:             p.Route,
			HomeRoute:         homeRoute(flat),
			Content:           template.HTML(rendered[p.Route]),
			NavHTML:           renderNavHTML(bs.Nav, p.Route),
			ComponentProvider: provider,
			EditURL:           p.EditURL,
		}
		if !p.LastModified.IsZero() {
			data.LastModified = p.LastModified.Format("January 2, 2006")
		}
		if pos, ok := position[p.Route]; ok {
			if pos > 0 {
				data.Prev = flat[pos-1]
			}
			if pos+1 < len(flat) {
				data.Next = flat[pos+1]
			}
		}

		var buf bytes.Buffer
		if err := renderLayout(g.layouts, &buf, data); err != nil {
			return err
		}
		if err := writeOutputFile(g.outputDir, content.OutputPath(p.Route), buf.Bytes()); err != nil {
			return err
		}
	}
	g.recorder.AddPagesRendered(len(bs.Corpus.Pages))

	return g.writeRootRedirect(flat)
}

// decoratePage fills git-derived metadata when the content sits in a
// worktree.
func (g *Generator) decoratePage(p *content.Page) {
	if g.git == nil {
		return
	}
	if ts, err := g.git.LastModified(p.Path); err == nil {
		p.LastModified = ts
	}
	p.EditURL = g.git.EditURL(g.cfg.Site.EditBaseURL, p.Path)
}

// writeRootRedirect points the site root at the first navigable page when no
// page claims "/".
func (g *Generator) writeRootRedirect(flat []*content.Node) error {
	if len(flat) == 0 {
		return nil
	}
	rootIndex := filepath.Join(g.outputDir, "index.html")
	if _, err := os.Stat(rootIndex); err == nil {
		return nil
	}
	target := flat[0].Route
	body := fmt.Sprintf(`<!doctype html><html><head><meta charset="utf-8"><meta http-equiv="refresh" content="0; url=%s"><link rel="canonical" href="%s"></head><body></body></html>`, target, target)
	return os.WriteFile(rootIndex, []byte(body), 0o644)
}

func stageAssets(_ context.Context, bs *BuildState) error {
	g := bs.Generator
	base := strings.Trim(g.cfg.Content.BasePath, "/")
	for _, a := range bs.Corpus.Assets {
		data, err := os.ReadFile(a.Path)
		if err != nil {
			return fmt.Errorf("read asset %s: %w", a.RelPath, err)
		}
		rel := filepath.Join(base, filepath.FromSlash(a.RelPath))
		if err := writeOutputFile(g.outputDir, rel, data); err != nil {
			return err
		}
	}
	return assets.WriteTo(g.outputDir)
}

func stageManifest(ctx context.Context, bs *BuildState) error {
	g := bs.Generator
	record := bs.Record

	record.Outcome = "success"
	if len(record.Problems) > 0 {
		record.Outcome = "warning"
	}
	record.Duration = time.Since(bs.start)

	if err := record.Write(g.outputDir); err != nil {
		return err
	}
	if g.store != nil {
		if err := g.store.Append(ctx, record); err != nil {
			return newWarnStageError("manifest", fmt.Errorf("append build history: %w", err))
		}
	}
	return nil
}

func homeRoute(flat []*content.Node) string {
	if len(flat) == 0 {
		return "/"
	}
	return flat[0].Route
}

func writeOutputFile(outputDir, rel string, data []byte) error {
	dst := filepath.Join(outputDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create output subdir: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	return nil
}

func asStageError(err error, target **StageError) bool {
	se, ok := err.(*StageError)
	if ok {
		*target = se
	}
	return ok
}
