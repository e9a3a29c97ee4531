package site

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elizaos/docsite/internal/config"
	"github.com/elizaos/docsite/internal/manifest"
)

func writeContentFile(t *testing.T, dir, rel, body string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func newTestGenerator(t *testing.T, files map[string]string) (*Generator, string) {
	t.Helper()
	contentDir := t.TempDir()
	outputDir := t.TempDir()

	for rel, body := range files {
		writeContentFile(t, contentDir, rel, body)
	}

	cfg := &config.Config{}
	cfg.ApplyDefaults()
	cfg.Content.Dir = contentDir
	cfg.Output.Directory = outputDir
	cfg.Site.Title = "Test Docs"

	g, err := NewGenerator(cfg, outputDir)
	require.NoError(t, err)
	return g, outputDir
}

const quickstartPage = "---\ntitle: Quickstart\ndescription: Get going\n---\n\n## Install\n\n```package-install\nelizaos\n```\n"

func TestBuildProducesCleanURLs(t *testing.T) {
	g, out := newTestGenerator(t, map[string]string{
		"index.mdx":        "---\ntitle: Welcome\ndescription: Start here\n---\n\nHello [quickstart](./quickstart).\n",
		"quickstart.mdx":   quickstartPage,
		"api/overview.mdx": "---\ntitle: API Overview\ndescription: The API\n---\n\nSee the [welcome page](../index).\n",
	})

	record, err := g.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "success", record.Outcome)
	assert.Equal(t, 3, record.PageCount)
	assert.NotEmpty(t, record.BuildID)
	assert.NotEmpty(t, record.ContentHash)

	for _, rel := range []string{
		"docs/index.html",
		"docs/quickstart/index.html",
		"docs/api/overview/index.html",
		"index.html",
		"sw.js",
		"site.css",
		"tabs.js",
		manifest.ReportFileName,
	} {
		_, statErr := os.Stat(filepath.Join(out, filepath.FromSlash(rel)))
		assert.NoError(t, statErr, rel)
	}

	page, err := os.ReadFile(filepath.Join(out, "docs", "quickstart", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "<h1>Quickstart</h1>")
	assert.Contains(t, string(page), "install-tabs")
	assert.Contains(t, string(page), `content="@/mdx-components"`)
	assert.Contains(t, string(page), `serviceWorker.register('/sw.js')`)

	// Sidebar links to every sibling and marks the current page.
	assert.Contains(t, string(page), `class="active" href="/docs/quickstart"`)
	assert.Contains(t, string(page), `href="/docs"`)
}

func TestBuildPersistsReadableRecord(t *testing.T) {
	g, out := newTestGenerator(t, map[string]string{
		"index.mdx": "---\ntitle: Home\ndescription: d\n---\n\nBody.\n",
	})

	record, err := g.Build(context.Background())
	require.NoError(t, err)

	loaded, err := manifest.Load(out)
	require.NoError(t, err)
	assert.Equal(t, record.BuildID, loaded.BuildID)
	assert.Equal(t, record.ContentHash, loaded.ContentHash)
	assert.Len(t, loaded.Pages, 1)
}

func TestBuildRecordsFrontmatterProblems(t *testing.T) {
	g, _ := newTestGenerator(t, map[string]string{
		"index.mdx": "---\ntitle: Home\ndescription: d\n---\n\nOK.\n",
		"bad.mdx":   "---\ntitle: No Description\n---\n\nBody.\n",
	})

	record, err := g.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "warning", record.Outcome)
	require.NotEmpty(t, record.Problems)
	assert.Contains(t, record.Problems[0], "bad.mdx")
}

func TestBuildFlagsBrokenLinks(t *testing.T) {
	g, _ := newTestGenerator(t, map[string]string{
		"index.mdx": "---\ntitle: Home\ndescription: d\n---\n\nSee [gone](./missing).\n",
	})

	record, err := g.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "warning", record.Outcome)
	found := false
	for _, p := range record.Problems {
		if strings.Contains(p, "./missing") {
			found = true
		}
	}
	assert.True(t, found, "expected a broken-link problem, got %v", record.Problems)
}

func TestBuildIfChangedSkipsUnchangedContent(t *testing.T) {
	g, _ := newTestGenerator(t, map[string]string{
		"index.mdx":      "---\ntitle: Home\ndescription: d\n---\n\nBody.\n",
		"quickstart.mdx": quickstartPage,
	})

	first, err := g.Build(context.Background())
	require.NoError(t, err)

	record, skipped, err := g.BuildIfChanged(context.Background())
	require.NoError(t, err)
	assert.True(t, skipped)
	assert.Equal(t, first.BuildID, record.BuildID)

	writeContentFile(t, g.cfg.Content.Dir, "index.mdx",
		"---\ntitle: Home\ndescription: changed\n---\n\nNew body.\n")

	record, skipped, err = g.BuildIfChanged(context.Background())
	require.NoError(t, err)
	assert.False(t, skipped)
	assert.NotEqual(t, first.BuildID, record.BuildID)
}

func TestBuildCopiesAssets(t *testing.T) {
	g, out := newTestGenerator(t, map[string]string{
		"index.mdx":        "---\ntitle: Home\ndescription: d\n---\n\n![diagram](./img/arch.png)\n",
		"img/arch.png":     "not really a png",
		"_draft/notes.mdx": "---\ntitle: Hidden\ndescription: d\n---\n\nExcluded.\n",
	})

	record, err := g.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, record.AssetCount)
	assert.Equal(t, 1, record.PageCount)
	_, statErr := os.Stat(filepath.Join(out, "docs", "img", "arch.png"))
	assert.NoError(t, statErr)
}

func TestBuildCanceledContext(t *testing.T) {
	g, _ := newTestGenerator(t, map[string]string{
		"index.mdx": "---\ntitle: Home\ndescription: d\n---\n\nBody.\n",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	record, err := g.Build(ctx)
	require.Error(t, err)
	assert.Equal(t, "canceled", record.Outcome)
}
