package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/elizaos/docsite/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSource(t *testing.T, files map[string]string) *Source {
	t.Helper()
	root := t.TempDir()
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	cfg := config.ContentConfig{Dir: root}
	ccfg := &config.Config{Content: cfg}
	ccfg.ApplyDefaults()
	return NewSource(ccfg.Content)
}

const validPage = "---\ntitle: Foo\ndescription: bar\n---\n# Foo\n"

func TestScan_IncludesValidPageWithRoute(t *testing.T) {
	src := newTestSource(t, map[string]string{"foo.mdx": validPage})

	corpus, err := src.Scan()
	require.NoError(t, err)
	require.Len(t, corpus.Pages, 1)

	page := corpus.Pages[0]
	assert.Equal(t, "/docs/foo", page.Route)
	assert.Equal(t, "Foo", page.Frontmatter.Title)
	assert.Equal(t, "bar", page.Frontmatter.Description)
	assert.Empty(t, corpus.Problems)
}

func TestScan_ExcludesUnderscorePrefixedFiles(t *testing.T) {
	src := newTestSource(t, map[string]string{
		"foo.mdx":    validPage,
		"_draft.mdx": validPage,
	})

	corpus, err := src.Scan()
	require.NoError(t, err)
	require.Len(t, corpus.Pages, 1)
	assert.Equal(t, "foo.mdx", corpus.Pages[0].RelPath)
	assert.Empty(t, corpus.Problems)
}

func TestScan_ExcludesUnderscorePrefixedDirectories(t *testing.T) {
	src := newTestSource(t, map[string]string{
		"foo.mdx":            validPage,
		"_wip/notes.mdx":     validPage,
		"_wip/deep/more.mdx": validPage,
		"_wip/diagram.png":   "\x89PNG",
		"_wip/_meta.yaml":    "pages:\n  - ghost\n",
	})

	corpus, err := src.Scan()
	require.NoError(t, err)
	require.Len(t, corpus.Pages, 1)
	assert.Equal(t, "foo.mdx", corpus.Pages[0].RelPath)
	assert.Empty(t, corpus.Assets)
	assert.NotContains(t, corpus.Metas, "_wip")
	assert.Empty(t, corpus.Problems)
}

func TestScan_MissingFrontmatterFieldsIsPerFileProblem(t *testing.T) {
	src := newTestSource(t, map[string]string{
		"good.mdx": validPage,
		"bad.mdx":  "---\ntitle: Only Title\n---\nbody\n",
	})

	corpus, err := src.Scan()
	require.NoError(t, err)
	require.Len(t, corpus.Pages, 1)
	require.Len(t, corpus.Problems, 1)
	assert.Equal(t, "bad.mdx", corpus.Problems[0].RelPath)
}

func TestScan_NoFrontmatterIsPerFileProblem(t *testing.T) {
	src := newTestSource(t, map[string]string{"bare.md": "# Just markdown\n"})

	corpus, err := src.Scan()
	require.NoError(t, err)
	assert.Empty(t, corpus.Pages)
	require.Len(t, corpus.Problems, 1)
}

func TestScan_IndexCollapsesToDirectoryRoute(t *testing.T) {
	src := newTestSource(t, map[string]string{
		"core/index.mdx":  validPage,
		"core/agents.mdx": validPage,
	})

	corpus, err := src.Scan()
	require.NoError(t, err)
	require.Len(t, corpus.Pages, 2)
	assert.Equal(t, "/docs/core/agents", corpus.Pages[0].Route)
	assert.Equal(t, "/docs/core", corpus.Pages[1].Route)
	assert.Equal(t, "core", corpus.Pages[1].Section)
}

func TestScan_DuplicateRouteRejected(t *testing.T) {
	src := newTestSource(t, map[string]string{
		"core.mdx":       validPage,
		"core/index.mdx": validPage,
	})

	corpus, err := src.Scan()
	require.NoError(t, err)
	require.Len(t, corpus.Pages, 1)
	require.Len(t, corpus.Problems, 1)
	assert.Contains(t, corpus.Problems[0].Err.Error(), "already claimed")
}

func TestScan_DraftPagesSkippedSilently(t *testing.T) {
	src := newTestSource(t, map[string]string{
		"wip.mdx": "---\ntitle: WIP\ndescription: soon\ndraft: true\n---\nbody\n",
	})

	corpus, err := src.Scan()
	require.NoError(t, err)
	assert.Empty(t, corpus.Pages)
	assert.Empty(t, corpus.Problems)
}

func TestScan_CollectsMetaAndAssets(t *testing.T) {
	src := newTestSource(t, map[string]string{
		"core/_meta.yaml": "title: Core Concepts\npages:\n  - agents\n  - index\n",
		"core/agents.mdx": validPage,
		"core/index.mdx":  validPage,
		"core/arch.png":   "\x89PNG",
	})

	corpus, err := src.Scan()
	require.NoError(t, err)
	require.Contains(t, corpus.Metas, "core")
	assert.Equal(t, "Core Concepts", corpus.Metas["core"].Title)
	require.Len(t, corpus.Assets, 1)
	assert.Equal(t, "core/arch.png", corpus.Assets[0].RelPath)
}

func TestScan_StaleMetaEntryIsProblem(t *testing.T) {
	src := newTestSource(t, map[string]string{
		"core/_meta.yaml": "pages:\n  - agents\n  - renamed-away\n",
		"core/agents.mdx": validPage,
	})

	corpus, err := src.Scan()
	require.NoError(t, err)
	require.Len(t, corpus.Problems, 1)
	assert.Equal(t, "core/_meta.yaml", corpus.Problems[0].RelPath)
	assert.Contains(t, corpus.Problems[0].Err.Error(), "renamed-away")
}

func TestScan_MetaEntryMayNameSubdirectory(t *testing.T) {
	src := newTestSource(t, map[string]string{
		"_meta.yaml":      "pages:\n  - core\n",
		"core/agents.mdx": validPage,
	})

	corpus, err := src.Scan()
	require.NoError(t, err)
	assert.Empty(t, corpus.Problems)
}

func TestScan_MissingContentDir(t *testing.T) {
	cfg := &config.Config{Content: config.ContentConfig{Dir: "/nonexistent/docsite-content"}}
	cfg.ApplyDefaults()
	_, err := NewSource(cfg.Content).Scan()
	require.ErrorIs(t, err, ErrContentDirNotFound)
}

func TestRouteFor(t *testing.T) {
	assert.Equal(t, "/docs/foo", RouteFor("/docs", "foo.mdx"))
	assert.Equal(t, "/docs/core/agents", RouteFor("/docs", "core/agents.mdx"))
	assert.Equal(t, "/docs/core", RouteFor("/docs", "core/index.mdx"))
	assert.Equal(t, "/docs", RouteFor("/docs", "index.mdx"))
	assert.Equal(t, "/docs/foo", RouteFor("docs/", "foo.md"))
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "docs/foo/index.html", OutputPath("/docs/foo"))
	assert.Equal(t, "index.html", OutputPath("/"))
}

func TestMatchGlob(t *testing.T) {
	assert.True(t, MatchGlob("**/*.mdx", "foo.mdx"))
	assert.True(t, MatchGlob("**/*.mdx", "a/b/foo.mdx"))
	assert.False(t, MatchGlob("**/*.mdx", "foo.md"))
	assert.True(t, MatchGlob("**/_*", "_draft.mdx"))
	assert.True(t, MatchGlob("**/_*", "a/_draft.mdx"))
	assert.False(t, MatchGlob("**/_*", "a/draft.mdx"))
	assert.True(t, MatchGlob("**/_*/**", "_wip/notes.mdx"))
	assert.True(t, MatchGlob("**/_*/**", "a/_wip/deep/notes.mdx"))
	assert.False(t, MatchGlob("**/_*/**", "a/wip/notes.mdx"))
}

func TestDefaultExcludeGlobs_CoverUnderscoreTrees(t *testing.T) {
	assert.True(t, MatchAny(config.DefaultExcludeGlobs, "_draft.mdx"))
	assert.True(t, MatchAny(config.DefaultExcludeGlobs, "_wip/notes.mdx"))
	assert.True(t, MatchAny(config.DefaultExcludeGlobs, "core/_wip/deep/notes.mdx"))
	assert.False(t, MatchAny(config.DefaultExcludeGlobs, "core/agents.mdx"))
}

func TestComputeContentHash_Deterministic(t *testing.T) {
	pages := []Page{
		{RelPath: "b.mdx", Route: "/docs/b", Body: []byte("bbb")},
		{RelPath: "a.mdx", Route: "/docs/a", Body: []byte("aaa")},
	}

	h1, err := ComputeContentHash(&Corpus{Pages: pages})
	require.NoError(t, err)
	h2, err := ComputeContentHash(&Corpus{Pages: []Page{pages[1], pages[0]}})
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	pages[0].Body = []byte("changed")
	h3, err := ComputeContentHash(&Corpus{Pages: pages})
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func scanHash(t *testing.T, files map[string]string) string {
	t.Helper()
	corpus, err := newTestSource(t, files).Scan()
	require.NoError(t, err)
	hash, err := ComputeContentHash(corpus)
	require.NoError(t, err)
	return hash
}

func TestComputeContentHash_SeesFrontmatterMetaAndAssetEdits(t *testing.T) {
	base := map[string]string{
		"core/_meta.yaml": "pages:\n  - agents\n",
		"core/agents.mdx": validPage,
		"core/arch.png":   "\x89PNG v1",
	}
	h0 := scanHash(t, base)

	frontmatterEdit := map[string]string{
		"core/_meta.yaml": base["core/_meta.yaml"],
		"core/agents.mdx": "---\ntitle: Foo Renamed\ndescription: bar\n---\n# Foo\n",
		"core/arch.png":   base["core/arch.png"],
	}
	assert.NotEqual(t, h0, scanHash(t, frontmatterEdit), "frontmatter-only edit must change the hash")

	metaEdit := map[string]string{
		"core/_meta.yaml": "title: Core\npages:\n  - agents\n",
		"core/agents.mdx": base["core/agents.mdx"],
		"core/arch.png":   base["core/arch.png"],
	}
	assert.NotEqual(t, h0, scanHash(t, metaEdit), "meta-only edit must change the hash")

	assetEdit := map[string]string{
		"core/_meta.yaml": base["core/_meta.yaml"],
		"core/agents.mdx": base["core/agents.mdx"],
		"core/arch.png":   "\x89PNG v2",
	}
	assert.NotEqual(t, h0, scanHash(t, assetEdit), "asset edit must change the hash")

	same := scanHash(t, map[string]string{
		"core/_meta.yaml": base["core/_meta.yaml"],
		"core/agents.mdx": base["core/agents.mdx"],
		"core/arch.png":   base["core/arch.png"],
	})
	assert.Equal(t, h0, same, "identical content set must hash identically")
}
