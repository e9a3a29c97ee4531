package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elizaos/docsite/internal/config"
	"github.com/elizaos/docsite/internal/manifest"
)

// stubBuilder serves a fixed output directory and counts builds.
type stubBuilder struct {
	out    string
	builds int
}

func (b *stubBuilder) Build(context.Context) (*manifest.BuildRecord, error) {
	b.builds++
	return &manifest.BuildRecord{BuildID: "stub"}, nil
}

func (b *stubBuilder) BuildIfChanged(ctx context.Context) (*manifest.BuildRecord, bool, error) {
	r, err := b.Build(ctx)
	return r, false, err
}

func (b *stubBuilder) OutputDir() string { return b.out }

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	out := t.TempDir()

	writeFile := func(rel, body string) {
		path := filepath.Join(out, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	writeFile("index.html", "<html>root</html>")
	writeFile("docs/index.html", "<html>docs home</html>")
	writeFile("docs/quickstart/index.html", "<html>quickstart</html>")
	writeFile("site.css", "body{}")
	writeFile("sw.js", "self.addEventListener('install', function () {});")

	cfg := &config.Config{}
	cfg.ApplyDefaults()

	return New(cfg, &stubBuilder{out: out}, Options{}), out
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServeCleanURLs(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s.Handler(), "/docs/quickstart")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "quickstart")

	rec = get(t, s.Handler(), "/docs")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "docs home")

	rec = get(t, s.Handler(), "/site.css")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServeUnknownRoute(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s.Handler(), "/docs/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServiceWorkerHeaders(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s.Handler(), "/sw.js")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "/", rec.Header().Get("Service-Worker-Allowed"))
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s.Handler(), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestStatusEndpoint(t *testing.T) {
	s, out := newTestServer(t)

	rec := get(t, s.Handler(), "/api/status")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	record := &manifest.BuildRecord{BuildID: "abc", Outcome: "success", PageCount: 3}
	require.NoError(t, record.Write(out))

	rec = get(t, s.Handler(), "/api/status")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"abc"`)
}

func TestBuildHistoryWithoutStore(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s.Handler(), "/api/builds")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPathTraversalRejected(t *testing.T) {
	s, out := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(out), "secret.txt"), []byte("x"), 0o644))

	rec := get(t, s.Handler(), "/../secret.txt")
	assert.NotEqual(t, http.StatusOK, rec.Code)
}

func TestIgnoreEditorFiles(t *testing.T) {
	assert.True(t, shouldIgnoreEvent("/tmp/docs/.index.mdx.swp"))
	assert.True(t, shouldIgnoreEvent("/tmp/docs/index.mdx~"))
	assert.True(t, shouldIgnoreEvent("/tmp/docs/#index.mdx#"))
	assert.False(t, shouldIgnoreEvent("/tmp/docs/index.mdx"))
	assert.False(t, shouldIgnoreEvent("/tmp/docs/_meta.yaml"))
}
