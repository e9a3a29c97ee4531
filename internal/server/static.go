package server

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/elizaos/docsite/internal/assets"
)

// staticHandler serves the output directory with clean-URL resolution:
// /docs/foo resolves to docs/foo/index.html when no file matches directly.
type staticHandler struct {
	root http.Dir
	fs   http.Handler
}

func newStaticHandler(outputDir string) *staticHandler {
	root := http.Dir(outputDir)
	return &staticHandler{root: root, fs: http.FileServer(root)}
}

func (h *staticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	p := path.Clean("/" + r.URL.Path)

	// The service worker must stay fresh and keep root scope.
	if p == "/"+assets.ServiceWorkerName {
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Service-Worker-Allowed", "/")
		h.fs.ServeHTTP(w, r)
		return
	}

	if h.exists(p) {
		h.fs.ServeHTTP(w, r)
		return
	}

	// Clean URL: serve the page's index.html if it exists. Served directly
	// rather than through the file server, which would redirect any path
	// ending in /index.html back to the directory.
	if idx := path.Join(p, "index.html"); h.exists(idx) {
		h.serveFile(w, r, idx)
		return
	}

	http.NotFound(w, r)
}

func (h *staticHandler) serveFile(w http.ResponseWriter, r *http.Request, p string) {
	f, err := os.Open(filepath.Join(string(h.root), filepath.FromSlash(p)))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	http.ServeContent(w, r, path.Base(p), fi.ModTime(), f)
}

// exists reports whether the request path maps to a regular file under the
// document root.
func (h *staticHandler) exists(p string) bool {
	if strings.Contains(p, "..") {
		return false
	}
	fi, err := os.Stat(filepath.Join(string(h.root), filepath.FromSlash(p)))
	return err == nil && fi.Mode().IsRegular()
}
