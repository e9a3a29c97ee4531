// Package assets carries the static files every build copies into the
// output: the stylesheet, the tab-persistence script and the inert service
// worker stub.
package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed static
var static embed.FS

// ServiceWorkerName is the path browsers request automatically; the stub is
// always written at the output root.
const ServiceWorkerName = "sw.js"

// Files returns the embedded static tree (names relative to the static
// root).
func Files() (fs.FS, error) {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		return nil, fmt.Errorf("embedded static tree: %w", err)
	}
	return sub, nil
}

// Read returns one embedded asset by name (e.g. "sw.js").
func Read(name string) ([]byte, error) {
	sub, err := Files()
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(sub, name)
	if err != nil {
		return nil, fmt.Errorf("read embedded asset %s: %w", name, err)
	}
	return data, nil
}

// WriteTo copies every embedded asset into outputDir, preserving names.
func WriteTo(outputDir string) error {
	sub, err := Files()
	if err != nil {
		return err
	}
	return fs.WalkDir(sub, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(sub, p)
		if err != nil {
			return fmt.Errorf("read embedded asset %s: %w", p, err)
		}
		dst := filepath.Join(outputDir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		return os.WriteFile(dst, data, 0o644)
	})
}
