package content

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// PageDigest is one page's entry in the content-set manifest.
type PageDigest struct {
	RelPath     string `json:"rel_path"`
	Route       string `json:"route"`
	Section     string `json:"section,omitempty"`
	ContentHash string `json:"content_hash"`
}

// AssetDigest is one asset's entry in the content-set manifest.
type AssetDigest struct {
	RelPath     string `json:"rel_path"`
	ContentHash string `json:"content_hash"`
}

// DigestPages produces the canonical per-page digests for a corpus, sorted by
// relative path. The per-page hash covers the full source file, so a
// frontmatter-only edit changes the digest.
func DigestPages(pages []Page) []PageDigest {
	entries := make([]PageDigest, 0, len(pages))
	for _, p := range pages {
		sum := p.Checksum
		if sum == "" {
			sum = checksumBytes(p.Body)
		}
		entries = append(entries, PageDigest{
			RelPath:     p.RelPath,
			Route:       p.Route,
			Section:     p.Section,
			ContentHash: sum,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].RelPath < entries[j].RelPath })
	return entries
}

func digestAssets(assets []Asset) []AssetDigest {
	entries := make([]AssetDigest, 0, len(assets))
	for _, a := range assets {
		entries = append(entries, AssetDigest{RelPath: a.RelPath, ContentHash: a.Checksum})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].RelPath < entries[j].RelPath })
	return entries
}

// contentManifest is the canonical JSON shape the content-set hash covers.
// Meta files are included because they drive nav ordering and titles; map
// keys marshal sorted, keeping the encoding deterministic.
type contentManifest struct {
	Pages  []PageDigest    `json:"pages"`
	Assets []AssetDigest   `json:"assets,omitempty"`
	Metas  map[string]Meta `json:"metas,omitempty"`
}

// ComputeContentHash computes a deterministic hash over everything that
// affects the rendered site: page sources (frontmatter included), assets and
// directory meta files. It detects changes in the content set between builds
// so unchanged sets can skip rendering.
func ComputeContentHash(c *Corpus) (string, error) {
	if len(c.Pages) == 0 && len(c.Assets) == 0 && len(c.Metas) == 0 {
		h := sha256.Sum256([]byte("empty-content-set"))
		return hex.EncodeToString(h[:]), nil
	}

	manifest := contentManifest{
		Pages:  DigestPages(c.Pages),
		Assets: digestAssets(c.Assets),
		Metas:  c.Metas,
	}
	data, err := json.Marshal(manifest)
	if err != nil {
		return "", fmt.Errorf("marshal content manifest: %w", err)
	}
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:]), nil
}

func checksumBytes(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

func fileChecksum(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("checksum %s: %w", path, err)
	}
	return checksumBytes(data), nil
}
