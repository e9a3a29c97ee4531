// Package manifest records what a build produced: a JSON report in the output
// directory and a SQLite history so serve can skip rebuilds for unchanged
// content sets.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/elizaos/docsite/internal/content"
)

// ReportFileName is the per-build report written into the output directory.
const ReportFileName = "build-report.json"

// BuildRecord describes one completed build.
type BuildRecord struct {
	BuildID     string               `json:"build_id"`
	StartedAt   time.Time            `json:"started_at"`
	Duration    time.Duration        `json:"duration"`
	ContentHash string               `json:"content_hash"`
	PageCount   int                  `json:"page_count"`
	AssetCount  int                  `json:"asset_count"`
	Outcome     string               `json:"outcome"` // success|warning|failed
	Problems    []string             `json:"problems,omitempty"`
	Pages       []content.PageDigest `json:"pages"`
}

// Write persists the record as JSON into the output directory.
func (r *BuildRecord) Write(outputDir string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal build record: %w", err)
	}
	path := filepath.Join(outputDir, ReportFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write build report: %w", err)
	}
	return nil
}

// Load reads a previously written build report. A missing file returns
// os.ErrNotExist wrapped.
func Load(outputDir string) (*BuildRecord, error) {
	data, err := os.ReadFile(filepath.Join(outputDir, ReportFileName))
	if err != nil {
		return nil, fmt.Errorf("read build report: %w", err)
	}
	var r BuildRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse build report: %w", err)
	}
	return &r, nil
}
