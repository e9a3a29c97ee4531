package markdown

import (
	"errors"
	"strings"

	"github.com/elizaos/docsite/internal/config"
)

// DefaultComponentProvider is the import path MDX bodies resolve embedded
// components from. Component tags (<Callout>, <Steps>, ...) pass through to
// the rendered HTML; the provider path is carried as metadata for the site's
// client layer and is never interpreted here.
const DefaultComponentProvider = "@/mdx-components"

// Options is the immutable, process-wide rendering configuration. It is
// constructed once from config and shared by every render.
type Options struct {
	ComponentProvider string
	LightTheme        string
	DarkTheme         string
	PackageManagers   []string
	InstallGroupID    string
	Transformers      []Transformer
}

// NewOptions builds Options from configuration, merging user transformers
// with the built-in defaults.
func NewOptions(cfg config.MarkdownConfig, extra ...Transformer) Options {
	return Options{
		ComponentProvider: DefaultComponentProvider,
		LightTheme:        cfg.LightTheme,
		DarkTheme:         cfg.DarkTheme,
		PackageManagers:   append([]string(nil), cfg.PackageManagers...),
		InstallGroupID:    cfg.InstallGroupID,
		Transformers:      append(DefaultTransformers(), extra...),
	}
}

// Validate enforces the shape every render depends on: one component
// provider, a complete theme pair, and a non-empty transformer list.
func (o Options) Validate() error {
	if strings.TrimSpace(o.ComponentProvider) == "" {
		return errors.New("options missing component provider")
	}
	if o.LightTheme == "" || o.DarkTheme == "" {
		return errors.New("options must carry both a light and a dark theme")
	}
	if len(o.PackageManagers) == 0 {
		return errors.New("options must list at least one package manager")
	}
	if o.InstallGroupID == "" {
		return errors.New("options missing install group id")
	}
	if len(o.Transformers) == 0 {
		return errors.New("options must carry at least one transformer")
	}
	return nil
}
