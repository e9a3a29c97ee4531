package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/elizaos/docsite/internal/config"
	"github.com/elizaos/docsite/internal/manifest"
	"github.com/elizaos/docsite/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output  string `short:"o" help:"Output directory for the generated site (overrides config)"`
	History string `name:"history" help:"SQLite file recording build history (optional)"`
	Force   bool   `help:"Build even when the content set is unchanged"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	outputDir := resolveOutputDir(b.Output, cfg)

	var opts []site.Option
	if b.History != "" {
		store, err := openHistoryStore(b.History)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		opts = append(opts, site.WithStore(store))
	}

	gen, err := site.NewGenerator(cfg, outputDir, opts...)
	if err != nil {
		return err
	}

	ctx := context.Background()
	var record *manifest.BuildRecord
	if b.Force {
		record, err = gen.Build(ctx)
	} else {
		var skipped bool
		record, skipped, err = gen.BuildIfChanged(ctx)
		if err == nil && skipped {
			fmt.Println("Content unchanged; site is up to date")
			return nil
		}
	}
	if err != nil {
		return err
	}

	for _, problem := range record.Problems {
		fmt.Fprintf(os.Stderr, "warning: %s\n", problem)
	}
	fmt.Printf("Built %d pages to %s (%s)\n", record.PageCount, outputDir, record.Outcome)
	return nil
}

// resolveOutputDir prefers the CLI flag, then config, then the default.
func resolveOutputDir(cliOutput string, cfg *config.Config) string {
	if cliOutput != "" {
		return cliOutput
	}
	if cfg.Output.Directory != "" {
		return cfg.Output.Directory
	}
	return config.DefaultOutputDir
}

func openHistoryStore(path string) (*manifest.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}
	store, err := manifest.OpenStore(path)
	if err != nil {
		return nil, fmt.Errorf("open build history: %w", err)
	}
	slog.Debug("Build history enabled", slog.String("path", path))
	return store, nil
}
