// Package commands holds the docsite CLI subcommands.
package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/elizaos/docsite/internal/config"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docsite.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" help:"Build the static site from the content directory"`
	Serve ServeCmd `cmd:"" help:"Serve the site locally and rebuild on content changes"`
	Check CheckCmd `cmd:"" help:"Validate frontmatter and internal links without writing output"`
	Init  InitCmd  `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once so config load
// errors already log sensibly.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig loads the config file and installs the configured logger.
// Commands call this first so everything after logs consistently.
func loadConfig(root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(cfg.Logging.NewLogger(root.Verbose))
	return cfg, nil
}
