package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validation sentinels so callers can branch on failure class.
var (
	ErrNoContentDir    = errors.New("content.dir must be set")
	ErrNoOutputDir     = errors.New("output.directory must be set")
	ErrBadPort         = errors.New("serve.port must be between 1 and 65535")
	ErrIncompleteTheme = errors.New("markdown themes must include both a light and a dark entry")
)

// Validate rejects configurations the build cannot honor. Defaults are assumed
// to have been applied already.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Content.Dir) == "" {
		return ErrNoContentDir
	}
	if strings.TrimSpace(c.Output.Directory) == "" {
		return ErrNoOutputDir
	}
	if c.Serve.Port < 1 || c.Serve.Port > 65535 {
		return fmt.Errorf("%w: got %d", ErrBadPort, c.Serve.Port)
	}
	if strings.TrimSpace(c.Markdown.LightTheme) == "" || strings.TrimSpace(c.Markdown.DarkTheme) == "" {
		return ErrIncompleteTheme
	}
	if len(c.Markdown.PackageManagers) == 0 {
		return errors.New("markdown.package_managers must not be empty")
	}
	return nil
}
