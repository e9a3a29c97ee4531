package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Content  ContentConfig  `yaml:"content"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Output   OutputConfig   `yaml:"output"`
	Serve    ServeConfig    `yaml:"serve"`
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
}

// SiteConfig holds site-wide presentation settings.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"`
	// EditBaseURL, when set, is joined with each page's repo-relative path to
	// produce an "edit this page" link (e.g. https://github.com/org/docs/edit/main).
	EditBaseURL string `yaml:"edit_base_url,omitempty"`
}

// ContentConfig declares where content lives and which files belong to it.
type ContentConfig struct {
	Dir string `yaml:"dir"`
	// BasePath is the route prefix pages are published under (e.g. /docs).
	BasePath string   `yaml:"base_path,omitempty"`
	Include  []string `yaml:"include,omitempty"`
	Exclude  []string `yaml:"exclude,omitempty"`
}

// MarkdownConfig parameterizes the rendering pipeline.
type MarkdownConfig struct {
	// LightTheme/DarkTheme name chroma styles; both variants are emitted and
	// the active one is selected with CSS.
	LightTheme string `yaml:"light_theme,omitempty"`
	DarkTheme  string `yaml:"dark_theme,omitempty"`
	// PackageManagers lists the tabs generated for package-install blocks.
	PackageManagers []string `yaml:"package_managers,omitempty"`
	// InstallGroupID is the persisted identifier shared by all package-install
	// tab groups so a reader's choice sticks across snippets.
	InstallGroupID string `yaml:"install_group_id,omitempty"`
}

// OutputConfig represents output configuration.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"` // Clean output directory before build
}

// ServeConfig configures the preview server.
type ServeConfig struct {
	Port        int    `yaml:"port,omitempty"`
	Metrics     bool   `yaml:"metrics,omitempty"`
	MetricsPath string `yaml:"metrics_path,omitempty"`
}

// LoggingConfig selects log level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists; absence is fine.
	_ = godotenv.Load()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

const initTemplate = `# docsite configuration
site:
  title: "ElizaOS Documentation"
  description: "APIs, concepts, tutorials and migration guides for the ElizaOS agent framework"
  base_url: "http://localhost:4141"

content:
  dir: ./content/docs

markdown:
  light_theme: github
  dark_theme: github-dark

output:
  directory: ./site
  clean: true

serve:
  port: 4141
  metrics: false
`

// Init writes a starter configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}
	if err := os.WriteFile(configPath, []byte(initTemplate), 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
