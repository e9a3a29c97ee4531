package config

// Default values applied when the configuration file leaves fields unset.
const (
	DefaultContentDir  = "./content/docs"
	DefaultBasePath    = "/docs"
	DefaultOutputDir   = "./site"
	DefaultServePort   = 4141
	DefaultMetricsPath = "/metrics"
	DefaultLightTheme  = "github"
	DefaultDarkTheme   = "github-dark"
	// DefaultInstallGroupID keys the persisted package-manager choice shared by
	// all install snippets on the site.
	DefaultInstallGroupID = "package-manager"
)

// DefaultIncludeGlobs match the content contract: every .mdx and .md file.
var DefaultIncludeGlobs = []string{"**/*.mdx", "**/*.md"}

// DefaultExcludeGlobs drop underscore-prefixed files (drafts, meta files) and
// everything inside underscore-prefixed directories from the route set by
// construction.
var DefaultExcludeGlobs = []string{"**/_*", "**/_*/**"}

// DefaultPackageManagers are the tabs generated for package-install blocks.
var DefaultPackageManagers = []string{"npm", "pnpm", "yarn", "bun"}

// ApplyDefaults fills unset fields in place.
func (c *Config) ApplyDefaults() {
	if c.Site.Title == "" {
		c.Site.Title = "Documentation"
	}
	if c.Content.Dir == "" {
		c.Content.Dir = DefaultContentDir
	}
	if c.Content.BasePath == "" {
		c.Content.BasePath = DefaultBasePath
	}
	if len(c.Content.Include) == 0 {
		c.Content.Include = append([]string(nil), DefaultIncludeGlobs...)
	}
	if len(c.Content.Exclude) == 0 {
		c.Content.Exclude = append([]string(nil), DefaultExcludeGlobs...)
	}
	if c.Markdown.LightTheme == "" {
		c.Markdown.LightTheme = DefaultLightTheme
	}
	if c.Markdown.DarkTheme == "" {
		c.Markdown.DarkTheme = DefaultDarkTheme
	}
	if len(c.Markdown.PackageManagers) == 0 {
		c.Markdown.PackageManagers = append([]string(nil), DefaultPackageManagers...)
	}
	if c.Markdown.InstallGroupID == "" {
		c.Markdown.InstallGroupID = DefaultInstallGroupID
	}
	if c.Output.Directory == "" {
		c.Output.Directory = DefaultOutputDir
	}
	if c.Serve.Port == 0 {
		c.Serve.Port = DefaultServePort
	}
	if c.Serve.MetricsPath == "" {
		c.Serve.MetricsPath = DefaultMetricsPath
	}
	if c.Logging.Level == "" {
		c.Logging.Level = string(LogLevelInfo)
	}
	if c.Logging.Format == "" {
		c.Logging.Format = string(LogFormatText)
	}
}
