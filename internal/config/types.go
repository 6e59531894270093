package config

import "time"

// LogFormat selects the log encoder.
type LogFormat string

const (
	LogConsole LogFormat = "console"
	LogJSON    LogFormat = "json"
)

// Config is the top-level mdparty configuration, corresponding to .mdparty.yml.
// It configures the process; the site itself is described by the fetched
// site config (see ConfigLocation).
type Config struct {
	ContentURL      string        `yaml:"content_url,omitempty" koanf:"content_url"`
	ContentDir      string        `yaml:"content_dir" koanf:"content_dir"`
	ConfigLocation  string        `yaml:"config_location" koanf:"config_location"`
	Port            int           `yaml:"port" koanf:"port"`
	AllowAllOrigins bool          `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	StrictSlugs     bool          `yaml:"strict_slugs" koanf:"strict_slugs"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout" koanf:"fetch_timeout"`
	AssetPatterns   []string      `yaml:"asset_patterns" koanf:"asset_patterns"`
	LogFormat       LogFormat     `yaml:"log_format" koanf:"log_format"`

	// DocumentPatterns and DocumentExcludes select the local files check
	// expects the sitemap to reach.
	DocumentPatterns []string `yaml:"document_patterns" koanf:"document_patterns"`
	DocumentExcludes []string `yaml:"document_excludes,omitempty" koanf:"document_excludes"`
}

// Remote reports whether content is fetched over HTTP rather than read
// from ContentDir.
func (c *Config) Remote() bool {
	return c.ContentURL != ""
}
