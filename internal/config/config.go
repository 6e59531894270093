package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (MDPARTY_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: MDPARTY_CONTENT_URL -> content_url, etc.
	if err := k.Load(env.Provider("MDPARTY_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "MDPARTY_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validLogFormats is the set of recognized log_format values.
var validLogFormats = map[LogFormat]bool{
	LogConsole: true,
	LogJSON:    true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.ContentURL != "" {
		if c.ContentDir != "" && c.ContentDir != "." {
			return fmt.Errorf("content_url and content_dir are mutually exclusive")
		}
		u, err := url.Parse(c.ContentURL)
		if err != nil {
			return fmt.Errorf("invalid content_url %q: %w", c.ContentURL, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
			return fmt.Errorf("invalid content_url %q: must be an absolute http(s) url", c.ContentURL)
		}
	} else if c.ContentDir == "" {
		return fmt.Errorf("one of content_url or content_dir is required")
	}

	if c.ConfigLocation == "" {
		return fmt.Errorf("config_location is required")
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}

	if c.FetchTimeout < 0 {
		return fmt.Errorf("fetch_timeout must be non-negative")
	}

	if c.LogFormat != "" && !validLogFormats[c.LogFormat] {
		return fmt.Errorf("invalid log_format %q: must be one of console, json", c.LogFormat)
	}

	for _, p := range c.AssetPatterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid asset pattern %q", p)
		}
	}
	for _, p := range append(slices.Clone(c.DocumentPatterns), c.DocumentExcludes...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid document pattern %q", p)
		}
	}

	return nil
}
