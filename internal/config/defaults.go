package config

import "slices"

// DefaultAssetPatterns are the content paths the server proxies by default.
var DefaultAssetPatterns = []string{
	"**/*.css",
	"**/*.{png,jpg,jpeg,gif,svg,webp,ico}",
	"**/*.{woff,woff2,ttf,otf}",
}

// DefaultDocumentPatterns select Markdown documents.
var DefaultDocumentPatterns = []string{"**/*.md"}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ContentDir:       ".",
		ConfigLocation:   "config.json",
		Port:             8080,
		AssetPatterns:    slices.Clone(DefaultAssetPatterns),
		LogFormat:        LogConsole,
		DocumentPatterns: slices.Clone(DefaultDocumentPatterns),
	}
}
