// Package content loads a site description: its configuration, sitemap,
// page documents and layout parts.
package content

import (
	"strings"

	"github.com/ziadkadry99/mdparty/internal/router"
)

// SiteConfig describes where the site's content lives. It is fetched once
// and never modified afterwards.
type SiteConfig struct {
	Title  string       `yaml:"title" json:"title"`
	Pages  PagesConfig  `yaml:"pages" json:"pages"`
	Layout LayoutConfig `yaml:"layout" json:"layout"`
}

// PagesConfig locates the sitemap and the page documents.
type PagesConfig struct {
	SitemapLocation string `yaml:"sitemapLocation" json:"sitemapLocation"`
	FetchPrefix     string `yaml:"fetchPrefix" json:"fetchPrefix"`

	// SitemapYAML is the older spelling of SitemapLocation.
	SitemapYAML string `yaml:"sitemapYaml,omitempty" json:"sitemapYaml,omitempty"`
}

// LayoutConfig locates the layout parts and the optional stylesheet.
type LayoutConfig struct {
	FetchPrefix string   `yaml:"fetchPrefix" json:"fetchPrefix"`
	CSSFile     string   `yaml:"cssFile,omitempty" json:"cssFile,omitempty"`
	Parts       []string `yaml:"parts" json:"parts"`

	// CSS is the older spelling of CSSFile.
	CSS string `yaml:"css,omitempty" json:"css,omitempty"`
}

// normalize folds the legacy key spellings into their canonical fields.
// Canonical keys win when both are present.
func (c *SiteConfig) normalize() {
	if c.Pages.SitemapLocation == "" {
		c.Pages.SitemapLocation = c.Pages.SitemapYAML
	}
	if c.Layout.CSSFile == "" {
		c.Layout.CSSFile = c.Layout.CSS
	}
	c.Pages.SitemapYAML = ""
	c.Layout.CSS = ""
}

// StylesheetRef returns the reference of the layout stylesheet, or "" when
// the site has none.
func (c *SiteConfig) StylesheetRef() string {
	if c.Layout.CSSFile == "" {
		return ""
	}
	return joinRef(c.Layout.FetchPrefix, c.Layout.CSSFile)
}

// Sitemap lists page names in navigation order. The first entry is the
// landing page.
type Sitemap []string

// Slugs returns the slug of every entry, in order.
func (s Sitemap) Slugs() []string {
	slugs := make([]string, len(s))
	for i, name := range s {
		slugs[i] = router.Slugify(name)
	}
	return slugs
}

// RenderedDocument is one markdown source converted to HTML.
type RenderedDocument struct {
	Name string
	HTML string
	// Title is the front matter title, if the source declared one.
	Title string
}

// Table maps a name to its rendered document.
type Table map[string]RenderedDocument

// Source names a markdown resource to fetch.
type Source struct {
	Name string
	URL  string
}

// Site is everything the loader produced. It is read-only once built.
type Site struct {
	Config  *SiteConfig
	Sitemap Sitemap
	Pages   Table
	Layout  Table
}

// Page returns the rendered document of a sitemap entry.
func (s *Site) Page(name string) (RenderedDocument, bool) {
	doc, ok := s.Pages[name]
	return doc, ok
}

// Part returns a rendered layout part such as "header" or "footer".
func (s *Site) Part(name string) (RenderedDocument, bool) {
	doc, ok := s.Layout[name]
	return doc, ok
}

// PageSources lists the page documents of sitemap, each fetched from
// "{pages.fetchPrefix}/{slug}.md".
func PageSources(cfg *SiteConfig, sitemap Sitemap) []Source {
	sources := make([]Source, 0, len(sitemap))
	for _, name := range sitemap {
		sources = append(sources, Source{
			Name: name,
			URL:  joinRef(cfg.Pages.FetchPrefix, router.Slugify(name)+".md"),
		})
	}
	return sources
}

// LayoutSources lists the layout parts, each fetched from
// "{layout.fetchPrefix}/{part}.md".
func LayoutSources(cfg *SiteConfig) []Source {
	sources := make([]Source, 0, len(cfg.Layout.Parts))
	for _, part := range cfg.Layout.Parts {
		sources = append(sources, Source{
			Name: part,
			URL:  joinRef(cfg.Layout.FetchPrefix, part+".md"),
		})
	}
	return sources
}

func joinRef(prefix, file string) string {
	if prefix == "" {
		return file
	}
	return strings.TrimSuffix(prefix, "/") + "/" + file
}
