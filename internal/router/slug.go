// Package router maps URL fragments to sitemap pages and holds the
// navigation state of one viewer.
package router

import (
	"regexp"
	"strings"
)

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives the fragment key of a page name: lower-cased, with every
// run of characters outside [a-z0-9] collapsed into a single underscore.
//
// Distinct names may share a slug ("A B" and "A-B" both give "a_b").
func Slugify(name string) string {
	return nonSlugRun.ReplaceAllString(strings.ToLower(name), "_")
}
