package router

import (
	"fmt"
	"strings"
)

// NotFoundError reports a fragment that matches no sitemap entry.
type NotFoundError struct {
	Fragment string
}

func (e *NotFoundError) Error() string {
	if e.Fragment == "" {
		return "no page selected"
	}
	return fmt.Sprintf("no page for fragment %q", e.Fragment)
}

// Resolve returns the first sitemap entry whose slug equals fragment.
func Resolve(fragment string, sitemap []string) (string, error) {
	if fragment == "" {
		return "", &NotFoundError{}
	}
	for _, name := range sitemap {
		if Slugify(name) == fragment {
			return name, nil
		}
	}
	return "", &NotFoundError{Fragment: fragment}
}

// CurrentFragment strips the leading '#' marker from a raw URL fragment.
func CurrentFragment(raw string) string {
	return strings.TrimPrefix(raw, "#")
}

// Href returns the fragment link for a page name.
func Href(name string) string {
	return "#" + Slugify(name)
}
