package content

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/ziadkadry99/mdparty/internal/router"
)

// SlugCollision lists sitemap entries sharing one slug, in sitemap order.
// Only the first name is reachable by fragment.
type SlugCollision struct {
	Slug  string
	Names []string
}

// SlugCollisionError is returned by a strict Loader when the sitemap
// contains colliding entries.
type SlugCollisionError struct {
	Collisions []SlugCollision
}

func (e *SlugCollisionError) Error() string {
	parts := make([]string, len(e.Collisions))
	for i, c := range e.Collisions {
		parts[i] = fmt.Sprintf("%q <- %s", c.Slug, strings.Join(c.Names, ", "))
	}
	return "sitemap entries share slugs: " + strings.Join(parts, "; ")
}

// SlugCollisions reports every slug used by more than one sitemap entry,
// ordered by first occurrence.
func SlugCollisions(sitemap Sitemap) []SlugCollision {
	slugs := sitemap.Slugs()
	dups := lo.FindDuplicates(slugs)
	if len(dups) == 0 {
		return nil
	}

	collisions := make([]SlugCollision, 0, len(dups))
	for _, slug := range dups {
		names := lo.Filter(sitemap, func(name string, _ int) bool {
			return router.Slugify(name) == slug
		})
		collisions = append(collisions, SlugCollision{Slug: slug, Names: names})
	}
	return collisions
}

// Reachable reports whether name is the entry its slug resolves to.
func (s Sitemap) Reachable(name string) bool {
	resolved, err := router.Resolve(router.Slugify(name), s)
	return err == nil && resolved == name
}
