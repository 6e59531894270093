// Package walker lists the documents present in a local content directory.
package walker

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

// Document is a file discovered during traversal.
type Document struct {
	RelPath string // Slash-separated path relative to the walked root.
	Size    int64
}

// Config controls the behaviour of the Walk function.
type Config struct {
	Fs      afero.Fs
	Root    string   // Directory to walk within Fs. Defaults to "/".
	Include []string // Glob patterns; only matching files are included.
	Exclude []string // Glob patterns; matching files are excluded.
}

// Walk traverses the tree rooted at cfg.Root and returns every document
// that passes filtering, sorted by path. A missing root yields no documents.
func Walk(cfg Config) ([]Document, error) {
	root := cfg.Root
	if root == "" {
		root = "/"
	}
	if ok, err := afero.DirExists(cfg.Fs, root); err != nil {
		return nil, fmt.Errorf("walker: stat root: %w", err)
	} else if !ok {
		return nil, nil
	}

	var docs []Document
	err := afero.Walk(cfg.Fs, root, func(p string, info fs.FileInfo, walkErr error) error {
		if walkErr != nil {
			// Skip entries we cannot read instead of aborting.
			return nil
		}

		if info.IsDir() {
			if p != root && shouldExcludeDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if !MatchesInclude(rel, cfg.Include) || MatchesExclude(rel, cfg.Exclude) {
			return nil
		}

		docs = append(docs, Document{RelPath: rel, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walker: traversal: %w", err)
	}

	slices.SortFunc(docs, func(a, b Document) int {
		return strings.Compare(a.RelPath, b.RelPath)
	})
	return docs, nil
}

// Orphans returns the documents under prefix whose reference is not in
// refs. References are slash-separated paths relative to the content root.
func Orphans(docs []Document, prefix string, refs []string) []string {
	known := make(map[string]bool, len(refs))
	for _, ref := range refs {
		known[path.Clean(ref)] = true
	}

	var orphans []string
	for _, d := range docs {
		ref := path.Clean(path.Join(prefix, d.RelPath))
		if !known[ref] {
			orphans = append(orphans, ref)
		}
	}
	return orphans
}
