package cmd

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// globScripts returns every .rea file under root, at any depth, in
// lexical order.
func globScripts(root string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(root), "**/*.rea")
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	paths := make([]string, len(matches))
	for i, match := range matches {
		paths[i] = filepath.Join(root, match)
	}
	return paths, nil
}
