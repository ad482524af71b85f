package script

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestScriptFixtures parses every script under testdata and snapshots
// its normalized directive tree, using go-snaps for snapshot testing.
func TestScriptFixtures(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.rea"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no fixtures found under testdata")
	}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			tree, err := Parse(path, string(data), Spaces(2))
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			snaps.MatchSnapshot(t, tree.Dump())
		})
	}
}
