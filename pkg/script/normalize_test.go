package script

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	normalized, err := Normalize('|', `
		|node: test $a
		|  is-state $a
	`)
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	want := "\nnode: test $a\n  is-state $a\n\n"
	if normalized != want {
		t.Errorf("normalized = %q, want %q", normalized, want)
	}
	if _, err := Parse("test", normalized, Spaces(2)); err != nil {
		t.Errorf("normalized source does not parse: %v", err)
	}
}

func TestNormalizeMissingMargin(t *testing.T) {
	_, err := Normalize('|', "no margin here")
	if err == nil || !strings.Contains(err.Error(), "margin") {
		t.Fatalf("expected margin error, got %v", err)
	}
}
