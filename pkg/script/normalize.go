package script

import (
	"fmt"
	"strings"
)

// Normalize strips a margin from an indented inline source. Every
// non-blank line must contain the margin rune; the text before and
// including the first occurrence is dropped. Blank lines become
// empty lines. This lets tests embed scripts in Go string literals
// without fighting the host indentation:
//
//	src, _ := script.Normalize('|', `
//	    |node: test $a
//	    |  is-state $a
//	`)
func Normalize(margin rune, source string) (string, error) {
	var sb strings.Builder
	for lineIdx, line := range strings.Split(source, "\n") {
		if strings.TrimSpace(line) == "" {
			sb.WriteString("\n")
			continue
		}
		cut := strings.IndexRune(line, margin)
		if cut < 0 {
			return "", fmt.Errorf("script: line %d has no %q margin", lineIdx+1, margin)
		}
		sb.WriteString(line[cut+len(string(margin)):])
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
