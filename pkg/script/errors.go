package script

import "fmt"

// ParseError reports a malformed script source. It carries the
// source name, the position, and the offending line so callers can
// render the error with context.
type ParseError struct {
	Name    string
	Pos     Position
	Line    string
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.Name, e.Pos.Line, e.Pos.Column, e.Message)
	}
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}
