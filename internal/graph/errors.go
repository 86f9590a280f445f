package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors for graph loading.
var (
	// ErrMissingHeader indicates a record appeared before any *Vertices line.
	ErrMissingHeader = errors.New("graph: missing *Vertices header")
	// ErrMalformedLine indicates a record has the wrong number of tokens.
	ErrMalformedLine = errors.New("graph: malformed line")
	// ErrBadInteger indicates a token that must be an integer is not one.
	ErrBadInteger = errors.New("graph: expected integer")
	// ErrVertexCount indicates the vertex block has fewer or more records than declared.
	ErrVertexCount = errors.New("graph: vertex count mismatch")
	// ErrDuplicateVertex indicates a vertex ID was declared twice.
	ErrDuplicateVertex = errors.New("graph: duplicate vertex id")
	// ErrVertexOutOfRange indicates a vertex ID outside 1..N.
	ErrVertexOutOfRange = errors.New("graph: vertex id out of range")
)

// ParseError records a loading failure together with the offending line.
type ParseError struct {
	Line int    // 1-based line number in the source
	Text string // raw line content, trimmed
	Err  error
}

// Error returns a human-readable message with the line number and content.
func (e *ParseError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *ParseError) Unwrap() error {
	return e.Err
}
