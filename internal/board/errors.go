package board

import "fmt"

// ParseError reports malformed input to a parser (FEN, square, or move
// string). It is non-fatal: callers decide how to recover.
type ParseError struct {
	Kind  string // "fen", "square", "move"
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("board: invalid %s: %q", e.Kind, e.Input)
}

// IllegalMoveError reports that a syntactically valid move is not
// legal in the position it was applied to.
type IllegalMoveError struct {
	Move Move
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("board: illegal move: %s", e.Move)
}

// InvariantError reports a violated internal invariant detected by a
// Position's self-check (see Position.Validate). Unlike ParseError and
// IllegalMoveError, this indicates a bug rather than bad input, and
// callers should treat it as fatal.
type InvariantError struct {
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("board: invariant violated: %s", e.Detail)
}
