// Package board implements a bitboard chess position: piece placement,
// incremental make/unmake, Zobrist hashing, and legal move generation.
package board

import "fmt"

// Square identifies one of the 64 board squares using little-endian
// rank-file mapping: A1=0, H1=7, A8=56, H8=63.
type Square uint8

// Square constants for all 64 squares.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8

	// NoSquare is the sentinel meaning "no square".
	NoSquare Square = 64
)

// File returns the file (0=a .. 7=h) of the square.
func (sq Square) File() int {
	return int(sq) & 7
}

// Rank returns the rank (0=rank1 .. 7=rank8) of the square.
func (sq Square) Rank() int {
	return int(sq) >> 3
}

// NewSquare builds a square from 0-indexed file and rank.
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

// IsValid reports whether sq is one of the 64 real squares.
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// Mirror returns the square reflected across the board's horizontal
// midline, used to flip piece-square tables for Black.
func (sq Square) Mirror() Square {
	return sq ^ 56
}

// String renders algebraic notation, e.g. "e4", or "-" for NoSquare.
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+byte(sq.File()), '1'+byte(sq.Rank()))
}

// ParseSquare parses algebraic notation, e.g. "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, &ParseError{Kind: "square", Input: s}
	}
	file := int(s[0] - 'a')
	rank := int(s[1] - '1')
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, &ParseError{Kind: "square", Input: s}
	}
	return NewSquare(file, rank), nil
}
