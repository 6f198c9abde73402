package board

import (
	"strconv"
	"strings"
)

// StartFEN is the standard chess starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		panic(&InvariantError{Detail: "start FEN failed to parse: " + err.Error()})
	}
	return pos
}

// ParseFEN builds a Position from Forsyth-Edwards Notation. Per this
// engine's relaxed reading of the standard, a FEN with only the first
// four fields is accepted: the halfmove clock defaults to 0 and the
// fullmove number defaults to 1.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, &ParseError{Kind: "fen", Input: fen}
	}

	pos := NewEmptyPosition()

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, &ParseError{Kind: "fen", Input: fen}
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, ch := range rankStr {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			p := PieceFromChar(byte(ch))
			if p == NoPiece || file > 7 {
				return nil, &ParseError{Kind: "fen", Input: fen}
			}
			pos.setPiece(p, NewSquare(file, rank))
			file++
		}
		if file != 8 {
			return nil, &ParseError{Kind: "fen", Input: fen}
		}
	}

	switch fields[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, &ParseError{Kind: "fen", Input: fen}
	}

	pos.CastlingRights = 0
	if fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				pos.CastlingRights |= WhiteKingside
			case 'Q':
				pos.CastlingRights |= WhiteQueenside
			case 'k':
				pos.CastlingRights |= BlackKingside
			case 'q':
				pos.CastlingRights |= BlackQueenside
			default:
				return nil, &ParseError{Kind: "fen", Input: fen}
			}
		}
	}

	pos.EnPassant = NoSquare
	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, &ParseError{Kind: "fen", Input: fen}
		}
		pos.EnPassant = sq
	}

	pos.HalfmoveClock = 0
	pos.FullMoveNumber = 1
	if len(fields) >= 5 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, &ParseError{Kind: "fen", Input: fen}
		}
		pos.HalfmoveClock = n
	}
	if len(fields) >= 6 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, &ParseError{Kind: "fen", Input: fen}
		}
		pos.FullMoveNumber = n
	}

	pos.Hash = ComputeHash(pos)
	return pos, nil
}

// ToFEN serializes the position back to Forsyth-Edwards Notation.
func (pos *Position) ToFEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := pos.mailbox[NewSquare(file, rank)]
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(p.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank != 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if pos.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	if pos.CastlingRights == 0 {
		sb.WriteByte('-')
	} else {
		if pos.CastlingRights&WhiteKingside != 0 {
			sb.WriteByte('K')
		}
		if pos.CastlingRights&WhiteQueenside != 0 {
			sb.WriteByte('Q')
		}
		if pos.CastlingRights&BlackKingside != 0 {
			sb.WriteByte('k')
		}
		if pos.CastlingRights&BlackQueenside != 0 {
			sb.WriteByte('q')
		}
	}

	sb.WriteByte(' ')
	if pos.EnPassant == NoSquare {
		sb.WriteByte('-')
	} else {
		sb.WriteString(pos.EnPassant.String())
	}

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(pos.HalfmoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(pos.FullMoveNumber))

	return sb.String()
}

// ComputeHash recomputes the Zobrist key for pos from scratch, used to
// cross-check the incrementally maintained Hash field in tests.
func ComputeHash(pos *Position) uint64 {
	var hash uint64
	for sq := A1; sq <= H8; sq++ {
		p := pos.mailbox[sq]
		if p != NoPiece {
			hash ^= ZobristPiece(p, sq)
		}
	}
	hash ^= ZobristCastling(pos.CastlingRights)
	if pos.EnPassant != NoSquare {
		hash ^= ZobristEnPassant(pos.EnPassant.File())
	}
	if pos.SideToMove == Black {
		hash ^= ZobristSideToMove()
	}
	return hash
}
