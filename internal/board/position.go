package board

import "strings"

// Castling rights bits packed into a 4-bit nibble.
const (
	WhiteKingside  uint8 = 1 << 0
	WhiteQueenside uint8 = 1 << 1
	BlackKingside  uint8 = 1 << 2
	BlackQueenside uint8 = 1 << 3
	AllCastling    uint8 = WhiteKingside | WhiteQueenside | BlackKingside | BlackQueenside
)

// castlingMask[sq] holds the rights bits that are lost when a move
// touches sq as either origin or destination (a king or rook moving
// away from its home square, or a rook being captured on it).
var castlingMask [64]uint8

func init() {
	castlingMask[A1] = WhiteQueenside
	castlingMask[E1] = WhiteKingside | WhiteQueenside
	castlingMask[H1] = WhiteKingside
	castlingMask[A8] = BlackQueenside
	castlingMask[E8] = BlackKingside | BlackQueenside
	castlingMask[H8] = BlackKingside
}

// undoRecord holds everything needed to reverse one MakeMove call.
// Storing the previous hash directly, rather than re-deriving it by
// XORing the same terms back out, keeps UnmakeMove a handful of field
// copies instead of a second incremental-update pass.
type undoRecord struct {
	move           Move
	captured       Piece
	capturedSquare Square
	castlingRights uint8
	enPassant      Square
	halfmoveClock  int
	hash           uint64
}

type nullUndoRecord struct {
	enPassant     Square
	halfmoveClock int
	hash          uint64
}

// Position is a complete, mutable chess position. Bitboards and a
// mailbox array are kept in sync on every mutation; make/unmake update
// both incrementally rather than rebuilding either from scratch.
type Position struct {
	pieces  [2][6]Bitboard // [Color][PieceType]
	colorBB [2]Bitboard    // [Color] combined occupancy
	allOccupied Bitboard
	mailbox [64]Piece

	SideToMove     Color
	CastlingRights uint8
	EnPassant      Square
	HalfmoveClock  int
	FullMoveNumber int
	KingSquare     [2]Square
	Hash           uint64

	undoStack []undoRecord
	nullStack []nullUndoRecord
	keyHistory []uint64
}

// NewEmptyPosition returns a Position with no pieces placed. Callers
// normally build a Position via ParseFEN instead.
func NewEmptyPosition() *Position {
	pos := &Position{}
	for sq := A1; sq <= H8; sq++ {
		pos.mailbox[sq] = NoPiece
	}
	pos.KingSquare[White] = NoSquare
	pos.KingSquare[Black] = NoSquare
	pos.EnPassant = NoSquare
	pos.FullMoveNumber = 1
	return pos
}

func (pos *Position) setPiece(p Piece, sq Square) {
	bb := SquareBB(sq)
	pos.pieces[p.Color()][p.Type()] |= bb
	pos.colorBB[p.Color()] |= bb
	pos.allOccupied |= bb
	pos.mailbox[sq] = p
	if p.Type() == King {
		pos.KingSquare[p.Color()] = sq
	}
}

func (pos *Position) removePiece(p Piece, sq Square) {
	bb := SquareBB(sq)
	pos.pieces[p.Color()][p.Type()] &^= bb
	pos.colorBB[p.Color()] &^= bb
	pos.allOccupied &^= bb
	pos.mailbox[sq] = NoPiece
}

// PieceAt returns the piece occupying sq, or NoPiece.
func (pos *Position) PieceAt(sq Square) Piece {
	return pos.mailbox[sq]
}

// PieceBB returns the bitboard of pieces of kind pt and color c.
func (pos *Position) PieceBB(c Color, pt PieceType) Bitboard {
	return pos.pieces[c][pt]
}

// Occupied returns the combined occupancy of color c.
func (pos *Position) Occupied(c Color) Bitboard {
	return pos.colorBB[c]
}

// AllOccupied returns the combined occupancy of both colors.
func (pos *Position) AllOccupied() Bitboard {
	return pos.allOccupied
}

// CanCastleKingside reports whether c still holds kingside castling rights.
func (pos *Position) CanCastleKingside(c Color) bool {
	if c == White {
		return pos.CastlingRights&WhiteKingside != 0
	}
	return pos.CastlingRights&BlackKingside != 0
}

// CanCastleQueenside reports whether c still holds queenside castling rights.
func (pos *Position) CanCastleQueenside(c Color) bool {
	if c == White {
		return pos.CastlingRights&WhiteQueenside != 0
	}
	return pos.CastlingRights&BlackQueenside != 0
}

// Clone returns an independent copy of pos. The search worker clones
// the dispatcher's position before starting so the dispatcher remains
// free to accept a new `position` command without racing the worker.
func (pos *Position) Clone() *Position {
	c := *pos
	c.undoStack = append([]undoRecord(nil), pos.undoStack...)
	c.nullStack = append([]nullUndoRecord(nil), pos.nullStack...)
	c.keyHistory = append([]uint64(nil), pos.keyHistory...)
	return &c
}

// String renders an 8x8 ASCII board, uppercase letters for White,
// rank 8 first, plus the side to move, castling rights, and en
// passant target.
func (pos *Position) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteString(string(rune('1' + rank)))
		sb.WriteByte(' ')
		for file := 0; file < 8; file++ {
			p := pos.mailbox[NewSquare(file, rank)]
			sb.WriteString(p.String())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	sb.WriteString("side: ")
	sb.WriteString(pos.SideToMove.String())
	sb.WriteString(" castling: ")
	sb.WriteString(castlingString(pos.CastlingRights))
	sb.WriteString(" ep: ")
	sb.WriteString(pos.EnPassant.String())
	sb.WriteByte('\n')
	return sb.String()
}

func castlingString(rights uint8) string {
	if rights == 0 {
		return "-"
	}
	s := ""
	if rights&WhiteKingside != 0 {
		s += "K"
	}
	if rights&WhiteQueenside != 0 {
		s += "Q"
	}
	if rights&BlackKingside != 0 {
		s += "k"
	}
	if rights&BlackQueenside != 0 {
		s += "q"
	}
	return s
}

// AttackersTo returns all pieces of either color attacking sq, given
// the occupancy occ (passed explicitly so callers can probe hypothetical
// occupancies, e.g. with the moving piece removed).
func (pos *Position) AttackersTo(sq Square, occ Bitboard) Bitboard {
	var attackers Bitboard
	attackers |= KnightAttacks(sq) & (pos.pieces[White][Knight] | pos.pieces[Black][Knight])
	attackers |= KingAttacks(sq) & (pos.pieces[White][King] | pos.pieces[Black][King])
	attackers |= PawnAttacks(sq, White) & pos.pieces[Black][Pawn]
	attackers |= PawnAttacks(sq, Black) & pos.pieces[White][Pawn]
	diag := pos.pieces[White][Bishop] | pos.pieces[Black][Bishop] | pos.pieces[White][Queen] | pos.pieces[Black][Queen]
	attackers |= BishopAttacks(sq, occ) & diag
	ortho := pos.pieces[White][Rook] | pos.pieces[Black][Rook] | pos.pieces[White][Queen] | pos.pieces[Black][Queen]
	attackers |= RookAttacks(sq, occ) & ortho
	return attackers
}

// IsSquareAttacked reports whether sq is attacked by color by, using
// the current board occupancy.
func (pos *Position) IsSquareAttacked(sq Square, by Color) bool {
	occ := pos.allOccupied
	if KnightAttacks(sq)&pos.pieces[by][Knight] != 0 {
		return true
	}
	if KingAttacks(sq)&pos.pieces[by][King] != 0 {
		return true
	}
	if PawnAttacks(sq, by.Other())&pos.pieces[by][Pawn] != 0 {
		return true
	}
	if BishopAttacks(sq, occ)&(pos.pieces[by][Bishop]|pos.pieces[by][Queen]) != 0 {
		return true
	}
	if RookAttacks(sq, occ)&(pos.pieces[by][Rook]|pos.pieces[by][Queen]) != 0 {
		return true
	}
	return false
}

// Checkers returns the enemy pieces currently giving check to c's king.
func (pos *Position) Checkers(c Color) Bitboard {
	return pos.AttackersTo(pos.KingSquare[c], pos.allOccupied) & pos.colorBB[c.Other()]
}

// InCheck reports whether c's king is attacked.
func (pos *Position) InCheck(c Color) bool {
	return pos.Checkers(c) != 0
}

func sameDiagonal(a, b Square) bool {
	df := abs(a.File() - b.File())
	dr := abs(a.Rank() - b.Rank())
	return df == dr && df != 0
}

func sameLine(a, b Square) bool {
	return a != b && (a.File() == b.File() || a.Rank() == b.Rank())
}

// PinnedPieces returns the bitboard of c's own pieces that are
// absolutely pinned against c's king.
func (pos *Position) PinnedPieces(c Color) Bitboard {
	var pinned Bitboard
	kingSq := pos.KingSquare[c]
	them := c.Other()
	own := pos.colorBB[c]

	check := func(sliderSq Square) {
		between := Between(kingSq, sliderSq)
		occBetween := between & pos.allOccupied
		if occBetween.PopCount() == 1 && occBetween&own != 0 {
			pinned |= occBetween
		}
	}

	diagSliders := pos.pieces[them][Bishop] | pos.pieces[them][Queen]
	for diagSliders != 0 {
		sq := diagSliders.PopLSB()
		if sameDiagonal(kingSq, sq) {
			check(sq)
		}
	}
	orthoSliders := pos.pieces[them][Rook] | pos.pieces[them][Queen]
	for orthoSliders != 0 {
		sq := orthoSliders.PopLSB()
		if sameLine(kingSq, sq) {
			check(sq)
		}
	}
	return pinned
}

// MakeMove applies m to the position, updating bitboards, mailbox,
// hash, castling rights, en passant state, and the fifty-move counter
// incrementally. m is assumed pseudo-legal; legality is the caller's
// responsibility (see movegen.go).
func (pos *Position) MakeMove(m Move) {
	from, to := m.From(), m.To()
	us := pos.SideToMove
	piece := pos.mailbox[from]

	rec := undoRecord{
		move:           m,
		captured:       NoPiece,
		capturedSquare: NoSquare,
		castlingRights: pos.CastlingRights,
		enPassant:      pos.EnPassant,
		halfmoveClock:  pos.HalfmoveClock,
		hash:           pos.Hash,
	}

	hash := pos.Hash
	if pos.EnPassant != NoSquare {
		hash ^= ZobristEnPassant(pos.EnPassant.File())
	}

	capturedSq := to
	if m.IsEnPassant() {
		if us == White {
			capturedSq = to - 8
		} else {
			capturedSq = to + 8
		}
	}
	if m.IsCapture() {
		captured := pos.mailbox[capturedSq]
		rec.captured = captured
		rec.capturedSquare = capturedSq
		pos.removePiece(captured, capturedSq)
		hash ^= ZobristPiece(captured, capturedSq)
	}

	pos.removePiece(piece, from)
	hash ^= ZobristPiece(piece, from)

	movedPiece := piece
	if m.IsPromotion() {
		movedPiece = NewPiece(m.PromotionPiece(), us)
	}
	pos.setPiece(movedPiece, to)
	hash ^= ZobristPiece(movedPiece, to)

	if m.IsCastle() {
		var rookFrom, rookTo Square
		switch {
		case us == White && m.IsCastleKing():
			rookFrom, rookTo = H1, F1
		case us == White:
			rookFrom, rookTo = A1, D1
		case m.IsCastleKing():
			rookFrom, rookTo = H8, F8
		default:
			rookFrom, rookTo = A8, D8
		}
		rook := pos.mailbox[rookFrom]
		pos.removePiece(rook, rookFrom)
		hash ^= ZobristPiece(rook, rookFrom)
		pos.setPiece(rook, rookTo)
		hash ^= ZobristPiece(rook, rookTo)
	}

	hash ^= ZobristCastling(pos.CastlingRights)
	pos.CastlingRights &^= castlingMask[from] | castlingMask[to]
	hash ^= ZobristCastling(pos.CastlingRights)

	pos.EnPassant = NoSquare
	if m.IsDoublePawnPush() {
		var epSq Square
		if us == White {
			epSq = from + 8
		} else {
			epSq = from - 8
		}
		pos.EnPassant = epSq
		hash ^= ZobristEnPassant(epSq.File())
	}

	if piece.Type() == Pawn || m.IsCapture() {
		pos.HalfmoveClock = 0
	} else {
		pos.HalfmoveClock++
	}

	hash ^= ZobristSideToMove()
	pos.SideToMove = us.Other()
	pos.Hash = hash

	if us == Black {
		pos.FullMoveNumber++
	}

	pos.undoStack = append(pos.undoStack, rec)
	pos.keyHistory = append(pos.keyHistory, hash)
}

// UnmakeMove reverses the most recent MakeMove call.
func (pos *Position) UnmakeMove() {
	n := len(pos.undoStack)
	rec := pos.undoStack[n-1]
	pos.undoStack = pos.undoStack[:n-1]
	pos.keyHistory = pos.keyHistory[:len(pos.keyHistory)-1]

	m := rec.move
	from, to := m.From(), m.To()
	us := pos.SideToMove.Other()

	if us == Black {
		pos.FullMoveNumber--
	}
	pos.SideToMove = us

	movedPiece := pos.mailbox[to]
	origPiece := movedPiece
	if m.IsPromotion() {
		origPiece = NewPiece(Pawn, us)
	}
	pos.removePiece(movedPiece, to)
	pos.setPiece(origPiece, from)

	if m.IsCastle() {
		var rookFrom, rookTo Square
		switch {
		case us == White && m.IsCastleKing():
			rookFrom, rookTo = H1, F1
		case us == White:
			rookFrom, rookTo = A1, D1
		case m.IsCastleKing():
			rookFrom, rookTo = H8, F8
		default:
			rookFrom, rookTo = A8, D8
		}
		rook := pos.mailbox[rookTo]
		pos.removePiece(rook, rookTo)
		pos.setPiece(rook, rookFrom)
	}

	if rec.captured != NoPiece {
		pos.setPiece(rec.captured, rec.capturedSquare)
	}

	pos.CastlingRights = rec.castlingRights
	pos.EnPassant = rec.enPassant
	pos.HalfmoveClock = rec.halfmoveClock
	pos.Hash = rec.hash
}

// MakeNullMove passes the turn without moving a piece, used by null-
// move pruning in the search. Not legal if the side to move is in
// check; callers must guard that themselves.
func (pos *Position) MakeNullMove() {
	pos.nullStack = append(pos.nullStack, nullUndoRecord{
		enPassant:     pos.EnPassant,
		halfmoveClock: pos.HalfmoveClock,
		hash:          pos.Hash,
	})
	hash := pos.Hash
	if pos.EnPassant != NoSquare {
		hash ^= ZobristEnPassant(pos.EnPassant.File())
	}
	pos.EnPassant = NoSquare
	hash ^= ZobristSideToMove()
	pos.SideToMove = pos.SideToMove.Other()
	pos.HalfmoveClock++
	pos.Hash = hash
}

// UnmakeNullMove reverses the most recent MakeNullMove call.
func (pos *Position) UnmakeNullMove() {
	n := len(pos.nullStack)
	rec := pos.nullStack[n-1]
	pos.nullStack = pos.nullStack[:n-1]
	pos.SideToMove = pos.SideToMove.Other()
	pos.EnPassant = rec.enPassant
	pos.HalfmoveClock = rec.halfmoveClock
	pos.Hash = rec.hash
}

// RepetitionCount returns how many times the current position's hash
// has recurred within the reversible-move window bounded by the
// fifty-move counter.
func (pos *Position) RepetitionCount() int {
	count := 0
	key := pos.Hash
	n := len(pos.undoStack)
	limit := pos.HalfmoveClock
	for i := 2; i <= limit && i <= n; i += 2 {
		if pos.undoStack[n-i].hash == key {
			count++
		}
	}
	return count
}

// IsRepetition reports whether the current position's Zobrist key has
// appeared at least once earlier within the reversible-move window.
// The search treats any such recurrence as a draw, following the
// original engine's one-time-repetition rule rather than waiting for a
// third occurrence.
func (pos *Position) IsRepetition() bool {
	return pos.RepetitionCount() >= 1
}

// IsFiftyMoveDraw reports whether the fifty-move rule has been reached.
func (pos *Position) IsFiftyMoveDraw() bool {
	return pos.HalfmoveClock >= 100
}

// IsInsufficientMaterial reports K-vs-K, K-vs-KN, and K-vs-KB endings.
// Other theoretically-drawn-but-not-dead positions (e.g. KBB vs K with
// bishops on the same color) are left for the search to discover.
func (pos *Position) IsInsufficientMaterial() bool {
	heavy := pos.pieces[White][Pawn] | pos.pieces[Black][Pawn] |
		pos.pieces[White][Rook] | pos.pieces[Black][Rook] |
		pos.pieces[White][Queen] | pos.pieces[Black][Queen]
	if heavy != 0 {
		return false
	}
	wMinor := pos.pieces[White][Knight].PopCount() + pos.pieces[White][Bishop].PopCount()
	bMinor := pos.pieces[Black][Knight].PopCount() + pos.pieces[Black][Bishop].PopCount()
	switch {
	case wMinor == 0 && bMinor == 0:
		return true
	case wMinor == 1 && bMinor == 0:
		return true
	case wMinor == 0 && bMinor == 1:
		return true
	default:
		return false
	}
}

// IsDraw reports whether the position is drawn by any of the rules
// this engine recognizes (single-occurrence repetition, fifty-move,
// insufficient material).
func (pos *Position) IsDraw() bool {
	return pos.IsRepetition() || pos.IsFiftyMoveDraw() || pos.IsInsufficientMaterial()
}

// Validate checks the position's internal bitboard/mailbox/cache
// invariants, returning an *InvariantError describing the first one
// found broken. Intended for tests and assertions, not hot paths.
func (pos *Position) Validate() error {
	var all Bitboard
	for c := White; c <= Black; c++ {
		var colorAll Bitboard
		for pt := Pawn; pt <= King; pt++ {
			colorAll |= pos.pieces[c][pt]
		}
		if colorAll != pos.colorBB[c] {
			return &InvariantError{Detail: "color occupancy does not match per-kind bitboards"}
		}
		all |= colorAll
	}
	if all != pos.allOccupied {
		return &InvariantError{Detail: "total occupancy does not match color bitboards"}
	}
	if pos.pieces[White][King].PopCount() != 1 {
		return &InvariantError{Detail: "white does not have exactly one king"}
	}
	if pos.pieces[Black][King].PopCount() != 1 {
		return &InvariantError{Detail: "black does not have exactly one king"}
	}
	if pos.KingSquare[White] != pos.pieces[White][King].LSB() {
		return &InvariantError{Detail: "white king square cache is stale"}
	}
	if pos.KingSquare[Black] != pos.pieces[Black][King].LSB() {
		return &InvariantError{Detail: "black king square cache is stale"}
	}
	for sq := A1; sq <= H8; sq++ {
		p := pos.mailbox[sq]
		if p == NoPiece {
			if pos.allOccupied.IsSet(sq) {
				return &InvariantError{Detail: "mailbox empty but bitboards occupied"}
			}
			continue
		}
		if !pos.pieces[p.Color()][p.Type()].IsSet(sq) {
			return &InvariantError{Detail: "mailbox piece not reflected in bitboards"}
		}
	}
	return nil
}
