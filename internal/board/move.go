package board

// Move packs a move into 16 bits: bits 0-5 destination square, bits
// 6-11 origin square, bits 12-15 a flag nibble identifying the move's
// special behavior. See the Flag* constants.
type Move uint16

// Flag nibble values. Bit 2 of the nibble (global bit 14) is set iff
// the move is a capture; bit 3 (global bit 15) is set iff it is a
// promotion. Promotion moves carry the promoted piece in the low two
// bits, in the order Knight, Bishop, Rook, Queen.
const (
	FlagQuiet        uint16 = 0
	FlagDoublePush   uint16 = 1
	FlagCastleKing   uint16 = 2
	FlagCastleQueen  uint16 = 3
	FlagCapture      uint16 = 4
	FlagEnPassant    uint16 = 5
	FlagPromoN       uint16 = 8
	FlagPromoB       uint16 = 9
	FlagPromoR       uint16 = 10
	FlagPromoQ       uint16 = 11
	FlagPromoCaptureN uint16 = 12
	FlagPromoCaptureB uint16 = 13
	FlagPromoCaptureR uint16 = 14
	FlagPromoCaptureQ uint16 = 15
)

var promoPieceByIndex = [4]PieceType{Knight, Bishop, Rook, Queen}

// NoMove is the zero value, never produced by generation since from
// never equals to.
const NoMove Move = 0

// NewMove builds a move from origin, destination, and flag.
func NewMove(from, to Square, flag uint16) Move {
	return Move(to) | Move(from)<<6 | Move(flag)<<12
}

// NewPromotion builds a promotion move (quiet or capturing).
func NewPromotion(from, to Square, promo PieceType, capture bool) Move {
	idx := uint16(promo - Knight)
	flag := uint16(8) | idx
	if capture {
		flag |= 4
	}
	return NewMove(from, to, flag)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square(m & 0x3F)
}

// From returns the origin square.
func (m Move) From() Square {
	return Square((m >> 6) & 0x3F)
}

// Flag returns the 4-bit flag nibble.
func (m Move) Flag() uint16 {
	return uint16(m>>12) & 0xF
}

// IsCapture reports whether the move removes an enemy piece, per the
// bit-14-set invariant (captures, en passant, and promotion captures).
func (m Move) IsCapture() bool {
	return m.Flag()&4 != 0
}

// IsPromotion reports whether the move promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.Flag()&8 != 0
}

// IsEnPassant reports whether the move is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Flag() == FlagEnPassant
}

// IsDoublePawnPush reports whether the move is a two-square pawn push.
func (m Move) IsDoublePawnPush() bool {
	return m.Flag() == FlagDoublePush
}

// IsCastleKing reports whether the move is kingside castling.
func (m Move) IsCastleKing() bool {
	return m.Flag() == FlagCastleKing
}

// IsCastleQueen reports whether the move is queenside castling.
func (m Move) IsCastleQueen() bool {
	return m.Flag() == FlagCastleQueen
}

// IsCastle reports whether the move is castling of either side.
func (m Move) IsCastle() bool {
	return m.IsCastleKing() || m.IsCastleQueen()
}

// IsQuiet reports whether the move is neither a capture nor a promotion.
func (m Move) IsQuiet() bool {
	return !m.IsCapture() && !m.IsPromotion()
}

// PromotionPiece returns the promoted piece kind. Only meaningful when
// IsPromotion is true.
func (m Move) PromotionPiece() PieceType {
	return promoPieceByIndex[m.Flag()&3]
}

// String renders UCI long algebraic form, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string("nbrq"[m.Flag()&3])
	}
	return s
}

// ParseMove parses a UCI long-algebraic move string against pos,
// determining the correct flag by consulting the position (the wire
// format itself carries no flag bits).
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, &ParseError{Kind: "move", Input: s}
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, &ParseError{Kind: "move", Input: s}
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, &ParseError{Kind: "move", Input: s}
	}

	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return NoMove, &ParseError{Kind: "move", Input: s}
	}
	pt := piece.Type()
	capture := pos.PieceAt(to) != NoPiece

	if len(s) == 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, &ParseError{Kind: "move", Input: s}
		}
		return NewPromotion(from, to, promo, capture), nil
	}

	if pt == King && abs(int(to)-int(from)) == 2 {
		if to > from {
			return NewMove(from, to, FlagCastleKing), nil
		}
		return NewMove(from, to, FlagCastleQueen), nil
	}
	if pt == Pawn && to == pos.EnPassant && pos.EnPassant != NoSquare {
		return NewMove(from, to, FlagEnPassant), nil
	}
	if pt == Pawn && abs(int(to)-int(from)) == 16 {
		return NewMove(from, to, FlagDoublePush), nil
	}
	if capture {
		return NewMove(from, to, FlagCapture), nil
	}
	return NewMove(from, to, FlagQuiet), nil
}

// MoveList is a fixed-capacity move buffer that avoids per-call
// allocation during generation.
type MoveList struct {
	moves [256]Move
	count int
}

// Add appends m to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves currently stored.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Set overwrites the move at index i.
func (ml *MoveList) Set(i int, m Move) {
	ml.moves[i] = m
}

// Swap exchanges the moves at i and j.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Clear empties the list without releasing its backing array.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains reports whether m appears in the list.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the stored moves as a slice backed by the list.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}
