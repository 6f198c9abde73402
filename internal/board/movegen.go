package board

// Move generation proceeds in two passes. Pseudo-legal generation
// walks each piece kind's attack tables against the current occupancy
// without regard to the side's own king safety; a separate legality
// filter then removes moves that would leave or put that king in
// check. When the side to move is already in check, a dedicated
// evasion generator is used instead, since most of the board's pieces
// cannot possibly address the check and testing them is wasted work.

func (pos *Position) isSquareAttackedOcc(sq Square, by Color, occ Bitboard) bool {
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

// IsLegal reports whether pseudo-legal move m keeps the moving side's
// king safe. pinned is the mover's PinnedPieces bitboard, computed once
// per generation call rather than per move.
func (pos *Position) IsLegal(m Move, pinned Bitboard) bool {
	us := pos.SideToMove
	king := pos.KingSquare[us]
	from := m.From()

	if m.IsEnPassant() {
		pos.MakeMove(m)
		legal := !pos.isSquareAttackedOcc(king, pos.SideToMove, pos.allOccupied)
		pos.UnmakeMove()
		return legal
	}

	if from == king {
		occWithoutKing := pos.allOccupied &^ SquareBB(king)
		return !pos.isSquareAttackedOcc(m.To(), us.Other(), occWithoutKing)
	}

	if pinned.IsSet(from) {
		return Line(king, from).IsSet(m.To())
	}
	return true
}

func addPawnMoves(list *MoveList, from, to Square, capture bool, lastRank Bitboard) {
	if lastRank.IsSet(to) {
		flag := uint16(8)
		if capture {
			flag |= 4
		}
		list.Add(NewMove(from, to, flag|3)) // queen
		list.Add(NewMove(from, to, flag|2)) // rook
		list.Add(NewMove(from, to, flag|1)) // bishop
		list.Add(NewMove(from, to, flag|0)) // knight
		return
	}
	if capture {
		list.Add(NewMove(from, to, FlagCapture))
	} else {
		list.Add(NewMove(from, to, FlagQuiet))
	}
}

func generatePawnMoves(pos *Position, us Color, list *MoveList) {
	pawns := pos.pieces[us][Pawn]
	empty := ^pos.allOccupied
	enemy := pos.colorBB[us.Other()]

	var lastRank Bitboard
	var startRank Bitboard
	if us == White {
		lastRank, startRank = Rank8, Rank2
	} else {
		lastRank, startRank = Rank1, Rank7
	}

	rem := pawns
	for rem != 0 {
		from := rem.PopLSB()
		single := PawnPush(from, us) & empty
		if single != 0 {
			to := single.LSB()
			addPawnMoves(list, from, to, false, lastRank)
			if startRank.IsSet(from) {
				double := PawnPush(to, us) & empty
				if double != 0 {
					list.Add(NewMove(from, double.LSB(), FlagDoublePush))
				}
			}
		}
		captures := PawnAttacks(from, us) & enemy
		for captures != 0 {
			to := captures.PopLSB()
			addPawnMoves(list, from, to, true, lastRank)
		}
		if pos.EnPassant != NoSquare && PawnAttacks(from, us).IsSet(pos.EnPassant) {
			list.Add(NewMove(from, pos.EnPassant, FlagEnPassant))
		}
	}
}

func generatePieceMoves(targets Bitboard, from Square, own Bitboard, list *MoveList, enemy Bitboard) {
	moves := targets &^ own
	for moves != 0 {
		to := moves.PopLSB()
		if enemy.IsSet(to) {
			list.Add(NewMove(from, to, FlagCapture))
		} else {
			list.Add(NewMove(from, to, FlagQuiet))
		}
	}
}

func generateKnightMoves(pos *Position, us Color, list *MoveList) {
	own, enemy := pos.colorBB[us], pos.colorBB[us.Other()]
	knights := pos.pieces[us][Knight]
	for knights != 0 {
		from := knights.PopLSB()
		generatePieceMoves(KnightAttacks(from), from, own, list, enemy)
	}
}

func generateBishopMoves(pos *Position, us Color, list *MoveList) {
	own, enemy := pos.colorBB[us], pos.colorBB[us.Other()]
	bishops := pos.pieces[us][Bishop]
	for bishops != 0 {
		from := bishops.PopLSB()
		generatePieceMoves(BishopAttacks(from, pos.allOccupied), from, own, list, enemy)
	}
}

func generateRookMoves(pos *Position, us Color, list *MoveList) {
	own, enemy := pos.colorBB[us], pos.colorBB[us.Other()]
	rooks := pos.pieces[us][Rook]
	for rooks != 0 {
		from := rooks.PopLSB()
		generatePieceMoves(RookAttacks(from, pos.allOccupied), from, own, list, enemy)
	}
}

func generateQueenMoves(pos *Position, us Color, list *MoveList) {
	own, enemy := pos.colorBB[us], pos.colorBB[us.Other()]
	queens := pos.pieces[us][Queen]
	for queens != 0 {
		from := queens.PopLSB()
		generatePieceMoves(QueenAttacks(from, pos.allOccupied), from, own, list, enemy)
	}
}

func generateKingMoves(pos *Position, us Color, list *MoveList) {
	own, enemy := pos.colorBB[us], pos.colorBB[us.Other()]
	from := pos.KingSquare[us]
	generatePieceMoves(KingAttacks(from), from, own, list, enemy)
}

func generateCastling(pos *Position, us Color, list *MoveList) {
	them := us.Other()
	if pos.InCheck(us) {
		return
	}
	occ := pos.allOccupied

	if us == White {
		if pos.CanCastleKingside(White) &&
			!occ.IsSet(F1) && !occ.IsSet(G1) &&
			!pos.IsSquareAttacked(F1, them) && !pos.IsSquareAttacked(G1, them) {
			list.Add(NewMove(E1, G1, FlagCastleKing))
		}
		if pos.CanCastleQueenside(White) &&
			!occ.IsSet(D1) && !occ.IsSet(C1) && !occ.IsSet(B1) &&
			!pos.IsSquareAttacked(D1, them) && !pos.IsSquareAttacked(C1, them) {
			list.Add(NewMove(E1, C1, FlagCastleQueen))
		}
		return
	}
	if pos.CanCastleKingside(Black) &&
		!occ.IsSet(F8) && !occ.IsSet(G8) &&
		!pos.IsSquareAttacked(F8, them) && !pos.IsSquareAttacked(G8, them) {
		list.Add(NewMove(E8, G8, FlagCastleKing))
	}
	if pos.CanCastleQueenside(Black) &&
		!occ.IsSet(D8) && !occ.IsSet(C8) && !occ.IsSet(B8) &&
		!pos.IsSquareAttacked(D8, them) && !pos.IsSquareAttacked(C8, them) {
		list.Add(NewMove(E8, C8, FlagCastleQueen))
	}
}

// generatePseudoLegal fills list with every pseudo-legal move for the
// side to move, including castling (which is generated already safe).
func generatePseudoLegal(pos *Position, list *MoveList) {
	us := pos.SideToMove
	generatePawnMoves(pos, us, list)
	generateKnightMoves(pos, us, list)
	generateBishopMoves(pos, us, list)
	generateRookMoves(pos, us, list)
	generateQueenMoves(pos, us, list)
	generateKingMoves(pos, us, list)
	generateCastling(pos, us, list)
}

// evasionTargetSquare returns the square a move must land on, in
// checker-mask terms: for en passant this is the captured pawn's
// square, not the destination square.
func evasionTargetSquare(m Move, us Color) Square {
	if m.IsEnPassant() {
		if us == White {
			return m.To() - 8
		}
		return m.To() + 8
	}
	return m.To()
}

// generateEvasions fills list with legal responses to check: if in
// double check, only king moves can help; otherwise moves must
// capture the checking piece or block the ray between it and the king.
func generateEvasions(pos *Position, list *MoveList) {
	us := pos.SideToMove
	king := pos.KingSquare[us]
	checkers := pos.Checkers(us)

	var kingMoves MoveList
	generateKingMoves(pos, us, &kingMoves)
	for i := 0; i < kingMoves.Len(); i++ {
		m := kingMoves.Get(i)
		if pos.IsLegal(m, Empty) {
			list.Add(m)
		}
	}

	if checkers.PopCount() >= 2 {
		return
	}

	checkerSq := checkers.LSB()
	blockMask := Between(king, checkerSq)
	targetMask := SquareBB(checkerSq) | blockMask
	pinned := pos.PinnedPieces(us)

	var pseudo MoveList
	generatePawnMoves(pos, us, &pseudo)
	generateKnightMoves(pos, us, &pseudo)
	generateBishopMoves(pos, us, &pseudo)
	generateRookMoves(pos, us, &pseudo)
	generateQueenMoves(pos, us, &pseudo)

	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Get(i)
		var onTarget bool
		if m.IsEnPassant() {
			onTarget = evasionTargetSquare(m, us) == checkerSq
		} else {
			onTarget = targetMask.IsSet(m.To())
		}
		if !onTarget {
			continue
		}
		if !pos.IsLegal(m, pinned) {
			continue
		}
		list.Add(m)
	}
}

// GenerateMoves returns every fully legal move available to the side
// to move.
func GenerateMoves(pos *Position) *MoveList {
	list := &MoveList{}
	us := pos.SideToMove
	if pos.InCheck(us) {
		generateEvasions(pos, list)
		return list
	}

	var pseudo MoveList
	generatePseudoLegal(pos, &pseudo)
	pinned := pos.PinnedPieces(us)
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Get(i)
		if m.IsCastle() {
			list.Add(m) // already verified safe during generation
			continue
		}
		if pos.IsLegal(m, pinned) {
			list.Add(m)
		}
	}
	return list
}

// GenerateCaptures returns legal captures and queen promotions, the
// move subset explored by quiescence search. When the side to move is
// in check it falls back to full evasions, since every legal response
// to check must be considered regardless of whether it captures.
func GenerateCaptures(pos *Position) *MoveList {
	us := pos.SideToMove
	if pos.InCheck(us) {
		return GenerateMoves(pos)
	}

	list := &MoveList{}
	var pseudo MoveList
	generatePseudoLegal(pos, &pseudo)
	pinned := pos.PinnedPieces(us)
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Get(i)
		if m.IsCastle() {
			continue
		}
		if !m.IsCapture() && !(m.IsPromotion() && m.PromotionPiece() == Queen) {
			continue
		}
		if pos.IsLegal(m, pinned) {
			list.Add(m)
		}
	}
	return list
}
