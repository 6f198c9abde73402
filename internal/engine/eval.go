// Package engine implements static evaluation and alpha-beta search
// over a board.Position.
package engine

import "github.com/arvidsson/corvid/internal/board"

// Search-space bounds.
const (
	MateValue = 25000
	MaxValue  = 50000
)

var pieceValues = [6]int{100, 300, 325, 500, 900, 20000}

// Piece-square tables, midgame and endgame, indexed [PieceType][Square]
// from White's perspective; mirrored vertically for Black via
// (7-rank)*8+file.
var pstMg = [6][64]int{
	// Pawn
	{
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 10, 10, -20, -20, 10, 10, 5,
		5, -5, -10, 0, 0, -10, -5, 5,
		0, 0, 0, 20, 20, 0, 0, 0,
		5, 5, 10, 25, 25, 10, 5, 5,
		10, 10, 20, 30, 30, 20, 10, 10,
		50, 50, 50, 50, 50, 50, 50, 50,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	// Knight
	{
		-50, -40, -30, -30, -30, -30, -40, -50,
		-40, -20, 0, 5, 5, 0, -20, -40,
		-30, 5, 10, 15, 15, 10, 5, -30,
		-30, 0, 15, 20, 20, 15, 0, -30,
		-30, 5, 15, 20, 20, 15, 5, -30,
		-30, 0, 10, 15, 15, 10, 0, -30,
		-40, -20, 0, 0, 0, 0, -20, -40,
		-50, -40, -30, -30, -30, -30, -40, -50,
	},
	// Bishop
	{
		-20, -10, -10, -10, -10, -10, -10, -20,
		-10, 5, 0, 0, 0, 0, 5, -10,
		-10, 10, 10, 10, 10, 10, 10, -10,
		-10, 0, 10, 10, 10, 10, 0, -10,
		-10, 5, 5, 10, 10, 5, 5, -10,
		-10, 0, 5, 10, 10, 5, 0, -10,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	},
	// Rook
	{
		0, 0, 0, 5, 5, 0, 0, 0,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		5, 10, 10, 10, 10, 10, 10, 5,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	// Queen
	{
		-20, -10, -10, -5, -5, -10, -10, -20,
		-10, 0, 5, 0, 0, 0, 0, -10,
		-10, 5, 5, 5, 5, 5, 0, -10,
		0, 0, 5, 5, 5, 5, 0, -5,
		-5, 0, 5, 5, 5, 5, 0, -5,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-20, -10, -10, -5, -5, -10, -10, -20,
	},
	// King (midgame)
	{
		20, 30, 10, 0, 0, 10, 30, 20,
		20, 20, 0, 0, 0, 0, 20, 20,
		-10, -20, -20, -20, -20, -20, -20, -10,
		-20, -30, -30, -40, -40, -30, -30, -20,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
	},
}

var pstEg = [6][64]int{
	// Pawn
	{
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 5, 5, 5, 5, 5, 5, 5,
		10, 10, 10, 10, 10, 10, 10, 10,
		20, 20, 20, 20, 20, 20, 20, 20,
		35, 35, 35, 35, 35, 35, 35, 35,
		55, 55, 55, 55, 55, 55, 55, 55,
		80, 80, 80, 80, 80, 80, 80, 80,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	// Knight (reuse midgame shape; knights taper little)
	pstMg[1],
	// Bishop
	pstMg[2],
	// Rook
	pstMg[3],
	// Queen
	pstMg[4],
	// King (endgame)
	{
		-50, -30, -30, -30, -30, -30, -30, -50,
		-30, -30, 0, 0, 0, 0, -30, -30,
		-30, -10, 20, 30, 30, 20, -10, -30,
		-30, -10, 30, 40, 40, 30, -10, -30,
		-30, -10, 30, 40, 40, 30, -10, -30,
		-30, -10, 20, 30, 30, 20, -10, -30,
		-30, -20, -10, 0, 0, -10, -20, -30,
		-50, -40, -30, -20, -20, -30, -40, -50,
	},
}

func mirror(sq board.Square) board.Square {
	return board.NewSquare(sq.File(), 7-sq.Rank())
}

func pstIndex(sq board.Square, c board.Color) board.Square {
	if c == board.White {
		return sq
	}
	return mirror(sq)
}

// phase returns the game phase on a 0..256 scale that rises as minor
// and major pieces leave the board: the starting position gives 64,
// and kings and pawns alone give 256, which Evaluate weights fully
// toward the endgame tables.
func phase(pos *board.Position) int {
	count := func(c board.Color, pt board.PieceType) int { return pos.PieceBB(c, pt).PopCount() }
	minorsMajors := 0
	for _, c := range [2]board.Color{board.White, board.Black} {
		minorsMajors += count(c, board.Knight) + count(c, board.Bishop) + 2*count(c, board.Rook) + 4*count(c, board.Queen)
	}
	p := 32 - minorsMajors
	if p < 0 {
		p = 0
	}
	return (p*256 + 16) / 32
}

func materialAndPST(pos *board.Position) (mg, eg int) {
	for _, c := range [2]board.Color{board.White, board.Black} {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		for pt := board.Pawn; pt <= board.King; pt++ {
			bb := pos.PieceBB(c, pt)
			for bb != 0 {
				sq := bb.PopLSB()
				idx := pstIndex(sq, c)
				mg += sign * (pieceValues[pt] + pstMg[pt][idx])
				eg += sign * (pieceValues[pt] + pstEg[pt][idx])
			}
		}
	}
	return mg, eg
}

const (
	isolatedPawnPenalty = 12
	backwardPawnPenalty = 15
	doubledPawnPenalty  = 18
)

func fileHasPawn(pawns board.Bitboard, file int) bool {
	return pawns&board.FileMask[file] != 0
}

func pawnStructure(pos *board.Position, c board.Color) int {
	pawns := pos.PieceBB(c, board.Pawn)
	enemyPawns := pos.PieceBB(c.Other(), board.Pawn)
	score := 0

	for file := 0; file < 8; file++ {
		onFile := pawns & board.FileMask[file]
		n := onFile.PopCount()
		if n == 0 {
			continue
		}
		if n > 1 {
			score -= doubledPawnPenalty * (n - 1)
		}
		leftAdj := file > 0 && fileHasPawn(pawns, file-1)
		rightAdj := file < 7 && fileHasPawn(pawns, file+1)
		if !leftAdj && !rightAdj {
			score -= isolatedPawnPenalty * n
		}
	}

	rem := pawns
	for rem != 0 {
		sq := rem.PopLSB()
		if isBackward(pos, c, sq, pawns, enemyPawns) {
			score -= backwardPawnPenalty
		}
	}
	return score
}

// isBackward reports whether the pawn on sq has no support on adjacent
// files in its own back span and its stop square is covered by an
// enemy pawn.
func isBackward(pos *board.Position, c board.Color, sq board.Square, ownPawns, enemyPawns board.Bitboard) bool {
	file, rank := sq.File(), sq.Rank()
	var stop board.Square
	if c == board.White {
		if rank == 7 {
			return false
		}
		stop = board.NewSquare(file, rank+1)
	} else {
		if rank == 0 {
			return false
		}
		stop = board.NewSquare(file, rank-1)
	}
	if board.PawnAttacks(stop, c)&enemyPawns == 0 {
		return false
	}
	for _, adjFile := range [2]int{file - 1, file + 1} {
		if adjFile < 0 || adjFile > 7 {
			continue
		}
		adjPawns := ownPawns & board.FileMask[adjFile]
		for adjPawns != 0 {
			adjSq := adjPawns.PopLSB()
			if c == board.White && adjSq.Rank() <= rank {
				return false
			}
			if c == board.Black && adjSq.Rank() >= rank {
				return false
			}
		}
	}
	return true
}

var passedRank = [8]int{0, 10, 20, 40, 70, 120, 200, 0}

func isPassed(c board.Color, sq board.Square, enemyPawns board.Bitboard) bool {
	file, rank := sq.File(), sq.Rank()
	for f := file - 1; f <= file+1; f++ {
		if f < 0 || f > 7 {
			continue
		}
		onFile := enemyPawns & board.FileMask[f]
		for onFile != 0 {
			s := onFile.PopLSB()
			if c == board.White && s.Rank() > rank {
				return false
			}
			if c == board.Black && s.Rank() < rank {
				return false
			}
		}
	}
	return true
}

func passedPawns(pos *board.Position, c board.Color) int {
	pawns := pos.PieceBB(c, board.Pawn)
	enemyPawns := pos.PieceBB(c.Other(), board.Pawn)
	rooksQueens := pos.PieceBB(c, board.Rook) | pos.PieceBB(c, board.Queen)
	enemyRooksQueens := pos.PieceBB(c.Other(), board.Rook) | pos.PieceBB(c.Other(), board.Queen)
	enemyOccupied := pos.Occupied(c.Other())

	score := 0
	rem := pawns
	for rem != 0 {
		sq := rem.PopLSB()
		if !isPassed(c, sq, enemyPawns) {
			continue
		}
		file, rank := sq.File(), sq.Rank()
		mrank := rank
		if c == board.Black {
			mrank = 7 - rank
		}
		bonus := passedRank[mrank]
		edgeDist := file + 1
		if 8-file < edgeDist {
			edgeDist = 8 - file
		}
		bonus += edgeDist

		var behind board.Bitboard
		if c == board.White {
			behind = board.FileMask[file] & (board.Bitboard(1)<<uint(sq) - 1)
		} else {
			behind = board.FileMask[file] &^ (board.Bitboard(2)<<uint(sq) - 1)
		}
		if behind&rooksQueens != 0 {
			bonus += bonus * 17 / 100
		} else if behind&enemyRooksQueens != 0 {
			bonus -= bonus * 17 / 100
		}

		var ahead board.Bitboard
		if c == board.White {
			ahead = board.FileMask[file] &^ (board.Bitboard(2)<<uint(sq) - 1)
		} else {
			ahead = board.FileMask[file] & (board.Bitboard(1)<<uint(sq) - 1)
		}
		enemyOnPath := (ahead & enemyOccupied).PopCount()
		bonus -= 5 * enemyOnPath

		score += bonus
	}
	return score
}

// mobilityTable maps attacked-square counts to a centipawn bonus, one
// table per piece kind (knight, bishop, rook, queen); sizes follow the
// maximum attack count each kind can reach on an empty board.
var mobilityTable = [4][]int{
	{-75, -57, -9, -2, 6, 14, 22, 29, 36},
	{-48, -20, 16, 26, 38, 51, 55, 63, 63, 68, 81, 81, 91, 98},
	{-58, -27, -15, -10, -5, -2, 9, 16, 30, 29, 32, 38, 46, 48, 58},
	{-39, -21, 3, 3, 14, 22, 28, 41, 43, 48, 56, 60, 60, 66, 67, 70, 71, 73, 79, 88, 88, 99, 102, 102, 106, 109, 113, 116},
}

func clampIndex(i, size int) int {
	if i < 0 {
		return 0
	}
	if i >= size {
		return size - 1
	}
	return i
}

func mobility(pos *board.Position, c board.Color) int {
	own := pos.Occupied(c)
	ownPawns := pos.PieceBB(c, board.Pawn)
	enemyPawnAttacks := enemyPawnAttackSet(pos, c.Other())
	occ := pos.AllOccupied()
	score := 0

	add := func(kindIdx int, attacks board.Bitboard) {
		n := (attacks &^ own &^ ownPawns &^ enemyPawnAttacks).PopCount()
		table := mobilityTable[kindIdx]
		score += table[clampIndex(n, len(table))]
	}

	knights := pos.PieceBB(c, board.Knight)
	for knights != 0 {
		add(0, board.KnightAttacks(knights.PopLSB()))
	}
	bishops := pos.PieceBB(c, board.Bishop)
	for bishops != 0 {
		add(1, board.BishopAttacks(bishops.PopLSB(), occ))
	}
	rooks := pos.PieceBB(c, board.Rook)
	for rooks != 0 {
		add(2, board.RookAttacks(rooks.PopLSB(), occ))
	}
	queens := pos.PieceBB(c, board.Queen)
	for queens != 0 {
		add(3, board.QueenAttacks(queens.PopLSB(), occ))
	}
	return score
}

func enemyPawnAttackSet(pos *board.Position, c board.Color) board.Bitboard {
	var set board.Bitboard
	pawns := pos.PieceBB(c, board.Pawn)
	for pawns != 0 {
		set |= board.PawnAttacks(pawns.PopLSB(), c)
	}
	return set
}

// safetyTable maps king-zone attack units (clamped 0..99) to a
// centipawn penalty subtracted from that side's score. Values are the
// widely-used chess-programming-wiki king-safety curve.
var safetyTable = [100]int{
	0, 0, 1, 2, 3, 5, 7, 9, 12, 15,
	18, 22, 26, 30, 35, 39, 44, 50, 56, 62,
	68, 75, 82, 85, 89, 97, 105, 113, 122, 131,
	140, 150, 169, 180, 191, 202, 213, 225, 237, 248,
	260, 272, 283, 295, 307, 319, 330, 342, 354, 366,
	377, 389, 401, 412, 424, 436, 448, 459, 471, 483,
	494, 500, 500, 500, 500, 500, 500, 500, 500, 500,
	500, 500, 500, 500, 500, 500, 500, 500, 500, 500,
	500, 500, 500, 500, 500, 500, 500, 500, 500, 500,
	500, 500, 500, 500, 500, 500, 500, 500, 500, 500,
}

const (
	attackWeightMinor = 2
	attackWeightRook  = 3
	attackWeightQueen = 5
)

func kingSafety(pos *board.Position, c board.Color) int {
	kingSq := pos.PieceBB(c, board.King).LSB()
	if kingSq == board.NoSquare {
		return 0
	}
	zone := board.KingAttacks(kingSq)
	if c == board.White {
		zone |= zone.North()
	} else {
		zone |= zone.South()
	}

	them := c.Other()
	units := 0
	z := zone
	for z != 0 {
		sq := z.PopLSB()
		attackers := pos.AttackersTo(sq, pos.AllOccupied()) & pos.Occupied(them)
		for attackers != 0 {
			a := attackers.PopLSB()
			switch pos.PieceAt(a).Type() {
			case board.Knight, board.Bishop:
				units += attackWeightMinor
			case board.Rook:
				units += attackWeightRook
			case board.Queen:
				units += attackWeightQueen
			}
		}
	}
	return safetyTable[clampIndex(units, len(safetyTable))]
}

// Evaluate returns a centipawn score from the side-to-move's
// perspective: positive means the side to move stands better.
func Evaluate(pos *board.Position) int {
	mg, eg := materialAndPST(pos)

	pawnScore := pawnStructure(pos, board.White) - pawnStructure(pos, board.Black)
	passedScore := passedPawns(pos, board.White) - passedPawns(pos, board.Black)
	mobilityScore := mobility(pos, board.White) - mobility(pos, board.Black)
	safetyScore := kingSafety(pos, board.Black) - kingSafety(pos, board.White)

	mg += pawnScore + passedScore + mobilityScore + safetyScore
	eg += pawnScore + passedScore + mobilityScore + safetyScore

	ph := phase(pos)
	score := (mg*(256-ph) + eg*ph) / 256

	if pos.SideToMove == board.Black {
		return -score
	}
	return score
}
