package engine

import "github.com/arvidsson/corvid/internal/board"

// Move ordering scores: a hash move tried first, then captures by
// MVV-LVA, then killer quiets, then everything else. All moves are
// scored once per node and sorted descending before the move loop.
const (
	hashMoveScore = 100000
	killer1Score  = 50
	killer2Score  = 49
)

// killerSlots holds two killer moves per ply, reused across the whole
// search (indexed directly by ply depth from the root).
type killerSlots struct {
	moves [maxPly][2]board.Move
}

const maxPly = 128

func (k *killerSlots) add(ply int, m board.Move) {
	if ply < 0 || ply >= maxPly {
		return
	}
	if k.moves[ply][0] == m {
		return
	}
	k.moves[ply][1] = k.moves[ply][0]
	k.moves[ply][0] = m
}

func (k *killerSlots) isKiller1(ply int, m board.Move) bool {
	return ply >= 0 && ply < maxPly && k.moves[ply][0] == m
}

func (k *killerSlots) isKiller2(ply int, m board.Move) bool {
	return ply >= 0 && ply < maxPly && k.moves[ply][1] == m
}

func mvvLva(pos *board.Position, m board.Move) int {
	victim := pos.PieceAt(m.To())
	if m.IsEnPassant() {
		return pieceValues[board.Pawn] - pieceValues[pos.PieceAt(m.From()).Type()]
	}
	attacker := pos.PieceAt(m.From())
	return pieceValues[victim.Type()] - pieceValues[attacker.Type()]
}

func scoreMove(pos *board.Position, m board.Move, hashMove board.Move, ply int, killers *killerSlots) int {
	if m == hashMove {
		return hashMoveScore
	}
	if m.IsCapture() {
		return mvvLva(pos, m)
	}
	if killers.isKiller1(ply, m) {
		return killer1Score
	}
	if killers.isKiller2(ply, m) {
		return killer2Score
	}
	return 0
}

// orderMoves scores every move in list and sorts it descending by
// score using a simple insertion sort, which is fast for the small
// move counts typical at a single node.
func orderMoves(pos *board.Position, list *board.MoveList, hashMove board.Move, ply int, killers *killerSlots) {
	n := list.Len()
	scores := make([]int, n)
	for i := 0; i < n; i++ {
		scores[i] = scoreMove(pos, list.Get(i), hashMove, ply, killers)
	}
	for i := 1; i < n; i++ {
		s := scores[i]
		m := list.Get(i)
		j := i - 1
		for j >= 0 && scores[j] < s {
			scores[j+1] = scores[j]
			list.Set(j+1, list.Get(j))
			j--
		}
		scores[j+1] = s
		list.Set(j+1, m)
	}
}
