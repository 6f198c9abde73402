package engine

import (
	"time"

	"github.com/arvidsson/corvid/internal/board"
)

// SearchResult is one iterative-deepening report: either a completed
// depth or the partial result of an interrupted one.
type SearchResult struct {
	BestMove board.Move
	Score    int
	Depth    int
	Nodes    uint64
	PV       []board.Move
	Elapsed  time.Duration
}

// Searcher runs a single-threaded iterative-deepening alpha-beta
// search. It owns the transposition table and killer-move slots across
// the lifetime of the engine (per the spec's resource model, the table
// is never cleared between searches).
type Searcher struct {
	tt      *TranspositionTable
	killers killerSlots
	nodes   uint64
	tm      *TimeManager
}

// NewSearcher builds a Searcher backed by tt.
func NewSearcher(tt *TranspositionTable) *Searcher {
	return &Searcher{tt: tt}
}

// Search iterates depth = 1..limits.Depth, reporting each completed (or
// interrupted) iteration to info if non-nil, and returns the last
// result produced. The dispatcher thread must not call Search again
// while a previous call is in flight; see the package's concurrency
// notes in the uci package.
func (s *Searcher) Search(pos *board.Position, limits Limits, info func(SearchResult)) SearchResult {
	s.tm = NewTimeManager(limits)
	s.nodes = 0
	s.killers = killerSlots{}

	var result SearchResult
	for depth := 1; depth <= limits.Depth; depth++ {
		score, move, completed := s.rootSearch(pos, depth)
		if move != board.NoMove {
			result = SearchResult{
				BestMove: move,
				Score:    score,
				Depth:    depth,
				Nodes:    s.nodes,
				PV:       s.reconstructPV(pos, depth),
				Elapsed:  s.tm.Elapsed(),
			}
			if info != nil {
				info(result)
			}
		}
		if !completed {
			break
		}
	}
	return result
}

// Stop requests cancellation of the in-flight search, if any.
func (s *Searcher) Stop() {
	if s.tm != nil {
		s.tm.Stop()
	}
}

// Nodes reports the node count accumulated by the most recent Search call.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

func (s *Searcher) rootSearch(pos *board.Position, depth int) (score int, best board.Move, completed bool) {
	us := pos.SideToMove
	inCheck := pos.InCheck(us)
	moves := board.GenerateMoves(pos)
	if moves.Len() == 0 {
		if inCheck {
			return -MateValue - depth, board.NoMove, true
		}
		return 0, board.NoMove, true
	}

	var hashMove board.Move
	if entry, ok := s.tt.Probe(pos.Hash); ok {
		hashMove = entry.Move
	}
	orderMoves(pos, moves, hashMove, 0, &s.killers)

	alpha, beta := -MaxValue, MaxValue
	alphaOrig := alpha
	bestScore := -MaxValue
	bestMove := moves.Get(0)
	completed = true

	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		pos.MakeMove(m)
		s.nodes++
		var sc int
		if i == 0 {
			sc = -s.negamax(pos, depth-1, -beta, -alpha, true, true, 1)
		} else {
			sc = -s.negamax(pos, depth-1, -alpha-1, -alpha, false, true, 1)
			if sc > alpha && sc < beta {
				sc = -s.negamax(pos, depth-1, -beta, -alpha, true, true, 1)
			}
		}
		pos.UnmakeMove()

		if sc > bestScore {
			bestScore = sc
			bestMove = m
		}
		if sc > alpha {
			alpha = sc
		}

		if i >= moves.Len()/2 && s.tm.ShouldStop() {
			completed = false
			break
		}
	}

	nodeType := classify(bestScore, alphaOrig, beta)
	s.tt.Store(pos.Hash, depth, bestScore, bestMove, nodeType)
	return bestScore, bestMove, completed
}

func classify(score, alphaOrig, beta int) NodeType {
	switch {
	case score <= alphaOrig:
		return NodeUpper
	case score >= beta:
		return NodeLower
	default:
		return NodeExact
	}
}

func sufficientMaterial(pos *board.Position, c board.Color) bool {
	material := pos.PieceBB(c, board.Knight).PopCount()*pieceValues[board.Knight] +
		pos.PieceBB(c, board.Bishop).PopCount()*pieceValues[board.Bishop] +
		pos.PieceBB(c, board.Rook).PopCount()*pieceValues[board.Rook] +
		pos.PieceBB(c, board.Queen).PopCount()*pieceValues[board.Queen]
	return material > 1800
}

// negamax searches pos to depth from the side to move's perspective.
// ply counts plies from the root, used to index killer slots.
func (s *Searcher) negamax(pos *board.Position, depth, alpha, beta int, isPV, nullOkay bool, ply int) int {
	s.nodes++

	if pos.IsDraw() {
		return 0
	}

	alphaOrig := alpha
	key := pos.Hash
	var hashMove board.Move
	if entry, ok := s.tt.Probe(key); ok {
		hashMove = entry.Move
		if entry.Depth >= depth {
			switch entry.Type {
			case NodeExact:
				return entry.Score
			case NodeLower:
				if entry.Score > alpha {
					alpha = entry.Score
				}
			case NodeUpper:
				if entry.Score < beta {
					beta = entry.Score
				}
			}
			if alpha >= beta {
				return entry.Score
			}
		}
	}

	if depth <= 0 {
		return s.quiesce(pos, alpha, beta)
	}

	us := pos.SideToMove
	inCheck := pos.InCheck(us)

	if !isPV && !inCheck && nullOkay && depth > 3 && sufficientMaterial(pos, us) {
		pos.MakeNullMove()
		score := -s.negamax(pos, depth-3, -beta, -beta+1, false, false, ply+1)
		pos.UnmakeNullMove()
		if score >= beta {
			return beta
		}
	}

	moves := board.GenerateMoves(pos)
	if moves.Len() == 0 {
		if inCheck {
			return -MateValue - depth
		}
		return 0
	}

	orderMoves(pos, moves, hashMove, ply, &s.killers)

	bestScore := -MaxValue
	var bestMove board.Move

	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		pos.MakeMove(m)

		reduce := 0
		if i >= 4 && depth >= 3 && m.IsQuiet() && !inCheck && !pos.InCheck(pos.SideToMove) {
			reduce = 1
		}

		var score int
		if i == 0 {
			score = -s.negamax(pos, depth-1, -beta, -alpha, isPV, true, ply+1)
		} else {
			score = -s.negamax(pos, depth-1-reduce, -alpha-1, -alpha, false, true, ply+1)
			if score > alpha && score < beta {
				score = -s.negamax(pos, depth-1, -beta, -alpha, true, true, ply+1)
			}
		}
		pos.UnmakeMove()

		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			if m.IsQuiet() {
				s.killers.add(ply, m)
			}
			break
		}

		if i >= moves.Len()/2 && s.tm.ShouldStop() {
			break
		}
	}

	nodeType := classify(bestScore, alphaOrig, beta)
	s.tt.Store(key, depth, bestScore, bestMove, nodeType)
	return bestScore
}

// quiesce extends the search with captures only, until the position is
// quiet, to avoid the horizon effect at the leaves of the main search.
func (s *Searcher) quiesce(pos *board.Position, alpha, beta int) int {
	s.nodes++

	standPat := Evaluate(pos)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	moves := board.GenerateCaptures(pos)
	orderMoves(pos, moves, board.NoMove, -1, &s.killers)

	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		pos.MakeMove(m)
		score := -s.quiesce(pos, -beta, -alpha)
		pos.UnmakeMove()

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

// reconstructPV walks EXACT hash moves forward from pos, making and
// then unmaking each one, to recover the principal variation the
// transposition table recorded for this search.
func (s *Searcher) reconstructPV(pos *board.Position, maxLen int) []board.Move {
	var pv []board.Move
	made := 0
	for i := 0; i < maxLen; i++ {
		entry, ok := s.tt.Probe(pos.Hash)
		if !ok || entry.Type != NodeExact || entry.Move == board.NoMove {
			break
		}
		if !board.GenerateMoves(pos).Contains(entry.Move) {
			break
		}
		pos.MakeMove(entry.Move)
		pv = append(pv, entry.Move)
		made++
	}
	for i := 0; i < made; i++ {
		pos.UnmakeMove()
	}
	return pv
}
