package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arvidsson/corvid/internal/board"
)

func newSearcher() *Searcher {
	return NewSearcher(NewTranspositionTable(1000))
}

func TestSearchReturnsLegalMoveFromStart(t *testing.T) {
	pos := board.NewPosition()
	s := newSearcher()
	result := s.Search(pos, Limits{Depth: 4}, nil)

	require.NotEqual(t, board.NoMove, result.BestMove)
	legal := board.GenerateMoves(pos)
	require.True(t, legal.Contains(result.BestMove))
}

func TestSearchFindsMateInOne(t *testing.T) {
	// White to move: Qh5-h7 would be mate against a king boxed in by its
	// own pawns; simpler to use a back-rank mate setup.
	pos, err := board.ParseFEN("6k1/5ppp/8/8/8/8/8/R5K1 w - -")
	require.NoError(t, err)

	s := newSearcher()
	result := s.Search(pos, Limits{Depth: 3}, nil)

	pos.MakeMove(result.BestMove)
	require.True(t, pos.InCheck(board.Black))
	require.Equal(t, 0, board.GenerateMoves(pos).Len())
}

func TestSearchRespectsMoveTime(t *testing.T) {
	pos := board.NewPosition()
	s := newSearcher()
	start := time.Now()
	result := s.Search(pos, Limits{Depth: InfiniteDepth, MoveTime: 100 * time.Millisecond}, nil)
	elapsed := time.Since(start)

	require.NotEqual(t, board.NoMove, result.BestMove)
	require.Less(t, elapsed, 2*time.Second)
}

func TestSearchStalemateReturnsNoMove(t *testing.T) {
	pos, err := board.ParseFEN("k7/2K5/1Q6/8/8/8/8/8 b - -")
	require.NoError(t, err)

	s := newSearcher()
	result := s.Search(pos, Limits{Depth: 2}, nil)
	require.Equal(t, board.NoMove, result.BestMove)
}
