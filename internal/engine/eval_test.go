package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arvidsson/corvid/internal/board"
)

func TestEvaluateStartingPositionIsBalanced(t *testing.T) {
	pos := board.NewPosition()
	require.Equal(t, 0, Evaluate(pos))
}

func TestEvaluateFavorsMaterialAdvantage(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/8/8/8/8/R3K3 w - -")
	require.NoError(t, err)
	require.Greater(t, Evaluate(pos), 0)
}

func TestEvaluateIsSideToMoveRelative(t *testing.T) {
	white, err := board.ParseFEN("4k3/8/8/8/8/8/8/R3K3 w - -")
	require.NoError(t, err)
	black, err := board.ParseFEN("4k3/8/8/8/8/8/8/R3K3 b - -")
	require.NoError(t, err)
	require.Equal(t, Evaluate(white), -Evaluate(black))
}

func TestTranspositionTableStoreProbe(t *testing.T) {
	tt := NewTranspositionTable(1024)
	key := uint64(0x1234567890abcdef)
	tt.Store(key, 5, 120, board.NewMove(board.E2, board.E4, board.FlagDoublePush), NodeExact)

	entry, ok := tt.Probe(key)
	require.True(t, ok)
	require.Equal(t, 120, entry.Score)
	require.Equal(t, NodeExact, entry.Type)
}

func TestTranspositionTablePrefersExactOverBound(t *testing.T) {
	tt := NewTranspositionTable(1024)
	key := uint64(0xabc)
	tt.Store(key, 3, 50, board.NoMove, NodeExact)
	tt.Store(key, 10, 999, board.NoMove, NodeLower)

	entry, ok := tt.Probe(key)
	require.True(t, ok)
	require.Equal(t, NodeExact, entry.Type)
	require.Equal(t, 50, entry.Score)
}
