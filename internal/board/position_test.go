package board

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// playFirstLegalMoves walks a handful of moves deterministically (always the
// first legal move), exercising MakeMove/UnmakeMove and the incremental
// Zobrist hash together.
func playFirstLegalMoves(t *testing.T, pos *Position, n int) []Move {
	t.Helper()
	var played []Move
	for i := 0; i < n; i++ {
		moves := GenerateMoves(pos)
		if moves.Len() == 0 {
			break
		}
		m := moves.Get(0)
		pos.MakeMove(m)
		played = append(played, m)
	}
	return played
}

func TestMakeUnmakeRestoresState(t *testing.T) {
	pos := NewPosition()
	before := *pos
	beforeHash := pos.Hash

	played := playFirstLegalMoves(t, pos, 6)
	for range played {
		pos.UnmakeMove()
	}

	require.Equal(t, beforeHash, pos.Hash)
	require.Equal(t, before.SideToMove, pos.SideToMove)
	require.Equal(t, before.CastlingRights, pos.CastlingRights)
	require.Equal(t, before.EnPassant, pos.EnPassant)
	require.Equal(t, before.allOccupied, pos.allOccupied)
	require.Equal(t, before.mailbox, pos.mailbox)
}

func TestIncrementalHashMatchesFromScratch(t *testing.T) {
	pos := NewPosition()
	playFirstLegalMoves(t, pos, 8)
	require.Equal(t, ComputeHash(pos), pos.Hash)
}

func TestNullMoveRoundTrip(t *testing.T) {
	pos := NewPosition()
	hash := pos.Hash
	side := pos.SideToMove
	pos.MakeNullMove()
	require.NotEqual(t, side, pos.SideToMove)
	pos.UnmakeNullMove()
	require.Equal(t, hash, pos.Hash)
	require.Equal(t, side, pos.SideToMove)
}

func TestCloneIsIndependent(t *testing.T) {
	pos := NewPosition()
	playFirstLegalMoves(t, pos, 2)
	clone := pos.Clone()

	playFirstLegalMoves(t, clone, 2)
	require.NotEqual(t, pos.Hash, clone.Hash)

	clone.UnmakeMove()
	clone.UnmakeMove()
	require.Equal(t, pos.Hash, clone.Hash)
}

func TestInsufficientMaterial(t *testing.T) {
	pos, err := ParseFEN("8/8/8/4k3/8/8/3K4/8 w - -")
	require.NoError(t, err)
	require.True(t, pos.IsInsufficientMaterial())

	pos2, err := ParseFEN("8/8/8/4k3/8/8/3KQ3/8 w - -")
	require.NoError(t, err)
	require.False(t, pos2.IsInsufficientMaterial())
}

func TestIsRepetitionOnSingleRecurrence(t *testing.T) {
	pos := NewPosition()
	require.False(t, pos.IsRepetition())

	pos.MakeMove(NewMove(G1, F3, FlagQuiet))
	pos.MakeMove(NewMove(G8, F6, FlagQuiet))
	require.False(t, pos.IsRepetition())

	pos.MakeMove(NewMove(F3, G1, FlagQuiet))
	pos.MakeMove(NewMove(F6, G8, FlagQuiet))
	require.True(t, pos.IsRepetition(), "starting position recurred once, no third occurrence needed")
}

func TestIsDrawCoversRepetitionFiftyMoveAndMaterial(t *testing.T) {
	pos := NewPosition()
	pos.MakeMove(NewMove(G1, F3, FlagQuiet))
	pos.MakeMove(NewMove(G8, F6, FlagQuiet))
	pos.MakeMove(NewMove(F3, G1, FlagQuiet))
	pos.MakeMove(NewMove(F6, G8, FlagQuiet))
	require.True(t, pos.IsDraw())

	bare, err := ParseFEN("8/8/8/4k3/8/8/3K4/8 w - -")
	require.NoError(t, err)
	require.True(t, bare.IsDraw())
}
