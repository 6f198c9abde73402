package board

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCastleLegalWhenUnopposed(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/8/8/8/8/4K2R w K -")
	require.NoError(t, err)
	moves := GenerateMoves(pos)
	found := false
	for i := 0; i < moves.Len(); i++ {
		if moves.Get(i).IsCastleKing() {
			found = true
		}
	}
	require.True(t, found, "castling kingside should be available with nothing in the way")
}

func TestCastleThroughCheckIllegal(t *testing.T) {
	// Black rook on f2 attacks f1, the square the king must pass through
	// to castle kingside.
	pos, err := ParseFEN("4k2r/8/8/8/8/8/5r2/4K2R w K -")
	require.NoError(t, err)
	moves := GenerateMoves(pos)
	for i := 0; i < moves.Len(); i++ {
		require.False(t, moves.Get(i).IsCastleKing(), "castling through an attacked square must be illegal")
	}
}

func TestDoubleCheckOnlyKingMoves(t *testing.T) {
	// Black king on e8 attacked simultaneously by the rook on e1 (along
	// the file) and the bishop on h5 (along the diagonal).
	pos, err := ParseFEN("4k3/8/8/7B/8/8/8/K3R3 b - -")
	require.NoError(t, err)
	require.True(t, pos.InCheck(Black))

	moves := GenerateMoves(pos)
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		piece := pos.PieceAt(m.From())
		require.Equal(t, King, piece.Type(), "only king moves are legal under double check")
	}
}

func TestPinnedPieceCannotMoveOffLine(t *testing.T) {
	// White king on e1, white rook on e4 pinned by the black rook on e8.
	pos, err := ParseFEN("4r3/8/8/8/4R3/8/8/4K3 w - -")
	require.NoError(t, err)

	moves := GenerateMoves(pos)
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.From() == E4 {
			require.Equal(t, 4, m.To().File(), "pinned rook may only move along the e-file")
		}
	}
}

func TestStalemateHasNoLegalMoves(t *testing.T) {
	// Classic stalemate: Black king a8, White king c7 and queen b6.
	pos, err := ParseFEN("k7/2K5/1Q6/8/8/8/8/8 b - -")
	require.NoError(t, err)
	require.False(t, pos.InCheck(Black))
	require.Equal(t, 0, GenerateMoves(pos).Len())
}
