package board

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMoveEncodingRoundTrip(t *testing.T) {
	m := NewMove(E2, E4, FlagDoublePush)
	require.Equal(t, E2, m.From())
	require.Equal(t, E4, m.To())
	require.True(t, m.IsDoublePawnPush())
	require.False(t, m.IsCapture())
	require.False(t, m.IsPromotion())
	require.Equal(t, "e2e4", m.String())
}

func TestMovePromotionCapture(t *testing.T) {
	m := NewPromotion(B7, A8, Queen, true)
	require.True(t, m.IsCapture())
	require.True(t, m.IsPromotion())
	require.Equal(t, Queen, m.PromotionPiece())
	require.Equal(t, "b7a8q", m.String())
}

func TestMoveFlagInvariants(t *testing.T) {
	// bit 14 set implies capture, bit 15 set implies promotion, per spec.
	capture := NewMove(D5, E6, FlagCapture)
	require.True(t, capture.IsCapture())
	require.False(t, capture.IsPromotion())

	promo := NewPromotion(G7, G8, Knight, false)
	require.True(t, promo.IsPromotion())
	require.False(t, promo.IsCapture())
}

func TestParseMoveCastling(t *testing.T) {
	pos := NewPosition()
	pos.MakeMove(NewMove(E2, E4, FlagDoublePush))
	pos.MakeMove(NewMove(E7, E5, FlagDoublePush))
	pos.MakeMove(NewMove(F1, C4, FlagQuiet))
	pos.MakeMove(NewMove(F8, C5, FlagQuiet))
	pos.MakeMove(NewMove(G1, F3, FlagQuiet))
	pos.MakeMove(NewMove(G8, F6, FlagQuiet))

	m, err := ParseMove("e1g1", pos)
	require.NoError(t, err)
	require.True(t, m.IsCastleKing())
}
