package board

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPerftStartingPosition(t *testing.T) {
	pos := NewPosition()

	cases := []struct {
		depth    int
		expected uint64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
	}

	for _, tc := range cases {
		require.Equal(t, tc.expected, Perft(pos, tc.depth), "depth %d", tc.depth)
	}
}

// TestPerftStartposDepth5 is the exact required assertion from spec
// §8 point 6: startpos at depth 5 must total 4,865,609 nodes. Skipped
// under -short since it walks several million leaves.
func TestPerftStartposDepth5(t *testing.T) {
	if testing.Short() {
		t.Skip("perft depth 5 is slow; run without -short for the full check")
	}
	pos := NewPosition()
	require.Equal(t, uint64(4865609), Perft(pos, 5))
}

func TestPerftKiwipete(t *testing.T) {
	pos, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -")
	require.NoError(t, err)

	cases := []struct {
		depth    int
		expected uint64
	}{
		{1, 48},
		{2, 2039},
		{3, 97862},
	}

	for _, tc := range cases {
		require.Equal(t, tc.expected, Perft(pos, tc.depth), "depth %d", tc.depth)
	}
}

// TestPerftKiwipeteDepth4 is the exact required assertion from spec §8
// point 6: the Kiwipete position at depth 4 must total 4,085,603 nodes.
func TestPerftKiwipeteDepth4(t *testing.T) {
	if testing.Short() {
		t.Skip("perft depth 4 on Kiwipete is slow; run without -short for the full check")
	}
	pos, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)
	require.Equal(t, uint64(4085603), Perft(pos, 4))
}

func TestPerftPosition3(t *testing.T) {
	pos, err := ParseFEN("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -")
	require.NoError(t, err)

	cases := []struct {
		depth    int
		expected uint64
	}{
		{1, 14},
		{2, 191},
		{3, 2812},
		{4, 43238},
	}

	for _, tc := range cases {
		require.Equal(t, tc.expected, Perft(pos, tc.depth), "depth %d", tc.depth)
	}
}

// TestPerftEnPassantStartDepth3 is the exact required assertion from
// spec §8 point 6: one move into the e4 en passant setup, depth 3 must
// total 9,467 nodes.
func TestPerftEnPassantStartDepth3(t *testing.T) {
	pos, err := ParseFEN("rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2")
	require.NoError(t, err)
	require.Equal(t, uint64(9467), Perft(pos, 3))
}

func TestPerftEnPassantPin(t *testing.T) {
	pos, err := ParseFEN("8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")
	require.NoError(t, err)

	moves := GenerateMoves(pos)
	for i := 0; i < moves.Len(); i++ {
		require.False(t, moves.Get(i).IsEnPassant(), "en passant should be illegal under horizontal pin")
	}

	cases := []struct {
		depth    int
		expected uint64
	}{
		{1, 6},
		{2, 94},
	}

	for _, tc := range cases {
		require.Equal(t, tc.expected, Perft(pos, tc.depth), "depth %d", tc.depth)
	}
}
