package tms20

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeID_roundTrip(t *testing.T) {
	cases := []struct {
		z uint8
		x, y uint32
	}{
		{0, 0, 0},
		{1, 0, 0},
		{1, 1, 1},
		{14, 8192, 5000},
		{24, 1<<24 - 1, 1<<24 - 1},
	}
	for _, c := range cases {
		id := EncodeID(c.z, c.x, c.y)
		gotZ, gotX, gotY := DecodeID(id)
		require.Equal(t, c.z, gotZ)
		require.Equal(t, c.x, gotX)
		require.Equal(t, c.y, gotY)
	}
}

func TestEncodeID_matchesFormula(t *testing.T) {
	// id(z,x,y) = ((2^z)*y + x)*32 + z
	require.Equal(t, uint64(0), EncodeID(0, 0, 0))
	require.Equal(t, uint64(((1<<3)*2+5)*32+3), EncodeID(3, 5, 2))
}

func TestEncodeID_ordersByPositionThenZoom(t *testing.T) {
	require.Less(t, EncodeID(0, 0, 0), EncodeID(1, 0, 0))
	require.Less(t, EncodeID(2, 0, 0), EncodeID(2, 1, 0))
	require.Less(t, EncodeID(2, 3, 0), EncodeID(2, 0, 1))
}

func TestValid(t *testing.T) {
	require.True(t, Valid(0, 0, 0, 14))
	require.True(t, Valid(14, 16383, 16383, 14))
	require.False(t, Valid(14, 16384, 0, 14))
	require.False(t, Valid(15, 0, 0, 14))
	require.False(t, Valid(25, 0, 0, 30))
}

func TestMortonKey_isDeterministicAndDistinct(t *testing.T) {
	require.Equal(t, MortonKey(3, 5), MortonKey(3, 5))
	require.NotEqual(t, MortonKey(3, 5), MortonKey(5, 3))
}
