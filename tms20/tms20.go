// Package tms20 packs and unpacks the (zoom, x, y) tile coordinates used to
// address a pyramid. The teacher's original tms20 implemented the full OGC
// Tile Matrix Set v2.0 standard, including irregular, non-doubling matrices
// loaded from embedded JSON; a pyramid built by this module always uses a
// strict power-of-two quadtree, so only the id packing survives here.
package tms20

import (
	"github.com/pdok/tilepyramid/mathhelp"
	"github.com/pdok/tilepyramid/morton"
)

// MaxZoom bounds z so that EncodeID's packed id always fits in 64 bits: the
// worst case is ((2^24)*(2^24-1)+2^24-1)*32+24, well under 2^64.
const MaxZoom uint8 = 24

// EncodeID packs (z, x, y) into a single ordering key:
// id(z,x,y) = ((2^z)*y + x)*32 + z
func EncodeID(z uint8, x, y uint32) uint64 {
	z2 := uint64(mathhelp.Pow2(uint(z)))
	return (z2*uint64(y)+uint64(x))*32 + uint64(z)
}

// DecodeID inverts EncodeID.
func DecodeID(id uint64) (z uint8, x, y uint32) {
	z = uint8(id % 32)
	rest := id / 32
	z2 := uint64(mathhelp.Pow2(uint(z)))
	x = uint32(rest % z2)
	y = uint32(rest / z2)
	return z, x, y
}

// Valid reports whether (z, x, y) addresses a tile that can exist in a
// pyramid built up to maxZoom.
func Valid(z uint8, x, y uint32, maxZoom uint8) bool {
	if z > maxZoom || z > MaxZoom {
		return false
	}
	z2 := int64(mathhelp.Pow2(uint(z)))
	return mathhelp.BetweenInc(int64(x), 0, z2-1) && mathhelp.BetweenInc(int64(y), 0, z2-1)
}

// MortonKey reorders (x, y) at a fixed zoom into a Z-order curve position.
// processing.writeTiles uses it to write same-zoom tiles to a GeoPackage
// target in a spatially coherent order rather than in raw arrival order.
func MortonKey(x, y uint32) uint64 {
	return uint64(morton.MustToZ(uint(x), uint(y)))
}
