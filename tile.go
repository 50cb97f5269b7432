package tilepyramid

import (
	"math"

	"github.com/pdok/tilepyramid/projected"
)

// TilePoint is a vertex in a tile's local integer coordinate space:
// [-buffer, extent+buffer] on each axis, saturated to int16.
type TilePoint struct {
	X, Y int16
}

// TileRing is a line's or polygon ring's vertex sequence once transformed.
type TileRing []TilePoint

// TileFeature is one feature's contribution to a tile. Before a Tile is
// transformed its geometry lives in rawPoints/rawRings (normalized [0,1]
// space); Points/Rings are populated in place by transform and are only
// meaningful once the owning Tile reports Transformed() == true.
type TileFeature struct {
	Kind       projected.Kind
	Properties map[string]interface{}

	rawPoints []projected.Point
	rawRings  [][]projected.Point

	Points []TilePoint
	Rings  []TileRing
}

// Tile is one cell of the pyramid: a set of features clipped and simplified
// to this zoom level, plus bookkeeping the builder needs to decide whether
// to keep recursing.
type Tile struct {
	Z    uint8
	X, Y uint32
	z2   uint32

	Features []TileFeature

	// source holds the feature set this tile was built from, so GetTile can
	// drill down past it later. It is cleared as soon as the builder commits
	// to recursing through this tile; a non-nil source means "not recursed
	// yet", which accessor.go relies on.
	source []projected.Feature

	NumPoints     int
	NumSimplified int
	NumFeatures   int

	MinX, MinY, MaxX, MaxY float64

	transformed bool
}

// Transformed reports whether t's geometry has been converted to integer
// tile-space coordinates yet.
func (t *Tile) Transformed() bool {
	return t.transformed
}

func (t *Tile) extend(x, y float64) {
	t.MinX = math.Min(t.MinX, x)
	t.MinY = math.Min(t.MinY, y)
	t.MaxX = math.Max(t.MaxX, x)
	t.MaxY = math.Max(t.MaxY, y)
}

// newTile builds a Tile from features already clipped to (z,x,y)'s bounds.
// A line/polygon feature whose MinTolerance is below tolerance is dropped
// outright (every one of its vertices would collapse anyway); a surviving
// line/ring feature keeps only the vertices whose importance score is >=
// tolerance, always keeping both endpoints. Point/MultiPoint features carry
// no importance score and are never dropped by this check. At the max zoom
// every vertex survives regardless of tolerance, since there is no deeper
// level left to simplify for.
func newTile(features []projected.Feature, z2, x, y uint32, tolerance float64, isMaxZoom bool) *Tile {
	t := &Tile{
		Z: zoomOf(z2), X: x, Y: y, z2: z2,
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}

	for _, f := range features {
		if f.Kind != projected.PointKind && tolerance > f.MinTolerance {
			continue
		}
		t.NumFeatures++

		tf := TileFeature{Kind: f.Kind, Properties: f.Properties}
		switch f.Kind {
		case projected.PointKind:
			tf.rawPoints = append(tf.rawPoints, f.Geometry.Points...)
			t.NumPoints += len(f.Geometry.Points)
			t.NumSimplified += len(f.Geometry.Points)
		default:
			projected.WalkLeaves(f.Geometry, func(pts []projected.Point) {
				t.NumPoints += len(pts)
				ring := make([]projected.Point, 0, len(pts))
				for i, p := range pts {
					if isMaxZoom || p.Z >= tolerance || i == 0 || i == len(pts)-1 {
						ring = append(ring, p)
					}
				}
				t.NumSimplified += len(ring)
				tf.rawRings = append(tf.rawRings, ring)
			})
		}

		for _, p := range tf.rawPoints {
			t.extend(p.X, p.Y)
		}
		for _, ring := range tf.rawRings {
			for _, p := range ring {
				t.extend(p.X, p.Y)
			}
		}
		t.Features = append(t.Features, tf)
	}
	return t
}

func zoomOf(z2 uint32) uint8 {
	z := uint8(0)
	for z2 > 1 {
		z2 >>= 1
		z++
	}
	return z
}
