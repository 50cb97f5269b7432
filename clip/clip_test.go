package clip

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pdok/tilepyramid/projected"
)

func square(minX, minY, maxX, maxY float64) projected.Feature {
	ring := projected.NewLine(
		projected.NewPointAt(minX, minY),
		projected.NewPointAt(maxX, minY),
		projected.NewPointAt(maxX, maxY),
		projected.NewPointAt(minX, maxY),
		projected.NewPointAt(minX, minY),
	)
	return projected.NewFeature(projected.PolygonKind, projected.NewCollection(projected.NewCollection(ring)), nil)
}

func TestClip_fullyOutside_dropsFeature(t *testing.T) {
	f := square(0.9, 0.9, 1.0, 1.0)
	out := Clip([]projected.Feature{f}, 1, 0, 0.5, X)
	require.Empty(t, out)
}

func TestClip_fullyInside_unchanged(t *testing.T) {
	f := square(0.1, 0.1, 0.2, 0.2)
	out := Clip([]projected.Feature{f}, 1, 0, 1, X)
	require.Len(t, out, 1)
	require.Equal(t, f.Geometry, out[0].Geometry)
}

func TestClip_polygon_ringClosedAfterClip(t *testing.T) {
	f := square(0, 0, 1, 1)
	out := Clip([]projected.Feature{f}, 1, 0, 0.5, X)
	require.Len(t, out, 1)
	poly := out[0].Geometry.Members[0]
	ring := poly.Members[0].Points
	require.GreaterOrEqual(t, len(ring), 4)
	first, last := ring[0], ring[len(ring)-1]
	require.Equal(t, first.X, last.X)
	require.Equal(t, first.Y, last.Y)
}

func TestClip_idempotent(t *testing.T) {
	f := square(0, 0, 1, 1)
	once := Clip([]projected.Feature{f}, 1, 0, 0.5, X)
	twice := Clip(once, 1, 0, 0.5, X)
	require.Equal(t, once, twice)
}

func TestClip_degenerateTriangleRing_dropped(t *testing.T) {
	// a sliver that clips down to a single point on the boundary
	ring := projected.NewLine(
		projected.NewPointAt(0.4, 0.0),
		projected.NewPointAt(0.6, 0.0),
		projected.NewPointAt(0.5, 0.001),
		projected.NewPointAt(0.4, 0.0),
	)
	f := projected.NewFeature(projected.PolygonKind, projected.NewCollection(projected.NewCollection(ring)), nil)
	out := Clip([]projected.Feature{f}, 1, 0.55, 1, X)
	require.Empty(t, out)
}

func TestIntersectAt_onBoundary(t *testing.T) {
	a := projected.NewPointAt(0, 0)
	b := projected.NewPointAt(1, 1)
	p := IntersectAt(a, b, 0.5, X)
	require.InDelta(t, 0.5, p.X, 1e-9)
	require.InDelta(t, 0.5, p.Y, 1e-9)
	require.Equal(t, 1.0, p.Z)
}

func TestClip_multiPoint_keepsOnlyInRangePoints(t *testing.T) {
	f := projected.NewFeature(projected.PointKind, projected.NewPoint(
		projected.NewPointAt(0.1, 0.1),
		projected.NewPointAt(0.6, 0.6),
	), nil)
	out := Clip([]projected.Feature{f}, 1, 0, 0.5, X)
	require.Len(t, out, 1)
	require.Len(t, out[0].Geometry.Points, 1)
	require.InDelta(t, 0.1, out[0].Geometry.Points[0].X, 1e-9)
}
