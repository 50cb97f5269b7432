package simplify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pdok/tilepyramid/projected"
)

func TestPoints_straightLine_onlyEndpointsSurvive(t *testing.T) {
	pts := make([]projected.Point, 0, 100)
	for i := 0; i < 100; i++ {
		x := float64(i) / 99
		// tiny alternating offset: a "zigzag" that never strays far from
		// the chord between the endpoints.
		y := 0.0
		if i%2 == 1 {
			y = 1e-12
		}
		pts = append(pts, projected.NewPointAt(x, y))
	}

	maxTolerance := Points(pts)

	// the tile factory always keeps both endpoints and keeps an interior
	// vertex only while its score reaches the tolerance; count what survives
	// a tolerance just above the line's own max.
	kept := 0
	for i, p := range pts {
		if i == 0 || i == len(pts)-1 || p.Z > maxTolerance {
			kept++
		}
	}
	require.Equal(t, 0.0, pts[0].Z)
	require.Equal(t, 0.0, pts[len(pts)-1].Z)
	require.Greater(t, maxTolerance, 0.0)
	require.Equal(t, 2, kept, "above the line's own max tolerance only the endpoints should remain")
}

func TestPoints_emptyInput(t *testing.T) {
	require.Equal(t, 0.0, Points(nil))
}

func TestPoints_twoPoints_noInteriorVertices(t *testing.T) {
	pts := []projected.Point{projected.NewPointAt(0, 0), projected.NewPointAt(1, 1)}
	require.Equal(t, 0.0, Points(pts))
	require.Equal(t, 0.0, pts[0].Z)
	require.Equal(t, 0.0, pts[1].Z)
}

func TestPoints_spike_highImportanceOnOutlier(t *testing.T) {
	pts := []projected.Point{
		projected.NewPointAt(0, 0),
		projected.NewPointAt(0.5, 10), // far off the chord
		projected.NewPointAt(1, 0),
	}
	maxTolerance := Points(pts)
	require.Greater(t, maxTolerance, 0.0)
	require.Equal(t, maxTolerance, pts[1].Z)
}
