package tilepyramid_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	tilepyramid "github.com/pdok/tilepyramid"
	"github.com/pdok/tilepyramid/geojson"
	"github.com/pdok/tilepyramid/projected"
)

func convert(t *testing.T, doc string, maxZoom uint8) []projected.Feature {
	t.Helper()
	fs, err := geojson.ConvertFeatures(strings.NewReader(doc), maxZoom, 3)
	require.NoError(t, err)
	return fs
}

func TestNew_singlePoint_rootTileHoldsIt(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[0.5,0.5]},"properties":{}}
	]}`
	fs := convert(t, doc, 4)
	p := tilepyramid.New(fs, 4)

	root := p.GetTile(0, 0, 0)
	require.Equal(t, 1, root.NumFeatures)
}

func TestNew_malformedSource_emptyPyramid(t *testing.T) {
	fs := convert(t, "{not json", 4)
	require.Empty(t, fs)

	p := tilepyramid.New(fs, 4)
	root := p.GetTile(0, 0, 0)
	require.Equal(t, 0, root.NumFeatures)
}

func TestGetTile_outOfRange_returnsEmptySentinel(t *testing.T) {
	p := tilepyramid.New(nil, 4)
	tile := p.GetTile(30, 0, 0)
	require.Equal(t, 0, tile.NumFeatures)
	require.True(t, tile.Transformed())
}

func TestGetTile_drillDown_beyondIndexMaxZoom(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[0.51,0.51]},"properties":{"k":"v"}}
	]}`
	fs := convert(t, doc, 8)
	p := tilepyramid.New(fs, 8, tilepyramid.WithIndexMaxZoom(2))

	deep := p.GetTile(6, 0, 0)
	require.True(t, deep.Transformed())
	// the point at (0.51,0.51) falls in the bottom-right (2x+1,2y+1) branch
	// below the root, so the top-left tile (0,0) at z=6 should end up empty.
	require.Equal(t, 0, deep.NumFeatures)

	deepMatching := p.GetTile(6, 32, 32)
	require.Equal(t, 1, deepMatching.NumFeatures)
}

func TestGetTile_transformedCoordinatesWithinExtentPlusBuffer(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[0.5,0.5]},"properties":{}}
	]}`
	fs := convert(t, doc, 2)
	p := tilepyramid.New(fs, 2)
	tile := p.GetTile(1, 1, 1)
	if tile.NumFeatures == 0 {
		t.Skip("point landed in a different quadrant for this fixture")
	}
	for _, f := range tile.Features {
		for _, pt := range f.Points {
			require.GreaterOrEqual(t, int(pt.X), -int(tilepyramid.DefaultBuffer)-1)
			require.LessOrEqual(t, int(pt.X), int(tilepyramid.DefaultExtent)+int(tilepyramid.DefaultBuffer)+1)
		}
	}
}
