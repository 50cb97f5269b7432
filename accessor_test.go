package tilepyramid_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	tilepyramid "github.com/pdok/tilepyramid"
)

func TestGetTile_transformIsIdempotent(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[0.5,0.5]},"properties":{}}
	]}`
	fs := convert(t, doc, 2)
	p := tilepyramid.New(fs, 2)

	first := p.GetTile(0, 0, 0)
	firstPoints := append([]tilepyramid.TilePoint(nil), first.Features[0].Points...)

	second := p.GetTile(0, 0, 0)
	require.Equal(t, firstPoints, second.Features[0].Points)
}

func TestGetTile_fullyCoveringPolygon_shortCircuitsClippedSquare(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Polygon","coordinates":[[
			[-1,-1],[2,-1],[2,2],[-1,2],[-1,-1]
		]]},"properties":{}}
	]}`
	fs := convert(t, doc, 10)
	p := tilepyramid.New(fs, 10, tilepyramid.WithIndexMaxZoom(2))

	deep := p.GetTile(8, 100, 100)
	require.Equal(t, 1, deep.NumFeatures)
}
