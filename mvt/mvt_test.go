package mvt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	tilepyramid "github.com/pdok/tilepyramid"
	"github.com/pdok/tilepyramid/geojson"
	"github.com/pdok/tilepyramid/mvt"
)

func buildPyramid(t *testing.T, doc string) *tilepyramid.Pyramid {
	t.Helper()
	features, err := geojson.ConvertFeatures(strings.NewReader(doc), 4, 3)
	require.NoError(t, err)
	return tilepyramid.New(features, 4)
}

func TestMarshal_panicsOnUntransformedTile(t *testing.T) {
	require.Panics(t, func() {
		_, _ = mvt.Marshal(&tilepyramid.Tile{})
	})
}

func TestMarshal_transformedTile_producesNonEmptyPayload(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[0.5,0.5]},"properties":{"name":"a","count":3}}
	]}`
	p := buildPyramid(t, doc)
	tile := p.GetTile(0, 0, 0)
	require.True(t, tile.Transformed())

	data, err := mvt.Marshal(tile)
	require.NoError(t, err)
	require.NotEmpty(t, data)
}
