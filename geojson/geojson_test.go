package geojson

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pdok/tilepyramid/projected"
)

func TestConvertFeatures_malformedJSON_emptyNotError(t *testing.T) {
	features, err := ConvertFeatures(strings.NewReader("{not valid json"), 14, 3)
	require.NoError(t, err)
	require.Empty(t, features)
}

func TestConvertFeatures_point(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[
		{"type":"Feature","id":"abc","geometry":{"type":"Point","coordinates":[0.5,0.5]},"properties":{"name":"x"}}
	]}`
	features, err := ConvertFeatures(strings.NewReader(doc), 14, 3)
	require.NoError(t, err)
	require.Len(t, features, 1)
	require.Equal(t, projected.PointKind, features[0].Kind)
	require.Equal(t, "x", features[0].Properties["name"])
	require.Equal(t, "abc", features[0].Properties["id"])
}

func TestConvertFeatures_polygon_simplifiedAndTolerant(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Polygon","coordinates":[[
			[0,0],[0.5,0],[0.5,0.5],[0,0.5],[0,0]
		]]},"properties":{}}
	]}`
	features, err := ConvertFeatures(strings.NewReader(doc), 14, 3)
	require.NoError(t, err)
	require.Len(t, features, 1)
	require.Equal(t, projected.PolygonKind, features[0].Kind)
	require.Greater(t, features[0].MinTolerance, 0.0)
}

func TestConvertFeatures_geometryCollection_explodedIntoMultipleFeatures(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"GeometryCollection","geometries":[
			{"type":"Point","coordinates":[0.1,0.1]},
			{"type":"LineString","coordinates":[[0.1,0.1],[0.2,0.2]]}
		]},"properties":{"group":"g1"}}
	]}`
	features, err := ConvertFeatures(strings.NewReader(doc), 14, 3)
	require.NoError(t, err)
	require.Len(t, features, 2)
	require.Equal(t, "g1", features[0].Properties["group"])
	require.Equal(t, "g1", features[1].Properties["group"])
}

func TestConvertFeatures_unknownGeometryType_skipped(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Sphere","coordinates":[0,0]},"properties":{}}
	]}`
	features, err := ConvertFeatures(strings.NewReader(doc), 14, 3)
	require.NoError(t, err)
	require.Empty(t, features)
}
