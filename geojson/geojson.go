// Package geojson converts a GeoJSON FeatureCollection, already projected
// into [0,1]x[0,1] space, into the projected.Feature slice a Pyramid is
// built from. It runs the Douglas-Peucker simplifier over every line and
// ring as it goes, scoring every vertex without a tolerance cut-off: the
// maxZoom and tolerance arguments do not change the returned features, and
// no vertex is removed here.
package geojson

import (
	"encoding/json"
	"io"
	"math"

	"github.com/perimeterx/marshmallow"

	"github.com/pdok/tilepyramid/projected"
	"github.com/pdok/tilepyramid/simplify"
)

const extent = 4096

type rawFeature struct {
	Type       string                 `json:"type"`
	Geometry   json.RawMessage        `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

type rawGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
	Geometries  json.RawMessage `json:"geometries"`
}

// ConvertFeatures parses doc as a GeoJSON FeatureCollection. Malformed
// GeoJSON is not an error: it is treated the same as a valid, empty
// FeatureCollection, so a caller can always go straight to building an
// (empty) pyramid instead of special-casing a parse failure. Individual
// features that fail to parse are skipped rather than failing the whole
// document.
func ConvertFeatures(r io.Reader, maxZoom uint8, tolerance float64) ([]projected.Feature, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil
	}

	z2 := math.Pow(2, float64(maxZoom))
	simplifyTolerance := tolerance / (z2 * extent)

	features := make([]projected.Feature, 0, len(doc.Features))
	for _, raw := range doc.Features {
		fs, ok := convertFeature(raw, simplifyTolerance)
		if !ok {
			continue
		}
		features = append(features, fs...)
	}
	return features, nil
}

// convertFeature can return more than one Feature: a top-level
// GeometryCollection is exploded into one projected.Feature per member
// geometry, all sharing the source feature's properties.
func convertFeature(raw json.RawMessage, tolerance float64) ([]projected.Feature, bool) {
	var rf rawFeature
	extras, err := marshmallow.Unmarshal(raw, &rf, marshmallow.WithExcludeKnownFieldsFromMap(true))
	if err != nil || len(rf.Geometry) == 0 {
		return nil, false
	}

	results, ok := convertGeometry(rf.Geometry)
	if !ok || len(results) == 0 {
		return nil, false
	}

	props := rf.Properties
	if props == nil {
		props = map[string]interface{}{}
	}
	for k, v := range extras {
		if _, exists := props[k]; !exists {
			// e.g. a top-level "id" member GeoJSON allows outside "properties".
			props[k] = v
		}
	}

	out := make([]projected.Feature, 0, len(results))
	for _, gr := range results {
		minTolerance := simplifyContainer(gr.kind, gr.container)
		f := projected.NewFeature(gr.kind, gr.container, props)
		f.MinTolerance = minTolerance
		out = append(out, f)
	}
	return out, true
}

type geomResult struct {
	kind      projected.Kind
	container projected.Container
}

func convertGeometry(raw json.RawMessage) ([]geomResult, bool) {
	var rg rawGeometry
	if err := json.Unmarshal(raw, &rg); err != nil {
		return nil, false
	}

	switch rg.Type {
	case "Point":
		var c [2]float64
		if err := json.Unmarshal(rg.Coordinates, &c); err != nil {
			return nil, false
		}
		return []geomResult{{projected.PointKind, projected.NewPoint(toPoint(c))}}, true

	case "MultiPoint":
		var cs [][2]float64
		if err := json.Unmarshal(rg.Coordinates, &cs); err != nil {
			return nil, false
		}
		return []geomResult{{projected.PointKind, projected.NewPoint(toPoints(cs)...)}}, true

	case "LineString":
		var cs [][2]float64
		if err := json.Unmarshal(rg.Coordinates, &cs); err != nil {
			return nil, false
		}
		return []geomResult{{projected.LineStringKind, projected.NewLine(toPoints(cs)...)}}, true

	case "MultiLineString":
		var cs [][][2]float64
		if err := json.Unmarshal(rg.Coordinates, &cs); err != nil {
			return nil, false
		}
		lines := make([]projected.Container, len(cs))
		for i, l := range cs {
			lines[i] = projected.NewLine(toPoints(l)...)
		}
		return []geomResult{{projected.LineStringKind, projected.NewCollection(lines...)}}, true

	case "Polygon":
		var cs [][][2]float64
		if err := json.Unmarshal(rg.Coordinates, &cs); err != nil {
			return nil, false
		}
		return []geomResult{{projected.PolygonKind, convertPolygon(cs)}}, true

	case "MultiPolygon":
		var cs [][][][2]float64
		if err := json.Unmarshal(rg.Coordinates, &cs); err != nil {
			return nil, false
		}
		polys := make([]projected.Container, len(cs))
		for i, p := range cs {
			polys[i] = convertPolygon(p)
		}
		return []geomResult{{projected.PolygonKind, projected.NewCollection(polys...)}}, true

	case "GeometryCollection":
		var members []json.RawMessage
		if err := json.Unmarshal(rg.Geometries, &members); err != nil {
			return nil, false
		}
		var out []geomResult
		for _, m := range members {
			sub, ok := convertGeometry(m)
			if ok {
				out = append(out, sub...)
			}
		}
		return out, len(out) > 0

	default:
		return nil, false
	}
}

func convertPolygon(rings [][][2]float64) projected.Container {
	containers := make([]projected.Container, len(rings))
	for i, ring := range rings {
		containers[i] = projected.NewLine(toPoints(ring)...)
	}
	return projected.NewCollection(containers...)
}

func toPoint(c [2]float64) projected.Point {
	return projected.NewPointAt(c[0], c[1])
}

func toPoints(cs [][2]float64) []projected.Point {
	out := make([]projected.Point, len(cs))
	for i, c := range cs {
		out[i] = toPoint(c)
	}
	return out
}

// simplifyContainer runs the Douglas-Peucker simplifier over every leaf
// ring/line reachable from c and returns the maximum tolerance assigned
// anywhere in it. Point/MultiPoint geometry is never simplified.
func simplifyContainer(kind projected.Kind, c projected.Container) float64 {
	if kind == projected.PointKind {
		return 0
	}
	var maxTolerance float64
	projected.WalkLeaves(c, func(pts []projected.Point) {
		if t := simplify.Points(pts); t > maxTolerance {
			maxTolerance = t
		}
	})
	return maxTolerance
}
