// Package mvt encodes a transformed Tile as a Mapbox Vector Tile protobuf
// message. It writes the wire format directly with protowire rather than
// through a generated pb.go, since the tile's geometry is already in
// integer tile-space and does not need any of the reprojection or clipping
// a full MVT library would otherwise do for it.
package mvt

import (
	"fmt"
	"math"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"google.golang.org/protobuf/encoding/protowire"

	tilepyramid "github.com/pdok/tilepyramid"
	"github.com/pdok/tilepyramid/mapslicehelp"
	"github.com/pdok/tilepyramid/projected"
)

const (
	layerVersion = 2
	layerName    = "layer"

	// Tile.layers = 3
	tileLayersField = 3

	// Layer field numbers
	layerNameField    = 1
	layerFeatureField = 2
	layerKeysField    = 3
	layerValuesField  = 4
	layerExtentField  = 5
	layerVersionField = 15

	// Feature field numbers
	featureIDField       = 1
	featureTagsField     = 2
	featureTypeField     = 3
	featureGeometryField = 4

	// Value field numbers
	valueStringField = 1
	valueDoubleField = 3
	valueIntField    = 4
	valueBoolField   = 7

	geomUnknown    = 0
	geomPoint      = 1
	geomLineString = 2
	geomPolygon    = 3

	cmdMoveTo    = 1
	cmdLineTo    = 2
	cmdClosePath = 7
)

// Marshal encodes tile as a single-layer MVT protobuf message. tile must
// already be transformed (see Tile.Transformed); Marshal panics otherwise,
// since encoding normalized coordinates as if they were tile-space integers
// would silently produce a corrupt tile.
func Marshal(tile *tilepyramid.Tile) ([]byte, error) {
	if !tile.Transformed() {
		panic("mvt: Marshal called on a tile that has not been transformed")
	}

	keys := orderedmap.New[string, uint32]()
	values := orderedmap.New[string, uint32]() // encoded value -> index, keyed by a type-tagged string

	var rawValues [][]byte
	var featureBytes []byte

	for _, f := range tile.Features {
		fb, err := marshalFeature(f, keys, values, &rawValues)
		if err != nil {
			return nil, fmt.Errorf("mvt: encoding feature: %w", err)
		}
		featureBytes = protowire.AppendTag(featureBytes, layerFeatureField, protowire.BytesType)
		featureBytes = protowire.AppendBytes(featureBytes, fb)
	}

	var layer []byte
	layer = protowire.AppendTag(layer, layerVersionField, protowire.VarintType)
	layer = protowire.AppendVarint(layer, layerVersion)
	layer = protowire.AppendTag(layer, layerNameField, protowire.BytesType)
	layer = protowire.AppendString(layer, layerName)
	layer = append(layer, featureBytes...)

	for _, k := range mapslicehelp.OrderedMapKeys(keys) {
		layer = protowire.AppendTag(layer, layerKeysField, protowire.BytesType)
		layer = protowire.AppendString(layer, k)
	}
	for _, vb := range rawValues {
		layer = protowire.AppendTag(layer, layerValuesField, protowire.BytesType)
		layer = protowire.AppendBytes(layer, vb)
	}

	layer = protowire.AppendTag(layer, layerExtentField, protowire.VarintType)
	layer = protowire.AppendVarint(layer, uint64(tilepyramid.DefaultExtent))

	var out []byte
	out = protowire.AppendTag(out, tileLayersField, protowire.BytesType)
	out = protowire.AppendBytes(out, layer)
	return out, nil
}

func marshalFeature(f tilepyramid.TileFeature, keys, values *orderedmap.OrderedMap[string, uint32], rawValues *[][]byte) ([]byte, error) {
	// intern properties in key order, not map order, so the pools and the
	// encoded bytes are the same on every run.
	propKeys := make([]string, 0, len(f.Properties))
	for k := range f.Properties {
		propKeys = append(propKeys, k)
	}
	sort.Strings(propKeys)
	var tags []uint32
	for _, k := range propKeys {
		tags = append(tags, internKey(keys, k), internValue(values, rawValues, f.Properties[k]))
	}

	var b []byte
	if len(tags) > 0 {
		var tagBytes []byte
		for _, t := range tags {
			tagBytes = protowire.AppendVarint(tagBytes, uint64(t))
		}
		b = protowire.AppendTag(b, featureTagsField, protowire.BytesType)
		b = protowire.AppendBytes(b, tagBytes)
	}

	gt, geomInts, err := encodeGeometry(f)
	if err != nil {
		return nil, err
	}
	b = protowire.AppendTag(b, featureTypeField, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(gt))

	var geomBytes []byte
	for _, g := range geomInts {
		geomBytes = protowire.AppendVarint(geomBytes, uint64(g))
	}
	b = protowire.AppendTag(b, featureGeometryField, protowire.BytesType)
	b = protowire.AppendBytes(b, geomBytes)

	return b, nil
}

func internKey(keys *orderedmap.OrderedMap[string, uint32], k string) uint32 {
	if idx, ok := keys.Get(k); ok {
		return idx
	}
	idx := uint32(keys.Len())
	keys.Set(k, idx)
	return idx
}

func internValue(values *orderedmap.OrderedMap[string, uint32], rawValues *[][]byte, v interface{}) uint32 {
	enc, tag := encodeValueTagged(v)
	if idx, ok := values.Get(tag); ok {
		return idx
	}
	idx := uint32(values.Len())
	values.Set(tag, idx)
	*rawValues = append(*rawValues, enc)
	return idx
}

func encodeValueTagged(v interface{}) (encoded []byte, tag string) {
	var b []byte
	switch val := v.(type) {
	case string:
		b = protowire.AppendTag(b, valueStringField, protowire.BytesType)
		b = protowire.AppendString(b, val)
		return b, "s:" + val
	case bool:
		b = protowire.AppendTag(b, valueBoolField, protowire.VarintType)
		if val {
			b = protowire.AppendVarint(b, 1)
		} else {
			b = protowire.AppendVarint(b, 0)
		}
		return b, fmt.Sprintf("b:%v", val)
	case int:
		return encodeInt(int64(val))
	case int64:
		return encodeInt(val)
	case float32:
		return encodeFloat(float64(val))
	case float64:
		return encodeFloat(val)
	default:
		s := fmt.Sprintf("%v", val)
		b = protowire.AppendTag(b, valueStringField, protowire.BytesType)
		b = protowire.AppendString(b, s)
		return b, "s:" + s
	}
}

func encodeInt(n int64) ([]byte, string) {
	var b []byte
	b = protowire.AppendTag(b, valueIntField, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(n))
	return b, fmt.Sprintf("i:%d", n)
}

func encodeFloat(f float64) ([]byte, string) {
	var b []byte
	b = protowire.AppendTag(b, valueDoubleField, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, math.Float64bits(f))
	return b, fmt.Sprintf("d:%v", f)
}

func encodeGeometry(f tilepyramid.TileFeature) (geomType int, ints []uint32, err error) {
	switch f.Kind {
	case projected.PointKind:
		return geomPoint, encodeMultiPoint(f.Points), nil
	case projected.LineStringKind:
		return geomLineString, encodeLines(f.Rings, false), nil
	case projected.PolygonKind:
		return geomPolygon, encodeLines(f.Rings, true), nil
	default:
		return geomUnknown, nil, fmt.Errorf("unknown geometry kind %v", f.Kind)
	}
}

func encodeMultiPoint(pts []tilepyramid.TilePoint) []uint32 {
	if len(pts) == 0 {
		return nil
	}
	out := []uint32{command(cmdMoveTo, len(pts))}
	var px, py int32
	for _, p := range pts {
		dx, dy := int32(p.X)-px, int32(p.Y)-py
		out = append(out, zigzag(dx), zigzag(dy))
		px, py = int32(p.X), int32(p.Y)
	}
	return out
}

// encodeLines encodes each ring as MoveTo(1) + LineTo(n-1) [+ ClosePath for
// polygons]. Polygon rings carry their closing point twice (first == last);
// that duplicate is dropped since ClosePath implies the closing edge.
func encodeLines(rings []tilepyramid.TileRing, closed bool) []uint32 {
	var out []uint32
	var px, py int32
	for _, ring := range rings {
		pts := ring
		if closed && len(pts) > 1 {
			pts = pts[:len(pts)-1]
		}
		if len(pts) == 0 {
			continue
		}
		out = append(out, command(cmdMoveTo, 1))
		dx, dy := int32(pts[0].X)-px, int32(pts[0].Y)-py
		out = append(out, zigzag(dx), zigzag(dy))
		px, py = int32(pts[0].X), int32(pts[0].Y)

		if len(pts) > 1 {
			out = append(out, command(cmdLineTo, len(pts)-1))
			for _, p := range pts[1:] {
				dx, dy := int32(p.X)-px, int32(p.Y)-py
				out = append(out, zigzag(dx), zigzag(dy))
				px, py = int32(p.X), int32(p.Y)
			}
		}
		if closed {
			out = append(out, command(cmdClosePath, 1))
		}
	}
	return out
}

func command(id, count int) uint32 {
	return uint32((id & 0x7) | (count << 3))
}

func zigzag(n int32) uint32 {
	return uint32((n << 1) ^ (n >> 31))
}
