// Package projected holds the projected-geometry model: points, features and
// the recursive containers that describe a geometry independently of the
// tile pyramid that will eventually slice it up.
//
// A container is either a leaf (Points populated, holding a ring or a plain
// point sequence) or a branch (Members populated, holding nested
// containers). Exactly one of the two is set; this mirrors the recursive
// point/line/polygon/multi-* union without paying for an interface-typed
// element on every vertex.
package projected

import "math"

// Point is a vertex in normalized [0,1]x[0,1] space. Z carries the
// simplification importance assigned by the simplifier: larger means "more
// important", and below the max zoom the tile factory keeps a vertex only
// while its Z reaches the tile's tolerance. Line and ring endpoints get 0
// and are kept by position instead. Constructors default it to 1.
type Point struct {
	X, Y, Z float64
}

// NewPointAt builds a Point with the default importance.
func NewPointAt(x, y float64) Point {
	return Point{X: x, Y: y, Z: 1}
}

// BoundingBox is a normalized-space axis-aligned extent.
type BoundingBox struct {
	MinX, MinY, MaxX, MaxY float64
}

func emptyBBox() BoundingBox {
	return BoundingBox{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
}

func (b *BoundingBox) extendPoint(p Point) {
	b.MinX = math.Min(b.MinX, p.X)
	b.MinY = math.Min(b.MinY, p.Y)
	b.MaxX = math.Max(b.MaxX, p.X)
	b.MaxY = math.Max(b.MaxY, p.Y)
}

func (b *BoundingBox) extendBBox(o BoundingBox) {
	b.MinX = math.Min(b.MinX, o.MinX)
	b.MinY = math.Min(b.MinY, o.MinY)
	b.MaxX = math.Max(b.MaxX, o.MaxX)
	b.MaxY = math.Max(b.MaxY, o.MaxY)
}

func boundsOfPoints(pts []Point) BoundingBox {
	bb := emptyBBox()
	for _, p := range pts {
		bb.extendPoint(p)
	}
	return bb
}

// Container is either a leaf holding a point sequence (Points) or a branch
// holding nested containers (Members). Never both.
type Container struct {
	Points  []Point
	Members []Container
	BBox    BoundingBox
}

// IsLeaf reports whether c holds a point sequence directly.
func (c Container) IsLeaf() bool {
	return c.Members == nil
}

// NewPoint builds a leaf container holding one or more standalone points,
// i.e. the geometry of a Point or MultiPoint feature.
func NewPoint(pts ...Point) Container {
	return Container{Points: pts, BBox: boundsOfPoints(pts)}
}

// NewLine builds a leaf container holding a single line's or ring's vertex
// sequence.
func NewLine(pts ...Point) Container {
	return Container{Points: pts, BBox: boundsOfPoints(pts)}
}

// NewCollection builds a branch container nesting the given members, i.e.
// the geometry of a MultiLineString, a Polygon (members are rings), or a
// MultiPolygon (members are polygons).
func NewCollection(members ...Container) Container {
	bb := emptyBBox()
	for _, m := range members {
		bb.extendBBox(m.BBox)
	}
	return Container{Members: members, BBox: bb}
}

// WalkLeaves visits every leaf container reachable from c, depth-first,
// left to right.
func WalkLeaves(c Container, visit func(pts []Point)) {
	if c.IsLeaf() {
		visit(c.Points)
		return
	}
	for _, m := range c.Members {
		WalkLeaves(m, visit)
	}
}

// Kind distinguishes the three feature geometry kinds a pyramid understands.
// Multi- variants share the Kind of their singular form; the distinction is
// carried by how deeply Geometry nests, not by Kind.
type Kind uint8

const (
	PointKind Kind = iota
	LineStringKind
	PolygonKind
)

func (k Kind) String() string {
	switch k {
	case PointKind:
		return "Point"
	case LineStringKind:
		return "LineString"
	case PolygonKind:
		return "Polygon"
	default:
		return "Unknown"
	}
}

// Feature is a single geographic feature already projected into normalized
// space. MinTolerance is the simplification tolerance below which the
// feature's thinnest detail disappears; it is set by the simplifier, never
// by this constructor.
type Feature struct {
	Kind         Kind
	Geometry     Container
	Properties   map[string]interface{}
	MinTolerance float64
}

// NewFeature builds a Feature with MinTolerance left at its zero value
// (always kept) until a simplifier assigns one.
func NewFeature(kind Kind, geometry Container, properties map[string]interface{}) Feature {
	return Feature{Kind: kind, Geometry: geometry, Properties: properties}
}

// BBox returns the feature's geometry bounding box.
func (f Feature) BBox() BoundingBox {
	return f.Geometry.BBox
}
