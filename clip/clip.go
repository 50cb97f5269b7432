// Package clip cuts projected features against an axis-aligned slab
// [k1,k2] on one axis at a time. A tile boundary is produced by clipping
// once on X and once on Y; buffered tile edges are handled by the caller
// widening k1/k2, not by this package.
package clip

import (
	"github.com/pdok/tilepyramid/intgeom"
	"github.com/pdok/tilepyramid/mapslicehelp"
	"github.com/pdok/tilepyramid/projected"
)

// Axis selects which ordinate a Clip call tests against k1/k2.
type Axis uint8

const (
	X Axis = iota
	Y
)

// Clip returns the subset of features that intersect the slab [k1,k2] on
// axis, with geometry cut to fit. scale converts k1/k2 from tile-index units
// (e.g. x-buffer .. x+1+buffer at zoom z) into the feature's normalized
// [0,1] space; k1 and k2 are divided by scale once, up front, and every
// comparison after that happens in normalized space.
func Clip(features []projected.Feature, scale, k1, k2 float64, axis Axis) []projected.Feature {
	k1 /= scale
	k2 /= scale

	var out []projected.Feature
	for _, f := range features {
		lo, hi := axisRange(f.Geometry.BBox, axis)
		if hi < k1 || lo > k2 {
			continue // fully outside the slab
		}
		if lo >= k1 && hi <= k2 {
			out = append(out, f) // fully inside, unchanged
			continue
		}
		if cf, ok := clipFeature(f, k1, k2, axis); ok {
			out = append(out, cf)
		}
	}
	return out
}

func axisRange(bb projected.BoundingBox, axis Axis) (lo, hi float64) {
	if axis == X {
		return bb.MinX, bb.MaxX
	}
	return bb.MinY, bb.MaxY
}

func coord(p projected.Point, axis Axis) float64 {
	if axis == X {
		return p.X
	}
	return p.Y
}

func clipFeature(f projected.Feature, k1, k2 float64, axis Axis) (projected.Feature, bool) {
	switch f.Kind {
	case projected.PointKind:
		pts := clipPoints(f.Geometry.Points, k1, k2, axis)
		if len(pts) == 0 {
			return projected.Feature{}, false
		}
		nf := f
		nf.Geometry = projected.NewPoint(pts...)
		return nf, true

	case projected.LineStringKind:
		var lines []projected.Container
		projected.WalkLeaves(f.Geometry, func(pts []projected.Point) {
			for _, piece := range clipLine(pts, k1, k2, axis) {
				if len(piece) >= 2 {
					lines = append(lines, projected.NewLine(piece...))
				}
			}
		})
		if len(lines) == 0 {
			return projected.Feature{}, false
		}
		nf := f
		nf.Geometry = projected.NewCollection(lines...)
		return nf, true

	case projected.PolygonKind:
		var polygons []projected.Container
		for _, poly := range f.Geometry.Members {
			if len(poly.Members) == 0 {
				continue
			}
			outer := ringClip(poly.Members[0].Points, k1, k2, axis)
			if outer == nil {
				continue // outer ring degenerated: whole polygon is dropped
			}
			rings := []projected.Container{projected.NewLine(outer...)}
			for _, inner := range poly.Members[1:] {
				if clipped := ringClip(inner.Points, k1, k2, axis); clipped != nil {
					rings = append(rings, projected.NewLine(clipped...))
				}
			}
			polygons = append(polygons, projected.NewCollection(rings...))
		}
		if len(polygons) == 0 {
			return projected.Feature{}, false
		}
		nf := f
		nf.Geometry = projected.NewCollection(polygons...)
		return nf, true
	}
	return projected.Feature{}, false
}

func clipPoints(pts []projected.Point, k1, k2 float64, axis Axis) []projected.Point {
	var out []projected.Point
	for _, p := range pts {
		c := coord(p, axis)
		if c >= k1 && c <= k2 {
			out = append(out, p)
		}
	}
	return out
}

// clipLine cuts an open line against the slab, returning zero or more open
// pieces. A piece ends whenever the walk leaves the slab and a new one opens
// when it re-enters.
func clipLine(points []projected.Point, k1, k2 float64, axis Axis) [][]projected.Point {
	var result [][]projected.Point
	var piece []projected.Point

	for i := 0; i < len(points)-1; i++ {
		a := points[i]
		b := points[i+1]
		ak := coord(a, axis)
		bk := coord(b, axis)

		if i == 0 && ak >= k1 && ak <= k2 {
			piece = append(piece, a)
		}

		switch {
		case bk < k1:
			if ak >= k1 {
				piece = appendDeduped(piece, IntersectAt(a, b, k1, axis))
			}
			if len(piece) > 0 {
				result = append(result, piece)
				piece = nil
			}
		case bk > k2:
			if ak <= k2 {
				piece = appendDeduped(piece, IntersectAt(a, b, k2, axis))
			}
			if len(piece) > 0 {
				result = append(result, piece)
				piece = nil
			}
		default:
			if ak < k1 {
				piece = appendDeduped(piece, IntersectAt(a, b, k1, axis))
			} else if ak > k2 {
				piece = appendDeduped(piece, IntersectAt(a, b, k2, axis))
			}
			piece = append(piece, b)
		}
	}

	if len(piece) > 1 {
		result = append(result, piece)
	}
	return result
}

// ringClip clips a closed ring against the slab using two sequential
// Sutherland-Hodgman half-plane passes (coord >= k1, then coord <= k2),
// which together implement the slab clip while letting the tile edge itself
// become part of the resulting boundary. Degenerate results (fewer than 4
// points once re-closed) return nil.
func ringClip(points []projected.Point, k1, k2 float64, axis Axis) []projected.Point {
	clipped := clipHalfPlane(points, k1, axis, true)
	if len(clipped) == 0 {
		return nil
	}
	clipped = clipHalfPlane(clipped, k2, axis, false)
	if len(clipped) < 3 {
		return nil
	}
	first, last := clipped[0], clipped[len(clipped)-1]
	if first.X != last.X || first.Y != last.Y {
		clipped = append(clipped, first)
	}
	if len(clipped) < 4 {
		return nil
	}
	return clipped
}

func clipHalfPlane(points []projected.Point, k float64, axis Axis, keepGreaterEqual bool) []projected.Point {
	n := len(points)
	if n == 0 {
		return nil
	}
	var out []projected.Point
	prev := points[n-1]
	prevIn := inside(prev, k, axis, keepGreaterEqual)
	for _, cur := range points {
		curIn := inside(cur, k, axis, keepGreaterEqual)
		switch {
		case curIn && !prevIn:
			out = appendDeduped(out, IntersectAt(prev, cur, k, axis))
			out = append(out, cur)
		case curIn:
			out = append(out, cur)
		case prevIn:
			out = appendDeduped(out, IntersectAt(prev, cur, k, axis))
		}
		prev, prevIn = cur, curIn
	}
	return out
}

func inside(p projected.Point, k float64, axis Axis, greaterEqual bool) bool {
	c := coord(p, axis)
	if greaterEqual {
		return c >= k
	}
	return c <= k
}

// IntersectAt finds the boundary point where segment a-b crosses coord==k on
// axis. Callers only invoke it when a and b are on opposite sides of k, so
// the denominator is never zero. The intersection point always gets
// importance 1, matching a synthesized point that must never be simplified
// away.
func IntersectAt(a, b projected.Point, k float64, axis Axis) projected.Point {
	if axis == X {
		y := a.Y + (k-a.X)*(b.Y-a.Y)/(b.X-a.X)
		return snap(k, y)
	}
	x := a.X + (k-a.Y)*(b.X-a.X)/(b.Y-a.Y)
	return snap(x, k)
}

// snap rounds an intersection point to intgeom's fixed precision before it
// is compared against the ring's other points, so two boundary hits that
// should coincide (e.g. a ring re-entering the slab at the same corner)
// dedupe instead of surviving as near-identical floats.
func snap(x, y float64) projected.Point {
	ip := intgeom.Point{intgeom.FromGeomOrd(x), intgeom.FromGeomOrd(y)}
	return projected.Point{X: intgeom.ToGeomOrd(ip[0]), Y: intgeom.ToGeomOrd(ip[1]), Z: 1}
}

func appendDeduped(pts []projected.Point, p projected.Point) []projected.Point {
	if last := mapslicehelp.LastElement(pts); last != nil && last.X == p.X && last.Y == p.Y {
		return pts
	}
	return append(pts, p)
}
