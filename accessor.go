package tilepyramid

import (
	"math"

	"github.com/pdok/tilepyramid/diag"
	"github.com/pdok/tilepyramid/geomhelp"
	"github.com/pdok/tilepyramid/projected"
	"github.com/pdok/tilepyramid/tms20"
)

// GetTile returns the tile at (z,x,y), transformed into integer tile-space
// coordinates. If the tile was never built eagerly, GetTile walks up to the
// nearest indexed ancestor and drills down from its saved source features;
// an out-of-range or otherwise unreachable coordinate returns an empty
// sentinel tile rather than an error, since a missing tile is a normal
// outcome of sparse data, not a failure.
//
// The whole operation - index lookup, drill-down, transform - runs under
// one mutex, so a drill-down triggered by one caller can't race a
// concurrent GetTile for an unrelated coordinate into inconsistent state.
func (p *Pyramid) GetTile(z uint8, x, y uint32) *Tile {
	if !tms20.Valid(z, x, y, p.maxZoom) {
		return emptyTile(z, x, y)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	id := tms20.EncodeID(z, x, y)
	if tile, ok := p.tiles[id]; ok {
		return p.transform(tile)
	}

	stop := p.sink.Time("drilling down")
	defer stop()

	z0, x0, y0 := z, x, y
	var parent *Tile
	for z0 > 0 {
		z0--
		x0 /= 2
		y0 /= 2
		// The Open Question this mirrors (see original_source): the real
		// ancestor walk never checks whether it fell off the root before
		// dereferencing further. Here the loop bound (z0 > 0) makes that
		// check unnecessary instead of silently relying on a non-nil
		// pointer: z0 cannot underflow, and the root tile is always
		// present after New, so the walk is guaranteed to terminate with
		// parent set by the time z0 reaches 0.
		if t, ok := p.tiles[tms20.EncodeID(z0, x0, y0)]; ok {
			parent = t
			break
		}
	}
	if parent == nil {
		return emptyTile(z, x, y)
	}

	if len(parent.source) > 0 {
		if isClippedSquare(parent, p.extent, p.buffer) {
			f := parent.Features[0]
			p.sink.Count("clipped-square-area-milli", int(geomhelp.Shoelace(ringToFloat(f.rawRings[0]))*1000))
			p.sink.Describe("clipped-square", diag.DescribeRings([][][2]float64{ringToFloat(f.rawRings[0])}, 200))
			// Every descendant of a clipped square looks identical to the
			// square itself, so the ancestor's own content is the answer -
			// there is nothing deeper to drill into.
			return p.transform(parent)
		}
		p.splitTile(parent.source, z0, x0, y0, &tileCoord{z, x, y})
	}

	if tile, ok := p.tiles[id]; ok {
		return p.transform(tile)
	}
	// The drill-down may have stopped at a clipped square above (z,x,y);
	// that square then stands in for the requested tile, as it does on
	// every later call.
	for z1, x1, y1 := z, x, y; z1 > 0; {
		z1--
		x1 /= 2
		y1 /= 2
		if t, ok := p.tiles[tms20.EncodeID(z1, x1, y1)]; ok {
			if isClippedSquare(t, p.extent, p.buffer) {
				return p.transform(t)
			}
			break
		}
	}
	return emptyTile(z, x, y)
}

func emptyTile(z uint8, x, y uint32) *Tile {
	return &Tile{Z: z, X: x, Y: y, z2: uint32(1) << z, transformed: true}
}

// transform converts tile's geometry from normalized [0,1] space to integer
// tile-space coordinates, in place, the first time it's read. Subsequent
// calls are no-ops. Must be called with p.mu held.
func (p *Pyramid) transform(tile *Tile) *Tile {
	if tile.transformed {
		return tile
	}
	for i := range tile.Features {
		f := &tile.Features[i]
		switch f.Kind {
		case projected.PointKind:
			f.Points = make([]TilePoint, len(f.rawPoints))
			for j, pt := range f.rawPoints {
				f.Points[j] = transformPoint(pt, p.extent, tile.z2, tile.X, tile.Y)
			}
		default:
			f.Rings = make([]TileRing, len(f.rawRings))
			for j, ring := range f.rawRings {
				tr := make(TileRing, len(ring))
				for k, pt := range ring {
					tr[k] = transformPoint(pt, p.extent, tile.z2, tile.X, tile.Y)
				}
				f.Rings[j] = tr
			}
		}
	}
	tile.transformed = true
	return tile
}

func transformPoint(p projected.Point, extent uint16, z2, x, y uint32) TilePoint {
	tx := float64(extent) * (p.X*float64(z2) - float64(x))
	ty := float64(extent) * (p.Y*float64(z2) - float64(y))
	return TilePoint{X: saturateInt16(math.Round(tx)), Y: saturateInt16(math.Round(ty))}
}

func saturateInt16(f float64) int16 {
	switch {
	case f > math.MaxInt16:
		return math.MaxInt16
	case f < math.MinInt16:
		return math.MinInt16
	default:
		return int16(f)
	}
}

const clippedSquareEpsilon = 1e-9

// isClippedSquare reports whether tile's only feature is a single-ring
// polygon whose every vertex lies exactly on the buffered tile boundary -
// i.e. clipping produced nothing but the buffer square itself, which means
// the original geometry fully covered this tile and every descendant would
// look identical. Checked in normalized per-tile-fraction space, since
// geometry is not transformed to integer coordinates until GetTile reads a
// tile (see Tile.Transformed).
func isClippedSquare(tile *Tile, extent uint16, buffer uint8) bool {
	if len(tile.Features) != 1 {
		return false
	}
	f := tile.Features[0]
	if f.Kind != projected.PolygonKind || len(f.rawRings) != 1 {
		return false
	}

	lo := -float64(buffer) / float64(extent)
	hi := 1 + float64(buffer)/float64(extent)
	for _, p := range f.rawRings[0] {
		lx := p.X*float64(tile.z2) - float64(tile.X)
		ly := p.Y*float64(tile.z2) - float64(tile.Y)
		if !almostEqual(lx, lo) && !almostEqual(lx, hi) {
			return false
		}
		if !almostEqual(ly, lo) && !almostEqual(ly, hi) {
			return false
		}
	}
	return true
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < clippedSquareEpsilon
}

func ringToFloat(ring []projected.Point) [][2]float64 {
	out := make([][2]float64, len(ring))
	for i, pt := range ring {
		out[i] = [2]float64{pt.X, pt.Y}
	}
	return out
}
