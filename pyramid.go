package tilepyramid

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/umpc/go-sortedmap"

	"github.com/pdok/tilepyramid/clip"
	"github.com/pdok/tilepyramid/diag"
	"github.com/pdok/tilepyramid/projected"
	"github.com/pdok/tilepyramid/tms20"
)

// DefaultExtent and DefaultBuffer match the tile-space conventions used by
// every consumer of this pyramid's output (a 4096-unit tile, buffered 64
// units on each side to give downstream renderers room for stroke widths
// and label collision boxes that cross a tile edge).
const (
	DefaultExtent uint16 = 4096
	DefaultBuffer uint8  = 64
)

// Pyramid is a set of tiles built from one feature collection, guarded by a
// single mutex covering both lookups and any lazy drill-down triggered by a
// miss. The builder itself (New) runs single-threaded before any tile is
// published, matching the teacher's synchronous conversion passes; only
// GetTile needs to be safe for concurrent callers.
type Pyramid struct {
	mu    sync.Mutex
	tiles map[uint64]*Tile
	order *sortedmap.SortedMap

	maxZoom        uint8
	indexMaxZoom   uint8
	indexMaxPoints int
	tolerance      float64
	extent         uint16
	buffer         uint8

	sink  diag.Sink
	stats map[uint8]int
	total int
}

// Option configures a Pyramid at construction time.
type Option func(*Pyramid)

// WithIndexMaxZoom caps how deep the pyramid is built eagerly; tiles beyond
// it are produced lazily by GetTile. Defaults to maxZoom (fully eager).
func WithIndexMaxZoom(z uint8) Option { return func(p *Pyramid) { p.indexMaxZoom = z } }

// WithIndexMaxPoints stops eager recursion into a branch once its tile
// holds this many points or fewer, even below indexMaxZoom.
func WithIndexMaxPoints(n int) Option { return func(p *Pyramid) { p.indexMaxPoints = n } }

// WithTolerance sets the base simplification tolerance in tile-extent
// units at zoom 0; it scales down by 2^z at deeper zooms and drops to 0 at
// maxZoom.
func WithTolerance(t float64) Option { return func(p *Pyramid) { p.tolerance = t } }

// WithExtent overrides the per-tile coordinate extent (default 4096).
func WithExtent(e uint16) Option { return func(p *Pyramid) { p.extent = e } }

// WithBuffer overrides the per-tile buffer, in extent units (default 64).
func WithBuffer(b uint8) Option { return func(p *Pyramid) { p.buffer = b } }

// WithDebug attaches a diagnostics sink; without it, counters and timings
// are discarded.
func WithDebug(sink diag.Sink) Option { return func(p *Pyramid) { p.sink = sink } }

// New builds a pyramid from features up to maxZoom.
func New(features []projected.Feature, maxZoom uint8, opts ...Option) *Pyramid {
	p := &Pyramid{
		tiles: make(map[uint64]*Tile),
		order: sortedmap.New(64, func(i, j interface{}) bool {
			// go-sortedmap orders records by value, so compare the tiles' ids.
			a, b := i.(*Tile), j.(*Tile)
			return tms20.EncodeID(a.Z, a.X, a.Y) < tms20.EncodeID(b.Z, b.X, b.Y)
		}),
		maxZoom:        maxZoom,
		indexMaxZoom:   maxZoom,
		indexMaxPoints: 100_000,
		tolerance:      3,
		extent:         DefaultExtent,
		buffer:         DefaultBuffer,
		sink:           diag.NoopSink{},
		stats:          make(map[uint8]int),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.indexMaxZoom > p.maxZoom {
		p.indexMaxZoom = p.maxZoom
	}

	stop := p.sink.Time("generate tiles")
	p.splitTile(features, 0, 0, 0, nil)
	stop()
	return p
}

// tileCoord names a drill-down target: the (z,x,y) GetTile actually wants,
// as opposed to the (z,x,y) currently being visited while walking toward it.
type tileCoord struct {
	z    uint8
	x, y uint32
}

type stackItem struct {
	features []projected.Feature
	z        uint8
	x, y     uint32
}

// splitTile recurses breadth-first from (z,x,y) using an explicit FIFO work
// queue instead of native recursion, so a deep or wide pyramid can't
// overflow the goroutine stack. target == nil means index-ahead mode: keep
// going until indexMaxZoom or indexMaxPoints calls a halt. target != nil
// means drill-down mode: descend toward that one tile, stopping at its zoom.
// A tile is split when either its x or its y matches the target's ancestor
// at that zoom, so some tiles off the target's own path are split as well.
func (p *Pyramid) splitTile(features []projected.Feature, z uint8, x, y uint32, target *tileCoord) {
	queue := list.New()
	queue.PushBack(&stackItem{features, z, x, y})

	for queue.Len() > 0 {
		front := queue.Front()
		queue.Remove(front)
		item := front.Value.(*stackItem)
		z, x, y := item.z, item.x, item.y
		z2 := uint32(1) << z

		id := tms20.EncodeID(z, x, y)
		tile, exists := p.tiles[id]
		if !exists {
			tileTolerance := p.tolerance / (float64(z2) * float64(p.extent))
			if z == p.maxZoom {
				tileTolerance = 0
			}
			stop := p.sink.Time("creation")
			tile = newTile(item.features, z2, x, y, tileTolerance, z == p.maxZoom)
			stop()

			p.tiles[id] = tile
			p.order.Insert(id, tile) //nolint:errcheck
			p.sink.Count(fmt.Sprintf("z%d", z), 1)
			p.stats[z]++
			p.total++
		}

		tile.source = item.features

		if isClippedSquare(tile, p.extent, p.buffer) {
			continue
		}

		if target == nil {
			if z == p.indexMaxZoom || tile.NumPoints <= p.indexMaxPoints {
				continue
			}
		} else {
			if z == p.maxZoom || z == target.z {
				continue
			}
			m := uint32(1) << (target.z - z)
			xMatch := x == target.x/m
			yMatch := y == target.y/m
			if !xMatch && !yMatch {
				continue
			}
		}

		tile.source = nil

		k1 := 0.5 * float64(p.buffer) / float64(p.extent)
		k2 := 0.5 - k1
		k3 := 0.5 + k1
		k4 := 1 + k1

		left := clip.Clip(item.features, float64(z2), float64(x)-k1, float64(x)+k3, clip.X)
		right := clip.Clip(item.features, float64(z2), float64(x)+k2, float64(x)+k4, clip.X)

		var tl, bl, tr, br []projected.Feature
		if len(left) > 0 {
			tl = clip.Clip(left, float64(z2), float64(y)-k1, float64(y)+k3, clip.Y)
			bl = clip.Clip(left, float64(z2), float64(y)+k2, float64(y)+k4, clip.Y)
		}
		if len(right) > 0 {
			tr = clip.Clip(right, float64(z2), float64(y)-k1, float64(y)+k3, clip.Y)
			br = clip.Clip(right, float64(z2), float64(y)+k2, float64(y)+k4, clip.Y)
		}

		if len(tl) > 0 {
			queue.PushBack(&stackItem{tl, z + 1, 2 * x, 2 * y})
		}
		if len(bl) > 0 {
			queue.PushBack(&stackItem{bl, z + 1, 2 * x, 2*y + 1})
		}
		if len(tr) > 0 {
			queue.PushBack(&stackItem{tr, z + 1, 2*x + 1, 2 * y})
		}
		if len(br) > 0 {
			queue.PushBack(&stackItem{br, z + 1, 2*x + 1, 2*y + 1})
		}
	}
}

// Walk visits every indexed tile once, in ascending packed-id order (by the
// row-major position index (2^z)*y+x first and by zoom second, so zoom
// levels interleave), transforming each before the
// callback sees it. Used by cmd/tilepyramid to dump a whole zoom level
// deterministically.
func (p *Pyramid) Walk(fn func(tile *Tile)) {
	p.mu.Lock()
	defer p.mu.Unlock()

	iter, err := p.order.IterCh()
	if err != nil {
		return
	}
	defer iter.Close()
	for rec := range iter.Records() {
		tile := rec.Val.(*Tile)
		fn(p.transform(tile))
	}
}

// Stats returns the number of tiles produced at each zoom level, useful for
// a --debug CLI flag; it is a snapshot, not a live view.
func (p *Pyramid) Stats() (perZoom map[uint8]int, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[uint8]int, len(p.stats))
	for z, n := range p.stats {
		out[z] = n
	}
	return out, p.total
}
