// Package processing takes care of the logistics around walking a tile
// pyramid and writing its encoded tiles to per-zoom targets. Not the
// encoding operation itself.
package processing

import (
	"log"
	"sort"
	"sync"

	tilepyramid "github.com/pdok/tilepyramid"
	"github.com/pdok/tilepyramid/mvt"
	"github.com/pdok/tilepyramid/tms20"
)

type encodedTile struct {
	z    uint8
	x, y uint32
	data []byte
}

// readTiles walks the source and feeds every tile into tilesOut.
func readTiles(source Source, tilesOut chan<- *tilepyramid.Tile) {
	source.Walk(func(tile *tilepyramid.Tile) {
		tilesOut <- tile
	})
	close(tilesOut)
}

// encodeTiles marshals each tile to MVT, skipping (and logging) any tile
// that fails to encode rather than aborting the whole walk.
func encodeTiles(tilesIn <-chan *tilepyramid.Tile, tilesOut chan<- encodedTile) {
	var total, failed uint64
	for tile := range tilesIn {
		total++
		data, err := mvt.Marshal(tile)
		if err != nil {
			failed++
			log.Printf("    skipping z=%d x=%d y=%d: %v", tile.Z, tile.X, tile.Y, err)
			continue
		}
		tilesOut <- encodedTile{z: tile.Z, x: tile.X, y: tile.Y, data: data}
	}
	close(tilesOut)

	log.Printf("    total tiles: %d", total)
	if failed > 0 {
		log.Printf("    failed to encode: %d", failed)
	}
}

// writeTiles distributes encoded tiles over the targets keyed by zoom, one
// goroutine per target. Each target buffers its whole zoom level and writes
// it back out in Morton (Z-order) order rather than the arrival order off
// the channel, so tiles that are spatially close end up close together in
// the target file.
func writeTiles(tilesIn <-chan encodedTile, targets map[uint8]Target) error {
	targetChannels := make(map[uint8]chan encodedTile, len(targets))
	wg := sync.WaitGroup{}
	errs := make(chan error, len(targets))

	for z, target := range targets {
		ch := make(chan encodedTile)
		targetChannels[z] = ch
		wg.Add(1)
		go func(target Target, ch <-chan encodedTile) {
			defer wg.Done()
			var batch []encodedTile
			for et := range ch {
				batch = append(batch, et)
			}
			sort.Slice(batch, func(i, j int) bool {
				return tms20.MortonKey(batch[i].x, batch[i].y) < tms20.MortonKey(batch[j].x, batch[j].y)
			})
			for _, et := range batch {
				if err := target.WriteTile(et.z, et.x, et.y, et.data); err != nil {
					errs <- err
				}
			}
		}(target, ch)
	}

	for et := range tilesIn {
		ch, ok := targetChannels[et.z]
		if !ok {
			continue
		}
		ch <- et
	}
	for _, ch := range targetChannels {
		close(ch)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// DumpTiles walks source's tile pyramid, encodes every tile to MVT, and
// routes each encoded tile to the target registered for its zoom level.
// Tiles for zoom levels with no registered target are dropped.
func DumpTiles(source Source, targets map[uint8]Target) error {
	for z, target := range targets {
		if err := target.CreateZoomTable(z); err != nil {
			return err
		}
	}

	tilesRaw := make(chan *tilepyramid.Tile)
	tilesEncoded := make(chan encodedTile)

	go readTiles(source, tilesRaw)
	go encodeTiles(tilesRaw, tilesEncoded)
	return writeTiles(tilesEncoded, targets)
}
