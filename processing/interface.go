package processing

import (
	tilepyramid "github.com/pdok/tilepyramid"
)

// Source supplies the tiles to be dumped, in ascending tile-id order.
type Source interface {
	Walk(func(tile *tilepyramid.Tile))
}

// Target receives the encoded tiles for a single zoom level.
type Target interface {
	CreateZoomTable(z uint8) error
	WriteTile(z uint8, x, y uint32, mvtData []byte) error
}
