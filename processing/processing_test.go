package processing_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	tilepyramid "github.com/pdok/tilepyramid"
	"github.com/pdok/tilepyramid/geojson"
	"github.com/pdok/tilepyramid/processing"
)

type fakeTarget struct {
	mu      sync.Mutex
	created bool
	written map[[3]uint32]int
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{written: map[[3]uint32]int{}}
}

func (f *fakeTarget) CreateZoomTable(_ uint8) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = true
	return nil
}

func (f *fakeTarget) WriteTile(z uint8, x, y uint32, _ []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written[[3]uint32{uint32(z), x, y}]++
	return nil
}

func TestDumpTiles_routesTilesToTargetByZoom(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[0.5,0.5]},"properties":{}}
	]}`
	features, err := geojson.ConvertFeatures(strings.NewReader(doc), 2, 3)
	require.NoError(t, err)
	pyramid := tilepyramid.New(features, 2)

	zero := newFakeTarget()
	targets := map[uint8]processing.Target{0: zero}

	require.NoError(t, processing.DumpTiles(pyramid, targets))
	require.True(t, zero.created)
	require.Equal(t, 1, zero.written[[3]uint32{0, 0, 0}])
}
