package gpkg_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pdok/tilepyramid/gpkg"
)

func TestTargetGeopackage_writeAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiles.gpkg")

	target, err := gpkg.Init(path)
	require.NoError(t, err)
	require.NoError(t, target.CreateZoomTable(3))
	require.NoError(t, target.WriteTile(3, 2, 5, []byte("mvt-bytes")))
	// writing the same coordinate again exercises the upsert path.
	require.NoError(t, target.WriteTile(3, 2, 5, []byte("mvt-bytes-v2")))
	require.NoError(t, target.Close())
}
