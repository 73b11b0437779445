package geotiff

import (
	"testing"
	"testing/fstest"

	"github.com/alecthomas/assert/v2"
)

func TestStore_Get(t *testing.T) {
	tile := tileBytes(0, map[[2]int]float32{{0, 0}: 42})
	fsys := fstest.MapFS{
		"grid.tif": &fstest.MapFile{Data: encodeTIFF(
			1, 1, [][]byte{tile},
			[3]float64{1, 1, 0},
			[6]float64{0, 0, 0, 0, 1, 0},
			"-9999",
		)},
		"junk.tif": &fstest.MapFile{Data: []byte("not a tiff")},
	}

	store, err := NewStore(fsys, WithStoreSize(4))
	assert.NoError(t, err)

	grid, err := store.Get("grid.tif")
	assert.NoError(t, err)
	assert.Equal(t, 42.0, grid.At(0, 0))

	// Second lookup is served from the cache: the same decoded grid comes
	// back.
	again, err := store.Get("grid.tif")
	assert.NoError(t, err)
	assert.Equal(t, grid, again)

	_, err = store.Get("junk.tif")
	assert.Error(t, err)
}

func TestStore_MissingRemembered(t *testing.T) {
	fsys := fstest.MapFS{}

	store, err := NewStore(fsys)
	assert.NoError(t, err)

	grid, err := store.Get("absent.tif")
	assert.NoError(t, err)
	assert.Zero(t, grid)

	// Even if the file appears later, the store remembers it as missing.
	tile := tileBytes(0, nil)
	fsys["absent.tif"] = &fstest.MapFile{Data: encodeTIFF(
		1, 1, [][]byte{tile},
		[3]float64{1, 1, 0},
		[6]float64{0, 0, 0, 0, 1, 0},
		"-9999",
	)}
	grid, err = store.Get("absent.tif")
	assert.NoError(t, err)
	assert.Zero(t, grid)
}
