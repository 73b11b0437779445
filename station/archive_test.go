package station

import (
	"testing"
	"testing/fstest"

	"github.com/alecthomas/assert/v2"
)

func TestArchive_Station(t *testing.T) {
	fsys := fstest.MapFS{
		"0009084_.txt": &fstest.MapFile{Data: []byte(testCSAGFile)},
	}

	archive, err := NewArchive(fsys, WithArchiveSize(2))
	assert.NoError(t, err)

	series, err := archive.Station("0009084_.txt")
	assert.NoError(t, err)
	assert.Equal(t, "0009084_", series.Header.ID)

	// Cached: the same parsed series comes back.
	again, err := archive.Station("0009084_.txt")
	assert.NoError(t, err)
	assert.Equal(t, series, again)

	_, err = archive.Station("absent.txt")
	assert.Error(t, err)
}
