package trmm

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"testing"
	"testing/fstest"

	"github.com/alecthomas/assert/v2"

	raster "github.com/hydrolab/go-raster"
)

// encode builds a minimal 3B42RT file: header text padded to 2880 bytes and
// a zero grid with the given cell overrides in hundredths of mm/h.
func encode(header string, cells map[[2]int]int16) []byte {
	raw := make([]byte, 2880+2*480*1440)
	copy(raw, header)
	for i := len(header); i < 2880; i++ {
		raw[i] = ' '
	}
	for rc, count := range cells {
		offset := 2880 + 2*(rc[0]*1440+rc[1])
		binary.BigEndian.PutUint16(raw[offset:], uint16(count))
	}
	return raw
}

func TestRead(t *testing.T) {
	raw := encode("algorithm_ID=3B42RT granule_ID=3B42RT.2011013112.bin", map[[2]int]int16{
		{0, 0}:      250,
		{479, 1439}: -100,
	})

	f, err := Read(bytes.NewReader(raw))
	assert.NoError(t, err)
	assert.Equal(t, "3B42RT", f.Header()["algorithm_ID"])
	assert.Equal(t, "3B42RT.2011013112.bin", f.Header()["granule_ID"])

	precip, err := f.Precip()
	assert.NoError(t, err)
	assert.Equal(t, 480, precip.Rows())
	assert.Equal(t, 1440, precip.Cols())
	assert.Equal(t, 2.5, precip.At(0, 0))
	assert.Equal(t, raster.NoData, precip.At(479, 1439))
	assert.Equal(t, 0.0, precip.At(100, 100))
}

func TestRead_Short(t *testing.T) {
	_, err := Read(bytes.NewReader(make([]byte, 2880)))
	assert.Error(t, err)
}

func TestOpen_Gzip(t *testing.T) {
	raw := encode("algorithm_ID=3B42RT", nil)

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write(raw)
	assert.NoError(t, err)
	assert.NoError(t, gz.Close())

	fsys := fstest.MapFS{
		"3B42RT.2011013112.bin.gz": &fstest.MapFile{Data: buf.Bytes()},
		"3B42RT.2011013112.bin":    &fstest.MapFile{Data: raw},
	}

	fromGz, err := Open(fsys, "3B42RT.2011013112.bin.gz")
	assert.NoError(t, err)
	fromPlain, err := Open(fsys, "3B42RT.2011013112.bin")
	assert.NoError(t, err)
	assert.Equal(t, fromPlain.Header(), fromGz.Header())
	assert.Equal(t, fromPlain.counts, fromGz.counts)
}

func TestFile_PointValues(t *testing.T) {
	// Row 0 is the top of the grid (59.875N); the cell at (30.125S, 25.125E)
	// sits at row floor(480 - (-30.125 + 60)/0.25) = 360, col 100.
	raw := encode("", map[[2]int]int16{
		{360, 100}: 1200,
	})
	f, err := Read(bytes.NewReader(raw))
	assert.NoError(t, err)

	values, err := f.PointValues(
		[]float64{-30.125, 80},
		[]float64{25.125, 25.125},
	)
	assert.NoError(t, err)
	assert.Equal(t, []float64{12, raster.NoData}, values)

	_, err = f.PointValues([]float64{0}, []float64{0, 1})
	assert.Error(t, err)
}

func TestFile_PointValues_MatchesRasterSample(t *testing.T) {
	raw := encode("", map[[2]int]int16{
		{0, 0}:     100,
		{240, 720}: 550,
	})
	f, err := Read(bytes.NewReader(raw))
	assert.NoError(t, err)
	precip, err := f.Precip()
	assert.NoError(t, err)

	lats := []float64{59.875, -0.125, -30.125}
	lons := []float64{0.125, 180.125, 25.125}

	fromPoints, err := f.PointValues(lats, lons)
	assert.NoError(t, err)
	assert.Equal(t, precip.Sample(lons, lats), fromPoints)
}
