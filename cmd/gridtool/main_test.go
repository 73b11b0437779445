package main

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	assert.NoError(t, os.WriteFile(path, data, 0o666))
}

func TestSamplePoint_TRMM(t *testing.T) {
	// Zero grid except 12 mm/h in the cell at (30.125S, 25.125E).
	raw := make([]byte, 2880+2*480*1440)
	for i := range 2880 {
		raw[i] = ' '
	}
	binary.BigEndian.PutUint16(raw[2880+2*(360*1440+100):], 1200)

	path := filepath.Join(t.TempDir(), "3B42RT.2011013112.bin")
	writeFile(t, path, raw)

	value, err := samplePoint("trmm", path, -30.125, 25.125)
	assert.NoError(t, err)
	assert.Equal(t, 12.0, value)
}

func TestSamplePoint_Flt(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "dem.hdr"), []byte(
		"ncols 2\nnrows 1\nxllcorner 100\nyllcorner 200\ncellsize 10\n",
	))
	flt := make([]byte, 8)
	binary.LittleEndian.PutUint32(flt, math.Float32bits(7))
	binary.LittleEndian.PutUint32(flt[4:], math.Float32bits(8))
	writeFile(t, filepath.Join(dir, "dem.flt"), flt)

	value, err := samplePoint("flt", filepath.Join(dir, "dem"), 205, 115)
	assert.NoError(t, err)
	assert.Equal(t, 8.0, value)
}

func TestSamplePoint_UnknownFormat(t *testing.T) {
	_, err := samplePoint("wat", "nope", 0, 0)
	assert.Error(t, err)
}
