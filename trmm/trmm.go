// Package trmm reads TRMM 3B42RT real-time precipitation files: a 2880-byte
// ASCII header followed by a fixed 480x1440 global grid of big-endian int16
// rain rates in hundredths of mm/h.
package trmm

import (
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"io/fs"
	"strings"

	raster "github.com/hydrolab/go-raster"
)

const (
	headerBytes = 2880
	gridRows    = 480 // the file headers lie about the number of rows
	gridCols    = 1440

	// Lower left cell centre and spacing of the global grid, degrees.
	gridLat0 = -59.875
	gridLon0 = 0.125
	gridDLat = 0.25
	gridDLon = 0.25

	precipScaleFactor = 100.0
)

// A File is a decoded 3B42RT product.
type File struct {
	header map[string]string
	counts []int16 // row-major from the top row (59.875N)
}

// Open reads the 3B42RT file name from fsys, decompressing transparently
// when the name ends in .gz.
func Open(fsys fs.FS, name string) (*File, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(name, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("trmm: %s: %w", name, err)
		}
		defer gz.Close()
		r = gz
	}
	return Read(r)
}

// Read decodes a 3B42RT product from r.
func Read(r io.Reader) (*File, error) {
	raw := make([]byte, headerBytes+2*gridRows*gridCols)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("trmm: short file: %w", err)
	}

	header := make(map[string]string)
	for _, item := range strings.Fields(string(raw[:headerBytes])) {
		if key, value, ok := strings.Cut(item, "="); ok {
			header[key] = value
		}
	}

	counts := make([]int16, gridRows*gridCols)
	for i := range counts {
		counts[i] = int16(binary.BigEndian.Uint16(raw[headerBytes+2*i:]))
	}
	return &File{
		header: header,
		counts: counts,
	}, nil
}

// Header returns the key=value pairs of the file header.
func (f *File) Header() map[string]string {
	return f.header
}

// Precip returns the precipitation field in mm/h as a Raster on the fixed
// global 3B42RT grid. Negative values flag missing data and are mapped to
// raster.NoData.
func (f *File) Precip() (*raster.Raster, error) {
	data := make([][]float64, gridRows)
	for i := range data {
		data[i] = make([]float64, gridCols)
		for j := range data[i] {
			count := f.counts[i*gridCols+j]
			if count < 0 {
				data[i][j] = raster.NoData
				continue
			}
			data[i][j] = float64(count) / precipScaleFactor
		}
	}
	return raster.New(data, gridLon0, gridLat0, gridDLon, gridDLat, raster.OriginLower)
}

// PointValues returns the rain rate of the grid box containing each
// (lats[i], lons[i]) location, nearest-neighbour with no interpolation.
// Locations outside the grid yield raster.NoData, as do grid boxes with
// missing data.
func (f *File) PointValues(lats, lons []float64) ([]float64, error) {
	if len(lats) != len(lons) {
		return nil, fmt.Errorf("trmm: %d latitudes for %d longitudes", len(lats), len(lons))
	}
	rows, cols := raster.FindIndices(lats, lons, gridLat0, gridLon0, gridDLat, gridDLon, gridRows, gridCols)

	values := make([]float64, len(lats))
	for i := range values {
		if rows[i] == raster.OutOfRegion || cols[i] == raster.OutOfRegion {
			values[i] = raster.NoData
			continue
		}
		count := f.counts[rows[i]*gridCols+cols[i]]
		if count < 0 {
			values[i] = raster.NoData
			continue
		}
		values[i] = float64(count) / precipScaleFactor
	}
	return values, nil
}
