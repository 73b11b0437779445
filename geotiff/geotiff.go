// Package geotiff reads single-band float32 GeoTIFF grids of the kind
// distributed for continental DEMs and satellite-derived products: tiled,
// LZW-compressed, with the grid geometry carried in the ModelPixelScale and
// ModelTiepoint tags.
package geotiff

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"runtime"
	"strconv"
	"strings"

	"github.com/google/tiff"
	_ "github.com/google/tiff/bigtiff"
	_ "github.com/google/tiff/geotiff"
	"golang.org/x/image/tiff/lzw"
	"golang.org/x/sync/errgroup"

	raster "github.com/hydrolab/go-raster"
)

var errShortRead = errors.New("geotiff: short read")

// A geoTIFFIFD is a struct into which github.com/google/tiff can unmarshal
// an IFD.
type geoTIFFIFD struct {
	ImageWidth                uint16    `tiff:"field,tag=256"`
	ImageLength               uint16    `tiff:"field,tag=257"`
	BitsPerSample             uint16    `tiff:"field,tag=258"`
	Compression               uint16    `tiff:"field,tag=259"`
	PhotometricInterpretation uint16    `tiff:"field,tag=262"`
	SamplesPerPixel           uint16    `tiff:"field,tag=277"`
	PlanarConfiguration       uint16    `tiff:"field,tag=284"`
	Predictor                 uint16    `tiff:"field,tag=317"`
	TileWidth                 uint16    `tiff:"field,tag=322"`
	TileLength                uint16    `tiff:"field,tag=323"`
	TileOffsets               []uint64  `tiff:"field,tag=324"`
	TileByteCounts            []uint64  `tiff:"field,tag=325"`
	SampleFormat              uint16    `tiff:"field,tag=339"`
	ModelPixelScaleTag        []float64 `tiff:"field,tag=33550"`
	ModelTiepointTag          []float64 `tiff:"field,tag=33922"`
	GDALNoData                string    `tiff:"field,tag=42113"`
}

type reader struct {
	concurrency int
}

// A ReadOption sets an option on Read.
type ReadOption func(*reader)

// WithConcurrency limits the number of tiles decoded in parallel.
func WithConcurrency(n int) ReadOption {
	return func(r *reader) {
		r.concurrency = n
	}
}

// Read reads the GeoTIFF grid stored at filename on fsys and returns it as a
// Raster with the core's lower-left cell-centre origin convention. Only
// tiled single-band float32 layouts (uncompressed or LZW) are supported; the
// GDAL no-data value, when present, is mapped to raster.NoData.
func Read(fsys fs.FS, filename string, options ...ReadOption) (*raster.Raster, error) {
	rd := &reader{
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, option := range options {
		option(rd)
	}

	raw, err := fs.ReadFile(fsys, filename)
	if err != nil {
		return nil, err
	}
	tiffTIFF, err := tiff.Parse(bytes.NewReader(raw), tiff.GetTagSpace("GeoTIFF"), nil)
	if err != nil {
		return nil, err
	}
	if len(tiffTIFF.IFDs()) != 1 {
		return nil, fmt.Errorf("geotiff: found %d IFDs, expected 1", len(tiffTIFF.IFDs()))
	}
	var ifd geoTIFFIFD
	if err := tiff.UnmarshalIFD(tiffTIFF.IFDs()[0], &ifd); err != nil {
		return nil, err
	}

	if ifd.BitsPerSample != 32 ||
		(ifd.Compression != 1 && ifd.Compression != 5) ||
		ifd.SamplesPerPixel != 1 ||
		ifd.PlanarConfiguration != 1 ||
		ifd.Predictor != 1 ||
		ifd.SampleFormat != 3 ||
		ifd.TileWidth == 0 || ifd.TileLength == 0 {
		return nil, errors.ErrUnsupported
	}
	if len(ifd.ModelPixelScaleTag) != 3 || ifd.ModelPixelScaleTag[2] != 0 {
		return nil, errors.ErrUnsupported
	}
	if len(ifd.ModelTiepointTag) != 6 ||
		ifd.ModelTiepointTag[0] != 0 || ifd.ModelTiepointTag[1] != 0 || ifd.ModelTiepointTag[2] != 0 ||
		ifd.ModelTiepointTag[5] != 0 {
		return nil, errors.ErrUnsupported
	}

	noData := math.NaN()
	if s := strings.Trim(ifd.GDALNoData, "\x00 \t\r\n"); s != "" {
		if noData, err = strconv.ParseFloat(s, 64); err != nil {
			return nil, fmt.Errorf("geotiff: bad no-data value %q", s)
		}
	}

	width := int(ifd.ImageWidth)
	length := int(ifd.ImageLength)
	tileWidth := int(ifd.TileWidth)
	tileLength := int(ifd.TileLength)
	tilesAcross := (width + tileWidth - 1) / tileWidth
	tilesDown := (length + tileLength - 1) / tileLength
	tilesPerImage := tilesAcross * tilesDown
	if len(ifd.TileOffsets) != tilesPerImage || len(ifd.TileByteCounts) != tilesPerImage {
		return nil, errors.New("geotiff: incorrect number of tile byte counts or offsets")
	}

	data := make([][]float64, length)
	flat := make([]float64, length*width)
	for i := range data {
		data[i] = flat[i*width : (i+1)*width]
	}

	// Decode tiles in parallel; each tile writes a disjoint window of data.
	var group errgroup.Group
	group.SetLimit(rd.concurrency)
	for tileIndex := range tilesPerImage {
		group.Go(func() error {
			offset := ifd.TileOffsets[tileIndex]
			byteCount := ifd.TileByteCounts[tileIndex]
			// Checked separately so a BigTIFF offset near MaxUint64 cannot
			// wrap the sum past the bounds check.
			if offset > uint64(len(raw)) || byteCount > uint64(len(raw))-offset {
				return errShortRead
			}
			samples, err := decodeTile(raw[offset:offset+byteCount], tileWidth*tileLength, ifd.Compression)
			if err != nil {
				return err
			}

			baseRow := (tileIndex / tilesAcross) * tileLength
			baseCol := (tileIndex % tilesAcross) * tileWidth
			for ty := range tileLength {
				row := baseRow + ty
				if row >= length {
					break
				}
				for tx := range tileWidth {
					col := baseCol + tx
					if col >= width {
						break
					}
					v := float64(samples[ty*tileWidth+tx])
					if v == noData || (math.IsNaN(noData) && math.IsNaN(v)) {
						v = raster.NoData
					}
					data[row][col] = v
				}
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	dx := ifd.ModelPixelScaleTag[0]
	dy := ifd.ModelPixelScaleTag[1]
	// The tiepoint anchors the top left corner of the top left pixel.
	x0 := ifd.ModelTiepointTag[3] + 0.5*dx
	y0 := ifd.ModelTiepointTag[4] - (float64(length)-0.5)*dy
	return raster.New(data, x0, y0, dx, dy, raster.OriginLower)
}

// decodeTile decompresses and decodes one tile into float32 samples.
func decodeTile(compressed []byte, sampleCount int, compression uint16) ([]float32, error) {
	tileData := make([]byte, 4*sampleCount)
	if compression == 1 {
		if len(compressed) < len(tileData) {
			return nil, errShortRead
		}
		copy(tileData, compressed)
	} else {
		r := lzw.NewReader(bytes.NewReader(compressed), lzw.MSB, 8)
		for bytesRead := 0; bytesRead < len(tileData); {
			n, err := r.Read(tileData[bytesRead:])
			if err != nil {
				return nil, err
			}
			bytesRead += n
		}
	}
	samples := make([]float32, sampleCount)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(tileData[4*i : 4*(i+1)]))
	}
	return samples, nil
}
