// Package esrigrid reads ArcGIS binary float grids, the .hdr/.flt file pairs
// produced by the ArcGIS "Raster to Float" tool.
package esrigrid

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"io/fs"
	"math"
	"strconv"
	"strings"

	raster "github.com/hydrolab/go-raster"
)

// A Header holds the contents of an ESRI .hdr file. XLLCorner and YLLCorner
// are the coordinates of the lower left corner of the lower left cell; when
// the file declares centre registration instead, the values are converted on
// read so that Header always carries corner registration.
type Header struct {
	Cols        int
	Rows        int
	XLLCorner   float64
	YLLCorner   float64
	CellSize    float64
	NoDataValue float64
	ByteOrder   binary.ByteOrder
}

// ReadHeader parses an ESRI grid header from r. The keywords ncols, nrows,
// cellsize and one of xllcorner/xllcenter and yllcorner/yllcenter are
// mandatory; NODATA_value defaults to -9999 and byteorder to LSBFIRST.
func ReadHeader(r io.Reader) (Header, error) {
	hdr := Header{
		NoDataValue: -9999,
		ByteOrder:   binary.LittleEndian,
	}
	seen := map[string]bool{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return Header{}, fmt.Errorf("esrigrid: header line must have exactly two fields: %q", scanner.Text())
		}
		keyword := strings.ToUpper(fields[0])
		value := fields[1]
		var err error
		switch keyword {
		case "NCOLS":
			hdr.Cols, err = strconv.Atoi(value)
		case "NROWS":
			hdr.Rows, err = strconv.Atoi(value)
		case "XLLCORNER":
			hdr.XLLCorner, err = strconv.ParseFloat(value, 64)
		case "YLLCORNER":
			hdr.YLLCorner, err = strconv.ParseFloat(value, 64)
		case "XLLCENTER":
			hdr.XLLCorner, err = strconv.ParseFloat(value, 64)
			keyword = "XLLCORNER"
			seen["XLLCENTER"] = true
		case "YLLCENTER":
			hdr.YLLCorner, err = strconv.ParseFloat(value, 64)
			keyword = "YLLCORNER"
			seen["YLLCENTER"] = true
		case "CELLSIZE":
			hdr.CellSize, err = strconv.ParseFloat(value, 64)
		case "NODATA_VALUE":
			hdr.NoDataValue, err = strconv.ParseFloat(value, 64)
		case "BYTEORDER":
			switch strings.ToUpper(value) {
			case "LSBFIRST":
				hdr.ByteOrder = binary.LittleEndian
			case "MSBFIRST":
				hdr.ByteOrder = binary.BigEndian
			default:
				return Header{}, fmt.Errorf("esrigrid: unknown byte order %q", value)
			}
		default:
			return Header{}, fmt.Errorf("esrigrid: unknown header keyword %q", fields[0])
		}
		if err != nil {
			return Header{}, fmt.Errorf("esrigrid: parse %s: %w", keyword, err)
		}
		seen[keyword] = true
	}
	if err := scanner.Err(); err != nil {
		return Header{}, err
	}

	for _, keyword := range []string{"NCOLS", "NROWS", "XLLCORNER", "YLLCORNER", "CELLSIZE"} {
		if !seen[keyword] {
			return Header{}, fmt.Errorf("esrigrid: missing mandatory header %s", strings.ToLower(keyword))
		}
	}
	if hdr.Cols <= 0 || hdr.Rows <= 0 || hdr.CellSize <= 0 {
		return Header{}, fmt.Errorf("esrigrid: invalid grid shape %dx%d, cellsize %v", hdr.Rows, hdr.Cols, hdr.CellSize)
	}

	// Centre registration refers to the cell centre; shift to the corner so
	// the header convention is uniform.
	if seen["XLLCENTER"] {
		hdr.XLLCorner -= 0.5 * hdr.CellSize
	}
	if seen["YLLCENTER"] {
		hdr.YLLCorner -= 0.5 * hdr.CellSize
	}
	return hdr, nil
}

// ReadData reads the float32 grid body described by hdr from r. Values are
// row-major starting at the top row. The header's no-data value is mapped to
// raster.NoData.
func ReadData(r io.Reader, hdr Header) ([][]float64, error) {
	raw := make([]byte, 4*hdr.Rows*hdr.Cols)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("esrigrid: read grid body: %w", err)
	}

	data := make([][]float64, hdr.Rows)
	for i := range data {
		data[i] = make([]float64, hdr.Cols)
		for j := range data[i] {
			bits := hdr.ByteOrder.Uint32(raw[4*(i*hdr.Cols+j):])
			v := float64(math.Float32frombits(bits))
			if v == hdr.NoDataValue {
				v = raster.NoData
			}
			data[i][j] = v
		}
	}
	return data, nil
}

// Read reads the grid stored in the file pair <name>.hdr and <name>.flt on
// fsys and returns it as a Raster with the core's lower-left cell-centre
// origin convention.
func Read(fsys fs.FS, name string) (*raster.Raster, error) {
	hdrFile, err := fsys.Open(name + ".hdr")
	if err != nil {
		return nil, err
	}
	defer hdrFile.Close()
	hdr, err := ReadHeader(hdrFile)
	if err != nil {
		return nil, err
	}

	fltFile, err := fsys.Open(name + ".flt")
	if err != nil {
		return nil, err
	}
	defer fltFile.Close()
	data, err := ReadData(fltFile, hdr)
	if err != nil {
		return nil, err
	}

	x0 := hdr.XLLCorner + 0.5*hdr.CellSize
	y0 := hdr.YLLCorner + 0.5*hdr.CellSize
	return raster.New(data, x0, y0, hdr.CellSize, hdr.CellSize, raster.OriginLower)
}
