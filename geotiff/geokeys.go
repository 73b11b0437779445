package geotiff

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"

	"github.com/google/tiff"
)

var errGeoKeys = errors.New("geotiff: malformed geo key directory")

type geoKey uint16

const (
	geoKeyGTModelType  geoKey = 1024
	geoKeyGTRasterType geoKey = 1025
	geoKeyGTCitation   geoKey = 1026
	geoKeyGeodeticCRS  geoKey = 2048
	geoKeyProjectedCRS geoKey = 3072

	// A short value of 32767 marks a user-defined CRS with no EPSG code.
	geoKeyUserDefined = 32767
)

// A geoKeyIFD holds the three GeoTIFF CRS tags. The key directory indexes
// into the double and ASCII parameter tags for values wider than a short.
type geoKeyIFD struct {
	GeoKeyDirectory []uint16  `tiff:"field,tag=34735"`
	GeoDoubleParams []float64 `tiff:"field,tag=34736"`
	GeoASCIIParams  string    `tiff:"field,tag=34737"`
}

type geoKeys struct {
	shorts  map[geoKey]int
	doubles map[geoKey]float64
	asciis  map[geoKey]string
}

// SRID returns the EPSG code of the coordinate reference system of the
// GeoTIFF grid stored at filename on fsys, read from its geo key directory.
// Projected grids report their projected CRS; geographic grids report the
// geodetic one. User-defined CRSs have no EPSG code and fail.
func SRID(fsys fs.FS, filename string) (int, error) {
	raw, err := fs.ReadFile(fsys, filename)
	if err != nil {
		return 0, err
	}
	tiffTIFF, err := tiff.Parse(bytes.NewReader(raw), tiff.GetTagSpace("GeoTIFF"), nil)
	if err != nil {
		return 0, err
	}
	if len(tiffTIFF.IFDs()) != 1 {
		return 0, fmt.Errorf("geotiff: found %d IFDs, expected 1", len(tiffTIFF.IFDs()))
	}
	var ifd geoKeyIFD
	if err := tiff.UnmarshalIFD(tiffTIFF.IFDs()[0], &ifd); err != nil {
		return 0, err
	}
	keys, err := parseGeoKeys(ifd.GeoKeyDirectory, ifd.GeoDoubleParams, []byte(ifd.GeoASCIIParams))
	if err != nil {
		return 0, err
	}
	return keys.srid()
}

func (k *geoKeys) srid() (int, error) {
	for _, key := range []geoKey{geoKeyProjectedCRS, geoKeyGeodeticCRS} {
		code, ok := k.shorts[key]
		if !ok {
			continue
		}
		if code == geoKeyUserDefined {
			return 0, errors.New("geotiff: user-defined CRS has no EPSG code")
		}
		return code, nil
	}
	return 0, errors.New("geotiff: no CRS geo key")
}

func parseGeoKeys(directory []uint16, doubleParams []float64, asciiParams []byte) (*geoKeys, error) {
	if len(directory) < 4 {
		return nil, errGeoKeys
	}
	if keyDirectoryVersion := int(directory[0]); keyDirectoryVersion != 1 {
		return nil, errGeoKeys
	}
	if keyRevision := int(directory[1]); keyRevision != 1 {
		return nil, errGeoKeys
	}
	if minorRevision := int(directory[2]); minorRevision != 0 && minorRevision != 1 {
		return nil, errGeoKeys
	}
	numberOfKeys := int(directory[3])
	if len(directory) != 4+4*numberOfKeys {
		return nil, errGeoKeys
	}

	keys := &geoKeys{
		shorts:  make(map[geoKey]int),
		doubles: make(map[geoKey]float64),
		asciis:  make(map[geoKey]string),
	}
	for i := range numberOfKeys {
		entry := directory[4+4*i : 4+4*(i+1)]
		key := geoKey(entry[0])
		location := int(entry[1])
		count := int(entry[2])
		switch location {
		case 0:
			if count != 1 {
				return nil, errGeoKeys
			}
			keys.shorts[key] = int(entry[3])
		case 34736: // GeoDoubleParamsTag
			index := int(entry[3])
			if count != 1 || index >= len(doubleParams) {
				return nil, errGeoKeys
			}
			keys.doubles[key] = doubleParams[index]
		case 34737: // GeoASCIIParamsTag
			index := int(entry[3])
			if index+count > len(asciiParams) {
				return nil, errGeoKeys
			}
			keys.asciis[key] = string(asciiParams[index : index+count])
		default:
			return nil, errors.ErrUnsupported
		}
	}
	return keys, nil
}
