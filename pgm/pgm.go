// Package pgm reads the 16-bit binary PGM products distributed by EUMETSAT,
// such as the Multisensor Precipitation Estimate and the rescaled Meteosat
// channel images. Calibration metadata (offset, slope, channel) is carried in
// header comments.
package pgm

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	raster "github.com/hydrolab/go-raster"
)

// Inverse Planck constants for converting radiance to brightness
// temperature, per channel.
var channelConstants = map[string]struct {
	a  float64
	b  float64
	nu float64
}{
	"ch09": {a: 0.9983, b: 0.627, nu: 930.659},
	"ch10": {a: 0.9988, b: 0.397, nu: 839.661},
}

// An Image is a decoded 16-bit PGM product. Counts is row-major from the top
// row; a zero count marks a pixel with no valid observation (space pixels and
// non-raining regions).
type Image struct {
	Cols    int
	Rows    int
	MaxVal  int
	Offset  float64
	Slope   float64
	Channel string
	Counts  []uint16
}

// Read decodes a binary (P5) PGM image with 16-bit samples from r.
// Calibration key=value pairs found in header comments populate Offset,
// Slope and Channel.
func Read(r io.Reader) (*Image, error) {
	br := bufio.NewReader(r)

	img := &Image{Slope: 1}

	magic, err := nextToken(br, img)
	if err != nil {
		return nil, err
	}
	if magic != "P5" {
		return nil, fmt.Errorf("pgm: bad magic %q", magic)
	}
	if img.Cols, err = intToken(br, img); err != nil {
		return nil, err
	}
	if img.Rows, err = intToken(br, img); err != nil {
		return nil, err
	}
	if img.MaxVal, err = intToken(br, img); err != nil {
		return nil, err
	}
	if img.Cols <= 0 || img.Rows <= 0 {
		return nil, fmt.Errorf("pgm: bad dimensions %dx%d", img.Rows, img.Cols)
	}
	if img.MaxVal < 256 || img.MaxVal > 65535 {
		return nil, fmt.Errorf("pgm: maxval %d, expected a 16-bit product", img.MaxVal)
	}

	raw := make([]byte, 2*img.Rows*img.Cols)
	if _, err := io.ReadFull(br, raw); err != nil {
		return nil, fmt.Errorf("pgm: read samples: %w", err)
	}
	img.Counts = make([]uint16, img.Rows*img.Cols)
	for i := range img.Counts {
		img.Counts[i] = binary.BigEndian.Uint16(raw[2*i:])
	}
	return img, nil
}

// nextToken returns the next whitespace-delimited header token, collecting
// calibration metadata from any comments it skips.
func nextToken(br *bufio.Reader, img *Image) (string, error) {
	var token []byte
	for {
		b, err := br.ReadByte()
		if err != nil {
			return "", fmt.Errorf("pgm: short header: %w", err)
		}
		switch {
		case b == '#' && len(token) == 0:
			comment, err := br.ReadString('\n')
			if err != nil && err != io.EOF {
				return "", err
			}
			parseComment(comment, img)
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			if len(token) > 0 {
				return string(token), nil
			}
		default:
			token = append(token, b)
		}
	}
}

func intToken(br *bufio.Reader, img *Image) (int, error) {
	token, err := nextToken(br, img)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("pgm: bad header token %q", token)
	}
	return n, nil
}

func parseComment(comment string, img *Image) {
	for _, field := range strings.Fields(comment) {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		switch key {
		case "offset":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				img.Offset = v
			}
		case "slope":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				img.Slope = v
			}
		case "channel":
			img.Channel = value
		}
	}
}

// SensorCounts returns the raw sensor counts as a grid, with zero counts
// mapped to raster.NoData.
func (img *Image) SensorCounts() [][]float64 {
	return img.grid(func(count uint16) float64 {
		return float64(count)
	})
}

// Radiance applies the calibration offset and slope to the sensor counts.
// Zero counts map to raster.NoData.
func (img *Image) Radiance() [][]float64 {
	return img.grid(func(count uint16) float64 {
		return img.Offset + img.Slope*float64(count)
	})
}

// BrightnessTemperature converts the calibrated radiances to brightness
// temperatures in Kelvin using the constants for the image's channel.
func (img *Image) BrightnessTemperature() ([][]float64, error) {
	cc, ok := channelConstants[img.Channel]
	if !ok {
		return nil, fmt.Errorf("pgm: no brightness temperature constants for channel %q", img.Channel)
	}
	const (
		c1 = 1.19104e-5
		c2 = 1.43877
	)
	return img.grid(func(count uint16) float64 {
		radiance := img.Offset + img.Slope*float64(count)
		d := math.Log(c1*cc.nu*cc.nu*cc.nu/radiance+1) - cc.b
		return c2 * cc.nu / d / cc.a
	}), nil
}

func (img *Image) grid(f func(uint16) float64) [][]float64 {
	data := make([][]float64, img.Rows)
	for i := range data {
		data[i] = make([]float64, img.Cols)
		for j := range data[i] {
			count := img.Counts[i*img.Cols+j]
			if count == 0 {
				data[i][j] = raster.NoData
				continue
			}
			data[i][j] = f(count)
		}
	}
	return data
}
