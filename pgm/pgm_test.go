package pgm

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/alecthomas/assert/v2"

	raster "github.com/hydrolab/go-raster"
)

func encode(header string, counts []uint16) []byte {
	var buf bytes.Buffer
	buf.WriteString(header)
	for _, c := range counts {
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], c)
		buf.Write(b[:])
	}
	return buf.Bytes()
}

func TestRead(t *testing.T) {
	raw := encode(
		"P5\n# channel=ch09 offset=-10.4 slope=0.21\n3 2\n1023\n",
		[]uint16{0, 100, 200, 300, 400, 500},
	)

	img, err := Read(bytes.NewReader(raw))
	assert.NoError(t, err)
	assert.Equal(t, 3, img.Cols)
	assert.Equal(t, 2, img.Rows)
	assert.Equal(t, 1023, img.MaxVal)
	assert.Equal(t, "ch09", img.Channel)
	assert.Equal(t, -10.4, img.Offset)
	assert.Equal(t, 0.21, img.Slope)
	assert.Equal(t, []uint16{0, 100, 200, 300, 400, 500}, img.Counts)
}

func TestRead_Errors(t *testing.T) {
	for _, tc := range []struct {
		name string
		raw  []byte
	}{
		{name: "bad_magic", raw: []byte("P2\n2 2\n1023\n")},
		{name: "eight_bit", raw: encode("P5\n2 1\n255\n", []uint16{1, 2})},
		{name: "truncated_samples", raw: encode("P5\n4 4\n1023\n", []uint16{1, 2})},
		{name: "bad_dimensions", raw: encode("P5\n0 2\n1023\n", nil)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Read(bytes.NewReader(tc.raw))
			assert.Error(t, err)
		})
	}
}

func TestImage_SensorCounts(t *testing.T) {
	img := &Image{Cols: 2, Rows: 2, Counts: []uint16{0, 10, 20, 30}}
	assert.Equal(t, [][]float64{
		{raster.NoData, 10},
		{20, 30},
	}, img.SensorCounts())
}

func TestImage_Radiance(t *testing.T) {
	img := &Image{Cols: 2, Rows: 1, Offset: 2, Slope: 0.5, Counts: []uint16{0, 100}}
	assert.Equal(t, [][]float64{{raster.NoData, 52}}, img.Radiance())
}

func TestImage_BrightnessTemperature(t *testing.T) {
	img := &Image{
		Cols:    1,
		Rows:    1,
		Offset:  0,
		Slope:   0.1,
		Channel: "ch09",
		Counts:  []uint16{500},
	}
	grids, err := img.BrightnessTemperature()
	assert.NoError(t, err)

	// Recompute the inverse Planck relation directly.
	const (
		c1 = 1.19104e-5
		c2 = 1.43877
		a  = 0.9983
		b  = 0.627
		nu = 930.659
	)
	radiance := 0.1 * 500
	expected := c2 * nu / (math.Log(c1*nu*nu*nu/radiance+1) - b) / a
	assert.Equal(t, [][]float64{{expected}}, grids)

	img.Channel = "ch42"
	_, err = img.BrightnessTemperature()
	assert.Error(t, err)
}
