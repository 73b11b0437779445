package raster_test

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	raster "github.com/hydrolab/go-raster"
)

func TestLatLonSampler_Sample(t *testing.T) {
	// A geographic (EPSG:4326) raster over lon [19.5, 24.5], lat [-10.5, -5.5],
	// so the 4326->4326 transform is the identity and the expected values
	// follow directly from the grid.
	data := make([][]float64, 5)
	for i := range data {
		data[i] = make([]float64, 5)
		for j := range data[i] {
			data[i][j] = float64(10*i + j)
		}
	}
	r, err := raster.New(data, 20, -10, 1, 1, raster.OriginLower)
	assert.NoError(t, err)

	sampler, err := raster.NewLatLonSampler(r, 4326)
	assert.NoError(t, err)

	actual, err := sampler.Sample([][]float64{
		{20, -10}, // lower left cell centre
		{24, -6},  // upper right cell centre
		{0, 0},    // out of region
	})
	assert.NoError(t, err)
	assert.Equal(t, []float64{40, 4, raster.NoData}, actual)
}
