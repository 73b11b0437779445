package raster_test

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	raster "github.com/hydrolab/go-raster"
)

func TestRaster_SampleBilinear(t *testing.T) {
	r := testGrid(t)

	for name, tc := range map[string]struct {
		x        float64
		y        float64
		expected float64
	}{
		"cell_centre":        {x: 120, y: 210, expected: 22},
		"between_four_cells": {x: 105, y: 205, expected: 25.5},
		"top_right_centre":   {x: 140, y: 230, expected: 4},
		"half_cell_right":    {x: 125, y: 210, expected: 22.5},
		"half_cell_up":       {x: 120, y: 215, expected: 17},
		"outside_centres":    {x: 98, y: 210, expected: raster.NoData},
		"outside_envelope":   {x: 1e6, y: 1e6, expected: raster.NoData},
	} {
		t.Run(name, func(t *testing.T) {
			values := r.SampleBilinear([]float64{tc.x}, []float64{tc.y})
			assert.Equal(t, []float64{tc.expected}, values)
		})
	}
}

func TestRaster_SampleBilinear_NoDataNeighbour(t *testing.T) {
	r, err := raster.New([][]float64{
		{1, raster.NoData},
		{3, 4},
	}, 0, 0, 1, 1, raster.OriginLower)
	assert.NoError(t, err)

	values := r.SampleBilinear([]float64{0.5}, []float64{0.5})
	assert.Equal(t, []float64{raster.NoData}, values)
}
