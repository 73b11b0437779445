package raster

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarises the valid (non-NoData) cells of a raster.
type Stats struct {
	N    int
	Min  float64
	Max  float64
	Mean float64
	Std  float64
}

// Stats computes summary statistics over every cell of r that is not NoData.
// If the raster holds no valid cells the zero Stats is returned.
func (r *Raster) Stats() Stats {
	valid := make([]float64, 0, r.rows*r.cols)
	for _, row := range r.data {
		for _, v := range row {
			if v != NoData {
				valid = append(valid, v)
			}
		}
	}
	if len(valid) == 0 {
		return Stats{}
	}
	s := Stats{
		N:    len(valid),
		Min:  floats.Min(valid),
		Max:  floats.Max(valid),
		Mean: stat.Mean(valid, nil),
	}
	if len(valid) > 1 {
		s.Std = stat.StdDev(valid, nil)
	}
	return s
}
