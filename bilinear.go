package raster

// SampleBilinear samples r at each (x[i], y[i]) location with bilinear
// interpolation between the four surrounding cell centres. A location whose
// surrounding cells are not all inside the grid with valid data yields
// NoData; Sample remains the nearest-neighbour alternative for edge cells.
func (r *Raster) SampleBilinear(x, y []float64) []float64 {
	values := make([]float64, len(x))
	for i := range values {
		values[i] = r.sampleBilinear(x[i], y[i])
	}
	return values
}

func (r *Raster) sampleBilinear(x, y float64) float64 {
	// Position in cell units relative to the lower left cell centre.
	u := (x - r.x0) / r.dx
	v := (y - r.y0) / r.dy
	if u < 0 || float64(r.cols-1) < u || v < 0 || float64(r.rows-1) < v {
		return NoData
	}

	col0 := int(u)
	row1 := r.rows - 1 - int(v) // grid row below the point
	col1 := min(col0+1, r.cols-1)
	row0 := max(row1-1, 0)

	du := u - float64(col0)
	dv := v - float64(int(v))

	v00 := r.data[row1][col0] // lower left
	v10 := r.data[row1][col1] // lower right
	v01 := r.data[row0][col0] // upper left
	v11 := r.data[row0][col1] // upper right
	if v00 == NoData || v10 == NoData || v01 == NoData || v11 == NoData {
		return NoData
	}
	return v00*(1-du)*(1-dv) +
		v10*du*(1-dv) +
		v01*(1-du)*dv +
		v11*du*dv
}
