package raster

import "fmt"

// NoData is the no-data value used in buffers returned by Sample and by the
// format readers for cells with no valid observation.
const NoData = -999.0

// An Origin names the grid cell that a raster's (x0, y0) coordinate refers
// to.
type Origin string

const (
	// OriginLower places (x0, y0) at the centre of the lower left cell.
	OriginLower Origin = "Lower"
	// OriginUpper places (x0, y0) at the centre of the upper left cell. It
	// is recognised but not implemented.
	OriginUpper Origin = "Upper"
)

// An UnsupportedOriginError is returned by New for any origin convention
// other than OriginLower.
type UnsupportedOriginError struct {
	Origin Origin
}

func (e *UnsupportedOriginError) Error() string {
	return fmt.Sprintf("%q is not a suitable origin", string(e.Origin))
}

// A Raster binds a 2D grid of values to its spatial reference: the coordinate
// of the centre of the lower left cell (x0, y0) in the units of the map
// projection the data are defined in, and the regular cell spacing (dx, dy).
// Irregular grids are not supported. A Raster exclusively owns its buffer;
// Subset returns independent copies and the geometry never changes after
// construction.
type Raster struct {
	data [][]float64
	rows int
	cols int
	x0   float64
	y0   float64
	dx   float64
	dy   float64
	orig Origin
}

// New returns a new Raster wrapping a copy of data. The row and column counts
// are derived from the shape of data, which must be rectangular with rows
// ordered from the top of the grid. Any origin other than OriginLower fails
// with an *UnsupportedOriginError.
func New(data [][]float64, x0, y0, dx, dy float64, origin Origin) (*Raster, error) {
	if origin != OriginLower {
		return nil, &UnsupportedOriginError{Origin: origin}
	}
	rows := len(data)
	cols := 0
	if rows > 0 {
		cols = len(data[0])
	}
	buf := make([][]float64, rows)
	flat := make([]float64, rows*cols)
	for i, row := range data {
		buf[i] = flat[i*cols : (i+1)*cols]
		copy(buf[i], row)
	}
	return &Raster{
		data: buf,
		rows: rows,
		cols: cols,
		x0:   x0,
		y0:   y0,
		dx:   dx,
		dy:   dy,
		orig: origin,
	}, nil
}

func (r *Raster) Rows() int      { return r.rows }
func (r *Raster) Cols() int      { return r.cols }
func (r *Raster) X0() float64    { return r.x0 }
func (r *Raster) Y0() float64    { return r.y0 }
func (r *Raster) Dx() float64    { return r.dx }
func (r *Raster) Dy() float64    { return r.dy }
func (r *Raster) Origin() Origin { return r.orig }

// At returns the value of the cell at (row, col).
func (r *Raster) At(row, col int) float64 { return r.data[row][col] }

// CellCenter returns the coordinate of the centre of the cell at (row, col).
func (r *Raster) CellCenter(row, col int) (x, y float64) {
	return r.x0 + float64(col)*r.dx, r.y0 + float64(r.rows-1-row)*r.dy
}

// Bounds returns the grid envelope: the rectangle covered by the raster,
// extending half a cell beyond the outermost cell centres.
func (r *Raster) Bounds() (minX, minY, maxX, maxY float64) {
	minX = r.x0 - 0.5*r.dx
	minY = r.y0 - 0.5*r.dy
	return minX, minY, minX + float64(r.cols)*r.dx, minY + float64(r.rows)*r.dy
}

// Subset crops the sub-region of r covered by the given bounding box and
// returns it as a new Raster with its own buffer and recomputed origin. No
// resampling is done, so the result matches the requested box only to within
// the grid spacing. Box corners falling outside the grid envelope are clamped
// to the grid edge.
func (r *Raster) Subset(minX, minY, maxX, maxY float64) (*Raster, error) {
	rows, cols := FindIndices(
		[]float64{maxY, minY}, []float64{minX, maxX},
		r.y0, r.x0, r.dy, r.dx, r.rows, r.cols,
	)
	minRow := clampIndex(rows[0], maxY, r.y0-0.5*r.dy, 0, r.rows-1, true)
	maxRow := clampIndex(rows[1], minY, r.y0-0.5*r.dy, 0, r.rows-1, true)
	minCol := clampIndex(cols[0], minX, r.x0-0.5*r.dx, 0, r.cols-1, false)
	maxCol := clampIndex(cols[1], maxX, r.x0-0.5*r.dx, 0, r.cols-1, false)

	newX0 := r.x0 + float64(minCol)*r.dx
	newY0 := r.y0 + float64(r.rows-1-maxRow)*r.dy

	var sub [][]float64
	for i := minRow; i < maxRow; i++ {
		sub = append(sub, r.data[i][minCol:maxCol])
	}
	return New(sub, newX0, newY0, r.dx, r.dy, r.orig)
}

// clampIndex resolves an OutOfRegion index from a subset corner to the grid
// edge nearest the coordinate. Rows count downward from the top, so for rows
// a coordinate below the envelope minimum clamps to the last row.
func clampIndex(index int, coord, envMin float64, first, last int, descending bool) int {
	if index != OutOfRegion {
		return index
	}
	if coord < envMin {
		if descending {
			return last
		}
		return first
	}
	if descending {
		return first
	}
	return last
}

// Sample returns the raster values nearest to each (x[i], y[i]) location.
// Sampling is nearest-neighbour with no interpolation. The result has one
// entry per input location, in input order; locations outside the grid
// envelope yield NoData.
func (r *Raster) Sample(x, y []float64) []float64 {
	values, _ := r.SampleValid(x, y)
	return values
}

// SampleValid is Sample with an explicit validity mask: mask[i] is false
// where (x[i], y[i]) fell outside the grid envelope, in which case values[i]
// is NoData.
func (r *Raster) SampleValid(x, y []float64) (values []float64, mask []bool) {
	rows, cols := FindIndices(y, x, r.y0, r.x0, r.dy, r.dx, r.rows, r.cols)

	values = make([]float64, len(x))
	mask = make([]bool, len(x))
	for i := range values {
		if rows[i] == OutOfRegion || cols[i] == OutOfRegion {
			values[i] = NoData
			continue
		}
		values[i] = r.data[rows[i]][cols[i]]
		mask[i] = true
	}
	return values, mask
}
