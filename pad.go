package raster

// Embed centres data in a larger zero-filled grid of the given shape. Useful
// for border padding ahead of filtering or FFT work.
func Embed(data [][]float64, rows, cols int) [][]float64 {
	curRows := len(data)
	curCols := 0
	if curRows > 0 {
		curCols = len(data[0])
	}
	startRow := (rows - curRows) / 2
	startCol := (cols - curCols) / 2

	result := make([][]float64, rows)
	for i := range result {
		result[i] = make([]float64, cols)
	}
	for i, row := range data {
		copy(result[startRow+i][startCol:startCol+curCols], row)
	}
	return result
}

// CropCenter crops a grid of the given shape from the centre of data.
func CropCenter(data [][]float64, rows, cols int) [][]float64 {
	curCols := 0
	if len(data) > 0 {
		curCols = len(data[0])
	}
	startRow := (len(data) - rows) / 2
	startCol := (curCols - cols) / 2

	result := make([][]float64, rows)
	for i := range result {
		result[i] = make([]float64, cols)
		copy(result[i], data[startRow+i][startCol:startCol+cols])
	}
	return result
}
