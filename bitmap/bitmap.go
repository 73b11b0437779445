// Package bitmap reads 8-bit colour-paletted BMP files, a format some
// satellite product archives use to ship classified index grids.
package bitmap

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"golang.org/x/image/bmp"
)

// A Grid holds the palette indices of an 8-bit BMP as a 2D grid, row-major
// from the top row, together with the colour palette they refer to.
type Grid struct {
	Rows    int
	Cols    int
	Index   [][]float64
	Palette color.Palette
}

// Read decodes an 8-bit paletted BMP from r. Images with any other pixel
// layout are rejected.
func Read(r io.Reader) (*Grid, error) {
	img, err := bmp.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("bitmap: %w", err)
	}
	paletted, ok := img.(*image.Paletted)
	if !ok {
		return nil, fmt.Errorf("bitmap: not an 8-bit paletted image (%T)", img)
	}

	bounds := paletted.Bounds()
	g := &Grid{
		Rows:    bounds.Dy(),
		Cols:    bounds.Dx(),
		Palette: paletted.Palette,
	}
	g.Index = make([][]float64, g.Rows)
	for i := range g.Index {
		g.Index[i] = make([]float64, g.Cols)
		for j := range g.Index[i] {
			g.Index[i][j] = float64(paletted.ColorIndexAt(bounds.Min.X+j, bounds.Min.Y+i))
		}
	}
	return g, nil
}
