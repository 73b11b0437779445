package bitmap

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/alecthomas/assert/v2"
	"golang.org/x/image/bmp"
)

func grayPalette() color.Palette {
	palette := make(color.Palette, 256)
	for i := range palette {
		palette[i] = color.Gray{Y: uint8(i)}
	}
	return palette
}

func TestRead(t *testing.T) {
	img := image.NewPaletted(image.Rect(0, 0, 3, 2), grayPalette())
	img.SetColorIndex(0, 0, 7)
	img.SetColorIndex(2, 0, 9)
	img.SetColorIndex(1, 1, 200)

	var buf bytes.Buffer
	assert.NoError(t, bmp.Encode(&buf, img))

	g, err := Read(&buf)
	assert.NoError(t, err)
	assert.Equal(t, 2, g.Rows)
	assert.Equal(t, 3, g.Cols)
	assert.Equal(t, [][]float64{
		{7, 0, 9},
		{0, 200, 0},
	}, g.Index)
	assert.Equal(t, 256, len(g.Palette))
}

func TestRead_NotPaletted(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, bmp.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))

	_, err := Read(&buf)
	assert.Error(t, err)
}

func TestRead_NotBMP(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("not a bitmap")))
	assert.Error(t, err)
}
