package encoder

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"

	"golang.org/x/image/draw"
)

// grayPalette maps palette index n to gray level n, so any luminance grid
// is written without quantization loss.
var grayPalette = func() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		p[i] = color.Gray{Y: uint8(i)}
	}
	return p
}()

// GIFEncoder encodes images to a single-frame GIF with a 256-level gray
// palette.
type GIFEncoder struct{}

func (e *GIFEncoder) Format() string    { return "gif" }
func (e *GIFEncoder) Extension() string { return "gif" }

func (e *GIFEncoder) Encode(img image.Image, _ int) ([]byte, error) {
	b := img.Bounds()
	pal := image.NewPaletted(b, grayPalette)
	if g, ok := img.(*image.Gray); ok {
		// Index == level: copy rows directly.
		for y := 0; y < b.Dy(); y++ {
			copy(pal.Pix[y*pal.Stride:y*pal.Stride+b.Dx()], g.Pix[y*g.Stride:y*g.Stride+b.Dx()])
		}
	} else {
		draw.Draw(pal, b, img, b.Min, draw.Src)
	}

	var buf bytes.Buffer
	if err := gif.Encode(&buf, pal, &gif.Options{NumColors: 256}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
