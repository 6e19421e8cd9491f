// Package resize implements the shrink/grow pair that brackets the
// quantization step, on top of several resampling libraries.
package resize

import (
	"fmt"
	"image"
	"sort"

	"github.com/disintegration/imaging"
	nfnt "github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// DefaultBound is the long-side pixel bound of the Game Boy camera sensor.
const DefaultBound = 128

// Resizer resamples an image to exactly w×h and returns it as luminance.
type Resizer interface {
	Resize(img image.Image, w, h int) *image.Gray
}

// ImagingResizer resamples with github.com/disintegration/imaging.
type ImagingResizer struct {
	Filter imaging.ResampleFilter
}

func (r ImagingResizer) Resize(img image.Image, w, h int) *image.Gray {
	return ToGray(imaging.Resize(img, w, h, r.Filter))
}

// NfntResizer resamples with github.com/nfnt/resize, which keeps
// *image.Gray input as *image.Gray.
type NfntResizer struct {
	Interp nfnt.InterpolationFunction
}

func (r NfntResizer) Resize(img image.Image, w, h int) *image.Gray {
	return ToGray(nfnt.Resize(uint(w), uint(h), img, r.Interp))
}

// ScalerResizer resamples with a golang.org/x/image/draw scaler, drawing
// straight into the destination grid.
type ScalerResizer struct {
	Scaler draw.Scaler
}

func (r ScalerResizer) Resize(img image.Image, w, h int) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, w, h))
	r.Scaler.Scale(dst, dst.Rect, img, img.Bounds(), draw.Src, nil)
	return dst
}

var kernels = map[string]Resizer{
	"lanczos":          ImagingResizer{Filter: imaging.Lanczos},
	"catmullrom":       ImagingResizer{Filter: imaging.CatmullRom},
	"linear":           ImagingResizer{Filter: imaging.Linear},
	"box":              ImagingResizer{Filter: imaging.Box},
	"nearest":          ImagingResizer{Filter: imaging.NearestNeighbor},
	"nfnt-lanczos3":    NfntResizer{Interp: nfnt.Lanczos3},
	"nfnt-bilinear":    NfntResizer{Interp: nfnt.Bilinear},
	"nfnt-nearest":     NfntResizer{Interp: nfnt.NearestNeighbor},
	"xdraw-catmullrom": ScalerResizer{Scaler: draw.CatmullRom},
	"xdraw-bilinear":   ScalerResizer{Scaler: draw.ApproxBiLinear},
}

// Kernel returns the resizer registered under name.
func Kernel(name string) (Resizer, error) {
	r, ok := kernels[name]
	if !ok {
		return nil, fmt.Errorf("unknown resize kernel %q", name)
	}
	return r, nil
}

// Kernels lists registered kernel names in sorted order.
func Kernels() []string {
	names := make([]string, 0, len(kernels))
	for name := range kernels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ShrinkSize returns the dimensions of a w×h image scaled so its long side
// equals bound. The short side is floor(bound*short/long), but never 0.
func ShrinkSize(w, h, bound int) (int, int) {
	switch {
	case w > h:
		return bound, max(bound*h/w, 1)
	case h > w:
		return max(bound*w/h, 1), bound
	default:
		return bound, bound
	}
}

// Shrink scales img so its long side is bound pixels. Images smaller than
// bound are scaled up.
func Shrink(r Resizer, img image.Image, bound int) *image.Gray {
	b := img.Bounds()
	w, h := ShrinkSize(b.Dx(), b.Dy(), bound)
	return r.Resize(img, w, h)
}

// Grow scales img to exactly w×h with no aspect correction.
func Grow(r Resizer, img image.Image, w, h int) *image.Gray {
	return r.Resize(img, w, h)
}

// ToGray converts img to an 8-bit luminance grid. A *image.Gray is
// returned as is.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return dst
}
