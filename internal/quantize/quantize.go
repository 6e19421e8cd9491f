// Package quantize maps 8-bit luminance to the four Game Boy camera shades
// with 2×2 ordered dithering.
//
// Each output pixel depends only on its own value and the parity of its
// row and column, so a grid can be processed in any order or in parallel.
package quantize

import (
	"image"
	"runtime"
	"sync"
)

// Palette holds the four shades every output pixel is drawn from.
var Palette = [4]uint8{0, 86, 172, 255}

// Band is one luminance range of the filter. A value belongs to the first
// band, in descending Min order, with value >= Min.
type Band struct {
	Min   uint8
	Level func(i, j int) uint8
}

// odd is 1 for odd n, 0 otherwise.
func odd(n int) int { return n & 1 }

// both is 1 only at (odd row, odd column).
func both(i, j int) int { return odd(i) * odd(j) }

// diag is 1 where row+column is even.
func diag(i, j int) int { return odd(i + j + 1) }

// evenOdd is 1 only at (even row, odd column).
func evenOdd(i, j int) int { return odd(i+1) * odd(j) }

var bands = []Band{
	{236, func(i, j int) uint8 { return 255 }},
	{216, func(i, j int) uint8 { return uint8(255 - both(i, j)*83) }},
	{196, func(i, j int) uint8 { return uint8(255 - diag(i, j)*83) }},
	{176, func(i, j int) uint8 { return uint8(172 + evenOdd(i, j)*83) }},
	{157, func(i, j int) uint8 { return 172 }},
	{137, func(i, j int) uint8 { return uint8(172 - both(i, j)*86) }},
	{117, func(i, j int) uint8 { return uint8(172 - diag(i, j)*86) }},
	{97, func(i, j int) uint8 { return uint8(86 + evenOdd(i, j)*86) }},
	{78, func(i, j int) uint8 { return 86 }},
	{58, func(i, j int) uint8 { return uint8(86 - both(i, j)*86) }},
	{38, func(i, j int) uint8 { return uint8(86 - diag(i, j)*86) }},
	{18, func(i, j int) uint8 { return uint8(evenOdd(i, j) * 86) }},
	{0, func(i, j int) uint8 { return 0 }},
}

// Bands returns a copy of the band table in evaluation order. The last
// entry is the unconditional fallback for values below 18.
func Bands() []Band {
	out := make([]Band, len(bands))
	copy(out, bands)
	return out
}

// BandIndex returns the index into Bands() of the band v falls in.
func BandIndex(v uint8) int {
	for k, b := range bands {
		if v >= b.Min {
			return k
		}
	}
	return len(bands) - 1 // unreachable: the last Min is 0
}

// Level returns the filtered value of a pixel with luminance v at row i,
// column j. Only the parities of i and j matter.
func Level(v uint8, i, j int) uint8 {
	return bands[BandIndex(v)].Level(i, j)
}

// Apply filters src into a new grid with the same bounds. Row and column
// indices are taken relative to src.Rect.Min. src is not modified.
func Apply(src *image.Gray) *image.Gray {
	dst := image.NewGray(src.Rect)
	applyRows(dst, src, 0, src.Rect.Dy())
	return dst
}

// ApplyParallel is Apply with rows split across up to workers goroutines.
// workers <= 0 means runtime.NumCPU(). The result is identical to Apply.
func ApplyParallel(src *image.Gray, workers int) *image.Gray {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	h := src.Rect.Dy()
	dst := image.NewGray(src.Rect)
	if workers == 1 || h < 2 {
		applyRows(dst, src, 0, h)
		return dst
	}
	if workers > h {
		workers = h
	}

	step := (h + workers - 1) / workers
	var wg sync.WaitGroup
	for y0 := 0; y0 < h; y0 += step {
		y1 := min(y0+step, h)
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			applyRows(dst, src, y0, y1)
		}(y0, y1)
	}
	wg.Wait()
	return dst
}

// applyRows filters relative rows [y0, y1) of src into dst.
// dst and src must share bounds.
func applyRows(dst, src *image.Gray, y0, y1 int) {
	w := src.Rect.Dx()
	for i := y0; i < y1; i++ {
		in := src.Pix[i*src.Stride : i*src.Stride+w]
		out := dst.Pix[i*dst.Stride : i*dst.Stride+w]
		for j, v := range in {
			out[j] = Level(v, i, j)
		}
	}
}
