package resize

import (
	"image"
	"image/color"
	"testing"
)

func TestShrinkSize(t *testing.T) {
	tests := []struct {
		w, h         int
		wantW, wantH int
	}{
		{256, 128, 128, 64},
		{128, 256, 64, 128},
		{100, 100, 128, 128},
		{300, 150, 128, 64},
		{1000, 333, 128, 42},
		{333, 1000, 42, 128},
		{64, 48, 128, 96},
		{4000, 1, 128, 1},
		{1, 4000, 1, 128},
	}
	for _, tt := range tests {
		w, h := ShrinkSize(tt.w, tt.h, DefaultBound)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("ShrinkSize(%d, %d) = %dx%d, want %dx%d", tt.w, tt.h, w, h, tt.wantW, tt.wantH)
		}
	}
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 90, A: 255,
			})
		}
	}
	return img
}

func TestShrinkGrow_RoundTripDimensions(t *testing.T) {
	src := gradient(300, 150)
	for _, name := range Kernels() {
		r, err := Kernel(name)
		if err != nil {
			t.Fatalf("Kernel(%q): %v", name, err)
		}

		small := Shrink(r, src, DefaultBound)
		if got := small.Bounds().Size(); got != (image.Point{128, 64}) {
			t.Errorf("%s: shrink size %v, want 128x64", name, got)
		}

		big := Grow(r, small, 300, 150)
		if got := big.Bounds().Size(); got != (image.Point{300, 150}) {
			t.Errorf("%s: grow size %v, want 300x150", name, got)
		}
	}
}

func TestShrink_Square(t *testing.T) {
	r, _ := Kernel("lanczos")
	got := Shrink(r, gradient(100, 100), DefaultBound).Bounds().Size()
	if got != (image.Point{128, 128}) {
		t.Errorf("got %v, want 128x128", got)
	}
}

func TestKernel_Unknown(t *testing.T) {
	if _, err := Kernel("bicubic-ish"); err == nil {
		t.Fatal("expected error for unknown kernel")
	}
}

func TestToGray(t *testing.T) {
	img := image.NewNRGBA(image.Rect(10, 10, 14, 12))
	img.SetNRGBA(10, 10, color.NRGBA{255, 255, 255, 255})
	img.SetNRGBA(13, 11, color.NRGBA{0, 0, 0, 255})

	g := ToGray(img)
	if g.Rect != image.Rect(0, 0, 4, 2) {
		t.Fatalf("bounds: got %v", g.Rect)
	}
	if v := g.GrayAt(0, 0).Y; v != 255 {
		t.Errorf("white pixel: got %d", v)
	}
	if v := g.GrayAt(3, 1).Y; v != 0 {
		t.Errorf("black pixel: got %d", v)
	}

	already := image.NewGray(image.Rect(0, 0, 2, 2))
	if ToGray(already) != already {
		t.Error("gray input should be returned unchanged")
	}
}

func TestResize_UniformStaysUniform(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 40, 20))
	for i := range src.Pix {
		src.Pix[i] = 172
	}
	for _, name := range Kernels() {
		r, _ := Kernel(name)
		out := r.Resize(src, 17, 9)
		for _, v := range out.Pix {
			if v < 170 || v > 174 {
				t.Errorf("%s: uniform input produced %d", name, v)
				break
			}
		}
	}
}
