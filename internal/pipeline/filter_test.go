package pipeline

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/AnyUserName/gbcam/internal/profile"
	"github.com/AnyUserName/gbcam/internal/quantize"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8((x + y) * 255 / (w + h))
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func newFilter(t *testing.T, name string) *Filter {
	t.Helper()
	p, err := profile.Get(name)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	f, err := NewFilter(p, 0)
	if err != nil {
		t.Fatalf("NewFilter: %v", err)
	}
	return f
}

func TestFilter_ApplyKeepsDimensions(t *testing.T) {
	f := newFilter(t, "gbcamera")
	for _, size := range [][2]int{{300, 150}, {150, 300}, {100, 100}, {64, 20}} {
		out := f.Apply(gradient(size[0], size[1]))
		if got := out.Bounds().Size(); got != (image.Point{size[0], size[1]}) {
			t.Errorf("%v: got %v", size, got)
		}
	}
}

func TestFilter_SharpProfileKeepsPalette(t *testing.T) {
	// Nearest-neighbor resampling never invents new shades.
	f := newFilter(t, "gbcamera-sharp")
	out := f.Apply(gradient(256, 128))
	allowed := map[uint8]bool{}
	for _, v := range quantize.Palette {
		allowed[v] = true
	}
	for _, v := range out.Pix {
		if !allowed[v] {
			t.Fatalf("pixel value %d not in palette", v)
		}
	}
}

func TestFilter_TransformFormats(t *testing.T) {
	f := newFilter(t, "gbcamera")
	src := encodePNG(t, gradient(200, 120))

	decoders := map[string]func([]byte) (image.Image, error){
		"png":  func(b []byte) (image.Image, error) { return png.Decode(bytes.NewReader(b)) },
		"gif":  func(b []byte) (image.Image, error) { return gif.Decode(bytes.NewReader(b)) },
		"jpeg": func(b []byte) (image.Image, error) { return jpeg.Decode(bytes.NewReader(b)) },
		"jpg":  func(b []byte) (image.Image, error) { return jpeg.Decode(bytes.NewReader(b)) },
	}
	for format, decode := range decoders {
		var out bytes.Buffer
		if err := f.Transform(&out, bytes.NewReader(src), format); err != nil {
			t.Fatalf("%s: Transform: %v", format, err)
		}
		img, err := decode(out.Bytes())
		if err != nil {
			t.Fatalf("%s: decode output: %v", format, err)
		}
		if got := img.Bounds().Size(); got != (image.Point{200, 120}) {
			t.Errorf("%s: output size %v, want 200x120", format, got)
		}
	}
}

func TestFilter_TransformErrors(t *testing.T) {
	f := newFilter(t, "gbcamera")
	src := encodePNG(t, gradient(10, 10))

	var out bytes.Buffer
	if err := f.Transform(&out, bytes.NewReader(src), "bmp"); err == nil {
		t.Error("expected error for format without encoder")
	}
	if err := f.Transform(&out, bytes.NewReader([]byte("not an image")), "png"); err == nil {
		t.Error("expected decode error")
	}

	small, err := NewFilter(f.Profile(), 50)
	if err != nil {
		t.Fatal(err)
	}
	err = small.Transform(&out, bytes.NewReader(src), "png")
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("got %v, want ErrTooLarge", err)
	}
}

func TestNewFilter_BadProfile(t *testing.T) {
	if _, err := NewFilter(profile.Profile{Name: "x", Bound: 128, Kernel: "nope"}, 0); err == nil {
		t.Error("expected error for unknown kernel")
	}
	if _, err := NewFilter(profile.Profile{Name: "x", Bound: 0, Kernel: "lanczos"}, 0); err == nil {
		t.Error("expected error for zero bound")
	}
}
