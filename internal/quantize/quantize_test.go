package quantize

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// reference is the filter written out as a plain if/else chain.
func reference(v uint8, i, j int) int {
	switch {
	case v >= 236:
		return 255
	case v >= 216:
		return 255 - (i%2)*(j%2)*83
	case v >= 196:
		return 255 - ((j+i+1)%2)*83
	case v >= 176:
		return 172 + ((i+1)%2)*(j%2)*83
	case v >= 157:
		return 172
	case v >= 137:
		return 172 - (i%2)*(j%2)*86
	case v >= 117:
		return 172 - ((j+i+1)%2)*86
	case v >= 97:
		return 86 + ((i+1)%2)*(j%2)*86
	case v >= 78:
		return 86
	case v >= 58:
		return 86 - (i%2)*(j%2)*86
	case v >= 38:
		return 86 - ((j+i+1)%2)*86
	case v >= 18:
		return ((i + 1) % 2) * (j % 2) * 86
	default:
		return 0
	}
}

func TestLevel_MatchesReference(t *testing.T) {
	for v := 0; v < 256; v++ {
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				got := Level(uint8(v), i, j)
				want := reference(uint8(v), i, j)
				if int(got) != want {
					t.Fatalf("Level(%d, %d, %d) = %d, want %d", v, i, j, got, want)
				}
			}
		}
	}
}

func TestLevel_Examples(t *testing.T) {
	tests := []struct {
		v    uint8
		i, j int
		want uint8
	}{
		{200, 0, 0, 172},
		{200, 0, 1, 255},
		{150, 1, 1, 86},
		{150, 0, 0, 172},
		{180, 0, 1, 255},
		{180, 1, 1, 172},
		{20, 0, 1, 86},
		{20, 1, 0, 0},
	}
	for _, tt := range tests {
		if got := Level(tt.v, tt.i, tt.j); got != tt.want {
			t.Errorf("Level(%d, %d, %d) = %d, want %d", tt.v, tt.i, tt.j, got, tt.want)
		}
	}
}

func TestLevel_DependsOnParityOnly(t *testing.T) {
	for v := 0; v < 256; v++ {
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				base := Level(uint8(v), i, j)
				for _, k := range []int{2, 4, 10, 128} {
					if got := Level(uint8(v), i+k, j+k); got != base {
						t.Fatalf("v=%d (%d,%d)+%d: got %d, want %d", v, i, j, k, got, base)
					}
				}
			}
		}
	}
}

func TestLevel_Extremes(t *testing.T) {
	for v := 236; v < 256; v++ {
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				if got := Level(uint8(v), i, j); got != 255 {
					t.Errorf("Level(%d, %d, %d) = %d, want 255", v, i, j, got)
				}
			}
		}
	}
	for v := 0; v < 18; v++ {
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				if got := Level(uint8(v), i, j); got != 0 {
					t.Errorf("Level(%d, %d, %d) = %d, want 0", v, i, j, got)
				}
			}
		}
	}
}

func TestLevel_InPalette(t *testing.T) {
	inPalette := map[uint8]bool{}
	for _, p := range Palette {
		inPalette[p] = true
	}
	for v := 0; v < 256; v++ {
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				if got := Level(uint8(v), i, j); !inPalette[got] {
					t.Fatalf("Level(%d, %d, %d) = %d, not a palette shade", v, i, j, got)
				}
			}
		}
	}
}

func TestBands_Coverage(t *testing.T) {
	bs := Bands()
	// Twelve thresholds plus the final fallback.
	if len(bs) != 13 {
		t.Fatalf("got %d bands, want 13", len(bs))
	}
	for k := 1; k < len(bs); k++ {
		if bs[k].Min >= bs[k-1].Min {
			t.Fatalf("band %d min %d not below band %d min %d", k, bs[k].Min, k-1, bs[k-1].Min)
		}
	}
	if bs[len(bs)-1].Min != 0 {
		t.Fatalf("fallback band min = %d, want 0", bs[len(bs)-1].Min)
	}

	for v := 0; v < 256; v++ {
		matches := 0
		for k, b := range bs {
			upper := 256
			if k > 0 {
				upper = int(bs[k-1].Min)
			}
			if v >= int(b.Min) && v < upper {
				matches++
				if got := BandIndex(uint8(v)); got != k {
					t.Errorf("BandIndex(%d) = %d, want %d", v, got, k)
				}
			}
		}
		if matches != 1 {
			t.Errorf("value %d matched %d bands", v, matches)
		}
	}
}

func gradientGray(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Pix[y*img.Stride+x] = uint8((x*7 + y*13) % 256)
		}
	}
	return img
}

func TestApply_DoesNotModifySource(t *testing.T) {
	src := gradientGray(33, 17)
	before := append([]uint8(nil), src.Pix...)

	dst := Apply(src)

	if diff := cmp.Diff(before, src.Pix); diff != "" {
		t.Fatalf("source modified (-before +after):\n%s", diff)
	}
	if dst.Rect != src.Rect {
		t.Fatalf("bounds: got %v, want %v", dst.Rect, src.Rect)
	}
	for y := 0; y < 17; y++ {
		for x := 0; x < 33; x++ {
			want := Level(src.GrayAt(x, y).Y, y, x)
			if got := dst.GrayAt(x, y).Y; got != want {
				t.Fatalf("pixel (%d,%d): got %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestApply_SubImageUsesRelativeCoordinates(t *testing.T) {
	full := gradientGray(20, 20)
	sub := full.SubImage(image.Rect(3, 5, 15, 12)).(*image.Gray)

	dst := Apply(sub)

	for i := 0; i < sub.Rect.Dy(); i++ {
		for j := 0; j < sub.Rect.Dx(); j++ {
			x, y := sub.Rect.Min.X+j, sub.Rect.Min.Y+i
			want := Level(sub.GrayAt(x, y).Y, i, j)
			if got := dst.GrayAt(x, y).Y; got != want {
				t.Fatalf("pixel (%d,%d): got %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestApplyParallel_MatchesApply(t *testing.T) {
	for _, size := range [][2]int{{1, 1}, {128, 64}, {64, 128}, {127, 3}, {5, 101}} {
		src := gradientGray(size[0], size[1])
		want := Apply(src)
		for _, workers := range []int{0, 1, 3, 8, 500} {
			got := ApplyParallel(src, workers)
			if diff := cmp.Diff(want.Pix, got.Pix); diff != "" {
				t.Errorf("%dx%d workers=%d mismatch (-want +got):\n%s",
					size[0], size[1], workers, diff)
			}
		}
	}
}

func BenchmarkApply(b *testing.B) {
	src := gradientGray(128, 128)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Apply(src)
	}
}
