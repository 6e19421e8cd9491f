package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/AnyUserName/gbcam/internal/encoder"
	"github.com/AnyUserName/gbcam/internal/profile"
	"github.com/AnyUserName/gbcam/internal/quantize"
	"github.com/AnyUserName/gbcam/internal/resize"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultMaxPixels caps decoded image area (50 megapixels).
const DefaultMaxPixels = 50_000_000

var (
	// ErrTooLarge is returned when an image header declares more pixels
	// than the filter accepts.
	ErrTooLarge = errors.New("image too large")
	// ErrEmptyImage is returned for images with a zero dimension.
	ErrEmptyImage = errors.New("image has no pixels")
)

// Transformer rewrites an encoded image from src to dst as format.
type Transformer interface {
	Transform(dst io.Writer, src io.Reader, format string) error
}

// Filter is the Game Boy camera transform: grayscale, shrink, quantize,
// grow back to the original size.
type Filter struct {
	profile   profile.Profile
	resizer   resize.Resizer
	registry  *encoder.Registry
	maxPixels int
}

// NewFilter builds a filter for p. maxPixels <= 0 selects DefaultMaxPixels.
func NewFilter(p profile.Profile, maxPixels int) (*Filter, error) {
	r, err := p.Resizer()
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", p.Name, err)
	}
	if p.Bound <= 0 {
		return nil, fmt.Errorf("profile %s: bound must be positive, got %d", p.Name, p.Bound)
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &Filter{
		profile:   p,
		resizer:   r,
		registry:  encoder.NewRegistry(),
		maxPixels: maxPixels,
	}, nil
}

// Profile returns the profile the filter was built with.
func (f *Filter) Profile() profile.Profile { return f.profile }

// Apply runs the pixel pipeline on a decoded image and returns a grid
// with the same dimensions as img.
func (f *Filter) Apply(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := resize.ToGray(img)
	small := resize.Shrink(f.resizer, gray, f.profile.Bound)
	filtered := quantize.ApplyParallel(small, 0)
	return resize.Grow(f.resizer, filtered, b.Dx(), b.Dy())
}

// Transform decodes src, applies the filter and writes the result to dst
// encoded as format ("gif", "jpeg"/"jpg" or "png").
func (f *Filter) Transform(dst io.Writer, src io.Reader, format string) error {
	enc := f.registry.Get(format)
	if enc == nil {
		return fmt.Errorf("no encoder for format %q", format)
	}

	// Read the header first so oversized images fail before allocation.
	var head bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(src, &head))
	if err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return ErrEmptyImage
	}
	if cfg.Width*cfg.Height > f.maxPixels {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooLarge, cfg.Width, cfg.Height, f.maxPixels)
	}

	img, _, err := image.Decode(io.MultiReader(&head, src))
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	data, err := enc.Encode(f.Apply(img), f.profile.Quality)
	if err != nil {
		return fmt.Errorf("encode %s: %w", enc.Format(), err)
	}
	if _, err := dst.Write(data); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
