package encoder

import (
	"image"
)

// Encoder writes a filtered luminance grid in one file format.
type Encoder interface {
	// Format returns the format name ("gif", "jpeg", "png").
	Format() string

	// Encode converts the image to bytes at the given quality (1-100).
	// Lossless formats ignore quality.
	Encode(img image.Image, quality int) ([]byte, error)

	// Extension returns the file extension without dot.
	Extension() string
}
