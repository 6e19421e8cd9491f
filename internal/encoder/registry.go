package encoder

import (
	"fmt"
	"strings"
)

// Registry holds the encoders for every format the store can write.
type Registry struct {
	encoders map[string]Encoder
}

// NewRegistry creates a registry with the gif, jpeg and png encoders.
func NewRegistry() *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
	}
	for _, enc := range []Encoder{
		&GIFEncoder{},
		&JPEGEncoder{},
		&PNGEncoder{},
	} {
		r.encoders[enc.Format()] = enc
	}
	return r
}

// Get returns an encoder for the given format or extension, or nil if
// there is none. "jpg" is accepted for "jpeg".
func (r *Registry) Get(format string) Encoder {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if format == "jpg" {
		format = "jpeg"
	}
	return r.encoders[format]
}

// Formats returns all format names in a stable order.
func (r *Registry) Formats() []string {
	var result []string
	for _, f := range []string{"gif", "jpeg", "png"} {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	return fmt.Sprintf("encoders: %s", strings.Join(r.Formats(), ", "))
}
