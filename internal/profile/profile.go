package profile

import (
	"fmt"
	"sort"

	"github.com/AnyUserName/gbcam/internal/encoder"
	"github.com/AnyUserName/gbcam/internal/resize"
)

// Profile defines how the camera filter resamples and re-encodes.
// The quantization bands themselves are fixed and not part of a profile.
type Profile struct {
	Name    string
	Bound   int    // long side after shrink
	Kernel  string // resize kernel name, see resize.Kernels
	Quality int    // JPEG quality 1-100
}

// DefaultName is the profile used when none is configured.
const DefaultName = "gbcamera"

// Built-in profiles.
var profiles = map[string]Profile{
	"gbcamera": {
		Name:    "gbcamera",
		Bound:   resize.DefaultBound,
		Kernel:  "lanczos",
		Quality: encoder.DefaultJPEGQuality,
	},
	"gbcamera-sharp": {
		Name:    "gbcamera-sharp",
		Bound:   resize.DefaultBound,
		Kernel:  "nearest", // blocky pixels on grow
		Quality: encoder.DefaultJPEGQuality,
	},
	"gbcamera-nfnt": {
		Name:    "gbcamera-nfnt",
		Bound:   resize.DefaultBound,
		Kernel:  "nfnt-lanczos3",
		Quality: encoder.DefaultJPEGQuality,
	},
}

// Get returns a profile by name. An empty name selects DefaultName.
func Get(name string) (Profile, error) {
	if name == "" {
		name = DefaultName
	}
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q (have %v)", name, Names())
	}
	return p, nil
}

// Names lists built-in profile names in sorted order.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resizer returns the resize kernel the profile names.
func (p Profile) Resizer() (resize.Resizer, error) {
	return resize.Kernel(p.Kernel)
}
