// Package encoder writes preview images of compiled textures.
package encoder

import (
	"image"
)

// Encoder encodes a preview image to one file format.
type Encoder interface {
	// Format returns the format name (e.g. "png", "jpeg", "webp").
	Format() string

	// Encode converts the image to bytes. quality (1-100) is used only by
	// lossy encoders; 0 selects the encoder default.
	Encode(img image.Image, quality int) ([]byte, error)

	// Available reports whether the encoder can run. External encoders
	// (cwebp) may not be installed.
	Available() bool

	// Extensions returns the file extensions without dot, preferred first.
	Extensions() []string
}
