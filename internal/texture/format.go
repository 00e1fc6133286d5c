// Package texture implements the pixel model of the texture compiler:
// formats, texels, the read-only Texture capability and the two concrete
// textures (decoded source images and mutable output canvases).
package texture

import (
	"fmt"
	"strings"
)

// Format is a texel encoding.
type Format uint8

const (
	// L8 is 8-bit luminance (1 byte per texel).
	L8 Format = iota

	// LA8 is 8-bit luminance with alpha (2 bytes per texel).
	LA8

	// RGBA8 is 8-bit RGBA (4 bytes per texel).
	RGBA8

	// RGBAF32 is 32-bit float RGBA (16 bytes per texel).
	RGBAF32

	// F32 is a single 32-bit float channel (4 bytes per texel).
	F32
)

// DefaultFormat is used when neither the caller nor any filter picks one.
const DefaultFormat = RGBA8

var formatNames = [...]string{
	L8:      "L8",
	LA8:     "LA8",
	RGBA8:   "RGBA8",
	RGBAF32: "RGBAF32",
	F32:     "F32",
}

// TexelSize returns the size of one texel in bytes.
func (f Format) TexelSize() int {
	switch f {
	case L8:
		return 1
	case LA8:
		return 2
	case RGBA8, F32:
		return 4
	case RGBAF32:
		return 16
	}
	panic(fmt.Sprintf("texture: invalid format %d", f))
}

// Is8Bit reports whether f stores 8-bit integer channels.
func (f Format) Is8Bit() bool {
	return f == L8 || f == LA8 || f == RGBA8
}

// HasAlpha reports whether f carries an alpha channel.
func (f Format) HasAlpha() bool {
	return f == LA8 || f == RGBA8 || f == RGBAF32
}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", f)
}

// ParseFormat maps a user-facing format name to a Format.
// "rgba32" is accepted as an alias of RGBAF32.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "l8":
		return L8, nil
	case "la8":
		return LA8, nil
	case "rgba8":
		return RGBA8, nil
	case "rgba32", "rgbaf32":
		return RGBAF32, nil
	case "f32":
		return F32, nil
	}
	return 0, fmt.Errorf("unknown texture format %q (want l8, la8, rgba8, rgbaf32 or f32)", name)
}

// CanConvert reports whether texels of format from can feed a canvas of
// format to. The 8-bit formats convert freely among themselves; float
// formats only accept themselves.
func CanConvert(from, to Format) bool {
	if from == to {
		return true
	}
	return from.Is8Bit() && to.Is8Bit()
}
