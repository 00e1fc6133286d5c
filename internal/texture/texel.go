package texture

import "math"

// Texel is one pixel value tagged with its encoding. The zero value is an
// L8 texel of 0.
type Texel struct {
	format Format
	c8     [4]uint8
	cf     [4]float32
}

// NewL8 returns a luminance texel.
func NewL8(l uint8) Texel { return Texel{format: L8, c8: [4]uint8{l}} }

// NewLA8 returns a luminance texel with alpha.
func NewLA8(l, a uint8) Texel { return Texel{format: LA8, c8: [4]uint8{l, a}} }

// NewRGBA8 returns a non-premultiplied 8-bit colour texel.
func NewRGBA8(r, g, b, a uint8) Texel { return Texel{format: RGBA8, c8: [4]uint8{r, g, b, a}} }

// NewF32 returns a single-channel float texel.
func NewF32(v float32) Texel { return Texel{format: F32, cf: [4]float32{v}} }

// NewRGBAF32 returns a float colour texel.
func NewRGBAF32(r, g, b, a float32) Texel {
	return Texel{format: RGBAF32, cf: [4]float32{r, g, b, a}}
}

// Format returns the encoding of t.
func (t Texel) Format() Format { return t.format }

// RGBA widens an 8-bit texel to an RGBA quad. ok is false for float texels.
func (t Texel) RGBA() (r, g, b, a uint8, ok bool) {
	switch t.format {
	case L8:
		l := t.c8[0]
		return l, l, l, 255, true
	case LA8:
		l := t.c8[0]
		return l, l, l, t.c8[1], true
	case RGBA8:
		return t.c8[0], t.c8[1], t.c8[2], t.c8[3], true
	}
	return 0, 0, 0, 0, false
}

// Float returns the raw float channels of an F32 or RGBAF32 texel.
func (t Texel) Float() (v [4]float32, ok bool) {
	switch t.format {
	case F32:
		return [4]float32{t.cf[0], t.cf[0], t.cf[0], t.cf[0]}, true
	case RGBAF32:
		return t.cf, true
	}
	return v, false
}

// Normalize converts t to a float vector. 8-bit channels are divided by 255,
// float channels pass through and F32 is replicated into all four lanes.
func (t Texel) Normalize() [4]float64 {
	if r, g, b, a, ok := t.RGBA(); ok {
		return [4]float64{float64(r) / 255, float64(g) / 255, float64(b) / 255, float64(a) / 255}
	}
	v, _ := t.Float()
	return [4]float64{float64(v[0]), float64(v[1]), float64(v[2]), float64(v[3])}
}

// Luma computes the BT.601 offset luma of an RGB triple, truncated toward
// zero.
func Luma(r, g, b uint8) uint8 {
	l := 0.257*float64(r) + 0.504*float64(g) + 0.098*float64(b) + 16
	return uint8(math.Min(math.Max(l, 0), 255))
}

// Convert re-encodes t as format to. ok is false when the formats are not
// convertible (see CanConvert).
func (t Texel) Convert(to Format) (Texel, bool) {
	if t.format == to {
		return t, true
	}
	if !CanConvert(t.format, to) {
		return Texel{}, false
	}
	r, g, b, a, _ := t.RGBA()
	switch to {
	case L8:
		if t.format == LA8 {
			return NewL8(t.c8[0]), true
		}
		return NewL8(Luma(r, g, b)), true
	case LA8:
		if t.format == L8 {
			return NewLA8(t.c8[0], 255), true
		}
		return NewLA8(Luma(r, g, b), a), true
	case RGBA8:
		return NewRGBA8(r, g, b, a), true
	}
	return Texel{}, false
}

// FromNormalized encodes a normalized vector as format f. 8-bit channels are
// clamped to [0,1] and truncated after scaling by 255; L8 and LA8 take the
// first lane as luminance.
func FromNormalized(v [4]float64, f Format) Texel {
	switch f {
	case L8:
		return NewL8(unorm8(v[0]))
	case LA8:
		return NewLA8(unorm8(v[0]), unorm8(v[3]))
	case RGBA8:
		return NewRGBA8(unorm8(v[0]), unorm8(v[1]), unorm8(v[2]), unorm8(v[3]))
	case RGBAF32:
		return NewRGBAF32(float32(v[0]), float32(v[1]), float32(v[2]), float32(v[3]))
	case F32:
		return NewF32(float32(v[0]))
	}
	panic("texture: invalid format")
}

func unorm8(v float64) uint8 {
	return uint8(math.Min(math.Max(v, 0), 1) * 255)
}
