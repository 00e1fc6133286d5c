package texture

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"
	"math/bits"
)

// Canvas is a mutable render target. Its dimensions are always powers of
// two. Canvases are not safe for concurrent writes; concurrent reads are
// fine as long as nobody writes.
type Canvas struct {
	width  int
	height int
	format Format
	data   []byte
}

// NewCanvas allocates a zeroed canvas. Width and height are rounded up to
// the next power of two.
func NewCanvas(width, height int, format Format) *Canvas {
	width, height = NextPowerOfTwo(width), NextPowerOfTwo(height)
	return &Canvas{
		width:  width,
		height: height,
		format: format,
		data:   make([]byte, width*height*format.TexelSize()),
	}
}

// NextPowerOfTwo rounds n up to a power of two. Values below 1 yield 1.
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

func (c *Canvas) Width() int     { return c.width }
func (c *Canvas) Height() int    { return c.height }
func (c *Canvas) Format() Format { return c.format }

// Bytes returns the raw texel buffer in row-major order. Float channels are
// little-endian.
func (c *Canvas) Bytes() []byte { return c.data }

// Reformat re-purposes the canvas for a different texel format, keeping its
// size. The buffer is reused when large enough and zeroed whenever the
// format actually changes.
func (c *Canvas) Reformat(f Format) {
	if f == c.format {
		return
	}
	n := c.width * c.height * f.TexelSize()
	if cap(c.data) >= n {
		c.data = c.data[:n]
		clear(c.data)
	} else {
		c.data = make([]byte, n)
	}
	c.format = f
}

func (c *Canvas) offset(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return 0, false
	}
	return (y*c.width + x) * c.format.TexelSize(), true
}

func (c *Canvas) Get(x, y int) (Texel, bool) {
	off, ok := c.offset(x, y)
	if !ok {
		return Texel{}, false
	}
	d := c.data[off:]
	switch c.format {
	case L8:
		return NewL8(d[0]), true
	case LA8:
		return NewLA8(d[0], d[1]), true
	case RGBA8:
		return NewRGBA8(d[0], d[1], d[2], d[3]), true
	case RGBAF32:
		return NewRGBAF32(readF32(d), readF32(d[4:]), readF32(d[8:]), readF32(d[12:])), true
	default:
		return NewF32(readF32(d)), true
	}
}

// Set writes t at (x, y) if t has the canvas format and reports whether the
// write happened. Writing outside the canvas is a programming error and
// panics.
func (c *Canvas) Set(x, y int, t Texel) bool {
	off, ok := c.offset(x, y)
	if !ok {
		panic(fmt.Sprintf("texture: canvas position (%d, %d) outside %dx%d", x, y, c.width, c.height))
	}
	if t.format != c.format {
		return false
	}
	d := c.data[off:]
	switch t.format {
	case L8:
		d[0] = t.c8[0]
	case LA8:
		d[0], d[1] = t.c8[0], t.c8[1]
	case RGBA8:
		copy(d[:4], t.c8[:])
	case RGBAF32:
		for i, v := range t.cf {
			writeF32(d[i*4:], v)
		}
	case F32:
		writeF32(d, t.cf[0])
	}
	return true
}

// ToRGBA performs a lossy conversion to an 8-bit RGBA image for previews.
func (c *Canvas) ToRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, c.width, c.height))
	if c.format == RGBA8 {
		copy(img.Pix, c.data)
		return img
	}
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			t, _ := c.Get(x, y)
			p := img.Pix[img.PixOffset(x, y):]
			if r, g, b, a, ok := t.RGBA(); ok {
				p[0], p[1], p[2], p[3] = r, g, b, a
				continue
			}
			v := t.Normalize()
			if c.format == F32 {
				v[3] = 1
			}
			for i := range 4 {
				p[i] = unorm8(v[i])
			}
		}
	}
	return img
}

func readF32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func writeF32(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}
