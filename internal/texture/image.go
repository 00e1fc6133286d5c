package texture

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageTexture is an immutable texture decoded from a source image. Its
// format is always one of L8, LA8 or RGBA8. An ImageTexture is safe to
// share between any number of filters and goroutines.
type ImageTexture struct {
	width  int
	height int
	format Format
	pix    []uint8
}

// LoadImageTexture decodes the image file at path.
func LoadImageTexture(path string) (*ImageTexture, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return NewImageTexture(img), nil
}

// NewImageTexture wraps a decoded image. Grayscale images keep an L8
// encoding; everything else is normalized to non-premultiplied RGBA8.
func NewImageTexture(img image.Image) *ImageTexture {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if g, ok := img.(*image.Gray); ok {
		pix := make([]uint8, w*h)
		for y := 0; y < h; y++ {
			off := g.PixOffset(b.Min.X, b.Min.Y+y)
			copy(pix[y*w:(y+1)*w], g.Pix[off:off+w])
		}
		return &ImageTexture{width: w, height: h, format: L8, pix: pix}
	}

	var src *image.NRGBA
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) && n.Stride == 4*w {
		src = n
	} else {
		src = imaging.Clone(img)
	}
	pix := make([]uint8, w*h*4)
	copy(pix, src.Pix)
	return &ImageTexture{width: w, height: h, format: RGBA8, pix: pix}
}

// NewRawImageTexture builds an ImageTexture from tightly packed 8-bit texel
// data. It is the only way to obtain an LA8 image texture, since the
// standard library has no gray+alpha image type.
func NewRawImageTexture(width, height int, format Format, pix []uint8) (*ImageTexture, error) {
	if !format.Is8Bit() {
		return nil, fmt.Errorf("image texture: unsupported format %s", format)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image texture: invalid size %dx%d", width, height)
	}
	if want := width * height * format.TexelSize(); len(pix) != want {
		return nil, fmt.Errorf("image texture: got %d bytes, want %d", len(pix), want)
	}
	return &ImageTexture{width: width, height: height, format: format, pix: pix}, nil
}

func (t *ImageTexture) Width() int     { return t.width }
func (t *ImageTexture) Height() int    { return t.height }
func (t *ImageTexture) Format() Format { return t.format }

func (t *ImageTexture) Get(x, y int) (Texel, bool) {
	if x < 0 || y < 0 || x >= t.width || y >= t.height {
		return Texel{}, false
	}
	size := t.format.TexelSize()
	p := t.pix[(y*t.width+x)*size:]
	switch t.format {
	case L8:
		return NewL8(p[0]), true
	case LA8:
		return NewLA8(p[0], p[1]), true
	default:
		return NewRGBA8(p[0], p[1], p[2], p[3]), true
	}
}
