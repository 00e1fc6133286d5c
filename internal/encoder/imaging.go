package encoder

import (
	"bytes"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// DefaultQuality is used by lossy encoders when no quality is given.
const DefaultQuality = 90

// ImagingEncoder encodes through disintegration/imaging, which covers the
// formats Go can write without external tools.
type ImagingEncoder struct {
	name   string
	format imaging.Format
	exts   []string
}

func (e *ImagingEncoder) Format() string       { return e.name }
func (e *ImagingEncoder) Extensions() []string { return e.exts }
func (e *ImagingEncoder) Available() bool      { return true }

func (e *ImagingEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	b := img.Bounds()
	var buf bytes.Buffer
	buf.Grow(b.Dx() * b.Dy())

	err := imaging.Encode(&buf, img, e.format,
		imaging.JPEGQuality(quality),
		imaging.PNGCompressionLevel(png.BestCompression))
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func imagingEncoders() []Encoder {
	return []Encoder{
		&ImagingEncoder{name: "png", format: imaging.PNG, exts: []string{"png"}},
		&ImagingEncoder{name: "jpeg", format: imaging.JPEG, exts: []string{"jpg", "jpeg"}},
		&ImagingEncoder{name: "bmp", format: imaging.BMP, exts: []string{"bmp"}},
		&ImagingEncoder{name: "tiff", format: imaging.TIFF, exts: []string{"tif", "tiff"}},
		&ImagingEncoder{name: "gif", format: imaging.GIF, exts: []string{"gif"}},
	}
}
