package filter

import (
	"github.com/AnyUserName/texturec/internal/params"
	"github.com/AnyUserName/texturec/internal/texture"
)

// Resample copies a source image into the canvas with nearest-neighbour
// sampling, converting between 8-bit formats as needed.
type Resample struct {
	base *texture.ImageTexture
}

// NewResample requires the "base" texture parameter.
func NewResample(p *params.Map) (Filter, error) {
	v, ok := p.Get("base")
	if !ok {
		return nil, MissingParameter("base")
	}
	base, ok := v.Texture()
	if !ok {
		return nil, InvalidParameter("base")
	}
	return &Resample{base: base}, nil
}

func (f *Resample) TextureSize() (int, int, bool) {
	return f.base.Width(), f.base.Height(), true
}

func (f *Resample) TextureFormat() (texture.Format, bool) { return f.base.Format(), true }

func (f *Resample) Describe() string { return "Resample(Nearest)" }

func (f *Resample) NewFunction(fb FrameBuffer) (Function, error) {
	if !texture.CanConvert(f.base.Format(), fb.Format) {
		return nil, ErrUnsupportedFormat
	}
	base, format := f.base, fb.Format
	if base.Width() == fb.Width && base.Height() == fb.Height {
		return FunctionFunc(func(x, y int) texture.Texel {
			t, _ := base.Get(x, y)
			t, _ = t.Convert(format)
			return t
		}), nil
	}
	w, h := float64(fb.Width), float64(fb.Height)
	return FunctionFunc(func(x, y int) texture.Texel {
		t, _ := texture.Sample(base, float64(x)/w, float64(y)/h)
		t, _ = t.Convert(format)
		return t
	}), nil
}
