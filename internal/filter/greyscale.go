package filter

import (
	"github.com/AnyUserName/texturec/internal/params"
	"github.com/AnyUserName/texturec/internal/texture"
)

// Greyscale converts an RGBA8 previous pass to luminance.
type Greyscale struct {
	alpha bool
}

// NewGreyscale reads "alpha" (default false); with alpha the output is LA8.
func NewGreyscale(p *params.Map) (Filter, error) {
	alpha, err := optBool(p, "alpha", false)
	if err != nil {
		return nil, err
	}
	return &Greyscale{alpha: alpha}, nil
}

func (f *Greyscale) TextureSize() (int, int, bool) { return 0, 0, false }

func (f *Greyscale) TextureFormat() (texture.Format, bool) {
	if f.alpha {
		return texture.LA8, true
	}
	return texture.L8, true
}

// PreviousFormat reports that luminance is only computed from RGBA8.
func (f *Greyscale) PreviousFormat() texture.Format { return texture.RGBA8 }

func (f *Greyscale) Describe() string { return "Greyscale" }

func (f *Greyscale) NewFunction(fb FrameBuffer) (Function, error) {
	prev, err := requirePrevious(fb)
	if err != nil {
		return nil, err
	}
	if fb.Format != texture.L8 && fb.Format != texture.LA8 {
		return nil, ErrUnsupportedFormat
	}
	if prev.Format() != texture.RGBA8 {
		return nil, ErrUnsupportedPreviousFormat
	}
	equal := prev.Width() == fb.Width && prev.Height() == fb.Height
	w, h := float64(fb.Width), float64(fb.Height)
	format := fb.Format
	return FunctionFunc(func(x, y int) texture.Texel {
		var t texture.Texel
		if equal {
			t, _ = prev.Get(x, y)
		} else {
			t, _ = texture.Sample(prev, float64(x)/w, float64(y)/h)
		}
		r, g, b, a, _ := t.RGBA()
		l := texture.Luma(r, g, b)
		if format == texture.LA8 {
			return texture.NewLA8(l, a)
		}
		return texture.NewL8(l)
	}), nil
}
