package filter

import (
	"fmt"
	"math"

	"github.com/AnyUserName/texturec/internal/params"
	"github.com/AnyUserName/texturec/internal/texture"
)

// Brightness scales the colour channels of the previous pass.
type Brightness struct {
	brightness float64
}

// NewBrightness reads the optional "brightness" factor (default 1).
func NewBrightness(p *params.Map) (Filter, error) {
	b, err := optFloat(p, "brightness", 1)
	if err != nil {
		return nil, err
	}
	return &Brightness{brightness: b}, nil
}

func (f *Brightness) TextureSize() (int, int, bool)         { return 0, 0, false }
func (f *Brightness) TextureFormat() (texture.Format, bool) { return 0, false }
func (f *Brightness) Describe() string                      { return fmt.Sprintf("Brightness(%g)", f.brightness) }

func (f *Brightness) NewFunction(fb FrameBuffer) (Function, error) {
	prev, err := requirePrevious(fb)
	if err != nil {
		return nil, err
	}
	if err := requireSameSize(fb, prev); err != nil {
		return nil, err
	}
	k, format := f.brightness, fb.Format
	return FunctionFunc(func(x, y int) texture.Texel {
		t, _ := prev.Get(x, y)
		v := t.Normalize()
		for i := range 3 {
			v[i] = math.Min(math.Max(v[i]*k, 0), 1)
		}
		return texture.FromNormalized(v, format)
	}), nil
}
