package filter

import (
	"testing"

	"github.com/AnyUserName/texturec/internal/params"
	"github.com/AnyUserName/texturec/internal/texture"
)

// gradientCanvas returns an RGBA8 canvas with a deterministic pattern.
func gradientCanvas(w, h int) *texture.Canvas {
	c := texture.NewCanvas(w, h, texture.RGBA8)
	for y := 0; y < c.Height(); y++ {
		for x := 0; x < c.Width(); x++ {
			c.Set(x, y, texture.NewRGBA8(uint8(x*8), uint8(y*8), uint8(x+y), uint8(255-x)))
		}
	}
	return c
}

func solidCanvas(w, h int, t texture.Texel) *texture.Canvas {
	c := texture.NewCanvas(w, h, t.Format())
	for y := 0; y < c.Height(); y++ {
		for x := 0; x < c.Width(); x++ {
			c.Set(x, y, t)
		}
	}
	return c
}

func mustBuild(t *testing.T, name string, m map[string]params.Parameter) Filter {
	t.Helper()
	f, found, err := Default().Resolve(name, params.NewMap(m))
	if !found {
		t.Fatalf("filter %q not in catalog", name)
	}
	if err != nil {
		t.Fatalf("build %s: %v", name, err)
	}
	return f
}

func mustFunction(t *testing.T, f Filter, fb FrameBuffer) Function {
	t.Helper()
	fn, err := f.NewFunction(fb)
	if err != nil {
		t.Fatalf("%s: NewFunction: %v", f.Describe(), err)
	}
	return fn
}

func frameFor(prev *texture.Canvas, format texture.Format) FrameBuffer {
	return FrameBuffer{Previous: prev, Width: prev.Width(), Height: prev.Height(), Format: format}
}
