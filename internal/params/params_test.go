package params

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/AnyUserName/texturec/internal/texture"
)

func TestParseValue(t *testing.T) {
	if v, ok := ParseValue("42").Int(); !ok || v != 42 {
		t.Errorf("int: %v %v", v, ok)
	}
	if v, ok := ParseValue("-1.5").Float(); !ok || v != -1.5 {
		t.Errorf("float: %v %v", v, ok)
	}
	if v, ok := ParseValue("true").Bool(); !ok || !v {
		t.Errorf("bool: %v %v", v, ok)
	}
	if v, ok := ParseValue("FALSE").Bool(); !ok || v {
		t.Errorf("bool upper: %v %v", v, ok)
	}
	if v, ok := ParseValue("1, 2").Vec2(); !ok || v != [2]float64{1, 2} {
		t.Errorf("vec2: %v %v", v, ok)
	}
	if v, ok := ParseValue("1,2.5,3").Vec3(); !ok || v != [3]float64{1, 2.5, 3} {
		t.Errorf("vec3: %v %v", v, ok)
	}
	if v, ok := ParseValue("0,0,0,1").Vec4(); !ok || v != [4]float64{0, 0, 0, 1} {
		t.Errorf("vec4: %v %v", v, ok)
	}
	for _, s := range []string{"perlin", "1,2,3,4,5", "1,x", ""} {
		if v, ok := ParseValue(s).Str(); !ok || v != s {
			t.Errorf("string %q: got %q %v", s, v, ok)
		}
	}
}

func TestFloatAcceptsInt(t *testing.T) {
	v, ok := ParseValue("2").Float()
	if !ok || v != 2 {
		t.Errorf("got %v %v", v, ok)
	}
	if _, ok := ParseValue("2.5").Int(); ok {
		t.Error("float must not read as int")
	}
}

func TestParsePair(t *testing.T) {
	p, err := ParsePair("sigma=2.5")
	if err != nil || p.Name != "sigma" || p.Value != "2.5" {
		t.Errorf("got %+v %v", p, err)
	}
	p, err = ParsePair("v=a=b")
	if err != nil || p.Value != "a=b" {
		t.Errorf("got %+v %v", p, err)
	}
	for _, bad := range []string{"sigma", "=3"} {
		if _, err := ParsePair(bad); err == nil {
			t.Errorf("ParsePair(%q): expected error", bad)
		}
	}
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 7, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestParseLoadsTextures(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "base.png")
	writePNG(t, path, 8, 4)

	m, err := Parse([]Pair{{"base", path}, {"other", path}, {"mode", "perlin"}})
	if err != nil {
		t.Fatal(err)
	}
	base, ok := m.Get("base")
	if !ok {
		t.Fatal("base missing")
	}
	tex, ok := base.Texture()
	if !ok {
		t.Fatalf("base is %s, want texture", base.Kind())
	}
	if tex.Width() != 8 || tex.Height() != 4 || tex.Format() != texture.RGBA8 {
		t.Errorf("texture %dx%d %s", tex.Width(), tex.Height(), tex.Format())
	}
	if got, _ := tex.Get(3, 2); got != texture.NewRGBA8(3, 2, 7, 255) {
		t.Errorf("texel: %+v", got)
	}
	other, _ := m.Get("other")
	if o, _ := other.Texture(); o != tex {
		t.Error("same file should be decoded once and shared")
	}
	if m.Len() != 3 {
		t.Errorf("len %d", m.Len())
	}
	if keys := m.Keys(); len(keys) != 3 || keys[0] != "base" || keys[2] != "other" {
		t.Errorf("keys %v", keys)
	}
}

func TestParseBadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Parse([]Pair{{"base", path}})
	if !errors.Is(err, ErrImage) {
		t.Fatalf("got %v, want ErrImage", err)
	}
}

func TestNilMap(t *testing.T) {
	var m *Map
	if _, ok := m.Get("x"); ok {
		t.Error("nil map returned a value")
	}
	if m.Len() != 0 || m.Keys() != nil {
		t.Error("nil map not empty")
	}
}
