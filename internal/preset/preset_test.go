package preset

import (
	"testing"

	"github.com/AnyUserName/texturec/internal/filter"
	"github.com/AnyUserName/texturec/internal/texture"
)

func TestBuiltinsResolve(t *testing.T) {
	known := map[string]bool{}
	for _, n := range filter.Default().Names() {
		known[n] = true
	}
	for _, name := range Names() {
		p, err := Get(name)
		if err != nil {
			t.Fatal(err)
		}
		if p.Name != name {
			t.Errorf("%s: name %q", name, p.Name)
		}
		if len(p.Steps) == 0 {
			t.Errorf("%s: empty chain", name)
		}
		for _, s := range p.Steps {
			if !known[s.Filter] {
				t.Errorf("%s: unknown filter %q", name, s.Filter)
			}
		}
		if p.Format != "" {
			if _, err := texture.ParseFormat(p.Format); err != nil {
				t.Errorf("%s: %v", name, err)
			}
		}
	}
}

func TestGetUnknown(t *testing.T) {
	if _, err := Get("nope"); err == nil {
		t.Error("expected error")
	}
	if _, err := Get("GREY-NOISE"); err != nil {
		t.Errorf("lookup is not case-insensitive: %v", err)
	}
}

func TestWithInput(t *testing.T) {
	p, err := Get("soft-grey")
	if err != nil {
		t.Fatal(err)
	}
	if !UsesInput(p.Steps) {
		t.Fatal("soft-grey should use the input image")
	}
	got := WithInput(p.Steps, "a/b.png")
	if got[0].Params[0].Value != "a/b.png" {
		t.Errorf("placeholder not replaced: %+v", got[0])
	}
	if p.Steps[0].Params[0].Value != InputPlaceholder {
		t.Error("WithInput modified its argument")
	}
	if UsesInput(got) {
		t.Error("placeholder left after substitution")
	}
}

func TestGetReturnsCopy(t *testing.T) {
	a, _ := Get("grey-noise")
	a.Steps[0].Params[0].Value = "perlin"
	b, _ := Get("grey-noise")
	if b.Steps[0].Params[0].Value != "random" {
		t.Error("built-in preset was modified through a returned copy")
	}
}
