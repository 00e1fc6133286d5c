package cmd

import (
	"testing"

	"github.com/spf13/pflag"

	"github.com/AnyUserName/texturec/internal/params"
	"github.com/AnyUserName/texturec/internal/preset"
)

func parseChain(t *testing.T, args ...string) *chainFlags {
	t.Helper()
	var c chainFlags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	return &c
}

func TestChainOrder(t *testing.T) {
	c := parseChain(t,
		"-t", "noise", "-p", "mode=random",
		"--filter", "brightness", "--param", "brightness=1.5",
		"-t", "greyscale", "-p", "0:seed=7")
	steps, err := c.steps(nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []preset.Step{
		{Filter: "noise", Params: []params.Pair{{Name: "mode", Value: "random"}, {Name: "seed", Value: "7"}}},
		{Filter: "brightness", Params: []params.Pair{{Name: "brightness", Value: "1.5"}}},
		{Filter: "greyscale"},
	}
	if len(steps) != len(want) {
		t.Fatalf("got %d steps", len(steps))
	}
	for i := range want {
		if steps[i].Filter != want[i].Filter || len(steps[i].Params) != len(want[i].Params) {
			t.Fatalf("step %d: %+v, want %+v", i, steps[i], want[i])
		}
		for j := range want[i].Params {
			if steps[i].Params[j] != want[i].Params[j] {
				t.Errorf("step %d param %d: %+v, want %+v", i, j, steps[i].Params[j], want[i].Params[j])
			}
		}
	}
}

func TestChainOverridesPreset(t *testing.T) {
	p, err := preset.Get("grey-noise")
	if err != nil {
		t.Fatal(err)
	}
	c := parseChain(t, "-p", "1:brightness=2", "-t", "gaussian")
	steps, err := c.steps(p.Steps)
	if err != nil {
		t.Fatal(err)
	}
	if len(steps) != 4 || steps[3].Filter != "gaussian" {
		t.Fatalf("steps %+v", steps)
	}
	if got := steps[1].Params[0].Value; got != "2" {
		t.Errorf("brightness %q", got)
	}
	if p.Steps[1].Params[0].Value != "1.5" {
		t.Error("preset modified")
	}
}

func TestChainErrors(t *testing.T) {
	for _, args := range [][]string{
		{"-p", "seed=1"},
		{"-t", "noise", "-p", "3:seed=1"},
		{"-t", "noise", "-p", "seed"},
	} {
		c := parseChain(t, args...)
		if _, err := c.steps(nil); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestParamArgKeepsPathColons(t *testing.T) {
	idx, p, err := parseParamArg(`base=C:\tex\a.png`)
	if err != nil || idx != -1 || p.Name != "base" || p.Value != `C:\tex\a.png` {
		t.Errorf("got %d %+v %v", idx, p, err)
	}
	idx, p, err = parseParamArg(`2:base=a:b`)
	if err != nil || idx != 2 || p.Value != "a:b" {
		t.Errorf("got %d %+v %v", idx, p, err)
	}
}

func TestResolveChain(t *testing.T) {
	c := parseChain(t)
	s, err := resolveChain(c, "heightmap", "", 0, 128)
	if err != nil {
		t.Fatal(err)
	}
	if s.format == nil || s.format.String() != "F32" || s.height != 128 || len(s.steps) != 1 {
		t.Errorf("settings %+v", s)
	}
	if _, err := resolveChain(parseChain(t), "", "", 0, 0); err == nil {
		t.Error("empty chain accepted")
	}
	if _, err := resolveChain(parseChain(t, "-t", "noise"), "", "rgb", 0, 0); err == nil {
		t.Error("bad format accepted")
	}
}
