// Package preset holds named filter chains.
package preset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AnyUserName/texturec/internal/params"
)

// InputPlaceholder stands for the source image in batch mode.
const InputPlaceholder = "@input"

// Step is one filter of a chain with its raw parameters.
type Step struct {
	Filter string
	Params []params.Pair
}

// Preset is a reusable filter chain with optional output settings.
type Preset struct {
	Name        string
	Description string
	Steps       []Step
	Format      string // output format, empty to negotiate
	Width       int    // 0 to negotiate
	Height      int
}

func step(filter string, kv ...string) Step {
	s := Step{Filter: filter}
	for i := 0; i+1 < len(kv); i += 2 {
		s.Params = append(s.Params, params.Pair{Name: kv[i], Value: kv[i+1]})
	}
	return s
}

// Built-in presets.
var presets = map[string]Preset{
	"grey-noise": {
		Name:        "grey-noise",
		Description: "white noise, brightened, reduced to luminance",
		Steps: []Step{
			step("noise", "mode", "random"),
			step("brightness", "brightness", "1.5"),
			step("greyscale", "alpha", "false"),
		},
	},
	"heightmap": {
		Name:        "heightmap",
		Description: "Perlin noise as a single-channel float heightmap",
		Steps: []Step{
			step("noise", "mode", "perlin"),
		},
		Format: "f32",
	},
	"soft-grey": {
		Name:        "soft-grey",
		Description: "source image blurred and reduced to luminance with alpha",
		Steps: []Step{
			step("resample", "base", InputPlaceholder),
			step("gaussian", "sigma", "1.5", "ksize", "3"),
			step("greyscale", "alpha", "true"),
		},
	},
	"pow2": {
		Name:        "pow2",
		Description: "source image copied onto a power-of-two canvas",
		Steps: []Step{
			step("resample", "base", InputPlaceholder),
		},
	},
}

// Get returns a preset by name.
func Get(name string) (Preset, error) {
	p, ok := presets[strings.ToLower(name)]
	if !ok {
		return Preset{}, fmt.Errorf("unknown preset %q (have %s)", name, strings.Join(Names(), ", "))
	}
	p.Steps = cloneSteps(p.Steps)
	return p, nil
}

// Names lists the built-in presets in order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// UsesInput reports whether any step refers to the batch source image.
func UsesInput(steps []Step) bool {
	for _, s := range steps {
		for _, p := range s.Params {
			if p.Value == InputPlaceholder {
				return true
			}
		}
	}
	return false
}

// WithInput returns a copy of steps with every InputPlaceholder value
// replaced by path.
func WithInput(steps []Step, path string) []Step {
	out := cloneSteps(steps)
	for i := range out {
		for j := range out[i].Params {
			if out[i].Params[j].Value == InputPlaceholder {
				out[i].Params[j].Value = path
			}
		}
	}
	return out
}

func cloneSteps(steps []Step) []Step {
	out := make([]Step, len(steps))
	for i, s := range steps {
		out[i] = Step{Filter: s.Filter, Params: append([]params.Pair(nil), s.Params...)}
	}
	return out
}
