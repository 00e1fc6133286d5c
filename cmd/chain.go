package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/AnyUserName/texturec/internal/params"
	"github.com/AnyUserName/texturec/internal/preset"
)

// chainArg is one --filter or --param occurrence in command line order.
type chainArg struct {
	filter bool
	value  string
}

// chainFlags collects --filter and --param in the order they were given,
// which pflag's slice flags cannot do across two flags.
type chainFlags struct {
	args []chainArg
}

type chainFlag struct {
	c      *chainFlags
	filter bool
}

var _ pflag.Value = (*chainFlag)(nil)

func (f *chainFlag) String() string {
	var vals []string
	for _, a := range f.c.args {
		if a.filter == f.filter {
			vals = append(vals, a.value)
		}
	}
	return "[" + strings.Join(vals, ",") + "]"
}

func (f *chainFlag) Set(v string) error {
	f.c.args = append(f.c.args, chainArg{filter: f.filter, value: v})
	return nil
}

func (f *chainFlag) Type() string {
	if f.filter {
		return "name"
	}
	return "[index:]name=value"
}

// register adds --filter/-t and --param/-p to fs.
func (c *chainFlags) register(fs *pflag.FlagSet) {
	fs.VarP(&chainFlag{c: c, filter: true}, "filter", "t",
		"append a filter to the chain (repeatable, runs in order)")
	fs.VarP(&chainFlag{c: c}, "param", "p",
		"filter parameter; applies to the last --filter unless prefixed with a 0-based filter index")
}

// steps appends the flag chain to base and applies the parameters.
// Parameter indexes count from the start of base.
func (c *chainFlags) steps(base []preset.Step) ([]preset.Step, error) {
	steps := append([]preset.Step(nil), base...)
	for _, a := range c.args {
		if a.filter {
			steps = append(steps, preset.Step{Filter: strings.TrimSpace(a.value)})
			continue
		}
		idx, pair, err := parseParamArg(a.value)
		if err != nil {
			return nil, err
		}
		if idx < 0 {
			idx = len(steps) - 1
		}
		if idx < 0 {
			return nil, fmt.Errorf("--param %q given before any --filter", a.value)
		}
		if idx >= len(steps) {
			return nil, fmt.Errorf("--param %q: filter index %d out of range (%d filters so far)", a.value, idx, len(steps))
		}
		steps[idx].Params = setParam(steps[idx].Params, pair)
	}
	return steps, nil
}

// parseParamArg splits "[index:]name=value". idx is -1 without an index.
// A prefix before ':' only counts as an index when it is a number and comes
// before the '=', so values like "C:\x.png" are left alone.
func parseParamArg(v string) (idx int, p params.Pair, err error) {
	idx = -1
	colon := strings.IndexByte(v, ':')
	eq := strings.IndexByte(v, '=')
	if colon > 0 && (eq < 0 || colon < eq) {
		if n, err := strconv.Atoi(v[:colon]); err == nil {
			if n < 0 {
				return 0, p, fmt.Errorf("--param %q: negative filter index", v)
			}
			idx = n
			v = v[colon+1:]
		}
	}
	p, err = params.ParsePair(v)
	if err != nil {
		return 0, p, fmt.Errorf("--param: %w", err)
	}
	return idx, p, nil
}

// setParam replaces a parameter of the same name or appends it, so flags
// can override preset values.
func setParam(ps []params.Pair, p params.Pair) []params.Pair {
	out := append([]params.Pair(nil), ps...)
	for i := range out {
		if out[i].Name == p.Name {
			out[i].Value = p.Value
			return out
		}
	}
	return append(out, p)
}
