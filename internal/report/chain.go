package report

import "github.com/AnyUserName/texturec/internal/preset"

// Chain records a filter chain as given, before placeholder substitution.
func Chain(steps []preset.Step) []FilterSpec {
	out := make([]FilterSpec, len(steps))
	for i, s := range steps {
		out[i].Name = s.Filter
		if len(s.Params) == 0 {
			continue
		}
		out[i].Params = make(map[string]string, len(s.Params))
		for _, p := range s.Params {
			out[i].Params[p.Name] = p.Value
		}
	}
	return out
}
