package filter

import "github.com/AnyUserName/texturec/internal/params"

// Optional parameter readers: absent parameters yield def, present ones of
// the wrong kind are rejected with ErrInvalidParameter.

func optFloat(p *params.Map, name string, def float64) (float64, error) {
	v, ok := p.Get(name)
	if !ok {
		return def, nil
	}
	f, ok := v.Float()
	if !ok {
		return 0, InvalidParameter(name)
	}
	return f, nil
}

func optInt(p *params.Map, name string, def int64) (int64, error) {
	v, ok := p.Get(name)
	if !ok {
		return def, nil
	}
	i, ok := v.Int()
	if !ok {
		return 0, InvalidParameter(name)
	}
	return i, nil
}

func optBool(p *params.Map, name string, def bool) (bool, error) {
	v, ok := p.Get(name)
	if !ok {
		return def, nil
	}
	b, ok := v.Bool()
	if !ok {
		return false, InvalidParameter(name)
	}
	return b, nil
}

func optString(p *params.Map, name, def string) (string, error) {
	v, ok := p.Get(name)
	if !ok {
		return def, nil
	}
	s, ok := v.Str()
	if !ok {
		return "", InvalidParameter(name)
	}
	return s, nil
}
