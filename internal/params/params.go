// Package params implements the typed parameter map filters read when they
// are constructed.
package params

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/AnyUserName/texturec/internal/texture"
)

// ErrImage is wrapped by Parse when a texture parameter fails to load.
var ErrImage = errors.New("image parameter")

// Kind identifies the type held by a Parameter.
type Kind uint8

const (
	KindTexture Kind = iota
	KindFloat
	KindInt
	KindBool
	KindVec2
	KindVec3
	KindVec4
	KindString
)

var kindNames = [...]string{"texture", "float", "int", "bool", "vec2", "vec3", "vec4", "string"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Parameter is a single typed value.
type Parameter struct {
	kind Kind
	tex  *texture.ImageTexture
	num  [4]float64
	i    int64
	b    bool
	s    string
}

func Texture(t *texture.ImageTexture) Parameter { return Parameter{kind: KindTexture, tex: t} }
func Float(v float64) Parameter                 { return Parameter{kind: KindFloat, num: [4]float64{v}} }
func Int(v int64) Parameter                     { return Parameter{kind: KindInt, i: v} }
func Bool(v bool) Parameter                     { return Parameter{kind: KindBool, b: v} }
func Vec2(v [2]float64) Parameter               { return Parameter{kind: KindVec2, num: [4]float64{v[0], v[1]}} }
func Vec3(v [3]float64) Parameter {
	return Parameter{kind: KindVec3, num: [4]float64{v[0], v[1], v[2]}}
}
func Vec4(v [4]float64) Parameter { return Parameter{kind: KindVec4, num: v} }
func String(v string) Parameter   { return Parameter{kind: KindString, s: v} }

func (p Parameter) Kind() Kind { return p.kind }

func (p Parameter) Texture() (*texture.ImageTexture, bool) { return p.tex, p.kind == KindTexture }

// Float returns the value of a float parameter. Int parameters are widened
// so that "2" is accepted wherever "2.0" is.
func (p Parameter) Float() (float64, bool) {
	switch p.kind {
	case KindFloat:
		return p.num[0], true
	case KindInt:
		return float64(p.i), true
	}
	return 0, false
}

func (p Parameter) Int() (int64, bool)  { return p.i, p.kind == KindInt }
func (p Parameter) Bool() (bool, bool)  { return p.b, p.kind == KindBool }
func (p Parameter) Str() (string, bool) { return p.s, p.kind == KindString }

func (p Parameter) Vec2() ([2]float64, bool) {
	return [2]float64{p.num[0], p.num[1]}, p.kind == KindVec2
}

func (p Parameter) Vec3() ([3]float64, bool) {
	return [3]float64{p.num[0], p.num[1], p.num[2]}, p.kind == KindVec3
}

func (p Parameter) Vec4() ([4]float64, bool) { return p.num, p.kind == KindVec4 }

// Pair is one raw name/value parameter as given on the command line.
type Pair struct {
	Name  string
	Value string
}

// ParsePair splits "name=value".
func ParsePair(s string) (Pair, error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return Pair{}, fmt.Errorf("parameter %q: want name=value", s)
	}
	return Pair{Name: name, Value: value}, nil
}

// Map holds the parameters of one filter.
type Map struct {
	content map[string]Parameter
}

// NewMap builds a map from already typed parameters.
func NewMap(content map[string]Parameter) *Map {
	m := &Map{content: make(map[string]Parameter, len(content))}
	for k, v := range content {
		m.content[k] = v
	}
	return m
}

// Parse types raw pairs. A value naming an existing regular file is decoded
// as a texture; otherwise it is tried as an int, a float, a bool, a
// comma-separated 2, 3 or 4 component float vector, and finally kept as a
// string. Files referenced more than once are decoded once.
func Parse(pairs []Pair) (*Map, error) {
	m := &Map{content: make(map[string]Parameter, len(pairs))}
	loaded := map[string]*texture.ImageTexture{}
	for _, p := range pairs {
		if info, err := os.Stat(p.Value); err == nil && info.Mode().IsRegular() {
			tex, ok := loaded[p.Value]
			if !ok {
				tex, err = texture.LoadImageTexture(p.Value)
				if err != nil {
					return nil, fmt.Errorf("%w %q: %w", ErrImage, p.Name, err)
				}
				loaded[p.Value] = tex
			}
			m.content[p.Name] = Texture(tex)
			continue
		}
		m.content[p.Name] = ParseValue(p.Value)
	}
	return m, nil
}

// ParseValue types a non-file value.
func ParseValue(v string) Parameter {
	if i, err := strconv.ParseInt(v, 10, 64); err == nil {
		return Int(i)
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return Float(f)
	}
	switch strings.ToLower(v) {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	if vec, n, ok := parseVector(v); ok {
		switch n {
		case 2:
			return Vec2([2]float64{vec[0], vec[1]})
		case 3:
			return Vec3([3]float64{vec[0], vec[1], vec[2]})
		case 4:
			return Vec4(vec)
		}
	}
	return String(v)
}

func parseVector(v string) (vec [4]float64, n int, ok bool) {
	parts := strings.Split(v, ",")
	if len(parts) < 2 || len(parts) > 4 {
		return vec, 0, false
	}
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return vec, 0, false
		}
		vec[i] = f
	}
	return vec, len(parts), true
}

// Get returns the named parameter.
func (m *Map) Get(name string) (Parameter, bool) {
	if m == nil {
		return Parameter{}, false
	}
	p, ok := m.content[name]
	return p, ok
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.content)
}

// Keys returns the parameter names in sorted order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, len(m.content))
	for k := range m.content {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
