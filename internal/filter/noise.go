package filter

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/AnyUserName/texturec/internal/params"
	"github.com/AnyUserName/texturec/internal/texture"
)

type noiseMode uint8

const (
	noiseRandom noiseMode = iota
	noisePerlin
)

// Noise fills the canvas with white noise or Perlin noise. It does not read
// the previous pass, so it can run as pass 0.
//
// White noise is a hash of (seed, x, y) rather than a stateful generator,
// which keeps the output independent of how pixels are spread across
// workers.
type Noise struct {
	mode   noiseMode
	seed   int64
	perlin *perlin
}

// NewNoise reads "mode" (random or perlin, default random) and "seed".
func NewNoise(p *params.Map) (Filter, error) {
	mode, err := optString(p, "mode", "random")
	if err != nil {
		return nil, err
	}
	seed, err := optInt(p, "seed", 0)
	if err != nil {
		return nil, err
	}
	n := &Noise{seed: seed}
	switch mode {
	case "random":
		n.mode = noiseRandom
	case "perlin":
		n.mode = noisePerlin
		n.perlin = newPerlin(seed)
	default:
		return nil, InvalidParameter("mode")
	}
	return n, nil
}

func (f *Noise) TextureSize() (int, int, bool)         { return 0, 0, false }
func (f *Noise) TextureFormat() (texture.Format, bool) { return 0, false }

func (f *Noise) Describe() string {
	if f.mode == noisePerlin {
		return fmt.Sprintf("Noise(perlin, seed=%d)", f.seed)
	}
	return fmt.Sprintf("Noise(random, seed=%d)", f.seed)
}

func (f *Noise) NewFunction(fb FrameBuffer) (Function, error) {
	format := fb.Format
	if f.mode == noisePerlin {
		w, h := float64(fb.Width), float64(fb.Height)
		return FunctionFunc(func(x, y int) texture.Texel {
			z := math.Min(math.Abs(f.perlin.at(2*float64(x)/w, 2*float64(y)/h)), 1)
			return texture.FromNormalized([4]float64{z, z, z, 1}, format)
		}), nil
	}
	seed := uint64(f.seed)
	return FunctionFunc(func(x, y int) texture.Texel {
		h := hashPosition(seed, x, y)
		switch format {
		case texture.L8:
			return texture.NewL8(uint8(h))
		case texture.LA8:
			return texture.NewLA8(uint8(h), uint8(h>>8))
		case texture.RGBA8:
			return texture.NewRGBA8(uint8(h), uint8(h>>8), uint8(h>>16), uint8(h>>24))
		case texture.F32:
			return texture.NewF32(unit16(h))
		default:
			return texture.NewRGBAF32(unit16(h), unit16(h>>16), unit16(h>>32), unit16(h>>48))
		}
	}), nil
}

func hashPosition(seed uint64, x, y int) uint64 {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:], seed)
	binary.LittleEndian.PutUint64(buf[8:], uint64(x))
	binary.LittleEndian.PutUint64(buf[16:], uint64(y))
	return xxhash.Sum64(buf[:])
}

// unit16 maps the low 16 bits of h to [0, 1).
func unit16(h uint64) float32 {
	return float32(h&0xffff) / 65536
}
