package filter

import (
	"fmt"
	"math"

	"github.com/AnyUserName/texturec/internal/params"
	"github.com/AnyUserName/texturec/internal/texture"
)

// Gaussian blurs the colour of the previous pass with an isotropic 2D
// Gaussian kernel. The result is opaque.
type Gaussian struct {
	sigma float64
	ksize int
}

// NewGaussian reads "sigma" (default 1.5) and the kernel half-width
// "ksize" (default 3).
func NewGaussian(p *params.Map) (Filter, error) {
	sigma, err := optFloat(p, "sigma", 1.5)
	if err != nil {
		return nil, err
	}
	if sigma <= 0 {
		return nil, InvalidParameter("sigma")
	}
	ksize, err := optInt(p, "ksize", 3)
	if err != nil {
		return nil, err
	}
	if ksize < 0 || ksize > 64 {
		return nil, InvalidParameter("ksize")
	}
	return &Gaussian{sigma: sigma, ksize: int(ksize)}, nil
}

func (f *Gaussian) TextureSize() (int, int, bool)         { return 0, 0, false }
func (f *Gaussian) TextureFormat() (texture.Format, bool) { return 0, false }

func (f *Gaussian) Describe() string {
	return fmt.Sprintf("Gaussian(sigma=%g, n=%d)", f.sigma, f.ksize)
}

// Kernel returns the weights of the (2k+1)² window in row-major order,
// normalized to sum to one.
func (f *Gaussian) Kernel() []float64 {
	n := 2*f.ksize + 1
	w := make([]float64, 0, n*n)
	s2 := f.sigma * f.sigma
	sum := 0.0
	for dy := -f.ksize; dy <= f.ksize; dy++ {
		for dx := -f.ksize; dx <= f.ksize; dx++ {
			d2 := float64(dx*dx + dy*dy)
			v := math.Exp(-d2/(2*s2)) / (2 * math.Pi * s2)
			w = append(w, v)
			sum += v
		}
	}
	for i := range w {
		w[i] /= sum
	}
	return w
}

func (f *Gaussian) NewFunction(fb FrameBuffer) (Function, error) {
	prev, err := requirePrevious(fb)
	if err != nil {
		return nil, err
	}
	if err := requireSameSize(fb, prev); err != nil {
		return nil, err
	}
	if !prev.Format().Is8Bit() {
		return nil, ErrUnsupportedPreviousFormat
	}
	if !fb.Format.Is8Bit() {
		return nil, ErrUnsupportedFormat
	}
	return &gaussianFunc{
		prev:   prev,
		kernel: f.Kernel(),
		k:      f.ksize,
		maxX:   fb.Width - 1,
		maxY:   fb.Height - 1,
		format: fb.Format,
	}, nil
}

type gaussianFunc struct {
	prev       texture.Texture
	kernel     []float64
	k          int
	maxX, maxY int
	format     texture.Format
}

func (g *gaussianFunc) Apply(x, y int) texture.Texel {
	var acc [3]float64
	i := 0
	for dy := -g.k; dy <= g.k; dy++ {
		qy := clampInt(y+dy, 0, g.maxY)
		for dx := -g.k; dx <= g.k; dx++ {
			qx := clampInt(x+dx, 0, g.maxX)
			t, _ := g.prev.Get(qx, qy)
			r, gr, b, _, _ := t.RGBA()
			w := g.kernel[i]
			acc[0] += float64(r) * w
			acc[1] += float64(gr) * w
			acc[2] += float64(b) * w
			i++
		}
	}
	out := texture.NewRGBA8(round8(acc[0]), round8(acc[1]), round8(acc[2]), 255)
	t, _ := out.Convert(g.format)
	return t
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round8(v float64) uint8 {
	return uint8(math.Min(math.Max(math.Round(v), 0), 255))
}
