package texture

import "math"

// Texture is the read capability shared by source images and canvases.
type Texture interface {
	Width() int
	Height() int
	Format() Format

	// Get returns the texel at (x, y), or false when the position is out of
	// range.
	Get(x, y int) (Texel, bool)
}

// Sample returns the texel nearest to the normalized position (u, v), where
// both coordinates are in [0, 1).
func Sample(t Texture, u, v float64) (Texel, bool) {
	x := math.Floor(u * float64(t.Width()))
	y := math.Floor(v * float64(t.Height()))
	if x < 0 || y < 0 {
		return Texel{}, false
	}
	return t.Get(int(x), int(y))
}

// SameSize reports whether a and b have identical dimensions.
func SameSize(a, b Texture) bool {
	return a.Width() == b.Width() && a.Height() == b.Height()
}
