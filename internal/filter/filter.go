// Package filter defines the contract between the scheduler and the image
// filters it runs, the catalog that resolves filter names, and the stock
// filters.
package filter

import (
	"errors"
	"fmt"

	"github.com/AnyUserName/texturec/internal/texture"
)

// Frame buffer negotiation failures returned by Filter.NewFunction. Any
// other error is treated as an opaque failure of the same class.
var (
	ErrMissingPrevious           = errors.New("filter needs a previous pass")
	ErrUnsupportedSize           = errors.New("unsupported frame buffer size")
	ErrUnsupportedFormat         = errors.New("unsupported frame buffer format")
	ErrUnsupportedPreviousSize   = errors.New("unsupported previous frame buffer size")
	ErrUnsupportedPreviousFormat = errors.New("unsupported previous frame buffer format")
)

// Filter construction failures.
var (
	ErrMissingParameter = errors.New("missing parameter")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// MissingParameter reports a required parameter that was not given.
func MissingParameter(name string) error {
	return fmt.Errorf("%w %q", ErrMissingParameter, name)
}

// InvalidParameter reports a parameter of the wrong type or value.
func InvalidParameter(name string) error {
	return fmt.Errorf("%w %q", ErrInvalidParameter, name)
}

// FrameBuffer describes the render target of the upcoming pass.
type FrameBuffer struct {
	// Previous is the output of the preceding pass, nil on pass 0. It is
	// shared read-only by every Function of the pass.
	Previous texture.Texture
	Width    int
	Height   int
	Format   texture.Format
}

// Filter is a per-pipeline pass descriptor. It is built once from its
// parameters and must be safe to call from the scheduler goroutine only.
type Filter interface {
	// TextureSize returns the canvas size this filter prefers, if any.
	TextureSize() (width, height int, ok bool)

	// TextureFormat returns the canvas format this filter prefers, if any.
	TextureFormat() (texture.Format, bool)

	// Describe returns a short human readable summary.
	Describe() string

	// NewFunction validates fb and returns a compute object for one worker.
	NewFunction(fb FrameBuffer) (Function, error)
}

// PreviousFormatter is implemented by filters that only accept one format
// for the previous pass. The compiler renders the pass before such a filter
// in that format unless a format is configured for the whole chain.
type PreviousFormatter interface {
	PreviousFormat() texture.Format
}

// Function evaluates one pass at a single position. A Function is used by
// one worker at a time but may be called for many positions. Apply must
// return a texel in the frame buffer format; anything else is dropped by
// the scheduler.
type Function interface {
	Apply(x, y int) texture.Texel
}

// FunctionFunc adapts an ordinary function to Function.
type FunctionFunc func(x, y int) texture.Texel

func (f FunctionFunc) Apply(x, y int) texture.Texel { return f(x, y) }

// requirePrevious returns the previous pass or ErrMissingPrevious.
func requirePrevious(fb FrameBuffer) (texture.Texture, error) {
	if fb.Previous == nil {
		return nil, ErrMissingPrevious
	}
	return fb.Previous, nil
}

// requireSameSize checks that the previous pass matches the target size.
func requireSameSize(fb FrameBuffer, prev texture.Texture) error {
	if prev.Width() != fb.Width || prev.Height() != fb.Height {
		return ErrUnsupportedPreviousSize
	}
	return nil
}
