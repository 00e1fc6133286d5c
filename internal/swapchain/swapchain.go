// Package swapchain recycles the two canvases a pipeline ping-pongs
// between: one render target and the previous pass's output.
package swapchain

import (
	"fmt"

	"github.com/AnyUserName/texturec/internal/texture"
)

// Len is the number of canvases a chain ever holds.
const Len = 2

// SwapChain is a two-slot ring of canvases. Acquiring with Next and
// releasing with PutBack both advance the ring cursor, so acquiring a
// target and then the previous canvas always yields two distinct canvases,
// and the canvas released last is the one drained last.
//
// A SwapChain is owned by a single goroutine.
type SwapChain struct {
	chain       [Len]*texture.Canvas
	index       int
	width       int
	height      int
	format      texture.Format
	outstanding int
	allocated   int
}

// New creates an empty chain. Width and height are rounded up to powers of
// two so every canvas is aligned for hardware upload.
func New(width, height int, format texture.Format) *SwapChain {
	return &SwapChain{
		width:  texture.NextPowerOfTwo(width),
		height: texture.NextPowerOfTwo(height),
		format: format,
	}
}

func (s *SwapChain) Width() int             { return s.width }
func (s *SwapChain) Height() int            { return s.height }
func (s *SwapChain) Format() texture.Format { return s.format }

// Outstanding returns how many canvases are currently acquired.
func (s *SwapChain) Outstanding() int { return s.outstanding }

// Allocated returns how many canvases the chain has created so far.
func (s *SwapChain) Allocated() int { return s.allocated }

func (s *SwapChain) advance() int {
	if s.index >= Len {
		s.index = 0
	}
	i := s.index
	s.index++
	return i
}

// Next removes the canvas in the current slot, allocating one at the
// configured size and format when the slot is empty.
func (s *SwapChain) Next() *texture.Canvas {
	if s.outstanding >= Len {
		panic("swapchain: more than two canvases acquired")
	}
	i := s.advance()
	c := s.chain[i]
	s.chain[i] = nil
	if c == nil {
		c = texture.NewCanvas(s.width, s.height, s.format)
		s.allocated++
	}
	s.outstanding++
	return c
}

// PutBack returns an acquired canvas to the chain.
func (s *SwapChain) PutBack(c *texture.Canvas) {
	if c == nil {
		panic("swapchain: put back nil canvas")
	}
	if s.outstanding == 0 {
		panic("swapchain: put back without matching acquire")
	}
	i := s.advance()
	if s.chain[i] != nil {
		panic(fmt.Sprintf("swapchain: slot %d already occupied", i))
	}
	s.chain[i] = c
	s.outstanding--
}

// Drain empties the chain without allocating: the first canvas removed is
// discarded and the second, the most recently released one, is returned.
func (s *SwapChain) Drain() *texture.Canvas {
	if s.outstanding != 0 {
		panic("swapchain: drain with canvases still acquired")
	}
	var last *texture.Canvas
	for range Len {
		i := s.advance()
		if c := s.chain[i]; c != nil {
			last = c
			s.chain[i] = nil
		}
	}
	if last == nil {
		panic("swapchain: drain before any canvas was released")
	}
	return last
}
