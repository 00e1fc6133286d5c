// Package pipeline runs an ordered list of filters over a swap chain. Each
// pass is computed in parallel and merged into the render target on the
// calling goroutine.
package pipeline

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/AnyUserName/texturec/internal/filter"
	"github.com/AnyUserName/texturec/internal/swapchain"
	"github.com/AnyUserName/texturec/internal/texture"
)

// PassError reports a filter that could not set up its pass. No texel of
// that pass has been computed.
type PassError struct {
	Pass   int
	Filter string
	Err    error
}

func (e *PassError) Error() string {
	return fmt.Sprintf("pass %d (%s): %v", e.Pass, e.Filter, e.Err)
}

func (e *PassError) Unwrap() error { return e.Err }

// PassStats records what one pass did.
type PassStats struct {
	Pass     int
	Filter   string
	Format   texture.Format
	Width    int
	Height   int
	Texels   int
	Dropped  int
	Duration time.Duration
}

// Pipeline steps through the passes of a filter chain. It is driven by a
// single goroutine; only Function.Apply runs concurrently.
type Pipeline struct {
	filters []filter.Filter
	formats []texture.Format
	chain   *swapchain.SwapChain
	threads int
	obs     Observer
	pass    int
	stats   []PassStats
}

// New creates a pipeline. threads <= 0 uses one worker per CPU and a nil
// observer is replaced by NopObserver. formats gives the render format of
// each pass; when nil every pass renders in the chain's format.
func New(filters []filter.Filter, chain *swapchain.SwapChain, threads int, obs Observer, formats []texture.Format) *Pipeline {
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	if obs == nil {
		obs = NopObserver{}
	}
	if formats == nil {
		formats = make([]texture.Format, len(filters))
		for i := range formats {
			formats[i] = chain.Format()
		}
	}
	if len(formats) != len(filters) {
		panic(fmt.Sprintf("pipeline: %d formats for %d filters", len(formats), len(filters)))
	}
	return &Pipeline{
		filters: filters,
		formats: formats,
		chain:   chain,
		threads: threads,
		obs:     obs,
	}
}

// Pass returns the index of the next pass to run.
func (p *Pipeline) Pass() int { return p.pass }

// Len returns the number of passes.
func (p *Pipeline) Len() int { return len(p.filters) }

// Threads returns the worker count used per pass.
func (p *Pipeline) Threads() int { return p.threads }

// Stats returns the statistics of the passes run so far.
func (p *Pipeline) Stats() []PassStats {
	out := make([]PassStats, len(p.stats))
	copy(out, p.stats)
	return out
}

type texelResult struct {
	x, y  int
	texel texture.Texel
}

type position struct{ x, y int }

// NextPass runs the next filter. On error the pass counter does not move
// and both canvases are back in the chain. Calling NextPass after the last
// pass panics.
func (p *Pipeline) NextPass() error {
	if p.pass >= len(p.filters) {
		panic(fmt.Sprintf("pipeline: NextPass called after the last of %d passes", len(p.filters)))
	}
	start := time.Now()
	f := p.filters[p.pass]
	format := p.formats[p.pass]

	target := p.chain.Next()
	target.Reformat(format)
	var previous *texture.Canvas
	if p.pass > 0 {
		previous = p.chain.Next()
	}
	release := func() {
		if previous != nil {
			p.chain.PutBack(previous)
		}
		p.chain.PutBack(target)
	}

	fb := filter.FrameBuffer{Width: target.Width(), Height: target.Height(), Format: format}
	if previous != nil {
		fb.Previous = previous
	}

	// One Function per worker, built up front so a bad configuration fails
	// before any texel is submitted.
	pool := make(chan filter.Function, p.threads)
	for range p.threads {
		fn, err := f.NewFunction(fb)
		if err != nil {
			release()
			return &PassError{Pass: p.pass, Filter: f.Describe(), Err: err}
		}
		pool <- fn
	}

	w, h := target.Width(), target.Height()
	Logger().Debug("render pass",
		"pass", p.pass, "filter", f.Describe(), "format", format.String(),
		"width", w, "height", h, "threads", p.threads)

	pobs := p.obs.OnStartRenderPass(p.pass, w*h)
	results := p.compute(pool, pobs, w, h)

	// Every worker has returned, so the pass holds the only references to
	// the target and previous canvases.
	held := 1
	if previous != nil {
		held = 2
	}
	if n := p.chain.Outstanding(); n != held {
		panic(fmt.Sprintf("pipeline: pass %d holds %d canvases, chain reports %d acquired", p.pass, held, n))
	}

	dropped := 0
	for _, rs := range results {
		for _, r := range rs {
			if target.Set(r.x, r.y, r.texel) {
				continue
			}
			if dropped == 0 {
				Logger().Warn("texel format mismatch",
					"pass", p.pass, "filter", f.Describe(),
					"x", r.x, "y", r.y,
					"texel", r.texel.Format().String(), "canvas", format.String())
			}
			dropped++
		}
	}
	if dropped > 0 {
		Logger().Warn("texels dropped", "pass", p.pass, "filter", f.Describe(), "count", dropped)
	}

	release()
	p.stats = append(p.stats, PassStats{
		Pass:     p.pass,
		Filter:   f.Describe(),
		Format:   format,
		Width:    w,
		Height:   h,
		Texels:   w * h,
		Dropped:  dropped,
		Duration: time.Since(start),
	})
	p.pass++
	return nil
}

// compute evaluates every position with a bounded set of workers and
// returns the results grouped per worker.
func (p *Pipeline) compute(pool chan filter.Function, pobs PassObserver, w, h int) [][]texelResult {
	tasks := make(chan position, p.threads*64)
	results := make([][]texelResult, p.threads)

	var wg sync.WaitGroup
	for i := range p.threads {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			out := make([]texelResult, 0, w*h/p.threads+1)
			for pos := range tasks {
				var fn filter.Function
				select {
				case fn = <-pool:
				default:
					panic("pipeline: function pool exhausted")
				}
				pobs.OnStartTexel(pos.x, pos.y)
				t := fn.Apply(pos.x, pos.y)
				pool <- fn
				out = append(out, texelResult{x: pos.x, y: pos.y, texel: t})
				pobs.OnEndTexel()
			}
			results[worker] = out
		}(i)
	}

	for y := range h {
		for x := range w {
			tasks <- position{x: x, y: y}
		}
	}
	close(tasks)
	wg.Wait()
	return results
}

// Finish drains the chain and returns the canvas written by the last pass
// that ran. Calling Finish before any pass panics.
func (p *Pipeline) Finish() *texture.Canvas {
	if p.pass == 0 {
		panic("pipeline: Finish called before any pass")
	}
	return p.chain.Drain()
}
