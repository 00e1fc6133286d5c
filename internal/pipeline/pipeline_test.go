package pipeline

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/AnyUserName/texturec/internal/filter"
	"github.com/AnyUserName/texturec/internal/params"
	"github.com/AnyUserName/texturec/internal/swapchain"
	"github.com/AnyUserName/texturec/internal/texture"
)

// probe writes a constant derived from its id and checks what it is handed
// as the previous pass.
type probe struct {
	id      int
	format  texture.Format
	declare bool
	wrong   bool // emit texels in a format other than the target's

	calls     int
	sawPrev   bool
	prevValue texture.Texel
}

func (p *probe) TextureSize() (int, int, bool) { return 0, 0, false }

func (p *probe) TextureFormat() (texture.Format, bool) { return p.format, p.declare }

func (p *probe) Describe() string { return fmt.Sprintf("probe%d", p.id) }

func (p *probe) value() texture.Texel { return texture.NewL8(uint8(p.id*10 + 1)) }

func (p *probe) NewFunction(fb filter.FrameBuffer) (filter.Function, error) {
	p.calls++
	if fb.Previous != nil {
		p.sawPrev = true
		p.prevValue, _ = fb.Previous.Get(0, 0)
	}
	v := p.value()
	if p.wrong {
		v = texture.NewRGBAF32(1, 1, 1, 1)
	}
	return filter.FunctionFunc(func(int, int) texture.Texel { return v }), nil
}

type passCounter struct {
	pass, total    int
	started, ended atomic.Int64
	badCoordinates atomic.Int64
	width, height  int
}

func (c *passCounter) OnStartTexel(x, y int) {
	c.started.Add(1)
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		c.badCoordinates.Add(1)
	}
}

func (c *passCounter) OnEndTexel() { c.ended.Add(1) }

type countingObserver struct {
	width, height int
	mu            sync.Mutex
	passes        []*passCounter
}

func (o *countingObserver) OnStartRenderPass(pass, total int) PassObserver {
	c := &passCounter{pass: pass, total: total, width: o.width, height: o.height}
	o.mu.Lock()
	o.passes = append(o.passes, c)
	o.mu.Unlock()
	return c
}

func probes(n int) []filter.Filter {
	out := make([]filter.Filter, n)
	for i := range out {
		out[i] = &probe{id: i}
	}
	return out
}

func TestPreviousPerPass(t *testing.T) {
	filters := probes(4)
	chain := swapchain.New(4, 4, texture.L8)
	p := New(filters, chain, 3, nil, nil)
	for p.Pass() < p.Len() {
		if err := p.NextPass(); err != nil {
			t.Fatal(err)
		}
		if chain.Outstanding() != 0 {
			t.Fatalf("pass %d: %d canvases outstanding", p.Pass()-1, chain.Outstanding())
		}
		if chain.Allocated() > swapchain.Len {
			t.Fatalf("pass %d: %d canvases allocated", p.Pass()-1, chain.Allocated())
		}
	}
	for i, f := range filters {
		pr := f.(*probe)
		if pr.calls != 3 {
			t.Errorf("probe%d: NewFunction called %d times, want 3", i, pr.calls)
		}
		if i == 0 {
			if pr.sawPrev {
				t.Error("pass 0 got a previous canvas")
			}
			continue
		}
		if !pr.sawPrev {
			t.Errorf("pass %d got no previous canvas", i)
			continue
		}
		if want := filters[i-1].(*probe).value(); pr.prevValue != want {
			t.Errorf("pass %d: previous holds %+v, want %+v", i, pr.prevValue, want)
		}
	}

	final := p.Finish()
	if got, _ := final.Get(3, 3); got != filters[3].(*probe).value() {
		t.Errorf("final canvas holds %+v", got)
	}
}

func TestObserverSeesEveryTexel(t *testing.T) {
	obs := &countingObserver{width: 8, height: 4}
	p := New(probes(2), swapchain.New(8, 4, texture.L8), 4, obs, nil)
	for p.Pass() < p.Len() {
		if err := p.NextPass(); err != nil {
			t.Fatal(err)
		}
	}
	if len(obs.passes) != 2 {
		t.Fatalf("%d passes observed", len(obs.passes))
	}
	for i, c := range obs.passes {
		if c.pass != i || c.total != 32 {
			t.Errorf("pass %d: observed pass=%d total=%d", i, c.pass, c.total)
		}
		if c.started.Load() != 32 || c.ended.Load() != 32 {
			t.Errorf("pass %d: started=%d ended=%d", i, c.started.Load(), c.ended.Load())
		}
		if c.badCoordinates.Load() != 0 {
			t.Errorf("pass %d: %d positions outside the canvas", i, c.badCoordinates.Load())
		}
	}
}

func TestMismatchedTexelsAreDropped(t *testing.T) {
	f := &probe{id: 0, wrong: true}
	p := New([]filter.Filter{f}, swapchain.New(4, 4, texture.L8), 2, nil, nil)
	if err := p.NextPass(); err != nil {
		t.Fatalf("mismatch must not fail the pass: %v", err)
	}
	stats := p.Stats()
	if len(stats) != 1 || stats[0].Dropped != 16 || stats[0].Texels != 16 {
		t.Fatalf("stats %+v", stats)
	}
	final := p.Finish()
	for _, b := range final.Bytes() {
		if b != 0 {
			t.Fatal("dropped texel was written")
		}
	}
}

func TestPassFailureSubmitsNothing(t *testing.T) {
	noise, err := filter.NewNoise(params.NewMap(nil))
	if err != nil {
		t.Fatal(err)
	}
	grey, err := filter.NewGreyscale(params.NewMap(nil))
	if err != nil {
		t.Fatal(err)
	}
	obs := &countingObserver{width: 8, height: 8}
	chain := swapchain.New(8, 8, texture.RGBAF32)
	p := New([]filter.Filter{noise, grey}, chain, 4, obs,
		[]texture.Format{texture.RGBAF32, texture.L8})

	if err := p.NextPass(); err != nil {
		t.Fatalf("noise pass: %v", err)
	}
	err = p.NextPass()
	if !errors.Is(err, filter.ErrUnsupportedPreviousFormat) {
		t.Fatalf("got %v, want ErrUnsupportedPreviousFormat", err)
	}
	var pe *PassError
	if !errors.As(err, &pe) || pe.Pass != 1 || pe.Filter != "Greyscale" {
		t.Errorf("PassError %+v", pe)
	}
	if len(obs.passes) != 1 {
		t.Errorf("failed pass was started: %d passes observed", len(obs.passes))
	}
	if p.Pass() != 1 {
		t.Errorf("pass counter moved to %d", p.Pass())
	}
	if chain.Outstanding() != 0 {
		t.Errorf("%d canvases not returned", chain.Outstanding())
	}
}

func TestPassFormats(t *testing.T) {
	p := New([]filter.Filter{
		&probe{id: 0},
		&probe{id: 1, format: texture.L8, declare: true},
	}, swapchain.New(4, 4, texture.RGBA8), 1, nil, []texture.Format{texture.RGBA8, texture.L8})
	for p.Pass() < p.Len() {
		if err := p.NextPass(); err != nil {
			t.Fatal(err)
		}
	}
	stats := p.Stats()
	// probe 0 emits L8 into an RGBA8 target; probe 1 matches its target.
	if stats[0].Format != texture.RGBA8 || stats[0].Dropped != 16 {
		t.Errorf("pass 0: %+v", stats[0])
	}
	if stats[1].Format != texture.L8 || stats[1].Dropped != 0 {
		t.Errorf("pass 1: %+v", stats[1])
	}
	if final := p.Finish(); final.Format() != texture.L8 {
		t.Errorf("final format %s", final.Format())
	}
}

func TestNextPassAfterLastPanics(t *testing.T) {
	p := New(probes(1), swapchain.New(2, 2, texture.L8), 1, nil, nil)
	if err := p.NextPass(); err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	p.NextPass()
}

func TestFinishBeforeFirstPassPanics(t *testing.T) {
	p := New(probes(1), swapchain.New(2, 2, texture.L8), 1, nil, nil)
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	p.Finish()
}

func TestFormatsLengthMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	New(probes(2), swapchain.New(2, 2, texture.L8), 1, nil, []texture.Format{texture.L8})
}

func TestForeignAcquirePanicsAtBarrier(t *testing.T) {
	chain := swapchain.New(2, 2, texture.L8)
	p := New(probes(1), chain, 2, nil, nil)
	chain.Next()
	defer func() {
		if recover() == nil {
			t.Error("expected panic when the chain has an extra canvas acquired")
		}
	}()
	p.NextPass()
}

func TestDefaultThreads(t *testing.T) {
	p := New(probes(1), swapchain.New(2, 2, texture.L8), 0, nil, nil)
	if p.Threads() < 1 {
		t.Errorf("threads %d", p.Threads())
	}
}
