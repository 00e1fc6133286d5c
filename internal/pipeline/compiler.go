package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/AnyUserName/texturec/internal/encoder"
	"github.com/AnyUserName/texturec/internal/filter"
	"github.com/AnyUserName/texturec/internal/hasher"
	"github.com/AnyUserName/texturec/internal/params"
	"github.com/AnyUserName/texturec/internal/swapchain"
	"github.com/AnyUserName/texturec/internal/texture"
)

// Defaults used when neither the caller nor any filter picks a value.
const (
	DefaultWidth       = 256
	DefaultHeight      = 256
	DefaultPreviewPath = "debug.png"
)

// ErrNoFilters is returned by Run when no filter was added.
var ErrNoFilters = errors.New("no filters configured")

// AddFilterError reports a filter that could not be configured.
type AddFilterError struct {
	Name string
	Err  error
}

func (e *AddFilterError) Error() string {
	return fmt.Sprintf("filter %q: %v", e.Name, e.Err)
}

func (e *AddFilterError) Unwrap() error { return e.Err }

// Config holds the parameters of one compilation.
type Config struct {
	// Width and Height fix the canvas size; 0 lets the filters decide.
	Width  int
	Height int
	// Format fixes the texel format of every pass; nil lets the filters
	// decide.
	Format *texture.Format
	// Threads is the worker count per pass; 0 uses one per CPU.
	Threads int
	// Debug writes an RGBA preview of the result to PreviewPath.
	Debug       bool
	PreviewPath string
	Observer    Observer
}

// Result is the outcome of a compilation.
type Result struct {
	Canvas   *texture.Canvas
	Passes   []PassStats
	Threads  int
	Digest   string
	Preview  string
	Duration time.Duration
}

// Compiler collects filters and runs them as a pipeline.
type Compiler struct {
	cfg      Config
	catalog  filter.Resolver
	registry *encoder.Registry
	filters  []filter.Filter
	names    []string
}

// NewCompiler creates a compiler. A nil catalog uses filter.Default().
func NewCompiler(cfg Config, catalog filter.Resolver) *Compiler {
	if catalog == nil {
		catalog = filter.Default()
	}
	if cfg.PreviewPath == "" {
		cfg.PreviewPath = DefaultPreviewPath
	}
	return &Compiler{cfg: cfg, catalog: catalog}
}

// AddFilter parses the parameters and appends the named filter.
func (c *Compiler) AddFilter(name string, pairs []params.Pair) error {
	p, err := params.Parse(pairs)
	if err != nil {
		return &AddFilterError{Name: name, Err: err}
	}
	return c.addFilter(name, p)
}

// AddFilterParams appends the named filter with already typed parameters.
func (c *Compiler) AddFilterParams(name string, p *params.Map) error {
	return c.addFilter(name, p)
}

func (c *Compiler) addFilter(name string, p *params.Map) error {
	f, found, err := c.catalog.Resolve(name, p)
	if !found {
		return &AddFilterError{Name: name, Err: filter.ErrUnknownFilter}
	}
	if err != nil {
		return &AddFilterError{Name: name, Err: err}
	}
	c.filters = append(c.filters, f)
	c.names = append(c.names, name)
	Logger().Debug("filter added", "name", name, "filter", f.Describe(), "params", p.Keys())
	return nil
}

// Filters returns the configured filters in pass order.
func (c *Compiler) Filters() []filter.Filter { return c.filters }

// Names returns the catalog names of the configured filters.
func (c *Compiler) Names() []string { return c.names }

// Negotiate picks the canvas size and output format. Values set in the
// config win; otherwise the first filter declaring a size provides the
// size and the first declaring a format provides the format. The size is
// reported as configured, before power-of-two rounding.
func (c *Compiler) Negotiate() (width, height int, format texture.Format) {
	width, height = c.cfg.Width, c.cfg.Height
	if width <= 0 || height <= 0 {
		w, h := DefaultWidth, DefaultHeight
		for _, f := range c.filters {
			if fw, fh, ok := f.TextureSize(); ok {
				w, h = fw, fh
				break
			}
		}
		if width <= 0 {
			width = w
		}
		if height <= 0 {
			height = h
		}
	}

	if c.cfg.Format != nil {
		return width, height, *c.cfg.Format
	}
	format = texture.DefaultFormat
	for _, f := range c.filters {
		if ff, ok := f.TextureFormat(); ok {
			format = ff
			break
		}
	}
	return width, height, format
}

// PassFormats returns the render format of each pass given the negotiated
// output format. A configured format applies to every pass. Otherwise a
// pass uses its filter's declared format, the last pass falls back to the
// output format, and other passes keep the format of the pass before them
// (RGBA8 for the first). Finally, a pass followed by a filter that demands
// a previous format is rendered in that format.
func (c *Compiler) PassFormats(output texture.Format) []texture.Format {
	formats := make([]texture.Format, len(c.filters))
	if c.cfg.Format != nil {
		for i := range formats {
			formats[i] = *c.cfg.Format
		}
		return formats
	}
	for i, f := range c.filters {
		switch {
		case declared(f):
			formats[i], _ = f.TextureFormat()
		case i == len(c.filters)-1:
			formats[i] = output
		case i > 0:
			formats[i] = formats[i-1]
		default:
			formats[i] = texture.DefaultFormat
		}
	}
	for i := 1; i < len(c.filters); i++ {
		if pf, ok := c.filters[i].(filter.PreviousFormatter); ok {
			formats[i-1] = pf.PreviousFormat()
		}
	}
	return formats
}

func declared(f filter.Filter) bool {
	_, ok := f.TextureFormat()
	return ok
}

// Run negotiates, executes every pass and returns the final canvas. The
// first failing pass aborts the run.
func (c *Compiler) Run() (*Result, error) {
	if len(c.filters) == 0 {
		return nil, ErrNoFilters
	}
	start := time.Now()
	w, h, format := c.Negotiate()
	formats := c.PassFormats(format)
	chain := swapchain.New(w, h, formats[0])
	Logger().Debug("negotiated",
		"width", chain.Width(), "height", chain.Height(),
		"format", format.String(), "passes", len(c.filters))

	p := New(c.filters, chain, c.cfg.Threads, c.cfg.Observer, formats)
	for p.Pass() < p.Len() {
		if err := p.NextPass(); err != nil {
			return nil, err
		}
	}
	canvas := p.Finish()

	res := &Result{
		Canvas:  canvas,
		Passes:  p.Stats(),
		Threads: p.Threads(),
		Digest:  hasher.Canvas(canvas),
	}
	if c.cfg.Debug {
		if err := c.writePreview(canvas); err != nil {
			return nil, fmt.Errorf("preview: %w", err)
		}
		res.Preview = c.cfg.PreviewPath
	}
	res.Duration = time.Since(start)
	return res, nil
}

func (c *Compiler) writePreview(canvas *texture.Canvas) error {
	if c.registry == nil {
		c.registry = encoder.NewRegistry()
	}
	// Full quality keeps lossy preview formats as close to the canvas as
	// they allow.
	if _, err := c.registry.WriteFile(c.cfg.PreviewPath, canvas.ToRGBA(), 100); err != nil {
		return err
	}
	Logger().Debug("preview written", "path", c.cfg.PreviewPath)
	return nil
}
