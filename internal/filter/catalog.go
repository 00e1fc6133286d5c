package filter

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/AnyUserName/texturec/internal/params"
)

// ErrUnknownFilter is returned when no factory is registered for a name.
var ErrUnknownFilter = errors.New("unknown filter")

// Factory builds a filter from its parameters.
type Factory func(p *params.Map) (Filter, error)

// Resolver is what the compiler needs from a catalog.
type Resolver interface {
	// Resolve builds the named filter. found is false when the name is not
	// registered; err reports construction failures.
	Resolve(name string, p *params.Map) (f Filter, found bool, err error)
}

// Entry documents one catalog filter.
type Entry struct {
	Name    string
	Usage   string
	Factory Factory
}

// Catalog maps filter names to factories.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]Entry)}
}

// Register adds a factory. Registering a name twice is an error.
func (c *Catalog) Register(name, usage string, f Factory) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[name]; ok {
		return fmt.Errorf("filter %q already registered", name)
	}
	c.entries[name] = Entry{Name: name, Usage: usage, Factory: f}
	return nil
}

func (c *Catalog) Resolve(name string, p *params.Map) (Filter, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[name]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	f, err := e.Factory(p)
	return f, true, err
}

// Entries lists the catalog in name order.
func (c *Catalog) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names lists the registered filter names in order.
func (c *Catalog) Names() []string {
	entries := c.Entries()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog of stock filters.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c := NewCatalog()
		for _, e := range []Entry{
			{"brightness", "brightness=<float, 1.0>", NewBrightness},
			{"gaussian", "sigma=<float, 1.5> ksize=<int, 3>", NewGaussian},
			{"greyscale", "alpha=<bool, false>", NewGreyscale},
			{"noise", "mode=<random|perlin> seed=<int, 0>", NewNoise},
			{"resample", "base=<texture path>", NewResample},
		} {
			if err := c.Register(e.Name, e.Usage, e.Factory); err != nil {
				panic(err)
			}
		}
		defaultCatalog = c
	})
	return defaultCatalog
}
