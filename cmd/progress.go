package cmd

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/AnyUserName/texturec/internal/pipeline"
)

// displayInterval is the number of texels between progress redraws.
const displayInterval = 4096

// progress draws a per-pass percentage line on a terminal.
type progress struct {
	w     io.Writer
	names []string
}

// newProgress creates a progress display. names, the pass descriptions,
// must be set before the first pass starts.
func newProgress(w io.Writer) *progress {
	return &progress{w: w}
}

func (p *progress) OnStartRenderPass(pass, total int) pipeline.PassObserver {
	name := ""
	if pass < len(p.names) {
		name = p.names[pass]
	}
	return &passProgress{w: p.w, pass: pass, passes: len(p.names), name: name, total: int64(total)}
}

// passProgress counts finished texels of one pass. The counter only paces
// redraws; a skipped or repeated line is harmless.
type passProgress struct {
	w      io.Writer
	pass   int
	passes int
	name   string
	total  int64
	done   atomic.Int64
	mu     sync.Mutex
}

func (p *passProgress) OnStartTexel(int, int) {}

func (p *passProgress) OnEndTexel() {
	n := p.done.Add(1)
	if n%displayInterval != 0 && n != p.total {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	pct := 100 * n / max(p.total, 1)
	fmt.Fprintf(p.w, "\r  pass %d/%d  %-32s %3d%%", p.pass+1, p.passes, truncKey(p.name, 32), pct)
	if n == p.total {
		fmt.Fprintln(p.w)
	}
}

// isTerminal reports whether f is a character device.
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
