package pipeline

// Observer is notified when a render pass starts. Implementations are
// called from worker goroutines and must be safe for concurrent use.
type Observer interface {
	// OnStartRenderPass is called once per pass on the scheduler goroutine,
	// before any texel is submitted.
	OnStartRenderPass(pass, totalTexels int) PassObserver
}

// PassObserver receives per-texel notifications for one pass.
type PassObserver interface {
	OnStartTexel(x, y int)
	OnEndTexel()
}

// NopObserver ignores all notifications.
type NopObserver struct{}

func (NopObserver) OnStartRenderPass(int, int) PassObserver { return NopObserver{} }
func (NopObserver) OnStartTexel(int, int)                   {}
func (NopObserver) OnEndTexel()                             {}
