package dashboard

import (
	"sync"
	"time"

	"k8s.io/utils/clock"
)

// DefaultResizeDebounce is the quiet period before a resize re-renders
const DefaultResizeDebounce = 150 * time.Millisecond

// Debouncer runs fn once calls have stopped for the quiet period. Each call
// restarts the period.
type Debouncer struct {
	clock clock.WithDelayedExecution
	quiet time.Duration
	fn    func()

	mu    sync.Mutex
	timer clock.Timer
	seq   uint64
}

// NewDebouncer creates a debouncer around fn. fn runs on its own goroutine.
func NewDebouncer(clk clock.WithDelayedExecution, quiet time.Duration, fn func()) *Debouncer {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Debouncer{clock: clk, quiet: quiet, fn: fn}
}

// Call schedules fn after the quiet period, replacing any pending run
func (d *Debouncer) Call() {
	d.mu.Lock()
	d.seq++
	seq := d.seq
	prev := d.timer
	d.timer = nil
	d.mu.Unlock()

	if prev != nil {
		prev.Stop()
	}
	timer := d.clock.AfterFunc(d.quiet, func() { d.fire(seq) })

	d.mu.Lock()
	if d.seq == seq {
		d.timer = timer
		timer = nil
	}
	d.mu.Unlock()
	if timer != nil {
		timer.Stop()
	}
}

func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()
	if d.seq != seq {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	go d.fn()
}

// Stop cancels a pending run
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.seq++
	timer := d.timer
	d.timer = nil
	d.mu.Unlock()
	if timer != nil {
		timer.Stop()
	}
}
