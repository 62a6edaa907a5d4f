// Package dashboard orchestrates render passes over a page's chart
// containers: the render guard, resize debouncing, the route table and the
// detail drill-down view.
package dashboard

import (
	"sync"
	"time"

	"k8s.io/utils/clock"

	"insightdash/internal/logger"
)

// State is the render guard state
type State int

const (
	Idle State = iota
	Rendering
)

func (s State) String() string {
	if s == Rendering {
		return "rendering"
	}
	return "idle"
}

// DefaultRenderTimeout bounds how long a pass may hold the guard
const DefaultRenderTimeout = 10 * time.Second

// Guard admits one render pass at a time. A pass that never releases the
// guard is forced out when the safety timer fires.
type Guard struct {
	clock   clock.WithDelayedExecution
	timeout time.Duration
	log     *logger.Logger

	mu         sync.Mutex
	state      State
	generation uint64
	timer      clock.Timer
}

// NewGuard creates an idle guard
func NewGuard(clk clock.WithDelayedExecution, timeout time.Duration) *Guard {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if timeout <= 0 {
		timeout = DefaultRenderTimeout
	}
	return &Guard{
		clock:   clk,
		timeout: timeout,
		log:     logger.Component("guard"),
	}
}

// Pass is a held guard. Only the pass that acquired the guard most recently
// can release it.
type Pass struct {
	g          *Guard
	generation uint64
}

// Acquire moves the guard to Rendering and starts the safety timer. It
// reports false, and does nothing, while another pass is rendering.
func (g *Guard) Acquire() (Pass, bool) {
	g.mu.Lock()
	if g.state == Rendering {
		g.mu.Unlock()
		return Pass{}, false
	}
	g.state = Rendering
	g.generation++
	gen := g.generation
	g.mu.Unlock()

	// timer callbacks take g.mu, so the clock is never called with it held
	timer := g.clock.AfterFunc(g.timeout, func() { g.expire(gen) })

	g.mu.Lock()
	if g.generation == gen && g.state == Rendering {
		g.timer = timer
		timer = nil
	}
	g.mu.Unlock()
	if timer != nil {
		timer.Stop()
	}
	return Pass{g: g, generation: gen}, true
}

// Release returns the guard to Idle and cancels the safety timer. Releasing
// a pass the timer already forced out is a no-op.
func (p Pass) Release() {
	g := p.g
	if g == nil {
		return
	}
	g.mu.Lock()
	if g.generation != p.generation || g.state != Rendering {
		g.mu.Unlock()
		return
	}
	g.state = Idle
	timer := g.timer
	g.timer = nil
	g.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
}

func (g *Guard) expire(gen uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.generation != gen || g.state != Rendering {
		return
	}
	g.state = Idle
	g.timer = nil
	g.log.Warn("render pass exceeded safety timeout, forcing idle", map[string]interface{}{
		"timeout": g.timeout.String(),
	})
}

// State returns the current guard state
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}
