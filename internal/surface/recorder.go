package surface

import (
	"sync"

	"golang.org/x/net/html"
)

// Op is one recorded surface call
type Op struct {
	Kind   string // clear, draw, handler, attr
	Target string
	Event  EventType
	Key    string
	Val    string
	Node   *html.Node
}

// Recorder is a headless Surface and Tooltips that records every call.
// Dispatch runs the recorded handlers the way a Container would.
type Recorder struct {
	id string

	mu       sync.Mutex
	ops      []Op
	nodes    []*html.Node
	bindings []binding
	tooltips []Tooltip
	hidden   int
}

// NewRecorder creates a recorder for container id
func NewRecorder(id string) *Recorder {
	return &Recorder{id: id}
}

// ID returns the container id
func (r *Recorder) ID() string { return r.id }

// Clear records a clear and drops drawn nodes and handlers
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, Op{Kind: "clear"})
	r.nodes = nil
	r.bindings = nil
}

// Draw records a drawn node tree
func (r *Recorder) Draw(n *html.Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, Op{Kind: "draw", Node: n})
	r.nodes = append(r.nodes, n)
}

// AttachHandler records a handler registration
func (r *Recorder) AttachHandler(target string, event EventType, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, Op{Kind: "handler", Target: target, Event: event})
	r.bindings = append(r.bindings, binding{target: target, event: event, h: h})
}

// SetAttr records an attribute update and applies it to the drawn nodes
func (r *Recorder) SetAttr(target, key, val string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, Op{Kind: "attr", Target: target, Key: key, Val: val})
	n := FindByID(r.nodes, target)
	if n == nil {
		return false
	}
	SetAttr(n, key, val)
	return true
}

// ShowTooltip records a shown tooltip
func (r *Recorder) ShowTooltip(t Tooltip) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.Visible = true
	r.tooltips = append(r.tooltips, t)
}

// HideTooltip records a hide
func (r *Recorder) HideTooltip(int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hidden++
}

// Ops returns the recorded calls
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Op(nil), r.ops...)
}

// Nodes returns the drawn root nodes
func (r *Recorder) Nodes() []*html.Node {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*html.Node(nil), r.nodes...)
}

// Handlers counts registered handlers of event type
func (r *Recorder) Handlers(event EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, b := range r.bindings {
		if b.event == event {
			n++
		}
	}
	return n
}

// Tooltips returns every tooltip shown so far
func (r *Recorder) Tooltips() []Tooltip {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Tooltip(nil), r.tooltips...)
}

// Hidden counts HideTooltip calls
func (r *Recorder) Hidden() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hidden
}

// FindAll returns drawn elements matching pred
func (r *Recorder) FindAll(pred func(*html.Node) bool) []*html.Node {
	return FindAll(r.Nodes(), pred)
}

// FindByID returns the drawn element with id
func (r *Recorder) FindByID(id string) *html.Node {
	return FindByID(r.Nodes(), id)
}

// Dispatch runs handlers for ev like Container.Dispatch
func (r *Recorder) Dispatch(ev *Event) bool {
	r.mu.Lock()
	calls := collectHandlers(r.nodes, r.bindings, ev)
	r.mu.Unlock()
	return runHandlers(calls, ev)
}
