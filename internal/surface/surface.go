// Package surface holds the drawing capability chart renderers draw into:
// SVG element builders, containers that own rendered nodes and their event
// handlers, the page document, and a recording double for tests.
package surface

import (
	"sync"

	"golang.org/x/net/html"
)

// EventType names a pointer event
type EventType string

const (
	Click     EventType = "click"
	MouseOver EventType = "mouseover"
	MouseMove EventType = "mousemove"
	MouseOut  EventType = "mouseout"
)

// Event is a pointer event delivered to handlers. PageX/PageY are page
// coordinates as reported by the client.
type Event struct {
	Type   EventType `json:"type"`
	Target string    `json:"target"`
	PageX  float64   `json:"page_x"`
	PageY  float64   `json:"page_y"`

	stopped bool
}

// StopPropagation keeps the event from reaching ancestor handlers
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Handler reacts to an event. Handlers run synchronously and must not block.
type Handler func(*Event)

// Surface is the capability a renderer draws into
type Surface interface {
	// ID is the container id
	ID() string
	// Clear removes every drawn node and handler
	Clear()
	// Draw appends a node tree
	Draw(n *html.Node)
	// AttachHandler registers h for events of type on the element with id target
	AttachHandler(target string, event EventType, h Handler)
	// SetAttr updates an attribute of a drawn element; false if it does not exist
	SetAttr(target, key, val string) bool
}

// Tooltip is the content and page position of the shared tooltip
type Tooltip struct {
	Visible bool     `json:"visible"`
	Lines   []string `json:"lines"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	// FadeMS is the opacity transition length for this change
	FadeMS int `json:"fade_ms"`
}

// Tooltips receives tooltip changes from hover handlers
type Tooltips interface {
	ShowTooltip(t Tooltip)
	HideTooltip(fadeMS int)
}

type binding struct {
	target string
	event  EventType
	h      Handler
}

// Container is a chart container on a page
type Container struct {
	id string

	mu       sync.Mutex
	nodes    []*html.Node
	bindings []binding
	version  int
}

// NewContainer creates an empty container
func NewContainer(id string) *Container {
	return &Container{id: id}
}

// ID returns the container id
func (c *Container) ID() string {
	return c.id
}

// Clear removes every drawn node and handler
func (c *Container) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nodes = nil
	c.bindings = nil
	c.version++
}

// Draw appends a node tree
func (c *Container) Draw(n *html.Node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nodes = append(c.nodes, n)
	c.version++
}

// AttachHandler registers h for events on target
func (c *Container) AttachHandler(target string, event EventType, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindings = append(c.bindings, binding{target: target, event: event, h: h})
}

// SetAttr updates an attribute of a drawn element
func (c *Container) SetAttr(target, key, val string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := FindByID(c.nodes, target)
	if n == nil {
		return false
	}
	SetAttr(n, key, val)
	c.version++
	return true
}

// Version increases on every change to the drawn nodes
func (c *Container) Version() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// HTML renders the drawn nodes
func (c *Container) HTML() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Render(c.nodes...)
}

// Dispatch delivers ev to the handlers of its target and then of each
// ancestor element, innermost first. Each element's handlers run at most
// once per event. It reports whether any handler ran.
func (c *Container) Dispatch(ev *Event) bool {
	c.mu.Lock()
	calls := collectHandlers(c.nodes, c.bindings, ev)
	c.mu.Unlock()
	return runHandlers(calls, ev)
}

// collectHandlers lists the handlers along the propagation path of ev, with a
// nil entry closing each element's group.
func collectHandlers(nodes []*html.Node, bindings []binding, ev *Event) []Handler {
	var calls []Handler
	for _, id := range propagationPath(nodes, ev.Target) {
		for _, b := range bindings {
			if b.target == id && b.event == ev.Type {
				calls = append(calls, b.h)
			}
		}
		calls = append(calls, nil)
	}
	return calls
}

// runHandlers calls handlers outside any lock so they may update the surface
func runHandlers(calls []Handler, ev *Event) bool {
	ran := false
	for _, h := range calls {
		if h == nil {
			if ev.stopped {
				break
			}
			continue
		}
		h(ev)
		ran = true
	}
	return ran
}

// propagationPath lists target and the ids of its ancestors, innermost first.
// A target that is not a drawn element still receives its own handlers.
func propagationPath(roots []*html.Node, target string) []string {
	n := FindByID(roots, target)
	if n == nil {
		return []string{target}
	}
	var path []string
	for ; n != nil; n = n.Parent {
		if id := ID(n); id != "" {
			path = append(path, id)
		}
	}
	return path
}
