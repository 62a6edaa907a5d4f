package surface

import (
	"sort"
	"sync"
)

// Document is one client's page: the chart containers that exist on it,
// their measured widths and the shared tooltip.
type Document struct {
	mu         sync.RWMutex
	containers map[string]*Container
	order      []string
	widths     map[string]float64
	tooltip    Tooltip
}

// NewDocument creates a document with the given containers
func NewDocument(containerIDs ...string) *Document {
	d := &Document{
		containers: make(map[string]*Container),
		widths:     make(map[string]float64),
	}
	d.SetContainers(containerIDs)
	return d
}

// SetContainers replaces the set of containers, keeping the content of ids
// that remain.
func (d *Document) SetContainers(ids []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	next := make(map[string]*Container, len(ids))
	order := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := next[id]; dup || id == "" {
			continue
		}
		if c, ok := d.containers[id]; ok {
			next[id] = c
		} else {
			next[id] = NewContainer(id)
		}
		order = append(order, id)
	}
	for id := range d.widths {
		if _, ok := next[id]; !ok {
			delete(d.widths, id)
		}
	}
	d.containers = next
	d.order = order
}

// Container returns the container with id
func (d *Document) Container(id string) (*Container, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.containers[id]
	return c, ok
}

// ContainerIDs lists the containers in page order
func (d *Document) ContainerIDs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// SetWidth records a measured container width. Widths of containers that
// are not on the page are ignored and reported as false.
func (d *Document) SetWidth(containerID string, width float64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.containers[containerID]; !ok {
		return false
	}
	if width <= 0 {
		delete(d.widths, containerID)
		return true
	}
	d.widths[containerID] = width
	return true
}

// MeasureWidth reports the last recorded width of a container
func (d *Document) MeasureWidth(containerID string) (float64, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	w, ok := d.widths[containerID]
	return w, ok
}

// MeasuredIDs lists containers with a recorded width, sorted
func (d *Document) MeasuredIDs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ids := make([]string, 0, len(d.widths))
	for id := range d.widths {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ShowTooltip makes t the visible tooltip
func (d *Document) ShowTooltip(t Tooltip) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t.Visible = true
	d.tooltip = t
}

// HideTooltip fades the tooltip out
func (d *Document) HideTooltip(fadeMS int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tooltip.Visible = false
	d.tooltip.FadeMS = fadeMS
}

// Tooltip returns the current tooltip state
func (d *Document) Tooltip() Tooltip {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t := d.tooltip
	t.Lines = append([]string(nil), d.tooltip.Lines...)
	return t
}

// Dispatch routes ev to the container holding its target. Events for
// unknown containers are ignored.
func (d *Document) Dispatch(containerID string, ev *Event) bool {
	c, ok := d.Container(containerID)
	if !ok {
		return false
	}
	return c.Dispatch(ev)
}
