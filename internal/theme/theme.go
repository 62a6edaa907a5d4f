// Package theme holds the dashboard color themes and the per-session theme
// cycle. Renderers only read colors by name.
package theme

import (
	"fmt"
	"sync"
)

// Name identifies a theme
type Name string

const (
	Light     Name = "light-theme"
	Dark      Name = "dark-theme"
	Corporate Name = "corporate-theme"
	Neutral   Name = "neutral-theme"
)

// Cycle is the order themes rotate in
var Cycle = []Name{Light, Dark, Corporate, Neutral}

// Color names read by the renderers
const (
	AccentStart = "accent-start"
	AccentEnd   = "accent-end"
	Foreground  = "foreground"
	GridLine    = "grid-line"
	Background  = "background"
	Card        = "card"
)

// Palette maps color names to CSS colors
type Palette map[string]string

// Color returns the named color, or the foreground color when the name is unknown
func (p Palette) Color(name string) string {
	if c, ok := p[name]; ok {
		return c
	}
	return p[Foreground]
}

var palettes = map[Name]Palette{
	Light: {
		AccentStart: "#5e97f8",
		AccentEnd:   "#c7dafd",
		Foreground:  "#1f2937",
		GridLine:    "#9ca3af",
		Background:  "#f5f7fa",
		Card:        "#ffffff",
	},
	Dark: {
		AccentStart: "#7db5fb",
		AccentEnd:   "#1e3a8a",
		Foreground:  "#e5e7eb",
		GridLine:    "#4b5563",
		Background:  "#111827",
		Card:        "#1f2937",
	},
	Corporate: {
		AccentStart: "#497ee9",
		AccentEnd:   "#a5c0f5",
		Foreground:  "#0f172a",
		GridLine:    "#94a3b8",
		Background:  "#eef2f7",
		Card:        "#ffffff",
	},
	Neutral: {
		AccentStart: "#858b98",
		AccentEnd:   "#d1d5db",
		Foreground:  "#27272a",
		GridLine:    "#a1a1aa",
		Background:  "#fafafa",
		Card:        "#ffffff",
	},
}

// Lookup returns the palette of theme n
func Lookup(n Name) (Palette, error) {
	p, ok := palettes[n]
	if !ok {
		return nil, fmt.Errorf("unknown theme %q", n)
	}
	out := make(Palette, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out, nil
}

// Controller tracks the current theme of one session
type Controller struct {
	mu      sync.Mutex
	current Name
}

// NewController starts at initial, or Light when initial is unknown
func NewController(initial Name) *Controller {
	if _, ok := palettes[initial]; !ok {
		initial = Light
	}
	return &Controller{current: initial}
}

// Current returns the active theme
func (c *Controller) Current() Name {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Palette returns the colors of the active theme
func (c *Controller) Palette() Palette {
	p, _ := Lookup(c.Current())
	return p
}

// Next advances to the following theme in the cycle and returns it
func (c *Controller) Next() Name {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := 0
	for i, n := range Cycle {
		if n == c.current {
			idx = i
			break
		}
	}
	c.current = Cycle[(idx+1)%len(Cycle)]
	return c.current
}

// Set switches to theme n
func (c *Controller) Set(n Name) error {
	if _, ok := palettes[n]; !ok {
		return fmt.Errorf("unknown theme %q", n)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = n
	return nil
}
