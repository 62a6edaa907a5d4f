// Package layout computes chart dimensions from the viewport and the
// measured width of a chart's container.
package layout

import (
	"errors"
	"fmt"
	"math"
)

// Dashboard sizing constants
const (
	DefaultWidth     = 450.0
	DefaultHeight    = 300.0
	MobileBreakpoint = 1366.0
	// ContainerPadding is subtracted from a measured container width
	ContainerPadding = 40.0
	// FlowHeightRatio and MaxFlowHeight size flow-graph containers
	FlowHeightRatio = 0.8
	MaxFlowHeight   = 600.0
)

// Viewport is the browser window size reported by the client
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Mobile reports whether the viewport is at or below breakpoint
func (v Viewport) Mobile(breakpoint float64) bool {
	return v.Width <= breakpoint
}

// Result is the resolved size of one chart
type Result struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	FontScale float64 `json:"font_scale"`
}

// Breakpoint applies to every viewport width up to and including MaxWidth
type Breakpoint struct {
	MaxWidth  float64
	Height    float64
	FontScale float64
}

// Table is an ordered breakpoint table
type Table []Breakpoint

// DefaultTable maps viewport widths to chart sizes
var DefaultTable = Table{
	{MaxWidth: 1366, Height: 220, FontScale: 0.9},
	{MaxWidth: 1920, Height: 300, FontScale: 1.0},
	{MaxWidth: 2560, Height: 340, FontScale: 1.1},
	{MaxWidth: 3440, Height: 380, FontScale: 1.2},
	{MaxWidth: 3840, Height: 420, FontScale: 1.3},
}

// ErrEmptyTable is returned when a resolver is built without breakpoints
var ErrEmptyTable = errors.New("breakpoint table is empty")

// Validate checks that thresholds strictly ascend and every entry is positive
func (t Table) Validate() error {
	if len(t) == 0 {
		return ErrEmptyTable
	}
	for i, bp := range t {
		if bp.MaxWidth <= 0 || bp.Height <= 0 || bp.FontScale <= 0 {
			return fmt.Errorf("breakpoint %d has non-positive values: %+v", i, bp)
		}
		if i > 0 && bp.MaxWidth <= t[i-1].MaxWidth {
			return fmt.Errorf("breakpoint %d threshold %v does not ascend past %v", i, bp.MaxWidth, t[i-1].MaxWidth)
		}
	}
	return nil
}

// Lookup returns the first entry whose threshold is >= width, or the largest
// entry when width exceeds every threshold.
func (t Table) Lookup(width float64) Breakpoint {
	for _, bp := range t {
		if width <= bp.MaxWidth {
			return bp
		}
	}
	return t[len(t)-1]
}

// Measurer reports the current width of a container. ok is false when the
// container has not been measured.
type Measurer interface {
	MeasureWidth(containerID string) (width float64, ok bool)
}

// MeasurerFunc adapts a function to Measurer
type MeasurerFunc func(containerID string) (float64, bool)

// MeasureWidth calls f
func (f MeasurerFunc) MeasureWidth(containerID string) (float64, bool) {
	return f(containerID)
}

// Options configures a Resolver
type Options struct {
	Table        Table
	DefaultWidth float64
	// FlowContainers lists container ids sized as flow graphs
	FlowContainers []string
}

// Resolver maps a container and viewport to chart dimensions
type Resolver struct {
	table        Table
	defaultWidth float64
	flow         map[string]bool
}

// NewResolver validates opts and builds a Resolver. Zero values fall back to
// the default table and width.
func NewResolver(opts Options) (*Resolver, error) {
	if opts.Table == nil {
		opts.Table = DefaultTable
	}
	if err := opts.Table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout table: %w", err)
	}
	if opts.DefaultWidth <= 0 {
		opts.DefaultWidth = DefaultWidth
	}
	flow := make(map[string]bool, len(opts.FlowContainers))
	for _, id := range opts.FlowContainers {
		flow[id] = true
	}
	table := make(Table, len(opts.Table))
	copy(table, opts.Table)
	return &Resolver{table: table, defaultWidth: opts.DefaultWidth, flow: flow}, nil
}

// Resolve computes the size of containerID for the given viewport. It has no
// side effects; identical inputs yield identical results.
func (r *Resolver) Resolve(containerID string, vp Viewport, m Measurer) Result {
	width := r.defaultWidth
	if m != nil {
		if measured, ok := m.MeasureWidth(containerID); ok && measured > 0 {
			width = math.Max(measured-ContainerPadding, r.defaultWidth)
		}
	}

	bp := r.table.Lookup(vp.Width)
	height := bp.Height
	if r.flow[containerID] && vp.Height > 0 {
		height = math.Min(vp.Height*FlowHeightRatio, MaxFlowHeight)
	}
	return Result{Width: width, Height: height, FontScale: bp.FontScale}
}

// IsFlowContainer reports whether containerID is sized as a flow graph
func (r *Resolver) IsFlowContainer(containerID string) bool {
	return r.flow[containerID]
}
