// Package charts draws the dashboard charts as SVG scene graphs: scales,
// curves and the shared primitives, plus one renderer per chart type.
package charts

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/net/html"

	"insightdash/internal/layout"
	"insightdash/internal/logger"
	"insightdash/internal/models"
	"insightdash/internal/surface"
	"insightdash/internal/theme"
)

// ErrUnknownChartType is returned for descriptors no renderer is registered for
var ErrUnknownChartType = errors.New("unknown chart type")

// NoDataText is drawn in place of a chart without data
const NoDataText = "No data available"

// DetailRequest is what a chart hands the detail view when clicked
type DetailRequest struct {
	ContainerID string
	Title       string
	Tag         string
	Summary     string
	Series      models.Series
	Flow        models.FlowGraph
}

// Env carries everything a renderer reads besides the descriptor
type Env struct {
	Layout   *layout.Resolver
	Measurer layout.Measurer
	Viewport layout.Viewport
	Palette  theme.Palette
	Timing   Timing
	// MobileBreakpoint is the viewport width at or below which labels rotate
	MobileBreakpoint float64
	Tooltips         surface.Tooltips
	OnDetail         func(DetailRequest)
}

var defaultResolver = sync.OnceValue(func() *layout.Resolver {
	r, err := layout.NewResolver(layout.Options{FlowContainers: []string{SankeyContainer}})
	if err != nil {
		panic(err)
	}
	return r
})

func (e Env) resolve(containerID string) layout.Result {
	r := e.Layout
	if r == nil {
		r = defaultResolver()
	}
	return r.Resolve(containerID, e.Viewport, e.Measurer)
}

func (e Env) mobile() bool {
	bp := e.MobileBreakpoint
	if bp <= 0 {
		bp = layout.MobileBreakpoint
	}
	return e.Viewport.Mobile(bp)
}

func (e Env) color(name string) string {
	if e.Palette == nil {
		p, _ := theme.Lookup(theme.Light)
		return p.Color(name)
	}
	return e.Palette.Color(name)
}

// Renderer draws one chart type into a surface
type Renderer interface {
	Draw(s surface.Surface, d models.ChartDescriptor, env Env) error
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(s surface.Surface, d models.ChartDescriptor, env Env) error

// Draw calls f
func (f RendererFunc) Draw(s surface.Surface, d models.ChartDescriptor, env Env) error {
	return f(s, d, env)
}

// Registry maps chart types to renderers
type Registry struct {
	mu        sync.RWMutex
	renderers map[models.ChartType]Renderer
}

// NewRegistry returns a registry holding every built-in renderer
func NewRegistry() *Registry {
	r := &Registry{renderers: make(map[models.ChartType]Renderer)}
	r.Register(models.ChartLine, RendererFunc(DrawLine))
	r.Register(models.ChartBar, RendererFunc(DrawBar))
	r.Register(models.ChartLollipop, RendererFunc(DrawLollipop))
	r.Register(models.ChartScatter, RendererFunc(DrawScatter))
	r.Register(models.ChartSankey, RendererFunc(DrawSankey))
	return r
}

// Register adds or replaces the renderer for t
func (r *Registry) Register(t models.ChartType, renderer Renderer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers[t] = renderer
}

// Lookup returns the renderer for t
func (r *Registry) Lookup(t models.ChartType) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	renderer, ok := r.renderers[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChartType, t)
	}
	return renderer, nil
}

// Draw dispatches d to the renderer registered for its type
func (r *Registry) Draw(s surface.Surface, d models.ChartDescriptor, env Env) error {
	renderer, err := r.Lookup(d.Type)
	if err != nil {
		return err
	}
	logger.Component("charts").Debug("drawing chart", map[string]interface{}{
		"container": s.ID(),
		"type":      string(d.Type),
	})
	return renderer.Draw(s, d, env)
}

// Margin is the space around the plot area
type Margin struct {
	Top, Right, Bottom, Left float64
}

// chartMargin leaves room for the value labels and rotated month labels
var chartMargin = Margin{Top: 30, Right: 40, Bottom: 40, Left: 40}

// canvas is the resolved drawing area of one chart
type canvas struct {
	id        string
	width     float64
	height    float64
	fontScale float64
	margin    Margin
	mobile    bool
}

func newCanvas(s surface.Surface, env Env, m Margin) canvas {
	res := env.resolve(s.ID())
	return canvas{
		id:        s.ID(),
		width:     res.Width,
		height:    res.Height,
		fontScale: res.FontScale,
		margin:    m,
		mobile:    env.mobile(),
	}
}

func (c canvas) left() float64   { return c.margin.Left }
func (c canvas) right() float64  { return c.width - c.margin.Right }
func (c canvas) top() float64    { return c.margin.Top }
func (c canvas) bottom() float64 { return c.height - c.margin.Bottom }

// fontSize scales a base pixel size
func (c canvas) fontSize(base float64) string {
	return surface.F(base*c.fontScale) + "px"
}

// elementID derives a stable element id inside the chart
func (c canvas) elementID(parts ...string) string {
	id := c.id
	for _, p := range parts {
		id += "-" + p
	}
	return id
}

// root builds the <svg> element every chart draws into
func (c canvas) root(children ...*html.Node) *html.Node {
	return surface.El("svg", []html.Attribute{
		surface.A("id", c.elementID("svg")),
		surface.AF("width", c.width),
		surface.AF("height", c.height),
		surface.A("viewBox", "0 0 "+surface.F(c.width)+" "+surface.F(c.height)),
		surface.A("class", "chart"),
	}, children...)
}

// DrawEmpty draws the single centered "No data available" message
func DrawEmpty(s surface.Surface, env Env) {
	c := newCanvas(s, env, Margin{})
	s.Draw(c.root(surface.TextEl(NoDataText,
		surface.A("class", "no-data"),
		surface.AF("x", c.width/2),
		surface.AF("y", c.height/2),
		surface.A("text-anchor", "middle"),
		surface.A("fill", env.color(theme.Foreground)),
		surface.A("font-size", c.fontSize(14)),
	)))
}

// attachDetail registers the chart's single click handler on its root
func attachDetail(s surface.Surface, c canvas, env Env, req DetailRequest) {
	if env.OnDetail == nil {
		return
	}
	req.ContainerID = s.ID()
	s.AttachHandler(c.elementID("svg"), surface.Click, func(*surface.Event) {
		env.OnDetail(req)
	})
}

// titleEl is the native hover title of a mark
func titleEl(text string) *html.Node {
	return surface.El("title", nil, surface.Text(text))
}
