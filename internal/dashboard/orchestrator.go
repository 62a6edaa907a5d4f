package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/net/html"
	"k8s.io/utils/clock"

	"insightdash/internal/charts"
	"insightdash/internal/fetchers"
	"insightdash/internal/layout"
	"insightdash/internal/logger"
	"insightdash/internal/models"
	"insightdash/internal/surface"
	"insightdash/internal/theme"
)

// Options configures an Orchestrator. Zero values take the defaults, except
// Timing: a zero Timing draws every chart in its final state.
type Options struct {
	Provider fetchers.Provider
	Registry *charts.Registry
	Routes   RouteTable
	Layout   *layout.Resolver
	Clock    clock.WithDelayedExecution

	RenderTimeout    time.Duration
	ResizeDebounce   time.Duration
	Timing           charts.Timing
	MobileBreakpoint float64
	Theme            theme.Name
	Viewport         layout.Viewport
}

// Orchestrator runs guarded render passes for one page document
type Orchestrator struct {
	doc      *surface.Document
	provider fetchers.Provider
	registry *charts.Registry
	routes   RouteTable
	resolver *layout.Resolver
	guard    *Guard
	resize   *Debouncer
	themes   *theme.Controller
	detail   *Detail
	timing   charts.Timing
	mobileBP float64
	log      *logger.Logger

	mu          sync.Mutex
	route       Route
	viewport    layout.Viewport
	pending     layout.Viewport
	data        *models.Dataset
	descriptors []models.ChartDescriptor
	passes      int
}

// New creates an orchestrator showing path in doc. The document's containers
// are set to the route's.
func New(doc *surface.Document, path string, opts Options) (*Orchestrator, error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("data provider is required")
	}
	if opts.Routes == nil {
		opts.Routes = DefaultRoutes()
	}
	if err := opts.Routes.Validate(); err != nil {
		return nil, err
	}
	if opts.Registry == nil {
		opts.Registry = charts.NewRegistry()
	}
	if opts.Layout == nil {
		r, err := layout.NewResolver(layout.Options{FlowContainers: []string{SankeyContainer}})
		if err != nil {
			return nil, fmt.Errorf("failed to create layout resolver: %w", err)
		}
		opts.Layout = r
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.ResizeDebounce <= 0 {
		opts.ResizeDebounce = DefaultResizeDebounce
	}
	if opts.Theme == "" {
		opts.Theme = theme.Light
	}
	if opts.Viewport.Width <= 0 || opts.Viewport.Height <= 0 {
		opts.Viewport = layout.Viewport{Width: 1920, Height: 1080}
	}

	o := &Orchestrator{
		doc:      doc,
		provider: opts.Provider,
		registry: opts.Registry,
		routes:   opts.Routes,
		resolver: opts.Layout,
		guard:    NewGuard(opts.Clock, opts.RenderTimeout),
		themes:   theme.NewController(opts.Theme),
		detail:   NewDetail(),
		timing:   opts.Timing,
		mobileBP: opts.MobileBreakpoint,
		log:      logger.Component("orchestrator"),
		viewport: opts.Viewport,
		pending:  opts.Viewport,
	}
	o.resize = NewDebouncer(opts.Clock, opts.ResizeDebounce, o.applyResize)
	o.route = o.routes.Resolve(path)
	doc.SetContainers(o.route.ContainerIDs())
	return o, nil
}

// Trigger runs one render pass unless one is already running, in which case
// it returns false without doing anything.
func (o *Orchestrator) Trigger(ctx context.Context) bool {
	return o.trigger(ctx, nil)
}

// trigger runs prepare, then the pass, only once the guard is held. A dropped
// trigger leaves every piece of state untouched.
func (o *Orchestrator) trigger(ctx context.Context, prepare func()) bool {
	pass, ok := o.guard.Acquire()
	if !ok {
		o.log.Debug("render pass already in progress, dropping trigger")
		return false
	}
	defer pass.Release()

	if prepare != nil {
		prepare()
	}

	o.mu.Lock()
	route := o.route
	vp := o.viewport
	o.mu.Unlock()

	start := time.Now()
	data, err := o.provider.FetchDataset(ctx, route.Path)
	if err != nil || data == nil {
		o.log.Error("failed to fetch dataset, rendering empty charts", err, map[string]interface{}{"route": route.Path})
		data = models.EmptyDataset()
	}

	palette := o.themes.Palette()
	descriptors := route.Descriptors(data, palette)

	for _, id := range o.routes.KnownContainers() {
		if c, ok := o.doc.Container(id); ok {
			c.Clear()
		}
	}

	env := charts.Env{
		Layout:           o.resolver,
		Measurer:         o.doc,
		Viewport:         vp,
		Palette:          palette,
		Timing:           o.timing,
		MobileBreakpoint: o.mobileBP,
		Tooltips:         o.doc,
		OnDetail:         func(req charts.DetailRequest) { o.detail.Show(req) },
	}
	failed := 0
	for _, d := range descriptors {
		if !o.renderChart(d, env) {
			failed++
		}
	}

	o.mu.Lock()
	o.data = data
	o.descriptors = descriptors
	o.passes++
	o.mu.Unlock()

	o.log.Info("render pass finished", map[string]interface{}{
		"route":    route.Path,
		"charts":   len(descriptors),
		"failed":   failed,
		"duration": time.Since(start).String(),
	})
	return true
}

// renderChart draws d into its container, turning an error or panic into
// an inline message in that container. Missing containers are skipped.
func (o *Orchestrator) renderChart(d models.ChartDescriptor, env charts.Env) bool {
	c, ok := o.doc.Container(d.ContainerID)
	if !ok {
		o.log.Debug("container not on page, skipping chart", map[string]interface{}{"container": d.ContainerID})
		return true
	}
	if err := o.draw(c, d, env); err != nil {
		o.log.Error("failed to render chart", err, map[string]interface{}{
			"container": d.ContainerID,
			"title":     d.Title,
		})
		c.Clear()
		c.Draw(ErrorNode(err))
		return false
	}
	return true
}

func (o *Orchestrator) draw(c *surface.Container, d models.ChartDescriptor, env charts.Env) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("renderer panicked: %v", r)
		}
	}()
	return o.registry.Draw(c, d, env)
}

// ErrorNode is the inline message shown in place of a failed chart
func ErrorNode(err error) *html.Node {
	p := &html.Node{Type: html.ElementNode, Data: "p", Attr: []html.Attribute{surface.A("class", "error")}}
	p.AppendChild(surface.Text("Error loading chart: " + err.Error()))
	return p
}

// Load renders the page for the first time
func (o *Orchestrator) Load(ctx context.Context) bool {
	return o.Trigger(ctx)
}

// Refresh re-renders on an explicit user action
func (o *Orchestrator) Refresh(ctx context.Context) bool {
	return o.Trigger(ctx)
}

// Navigate switches the page to path and renders it. While another pass is
// running the call is dropped and the session stays on its current page.
func (o *Orchestrator) Navigate(ctx context.Context, path string) bool {
	return o.trigger(ctx, func() {
		o.mu.Lock()
		o.route = o.routes.Resolve(path)
		ids := o.route.ContainerIDs()
		o.mu.Unlock()

		o.doc.SetContainers(ids)
		o.detail.Close()
	})
}

// Resize records the new viewport and re-renders once resizing has been
// quiet for the debounce period.
func (o *Orchestrator) Resize(vp layout.Viewport) {
	o.mu.Lock()
	o.pending = vp
	o.mu.Unlock()
	o.resize.Call()
}

func (o *Orchestrator) applyResize() {
	o.mu.Lock()
	o.viewport = o.pending
	o.mu.Unlock()
	o.Trigger(context.Background())
}

// SetTheme switches the theme and re-renders
func (o *Orchestrator) SetTheme(ctx context.Context, name theme.Name) error {
	if err := o.themes.Set(name); err != nil {
		return err
	}
	o.Trigger(ctx)
	return nil
}

// CycleTheme moves to the next theme and re-renders
func (o *Orchestrator) CycleTheme(ctx context.Context) theme.Name {
	next := o.themes.Next()
	o.Trigger(ctx)
	return next
}

// Theme returns the active theme
func (o *Orchestrator) Theme() theme.Name {
	return o.themes.Current()
}

// Palette returns the active theme's colors
func (o *Orchestrator) Palette() theme.Palette {
	return o.themes.Palette()
}

// Dispatch delivers a pointer event to the container holding its target
func (o *Orchestrator) Dispatch(containerID string, ev *surface.Event) bool {
	return o.doc.Dispatch(containerID, ev)
}

// Detail returns the drill-down panel
func (o *Orchestrator) Detail() *Detail {
	return o.detail
}

// Document returns the page document
func (o *Orchestrator) Document() *surface.Document {
	return o.doc
}

// Route returns the page being shown
func (o *Orchestrator) Route() Route {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.route
}

// Viewport returns the viewport the last pass rendered for
func (o *Orchestrator) Viewport() layout.Viewport {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.viewport
}

// Descriptors returns the charts of the last completed pass
func (o *Orchestrator) Descriptors() []models.ChartDescriptor {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]models.ChartDescriptor(nil), o.descriptors...)
}

// Metrics returns the summary cards of the last completed pass
func (o *Orchestrator) Metrics() []models.MetricCard {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.data == nil {
		return nil
	}
	return o.data.Metrics.Cards()
}

// Passes counts completed render passes
func (o *Orchestrator) Passes() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.passes
}

// State returns the render guard state
func (o *Orchestrator) State() State {
	return o.guard.State()
}

// Close stops a pending resize render
func (o *Orchestrator) Close() {
	o.resize.Stop()
}
