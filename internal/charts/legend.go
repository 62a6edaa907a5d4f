package charts

import (
	"strconv"
	"sync"

	"golang.org/x/net/html"

	"insightdash/internal/surface"
)

const (
	swatchSize     = 12.0
	legendSpacing  = 140.0
	swatchOffOpac  = "0.3"
	legendTextX    = 30.0
	legendTextY    = 10.0
	legendFontSize = 12.0
)

// LegendItem is one swatch and label
type LegendItem struct {
	Label string
	Color string
}

func legendEntry(c canvas, id, swatchID string, item LegendItem, glow string, x float64) *html.Node {
	g := surface.Group(
		surface.A("id", id),
		surface.A("class", "legend-item"),
		surface.A("transform", surface.Translate(x, 0)),
	)
	swatchAttrs := []html.Attribute{
		surface.AF("width", swatchSize),
		surface.AF("height", swatchSize),
		surface.A("fill", item.Color),
		surface.A("opacity", "1"),
	}
	if swatchID != "" {
		swatchAttrs = append(swatchAttrs, surface.A("id", swatchID))
	}
	if glow != "" {
		swatchAttrs = append(swatchAttrs, surface.A("filter", glow))
	}
	g.AppendChild(surface.El("rect", swatchAttrs))
	g.AppendChild(surface.TextEl(item.Label,
		surface.AF("x", legendTextX),
		surface.AF("y", legendTextY),
		surface.A("fill", item.Color),
		surface.A("font-size", c.fontSize(legendFontSize)),
	))
	return g
}

// legend draws a single entry that fades in after half the animation
func legend(c canvas, item LegendItem, x, y float64, glow string, t Timing) *html.Node {
	g := surface.Group(
		surface.A("class", "legend"),
		surface.A("transform", surface.Translate(x, y)),
		surface.A("opacity", "1"),
	)
	g.AppendChild(legendEntry(c, c.elementID("legend", "0"), "", item, glow, 0))
	fadeIn(g, t)
	return g
}

// seriesToggle tracks which series of a dual legend are visible
type seriesToggle struct {
	mu      sync.Mutex
	visible []bool
}

func newSeriesToggle(n int) *seriesToggle {
	v := make([]bool, n)
	for i := range v {
		v[i] = true
	}
	return &seriesToggle{visible: v}
}

// flip toggles series i and returns its new visibility
func (t *seriesToggle) flip(i int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.visible[i] = !t.visible[i]
	return t.visible[i]
}

// dualLegend draws one clickable entry per series. A click shows or hides the
// group with id seriesIDs[i] and dims the swatch while hidden. Clicks do not
// reach the chart's detail handler.
func dualLegend(s surface.Surface, c canvas, items []LegendItem, seriesIDs []string, x, y float64, glow string, t Timing) *html.Node {
	g := surface.Group(
		surface.A("class", "legend legend-dual"),
		surface.A("transform", surface.Translate(x, y)),
		surface.A("opacity", "1"),
	)
	toggle := newSeriesToggle(len(items))
	for i, item := range items {
		idx := strconv.Itoa(i)
		entryID := c.elementID("legend", idx)
		swatchID := c.elementID("legend", idx, "swatch")
		g.AppendChild(legendEntry(c, entryID, swatchID, item, glow, float64(i)*legendSpacing))

		i, series := i, seriesIDs[i]
		s.AttachHandler(entryID, surface.Click, func(ev *surface.Event) {
			ev.StopPropagation()
			if toggle.flip(i) {
				s.SetAttr(series, "opacity", "1")
				s.SetAttr(swatchID, "opacity", "1")
				return
			}
			s.SetAttr(series, "opacity", "0")
			s.SetAttr(swatchID, "opacity", swatchOffOpac)
		})
	}
	fadeIn(g, t)
	return g
}
