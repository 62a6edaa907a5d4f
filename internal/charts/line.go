package charts

import (
	"strconv"

	"golang.org/x/net/html"

	"insightdash/internal/models"
	"insightdash/internal/surface"
	"insightdash/internal/theme"
)

const (
	pointPadding = 0.5
	markerRadius = 6.0
	areaOpacity  = "0.8"
)

// frame draws grid and axes for a single value axis chart
func frame(c canvas, x Categorical, y LinearScale, env Env) []*html.Node {
	fg := env.color(theme.Foreground)
	return []*html.Node{
		grid(c, x, y, env.color(theme.GridLine)),
		xAxis(c, x, fg),
		yAxis(c, y, c.left(), false, fg),
	}
}

// valueLines is the tooltip content of a scalar record
func valueLines(series models.Series, i int) []string {
	return []string{
		series[i].Label,
		"Value: " + FixedOrNA(series[i].Value, 1),
		"Trend: " + trendArrow(series, i),
	}
}

func valueLabel(c canvas, text string, x, y float64, color string, t Timing, i int) *html.Node {
	n := surface.TextEl(text,
		surface.A("class", "value-label"),
		surface.AF("x", x),
		surface.AF("y", y),
		surface.A("text-anchor", "middle"),
		surface.A("fill", color),
		surface.A("font-size", c.fontSize(12)),
		surface.A("opacity", "1"),
	)
	animateItem(n, t, i, "opacity", "0", "1")
	return n
}

// DrawLine draws a monotone line over a gradient area with point markers
func DrawLine(s surface.Surface, d models.ChartDescriptor, env Env) error {
	if len(d.Series) == 0 {
		DrawEmpty(s, env)
		return nil
	}

	c := newCanvas(s, env, chartMargin)
	x := NewPointScale(d.Series.Labels(), c.left(), c.right(), pointPadding)
	y := ValueScale(d.Series.MaxValue(), c.bottom(), c.top())
	t := env.Timing

	stroke := d.Color(0, env.color(theme.AccentStart))
	defs := NewDefs(c.id)
	fill := defs.Gradient(stroke, d.Color(1, env.color(theme.AccentEnd)))
	fx := defs.Effects()

	pts := make([]Point, len(d.Series))
	for i, v := range d.Series.Values() {
		pts[i] = Point{X: x.Center(i), Y: y.Scale(v)}
	}

	area := surface.El("path", []html.Attribute{
		surface.A("class", "area"),
		surface.A("d", MonotoneArea(pts, c.bottom())),
		surface.A("fill", fill),
		surface.A("opacity", areaOpacity),
	})
	animateItem(area, t, 0, "opacity", "0", areaOpacity)

	line := surface.El("path", []html.Attribute{
		surface.A("class", "line"),
		surface.A("d", MonotonePath(pts)),
		surface.A("fill", "none"),
		surface.A("stroke", stroke),
		surface.A("stroke-width", "3"),
		surface.A("pathLength", "1"),
		surface.A("stroke-dasharray", "1"),
		surface.A("stroke-dashoffset", "0"),
		surface.A("filter", fx.DropShadow),
	})
	if t.Enabled() {
		line.AppendChild(Transition("stroke-dashoffset", "1", "0", 0, t.Duration))
	}

	points := surface.Group(surface.A("class", "points"))
	labels := surface.Group(surface.A("class", "labels"))
	for i, p := range pts {
		id := c.elementID("point", strconv.Itoa(i))
		marker := surface.El("circle", []html.Attribute{
			surface.A("id", id),
			surface.AF("cx", p.X),
			surface.AF("cy", p.Y),
			surface.AF("r", markerRadius),
			surface.A("fill", stroke),
			surface.A("stroke", "#fff"),
			surface.A("stroke-width", "2"),
			surface.A("filter", fx.Glow),
		}, titleEl(d.Series[i].Label+": "+FixedOrNA(d.Series[i].Value, 1)))
		animateItem(marker, t, i, "r", "0", surface.F(markerRadius))
		points.AppendChild(marker)
		hover(s, env, id, valueLines(d.Series, i))

		labels.AppendChild(valueLabel(c, FixedOrNA(d.Series[i].Value, 0), p.X, p.Y-10, env.color(theme.Foreground), t, i))
	}

	children := []*html.Node{defs.Node()}
	children = append(children, frame(c, x, y, env)...)
	children = append(children, area, line, points, labels,
		legend(c, LegendItem{Label: legendLabel(d, 0), Color: stroke}, c.left(), 5, fx.Glow, t))
	s.Draw(c.root(children...))

	attachDetail(s, c, env, DetailRequest{
		Title:   d.Title,
		Tag:     string(models.ChartLine),
		Summary: "Trend of " + d.Title + " over time.",
		Series:  d.Series,
	})
	return nil
}

// legendLabel returns the i-th configured legend label, falling back to the title
func legendLabel(d models.ChartDescriptor, i int) string {
	if i < len(d.LegendLabels) && d.LegendLabels[i] != "" {
		return d.LegendLabels[i]
	}
	return d.Title
}
