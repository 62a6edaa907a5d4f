package charts

import (
	"strconv"

	"golang.org/x/net/html"

	"insightdash/internal/models"
	"insightdash/internal/surface"
	"insightdash/internal/theme"
)

const dotRadius = 5.0

var (
	defaultScatterColors = []string{"#ff5555", "#5555ff"}
	defaultScatterLabels = []string{"Total TF", "OCM Overall"}
)

// scatterMetric is one of the two series a dual axis chart plots
type scatterMetric struct {
	label string
	color string
	pick  func(models.Record) *float64
	scale LinearScale
}

// DrawScatter plots total_tf on the left axis and ocm_overall on the right,
// sharing one point scale. A two-entry legend shows and hides each series.
func DrawScatter(s surface.Surface, d models.ChartDescriptor, env Env) error {
	if len(d.Series) == 0 {
		DrawEmpty(s, env)
		return nil
	}

	c := newCanvas(s, env, chartMargin)
	x := NewPointScale(d.Series.Labels(), c.left(), c.right(), pointPadding)
	t := env.Timing

	metrics := []scatterMetric{
		{
			pick:  func(r models.Record) *float64 { return r.TotalTF },
			scale: ValueScale(d.Series.MaxTotalTF(), c.bottom(), c.top()),
		},
		{
			pick:  func(r models.Record) *float64 { return r.OCMOverall },
			scale: ValueScale(d.Series.MaxOCMOverall(), c.bottom(), c.top()),
		},
	}
	for i := range metrics {
		metrics[i].color = d.Color(i, defaultScatterColors[i])
		metrics[i].label = defaultScatterLabels[i]
		if i < len(d.LegendLabels) && d.LegendLabels[i] != "" {
			metrics[i].label = d.LegendLabels[i]
		}
	}

	defs := NewDefs(c.id)
	fx := defs.Effects()
	fg := env.color(theme.Foreground)

	children := []*html.Node{
		defs.Node(),
		grid(c, x, metrics[0].scale, env.color(theme.GridLine)),
		xAxis(c, x, fg),
		yAxis(c, metrics[0].scale, c.left(), false, fg),
		yAxis(c, metrics[1].scale, c.right(), true, metrics[1].color),
	}

	seriesIDs := make([]string, len(metrics))
	items := make([]LegendItem, len(metrics))
	for m, metric := range metrics {
		seriesIDs[m] = c.elementID("series", strconv.Itoa(m))
		items[m] = LegendItem{Label: metric.label, Color: metric.color}

		g := surface.Group(
			surface.A("id", seriesIDs[m]),
			surface.A("class", "series"),
			surface.A("opacity", "1"),
		)
		pts := make([]Point, len(d.Series))
		for i, r := range d.Series {
			pts[i] = Point{X: x.Center(i), Y: metric.scale.Scale(models.ValueOr(metric.pick(r), 0))}
		}
		line := surface.El("path", []html.Attribute{
			surface.A("class", "line"),
			surface.A("d", MonotonePath(pts)),
			surface.A("fill", "none"),
			surface.A("stroke", metric.color),
			surface.A("stroke-width", "2"),
			surface.A("pathLength", "1"),
			surface.A("stroke-dasharray", "1"),
			surface.A("stroke-dashoffset", "0"),
		})
		if t.Enabled() {
			line.AppendChild(Transition("stroke-dashoffset", "1", "0", 0, t.Duration))
		}
		g.AppendChild(line)

		for i, p := range pts {
			id := c.elementID("series", strconv.Itoa(m), "dot", strconv.Itoa(i))
			text := metric.label + ": " + FixedOrNA(metric.pick(d.Series[i]), 1)
			dot := surface.El("circle", []html.Attribute{
				surface.A("id", id),
				surface.A("class", "dot"),
				surface.AF("cx", p.X),
				surface.AF("cy", p.Y),
				surface.AF("r", dotRadius),
				surface.A("fill", metric.color),
				surface.A("filter", fx.Glow),
			}, titleEl(d.Series[i].Label+" "+text))
			animateItem(dot, t, i, "r", "0", surface.F(dotRadius))
			g.AppendChild(dot)
			hover(s, env, id, []string{d.Series[i].Label, text})
		}
		children = append(children, g)
	}

	children = append(children, dualLegend(s, c, items, seriesIDs, c.left(), 5, fx.Glow, t))
	s.Draw(c.root(children...))

	attachDetail(s, c, env, DetailRequest{
		Title:   d.Title,
		Tag:     string(models.ChartScatter),
		Summary: "Distribution of " + d.Title + " over time.",
		Series:  d.Series,
	})
	return nil
}
