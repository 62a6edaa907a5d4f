package charts

import (
	"math"
	"strconv"

	"golang.org/x/net/html"

	"insightdash/internal/models"
	"insightdash/internal/surface"
	"insightdash/internal/theme"
)

const (
	bandPadding = 0.25
	barRadius   = "6"
)

func percentChange(p *float64) string {
	if p == nil {
		return NotAvailable
	}
	return Fixed(*p, 2) + "%"
}

// DrawBar draws rounded bars growing from the baseline
func DrawBar(s surface.Surface, d models.ChartDescriptor, env Env) error {
	if len(d.Series) == 0 {
		DrawEmpty(s, env)
		return nil
	}

	c := newCanvas(s, env, chartMargin)
	x := NewBandScale(d.Series.Labels(), c.left(), c.right(), bandPadding)
	y := ValueScale(d.Series.MaxValue(), c.bottom(), c.top())
	t := env.Timing

	color := d.Color(0, env.color(theme.AccentStart))
	defs := NewDefs(c.id)
	fill := defs.Gradient(color, d.Color(1, env.color(theme.AccentEnd)))
	fx := defs.Effects()

	bars := surface.Group(surface.A("class", "bars"))
	labels := surface.Group(surface.A("class", "labels"))
	for i, v := range d.Series.Values() {
		id := c.elementID("bar", strconv.Itoa(i))
		// values below zero sit on the baseline
		top := math.Min(y.Scale(v), c.bottom())
		h := c.bottom() - top
		bar := surface.El("rect", []html.Attribute{
			surface.A("id", id),
			surface.A("class", "bar"),
			surface.AF("x", x.Start(i)),
			surface.AF("y", top),
			surface.AF("width", x.Bandwidth()),
			surface.AF("height", h),
			surface.A("rx", barRadius),
			surface.A("ry", barRadius),
			surface.A("fill", fill),
			surface.A("stroke", color),
			surface.A("filter", fx.DropShadow),
		}, titleEl(d.Series[i].Label+": "+FixedOrNA(d.Series[i].Value, 1)))
		animateItem(bar, t, i, "y", surface.F(c.bottom()), surface.F(top))
		animateItem(bar, t, i, "height", "0", surface.F(h))
		bars.AppendChild(bar)

		lines := valueLines(d.Series, i)
		if i == 0 {
			lines = append(lines, "% Change: "+percentChange(d.PercentChange))
		}
		hover(s, env, id, lines)

		labels.AppendChild(valueLabel(c, FixedOrNA(d.Series[i].Value, 0), x.Center(i), top-5, env.color(theme.Foreground), t, i))
	}

	children := []*html.Node{defs.Node()}
	children = append(children, frame(c, x, y, env)...)
	children = append(children, bars, labels,
		legend(c, LegendItem{Label: legendLabel(d, 0), Color: color}, c.left(), 5, fx.Glow, t))
	s.Draw(c.root(children...))

	attachDetail(s, c, env, DetailRequest{
		Title:   d.Title,
		Tag:     string(models.ChartBar),
		Summary: "Distribution of " + d.Title + " over time. Current month % change: " + percentChange(d.PercentChange),
		Series:  d.Series,
	})
	return nil
}
