package charts

import (
	"strconv"
	"time"

	"golang.org/x/net/html"

	"insightdash/internal/models"
	"insightdash/internal/surface"
	"insightdash/internal/theme"
)

const lollipopStagger = 100 * time.Millisecond

// DrawLollipop draws a stem from the baseline to each value with a round head
func DrawLollipop(s surface.Surface, d models.ChartDescriptor, env Env) error {
	if len(d.Series) == 0 {
		DrawEmpty(s, env)
		return nil
	}

	c := newCanvas(s, env, chartMargin)
	x := NewPointScale(d.Series.Labels(), c.left()+1, c.right()-1, pointPadding)
	y := ValueScale(d.Series.MaxValue(), c.bottom(), c.top())
	t := env.Timing.WithStagger(lollipopStagger)

	color := d.Color(0, env.color(theme.AccentStart))
	defs := NewDefs(c.id)
	fx := defs.Effects()

	stems := surface.Group(surface.A("class", "stems"))
	heads := surface.Group(surface.A("class", "heads"))
	labels := surface.Group(surface.A("class", "labels"))
	for i, v := range d.Series.Values() {
		cx, cy := x.Center(i), y.Scale(v)

		stem := surface.El("line", []html.Attribute{
			surface.A("class", "stem"),
			surface.AF("x1", cx), surface.AF("x2", cx),
			surface.AF("y1", c.bottom()), surface.AF("y2", cy),
			surface.A("stroke", color),
			surface.A("stroke-width", "2"),
		})
		animateItem(stem, t, i, "y2", surface.F(c.bottom()), surface.F(cy))
		stems.AppendChild(stem)

		id := c.elementID("head", strconv.Itoa(i))
		head := surface.El("circle", []html.Attribute{
			surface.A("id", id),
			surface.A("class", "head"),
			surface.AF("cx", cx),
			surface.AF("cy", cy),
			surface.AF("r", markerRadius),
			surface.A("fill", color),
			surface.A("filter", fx.Glow),
		}, titleEl(d.Series[i].Label+": "+FixedOrNA(d.Series[i].Value, 1)))
		animateItem(head, t, i, "cy", surface.F(c.bottom()), surface.F(cy))
		heads.AppendChild(head)
		hover(s, env, id, valueLines(d.Series, i))

		labels.AppendChild(valueLabel(c, FixedOrNA(d.Series[i].Value, 0), cx, cy-10, env.color(theme.Foreground), t, i))
	}

	children := []*html.Node{defs.Node()}
	children = append(children, frame(c, x, y, env)...)
	children = append(children, stems, heads, labels,
		legend(c, LegendItem{Label: legendLabel(d, 0), Color: color}, c.left(), 5, fx.Glow, t))
	s.Draw(c.root(children...))

	attachDetail(s, c, env, DetailRequest{
		Title:   d.Title,
		Tag:     string(models.ChartLollipop),
		Summary: d.Title + " over time.",
		Series:  d.Series,
	})
	return nil
}
