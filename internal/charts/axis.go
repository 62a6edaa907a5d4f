package charts

import (
	"math"

	"golang.org/x/net/html"

	"insightdash/internal/surface"
)

const (
	yTickCount     = 5
	maxXLabels     = 6
	gridOpacity    = "0.2"
	gridDasharray  = "2,2"
	mobileRotation = "rotate(-45)"
)

// labelEvery is the x label decimation stride: i is labeled when i%stride == 0
func labelEvery(n int) int {
	if n <= maxXLabels {
		return 1
	}
	return int(math.Ceil(float64(n) / maxXLabels))
}

func gridLine(x1, y1, x2, y2 float64, color string) *html.Node {
	return surface.El("line", []html.Attribute{
		surface.AF("x1", x1), surface.AF("y1", y1),
		surface.AF("x2", x2), surface.AF("y2", y2),
		surface.A("stroke", color),
		surface.A("stroke-opacity", gridOpacity),
		surface.A("stroke-dasharray", gridDasharray),
	})
}

// grid draws dashed lines at every x category and y tick
func grid(c canvas, x Categorical, y LinearScale, color string) *html.Node {
	g := surface.Group(surface.A("class", "grid"))
	for i := 0; i < x.Len(); i++ {
		cx := x.Center(i)
		g.AppendChild(gridLine(cx, c.top(), cx, c.bottom(), color))
	}
	for _, t := range y.Ticks(yTickCount) {
		ty := y.Scale(t)
		g.AppendChild(gridLine(c.left(), ty, c.right(), ty, color))
	}
	return g
}

// xAxis draws the baseline and the decimated category labels
func xAxis(c canvas, x Categorical, color string) *html.Node {
	g := surface.Group(surface.A("class", "x-axis"), surface.A("transform", surface.Translate(0, c.bottom())))
	g.AppendChild(surface.El("line", []html.Attribute{
		surface.AF("x1", c.left()), surface.AF("x2", c.right()),
		surface.A("y1", "0"), surface.A("y2", "0"),
		surface.A("stroke", color),
	}))

	stride := labelEvery(x.Len())
	for i := 0; i < x.Len(); i++ {
		if i%stride != 0 {
			continue
		}
		tick := surface.Group(surface.A("class", "tick"), surface.A("transform", surface.Translate(x.Center(i), 0)))
		tick.AppendChild(surface.El("line", []html.Attribute{surface.A("y2", "6"), surface.A("stroke", color)}))

		attrs := []html.Attribute{
			surface.A("y", "9"),
			surface.A("dy", "0.71em"),
			surface.A("fill", color),
			surface.A("font-size", c.fontSize(12)),
		}
		if c.mobile {
			attrs = append(attrs, surface.A("transform", mobileRotation), surface.A("text-anchor", "end"))
		} else {
			attrs = append(attrs, surface.A("text-anchor", "middle"))
		}
		tick.AppendChild(surface.TextEl(x.Label(i), attrs...))
		g.AppendChild(tick)
	}
	return g
}

// yAxis draws a value axis at x with integer tick labels. right places the
// labels to the right of the line.
func yAxis(c canvas, y LinearScale, x float64, right bool, color string) *html.Node {
	class := "y-axis"
	if right {
		class = "y-axis y-axis-right"
	}
	g := surface.Group(surface.A("class", class), surface.A("transform", surface.Translate(x, 0)))
	g.AppendChild(surface.El("line", []html.Attribute{
		surface.A("x1", "0"), surface.A("x2", "0"),
		surface.AF("y1", c.top()), surface.AF("y2", c.bottom()),
		surface.A("stroke", color),
	}))

	dir, anchor := -1.0, "end"
	if right {
		dir, anchor = 1, "start"
	}
	for _, t := range y.Ticks(yTickCount) {
		tick := surface.Group(surface.A("class", "tick"), surface.A("transform", surface.Translate(0, y.Scale(t))))
		tick.AppendChild(surface.El("line", []html.Attribute{surface.AF("x2", 6*dir), surface.A("stroke", color)}))
		tick.AppendChild(surface.TextEl(Fixed(t, 0),
			surface.AF("x", 9*dir),
			surface.A("dy", "0.32em"),
			surface.A("text-anchor", anchor),
			surface.A("fill", color),
			surface.A("font-size", c.fontSize(12)),
		))
		g.AppendChild(tick)
	}
	return g
}
