package charts

import (
	"math"
	"strings"

	"insightdash/internal/surface"
)

// Point is a position in chart space
type Point struct {
	X, Y float64
}

func signOf(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// monotoneTangent is the tangent at p1 that keeps the curve monotone between
// its neighbours.
func monotoneTangent(p0, p1, p2 Point) float64 {
	h0 := p1.X - p0.X
	h1 := p2.X - p1.X
	if h0 == 0 || h1 == 0 {
		return 0
	}
	s0 := (p1.Y - p0.Y) / h0
	s1 := (p2.Y - p1.Y) / h1
	p := (s0*h1 + s1*h0) / (h0 + h1)
	t := (signOf(s0) + signOf(s1)) * math.Min(math.Min(math.Abs(s0), math.Abs(s1)), 0.5*math.Abs(p))
	if math.IsNaN(t) {
		return 0
	}
	return t
}

// endTangent derives the tangent at a segment's free end from the other end's tangent
func endTangent(p0, p1 Point, t float64) float64 {
	h := p1.X - p0.X
	if h == 0 {
		return t
	}
	return (3*(p1.Y-p0.Y)/h - t) / 2
}

// MonotonePath builds an SVG path through pts that is monotone in x.
func MonotonePath(pts []Point) string {
	var b strings.Builder
	switch len(pts) {
	case 0:
		return ""
	case 1:
		b.WriteString("M" + surface.F(pts[0].X) + "," + surface.F(pts[0].Y))
		return b.String()
	case 2:
		b.WriteString("M" + surface.F(pts[0].X) + "," + surface.F(pts[0].Y))
		b.WriteString("L" + surface.F(pts[1].X) + "," + surface.F(pts[1].Y))
		return b.String()
	}

	n := len(pts)
	tangents := make([]float64, n)
	for i := 1; i < n-1; i++ {
		tangents[i] = monotoneTangent(pts[i-1], pts[i], pts[i+1])
	}
	tangents[0] = endTangent(pts[0], pts[1], tangents[1])
	tangents[n-1] = endTangent(pts[n-2], pts[n-1], tangents[n-2])

	b.WriteString("M" + surface.F(pts[0].X) + "," + surface.F(pts[0].Y))
	for i := 0; i < n-1; i++ {
		a, c := pts[i], pts[i+1]
		dx := (c.X - a.X) / 3
		b.WriteString("C" + surface.F(a.X+dx) + "," + surface.F(a.Y+dx*tangents[i]) +
			"," + surface.F(c.X-dx) + "," + surface.F(c.Y-dx*tangents[i+1]) +
			"," + surface.F(c.X) + "," + surface.F(c.Y))
	}
	return b.String()
}

// MonotoneArea closes the monotone curve through pts down to baseline
func MonotoneArea(pts []Point, baseline float64) string {
	if len(pts) == 0 {
		return ""
	}
	last := pts[len(pts)-1]
	return MonotonePath(pts) +
		"L" + surface.F(last.X) + "," + surface.F(baseline) +
		"L" + surface.F(pts[0].X) + "," + surface.F(baseline) + "Z"
}

// LinkPath is a horizontal cubic link between two points
func LinkPath(x0, y0, x1, y1 float64) string {
	mx := (x0 + x1) / 2
	return "M" + surface.F(x0) + "," + surface.F(y0) +
		"C" + surface.F(mx) + "," + surface.F(y0) +
		"," + surface.F(mx) + "," + surface.F(y1) +
		"," + surface.F(x1) + "," + surface.F(y1)
}
