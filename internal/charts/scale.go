package charts

import (
	"math"
)

// HeadroomFactor is applied to the largest value before rounding the value axis
const HeadroomFactor = 1.2

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// tickIncrement returns a 1/2/5 x 10^k step splitting [start, stop] into about
// count intervals. Steps below 1 come back negated and inverted (-10 for 0.1).
func tickIncrement(start, stop float64, count int) float64 {
	step := (stop - start) / math.Max(0, float64(count))
	power := math.Floor(math.Log10(step))
	errRatio := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case errRatio >= e10:
		factor = 10
	case errRatio >= e5:
		factor = 5
	case errRatio >= e2:
		factor = 2
	}
	if power >= 0 {
		return factor * math.Pow(10, power)
	}
	return -math.Pow(10, -power) / factor
}

// LinearScale maps a numeric domain onto a pixel range
type LinearScale struct {
	D0, D1 float64
	R0, R1 float64
}

// ValueScale builds the value axis scale for a series maximum: domain
// [0, max*1.2] rounded outward to nice bounds. A non-positive maximum gets
// the unit domain.
func ValueScale(max, rangeStart, rangeEnd float64) LinearScale {
	upper := max * HeadroomFactor
	if !(upper > 0) {
		upper = 1
	}
	s := LinearScale{D0: 0, D1: upper, R0: rangeStart, R1: rangeEnd}
	return s.Nice(10)
}

// Nice extends the domain to round values
func (s LinearScale) Nice(count int) LinearScale {
	start, stop := s.D0, s.D1
	reversed := stop < start
	if reversed {
		start, stop = stop, start
	}
	var prestep float64
	for i := 0; i < 10; i++ {
		step := tickIncrement(start, stop, count)
		if step == prestep {
			break
		}
		switch {
		case step > 0:
			start = math.Floor(start/step) * step
			stop = math.Ceil(stop/step) * step
		case step < 0:
			start = math.Ceil(start*step) / step
			stop = math.Floor(stop*step) / step
		default:
			i = 10
		}
		prestep = step
	}
	if reversed {
		start, stop = stop, start
	}
	s.D0, s.D1 = start, stop
	return s
}

// Scale maps v into the range
func (s LinearScale) Scale(v float64) float64 {
	if s.D1 == s.D0 {
		return (s.R0 + s.R1) / 2
	}
	return s.R0 + (v-s.D0)/(s.D1-s.D0)*(s.R1-s.R0)
}

// Ticks returns about count round values inside the domain
func (s LinearScale) Ticks(count int) []float64 {
	start, stop := math.Min(s.D0, s.D1), math.Max(s.D0, s.D1)
	if start == stop || count <= 0 {
		return []float64{start}
	}
	inc := tickIncrement(start, stop, count)
	if inc == 0 || math.IsNaN(inc) || math.IsInf(inc, 0) {
		return nil
	}
	var ticks []float64
	if inc > 0 {
		i0, i1 := math.Ceil(start/inc), math.Floor(stop/inc)
		for i := i0; i <= i1; i++ {
			ticks = append(ticks, i*inc)
		}
	} else {
		inc = -inc
		i0, i1 := math.Ceil(start*inc), math.Floor(stop*inc)
		for i := i0; i <= i1; i++ {
			ticks = append(ticks, i/inc)
		}
	}
	return ticks
}

// Categorical positions ordered labels along the x axis
type Categorical interface {
	Len() int
	Label(i int) string
	// Center is the x of the category's tick and marks
	Center(i int) float64
}

// PointScale spaces labels evenly with outer padding, like a d3 point scale
type PointScale struct {
	labels []string
	start  float64
	step   float64
}

// NewPointScale lays labels out over [r0, r1]
func NewPointScale(labels []string, r0, r1, padding float64) PointScale {
	n := float64(len(labels))
	step := (r1 - r0) / math.Max(1, n-1+padding*2)
	start := r0 + (r1-r0-step*(n-1))*0.5
	return PointScale{labels: labels, start: start, step: step}
}

// Len returns the number of labels
func (p PointScale) Len() int { return len(p.labels) }

// Label returns label i
func (p PointScale) Label(i int) string { return p.labels[i] }

// Center returns the x of label i
func (p PointScale) Center(i int) float64 { return p.start + p.step*float64(i) }

// BandScale divides the range into equal bands, like a d3 band scale
type BandScale struct {
	labels    []string
	start     float64
	step      float64
	bandwidth float64
}

// NewBandScale lays bands out over [r0, r1] with equal inner and outer padding
func NewBandScale(labels []string, r0, r1, padding float64) BandScale {
	n := float64(len(labels))
	step := (r1 - r0) / math.Max(1, n-padding+padding*2)
	start := r0 + (r1-r0-step*(n-padding))*0.5
	return BandScale{labels: labels, start: start, step: step, bandwidth: step * (1 - padding)}
}

// Len returns the number of bands
func (b BandScale) Len() int { return len(b.labels) }

// Label returns label i
func (b BandScale) Label(i int) string { return b.labels[i] }

// Start returns the left edge of band i
func (b BandScale) Start(i int) float64 { return b.start + b.step*float64(i) }

// Center returns the middle of band i
func (b BandScale) Center(i int) float64 { return b.Start(i) + b.bandwidth/2 }

// Bandwidth returns the width of every band
func (b BandScale) Bandwidth() float64 { return b.bandwidth }
