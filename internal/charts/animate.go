package charts

import (
	"strconv"
	"time"

	"golang.org/x/net/html"

	"insightdash/internal/surface"
)

// Timing controls enter animations. A zero Duration disables them.
type Timing struct {
	Duration time.Duration
	Stagger  time.Duration
}

// DefaultTiming matches the dashboard's six second entrance
var DefaultTiming = Timing{Duration: 6 * time.Second, Stagger: 300 * time.Millisecond}

const legendFade = 800 * time.Millisecond

// Enabled reports whether marks animate at all
func (t Timing) Enabled() bool {
	return t.Duration > 0
}

// WithStagger returns t with a different per-index offset
func (t Timing) WithStagger(stagger time.Duration) Timing {
	t.Stagger = stagger
	return t
}

// Delay is the start offset of item i, capped at half the duration so every
// item still finishes in time.
func (t Timing) Delay(i int) time.Duration {
	d := time.Duration(i) * t.Stagger
	if half := t.Duration / 2; d > half {
		return half
	}
	return d
}

// Item is how long a single item's transition runs
func (t Timing) Item() time.Duration {
	return t.Duration / 2
}

func smilTime(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10) + "ms"
}

// Transition builds an <animate> child that holds attr at from for delay and
// then moves it to to over dur. The parent carries the final value, so the
// mark is correct where animation is not supported.
func Transition(attr, from, to string, delay, dur time.Duration) *html.Node {
	total := delay + dur
	attrs := []html.Attribute{
		surface.A("attributeName", attr),
		surface.A("begin", "0ms"),
		surface.A("dur", smilTime(total)),
		surface.A("fill", "freeze"),
	}
	if delay > 0 && total > 0 {
		split := float64(delay) / float64(total)
		attrs = append(attrs,
			surface.A("values", from+";"+from+";"+to),
			surface.A("keyTimes", "0;"+strconv.FormatFloat(split, 'f', 3, 64)+";1"))
	} else {
		attrs = append(attrs, surface.A("values", from+";"+to), surface.A("keyTimes", "0;1"))
	}
	return surface.El("animate", attrs)
}

// animateItem appends the transition of item i to n when t is enabled
func animateItem(n *html.Node, t Timing, i int, attr, from, to string) {
	if !t.Enabled() {
		return
	}
	n.AppendChild(Transition(attr, from, to, t.Delay(i), t.Item()))
}

// fadeIn fades n in after half the duration
func fadeIn(n *html.Node, t Timing) {
	if !t.Enabled() {
		return
	}
	n.AppendChild(Transition("opacity", "0", "1", t.Duration/2, legendFade))
}

// MotionAlong moves its parent along path forever, starting at begin
func MotionAlong(path string, dur, begin time.Duration) *html.Node {
	return surface.El("animateMotion", []html.Attribute{
		surface.A("path", path),
		surface.A("dur", smilTime(dur)),
		surface.A("begin", smilTime(begin)),
		surface.A("repeatCount", "indefinite"),
	})
}
