package charts

import (
	"testing"
	"time"
)

func TestMonotonePath(t *testing.T) {
	tests := []struct {
		name string
		pts  []Point
		want string
	}{
		{"empty", nil, ""},
		{"single point", []Point{{10, 20}}, "M10,20"},
		{"two points", []Point{{0, 0}, {10, 10}}, "M0,0L10,10"},
		{
			"straight line",
			[]Point{{0, 0}, {10, 10}, {20, 20}},
			"M0,0C3.33,3.33,6.67,6.67,10,10C13.33,13.33,16.67,16.67,20,20",
		},
		{
			"peak does not overshoot",
			[]Point{{0, 0}, {10, 100}, {20, 0}},
			"M0,0C3.33,50,6.67,100,10,100C13.33,100,16.67,50,20,0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MonotonePath(tt.pts); got != tt.want {
				t.Errorf("MonotonePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMonotoneArea(t *testing.T) {
	got := MonotoneArea([]Point{{0, 10}, {10, 20}}, 100)
	want := "M0,10L10,20L10,100L0,100Z"
	if got != want {
		t.Errorf("MonotoneArea() = %q, want %q", got, want)
	}
	if MonotoneArea(nil, 100) != "" {
		t.Error("Expected an empty area for no points")
	}
}

func TestLinkPath(t *testing.T) {
	if got := LinkPath(0, 0, 100, 50); got != "M0,0C50,0,50,50,100,50" {
		t.Errorf("LinkPath() = %q", got)
	}
}

func TestFormatting(t *testing.T) {
	if FixedOrNA(nil, 1) != "N/A" {
		t.Error("Expected N/A for a missing value")
	}
	v := 12.345
	if got := FixedOrNA(&v, 1); got != "12.3" {
		t.Errorf("FixedOrNA = %q, want 12.3", got)
	}
	if got := Plain(30); got != "30" {
		t.Errorf("Plain(30) = %q", got)
	}
	if got := Plain(12.5); got != "12.5" {
		t.Errorf("Plain(12.5) = %q", got)
	}
	if OrNA("") != "N/A" || OrNA("+5") != "+5" {
		t.Error("OrNA did not substitute empty strings only")
	}
}

func TestTimingDelay(t *testing.T) {
	timing := Timing{Duration: 6 * time.Second, Stagger: 300 * time.Millisecond}
	tests := []struct {
		index int
		want  time.Duration
	}{
		{0, 0},
		{5, 1500 * time.Millisecond},
		{10, 3 * time.Second},
		{100, 3 * time.Second},
	}
	for _, tt := range tests {
		if got := timing.Delay(tt.index); got != tt.want {
			t.Errorf("Delay(%d) = %v, want %v", tt.index, got, tt.want)
		}
		if end := timing.Delay(tt.index) + timing.Item(); end > timing.Duration {
			t.Errorf("Item %d ends at %v, after the duration", tt.index, end)
		}
	}
	if (Timing{}).Enabled() {
		t.Error("Expected a zero timing to be disabled")
	}
}

func TestTransition(t *testing.T) {
	n := Transition("opacity", "0", "1", time.Second, 3*time.Second)
	attrs := map[string]string{}
	for _, a := range n.Attr {
		attrs[a.Key] = a.Val
	}
	if n.Data != "animate" {
		t.Fatalf("Expected an animate element, got %s", n.Data)
	}
	if attrs["dur"] != "4000ms" {
		t.Errorf("dur = %q, want 4000ms", attrs["dur"])
	}
	if attrs["values"] != "0;0;1" || attrs["keyTimes"] != "0;0.250;1" {
		t.Errorf("Unexpected keyframes values=%q keyTimes=%q", attrs["values"], attrs["keyTimes"])
	}
	if attrs["fill"] != "freeze" {
		t.Errorf("Expected fill=freeze, got %q", attrs["fill"])
	}

	immediate := Transition("r", "0", "6", 0, time.Second)
	for _, a := range immediate.Attr {
		if a.Key == "values" && a.Val != "0;6" {
			t.Errorf("Expected two keyframes without delay, got %q", a.Val)
		}
	}
}
