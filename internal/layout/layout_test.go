package layout

import "testing"

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver(Options{FlowContainers: []string{"sankey-chart"}})
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}
	return r
}

func TestResolveBreakpoints(t *testing.T) {
	r := newTestResolver(t)

	tests := []struct {
		name     string
		viewport float64
		want     Result
	}{
		{"small laptop", 1024, Result{Width: 450, Height: 220, FontScale: 0.9}},
		{"exact mobile threshold", 1366, Result{Width: 450, Height: 220, FontScale: 0.9}},
		{"full hd", 1920, Result{Width: 450, Height: 300, FontScale: 1.0}},
		{"qhd", 2200, Result{Width: 450, Height: 340, FontScale: 1.1}},
		{"ultrawide", 3440, Result{Width: 450, Height: 380, FontScale: 1.2}},
		{"4k", 3840, Result{Width: 450, Height: 420, FontScale: 1.3}},
		{"beyond every threshold", 5120, Result{Width: 450, Height: 420, FontScale: 1.3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve("line-chart", Viewport{Width: tt.viewport, Height: 1000}, nil)
			if got != tt.want {
				t.Errorf("Resolve(%v) = %+v, want %+v", tt.viewport, got, tt.want)
			}
		})
	}
}

func TestResolveMeasuredWidth(t *testing.T) {
	r := newTestResolver(t)
	widths := map[string]float64{"line-chart": 900, "bar-chart": 300}
	m := MeasurerFunc(func(id string) (float64, bool) {
		w, ok := widths[id]
		return w, ok
	})
	vp := Viewport{Width: 1920, Height: 1080}

	if got := r.Resolve("line-chart", vp, m).Width; got != 860 {
		t.Errorf("Expected padded width 860, got %v", got)
	}
	if got := r.Resolve("bar-chart", vp, m).Width; got != 450 {
		t.Errorf("Narrow container should use the default width, got %v", got)
	}
	if got := r.Resolve("scatter-chart", vp, m).Width; got != 450 {
		t.Errorf("Unmeasured container should use the default width, got %v", got)
	}
}

func TestResolveFlowContainer(t *testing.T) {
	r := newTestResolver(t)

	got := r.Resolve("sankey-chart", Viewport{Width: 1920, Height: 500}, nil)
	if got.Height != 400 {
		t.Errorf("Expected 80%% of viewport height (400), got %v", got.Height)
	}
	if got.FontScale != 1.0 {
		t.Errorf("Flow container should still take its font scale from the table, got %v", got.FontScale)
	}

	got = r.Resolve("sankey-chart", Viewport{Width: 1920, Height: 1400}, nil)
	if got.Height != 600 {
		t.Errorf("Expected flow height capped at 600, got %v", got.Height)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	r := newTestResolver(t)
	m := MeasurerFunc(func(string) (float64, bool) { return 777, true })
	for _, w := range []float64{320, 1366, 1367, 2000, 4000} {
		vp := Viewport{Width: w, Height: 900}
		first := r.Resolve("bar-chart", vp, m)
		second := r.Resolve("bar-chart", vp, m)
		if first != second {
			t.Errorf("Resolve not deterministic for %v: %+v vs %+v", w, first, second)
		}
		if first.Width <= 0 || first.Height <= 0 || first.FontScale <= 0 {
			t.Errorf("Resolve produced non-positive result %+v", first)
		}
	}
}

func TestTableValidate(t *testing.T) {
	tests := []struct {
		name    string
		table   Table
		wantErr bool
	}{
		{"default", DefaultTable, false},
		{"empty", Table{}, true},
		{"descending", Table{{2000, 300, 1}, {1000, 200, 1}}, true},
		{"duplicate threshold", Table{{1000, 300, 1}, {1000, 200, 1}}, true},
		{"zero height", Table{{1000, 0, 1}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if _, err := NewResolver(Options{Table: Table{}}); err == nil {
		t.Errorf("NewResolver should reject an empty table")
	}
}

func TestViewportMobile(t *testing.T) {
	if !(Viewport{Width: 1366}).Mobile(MobileBreakpoint) {
		t.Errorf("1366 should count as mobile")
	}
	if (Viewport{Width: 1367}).Mobile(MobileBreakpoint) {
		t.Errorf("1367 should not count as mobile")
	}
}
