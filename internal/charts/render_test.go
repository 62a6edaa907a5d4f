package charts

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"insightdash/internal/layout"
	"insightdash/internal/models"
	"insightdash/internal/surface"
)

type detailSpy struct {
	calls []DetailRequest
}

func (d *detailSpy) record(req DetailRequest) {
	d.calls = append(d.calls, req)
}

func testEnv(rec *surface.Recorder, spy *detailSpy) Env {
	env := Env{
		Viewport: layout.Viewport{Width: 1920, Height: 1080},
		Timing:   DefaultTiming,
		Tooltips: rec,
	}
	if spy != nil {
		env.OnDetail = spy.record
	}
	return env
}

func monthly(values ...float64) models.Series {
	months := []string{"Jan '24", "Feb '24", "Mar '24", "Apr '24", "May '24", "Jun '24"}
	s := make(models.Series, len(values))
	for i, v := range values {
		s[i] = models.Record{Label: months[i%len(months)], Value: models.Float(v)}
	}
	return s
}

func attr(n *html.Node, key string) string {
	v, _ := surface.Attr(n, key)
	return v
}

func TestEmptyChartsDrawPlaceholder(t *testing.T) {
	for _, chartType := range models.ChartTypes {
		t.Run(string(chartType), func(t *testing.T) {
			rec := surface.NewRecorder(string(chartType) + "-chart")
			spy := &detailSpy{}
			d := models.ChartDescriptor{ContainerID: rec.ID(), Title: "Empty", Type: chartType}

			if err := NewRegistry().Draw(rec, d, testEnv(rec, spy)); err != nil {
				t.Fatalf("Draw returned error: %v", err)
			}

			texts := rec.FindAll(surface.ByTag("text"))
			if len(texts) != 1 {
				t.Fatalf("Expected exactly one text node, got %d", len(texts))
			}
			if surface.TextContent(texts[0]) != NoDataText {
				t.Errorf("Expected %q, got %q", NoDataText, surface.TextContent(texts[0]))
			}
			if n := len(rec.FindAll(surface.ByTag("animate"))); n != 0 {
				t.Errorf("Expected no animation, got %d animate nodes", n)
			}
			for _, ev := range []surface.EventType{surface.Click, surface.MouseOver, surface.MouseOut} {
				if n := rec.Handlers(ev); n != 0 {
					t.Errorf("Expected no %s handlers, got %d", ev, n)
				}
			}
		})
	}
}

func TestRegistryUnknownType(t *testing.T) {
	rec := surface.NewRecorder("pie-chart")
	err := NewRegistry().Draw(rec, models.ChartDescriptor{Type: "pie"}, testEnv(rec, nil))
	if !errors.Is(err, ErrUnknownChartType) {
		t.Fatalf("Expected ErrUnknownChartType, got %v", err)
	}
}

func TestLineChart(t *testing.T) {
	rec := surface.NewRecorder("line-chart")
	spy := &detailSpy{}
	d := models.ChartDescriptor{ContainerID: "line-chart", Title: "ID Count Trend", Type: models.ChartLine, Series: monthly(10, 20, 15)}

	if err := DrawLine(rec, d, testEnv(rec, spy)); err != nil {
		t.Fatalf("DrawLine returned error: %v", err)
	}

	if len(rec.FindAll(surface.ByClass("line"))) != 1 || len(rec.FindAll(surface.ByClass("area"))) != 1 {
		t.Fatal("Expected one line and one area path")
	}
	points := rec.FindAll(surface.ByTag("circle"))
	if len(points) != 3 {
		t.Fatalf("Expected 3 point markers, got %d", len(points))
	}
	if attr(points[0], "r") != "6" {
		t.Errorf("Expected final marker radius 6, got %s", attr(points[0], "r"))
	}
	if rec.Handlers(surface.Click) != 1 {
		t.Errorf("Expected one click handler, got %d", rec.Handlers(surface.Click))
	}
	if rec.Handlers(surface.MouseOver) != 3 || rec.Handlers(surface.MouseOut) != 3 {
		t.Errorf("Expected hover handlers on every point")
	}

	labels := rec.FindAll(surface.ByClass("value-label"))
	if len(labels) != 3 || surface.TextContent(labels[1]) != "20" {
		t.Errorf("Unexpected value labels")
	}

	rec.Dispatch(&surface.Event{Type: surface.MouseOver, Target: "line-chart-point-1", PageX: 100, PageY: 100})
	tips := rec.Tooltips()
	if len(tips) != 1 {
		t.Fatalf("Expected one tooltip, got %d", len(tips))
	}
	want := []string{"Feb '24", "Value: 20.0", "Trend: ↑"}
	if strings.Join(tips[0].Lines, "|") != strings.Join(want, "|") {
		t.Errorf("Tooltip lines = %v, want %v", tips[0].Lines, want)
	}
	if tips[0].X != 110 || tips[0].Y != 60 || tips[0].FadeMS != TooltipFadeIn {
		t.Errorf("Unexpected tooltip placement %+v", tips[0])
	}

	rec.Dispatch(&surface.Event{Type: surface.MouseOver, Target: "line-chart-point-2"})
	if last := rec.Tooltips()[1].Lines[2]; last != "Trend: ↓" {
		t.Errorf("Expected a falling trend, got %s", last)
	}
	rec.Dispatch(&surface.Event{Type: surface.MouseOut, Target: "line-chart-point-2"})
	if rec.Hidden() != 1 {
		t.Errorf("Expected the tooltip to hide on mouseout")
	}

	rec.Dispatch(&surface.Event{Type: surface.Click, Target: "line-chart-point-0"})
	if len(spy.calls) != 1 {
		t.Fatalf("Expected one detail request, got %d", len(spy.calls))
	}
	req := spy.calls[0]
	if req.Tag != "line" || req.Summary != "Trend of ID Count Trend over time." || len(req.Series) != 3 {
		t.Errorf("Unexpected detail request %+v", req)
	}
	if req.ContainerID != "line-chart" {
		t.Errorf("Expected container id line-chart, got %s", req.ContainerID)
	}
}

func TestAnimationDisabled(t *testing.T) {
	rec := surface.NewRecorder("line-chart")
	env := testEnv(rec, nil)
	env.Timing = Timing{}
	if err := DrawLine(rec, models.ChartDescriptor{Title: "x", Type: models.ChartLine, Series: monthly(1, 2)}, env); err != nil {
		t.Fatal(err)
	}
	if n := len(rec.FindAll(surface.ByTag("animate"))); n != 0 {
		t.Errorf("Expected no animate nodes, got %d", n)
	}
}

func TestMobileLabelsRotate(t *testing.T) {
	tests := []struct {
		width  float64
		rotate bool
	}{
		{1024, true},
		{1366, true},
		{1920, false},
	}
	for _, tt := range tests {
		rec := surface.NewRecorder("bar-chart")
		env := testEnv(rec, nil)
		env.Viewport.Width = tt.width
		if err := DrawBar(rec, models.ChartDescriptor{Title: "x", Type: models.ChartBar, Series: monthly(1, 2, 3)}, env); err != nil {
			t.Fatal(err)
		}
		for _, tick := range rec.FindAll(surface.ByClass("x-axis")) {
			texts := surface.FindAll([]*html.Node{tick}, surface.ByTag("text"))
			for _, text := range texts {
				rotated := attr(text, "transform") == "rotate(-45)"
				if rotated != tt.rotate {
					t.Errorf("width %v: rotated=%v, want %v", tt.width, rotated, tt.rotate)
				}
				if tt.rotate && attr(text, "text-anchor") != "end" {
					t.Errorf("Expected rotated labels anchored at end")
				}
			}
		}
	}
}

func TestBarChart(t *testing.T) {
	rec := surface.NewRecorder("bar-chart")
	spy := &detailSpy{}
	d := models.ChartDescriptor{
		Title:         "GF Count by Month",
		Type:          models.ChartBar,
		Series:        monthly(0, 50, 100),
		PercentChange: models.Float(5.25),
	}
	if err := DrawBar(rec, d, testEnv(rec, spy)); err != nil {
		t.Fatalf("DrawBar returned error: %v", err)
	}

	bars := rec.FindAll(surface.ByClass("bar"))
	if len(bars) != 3 {
		t.Fatalf("Expected 3 bars, got %d", len(bars))
	}
	if attr(bars[0], "height") != "0" {
		t.Errorf("Expected a zero bar to have zero height, got %s", attr(bars[0], "height"))
	}
	if attr(bars[1], "rx") != "6" {
		t.Errorf("Expected rounded bars")
	}
	if n := len(surface.FindAll([]*html.Node{bars[2]}, surface.ByTag("animate"))); n != 2 {
		t.Errorf("Expected y and height transitions, got %d", n)
	}

	rec.Dispatch(&surface.Event{Type: surface.MouseOver, Target: "bar-chart-bar-0"})
	rec.Dispatch(&surface.Event{Type: surface.MouseOver, Target: "bar-chart-bar-1"})
	tips := rec.Tooltips()
	if got := tips[0].Lines[len(tips[0].Lines)-1]; got != "% Change: 5.25%" {
		t.Errorf("Expected percent change on the first bar, got %s", got)
	}
	if len(tips[1].Lines) != 3 {
		t.Errorf("Expected no percent change on other bars, got %v", tips[1].Lines)
	}

	rec.Dispatch(&surface.Event{Type: surface.Click, Target: "bar-chart-bar-1"})
	if len(spy.calls) != 1 {
		t.Fatalf("Expected one detail request")
	}
	if want := "Distribution of GF Count by Month over time. Current month % change: 5.25%"; spy.calls[0].Summary != want {
		t.Errorf("Summary = %q, want %q", spy.calls[0].Summary, want)
	}
}

func TestBarChartWithoutPercentChange(t *testing.T) {
	rec := surface.NewRecorder("bar-chart")
	spy := &detailSpy{}
	if err := DrawBar(rec, models.ChartDescriptor{Title: "T", Type: models.ChartBar, Series: monthly(4)}, testEnv(rec, spy)); err != nil {
		t.Fatal(err)
	}
	rec.Dispatch(&surface.Event{Type: surface.Click, Target: "bar-chart-svg"})
	if !strings.HasSuffix(spy.calls[0].Summary, "N/A") {
		t.Errorf("Expected N/A percent change, got %q", spy.calls[0].Summary)
	}
}

func TestBarChartClampsNegativeValues(t *testing.T) {
	rec := surface.NewRecorder("bar-chart")
	if err := DrawBar(rec, models.ChartDescriptor{Title: "T", Type: models.ChartBar, Series: monthly(-5, 10)}, testEnv(rec, nil)); err != nil {
		t.Fatal(err)
	}
	neg := rec.FindByID("bar-chart-bar-0")
	pos := rec.FindByID("bar-chart-bar-1")
	if neg == nil || pos == nil {
		t.Fatalf("Expected both bars to be drawn")
	}
	if attr(neg, "height") != "0" {
		t.Errorf("Expected a negative bar to have zero height, got %s", attr(neg, "height"))
	}
	if attr(pos, "height") == "0" {
		t.Errorf("Expected a positive bar to have height")
	}
	labels := rec.FindAll(surface.ByClass("value-label"))
	if len(labels) == 0 || !strings.Contains(surface.TextContent(labels[0]), "-5") {
		t.Errorf("Expected the negative value to keep its label")
	}
}

func TestLollipopChart(t *testing.T) {
	rec := surface.NewRecorder("area-chart")
	spy := &detailSpy{}
	d := models.ChartDescriptor{Title: "GFC Count Trend", Type: models.ChartLollipop, Series: monthly(5, 10, 15, 20)}
	if err := DrawLollipop(rec, d, testEnv(rec, spy)); err != nil {
		t.Fatalf("DrawLollipop returned error: %v", err)
	}
	if n := len(rec.FindAll(surface.ByClass("stem"))); n != 4 {
		t.Errorf("Expected 4 stems, got %d", n)
	}
	heads := rec.FindAll(surface.ByClass("head"))
	if len(heads) != 4 {
		t.Fatalf("Expected 4 heads, got %d", len(heads))
	}
	anim := surface.FindAll([]*html.Node{heads[3]}, surface.ByTag("animate"))
	if len(anim) != 1 || attr(anim[0], "dur") != "3300ms" {
		t.Errorf("Expected the fourth head to start 300ms late, got %v", anim)
	}

	rec.Dispatch(&surface.Event{Type: surface.Click, Target: "area-chart-head-2"})
	if len(spy.calls) != 1 || spy.calls[0].Tag != "lollipop" || spy.calls[0].Summary != "GFC Count Trend over time." {
		t.Errorf("Unexpected detail requests %+v", spy.calls)
	}
}

func scatterSeries() models.Series {
	return models.Series{
		{Label: "Jan", TotalTF: models.Float(3.1), OCMOverall: models.Float(1.9)},
		{Label: "Feb", TotalTF: models.Float(2.8), OCMOverall: models.Float(1.6)},
		{Label: "Mar", TotalTF: nil, OCMOverall: models.Float(2.0)},
	}
}

func TestScatterChart(t *testing.T) {
	rec := surface.NewRecorder("scatter-chart")
	spy := &detailSpy{}
	d := models.ChartDescriptor{Title: "ID Distribution", Type: models.ChartScatter, Series: scatterSeries()}
	if err := DrawScatter(rec, d, testEnv(rec, spy)); err != nil {
		t.Fatalf("DrawScatter returned error: %v", err)
	}

	if len(rec.FindAll(surface.ByClass("series"))) != 2 {
		t.Fatal("Expected two series groups")
	}
	if len(rec.FindAll(surface.ByClass("dot"))) != 6 {
		t.Errorf("Expected 6 dots")
	}
	right := rec.FindAll(surface.ByClass("y-axis-right"))
	if len(right) != 1 {
		t.Fatal("Expected a right axis")
	}
	axisLine := surface.FindAll(right, surface.ByTag("line"))[0]
	if attr(axisLine, "stroke") != "#5555ff" {
		t.Errorf("Expected the right axis in the second color, got %s", attr(axisLine, "stroke"))
	}

	rec.Dispatch(&surface.Event{Type: surface.MouseOver, Target: "scatter-chart-series-0-dot-2"})
	if lines := rec.Tooltips()[0].Lines; lines[1] != "Total TF: N/A" {
		t.Errorf("Expected N/A for a missing value, got %v", lines)
	}
	rec.Dispatch(&surface.Event{Type: surface.MouseOver, Target: "scatter-chart-series-1-dot-0"})
	if lines := rec.Tooltips()[1].Lines; lines[1] != "OCM Overall: 1.9" {
		t.Errorf("Unexpected tooltip %v", lines)
	}
}

func TestScatterLegendToggle(t *testing.T) {
	rec := surface.NewRecorder("scatter-chart")
	spy := &detailSpy{}
	d := models.ChartDescriptor{Title: "ID Distribution", Type: models.ChartScatter, Series: scatterSeries()}
	if err := DrawScatter(rec, d, testEnv(rec, spy)); err != nil {
		t.Fatal(err)
	}

	click := func() {
		rec.Dispatch(&surface.Event{Type: surface.Click, Target: "scatter-chart-legend-0"})
	}
	series := rec.FindByID("scatter-chart-series-0")
	swatch := rec.FindByID("scatter-chart-legend-0-swatch")

	click()
	if attr(series, "opacity") != "0" || attr(swatch, "opacity") != "0.3" {
		t.Errorf("Expected series hidden and swatch dimmed, got %s/%s", attr(series, "opacity"), attr(swatch, "opacity"))
	}
	if attr(rec.FindByID("scatter-chart-series-1"), "opacity") != "1" {
		t.Error("Expected the other series untouched")
	}
	click()
	if attr(series, "opacity") != "1" || attr(swatch, "opacity") != "1" {
		t.Errorf("Expected series restored, got %s/%s", attr(series, "opacity"), attr(swatch, "opacity"))
	}
	if len(spy.calls) != 0 {
		t.Errorf("Legend clicks must not open the detail view, got %d requests", len(spy.calls))
	}
}

func flowGraph() models.FlowGraph {
	return models.FlowGraph{
		Nodes: []models.FlowNode{{Name: "Retail"}, {Name: "Finance"}, {Name: "Support", Increase: "+4"}},
		Links: []models.FlowLink{
			{Source: 0, Target: 2, Value: 60},
			{Source: 1, Target: 2, Value: 120, Increase: "+12"},
			{Source: 0, Target: 1, Value: 0},
		},
	}
}

func TestSankeyChart(t *testing.T) {
	rec := surface.NewRecorder(SankeyContainer)
	spy := &detailSpy{}
	d := models.ChartDescriptor{Title: "Client Flow Sankey Diagram", Type: models.ChartSankey, Flow: flowGraph()}
	if err := DrawSankey(rec, d, testEnv(rec, spy)); err != nil {
		t.Fatalf("DrawSankey returned error: %v", err)
	}

	links := rec.FindAll(surface.ByClass("link"))
	if len(links) != 2 {
		t.Fatalf("Expected only positive links drawn, got %d", len(links))
	}
	for _, l := range links {
		w := attr(l, "stroke-width")
		if w != "3" && w != "10" && !strings.Contains(w, ".") {
			t.Errorf("Unexpected stroke width %s", w)
		}
	}
	if attr(links[0], "stroke-opacity") != "0.6" || attr(links[1], "stroke-opacity") != "0.7" {
		t.Errorf("Unexpected link opacities %s/%s", attr(links[0], "stroke-opacity"), attr(links[1], "stroke-opacity"))
	}
	if n := len(rec.FindAll(surface.ByClass("particle"))); n != 3 {
		t.Errorf("Expected 1+2 particles, got %d", n)
	}

	rects := rec.FindAll(func(n *html.Node) bool { return n.Data == "rect" })
	if len(rects) != 3 {
		t.Fatalf("Expected 3 node rects, got %d", len(rects))
	}
	if attr(rects[0], "fill") != NodePalette[0] || attr(rects[2], "fill") != NodePalette[2] {
		t.Error("Expected nodes colored by index")
	}

	rec.Dispatch(&surface.Event{Type: surface.MouseOver, Target: "sankey-chart-link-1"})
	want := []string{"Finance → Support", "Count: 120", "Increase: +12"}
	if got := rec.Tooltips()[0].Lines; strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Tooltip = %v, want %v", got, want)
	}

	rec.Dispatch(&surface.Event{Type: surface.Click, Target: "sankey-chart-node-2"})
	if len(spy.calls) != 1 {
		t.Fatal("Expected one detail request")
	}
	req := spy.calls[0]
	if req.Tag != "sankey" || req.Summary != "Flow from Client Flow Sankey Diagram" {
		t.Errorf("Unexpected detail request %+v", req)
	}
	if len(req.Series) != 3 || req.Series[0].Label != "Retail → Support" {
		t.Errorf("Expected links restated as records, got %+v", req.Series)
	}
}

func TestSankeyParticlesOnMobile(t *testing.T) {
	rec := surface.NewRecorder(SankeyContainer)
	env := testEnv(rec, nil)
	env.Viewport.Width = 1024
	if err := DrawSankey(rec, models.ChartDescriptor{Type: models.ChartSankey, Flow: flowGraph()}, env); err != nil {
		t.Fatal(err)
	}
	if n := len(rec.FindAll(surface.ByClass("particle"))); n != 2 {
		t.Errorf("Expected one particle per link on mobile, got %d", n)
	}
}

func TestSankeyCircularGraph(t *testing.T) {
	rec := surface.NewRecorder(SankeyContainer)
	g := models.FlowGraph{
		Nodes: []models.FlowNode{{Name: "A"}, {Name: "B"}},
		Links: []models.FlowLink{{Source: 0, Target: 1, Value: 10}, {Source: 1, Target: 0, Value: 5}},
	}
	err := DrawSankey(rec, models.ChartDescriptor{Type: models.ChartSankey, Flow: g}, testEnv(rec, nil))
	if !errors.Is(err, ErrCircularFlow) {
		t.Fatalf("Expected ErrCircularFlow, got %v", err)
	}
}

func TestSankeyDropsInvalidLinks(t *testing.T) {
	rec := surface.NewRecorder(SankeyContainer)
	g := flowGraph()
	g.Links = append(g.Links, models.FlowLink{Source: 0, Target: 9, Value: 40})
	if err := DrawSankey(rec, models.ChartDescriptor{Type: models.ChartSankey, Flow: g}, testEnv(rec, nil)); err != nil {
		t.Fatalf("Expected invalid links to be dropped, got %v", err)
	}
	if n := len(rec.FindAll(surface.ByClass("link"))); n != 2 {
		t.Errorf("Expected 2 drawn links, got %d", n)
	}
}

func TestTooltipPosition(t *testing.T) {
	tests := []struct {
		name         string
		pageX, pageY float64
		wantX, wantY float64
	}{
		{"offset from pointer", 100, 200, 110, 160},
		{"clamped to right edge", 1900, 200, 1700, 160},
		{"clamped to top", 100, 30, 110, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := TooltipPosition(tt.pageX, tt.pageY, 1920)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("TooltipPosition = (%v, %v), want (%v, %v)", x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestDefsAreUniquePerContainer(t *testing.T) {
	a := NewDefs("line-chart")
	b := NewDefs("bar-chart")
	if a.Gradient("#000", "#fff") == b.Gradient("#000", "#fff") {
		t.Error("Expected gradient ids to differ between containers")
	}
	if a.Gradient("#000", "#fff") == a.Gradient("#000", "#fff") {
		t.Error("Expected repeated gradients to get distinct ids")
	}
	fx := a.Effects()
	if fx.Glow != "url(#line-chart-glow)" || fx.DropShadow != "url(#line-chart-drop-shadow)" {
		t.Errorf("Unexpected effect ids %+v", fx)
	}
}
