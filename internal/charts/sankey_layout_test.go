package charts

import (
	"errors"
	"math"
	"testing"

	"insightdash/internal/models"
)

const eps = 1e-6

func twoColumnGraph() models.FlowGraph {
	return models.FlowGraph{
		Nodes: []models.FlowNode{{Name: "A"}, {Name: "B"}, {Name: "C"}},
		Links: []models.FlowLink{
			{Source: 0, Target: 2, Value: 10},
			{Source: 1, Target: 2, Value: 30},
		},
	}
}

var testExtent = FlowExtent{X0: 0, Y0: 0, X1: 400, Y1: 300, NodeWidth: 80, NodePadding: 15}

func TestLayoutFlowColumns(t *testing.T) {
	fl, err := LayoutFlow(twoColumnGraph(), testExtent)
	if err != nil {
		t.Fatalf("LayoutFlow returned error: %v", err)
	}
	a, b, c := fl.Nodes[0], fl.Nodes[1], fl.Nodes[2]

	if a.Layer != 0 || b.Layer != 0 || c.Layer != 1 {
		t.Errorf("Unexpected layers %d %d %d", a.Layer, b.Layer, c.Layer)
	}
	if a.X0 != 0 || a.X1 != 80 || c.X0 != 320 || c.X1 != 400 {
		t.Errorf("Unexpected columns a=[%v,%v] c=[%v,%v]", a.X0, a.X1, c.X0, c.X1)
	}
	if c.Value != 40 {
		t.Errorf("Expected C to carry 40, got %v", c.Value)
	}

	// graph order is kept and nodes do not overlap
	if b.Y0 < a.Y1+15-eps {
		t.Errorf("Nodes overlap: a=[%v,%v] b=[%v,%v]", a.Y0, a.Y1, b.Y0, b.Y1)
	}
	for _, n := range fl.Nodes {
		if n.Y0 < -eps || n.Y1 > 300+eps {
			t.Errorf("Node %s leaves the extent: [%v,%v]", n.Name, n.Y0, n.Y1)
		}
	}

	ky := 285.0 / 40
	if math.Abs(fl.Links[0].Width-10*ky) > eps || math.Abs(fl.Links[1].Width-30*ky) > eps {
		t.Errorf("Unexpected link widths %v %v", fl.Links[0].Width, fl.Links[1].Width)
	}
	if math.Abs((c.Y1-c.Y0)-40*ky) > eps {
		t.Errorf("Expected C height %v, got %v", 40*ky, c.Y1-c.Y0)
	}
	if math.Abs(fl.Links[0].Y0-(a.Y0+fl.Links[0].Width/2)) > eps {
		t.Errorf("Link should leave A at its center line")
	}
	if fl.Links[0].Y1 >= fl.Links[1].Y1 {
		t.Errorf("Links should enter C in source order")
	}
}

func TestLayoutFlowDeterministic(t *testing.T) {
	g := flowGraph()
	first, err := LayoutFlow(g, testExtent)
	if err != nil {
		t.Fatal(err)
	}
	second, err := LayoutFlow(g, testExtent)
	if err != nil {
		t.Fatal(err)
	}
	for i := range first.Nodes {
		if first.Nodes[i].Y0 != second.Nodes[i].Y0 || first.Nodes[i].X0 != second.Nodes[i].X0 {
			t.Errorf("Node %d moved between runs", i)
		}
	}
}

func TestLayoutFlowCenterAlignsSources(t *testing.T) {
	// D feeds C directly, so it sits one column before C, not in column 0
	g := models.FlowGraph{
		Nodes: []models.FlowNode{{Name: "A"}, {Name: "B"}, {Name: "C"}, {Name: "D"}},
		Links: []models.FlowLink{
			{Source: 0, Target: 1, Value: 5},
			{Source: 1, Target: 2, Value: 5},
			{Source: 3, Target: 2, Value: 5},
		},
	}
	fl, err := LayoutFlow(g, testExtent)
	if err != nil {
		t.Fatal(err)
	}
	if fl.Nodes[3].Layer != 1 {
		t.Errorf("Expected D in column 1, got %d", fl.Nodes[3].Layer)
	}
	if fl.Nodes[2].Layer != 2 {
		t.Errorf("Expected C in column 2, got %d", fl.Nodes[2].Layer)
	}
}

func TestLayoutFlowErrors(t *testing.T) {
	circular := models.FlowGraph{
		Nodes: []models.FlowNode{{Name: "A"}, {Name: "B"}, {Name: "C"}},
		Links: []models.FlowLink{
			{Source: 0, Target: 1, Value: 1},
			{Source: 1, Target: 2, Value: 1},
			{Source: 2, Target: 0, Value: 1},
		},
	}
	if _, err := LayoutFlow(circular, testExtent); !errors.Is(err, ErrCircularFlow) {
		t.Errorf("Expected ErrCircularFlow, got %v", err)
	}

	dangling := models.FlowGraph{
		Nodes: []models.FlowNode{{Name: "A"}},
		Links: []models.FlowLink{{Source: 0, Target: 3, Value: 1}},
	}
	if _, err := LayoutFlow(dangling, testExtent); err == nil {
		t.Error("Expected an error for a link to a missing node")
	}
}

func TestLayoutFlowZeroValues(t *testing.T) {
	g := models.FlowGraph{
		Nodes: []models.FlowNode{{Name: "A"}, {Name: "B"}},
		Links: []models.FlowLink{{Source: 0, Target: 1, Value: 0}},
	}
	fl, err := LayoutFlow(g, testExtent)
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range fl.Nodes {
		if math.IsNaN(n.Y0) || math.IsNaN(n.Y1) {
			t.Errorf("Node %s has NaN position", n.Name)
		}
	}
}
