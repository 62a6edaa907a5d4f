package models

import "testing"

func TestFlowGraphValidate(t *testing.T) {
	g := FlowGraph{
		Nodes: []FlowNode{{Name: "A"}, {Name: "B"}},
		Links: []FlowLink{
			{Source: 0, Target: 1, Value: 50},
			{Source: 0, Target: 5, Value: 10},
			{Source: -1, Target: 1, Value: 10},
			{Source: 1, Target: 0, Value: -2},
		},
	}

	errs := g.Validate()
	if len(errs) != 3 {
		t.Fatalf("Expected 3 link errors, got %d: %v", len(errs), errs)
	}
	if errs[0].Index != 1 || errs[0].Reason != "target index out of range" {
		t.Errorf("Unexpected first error: %v", errs[0])
	}

	normalized, dropped := g.Normalize()
	if len(dropped) != 3 {
		t.Errorf("Expected 3 dropped links, got %d", len(dropped))
	}
	if len(normalized.Links) != 1 || normalized.Links[0].Value != 50 {
		t.Errorf("Unexpected normalized links: %+v", normalized.Links)
	}
	if len(g.Links) != 4 {
		t.Errorf("Normalize must not modify the receiver")
	}
}

func TestFlowGraphFromEdges(t *testing.T) {
	g := FlowGraphFromEdges([]FlowEdge{
		{Source: "Retail", Target: "Technology", Value: 500},
		{Source: "Technology", Target: "Education", Value: 300},
	})

	if len(g.Nodes) != 3 {
		t.Fatalf("Expected 3 nodes, got %d", len(g.Nodes))
	}
	if g.NodeName(1) != "Technology" {
		t.Errorf("Expected first-seen order, got %s", g.NodeName(1))
	}
	if g.NodeName(7) != "" {
		t.Errorf("Out of range node name should be empty")
	}
	if v := ValueOr(g.Nodes[1].Value, -1); v != 800 {
		t.Errorf("Expected Technology total 800, got %v", v)
	}
	if g.Links[1].Source != 1 || g.Links[1].Target != 2 {
		t.Errorf("Unexpected link indices: %+v", g.Links[1])
	}
}

func TestFillNodeValuesKeepsExisting(t *testing.T) {
	g := FlowGraph{
		Nodes: []FlowNode{{Name: "A", Value: Float(7)}, {Name: "B"}},
		Links: []FlowLink{{Source: 0, Target: 1, Value: 50}},
	}
	g.FillNodeValues()
	if *g.Nodes[0].Value != 7 {
		t.Errorf("Existing value must be kept, got %v", *g.Nodes[0].Value)
	}
	if *g.Nodes[1].Value != 50 {
		t.Errorf("Expected computed value 50, got %v", *g.Nodes[1].Value)
	}
}
