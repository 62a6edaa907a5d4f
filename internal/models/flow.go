package models

import (
	"fmt"
)

// FlowNode is a node of a flow graph
type FlowNode struct {
	Name     string   `json:"name"`
	Value    *float64 `json:"value,omitempty"`
	Increase string   `json:"increase,omitempty"`
}

// FlowLink connects two nodes by index
type FlowLink struct {
	Source   int     `json:"source"`
	Target   int     `json:"target"`
	Value    float64 `json:"value"`
	Increase string  `json:"increase,omitempty"`
}

// FlowGraph is the node/link structure consumed by the sankey renderer
type FlowGraph struct {
	Nodes []FlowNode `json:"nodes"`
	Links []FlowLink `json:"links"`
}

// FlowEdge is a named source/target pair used to build a graph from rows
type FlowEdge struct {
	Source string
	Target string
	Value  float64
}

// IsEmpty reports whether there is nothing to lay out
func (g FlowGraph) IsEmpty() bool {
	return len(g.Nodes) == 0 || len(g.Links) == 0
}

// LinkError describes a link that breaks the graph invariants
type LinkError struct {
	Index  int
	Link   FlowLink
	Reason string
}

func (e LinkError) Error() string {
	return fmt.Sprintf("link %d (%d->%d): %s", e.Index, e.Link.Source, e.Link.Target, e.Reason)
}

// Validate returns one LinkError per link whose endpoints do not resolve to a
// node or whose value is negative.
func (g FlowGraph) Validate() []LinkError {
	var errs []LinkError
	for i, l := range g.Links {
		switch {
		case l.Source < 0 || l.Source >= len(g.Nodes):
			errs = append(errs, LinkError{Index: i, Link: l, Reason: "source index out of range"})
		case l.Target < 0 || l.Target >= len(g.Nodes):
			errs = append(errs, LinkError{Index: i, Link: l, Reason: "target index out of range"})
		case l.Value < 0:
			errs = append(errs, LinkError{Index: i, Link: l, Reason: "negative value"})
		}
	}
	return errs
}

// Normalize returns a copy without the links Validate rejects, plus the
// rejected links' errors.
func (g FlowGraph) Normalize() (FlowGraph, []LinkError) {
	errs := g.Validate()
	if len(errs) == 0 {
		return g, nil
	}
	bad := make(map[int]bool, len(errs))
	for _, e := range errs {
		bad[e.Index] = true
	}
	out := FlowGraph{Nodes: g.Nodes, Links: make([]FlowLink, 0, len(g.Links)-len(errs))}
	for i, l := range g.Links {
		if !bad[i] {
			out.Links = append(out.Links, l)
		}
	}
	return out, errs
}

// NodeName returns the name of node i, or "" when i is out of range
func (g FlowGraph) NodeName(i int) string {
	if i < 0 || i >= len(g.Nodes) {
		return ""
	}
	return g.Nodes[i].Name
}

// FillNodeValues sets the value of every node that has none to the sum of
// its incoming and outgoing link values.
func (g *FlowGraph) FillNodeValues() {
	totals := make([]float64, len(g.Nodes))
	for _, l := range g.Links {
		if l.Source >= 0 && l.Source < len(totals) {
			totals[l.Source] += l.Value
		}
		if l.Target >= 0 && l.Target < len(totals) {
			totals[l.Target] += l.Value
		}
	}
	for i := range g.Nodes {
		if g.Nodes[i].Value == nil {
			g.Nodes[i].Value = Float(totals[i])
		}
	}
}

// FlowGraphFromEdges builds a graph whose nodes appear in first-seen order
// and whose node values total their flows.
func FlowGraphFromEdges(edges []FlowEdge) FlowGraph {
	index := make(map[string]int)
	var g FlowGraph
	nodeIndex := func(name string) int {
		if i, ok := index[name]; ok {
			return i
		}
		index[name] = len(g.Nodes)
		g.Nodes = append(g.Nodes, FlowNode{Name: name})
		return index[name]
	}
	for _, e := range edges {
		src := nodeIndex(e.Source)
		dst := nodeIndex(e.Target)
		g.Links = append(g.Links, FlowLink{Source: src, Target: dst, Value: e.Value})
	}
	g.FillNodeValues()
	return g
}
