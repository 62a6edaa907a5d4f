package charts

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"insightdash/internal/models"
)

// ErrCircularFlow is returned when a flow graph links back into itself
var ErrCircularFlow = errors.New("circular link in flow graph")

const (
	defaultNodeWidth   = 80.0
	defaultNodePadding = 15.0
	relaxIterations    = 6
	collisionEpsilon   = 1e-6
)

// FlowNodeLayout is a positioned node
type FlowNodeLayout struct {
	Index  int
	Name   string
	Value  float64
	Depth  int
	Height int
	Layer  int
	X0, X1 float64
	Y0, Y1 float64

	sourceLinks []*FlowLinkLayout
	targetLinks []*FlowLinkLayout
}

// FlowLinkLayout is a positioned link. Y0 is the center of the link where it
// leaves the source and Y1 where it enters the target.
type FlowLinkLayout struct {
	Index  int
	Source *FlowNodeLayout
	Target *FlowNodeLayout
	Value  float64
	Width  float64
	Y0, Y1 float64
}

// FlowLayout is the result of laying out a flow graph
type FlowLayout struct {
	Nodes []*FlowNodeLayout
	Links []*FlowLinkLayout
}

// FlowExtent bounds the layout and sizes its nodes
type FlowExtent struct {
	X0, Y0, X1, Y1 float64
	NodeWidth      float64
	NodePadding    float64
}

type flowLayouter struct {
	ext   FlowExtent
	py    float64
	nodes []*FlowNodeLayout
	links []*FlowLinkLayout
}

// LayoutFlow positions the nodes of g in columns by depth, centered, keeping
// the graph's node order within each column. Links must reference existing
// nodes. It is deterministic for a given graph and extent.
func LayoutFlow(g models.FlowGraph, ext FlowExtent) (*FlowLayout, error) {
	if ext.NodeWidth <= 0 {
		ext.NodeWidth = defaultNodeWidth
	}
	if ext.NodePadding <= 0 {
		ext.NodePadding = defaultNodePadding
	}

	l := &flowLayouter{ext: ext}
	l.nodes = make([]*FlowNodeLayout, len(g.Nodes))
	for i, n := range g.Nodes {
		l.nodes[i] = &FlowNodeLayout{Index: i, Name: n.Name}
	}
	l.links = make([]*FlowLinkLayout, len(g.Links))
	for i, fl := range g.Links {
		if fl.Source < 0 || fl.Source >= len(l.nodes) || fl.Target < 0 || fl.Target >= len(l.nodes) {
			return nil, fmt.Errorf("link %d references a missing node", i)
		}
		link := &FlowLinkLayout{Index: i, Source: l.nodes[fl.Source], Target: l.nodes[fl.Target], Value: fl.Value}
		link.Source.sourceLinks = append(link.Source.sourceLinks, link)
		link.Target.targetLinks = append(link.Target.targetLinks, link)
		l.links[i] = link
	}

	l.computeNodeValues()
	if err := l.computeNodeDepths(); err != nil {
		return nil, err
	}
	if err := l.computeNodeHeights(); err != nil {
		return nil, err
	}
	l.computeNodeBreadths()
	l.computeLinkBreadths()
	return &FlowLayout{Nodes: l.nodes, Links: l.links}, nil
}

func sumValues(links []*FlowLinkLayout) float64 {
	total := 0.0
	for _, link := range links {
		total += link.Value
	}
	return total
}

func (l *flowLayouter) computeNodeValues() {
	for _, n := range l.nodes {
		n.Value = math.Max(sumValues(n.sourceLinks), sumValues(n.targetLinks))
	}
}

// orderedSet keeps insertion order
type orderedSet struct {
	items []*FlowNodeLayout
	seen  map[*FlowNodeLayout]bool
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[*FlowNodeLayout]bool)}
}

func (s *orderedSet) add(n *FlowNodeLayout) {
	if !s.seen[n] {
		s.seen[n] = true
		s.items = append(s.items, n)
	}
}

// walk assigns each node its distance along next, failing once the walk
// outlasts the node count.
func (l *flowLayouter) walk(set func(*FlowNodeLayout, int), next func(*FlowNodeLayout) []*FlowNodeLayout) error {
	current := newOrderedSet()
	for _, n := range l.nodes {
		current.add(n)
	}
	for x := 0; len(current.items) > 0; {
		following := newOrderedSet()
		for _, n := range current.items {
			set(n, x)
			for _, m := range next(n) {
				following.add(m)
			}
		}
		x++
		if x > len(l.nodes) {
			return ErrCircularFlow
		}
		current = following
	}
	return nil
}

func (l *flowLayouter) computeNodeDepths() error {
	return l.walk(func(n *FlowNodeLayout, x int) { n.Depth = x }, func(n *FlowNodeLayout) []*FlowNodeLayout {
		out := make([]*FlowNodeLayout, len(n.sourceLinks))
		for i, link := range n.sourceLinks {
			out[i] = link.Target
		}
		return out
	})
}

func (l *flowLayouter) computeNodeHeights() error {
	return l.walk(func(n *FlowNodeLayout, x int) { n.Height = x }, func(n *FlowNodeLayout) []*FlowNodeLayout {
		out := make([]*FlowNodeLayout, len(n.targetLinks))
		for i, link := range n.targetLinks {
			out[i] = link.Source
		}
		return out
	})
}

// centerAlign puts sources one column before their nearest target
func centerAlign(n *FlowNodeLayout) int {
	if len(n.targetLinks) > 0 {
		return n.Depth
	}
	if len(n.sourceLinks) > 0 {
		min := math.MaxInt
		for _, link := range n.sourceLinks {
			if link.Target.Depth < min {
				min = link.Target.Depth
			}
		}
		return min - 1
	}
	return 0
}

func (l *flowLayouter) computeNodeLayers() [][]*FlowNodeLayout {
	cols := 0
	for _, n := range l.nodes {
		if n.Depth+1 > cols {
			cols = n.Depth + 1
		}
	}
	kx := 0.0
	if cols > 1 {
		kx = (l.ext.X1 - l.ext.X0 - l.ext.NodeWidth) / float64(cols-1)
	}
	columns := make([][]*FlowNodeLayout, cols)
	for _, n := range l.nodes {
		i := centerAlign(n)
		if i > cols-1 {
			i = cols - 1
		}
		if i < 0 {
			i = 0
		}
		n.Layer = i
		n.X0 = l.ext.X0 + float64(i)*kx
		n.X1 = n.X0 + l.ext.NodeWidth
		columns[i] = append(columns[i], n)
	}
	return columns
}

func (l *flowLayouter) computeNodeBreadths() {
	columns := l.computeNodeLayers()
	maxLen := 0
	for _, col := range columns {
		if len(col) > maxLen {
			maxLen = len(col)
		}
	}
	l.py = l.ext.NodePadding
	if maxLen > 1 {
		l.py = math.Min(l.ext.NodePadding, (l.ext.Y1-l.ext.Y0)/float64(maxLen-1))
	}
	l.initializeNodeBreadths(columns)
	for i := 0; i < relaxIterations; i++ {
		alpha := math.Pow(0.99, float64(i))
		beta := math.Max(1-alpha, float64(i+1)/relaxIterations)
		l.relaxRightToLeft(columns, alpha, beta)
		l.relaxLeftToRight(columns, alpha, beta)
	}
}

func (l *flowLayouter) initializeNodeBreadths(columns [][]*FlowNodeLayout) {
	ky := math.Inf(1)
	for _, col := range columns {
		total := 0.0
		for _, n := range col {
			total += n.Value
		}
		if total <= 0 {
			continue
		}
		ky = math.Min(ky, (l.ext.Y1-l.ext.Y0-float64(len(col)-1)*l.py)/total)
	}
	if math.IsInf(ky, 1) || ky < 0 {
		ky = 0
	}

	for _, col := range columns {
		y := l.ext.Y0
		for _, n := range col {
			n.Y0 = y
			n.Y1 = y + n.Value*ky
			y = n.Y1 + l.py
			for _, link := range n.sourceLinks {
				link.Width = link.Value * ky
			}
		}
		y = (l.ext.Y1 - y + l.py) / float64(len(col)+1)
		for i, n := range col {
			n.Y0 += y * float64(i+1)
			n.Y1 += y * float64(i+1)
		}
		reorderLinks(col)
	}
}

func (l *flowLayouter) relaxLeftToRight(columns [][]*FlowNodeLayout, alpha, beta float64) {
	for i := 1; i < len(columns); i++ {
		for _, target := range columns[i] {
			y, w := 0.0, 0.0
			for _, link := range target.targetLinks {
				v := link.Value * float64(target.Layer-link.Source.Layer)
				y += l.targetTop(link.Source, target) * v
				w += v
			}
			if !(w > 0) {
				continue
			}
			dy := (y/w - target.Y0) * alpha
			target.Y0 += dy
			target.Y1 += dy
			reorderNodeLinks(target)
		}
		l.resolveCollisions(columns[i], beta)
	}
}

func (l *flowLayouter) relaxRightToLeft(columns [][]*FlowNodeLayout, alpha, beta float64) {
	for i := len(columns) - 2; i >= 0; i-- {
		for _, source := range columns[i] {
			y, w := 0.0, 0.0
			for _, link := range source.sourceLinks {
				v := link.Value * float64(link.Target.Layer-source.Layer)
				y += l.sourceTop(source, link.Target) * v
				w += v
			}
			if !(w > 0) {
				continue
			}
			dy := (y/w - source.Y0) * alpha
			source.Y0 += dy
			source.Y1 += dy
			reorderNodeLinks(source)
		}
		l.resolveCollisions(columns[i], beta)
	}
}

func (l *flowLayouter) resolveCollisions(nodes []*FlowNodeLayout, alpha float64) {
	if len(nodes) == 0 {
		return
	}
	i := len(nodes) >> 1
	subject := nodes[i]
	l.bottomToTop(nodes, subject.Y0-l.py, i-1, alpha)
	l.topToBottom(nodes, subject.Y1+l.py, i+1, alpha)
	l.bottomToTop(nodes, l.ext.Y1, len(nodes)-1, alpha)
	l.topToBottom(nodes, l.ext.Y0, 0, alpha)
}

// topToBottom pushes nodes down until they clear y
func (l *flowLayouter) topToBottom(nodes []*FlowNodeLayout, y float64, i int, alpha float64) {
	for ; i < len(nodes); i++ {
		n := nodes[i]
		if dy := (y - n.Y0) * alpha; dy > collisionEpsilon {
			n.Y0 += dy
			n.Y1 += dy
		}
		y = n.Y1 + l.py
	}
}

// bottomToTop pushes nodes up until they clear y
func (l *flowLayouter) bottomToTop(nodes []*FlowNodeLayout, y float64, i int, alpha float64) {
	for ; i >= 0; i-- {
		n := nodes[i]
		if dy := (n.Y1 - y) * alpha; dy > collisionEpsilon {
			n.Y0 -= dy
			n.Y1 -= dy
		}
		y = n.Y0 - l.py
	}
}

// sourceTop is where a link from source should enter target for the link to
// run straight.
func (l *flowLayouter) sourceTop(source, target *FlowNodeLayout) float64 {
	y := target.Y0 - float64(len(target.targetLinks)-1)*l.py/2
	for _, link := range target.targetLinks {
		if link.Source == source {
			break
		}
		y += link.Width + l.py
	}
	for _, link := range source.sourceLinks {
		if link.Target == target {
			break
		}
		y -= link.Width
	}
	return y
}

// targetTop is the mirror of sourceTop
func (l *flowLayouter) targetTop(source, target *FlowNodeLayout) float64 {
	y := source.Y0 - float64(len(source.sourceLinks)-1)*l.py/2
	for _, link := range source.sourceLinks {
		if link.Target == target {
			break
		}
		y += link.Width + l.py
	}
	for _, link := range target.targetLinks {
		if link.Source == source {
			break
		}
		y -= link.Width
	}
	return y
}

func sortByTargetBreadth(links []*FlowLinkLayout) {
	sort.SliceStable(links, func(i, j int) bool {
		a, b := links[i], links[j]
		if a.Target.Y0 != b.Target.Y0 {
			return a.Target.Y0 < b.Target.Y0
		}
		return a.Index < b.Index
	})
}

func sortBySourceBreadth(links []*FlowLinkLayout) {
	sort.SliceStable(links, func(i, j int) bool {
		a, b := links[i], links[j]
		if a.Source.Y0 != b.Source.Y0 {
			return a.Source.Y0 < b.Source.Y0
		}
		return a.Index < b.Index
	})
}

func reorderNodeLinks(n *FlowNodeLayout) {
	for _, link := range n.targetLinks {
		sortByTargetBreadth(link.Source.sourceLinks)
	}
	for _, link := range n.sourceLinks {
		sortBySourceBreadth(link.Target.targetLinks)
	}
}

func reorderLinks(nodes []*FlowNodeLayout) {
	for _, n := range nodes {
		sortByTargetBreadth(n.sourceLinks)
		sortBySourceBreadth(n.targetLinks)
	}
}

func (l *flowLayouter) computeLinkBreadths() {
	for _, n := range l.nodes {
		y0, y1 := n.Y0, n.Y0
		for _, link := range n.sourceLinks {
			link.Y0 = y0 + link.Width/2
			y0 += link.Width
		}
		for _, link := range n.targetLinks {
			link.Y1 = y1 + link.Width/2
			y1 += link.Width
		}
	}
}
