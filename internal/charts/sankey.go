package charts

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"golang.org/x/net/html"

	"insightdash/internal/logger"
	"insightdash/internal/models"
	"insightdash/internal/surface"
	"insightdash/internal/theme"
)

// SankeyContainer is the container sized as a flow graph
const SankeyContainer = "sankey-chart"

const (
	flowArrow         = " → "
	minLinkWidth      = 3.0
	maxLinkWidth      = 10.0
	maxLinkOpacity    = 0.7
	minNodeHeight     = 35.0
	nodeRadius        = "8"
	particleUnit      = 50.0
	particleRadius    = "2"
	particleTravel    = 3 * time.Second
	linkStagger       = 50 * time.Millisecond
	linkEnterDuration = time.Second
)

var (
	sankeyMargin = Margin{Top: 20, Right: 20, Bottom: 80, Left: 20}

	// NodePalette colors flow nodes by index
	NodePalette = []string{"#1E3A8A", "#3B82F6", "#60A5FA", "#93C5FD", "#BFDBFE", "#E0E7FF"}
)

// linkLabel names a link as "source → target"
func linkLabel(g models.FlowGraph, l models.FlowLink) string {
	return g.NodeName(l.Source) + flowArrow + g.NodeName(l.Target)
}

// FlowRecords restates the links of g as records, one per link
func FlowRecords(g models.FlowGraph) models.Series {
	out := make(models.Series, 0, len(g.Links))
	for _, l := range g.Links {
		out = append(out, models.Record{
			Label:    linkLabel(g, l),
			Value:    models.Float(l.Value),
			Increase: l.Increase,
		})
	}
	return out
}

// particleCount is how many particles travel a link of value v
func particleCount(v float64, mobile bool) int {
	maxPerLink := 2
	if mobile {
		maxPerLink = 1
	}
	n := int(math.Floor(v / particleUnit))
	if n > maxPerLink {
		return maxPerLink
	}
	return n
}

func nodeValue(g models.FlowGraph, n *FlowNodeLayout) string {
	if v := g.Nodes[n.Index].Value; v != nil {
		return Plain(*v)
	}
	return Plain(n.Value)
}

// DrawSankey lays out the flow graph and draws links, nodes and particles
func DrawSankey(s surface.Surface, d models.ChartDescriptor, env Env) error {
	g, invalid := d.Flow.Normalize()
	for _, e := range invalid {
		logger.Component("charts").Warn("dropping invalid flow link", map[string]interface{}{
			"container": s.ID(),
			"reason":    e.Error(),
		})
	}
	if g.IsEmpty() {
		DrawEmpty(s, env)
		return nil
	}

	c := newCanvas(s, env, sankeyMargin)
	fl, err := LayoutFlow(g, FlowExtent{
		X0: c.left(), Y0: c.top(),
		X1: c.right(), Y1: c.bottom(),
		NodeWidth:   defaultNodeWidth,
		NodePadding: defaultNodePadding,
	})
	if err != nil {
		return fmt.Errorf("failed to lay out flow graph: %w", err)
	}

	t := env.Timing
	defs := NewDefs(c.id)
	stroke := defs.HorizontalGradient(env.color(theme.AccentStart), env.color(theme.AccentEnd))
	fx := defs.Effects()
	fg := env.color(theme.Foreground)

	links := surface.Group(surface.A("class", "links"))
	particles := surface.Group(surface.A("class", "particles"))
	for _, link := range fl.Links {
		if link.Value <= 0 {
			continue
		}
		src := g.Links[link.Index]
		label := linkLabel(g, src)
		id := c.elementID("link", strconv.Itoa(link.Index))
		path := LinkPath(link.Source.X1, link.Y0, link.Target.X0, link.Y1)
		opacity := surface.F(math.Min(maxLinkOpacity, link.Value/100))

		n := surface.El("path", []html.Attribute{
			surface.A("id", id),
			surface.A("class", "link"),
			surface.A("d", path),
			surface.A("fill", "none"),
			surface.A("stroke", stroke),
			surface.AF("stroke-width", math.Max(minLinkWidth, math.Min(link.Width, maxLinkWidth))),
			surface.A("stroke-opacity", opacity),
		}, titleEl(label+": "+Plain(link.Value)))
		if t.Enabled() {
			n.AppendChild(Transition("stroke-opacity", "0", opacity, time.Duration(link.Index)*linkStagger, linkEnterDuration))
		}
		links.AppendChild(n)
		hover(s, env, id, []string{
			label,
			"Count: " + Plain(link.Value),
			"Increase: " + OrNA(src.Increase),
		})

		if !t.Enabled() {
			continue
		}
		count := particleCount(link.Value, c.mobile)
		for p := 0; p < count; p++ {
			begin := time.Duration(p) * particleTravel / time.Duration(count)
			particles.AppendChild(surface.El("circle", []html.Attribute{
				surface.A("class", "particle"),
				surface.A("r", particleRadius),
				surface.A("fill", "#fff"),
				surface.A("opacity", "0.5"),
			}, MotionAlong(path, particleTravel, begin)))
		}
	}

	nodes := surface.Group(surface.A("class", "nodes"))
	for _, n := range fl.Nodes {
		id := c.elementID("node", strconv.Itoa(n.Index))
		value := nodeValue(g, n)
		increase := OrNA(g.Nodes[n.Index].Increase)
		cx := (n.X0 + n.X1) / 2

		node := surface.Group(surface.A("id", id), surface.A("class", "node"))
		node.AppendChild(surface.El("rect", []html.Attribute{
			surface.AF("x", n.X0),
			surface.AF("y", n.Y0),
			surface.AF("width", n.X1-n.X0),
			surface.AF("height", math.Max(minNodeHeight, n.Y1-n.Y0)),
			surface.A("rx", nodeRadius),
			surface.A("fill", NodePalette[n.Index%len(NodePalette)]),
			surface.A("filter", fx.DropShadow),
		}, titleEl(n.Name+": "+value)))
		for i, text := range []string{n.Name, value, increase} {
			node.AppendChild(surface.TextEl(text,
				surface.AF("x", cx),
				surface.AF("y", n.Y0+float64(15+10*i)*c.fontScale),
				surface.A("text-anchor", "middle"),
				surface.A("fill", "#fff"),
				surface.A("font-size", c.fontSize(10)),
			))
		}
		nodes.AppendChild(node)
		hover(s, env, id, []string{n.Name, "Value: " + value, "Increase: " + increase})
	}

	title := surface.TextEl(d.Title,
		surface.A("class", "chart-title"),
		surface.AF("x", c.width/2),
		surface.AF("y", c.margin.Top/2),
		surface.A("text-anchor", "middle"),
		surface.A("fill", fg),
		surface.A("font-size", c.fontSize(16)),
	)

	s.Draw(c.root(defs.Node(), links, particles, nodes, title))

	attachDetail(s, c, env, DetailRequest{
		Title:   d.Title,
		Tag:     string(models.ChartSankey),
		Summary: "Flow from " + d.Title,
		Series:  FlowRecords(g),
		Flow:    g,
	})
	return nil
}
