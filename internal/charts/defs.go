package charts

import (
	"strconv"

	"golang.org/x/net/html"

	"insightdash/internal/surface"
)

// Defs collects gradients and filters for one chart. Ids are prefixed with
// the container id, so they stay unique within a page.
type Defs struct {
	prefix string
	seq    int
	node   *html.Node
}

// NewDefs starts an empty <defs> block
func NewDefs(prefix string) *Defs {
	return &Defs{prefix: prefix, node: surface.El("defs", nil)}
}

// Node returns the <defs> element to place first in the chart
func (d *Defs) Node() *html.Node {
	return d.node
}

func (d *Defs) nextID(kind string) string {
	d.seq++
	return d.prefix + "-" + kind + "-" + strconv.Itoa(d.seq)
}

func stop(offset, color, opacity string) *html.Node {
	return surface.El("stop", []html.Attribute{
		surface.A("offset", offset),
		surface.A("stop-color", color),
		surface.A("stop-opacity", opacity),
	})
}

// Gradient adds a top-to-bottom gradient from start (0.6) to end (0.2) and
// returns its url() reference.
func (d *Defs) Gradient(start, end string) string {
	id := d.nextID("gradient")
	d.node.AppendChild(surface.El("linearGradient", []html.Attribute{
		surface.A("id", id),
		surface.A("x1", "0%"), surface.A("y1", "0%"),
		surface.A("x2", "0%"), surface.A("y2", "100%"),
	},
		stop("0%", start, "0.6"),
		stop("100%", end, "0.2"),
	))
	return "url(#" + id + ")"
}

// HorizontalGradient adds a left-to-right gradient used for flow links
func (d *Defs) HorizontalGradient(start, end string) string {
	id := d.nextID("link-gradient")
	d.node.AppendChild(surface.El("linearGradient", []html.Attribute{
		surface.A("id", id),
		surface.A("x1", "0%"), surface.A("y1", "0%"),
		surface.A("x2", "100%"), surface.A("y2", "0%"),
	},
		stop("0%", start, "0.8"),
		stop("100%", end, "0.5"),
	))
	return "url(#" + id + ")"
}

// Effects holds url() references to the shared filters
type Effects struct {
	DropShadow string
	Glow       string
}

// Effects adds the drop-shadow and glow filters
func (d *Defs) Effects() Effects {
	shadowID := d.prefix + "-drop-shadow"
	glowID := d.prefix + "-glow"

	d.node.AppendChild(surface.El("filter", []html.Attribute{surface.A("id", shadowID)},
		surface.El("feDropShadow", []html.Attribute{
			surface.A("dx", "1"),
			surface.A("dy", "1"),
			surface.A("stdDeviation", "3"),
			surface.A("flood-opacity", "0.4"),
		}),
	))
	d.node.AppendChild(surface.El("filter", []html.Attribute{surface.A("id", glowID)},
		surface.El("feGaussianBlur", []html.Attribute{
			surface.A("stdDeviation", "3"),
			surface.A("result", "coloredBlur"),
		}),
		surface.El("feMerge", nil,
			surface.El("feMergeNode", []html.Attribute{surface.A("in", "coloredBlur")}),
			surface.El("feMergeNode", []html.Attribute{surface.A("in", "SourceGraphic")}),
		),
	))
	return Effects{DropShadow: "url(#" + shadowID + ")", Glow: "url(#" + glowID + ")"}
}
