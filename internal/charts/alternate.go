package charts

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/render"

	"insightdash/internal/models"
)

// AltChart is an embeddable go-echarts chart shown in the detail view.
// Div holds the chart's root element and Script the block that initializes
// it; HTML is both combined for template substitution.
type AltChart struct {
	ID     string
	Title  string
	Family string
	Div    string
	Script string
	HTML   string
}

const (
	altWidth  = "100%"
	altHeight = "300px"
)

type snippetRenderer interface {
	RenderSnippet() render.ChartSnippet
}

func altGlobals(id string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{ChartID: id, Width: altWidth, Height: altHeight}),
		charts.WithXAxisOpts(opts.XAxis{Show: opts.Bool(false)}),
		charts.WithYAxisOpts(opts.YAxis{Show: opts.Bool(false)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func optional(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

// BuildAltChart renders the detail request as a go-echarts chart of the same
// family, without axes or legend.
func BuildAltChart(req DetailRequest) (*AltChart, error) {
	id := "detail-alt-" + req.Tag
	labels := req.Series.Labels()

	var (
		chart  snippetRenderer
		family string
	)
	switch models.ChartType(req.Tag) {
	case models.ChartLine:
		line := charts.NewLine()
		line.SetGlobalOptions(altGlobals(id)...)
		data := make([]opts.LineData, len(req.Series))
		for i, r := range req.Series {
			data[i] = opts.LineData{Value: optional(r.Value)}
		}
		line.SetXAxis(labels).
			AddSeries(req.Title, data).
			SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
		chart, family = line, "line"

	case models.ChartBar, models.ChartLollipop, "grouped-bar":
		bar := charts.NewBar()
		bar.SetGlobalOptions(altGlobals(id)...)
		bar.SetXAxis(labels)
		if req.Tag == "grouped-bar" {
			base := make([]opts.BarData, len(req.Series))
			growth := make([]opts.BarData, len(req.Series))
			for i, r := range req.Series {
				base[i] = opts.BarData{Value: optional(r.Baseline)}
				growth[i] = opts.BarData{Value: optional(r.Growth)}
			}
			bar.AddSeries("Baseline", base).AddSeries("Growth", growth)
		} else {
			data := make([]opts.BarData, len(req.Series))
			for i, r := range req.Series {
				data[i] = opts.BarData{Value: optional(r.Value)}
			}
			bar.AddSeries(req.Title, data)
		}
		chart, family = bar, "bar"

	case models.ChartScatter:
		scatter := charts.NewScatter()
		scatter.SetGlobalOptions(altGlobals(id)...)
		tf := make([]opts.ScatterData, len(req.Series))
		ocm := make([]opts.ScatterData, len(req.Series))
		for i, r := range req.Series {
			tf[i] = opts.ScatterData{Value: optional(r.TotalTF)}
			ocm[i] = opts.ScatterData{Value: optional(r.OCMOverall)}
		}
		scatter.SetXAxis(labels).
			AddSeries(defaultScatterLabels[0], tf).
			AddSeries(defaultScatterLabels[1], ocm)
		chart, family = scatter, "scatter"

	case models.ChartSankey:
		sankey := charts.NewSankey()
		sankey.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{ChartID: id, Width: altWidth, Height: altHeight}),
			charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		)
		nodes := make([]opts.SankeyNode, len(req.Flow.Nodes))
		for i, n := range req.Flow.Nodes {
			nodes[i] = opts.SankeyNode{Name: n.Name}
		}
		links := make([]opts.SankeyLink, 0, len(req.Flow.Links))
		for _, l := range req.Flow.Links {
			links = append(links, opts.SankeyLink{
				Source: req.Flow.NodeName(l.Source),
				Target: req.Flow.NodeName(l.Target),
				Value:  float32(l.Value),
			})
		}
		sankey.AddSeries(req.Title, nodes, links)
		chart, family = sankey, "sankey"

	default:
		return nil, fmt.Errorf("%w: no alternate chart for %q", ErrUnknownChartType, req.Tag)
	}

	s := chart.RenderSnippet()
	return &AltChart{
		ID:     id,
		Title:  req.Title,
		Family: family,
		Div:    s.Element,
		Script: s.Script,
		HTML:   s.Element + "\n" + s.Script,
	}, nil
}
