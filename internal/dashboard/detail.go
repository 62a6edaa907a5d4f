package dashboard

import (
	"sync"

	"insightdash/internal/charts"
	"insightdash/internal/logger"
	"insightdash/internal/models"
)

// Table is the tabular restatement of a clicked series. Rows follow
// label, value[, secondary].
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// GroupedBarTag marks series of baseline/growth pairs
const GroupedBarTag = "grouped-bar"

// BuildTable restates a series for tag
func BuildTable(series models.Series, tag string) Table {
	var t Table
	switch tag {
	case string(models.ChartScatter):
		t.Columns = []string{"Label", "Total TF", "OCM Overall"}
		for _, r := range series {
			t.Rows = append(t.Rows, []string{charts.OrNA(r.Label), charts.FixedOrNA(r.TotalTF, 2), charts.FixedOrNA(r.OCMOverall, 2)})
		}
	case GroupedBarTag:
		t.Columns = []string{"Label", "Baseline", "Growth"}
		for _, r := range series {
			t.Rows = append(t.Rows, []string{charts.OrNA(r.Label), charts.FixedOrNA(r.Baseline, 2), charts.FixedOrNA(r.Growth, 2)})
		}
	default:
		t.Columns = []string{"Label", "Value"}
		for _, r := range series {
			t.Rows = append(t.Rows, []string{charts.OrNA(r.Label), charts.FixedOrNA(r.Value, 2)})
		}
	}
	return t
}

// FlowTable restates the links of a flow graph
func FlowTable(g models.FlowGraph) Table {
	t := Table{Columns: []string{"Source", "Target", "Value", "Increase"}}
	for _, l := range g.Links {
		t.Rows = append(t.Rows, []string{
			charts.OrNA(g.NodeName(l.Source)),
			charts.OrNA(g.NodeName(l.Target)),
			charts.Plain(l.Value),
			charts.OrNA(l.Increase),
		})
	}
	return t
}

// View is a snapshot of the detail panel
type View struct {
	Open        bool             `json:"open"`
	ContainerID string           `json:"container_id,omitempty"`
	Title       string           `json:"title,omitempty"`
	Tag         string           `json:"tag,omitempty"`
	Summary     string           `json:"summary,omitempty"`
	Table       Table            `json:"table"`
	Alt         *charts.AltChart `json:"-"`
}

// Detail is the drill-down panel. Show toggles it; Close collapses it.
type Detail struct {
	log *logger.Logger

	mu   sync.Mutex
	view View
}

// NewDetail creates a closed detail panel
func NewDetail() *Detail {
	return &Detail{log: logger.Component("detail")}
}

// Show opens the panel on req, or closes it when already open. A request
// without data leaves the panel untouched. It reports whether the panel is
// open afterwards.
func (d *Detail) Show(req charts.DetailRequest) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.view.Open {
		d.view.Open = false
		return false
	}
	if len(req.Series) == 0 && len(req.Flow.Links) == 0 {
		d.log.Warn("no data available to display", map[string]interface{}{"container": req.ContainerID, "tag": req.Tag})
		return false
	}

	table := BuildTable(req.Series, req.Tag)
	if req.Tag == string(models.ChartSankey) {
		table = FlowTable(req.Flow)
	}

	alt, err := charts.BuildAltChart(req)
	if err != nil {
		d.log.Error("failed to build alternate chart", err, map[string]interface{}{"tag": req.Tag})
	}

	d.view = View{
		Open:        true,
		ContainerID: req.ContainerID,
		Title:       req.Title,
		Tag:         req.Tag,
		Summary:     req.Summary,
		Table:       table,
		Alt:         alt,
	}
	return true
}

// Close collapses the panel
func (d *Detail) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.view.Open = false
}

// View returns the panel state
func (d *Detail) View() View {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view
}

// Table returns the table of the last opened series
func (d *Detail) Table() Table {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view.Table
}
