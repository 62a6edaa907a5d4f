package dashboard

import (
	"errors"
	"fmt"
	"sort"

	"insightdash/internal/charts"
	"insightdash/internal/models"
	"insightdash/internal/theme"
)

// ErrInvalidRouteTable is returned when a route table fails validation
var ErrInvalidRouteTable = errors.New("invalid route table")

// DefaultRoute is where unknown routes resolve to
const DefaultRoute = "/"

// Source names the dataset field a chart draws from
type Source string

const (
	SourceLine    Source = "lineData"
	SourceBar     Source = "barData"
	SourceArea    Source = "areaData"
	SourceScatter Source = "scatterData"
	SourceSankey  Source = "sankey"
)

// Chart container ids
const (
	LineContainer    = "line-chart"
	BarContainer     = "bar-chart"
	AreaContainer    = "area-chart"
	ScatterContainer = "scatter-chart"
	SankeyContainer  = charts.SankeyContainer
)

// ChartSpec places one chart on a page
type ChartSpec struct {
	ContainerID string
	Title       string
	Type        models.ChartType
	Source      Source
	// Colors overrides the theme accents
	Colors       []string
	LegendLabels []string
}

// Route is one dashboard page
type Route struct {
	Path   string
	Title  string
	Charts []ChartSpec
	// PercentChangeMetric feeds the bar chart's "% Change" tooltip line
	PercentChangeMetric string
}

// RouteTable maps page paths to their routes
type RouteTable map[string]Route

// DefaultRoutes returns the dashboard's pages
func DefaultRoutes() RouteTable {
	return RouteTable{
		"/": {
			Path:  "/",
			Title: "Home Dashboard",
			Charts: []ChartSpec{
				{ContainerID: LineContainer, Title: "ID Count Trend", Type: models.ChartLine, Source: SourceLine},
				{ContainerID: BarContainer, Title: "GF Count by Month", Type: models.ChartBar, Source: SourceBar},
				{ContainerID: AreaContainer, Title: "GFC Count Trend", Type: models.ChartLollipop, Source: SourceArea},
				{ContainerID: ScatterContainer, Title: "ID Distribution", Type: models.ChartScatter, Source: SourceScatter,
					Colors: []string{"#ff5555", "#5555ff"}, LegendLabels: []string{"Total TF", "OCM Overall"}},
			},
			PercentChangeMetric: "count_gf",
		},
		"/productivity": {
			Path:  "/productivity",
			Title: "Productivity Dashboard",
			Charts: []ChartSpec{
				{ContainerID: LineContainer, Title: "Tasks Completed Trend", Type: models.ChartLine, Source: SourceLine},
				{ContainerID: BarContainer, Title: "Avg Completion Time by Month", Type: models.ChartBar, Source: SourceBar},
				{ContainerID: AreaContainer, Title: "Efficiency Rate Trend", Type: models.ChartLollipop, Source: SourceArea},
			},
			PercentChangeMetric: "avg_completion_time",
		},
		"/fte": {
			Path:  "/fte",
			Title: "FTE Dashboard",
			Charts: []ChartSpec{
				{ContainerID: LineContainer, Title: "Total FTE Trend", Type: models.ChartLine, Source: SourceLine},
				{ContainerID: BarContainer, Title: "Utilization by Month", Type: models.ChartBar, Source: SourceBar},
				{ContainerID: AreaContainer, Title: "Overtime Hours Trend", Type: models.ChartLollipop, Source: SourceArea},
			},
			PercentChangeMetric: "utilization",
		},
		"/sankey": {
			Path:  "/sankey",
			Title: "Sankey Dashboard",
			Charts: []ChartSpec{
				{ContainerID: SankeyContainer, Title: "Client Flow Sankey Diagram", Type: models.ChartSankey, Source: SourceSankey},
			},
		},
	}
}

// Validate checks that the default route exists and every chart has a known
// type, a data source and a container id unique within its page.
func (t RouteTable) Validate() error {
	if _, ok := t[DefaultRoute]; !ok {
		return fmt.Errorf("%w: default route %q missing", ErrInvalidRouteTable, DefaultRoute)
	}
	for path, r := range t {
		if r.Path != path {
			return fmt.Errorf("%w: route %q declares path %q", ErrInvalidRouteTable, path, r.Path)
		}
		seen := make(map[string]bool, len(r.Charts))
		for i, c := range r.Charts {
			switch {
			case c.ContainerID == "":
				return fmt.Errorf("%w: %s chart %d has no container id", ErrInvalidRouteTable, path, i)
			case seen[c.ContainerID]:
				return fmt.Errorf("%w: %s container %q used twice", ErrInvalidRouteTable, path, c.ContainerID)
			case !c.Type.Valid():
				return fmt.Errorf("%w: %s chart %q has unknown type %q", ErrInvalidRouteTable, path, c.ContainerID, c.Type)
			case !c.Source.valid():
				return fmt.Errorf("%w: %s chart %q has unknown source %q", ErrInvalidRouteTable, path, c.ContainerID, c.Source)
			}
			seen[c.ContainerID] = true
		}
	}
	return nil
}

func (s Source) valid() bool {
	switch s {
	case SourceLine, SourceBar, SourceArea, SourceScatter, SourceSankey:
		return true
	}
	return false
}

// Resolve returns the route for path, or the default route
func (t RouteTable) Resolve(path string) Route {
	if r, ok := t[path]; ok {
		return r
	}
	return t[DefaultRoute]
}

// KnownContainers lists every container id any route draws into
func (t RouteTable) KnownContainers() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, path := range t.Paths() {
		for _, c := range t[path].Charts {
			if !seen[c.ContainerID] {
				seen[c.ContainerID] = true
				ids = append(ids, c.ContainerID)
			}
		}
	}
	return ids
}

// Paths lists the route paths in navigation order, default first
func (t RouteTable) Paths() []string {
	order := []string{"/", "/productivity", "/fte", "/sankey"}
	paths := make([]string, 0, len(t))
	listed := make(map[string]bool)
	for _, p := range order {
		if _, ok := t[p]; ok {
			paths = append(paths, p)
			listed[p] = true
		}
	}
	var extra []string
	for p := range t {
		if !listed[p] {
			extra = append(extra, p)
		}
	}
	sort.Strings(extra)
	return append(paths, extra...)
}

// ContainerIDs lists the route's containers in page order
func (r Route) ContainerIDs() []string {
	ids := make([]string, len(r.Charts))
	for i, c := range r.Charts {
		ids[i] = c.ContainerID
	}
	return ids
}

// Descriptors binds the route's charts to data, colored from palette
func (r Route) Descriptors(data *models.Dataset, palette theme.Palette) []models.ChartDescriptor {
	if data == nil {
		data = models.EmptyDataset()
	}
	var pct *float64
	if v, ok := data.Metrics.PercentChange(r.PercentChangeMetric); ok {
		pct = models.Float(v)
	}

	out := make([]models.ChartDescriptor, 0, len(r.Charts))
	for _, c := range r.Charts {
		d := models.ChartDescriptor{
			ContainerID:  c.ContainerID,
			Title:        c.Title,
			Type:         c.Type,
			Colors:       c.Colors,
			LegendLabels: c.LegendLabels,
		}
		if len(d.Colors) == 0 && palette != nil {
			d.Colors = []string{palette.Color(theme.AccentStart), palette.Color(theme.AccentEnd)}
		}
		switch c.Source {
		case SourceLine:
			d.Series = data.LineData
		case SourceBar:
			d.Series = data.BarData
			d.PercentChange = pct
		case SourceArea:
			d.Series = data.AreaData
		case SourceScatter:
			d.Series = data.ScatterData
		case SourceSankey:
			d.Flow = data.Sankey
		}
		out = append(out, d)
	}
	return out
}
