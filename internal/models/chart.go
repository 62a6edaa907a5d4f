package models

import "fmt"

// ChartType names a renderer
type ChartType string

const (
	ChartLine     ChartType = "line"
	ChartBar      ChartType = "bar"
	ChartLollipop ChartType = "lollipop"
	ChartScatter  ChartType = "scatter"
	ChartSankey   ChartType = "sankey"
)

// ChartTypes lists every supported chart type
var ChartTypes = []ChartType{ChartLine, ChartBar, ChartLollipop, ChartScatter, ChartSankey}

// Valid reports whether t is a supported chart type
func (t ChartType) Valid() bool {
	for _, known := range ChartTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseChartType converts a name into a ChartType
func ParseChartType(name string) (ChartType, error) {
	t := ChartType(name)
	if !t.Valid() {
		return "", fmt.Errorf("unknown chart type %q", name)
	}
	return t, nil
}

// ChartDescriptor says what to draw where. Descriptors are rebuilt for every
// render pass and not modified while it runs.
type ChartDescriptor struct {
	ContainerID   string
	Title         string
	Type          ChartType
	Series        Series
	Flow          FlowGraph
	Colors        []string
	LegendLabels  []string
	PercentChange *float64
}

// Color returns the i-th configured color or fallback
func (d ChartDescriptor) Color(i int, fallback string) string {
	if i < len(d.Colors) && d.Colors[i] != "" {
		return d.Colors[i]
	}
	return fallback
}

// Empty reports whether the descriptor has nothing to draw
func (d ChartDescriptor) Empty() bool {
	if d.Type == ChartSankey {
		return d.Flow.IsEmpty()
	}
	return len(d.Series) == 0
}
