package models

import (
	"encoding/json"
	"testing"
)

const homePayload = `{
	"lineData": [{"label": "Jan '25", "value": 120}, {"label": "Feb '25", "value": 150}],
	"barData": [{"label": "Jan '25", "value": 90}],
	"areaData": [],
	"scatterData": [{"label": "Jan '25", "total_tf": 3.1, "ocm_overall": 1.8}],
	"metrics": {"current_metrics": {
		"count_id": 150, "count_gf": 90,
		"trends": {"count_id_trend": "↑", "count_id_percent_change": 25, "count_gf_percent_change": -3.5}
	}}
}`

func TestDatasetDecoding(t *testing.T) {
	var ds Dataset
	if err := json.Unmarshal([]byte(homePayload), &ds); err != nil {
		t.Fatalf("Failed to decode dataset: %v", err)
	}

	if len(ds.LineData) != 2 || ds.LineData[1].Label != "Feb '25" {
		t.Errorf("Unexpected line data: %+v", ds.LineData)
	}
	if ds.LineData[1].Value == nil || *ds.LineData[1].Value != 150 {
		t.Errorf("Expected Feb value 150, got %v", ds.LineData[1].Value)
	}
	if ds.ScatterData[0].Value != nil {
		t.Errorf("Dual-metric record should have no scalar value")
	}
	if ds.ScatterData[0].TotalTF == nil || *ds.ScatterData[0].TotalTF != 3.1 {
		t.Errorf("Expected total_tf 3.1, got %v", ds.ScatterData[0].TotalTF)
	}

	values := ds.Metrics.CurrentMetrics.Values
	if values["count_id"] != 150 || values["count_gf"] != 90 {
		t.Errorf("Unexpected metric values: %v", values)
	}
	if _, ok := values["trends"]; ok {
		t.Errorf("trends must not be treated as a metric value")
	}
	if pc, ok := ds.Metrics.PercentChange("count_gf"); !ok || pc != -3.5 {
		t.Errorf("Expected count_gf percent change -3.5, got %v (%v)", pc, ok)
	}
}

func TestMetricCards(t *testing.T) {
	var ds Dataset
	if err := json.Unmarshal([]byte(homePayload), &ds); err != nil {
		t.Fatalf("Failed to decode dataset: %v", err)
	}

	cards := ds.Metrics.Cards()
	if len(cards) != 2 {
		t.Fatalf("Expected 2 cards, got %d", len(cards))
	}
	// sorted by name
	if cards[0].Name != "count_gf" || cards[1].Name != "count_id" {
		t.Errorf("Unexpected card order: %+v", cards)
	}
	if cards[0].Trend != TrendFlat {
		t.Errorf("Missing trend should fall back to %s, got %s", TrendFlat, cards[0].Trend)
	}
	if cards[1].Trend != TrendUp || cards[1].PercentChange != 25 {
		t.Errorf("Unexpected count_id card: %+v", cards[1])
	}
}

func TestCurrentMetricsRoundTrip(t *testing.T) {
	in := CurrentMetrics{
		Values: map[string]float64{"utilization": 80},
		Trends: Trends{
			Arrows:        map[string]string{"utilization": TrendDown},
			PercentChange: map[string]float64{"utilization": -4},
		},
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	var out CurrentMetrics
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if out.Values["utilization"] != 80 || out.Trends.Arrows["utilization"] != TrendDown || out.Trends.PercentChange["utilization"] != -4 {
		t.Errorf("Round trip lost data: %+v", out)
	}
}

func TestEmptyDataset(t *testing.T) {
	ds := EmptyDataset()
	if ds.LineData == nil || len(ds.LineData) != 0 {
		t.Errorf("Expected empty non-nil line data")
	}
	if !ds.Sankey.IsEmpty() {
		t.Errorf("Expected empty flow graph")
	}
	if len(ds.Metrics.Cards()) != 0 {
		t.Errorf("Expected no metric cards")
	}
}

func TestSeriesHelpers(t *testing.T) {
	s := Series{
		{Label: "Jan", Value: Float(30)},
		{Label: "Feb"},
		{Label: "Mar", Value: Float(70)},
	}
	if got := s.MaxValue(); got != 70 {
		t.Errorf("Expected max 70, got %v", got)
	}
	values := s.Values()
	if values[1] != 0 {
		t.Errorf("Missing value should read as 0, got %v", values[1])
	}
	if labels := s.Labels(); labels[2] != "Mar" {
		t.Errorf("Unexpected labels %v", labels)
	}
	if got := (Series{}).MaxValue(); got != 0 {
		t.Errorf("Expected 0 for empty series, got %v", got)
	}
}

func TestChartTypeParsing(t *testing.T) {
	for _, name := range []string{"line", "bar", "lollipop", "scatter", "sankey"} {
		if _, err := ParseChartType(name); err != nil {
			t.Errorf("Expected %q to parse: %v", name, err)
		}
	}
	if _, err := ParseChartType("pie"); err == nil {
		t.Errorf("Expected error for unknown chart type")
	}
}

func TestDescriptorEmpty(t *testing.T) {
	line := ChartDescriptor{Type: ChartLine}
	if !line.Empty() {
		t.Errorf("Line without series should be empty")
	}
	sankey := ChartDescriptor{Type: ChartSankey, Flow: FlowGraph{Nodes: []FlowNode{{Name: "A"}}}}
	if !sankey.Empty() {
		t.Errorf("Sankey without links should be empty")
	}
	if got := line.Color(0, "#fff"); got != "#fff" {
		t.Errorf("Expected fallback color, got %s", got)
	}
}
