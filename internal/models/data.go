package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Record is one labeled data point. Scalar series fill Value (and optionally
// Unit); dual-metric series fill TotalTF and OCMOverall; grouped series fill
// Baseline and Growth. Missing numbers stay nil and render as "N/A".
type Record struct {
	Label      string   `json:"label"`
	Value      *float64 `json:"value,omitempty"`
	Unit       string   `json:"unit,omitempty"`
	TotalTF    *float64 `json:"total_tf,omitempty"`
	OCMOverall *float64 `json:"ocm_overall,omitempty"`
	Baseline   *float64 `json:"baseline,omitempty"`
	Growth     *float64 `json:"growth,omitempty"`
	Increase   string   `json:"increase,omitempty"`
}

// Series is an ordered sequence of records driving one chart
type Series []Record

// Float returns a pointer to v, for building records in code
func Float(v float64) *float64 {
	return &v
}

// ValueOr returns *p or fallback when p is nil
func ValueOr(p *float64, fallback float64) float64 {
	if p == nil {
		return fallback
	}
	return *p
}

// Values returns the scalar values of the series, treating missing values as 0
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, r := range s {
		out[i] = ValueOr(r.Value, 0)
	}
	return out
}

// Labels returns the record labels in order
func (s Series) Labels() []string {
	out := make([]string, len(s))
	for i, r := range s {
		out[i] = r.Label
	}
	return out
}

// MaxValue returns the largest scalar value, or 0 for an empty series
func (s Series) MaxValue() float64 {
	return maxOf(s, func(r Record) *float64 { return r.Value })
}

// MaxTotalTF returns the largest total_tf value
func (s Series) MaxTotalTF() float64 {
	return maxOf(s, func(r Record) *float64 { return r.TotalTF })
}

// MaxOCMOverall returns the largest ocm_overall value
func (s Series) MaxOCMOverall() float64 {
	return maxOf(s, func(r Record) *float64 { return r.OCMOverall })
}

func maxOf(s Series, pick func(Record) *float64) float64 {
	max := 0.0
	for _, r := range s {
		if v := pick(r); v != nil && *v > max {
			max = *v
		}
	}
	return max
}

// Trend glyphs used by the metrics block
const (
	TrendUp   = "↑"
	TrendDown = "↓"
	TrendFlat = "↔"
)

// CurrentMetrics holds the named current values of a page plus their trends.
// On the wire the trends object is nested next to the values.
type CurrentMetrics struct {
	Values map[string]float64
	Trends Trends
}

// Trends carries "<metric>_trend" glyphs and "<metric>_percent_change" numbers
type Trends struct {
	Arrows        map[string]string
	PercentChange map[string]float64
}

// Metrics is the summary block delivered with every page's series
type Metrics struct {
	CurrentMetrics CurrentMetrics `json:"current_metrics"`
}

// MetricCard is one summary card shown above the charts
type MetricCard struct {
	Name          string  `json:"name"`
	Value         float64 `json:"value"`
	Trend         string  `json:"trend"`
	PercentChange float64 `json:"percent_change"`
}

// UnmarshalJSON splits the nested trends object out of the value map
func (c *CurrentMetrics) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode current_metrics: %w", err)
	}

	c.Values = make(map[string]float64)
	c.Trends = Trends{Arrows: make(map[string]string), PercentChange: make(map[string]float64)}

	for key, msg := range raw {
		if key == "trends" {
			if err := c.Trends.decode(msg); err != nil {
				return err
			}
			continue
		}
		var v float64
		if err := json.Unmarshal(msg, &v); err != nil {
			// non-numeric entries are not metrics
			continue
		}
		c.Values[key] = v
	}
	return nil
}

// MarshalJSON writes the wire shape back out
func (c CurrentMetrics) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(c.Values)+1)
	for k, v := range c.Values {
		out[k] = v
	}
	trends := make(map[string]interface{}, len(c.Trends.Arrows)+len(c.Trends.PercentChange))
	for k, v := range c.Trends.Arrows {
		trends[k+"_trend"] = v
	}
	for k, v := range c.Trends.PercentChange {
		trends[k+"_percent_change"] = v
	}
	out["trends"] = trends
	return json.Marshal(out)
}

func (t *Trends) decode(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode trends: %w", err)
	}
	for key, msg := range raw {
		switch {
		case strings.HasSuffix(key, "_percent_change"):
			var v float64
			if err := json.Unmarshal(msg, &v); err == nil {
				t.PercentChange[strings.TrimSuffix(key, "_percent_change")] = v
			}
		case strings.HasSuffix(key, "_trend"):
			var v string
			if err := json.Unmarshal(msg, &v); err == nil {
				t.Arrows[strings.TrimSuffix(key, "_trend")] = v
			}
		}
	}
	return nil
}

// PercentChange returns the percent change of metric, if reported
func (m Metrics) PercentChange(metric string) (float64, bool) {
	v, ok := m.CurrentMetrics.Trends.PercentChange[metric]
	return v, ok
}

// Cards returns one summary card per current metric, sorted by name.
// Metrics without a reported trend show the flat glyph.
func (m Metrics) Cards() []MetricCard {
	names := make([]string, 0, len(m.CurrentMetrics.Values))
	for name := range m.CurrentMetrics.Values {
		names = append(names, name)
	}
	sort.Strings(names)

	cards := make([]MetricCard, 0, len(names))
	for _, name := range names {
		trend := m.CurrentMetrics.Trends.Arrows[name]
		if trend == "" {
			trend = TrendFlat
		}
		cards = append(cards, MetricCard{
			Name:          name,
			Value:         m.CurrentMetrics.Values[name],
			Trend:         trend,
			PercentChange: m.CurrentMetrics.Trends.PercentChange[name],
		})
	}
	return cards
}

// Dataset is everything one page needs to draw its charts
type Dataset struct {
	LineData    Series    `json:"lineData"`
	BarData     Series    `json:"barData"`
	AreaData    Series    `json:"areaData"`
	ScatterData Series    `json:"scatterData"`
	Sankey      FlowGraph `json:"sankey"`
	Metrics     Metrics   `json:"metrics"`
}

// EmptyDataset is the fallback used when the data provider fails. Every chart
// drawn from it shows its empty state.
func EmptyDataset() *Dataset {
	return &Dataset{
		LineData:    Series{},
		BarData:     Series{},
		AreaData:    Series{},
		ScatterData: Series{},
		Sankey:      FlowGraph{Nodes: []FlowNode{}, Links: []FlowLink{}},
		Metrics: Metrics{CurrentMetrics: CurrentMetrics{
			Values: map[string]float64{},
			Trends: Trends{Arrows: map[string]string{}, PercentChange: map[string]float64{}},
		}},
	}
}
