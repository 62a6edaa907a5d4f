package mocks

import (
	"math"
	"math/rand"
	"time"

	"insightdash/internal/models"
)

const months = 12

// metricRanges are the inclusive ranges monthly metrics are drawn from
var metricRanges = map[string][2]int{
	"count_id":            {100, 230},
	"count_gf":            {80, 135},
	"count_gfc":           {100, 210},
	"tasks_completed":     {200, 500},
	"avg_completion_time": {10, 30},
	"efficiency_rate":     {70, 95},
	"total_fte":           {20, 60},
	"utilization":         {60, 90},
	"overtime_hours":      {10, 40},
}

// pageMetrics lists the line, bar and area metrics of each page. For
// metrics where lower is better, a fall shows the up arrow.
var pageMetrics = map[string]struct {
	metrics     [3]string
	lowerBetter map[string]bool
}{
	"/":             {metrics: [3]string{"count_id", "count_gf", "count_gfc"}},
	"/productivity": {metrics: [3]string{"tasks_completed", "avg_completion_time", "efficiency_rate"}, lowerBetter: map[string]bool{"avg_completion_time": true}},
	"/fte":          {metrics: [3]string{"total_fte", "utilization", "overtime_hours"}, lowerBetter: map[string]bool{"overtime_hours": true}},
}

var (
	verticals    = []string{"Retail", "Technology", "Education", "Finance", "Manufacturing", "Healthcare"}
	requestTypes = []string{
		"Inquiry", "Support", "Complaint", "Feedback", "Onboarding",
		"Billing", "Technical", "Consultation", "Escalation", "Training",
		"Refund", "Other",
	}
)

func between(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// GenerateDataset builds twelve months of data for route, most recent last,
// labeled like "Jan '24".
func GenerateDataset(route string, now time.Time, rng *rand.Rand) *models.Dataset {
	data := models.EmptyDataset()
	if isFlowRoute(route) {
		data.Sankey = GenerateFlow(rng)
		return data
	}

	page, ok := pageMetrics[route]
	if !ok {
		page = pageMetrics["/"]
	}

	values := make(map[string][]float64, len(page.metrics))
	labels := make([]string, months)
	for i := 0; i < months; i++ {
		labels[i] = now.AddDate(0, 0, -30*(months-i)).Format("Jan '06")
	}
	for _, metric := range page.metrics {
		r := metricRanges[metric]
		series := make([]float64, months)
		for i := range series {
			series[i] = float64(between(rng, r[0], r[1]))
		}
		values[metric] = series
	}

	build := func(metric string) models.Series {
		s := make(models.Series, months)
		for i := range s {
			s[i] = models.Record{Label: labels[i], Value: models.Float(values[metric][i])}
		}
		return s
	}
	data.LineData = build(page.metrics[0])
	data.BarData = build(page.metrics[1])
	data.AreaData = build(page.metrics[2])

	if route == "/" {
		data.ScatterData = make(models.Series, months)
		for i := range data.ScatterData {
			data.ScatterData[i] = models.Record{
				Label:      labels[i],
				TotalTF:    models.Float(round2(2.5 + rng.Float64()*1.2)),
				OCMOverall: models.Float(round2(1.5 + rng.Float64()*0.55)),
			}
		}
	}

	cm := &data.Metrics.CurrentMetrics
	for _, metric := range page.metrics {
		series := values[metric]
		current, prev := series[months-1], series[months-2]
		cm.Values[metric] = current

		up := current > prev
		if page.lowerBetter[metric] {
			up = !(current < prev)
		}
		if up {
			cm.Trends.Arrows[metric] = models.TrendUp
		} else {
			cm.Trends.Arrows[metric] = models.TrendDown
		}
		if prev != 0 {
			cm.Trends.PercentChange[metric] = round2((current - prev) / prev * 100)
		}
	}
	return data
}

// GenerateFlow builds a vertical-to-request-type flow graph. Small flows are
// pooled into the "Other" request type.
func GenerateFlow(rng *rand.Rand) models.FlowGraph {
	const threshold = 10
	const minLinks = 30

	g := models.FlowGraph{}
	for _, name := range verticals {
		g.Nodes = append(g.Nodes, models.FlowNode{Name: name})
	}
	for _, name := range requestTypes {
		g.Nodes = append(g.Nodes, models.FlowNode{Name: name})
	}
	other := len(verticals) + len(requestTypes) - 1

	seen := make(map[[2]int]bool)
	pooled := 0
	for src := range verticals {
		picks := rng.Perm(len(requestTypes))[:between(rng, 8, 10)]
		for _, p := range picks {
			v := between(rng, 5, 50)
			target := len(verticals) + p
			if v < threshold && target != other {
				pooled += v
				continue
			}
			if seen[[2]int{src, target}] {
				continue
			}
			seen[[2]int{src, target}] = true
			g.Links = append(g.Links, models.FlowLink{Source: src, Target: target, Value: float64(v)})
		}
	}
	if pooled > 0 {
		src := rng.Intn(len(verticals))
		if !seen[[2]int{src, other}] {
			seen[[2]int{src, other}] = true
			g.Links = append(g.Links, models.FlowLink{Source: src, Target: other, Value: float64(pooled)})
		}
	}
	for len(g.Links) < minLinks && len(seen) < len(verticals)*len(requestTypes) {
		src := rng.Intn(len(verticals))
		target := len(verticals) + rng.Intn(len(requestTypes))
		if seen[[2]int{src, target}] {
			continue
		}
		seen[[2]int{src, target}] = true
		g.Links = append(g.Links, models.FlowLink{Source: src, Target: target, Value: float64(between(rng, 10, 50))})
	}
	return g
}
