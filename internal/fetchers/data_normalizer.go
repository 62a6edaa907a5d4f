package fetchers

import (
	"encoding/json"
	"errors"
	"fmt"

	"insightdash/internal/logger"
	"insightdash/internal/models"
)

// ErrNoData is the backend's "nothing to show" answer
var ErrNoData = errors.New("no data available")

// wireDataset is the union of every backend payload. The sankey endpoint
// answers with top-level nodes and links.
type wireDataset struct {
	models.Dataset
	Nodes []models.FlowNode `json:"nodes"`
	Links []models.FlowLink `json:"links"`
	Error string            `json:"error"`
}

// DecodeDataset decodes a backend payload into a dataset. Missing series
// become empty, a top-level flow graph is folded into Sankey, and flow links
// that break the graph invariants are dropped.
func DecodeDataset(body []byte) (*models.Dataset, error) {
	var wire wireDataset
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("invalid dataset payload: %w", err)
	}
	if wire.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrNoData, wire.Error)
	}

	data := models.EmptyDataset()
	if wire.LineData != nil {
		data.LineData = wire.LineData
	}
	if wire.BarData != nil {
		data.BarData = wire.BarData
	}
	if wire.AreaData != nil {
		data.AreaData = wire.AreaData
	}
	if wire.ScatterData != nil {
		data.ScatterData = wire.ScatterData
	}
	if wire.Metrics.CurrentMetrics.Values != nil {
		data.Metrics = wire.Metrics
	}

	flow := wire.Sankey
	if len(wire.Nodes) > 0 || len(wire.Links) > 0 {
		flow = models.FlowGraph{Nodes: wire.Nodes, Links: wire.Links}
	}
	data.Sankey = normalizeFlow(flow)
	return data, nil
}

func normalizeFlow(g models.FlowGraph) models.FlowGraph {
	if g.Nodes == nil {
		g.Nodes = []models.FlowNode{}
	}
	if g.Links == nil {
		g.Links = []models.FlowLink{}
	}
	out, invalid := g.Normalize()
	for _, e := range invalid {
		logger.Component("fetcher").Warn("dropping invalid flow link", map[string]interface{}{
			"index":  e.Index,
			"reason": e.Reason,
		})
	}
	return out
}

// errorMessage extracts the "error" field of a failed response
func errorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	if len(body) > 200 {
		return string(body[:200])
	}
	return string(body)
}
