package charts

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"insightdash/internal/models"
)

var pngMagic = []byte("\x89PNG")

func TestRenderPNG(t *testing.T) {
	generator := NewChartGenerator(t.TempDir(), nil)

	tests := []models.ChartDescriptor{
		{ContainerID: "line-chart", Title: "Line", Type: models.ChartLine, Series: monthly(10, 20, 15)},
		{ContainerID: "bar-chart", Title: "Bar", Type: models.ChartBar, Series: monthly(0, 0, 0)},
		{ContainerID: "area-chart", Title: "Lollipop", Type: models.ChartLollipop, Series: monthly(3)},
		{ContainerID: "scatter-chart", Title: "Scatter", Type: models.ChartScatter, Series: scatterSeries()},
		{ContainerID: "sankey-chart", Title: "Flow", Type: models.ChartSankey, Flow: flowGraph()},
	}
	for _, d := range tests {
		t.Run(string(d.Type), func(t *testing.T) {
			var buf bytes.Buffer
			if err := generator.RenderPNG(&buf, d); err != nil {
				t.Fatalf("RenderPNG returned error: %v", err)
			}
			if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
				t.Error("Expected PNG output")
			}
		})
	}
}

func TestRenderPNGEmpty(t *testing.T) {
	generator := NewChartGenerator(t.TempDir(), nil)
	var buf bytes.Buffer
	err := generator.RenderPNG(&buf, models.ChartDescriptor{Type: models.ChartLine})
	if !errors.Is(err, ErrNoData) {
		t.Errorf("Expected ErrNoData, got %v", err)
	}
}

func TestGenerateSnapshots(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshots")
	generator := NewChartGenerator(dir, nil)

	files, err := generator.GenerateSnapshots([]models.ChartDescriptor{
		{ContainerID: "line-chart", Title: "Line", Type: models.ChartLine, Series: monthly(1, 2, 3)},
		{ContainerID: "bar-chart", Title: "Empty", Type: models.ChartBar},
	})
	if err != nil {
		t.Fatalf("GenerateSnapshots returned error: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("Expected the empty chart to be skipped, got %v", files)
	}
	if files[0] != filepath.Join(dir, "line-chart.png") {
		t.Errorf("Unexpected file name %s", files[0])
	}
	if _, err := os.Stat(filepath.Join(dir, "bar-chart.png")); !os.IsNotExist(err) {
		t.Error("Expected no file for the failed snapshot")
	}
}
