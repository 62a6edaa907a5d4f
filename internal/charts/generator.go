package charts

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"insightdash/internal/logger"
	"insightdash/internal/models"
	"insightdash/internal/theme"
)

// ErrNoData is returned when a snapshot has nothing to plot
var ErrNoData = errors.New("no data available")

const (
	snapshotWidth  = 800
	snapshotHeight = 400
)

// ChartGenerator renders static PNG snapshots of dashboard charts
type ChartGenerator struct {
	outputDir string
	palette   theme.Palette
}

// NewChartGenerator creates a generator writing into outputDir
func NewChartGenerator(outputDir string, palette theme.Palette) *ChartGenerator {
	if palette == nil {
		palette, _ = theme.Lookup(theme.Light)
	}
	return &ChartGenerator{outputDir: outputDir, palette: palette}
}

// hexColor converts "#rrggbb" into a drawing color
func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

func (cg *ChartGenerator) style(color string) chart.Style {
	return chart.Style{
		StrokeColor: hexColor(color),
		FillColor:   hexColor(color).WithAlpha(160),
		StrokeWidth: 2,
		DotColor:    hexColor(color),
		DotWidth:    4,
	}
}

func (cg *ChartGenerator) background() chart.Style {
	return chart.Style{
		Padding:   chart.Box{Top: 50, Left: 60, Right: 60, Bottom: 60},
		FillColor: hexColor(cg.palette.Color(theme.Card)),
	}
}

func (cg *ChartGenerator) titleStyle() chart.Style {
	return chart.Style{FontSize: 16, FontColor: hexColor(cg.palette.Color(theme.Foreground))}
}

// categoryTicks labels every index of a categorical axis, decimated like the SVG axis
func categoryTicks(labels []string) []chart.Tick {
	stride := labelEvery(len(labels))
	ticks := make([]chart.Tick, 0, len(labels))
	for i, l := range labels {
		if i%stride != 0 {
			l = ""
		}
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: l})
	}
	return ticks
}

func valueRange(max float64) *chart.ContinuousRange {
	s := ValueScale(max, 0, 1)
	return &chart.ContinuousRange{Min: s.D0, Max: s.D1}
}

func indexes(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

// RenderPNG writes a PNG rendition of d to w
func (cg *ChartGenerator) RenderPNG(w io.Writer, d models.ChartDescriptor) error {
	if d.Empty() {
		return ErrNoData
	}
	accent := d.Color(0, cg.palette.Color(theme.AccentStart))

	switch d.Type {
	case models.ChartLine:
		if len(d.Series) < 2 {
			return cg.renderBars(w, d.Title, d.Series, accent)
		}
		graph := chart.Chart{
			Title:      d.Title,
			TitleStyle: cg.titleStyle(),
			Background: cg.background(),
			Width:      snapshotWidth,
			Height:     snapshotHeight,
			XAxis:      chart.XAxis{Ticks: categoryTicks(d.Series.Labels())},
			YAxis:      chart.YAxis{Range: valueRange(d.Series.MaxValue())},
			Series: []chart.Series{
				chart.ContinuousSeries{
					Name:    legendLabel(d, 0),
					Style:   cg.style(accent),
					XValues: indexes(len(d.Series)),
					YValues: d.Series.Values(),
				},
			},
		}
		return graph.Render(chart.PNG, w)

	case models.ChartBar, models.ChartLollipop:
		return cg.renderBars(w, d.Title, d.Series, accent)

	case models.ChartScatter:
		if len(d.Series) < 2 {
			return fmt.Errorf("scatter snapshot needs at least two points: %w", ErrNoData)
		}
		tf := make([]float64, len(d.Series))
		ocm := make([]float64, len(d.Series))
		for i, r := range d.Series {
			tf[i] = models.ValueOr(r.TotalTF, 0)
			ocm[i] = models.ValueOr(r.OCMOverall, 0)
		}
		left := cg.style(d.Color(0, defaultScatterColors[0]))
		right := cg.style(d.Color(1, defaultScatterColors[1]))
		graph := chart.Chart{
			Title:          d.Title,
			TitleStyle:     cg.titleStyle(),
			Background:     cg.background(),
			Width:          snapshotWidth,
			Height:         snapshotHeight,
			XAxis:          chart.XAxis{Ticks: categoryTicks(d.Series.Labels())},
			YAxis:          chart.YAxis{Range: valueRange(d.Series.MaxTotalTF())},
			YAxisSecondary: chart.YAxis{Range: valueRange(d.Series.MaxOCMOverall())},
			Series: []chart.Series{
				chart.ContinuousSeries{Name: defaultScatterLabels[0], Style: left, XValues: indexes(len(tf)), YValues: tf},
				chart.ContinuousSeries{Name: defaultScatterLabels[1], Style: right, YAxis: chart.YAxisSecondary, XValues: indexes(len(ocm)), YValues: ocm},
			},
		}
		graph.Elements = []chart.Renderable{chart.Legend(&graph)}
		return graph.Render(chart.PNG, w)

	case models.ChartSankey:
		g, _ := d.Flow.Normalize()
		return cg.renderBars(w, d.Title, FlowRecords(g), accent)
	}
	return fmt.Errorf("%w: %q", ErrUnknownChartType, d.Type)
}

func (cg *ChartGenerator) renderBars(w io.Writer, title string, series models.Series, color string) error {
	if len(series) == 0 {
		return ErrNoData
	}
	bars := make([]chart.Value, len(series))
	for i, r := range series {
		bars[i] = chart.Value{
			Value: models.ValueOr(r.Value, 0),
			Label: r.Label,
			Style: chart.Style{
				FillColor:   hexColor(color),
				StrokeColor: hexColor(color),
				StrokeWidth: 1,
			},
		}
	}
	graph := chart.BarChart{
		Title:      title,
		TitleStyle: cg.titleStyle(),
		Background: cg.background(),
		Width:      snapshotWidth,
		Height:     snapshotHeight,
		BarWidth:   (snapshotWidth - 120) / (2 * len(bars)),
		XAxis:      chart.Style{FontSize: 9, FontColor: hexColor(cg.palette.Color(theme.Foreground))},
		YAxis:      chart.YAxis{Range: valueRange(series.MaxValue())},
		Bars:       bars,
	}
	return graph.Render(chart.PNG, w)
}

// GenerateSnapshot writes <container>.png into the output directory
func (cg *ChartGenerator) GenerateSnapshot(d models.ChartDescriptor) (string, error) {
	filename := filepath.Join(cg.outputDir, d.ContainerID+".png")

	f, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer f.Close()

	if err := cg.RenderPNG(f, d); err != nil {
		os.Remove(filename)
		return "", fmt.Errorf("failed to render %s snapshot: %w", d.ContainerID, err)
	}
	return filename, nil
}

// GenerateSnapshots writes a snapshot per descriptor. Charts that fail are
// logged and skipped.
func (cg *ChartGenerator) GenerateSnapshots(descriptors []models.ChartDescriptor) ([]string, error) {
	if err := os.MkdirAll(cg.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	var files []string
	for _, d := range descriptors {
		file, err := cg.GenerateSnapshot(d)
		if err != nil {
			logger.Component("charts").Warn("skipping snapshot", map[string]interface{}{
				"container": d.ContainerID,
				"error":     err.Error(),
			})
			continue
		}
		files = append(files, file)
	}
	return files, nil
}
