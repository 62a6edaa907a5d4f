// Package export turns dashboard state into files: CSV restatements of
// detail tables, PNG chart snapshots, and archives of every page written to
// storage.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"insightdash/internal/dashboard"
	"insightdash/internal/models"
)

// CSVFilename is the download name of a detail table export
const CSVFilename = "dashboard_data.csv"

// ErrNoRows is returned when a table has nothing but its header
var ErrNoRows = errors.New("no data to export")

// quote wraps a cell in double quotes, doubling embedded quotes
func quote(cell string) string {
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}

// WriteCSV writes the header and rows of t with every cell quoted, one
// line per row.
func WriteCSV(w io.Writer, t dashboard.Table) error {
	if len(t.Rows) == 0 {
		return ErrNoRows
	}
	lines := make([]string, 0, len(t.Rows)+1)
	for _, row := range append([][]string{t.Columns}, t.Rows...) {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = quote(c)
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	if _, err := io.WriteString(w, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// CSV returns t as CSV bytes
func CSV(t dashboard.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ChartTable restates a chart's data the way the detail view shows it
func ChartTable(d models.ChartDescriptor) dashboard.Table {
	if d.Type == models.ChartSankey {
		return dashboard.FlowTable(d.Flow)
	}
	return dashboard.BuildTable(d.Series, string(d.Type))
}
