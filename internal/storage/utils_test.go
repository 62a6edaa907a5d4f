package storage

import (
	"testing"
	"time"
)

func TestArchiveFolderPath(t *testing.T) {
	tests := []struct {
		name      string
		timestamp time.Time
		expected  string
	}{
		{
			name:      "standard date and time",
			timestamp: time.Date(2025, 9, 17, 14, 30, 45, 0, time.UTC),
			expected:  "archives/2025/09/17/Dashboard-2025-09-17-14-30-45",
		},
		{
			name:      "new year date",
			timestamp: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			expected:  "archives/2025/01/01/Dashboard-2025-01-01-00-00-00",
		},
		{
			name:      "leap year date",
			timestamp: time.Date(2024, 2, 29, 12, 15, 30, 0, time.UTC),
			expected:  "archives/2024/02/29/Dashboard-2024-02-29-12-15-30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := ArchiveFolderPath(tt.timestamp); result != tt.expected {
				t.Errorf("ArchiveFolderPath() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestGetContentType(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"dashboard_data.csv", "text/csv"},
		{"line-chart.png", "image/png"},
		{"line-chart.svg", "image/svg+xml"},
		{"manifest.json", "application/json"},
		{"index.HTML", "text/html"},
		{"archive.bin", "application/octet-stream"},
		{"noextension", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if result := GetContentType(tt.filename); result != tt.expected {
				t.Errorf("GetContentType(%q) = %v, want %v", tt.filename, result, tt.expected)
			}
		})
	}
}
