package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetVersion(t *testing.T) {
	tests := []struct {
		name           string
		envVersion     string
		expectContains string
	}{
		{
			name:           "version from environment variable",
			envVersion:     "1.2.3",
			expectContains: "1.2.3",
		},
		{
			name:           "version from environment is trimmed",
			envVersion:     "  2.0.0-beta.1\n",
			expectContains: "2.0.0-beta.1",
		},
		{
			name:       "fallback without env var",
			envVersion: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_VERSION", tt.envVersion)

			version := GetVersion()
			if version == "" {
				t.Fatal("Version should not be empty")
			}
			if tt.expectContains != "" && version != tt.expectContains {
				t.Errorf("Expected version '%s', got '%s'", tt.expectContains, version)
			}
			if strings.HasPrefix(version, " ") {
				t.Errorf("Version should be trimmed, got %q", version)
			}
		})
	}
}

func TestReadVersionFile(t *testing.T) {
	tempDir := t.TempDir()

	if v := readVersionFile(tempDir); v != "" {
		t.Errorf("Expected empty version for missing file, got %q", v)
	}

	if err := os.WriteFile(filepath.Join(tempDir, "VERSION"), []byte("3.4.5\n"), 0644); err != nil {
		t.Fatalf("Failed to write VERSION file: %v", err)
	}
	if v := readVersionFile(tempDir); v != "3.4.5" {
		t.Errorf("Expected '3.4.5', got %q", v)
	}
}
