package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewLocalStorageClient(t *testing.T) {
	baseDir := filepath.Join(t.TempDir(), "exports")

	client, err := NewLocalStorageClient(baseDir)
	if err != nil {
		t.Fatalf("Failed to create LocalStorageClient: %v", err)
	}
	defer client.Close()

	if _, err := os.Stat(baseDir); os.IsNotExist(err) {
		t.Error("base directory was not created")
	}
}

func TestLocalStorageClient_StoreAndGetFile(t *testing.T) {
	client, err := NewLocalStorageClient(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create LocalStorageClient: %v", err)
	}
	ctx := context.Background()

	tests := []struct {
		name     string
		filePath string
		data     []byte
		wantErr  bool
	}{
		{name: "flat file", filePath: "dashboard_data.csv", data: []byte("Label,Value\n")},
		{name: "nested file", filePath: "archives/2024/12/01/Dashboard-2024-12-01-10-00-00/line-chart.png", data: []byte{0x89, 'P', 'N', 'G'}},
		{name: "traversal rejected", filePath: "../outside.txt", data: []byte("x"), wantErr: true},
		{name: "empty path rejected", filePath: "", data: []byte("x"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.StoreFile(ctx, tt.filePath, tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("StoreFile() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			got, err := client.GetFile(ctx, tt.filePath)
			if err != nil {
				t.Fatalf("GetFile() failed: %v", err)
			}
			if string(got) != string(tt.data) {
				t.Errorf("GetFile() = %q, want %q", got, tt.data)
			}
		})
	}
}

func TestLocalStorageClient_GetMissingFile(t *testing.T) {
	client, _ := NewLocalStorageClient(t.TempDir())
	if _, err := client.GetFile(context.Background(), "missing.csv"); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestLocalStorageClient_ListArchives(t *testing.T) {
	client, _ := NewLocalStorageClient(t.TempDir())
	ctx := context.Background()

	archives, err := client.ListArchives(ctx, 10)
	if err != nil {
		t.Fatalf("ListArchives() on an empty store failed: %v", err)
	}
	if len(archives) != 0 {
		t.Errorf("Expected no archives, got %v", archives)
	}

	stamps := []time.Time{
		time.Date(2024, 11, 30, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 1, 8, 30, 0, 0, time.UTC),
	}
	for _, ts := range stamps {
		folder := ArchiveFolderPath(ts)
		if err := client.StoreFile(ctx, folder+"/"+ManifestName, []byte("{}")); err != nil {
			t.Fatalf("StoreFile() failed: %v", err)
		}
	}
	// a folder without a manifest is incomplete
	client.StoreFile(ctx, ArchiveFolderPath(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))+"/dashboard_data.csv", []byte("x"))

	archives, err = client.ListArchives(ctx, 2)
	if err != nil {
		t.Fatalf("ListArchives() failed: %v", err)
	}
	want := []string{ArchiveFolderPath(stamps[1]), ArchiveFolderPath(stamps[2])}
	if len(archives) != len(want) {
		t.Fatalf("Expected %d archives, got %v", len(want), archives)
	}
	for i := range want {
		if archives[i] != want[i] {
			t.Errorf("archives[%d] = %s, want %s", i, archives[i], want[i])
		}
	}
}
