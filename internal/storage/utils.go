package storage

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"time"
)

// ArchiveRoot is the prefix every archive folder lives under
const ArchiveRoot = "archives"

// ArchiveFolderPath generates a consistent folder path for an archive.
// Format: archives/YYYY/MM/DD/Dashboard-YYYY-MM-DD-HH-MM-SS
func ArchiveFolderPath(timestamp time.Time) string {
	return fmt.Sprintf("%s/%04d/%02d/%02d/Dashboard-%04d-%02d-%02d-%02d-%02d-%02d",
		ArchiveRoot,
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		timestamp.Hour(), timestamp.Minute(), timestamp.Second())
}

// GetContentType determines the MIME content type based on file extension
func GetContentType(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".json":
		return "application/json"
	case ".csv":
		return "text/csv"
	case ".txt":
		return "text/plain"
	case ".html":
		return "text/html"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// cleanPath rejects paths escaping the storage root
func cleanPath(p string) (string, error) {
	if p == "" || strings.Contains(p, "..") {
		return "", fmt.Errorf("invalid file path %q", p)
	}
	return strings.TrimPrefix(path.Clean("/"+p), "/"), nil
}

// newestFirst sorts archive folder paths so the latest comes first, then
// applies limit when positive.
func newestFirst(paths []string, limit int) []string {
	sort.Strings(paths)
	for i, j := 0, len(paths)-1; i < j; i, j = i+1, j-1 {
		paths[i], paths[j] = paths[j], paths[i]
	}
	if limit > 0 && limit < len(paths) {
		paths = paths[:limit]
	}
	return paths
}
