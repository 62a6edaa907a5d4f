// Package mocks serves dashboard datasets without a backend: from JSON files
// in a mocks directory, or generated when no file exists.
package mocks

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"insightdash/internal/fetchers"
	"insightdash/internal/logger"
	"insightdash/internal/models"
)

// MockService implements fetchers.Provider for mockup mode
type MockService struct {
	mocksDir string
	now      func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockService creates a new mock service reading <mocksDir>/data
func NewMockService(mocksDir string, seed int64) *MockService {
	return &MockService{
		mocksDir: filepath.Join(mocksDir, "data"),
		now:      time.Now,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// fileFor maps a route to its mock file, e.g. "/fte" -> fte_data.json
func (m *MockService) fileFor(route string) string {
	return path.Base(fetchers.EndpointFor(route)) + ".json"
}

// FetchDataset loads the route's mock file, or generates a dataset when the
// file does not exist.
func (m *MockService) FetchDataset(ctx context.Context, route string) (*models.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filePath := filepath.Join(m.mocksDir, m.fileFor(route))
	content, err := os.ReadFile(filePath)
	switch {
	case err == nil:
		data, err := fetchers.DecodeDataset(content)
		if err != nil {
			return nil, fmt.Errorf("failed to decode mock file %s: %w", filePath, err)
		}
		return data, nil
	case errors.Is(err, fs.ErrNotExist):
		logger.Component("mocks").Debug("no mock file, generating dataset", map[string]interface{}{"route": route})
		m.mu.Lock()
		defer m.mu.Unlock()
		return GenerateDataset(route, m.now(), m.rng), nil
	default:
		return nil, fmt.Errorf("failed to read mock file %s: %w", filePath, err)
	}
}

// Routes lists the routes with mock data
func Routes() []string {
	routes := make([]string, 0, len(fetchers.Endpoints))
	for r := range fetchers.Endpoints {
		routes = append(routes, r)
	}
	return routes
}

// isFlowRoute reports whether route serves a flow graph
func isFlowRoute(route string) bool {
	return strings.HasSuffix(fetchers.EndpointFor(route), "sankey_data")
}
