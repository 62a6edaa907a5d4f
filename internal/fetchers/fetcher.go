// Package fetchers loads dashboard datasets from the backend data service.
package fetchers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"insightdash/internal/logger"
	"insightdash/internal/models"
)

// Provider supplies the dataset of a dashboard route
type Provider interface {
	FetchDataset(ctx context.Context, route string) (*models.Dataset, error)
}

// Endpoints maps dashboard routes to backend JSON endpoints
var Endpoints = map[string]string{
	"/":             "/api/data",
	"/productivity": "/api/productivity_data",
	"/fte":          "/api/fte_data",
	"/sankey":       "/api/sankey_data",
}

// EndpointFor returns the endpoint of route, or the home endpoint for unknown routes
func EndpointFor(route string) string {
	if ep, ok := Endpoints[route]; ok {
		return ep
	}
	return Endpoints["/"]
}

// Options configures a DataFetcher
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Retries   int
	RetryWait time.Duration
}

// DataFetcher fetches datasets over HTTP
type DataFetcher struct {
	client *resty.Client
	log    *logger.Logger
}

// NewDataFetcher creates a new data fetcher instance
func NewDataFetcher(opts Options) *DataFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RetryWait <= 0 {
		opts.RetryWait = 500 * time.Millisecond
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseURL)
	client.SetTimeout(opts.Timeout)
	client.SetRetryCount(opts.Retries)
	client.SetRetryWaitTime(opts.RetryWait)
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		return err != nil || r.StatusCode() >= http.StatusInternalServerError
	})

	return &DataFetcher{
		client: client,
		log:    logger.Component("fetcher"),
	}
}

// FetchDataset fetches and normalizes the dataset of route
func (f *DataFetcher) FetchDataset(ctx context.Context, route string) (*models.Dataset, error) {
	endpoint := EndpointFor(route)
	start := time.Now()

	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", endpoint, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d: %s", endpoint, resp.StatusCode(), errorMessage(resp.Body()))
	}

	data, err := DecodeDataset(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", endpoint, err)
	}

	f.log.Debug("dataset fetched", map[string]interface{}{
		"route":    route,
		"endpoint": endpoint,
		"duration": time.Since(start).String(),
	})
	return data, nil
}
