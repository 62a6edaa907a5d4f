// Package server serves the dashboard pages and the JSON endpoints the page
// script calls for events, resizing, themes, exports and archives.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"insightdash/internal/charts"
	"insightdash/internal/config"
	"insightdash/internal/dashboard"
	"insightdash/internal/export"
	"insightdash/internal/fetchers"
	"insightdash/internal/layout"
	"insightdash/internal/logger"
	"insightdash/internal/mocks"
	"insightdash/internal/storage"
	"insightdash/internal/surface"
)

// Server represents the main application server
type Server struct {
	Config   *config.Config
	Provider fetchers.Provider
	Storage  storage.StorageClient
	Archiver *export.Archiver
	Routes   dashboard.RouteTable
	Sessions *SessionStore

	layout   *layout.Resolver
	registry *charts.Registry
	pages    *PageBuilder
	log      *logger.Logger

	archiveMutex sync.Mutex
}

// NewServer creates a new server instance
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	routes := dashboard.DefaultRoutes()
	if err := routes.Validate(); err != nil {
		return nil, err
	}

	resolver, err := layout.NewResolver(layout.Options{
		DefaultWidth:   cfg.DefaultWidth,
		FlowContainers: []string{dashboard.SankeyContainer},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create layout resolver: %w", err)
	}

	pages, err := NewPageBuilder()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Config:   cfg,
		Routes:   routes,
		layout:   resolver,
		registry: charts.NewRegistry(),
		pages:    pages,
		log:      logger.Component("server"),
	}

	if cfg.MockupMode {
		s.Provider = mocks.NewMockService(cfg.MocksDir, time.Now().UnixNano())
		s.log.Info("mockup mode enabled", map[string]interface{}{"mocks_dir": cfg.MocksDir})
	} else {
		s.Provider = fetchers.NewDataFetcher(fetchers.Options{
			BaseURL: cfg.DataBaseURL,
			Timeout: cfg.FetchTimeout,
			Retries: cfg.FetchRetries,
		})
	}

	store, err := storage.NewStorageClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s.Storage = store
	s.Archiver = export.NewArchiver(store, s.Provider, routes)
	s.Sessions = NewSessionStore(s.newOrchestrator)

	s.log.Info("server initialized", map[string]interface{}{
		"deployment_mode": cfg.DeploymentMode,
		"mockup_mode":     cfg.MockupMode,
	})
	return s, nil
}

// newOrchestrator builds the render orchestrator of a new session
func (s *Server) newOrchestrator(path string) (*dashboard.Orchestrator, error) {
	return dashboard.New(surface.NewDocument(), path, dashboard.Options{
		Provider:         s.Provider,
		Registry:         s.registry,
		Routes:           s.Routes,
		Layout:           s.layout,
		RenderTimeout:    s.Config.RenderTimeout,
		ResizeDebounce:   s.Config.ResizeDebounce,
		Timing:           charts.Timing{Duration: s.Config.AnimationDuration, Stagger: charts.DefaultTiming.Stagger},
		MobileBreakpoint: s.Config.MobileBreakpoint,
		Viewport:         layout.Viewport{Width: s.Config.DefaultViewportWidth, Height: s.Config.DefaultViewportHeight},
	})
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.HandleHealth)

	for _, path := range s.Routes.Paths() {
		pattern := "GET " + path
		if path == "/" {
			pattern = "GET /{$}"
		}
		mux.HandleFunc(pattern, s.HandlePage)
	}

	mux.HandleFunc("GET /api/state", s.HandleState)
	mux.HandleFunc("POST /api/events", s.HandleEvent)
	mux.HandleFunc("POST /api/refresh", s.HandleRefresh)
	mux.HandleFunc("POST /api/theme", s.HandleTheme)
	mux.HandleFunc("POST /api/resize", s.HandleResize)
	mux.HandleFunc("GET /api/detail", s.HandleDetail)
	mux.HandleFunc("POST /api/detail/close", s.HandleDetailClose)
	mux.HandleFunc("GET /api/export.csv", s.HandleExportCSV)
	mux.HandleFunc("GET /api/snapshot/{file}", s.HandleSnapshot)
	mux.HandleFunc("POST /api/archive", s.HandleArchive)
	mux.HandleFunc("GET /api/archives", s.HandleListArchives)
	mux.HandleFunc("GET /files/{path...}", s.HandleFileProxy)

	return mux
}

// Close cleans up server resources
func (s *Server) Close() error {
	s.Sessions.Close()
	if s.Storage != nil {
		return s.Storage.Close()
	}
	return nil
}
