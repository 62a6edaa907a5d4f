package server

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"time"

	"insightdash/internal/charts"
	"insightdash/internal/config"
	"insightdash/internal/dashboard"
	"insightdash/internal/export"
	"insightdash/internal/layout"
	"insightdash/internal/models"
	"insightdash/internal/storage"
	"insightdash/internal/surface"
	"insightdash/internal/theme"
)

// ContainerState is one container's current markup
type ContainerState struct {
	ID      string `json:"id"`
	Version int    `json:"version"`
	HTML    string `json:"html"`
}

// DetailState is the detail panel as sent to the page script
type DetailState struct {
	dashboard.View
	AltDiv    string `json:"alt_div,omitempty"`
	AltScript string `json:"alt_script,omitempty"`
}

// State is the session snapshot returned by the JSON endpoints
type State struct {
	Route      string              `json:"route"`
	Theme      string              `json:"theme"`
	ThemeVars  string              `json:"theme_vars"`
	Render     string              `json:"render_state"`
	Passes     int                 `json:"passes"`
	Viewport   layout.Viewport     `json:"viewport"`
	Metrics    []models.MetricCard `json:"metrics"`
	Tooltip    surface.Tooltip     `json:"tooltip"`
	Detail     DetailState         `json:"detail"`
	Containers []ContainerState    `json:"containers"`
}

// EventRequest is a pointer event posted by the page
type EventRequest struct {
	Container string            `json:"container"`
	Type      surface.EventType `json:"type"`
	Target    string            `json:"target"`
	PageX     float64           `json:"page_x"`
	PageY     float64           `json:"page_y"`
}

// ResizeRequest carries the viewport and the measured container widths
type ResizeRequest struct {
	Width      float64            `json:"width"`
	Height     float64            `json:"height"`
	Containers map[string]float64 `json:"containers"`
}

// ThemeRequest selects a theme; an empty name advances the cycle
type ThemeRequest struct {
	Name string `json:"name"`
}

func (s *Server) buildState(o *dashboard.Orchestrator) (State, error) {
	view := o.Detail().View()
	st := State{
		Route:     o.Route().Path,
		Theme:     string(o.Theme()),
		ThemeVars: string(themeVars(o.Palette())),
		Render:    o.State().String(),
		Passes:    o.Passes(),
		Viewport:  o.Viewport(),
		Metrics:   o.Metrics(),
		Tooltip:   o.Document().Tooltip(),
		Detail:    DetailState{View: view},
	}
	if view.Alt != nil {
		st.Detail.AltDiv = view.Alt.Div
		st.Detail.AltScript = view.Alt.Script
	}

	doc := o.Document()
	for _, id := range doc.ContainerIDs() {
		c, _ := doc.Container(id)
		markup, err := c.HTML()
		if err != nil {
			return State{}, err
		}
		st.Containers = append(st.Containers, ContainerState{ID: id, Version: c.Version(), HTML: markup})
	}
	return st, nil
}

func (s *Server) writeState(w http.ResponseWriter, status int, o *dashboard.Orchestrator) {
	st, err := s.buildState(o)
	if err != nil {
		s.log.Error("failed to build session state", err)
		writeError(w, http.StatusInternalServerError, "failed to render state")
		return
	}
	writeJSON(w, status, st)
}

// session returns the request's orchestrator or answers 404
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*dashboard.Orchestrator, bool) {
	o, ok := s.Sessions.Lookup(r)
	if !ok {
		writeError(w, http.StatusNotFound, "no dashboard session; load a page first")
		return nil, false
	}
	return o, true
}

// HandlePage navigates the session to the requested page and renders it
func (s *Server) HandlePage(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	o, _, err := s.Sessions.Ensure(w, r, path)
	if err != nil {
		s.log.Error("failed to create session", err, map[string]interface{}{"path": path})
		http.Error(w, "Failed to create dashboard session", http.StatusInternalServerError)
		return
	}

	if !o.Navigate(r.Context(), path) {
		s.log.Debug("render pass already running, serving current state", map[string]interface{}{"path": path})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.pages.Render(w, o, s.Routes); err != nil {
		s.log.Error("failed to render page", err, map[string]interface{}{"path": path})
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

// HandleState returns the session snapshot
func (s *Server) HandleState(w http.ResponseWriter, r *http.Request) {
	o, ok := s.session(w, r)
	if !ok {
		return
	}
	s.writeState(w, http.StatusOK, o)
}

// HandleEvent dispatches a pointer event to the chart handlers
func (s *Server) HandleEvent(w http.ResponseWriter, r *http.Request) {
	o, ok := s.session(w, r)
	if !ok {
		return
	}
	var req EventRequest
	if err := readJSON(r, w, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	switch req.Type {
	case surface.Click, surface.MouseOver, surface.MouseMove, surface.MouseOut:
	default:
		writeError(w, http.StatusBadRequest, "unsupported event type "+string(req.Type))
		return
	}

	o.Dispatch(req.Container, &surface.Event{
		Type:   req.Type,
		Target: req.Target,
		PageX:  req.PageX,
		PageY:  req.PageY,
	})
	s.writeState(w, http.StatusOK, o)
}

// HandleRefresh runs a render pass with freshly fetched data
func (s *Server) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	o, ok := s.session(w, r)
	if !ok {
		return
	}
	if !o.Refresh(r.Context()) {
		s.writeState(w, http.StatusAccepted, o)
		return
	}
	s.writeState(w, http.StatusOK, o)
}

// HandleTheme sets or cycles the session theme
func (s *Server) HandleTheme(w http.ResponseWriter, r *http.Request) {
	o, ok := s.session(w, r)
	if !ok {
		return
	}
	var req ThemeRequest
	if err := readJSON(r, w, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		o.CycleTheme(r.Context())
	} else if err := o.SetTheme(r.Context(), theme.Name(req.Name)); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeState(w, http.StatusOK, o)
}

// HandleResize records container widths and schedules a debounced redraw
func (s *Server) HandleResize(w http.ResponseWriter, r *http.Request) {
	o, ok := s.session(w, r)
	if !ok {
		return
	}
	var req ResizeRequest
	if err := readJSON(r, w, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		writeError(w, http.StatusBadRequest, "viewport width and height must be positive")
		return
	}

	doc := o.Document()
	for id, width := range req.Containers {
		if !doc.SetWidth(id, width) {
			s.log.Debug("ignoring width of container not on page", map[string]interface{}{"container": id})
		}
	}
	o.Resize(layout.Viewport{Width: req.Width, Height: req.Height})

	writeJSON(w, http.StatusAccepted, map[string]interface{}{"status": "scheduled"})
}

// HandleDetail returns the detail panel
func (s *Server) HandleDetail(w http.ResponseWriter, r *http.Request) {
	o, ok := s.session(w, r)
	if !ok {
		return
	}
	st, err := s.buildState(o)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render state")
		return
	}
	writeJSON(w, http.StatusOK, st.Detail)
}

// HandleDetailClose collapses the detail panel
func (s *Server) HandleDetailClose(w http.ResponseWriter, r *http.Request) {
	o, ok := s.session(w, r)
	if !ok {
		return
	}
	o.Detail().Close()
	s.writeState(w, http.StatusOK, o)
}

// HandleExportCSV downloads the last opened detail table
func (s *Server) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	o, ok := s.session(w, r)
	if !ok {
		return
	}
	data, err := export.CSV(o.Detail().Table())
	if err != nil {
		if errors.Is(err, export.ErrNoRows) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.log.Error("failed to export csv", err)
		writeError(w, http.StatusInternalServerError, "failed to export csv")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.CSVFilename+`"`)
	w.Write(data)
}

// HandleSnapshot renders a PNG snapshot of one chart on the session's page
func (s *Server) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	o, ok := s.session(w, r)
	if !ok {
		return
	}
	id := strings.TrimSuffix(r.PathValue("file"), ".png")

	var (
		desc  models.ChartDescriptor
		found bool
	)
	for _, d := range o.Descriptors() {
		if d.ContainerID == id {
			desc, found = d, true
			break
		}
	}
	if !found {
		writeError(w, http.StatusNotFound, "no chart "+id+" on this page")
		return
	}

	var buf bytes.Buffer
	gen := charts.NewChartGenerator("", o.Palette())
	if err := gen.RenderPNG(&buf, desc); err != nil {
		if errors.Is(err, charts.ErrNoData) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.log.Error("failed to render snapshot", err, map[string]interface{}{"container": id})
		writeError(w, http.StatusInternalServerError, "failed to render snapshot")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	buf.WriteTo(w)
}

// HandleArchive snapshots every page into storage. Only one archive runs at a time.
func (s *Server) HandleArchive(w http.ResponseWriter, r *http.Request) {
	if !s.archiveMutex.TryLock() {
		s.log.Warn("archive already in progress, rejecting new request")
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error":   "Archive already in progress",
			"message": "Another archive is currently running. Please wait for it to complete before starting a new one.",
			"status":  "conflict",
		})
		return
	}
	defer s.archiveMutex.Unlock()

	themeName := theme.Light
	if o, ok := s.Sessions.Lookup(r); ok {
		themeName = o.Theme()
	}

	manifest, err := s.Archiver.Archive(r.Context(), themeName)
	if err != nil {
		s.log.Error("archive failed", err)
		writeError(w, http.StatusInternalServerError, "archive failed: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, manifest)
}

// HandleListArchives lists recent archive manifests
func (s *Server) HandleListArchives(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 10, 100)
	archives, err := s.Storage.ListArchives(r.Context(), limit)
	if err != nil {
		s.log.Error("failed to list archives", err)
		writeError(w, http.StatusInternalServerError, "failed to list archives: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"archives":  archives,
		"count":     len(archives),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleFileProxy serves archived files from local storage or GCS
func (s *Server) HandleFileProxy(w http.ResponseWriter, r *http.Request) {
	filePath := r.PathValue("path")
	if filePath == "" {
		http.Error(w, "File path required", http.StatusBadRequest)
		return
	}
	if strings.Contains(filePath, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	data, err := s.Storage.GetFile(r.Context(), filePath)
	if err != nil {
		s.log.Warn("file not found in storage", map[string]interface{}{"path": filePath, "error": err.Error()})
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", storage.GetContentType(filePath))
	w.Write(data)
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   config.GetVersion(),
		"checks": map[string]string{
			"storage": s.Config.DeploymentMode,
			"config":  "ok",
		},
	})
}
