package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"insightdash/internal/charts"
	"insightdash/internal/dashboard"
	"insightdash/internal/fetchers"
	"insightdash/internal/logger"
	"insightdash/internal/models"
	"insightdash/internal/storage"
	"insightdash/internal/theme"
)

// maxParallelPages bounds concurrent page exports
const maxParallelPages = 4

// errStore marks storage failures, which abort the archive. Charts that
// cannot be rendered are skipped instead.
var errStore = errors.New("storage write failed")

// Manifest describes one stored archive
type Manifest struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Folder    string         `json:"folder"`
	Theme     string         `json:"theme"`
	Pages     []PageManifest `json:"pages"`
}

// PageManifest lists the files of one archived page
type PageManifest struct {
	Route   string              `json:"route"`
	Title   string              `json:"title"`
	Files   []string            `json:"files"`
	Skipped []string            `json:"skipped,omitempty"`
	Metrics []models.MetricCard `json:"metrics"`
}

// Archiver snapshots every dashboard page into storage
type Archiver struct {
	store    storage.StorageClient
	provider fetchers.Provider
	routes   dashboard.RouteTable
	now      func() time.Time
	log      *logger.Logger
}

// NewArchiver creates an archiver over the given pages
func NewArchiver(store storage.StorageClient, provider fetchers.Provider, routes dashboard.RouteTable) *Archiver {
	if routes == nil {
		routes = dashboard.DefaultRoutes()
	}
	return &Archiver{
		store:    store,
		provider: provider,
		routes:   routes,
		now:      time.Now,
		log:      logger.Component("archive"),
	}
}

// pageSlug names a route's folder inside an archive
func pageSlug(route string) string {
	if s := strings.Trim(route, "/"); s != "" {
		return s
	}
	return "home"
}

// Archive fetches every page, stores a PNG snapshot and a CSV table per chart
// and closes the archive with its manifest. Pages are exported in parallel;
// the first failing page cancels the rest.
func (a *Archiver) Archive(ctx context.Context, themeName theme.Name) (*Manifest, error) {
	palette, err := theme.Lookup(themeName)
	if err != nil {
		return nil, err
	}
	created := a.now().UTC()
	m := &Manifest{
		ID:        uuid.NewString(),
		CreatedAt: created,
		Folder:    storage.ArchiveFolderPath(created),
		Theme:     string(themeName),
	}

	paths := a.routes.Paths()
	pages := make([]PageManifest, len(paths))
	gen := charts.NewChartGenerator("", palette)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelPages)
	for i, path := range paths {
		i, route := i, a.routes.Resolve(path)
		g.Go(func() error {
			page, err := a.archivePage(gctx, m.Folder, route, palette, gen)
			if err != nil {
				return fmt.Errorf("failed to archive %s: %w", route.Path, err)
			}
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	m.Pages = pages

	body, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := a.store.StoreFile(ctx, m.Folder+"/"+storage.ManifestName, body); err != nil {
		return nil, fmt.Errorf("failed to store manifest: %w", err)
	}

	a.log.Info("archive stored", map[string]interface{}{
		"id":     m.ID,
		"folder": m.Folder,
		"pages":  len(m.Pages),
	})
	return m, nil
}

func (a *Archiver) archivePage(ctx context.Context, folder string, route dashboard.Route, palette theme.Palette, gen *charts.ChartGenerator) (PageManifest, error) {
	page := PageManifest{Route: route.Path, Title: route.Title}

	data, err := a.provider.FetchDataset(ctx, route.Path)
	if err != nil {
		return page, fmt.Errorf("failed to fetch dataset: %w", err)
	}
	page.Metrics = data.Metrics.Cards()

	dir := folder + "/" + pageSlug(route.Path)
	for _, d := range route.Descriptors(data, palette) {
		files, err := a.storeChart(ctx, dir, d, gen)
		page.Files = append(page.Files, files...)
		if errors.Is(err, errStore) {
			return page, err
		}
		if err != nil {
			a.log.Warn("skipping chart", map[string]interface{}{
				"route":     route.Path,
				"container": d.ContainerID,
				"error":     err.Error(),
			})
			page.Skipped = append(page.Skipped, d.ContainerID)
		}
	}
	return page, nil
}

// storeChart writes <container>.png and <container>.csv under dir
func (a *Archiver) storeChart(ctx context.Context, dir string, d models.ChartDescriptor, gen *charts.ChartGenerator) ([]string, error) {
	var files []string

	body, err := CSV(ChartTable(d))
	if err != nil {
		return files, err
	}
	name := dir + "/" + d.ContainerID + ".csv"
	if err := a.store.StoreFile(ctx, name, body); err != nil {
		return files, fmt.Errorf("%w: %s: %v", errStore, name, err)
	}
	files = append(files, name)

	var png bytes.Buffer
	if err := gen.RenderPNG(&png, d); err != nil {
		return files, err
	}
	name = dir + "/" + d.ContainerID + ".png"
	if err := a.store.StoreFile(ctx, name, png.Bytes()); err != nil {
		return files, fmt.Errorf("%w: %s: %v", errStore, name, err)
	}
	return append(files, name), nil
}
