// Command dashctl renders dashboard pages offline: SVG markup from the render
// engine, PNG snapshots and CSV tables, or a full archive into storage.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

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
	"insightdash/internal/theme"
)

func main() {
	if err := App().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// App is the dashctl root command
func App() *cli.Command {
	return &cli.Command{
		Name:  "dashctl",
		Usage: "Render insight dashboard pages without a browser.",
		Commands: []*cli.Command{
			renderCMD(),
			archiveCMD(),
			versionCMD(),
		},
	}
}

func providerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "base-url",
			Usage: "data backend base URL; mock data is used when empty",
		},
		&cli.StringFlag{
			Name:  "mocks",
			Usage: "mocks directory holding data/<endpoint>.json files",
			Value: "./mocks",
		},
		&cli.IntFlag{
			Name:  "seed",
			Usage: "seed for generated mock data",
			Value: 1,
		},
		&cli.StringFlag{
			Name:  "theme",
			Usage: "theme to render with",
			Value: string(theme.Light),
		},
	}
}

func provider(ctx *cli.Context) fetchers.Provider {
	if base := ctx.String("base-url"); base != "" {
		return fetchers.NewDataFetcher(fetchers.Options{BaseURL: base, Timeout: 30 * time.Second, Retries: 2})
	}
	return mocks.NewMockService(ctx.String("mocks"), int64(ctx.Int("seed")))
}

// themeFlag returns the requested theme, rejecting unknown names
func themeFlag(ctx *cli.Context) (theme.Name, error) {
	name := theme.Name(ctx.String("theme"))
	if _, err := theme.Lookup(name); err != nil {
		return "", err
	}
	return name, nil
}

func renderCMD() *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "render one page to SVG, PNG and CSV files",
		Flags: append(providerFlags(),
			&cli.StringFlag{
				Name:  "route",
				Usage: "page to render",
				Value: dashboard.DefaultRoute,
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "output directory",
				Value: "./snapshots",
			},
			&cli.IntFlag{
				Name:  "width",
				Usage: "viewport width in pixels",
				Value: 1920,
			},
		),
		Action: func(ctx *cli.Context) error {
			return renderPage(ctx)
		},
	}
}

func renderPage(ctx *cli.Context) error {
	log := logger.Component("dashctl")
	themeName, err := themeFlag(ctx)
	if err != nil {
		return err
	}
	out := ctx.String("out")
	if err := os.MkdirAll(out, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	base, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	doc := surface.NewDocument()
	orch, err := dashboard.New(doc, ctx.String("route"), dashboard.Options{
		Provider: provider(ctx),
		Theme:    themeName,
		Viewport: layout.Viewport{Width: float64(ctx.Int("width")), Height: 1080},
	})
	if err != nil {
		return err
	}
	defer orch.Close()

	if !orch.Load(base) {
		return fmt.Errorf("render pass did not run")
	}

	var files []string
	for _, id := range doc.ContainerIDs() {
		c, _ := doc.Container(id)
		markup, err := c.HTML()
		if err != nil {
			return fmt.Errorf("failed to serialize %s: %w", id, err)
		}
		name := filepath.Join(out, id+".svg")
		if err := os.WriteFile(name, []byte(markup), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		files = append(files, name)
	}

	descriptors := orch.Descriptors()
	for _, d := range descriptors {
		data, err := export.CSV(export.ChartTable(d))
		if err != nil {
			log.Warn("skipping csv", map[string]interface{}{"container": d.ContainerID, "error": err.Error()})
			continue
		}
		name := filepath.Join(out, d.ContainerID+".csv")
		if err := os.WriteFile(name, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		files = append(files, name)
	}

	pngs, err := charts.NewChartGenerator(out, orch.Palette()).GenerateSnapshots(descriptors)
	if err != nil {
		log.Warn("some snapshots failed", map[string]interface{}{"error": err.Error()})
	}
	files = append(files, pngs...)

	return printJSON(map[string]interface{}{
		"route":   orch.Route().Path,
		"theme":   orch.Theme(),
		"metrics": orch.Metrics(),
		"files":   files,
	})
}

func archiveCMD() *cli.Command {
	return &cli.Command{
		Name:  "archive",
		Usage: "archive every page into the configured storage (EXPORT_DIR or GCS_BUCKET)",
		Flags: providerFlags(),
		Action: func(ctx *cli.Context) error {
			themeName, err := themeFlag(ctx)
			if err != nil {
				return err
			}
			base, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			cfg, err := config.Load(base)
			if err != nil {
				return err
			}
			logger.Configure(cfg.LogLevel, cfg.LogFormat, cfg.Environment)

			store, err := storage.NewStorageClient(base, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			manifest, err := export.NewArchiver(store, provider(ctx), dashboard.DefaultRoutes()).
				Archive(base, themeName)
			if err != nil {
				return err
			}
			return printJSON(manifest)
		},
	}
}

func versionCMD() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print the version",
		Action: func(ctx *cli.Context) error {
			fmt.Println(config.GetVersion())
			return nil
		},
	}
}

func printJSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}
