package server

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"sort"
	"strings"

	"insightdash/internal/config"
	"insightdash/internal/dashboard"
	"insightdash/internal/models"
	"insightdash/internal/theme"
)

//go:embed templates/dashboard.html
var dashboardTemplate string

// echartsAssets is the script the detail panel's alternate charts need
const echartsAssets = "https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"

// NavItem is one entry of the page navigation
type NavItem struct {
	Path   string
	Title  string
	Active bool
}

// ChartPanel is one chart container with its current content
type ChartPanel struct {
	ID      string
	Title   string
	Version int
	HTML    template.HTML
}

// DetailPanel is the drill-down panel as rendered into the page
type DetailPanel struct {
	Open      bool
	Title     string
	Summary   string
	Table     dashboard.Table
	AltDiv    template.HTML
	AltScript template.HTML
}

// PageData holds everything the dashboard template renders
type PageData struct {
	Title         string
	Path          string
	Theme         string
	ThemeVars     template.CSS
	EChartsAssets string
	Version       string
	Nav           []NavItem
	Metrics       []models.MetricCard
	Charts        []ChartPanel
	Detail        DetailPanel
}

// PageBuilder renders dashboard pages from an orchestrator's state
type PageBuilder struct {
	tmpl *template.Template
}

// NewPageBuilder parses the embedded dashboard template
func NewPageBuilder() (*PageBuilder, error) {
	funcs := template.FuncMap{
		"metricName": func(name string) string {
			return strings.ReplaceAll(name, "_", " ")
		},
		"fixed": func(v float64) string {
			return fmt.Sprintf("%.2f", v)
		},
	}
	tmpl, err := template.New("dashboard").Funcs(funcs).Parse(dashboardTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard template: %w", err)
	}
	return &PageBuilder{tmpl: tmpl}, nil
}

// themeVars renders a palette as CSS custom properties
func themeVars(p theme.Palette) template.CSS {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "--%s: %s; ", name, p[name])
	}
	return template.CSS(strings.TrimSpace(b.String()))
}

// detailPanel converts the detail view for the template
func detailPanel(v dashboard.View) DetailPanel {
	p := DetailPanel{
		Open:    v.Open,
		Title:   v.Title,
		Summary: v.Summary,
		Table:   v.Table,
	}
	if v.Alt != nil {
		p.AltDiv = template.HTML(v.Alt.Div)
		p.AltScript = template.HTML(v.Alt.Script)
	}
	return p
}

// BuildPageData collects the page state of o
func (pb *PageBuilder) BuildPageData(o *dashboard.Orchestrator, routes dashboard.RouteTable) (PageData, error) {
	route := o.Route()
	data := PageData{
		Title:         route.Title,
		Path:          route.Path,
		Theme:         string(o.Theme()),
		ThemeVars:     themeVars(o.Palette()),
		EChartsAssets: echartsAssets,
		Version:       config.GetVersion(),
		Metrics:       o.Metrics(),
		Detail:        detailPanel(o.Detail().View()),
	}

	for _, path := range routes.Paths() {
		r := routes.Resolve(path)
		data.Nav = append(data.Nav, NavItem{Path: path, Title: r.Title, Active: path == route.Path})
	}

	doc := o.Document()
	for _, spec := range route.Charts {
		c, ok := doc.Container(spec.ContainerID)
		if !ok {
			continue
		}
		markup, err := c.HTML()
		if err != nil {
			return PageData{}, fmt.Errorf("failed to render container %s: %w", spec.ContainerID, err)
		}
		data.Charts = append(data.Charts, ChartPanel{
			ID:      spec.ContainerID,
			Title:   spec.Title,
			Version: c.Version(),
			HTML:    template.HTML(markup),
		})
	}
	return data, nil
}

// Render writes the page of o to w
func (pb *PageBuilder) Render(w io.Writer, o *dashboard.Orchestrator, routes dashboard.RouteTable) error {
	data, err := pb.BuildPageData(o, routes)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := pb.tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute dashboard template: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}
