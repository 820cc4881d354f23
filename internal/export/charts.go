package export

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/umn-mobility/daynamica-go/internal/models"
	"github.com/umn-mobility/daynamica-go/internal/pipeline"
)

// WriteSubtypeChart renders one rate-table column as a stacked horizontal
// bar chart, one bar per day type, one segment per subtype in palette
// order. Palette subtypes absent from the table draw as zero so every
// figure carries the full legend.
func WriteSubtypeChart(path, title string, table *pipeline.SubtypeTable, column string, order []string, colors map[string]string) error {
	colIdx := -1
	for c, col := range table.Columns {
		if col == column {
			colIdx = c
		}
	}
	if colIdx < 0 {
		return fmt.Errorf("chart column %q not in table", column)
	}

	values := make(map[string][]float64)
	for _, row := range table.Rows {
		if row.Subtype == "Total" {
			continue
		}
		values[row.Subtype] = row.Values[colIdx]
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "0"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	bar.SetXAxis(table.DayTypes)
	for _, subtype := range order {
		data := make([]opts.BarData, len(table.DayTypes))
		for d := range table.DayTypes {
			var v float64
			if vs, ok := values[subtype]; ok {
				v = vs[d]
			}
			data[d] = opts.BarData{Value: v}
		}
		bar.AddSeries(subtype, data,
			charts.WithBarChartOpts(opts.BarChart{Stack: "total"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colors[subtype]}),
		)
	}
	bar.XYReversal()

	return renderChart(path, bar)
}

// WritePersonTimeline renders one person's day-by-day composition as a
// stacked bar per date.
func WritePersonTimeline(path, userID string, entries []pipeline.TimelineEntry, order []string, colors map[string]string) error {
	var dates []string
	seen := make(map[string]bool)
	hours := make(map[string]map[string]float64) // subtype -> date -> hours
	for _, e := range entries {
		if !seen[e.Date] {
			seen[e.Date] = true
			dates = append(dates, e.Date)
		}
		if hours[e.Subtype] == nil {
			hours[e.Subtype] = make(map[string]float64)
		}
		hours[e.Subtype][e.Date] += e.Hours
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Daily timeline for " + userID}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "0"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	bar.SetXAxis(dates)
	for _, subtype := range order {
		byDate := hours[subtype]
		if byDate == nil {
			continue
		}
		data := make([]opts.BarData, len(dates))
		for i, date := range dates {
			data[i] = opts.BarData{Value: byDate[date]}
		}
		bar.AddSeries(subtype, data,
			charts.WithBarChartOpts(opts.BarChart{Stack: "day"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colors[subtype]}),
		)
	}

	return renderChart(path, bar)
}

func renderChart(path string, bar *charts.Bar) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &models.PathError{Path: path, Err: err}
	}
	f, err := os.Create(path)
	if err != nil {
		return &models.PathError{Path: path, Err: err}
	}
	defer f.Close()

	if err := bar.Render(f); err != nil {
		return fmt.Errorf("failed to render chart %s: %w", path, err)
	}
	log.Printf("[Export] wrote %s", path)
	return nil
}
