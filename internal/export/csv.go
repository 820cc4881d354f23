// Package export writes the derived tables as CSV files, the formatted
// summary workbook and the interactive charts.
package export

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/umn-mobility/daynamica-go/internal/models"
	"github.com/umn-mobility/daynamica-go/internal/pipeline"
)

// WriteTable writes a typed row slice as CSV using the models' csv tags.
func WriteTable(path string, rows interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &models.PathError{Path: path, Err: err}
	}
	f, err := os.Create(path)
	if err != nil {
		return &models.PathError{Path: path, Err: err}
	}
	defer f.Close()

	if err := gocsv.MarshalFile(rows, f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Printf("[Export] wrote %s", path)
	return nil
}

// The dynamic tables have run-dependent columns, so they are written with a
// plain csv.Writer instead of gocsv struct tags.
func writeRecords(path string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &models.PathError{Path: path, Err: err}
	}
	f, err := os.Create(path)
	if err != nil {
		return &models.PathError{Path: path, Err: err}
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Printf("[Export] wrote %s", path)
	return nil
}

// WriteValidityTable writes a valid-day table with its formatted cells.
func WriteValidityTable(path string, table *models.ValidityTable) error {
	records := [][]string{table.Header()}
	for _, row := range table.Rows {
		rec := []string{row.DayOfWeek}
		for _, cell := range row.Cells {
			rec = append(rec, cell.Formatted)
		}
		rec = append(rec, strconv.Itoa(row.TotalDays))
		records = append(records, rec)
	}
	return writeRecords(path, records)
}

// WriteOverview writes the overview statistics table.
func WriteOverview(path string, rows []pipeline.OverviewRow, byWeekend bool) error {
	header := []string{"Statistics", "Median", "Mean", "SD", "Min", "Max"}
	if byWeekend {
		header = append([]string{"IsWeekend"}, header...)
	}
	records := [][]string{header}
	for _, r := range rows {
		rec := []string{
			r.Statistic,
			formatFloat(r.Median), formatFloat(r.Mean), formatFloat(r.SD),
			formatFloat(r.Min), formatFloat(r.Max),
		}
		if byWeekend {
			rec = append([]string{r.IsWeekend}, rec...)
		}
		records = append(records, rec)
	}
	return writeRecords(path, records)
}

// WriteSubtypeTable writes the per-subtype daily-rate table with the
// two-level (variable, day type) column headers flattened.
func WriteSubtypeTable(path string, table *pipeline.SubtypeTable) error {
	header := []string{subtypeIndexName(table.EpisodeType)}
	for _, col := range table.Columns {
		for _, dayType := range table.DayTypes {
			header = append(header, col+"_"+dayType)
		}
	}
	records := [][]string{header}
	for _, row := range table.Rows {
		rec := []string{row.Subtype}
		for c := range table.Columns {
			for d := range table.DayTypes {
				rec = append(rec, formatFloat(row.Values[c][d]))
			}
		}
		records = append(records, rec)
	}
	return writeRecords(path, records)
}

// WritePersonDaySubtype writes the wide per person-day subtype table.
func WritePersonDaySubtype(path string, table *pipeline.PersonDaySubtypeTable) error {
	header := append([]string{"user_id", "IsWeekend", "start_date"}, table.Columns...)
	records := [][]string{header}
	for _, row := range table.Rows {
		rec := []string{row.UserID, row.Weekend, row.Date.String()}
		for _, v := range row.Values {
			rec = append(rec, formatFloat(v))
		}
		records = append(records, rec)
	}
	return writeRecords(path, records)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// subtypeIndexName is the first column header, e.g. "Activity Type".
func subtypeIndexName(epType string) string {
	if epType == models.TypeTrip {
		return "Trip Type"
	}
	return "Activity Type"
}
