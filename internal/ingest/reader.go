// Package ingest reads a raw study export directory into typed tables.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/umn-mobility/daynamica-go/internal/models"
)

// The export filenames carry the project name and a date range around these
// table name fragments.
const (
	fileCalendarItems = "ucalitems"
	fileItemSurvey    = "calendar_item_survey"
	fileEmaSurvey     = "ema_survey"
	fileExitSurvey    = "exit_survey"
)

// ReadDir reads every recognized CSV in dir into a TableSet. Unrecognized
// files are skipped with a log line. A missing directory returns a
// PathError and an empty set so callers can treat it as an empty study.
func ReadDir(dir string) (*models.TableSet, error) {
	set := &models.TableSet{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Printf("[Ingest] cannot read input directory %s: %v", dir, err)
		return set, &models.PathError{Path: dir, Err: err}
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := readTable(path, entry.Name(), set); err != nil {
			return set, err
		}
	}

	log.Printf("[Ingest] %s: %d calendar items, %d item survey, %d ema survey, %d exit survey rows",
		dir, len(set.CalendarItems), len(set.ItemSurvey), len(set.EmaSurvey), len(set.ExitSurvey))
	return set, nil
}

// readTable dispatches one CSV by the table name fragment in its filename.
// The item survey check runs before the calendar item check: both names
// contain shared stems but the survey name is the more specific one.
func readTable(path, name string, set *models.TableSet) error {
	switch {
	case strings.Contains(name, fileItemSurvey):
		return readCSV(path, &set.ItemSurvey)
	case strings.Contains(name, fileCalendarItems):
		return readCSV(path, &set.CalendarItems)
	case strings.Contains(name, fileEmaSurvey):
		return readCSV(path, &set.EmaSurvey)
	case strings.Contains(name, fileExitSurvey):
		return readCSV(path, &set.ExitSurvey)
	}
	log.Printf("[Ingest] skipping unrecognized file %s", name)
	return nil
}

func readCSV(path string, out interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return &models.PathError{Path: path, Err: err}
	}
	defer f.Close()

	if err := checkHeader(f, out); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return &models.PathError{Path: path, Err: err}
	}

	if err := gocsv.UnmarshalFile(f, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// checkHeader verifies that every csv-tagged column of the target row type
// is present before parsing, so a schema drift surfaces as a SchemaError
// naming the column instead of a zero-valued table.
func checkHeader(f *os.File, out interface{}) error {
	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[strings.TrimSpace(col)] = true
	}

	for _, col := range requiredColumns(out) {
		if !present[col] {
			return &models.SchemaError{Table: filepath.Base(f.Name()), Column: col}
		}
	}
	return nil
}

func requiredColumns(out interface{}) []string {
	switch out.(type) {
	case *[]models.CalendarItem:
		return []string{"user_id", "cal_item_id", "start_timestamp", "end_timestamp",
			"type_decoded", "subtype_decoded"}
	case *[]models.CalendarItemSurvey:
		return []string{"user_id", "calendar_item_id", "calendar_item_timestamp", "response"}
	case *[]models.EmaSurveyRow:
		return []string{"user_id", "ema_survey_date", "response"}
	case *[]models.ExitSurveyRow:
		return []string{"user_id", "response"}
	}
	return nil
}
