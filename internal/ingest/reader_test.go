package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/umn-mobility/daynamica-go/internal/models"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestReadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "study_ucalitems_20230101_20230201.csv",
		"user_id,cal_item_id,start_timestamp,end_timestamp,type_decoded,subtype_decoded,distance,confirm_timestamp,edit_timestamp,centroid\n"+
			"u1,c1,1672610400000,1672614000000,TRIP,WALK,800,0,0,\n")
	writeFile(t, dir, "study_calendar_item_survey_20230101_20230201.csv",
		"user_id,calendar_item_id,calendar_item_timestamp,question_id,response\n"+
			"u1,c1,1672610400000,q1,yes\n")
	writeFile(t, dir, "study_ema_survey_20230101_20230201.csv",
		"user_id,ema_survey_date,question_id,response\n"+
			"u1,2023-01-01,q1,fine\n")
	writeFile(t, dir, "study_exit_survey_20230101_20230201.csv",
		"user_id,question_id,response\nu1,q9,done\n")
	writeFile(t, dir, "notes.txt", "ignored")
	writeFile(t, dir, "unrelated_table.csv", "a,b\n1,2\n")

	set, err := ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(set.CalendarItems) != 1 {
		t.Fatalf("calendar items = %d, want 1", len(set.CalendarItems))
	}
	item := set.CalendarItems[0]
	if item.UserID != "u1" || item.Type != models.TypeTrip || item.Distance != 800 {
		t.Errorf("calendar item parsed wrong: %+v", item)
	}
	if len(set.ItemSurvey) != 1 || set.ItemSurvey[0].CalendarItemTimestamp != 1672610400000 {
		t.Errorf("item survey parsed wrong: %+v", set.ItemSurvey)
	}
	if len(set.EmaSurvey) != 1 || set.EmaSurvey[0].SurveyDate.String() != "2023-01-01" {
		t.Errorf("ema survey parsed wrong: %+v", set.EmaSurvey)
	}
	if len(set.ExitSurvey) != 1 {
		t.Errorf("exit survey parsed wrong: %+v", set.ExitSurvey)
	}
}

func TestReadDirMissingDirectory(t *testing.T) {
	set, err := ReadDir(filepath.Join(t.TempDir(), "nope"))
	var pathErr *models.PathError
	if !errors.As(err, &pathErr) {
		t.Fatalf("expected PathError, got %v", err)
	}
	if set == nil || len(set.CalendarItems) != 0 {
		t.Errorf("missing dir must return an empty set")
	}
}

func TestReadDirSchemaError(t *testing.T) {
	dir := t.TempDir()
	// start_timestamp column missing.
	writeFile(t, dir, "study_ucalitems_2023.csv",
		"user_id,cal_item_id,end_timestamp,type_decoded,subtype_decoded\nu1,c1,2,TRIP,WALK\n")

	_, err := ReadDir(dir)
	var schemaErr *models.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if schemaErr.Column != "start_timestamp" {
		t.Errorf("schema error column = %s", schemaErr.Column)
	}
}
