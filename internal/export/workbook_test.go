package export

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/umn-mobility/daynamica-go/internal/pipeline"
)

func TestWriteWorkbook(t *testing.T) {
	wb := &Workbook{
		SubtypeConfirmed: testValidityTable(),
		SurveyAnswered:   testValidityTable(),
		DailySummary: []pipeline.OverviewRow{
			{Statistic: "Trip Counts", Median: 1, Mean: 1.5, SD: 0.5, Min: 1, Max: 2},
		},
		Activity:     testSubtypeTable(),
		TripSegment:  testSubtypeTable(),
		TripComplete: testSubtypeTable(),
	}

	path := filepath.Join(t.TempDir(), "tables.xlsx")
	if err := WriteWorkbook(path, wb); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	want := []string{
		"subtype_confirmed_hours", "survey_answered_hours", "daily_summary",
		"activity_subtype", "trip_segment_subtype", "trip_complete_subtype",
	}
	got := f.GetSheetList()
	if len(got) != len(want) {
		t.Fatalf("sheets = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sheet[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	cell, err := f.GetCellValue("subtype_confirmed_hours", "B2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if cell != "1 (50.0%)" {
		t.Errorf("validity cell = %q", cell)
	}

	cell, err = f.GetCellValue("daily_summary", "A2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if cell != "Trip Counts" {
		t.Errorf("overview index cell = %q", cell)
	}

	cell, err = f.GetCellValue("activity_subtype", "A1")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if cell != "Activity Type" {
		t.Errorf("subtype header cell = %q", cell)
	}
}
