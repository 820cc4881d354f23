package pipeline

import (
	"testing"
	"time"

	"github.com/umn-mobility/daynamica-go/internal/models"
)

func TestValidDaysCount(t *testing.T) {
	sat := time.Date(2023, 6, 3, 0, 0, 0, 0, time.UTC)
	mon := time.Date(2023, 6, 5, 0, 0, 0, 0, time.UTC)
	days := []models.DaySummary{
		{UserID: "u1", StartDate: models.NewDate(sat), TripCount: 0},
		{UserID: "u1", StartDate: models.NewDate(mon), TripCount: 2},
	}

	all := ValidDaysCount(days, -1)
	if all[DayTypeAll] != 2 || all[DayTypeWeekend] != 1 || all[DayTypeWeekday] != 1 {
		t.Errorf("counts with -1 wrong: %v", all)
	}

	withTrips := ValidDaysCount(days, 0)
	if withTrips[DayTypeAll] != 1 || withTrips[DayTypeWeekend] != 0 {
		t.Errorf("counts with >0 trips wrong: %v", withTrips)
	}
}

func TestSubtypeRates(t *testing.T) {
	p := testPipeline(t)
	sat := time.Date(2023, 6, 3, 8, 0, 0, 0, time.UTC)
	mon := time.Date(2023, 6, 5, 8, 0, 0, 0, time.UTC)

	days := []models.DaySummary{
		{UserID: "u1", StartDate: models.NewDate(sat), IsWeekend: models.LabelWeekend},
		{UserID: "u1", StartDate: models.NewDate(mon), IsWeekend: models.LabelWeekday},
	}
	episodes := []SubtypeEpisode{
		{UserID: "u1", Date: models.NewDate(sat), Weekend: models.LabelWeekend, Subtype: models.SubtypeHome, DurationH: 10},
		{UserID: "u1", Date: models.NewDate(mon), Weekend: models.LabelWeekday, Subtype: models.SubtypeHome, DurationH: 6},
		{UserID: "u1", Date: models.NewDate(mon), Weekend: models.LabelWeekday, Subtype: models.SubtypeWorkplace, DurationH: 8},
	}

	table := p.SubtypeRates(episodes, days, models.TypeActivity, -1)
	if len(table.Columns) != 2 || table.Columns[0] != "Activity Counts" {
		t.Fatalf("columns wrong: %v", table.Columns)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("expected HOME, WORKPLACE and Total rows, got %d", len(table.Rows))
	}
	if table.Rows[0].Subtype != models.SubtypeHome || table.Rows[1].Subtype != models.SubtypeWorkplace {
		t.Errorf("canonical order wrong: %s, %s", table.Rows[0].Subtype, table.Rows[1].Subtype)
	}

	home := table.Rows[0]
	// All Days: 2 home episodes over 2 valid days; 16h over 2 days.
	if !almostEqual(home.Values[0][0], 1, 1e-9) {
		t.Errorf("home count per day = %f, want 1", home.Values[0][0])
	}
	if !almostEqual(home.Values[1][0], 8, 1e-9) {
		t.Errorf("home hours per day = %f, want 8", home.Values[1][0])
	}
	// Weekday column: 6h over 1 weekday.
	if !almostEqual(home.Values[1][1], 6, 1e-9) {
		t.Errorf("home weekday hours = %f, want 6", home.Values[1][1])
	}
	// Weekend column: 10h over 1 weekend day.
	if !almostEqual(home.Values[1][2], 10, 1e-9) {
		t.Errorf("home weekend hours = %f, want 10", home.Values[1][2])
	}

	total := table.Rows[2]
	if total.Subtype != "Total" {
		t.Fatalf("last row must be Total, got %s", total.Subtype)
	}
	if !almostEqual(total.Values[1][0], 12, 1e-9) {
		t.Errorf("total hours per day = %f, want 12", total.Values[1][0])
	}
}

func TestSubtypeRatesTripUnits(t *testing.T) {
	p := testPipeline(t)
	mon := time.Date(2023, 6, 5, 8, 0, 0, 0, time.UTC)
	days := []models.DaySummary{{UserID: "u1", StartDate: models.NewDate(mon)}}
	episodes := []SubtypeEpisode{
		{UserID: "u1", Date: models.NewDate(mon), Weekend: models.LabelWeekday,
			Subtype: "WALK", DurationH: 0.5, DistanceM: MetersPerMile},
	}

	table := p.SubtypeRates(episodes, days, models.TypeTrip, -1)
	if len(table.Columns) != 3 {
		t.Fatalf("trip columns wrong: %v", table.Columns)
	}
	walk := table.Rows[0]
	if !almostEqual(walk.Values[1][0], 1, 1e-9) {
		t.Errorf("distance must convert to miles, got %f", walk.Values[1][0])
	}
	if !almostEqual(walk.Values[2][0], 30, 1e-9) {
		t.Errorf("duration must convert to minutes, got %f", walk.Values[2][0])
	}
}

func TestSubtypeRatesZeroValidDays(t *testing.T) {
	p := testPipeline(t)
	mon := time.Date(2023, 6, 5, 8, 0, 0, 0, time.UTC)
	episodes := []SubtypeEpisode{
		{UserID: "u1", Date: models.NewDate(mon), Weekend: models.LabelWeekday, Subtype: models.SubtypeHome, DurationH: 5},
	}

	table := p.SubtypeRates(episodes, nil, models.TypeActivity, -1)
	for _, row := range table.Rows {
		for _, col := range row.Values {
			for _, v := range col {
				if v != 0 {
					t.Fatalf("zero valid days must yield zero rates, got %f", v)
				}
			}
		}
	}
}

func TestSubtypeRatesUnknownSubtype(t *testing.T) {
	p := testPipeline(t)
	mon := time.Date(2023, 6, 5, 8, 0, 0, 0, time.UTC)
	days := []models.DaySummary{{UserID: "u1", StartDate: models.NewDate(mon)}}
	episodes := []SubtypeEpisode{
		{UserID: "u1", Date: models.NewDate(mon), Weekend: models.LabelWeekday, Subtype: "NAPPING", DurationH: 1},
		{UserID: "u1", Date: models.NewDate(mon), Weekend: models.LabelWeekday, Subtype: models.SubtypeHome, DurationH: 8},
	}

	table := p.SubtypeRates(episodes, days, models.TypeActivity, -1)
	if table.Rows[0].Subtype != models.SubtypeHome || table.Rows[1].Subtype != "NAPPING" {
		t.Errorf("unknown subtypes must sort after known ones: %s, %s",
			table.Rows[0].Subtype, table.Rows[1].Subtype)
	}

	p.cfg.Subtypes.DropUnknown = true
	table = p.SubtypeRates(episodes, days, models.TypeActivity, -1)
	for _, row := range table.Rows {
		if row.Subtype == "NAPPING" {
			t.Errorf("drop_unknown must drop the unknown subtype")
		}
	}
}

func TestEpisodesFromFragmentsAndTrips(t *testing.T) {
	day := time.Date(2023, 6, 5, 8, 0, 0, 0, time.UTC)
	frags := []models.Fragment{
		testFragment(t, "u1", day, models.TypeActivity, models.SubtypeHome, 2),
		tripLeg(t, "u1", day, "WALK", 0.5, 800),
	}
	if got := EpisodesFromFragments(frags, models.TypeTrip); len(got) != 1 || got[0].Subtype != "WALK" {
		t.Fatalf("trip episodes wrong: %+v", got)
	}

	trips := MergeLegs(frags)
	episodes := EpisodesFromTrips(trips, models.TypeTrip)
	if len(episodes) != 1 || episodes[0].DistanceM != 800 {
		t.Fatalf("trip episode from merged trips wrong: %+v", episodes)
	}
}

func TestPersonDaySubtype(t *testing.T) {
	p := testPipeline(t)
	mon := models.NewDate(time.Date(2023, 6, 5, 0, 0, 0, 0, time.UTC))
	tue := mon.AddDays(1)
	episodes := []SubtypeEpisode{
		{UserID: "u1", Date: mon, Weekend: models.LabelWeekday, Subtype: models.SubtypeHome, DurationH: 8},
		{UserID: "u1", Date: mon, Weekend: models.LabelWeekday, Subtype: models.SubtypeHome, DurationH: 2},
		{UserID: "u1", Date: tue, Weekend: models.LabelWeekday, Subtype: models.SubtypeWorkplace, DurationH: 7},
	}

	table := p.PersonDaySubtype(episodes, models.TypeActivity)
	// 2 variables x 2 observed subtypes.
	if len(table.Columns) != 4 {
		t.Fatalf("columns = %v", table.Columns)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 person-days, got %d", len(table.Rows))
	}

	colIdx := make(map[string]int)
	for i, c := range table.Columns {
		colIdx[c] = i
	}
	monRow := table.Rows[0]
	if monRow.Date.String() != "2023-06-05" {
		t.Fatalf("rows must sort by date, got %s", monRow.Date)
	}
	if got := monRow.Values[colIdx["Activity Counts_HOME"]]; got != 2 {
		t.Errorf("home count = %f, want 2", got)
	}
	if got := monRow.Values[colIdx["Activity Duration in Hours_HOME"]]; !almostEqual(got, 10, 1e-9) {
		t.Errorf("home hours = %f, want 10", got)
	}
	if got := monRow.Values[colIdx["Activity Counts_WORKPLACE"]]; got != 0 {
		t.Errorf("missing combination must be zero, got %f", got)
	}
}
