package pipeline

import (
	"testing"
	"time"

	"github.com/umn-mobility/daynamica-go/internal/models"
)

func overviewFixture(t *testing.T) (*ValidSet, []models.Trip) {
	t.Helper()
	mon := time.Date(2023, 6, 5, 8, 0, 0, 0, time.UTC)
	sat := time.Date(2023, 6, 3, 8, 0, 0, 0, time.UTC)

	frags := []models.Fragment{
		tripLeg(t, "u1", mon, "WALK", 0.5, MetersPerMile),
		testFragment(t, "u1", mon, models.TypeActivity, models.SubtypeHome, 8),
		testFragment(t, "u1", sat, models.TypeActivity, models.SubtypeHome, 4),
	}
	valid := &ValidSet{
		DaySummaries: []models.DaySummary{
			{UserID: "u1", StartDate: models.NewDate(mon), NoOff: 8.5, IsWeekend: models.LabelWeekday},
			{UserID: "u1", StartDate: models.NewDate(sat), NoOff: 4, IsWeekend: models.LabelWeekend},
		},
		Fragments: frags,
	}
	return valid, MergeLegs(frags)
}

func findStat(t *testing.T, rows []OverviewRow, name, weekend string) OverviewRow {
	t.Helper()
	for _, r := range rows {
		if r.Statistic == name && r.IsWeekend == weekend {
			return r
		}
	}
	t.Fatalf("statistic %q (weekend=%q) not found", name, weekend)
	return OverviewRow{}
}

func TestOverviewStatistics(t *testing.T) {
	p := testPipeline(t)
	valid, trips := overviewFixture(t)

	rows := p.OverviewStatistics(valid, trips, nil, nil, false)

	recorded := findStat(t, rows, statRecordedMinutes, "")
	if !almostEqual(recorded.Mean, (8.5*60+4*60)/2, 1e-6) {
		t.Errorf("recorded minutes mean = %f", recorded.Mean)
	}

	// Trip minutes zero-fill against both valid days: {30, 0}.
	tripMinutes := findStat(t, rows, statTripMinutes, "")
	if !almostEqual(tripMinutes.Mean, 15, 1e-6) {
		t.Errorf("trip minutes mean = %f, want 15", tripMinutes.Mean)
	}
	if !almostEqual(tripMinutes.Min, 0, 1e-9) {
		t.Errorf("zero-filled day must appear as min 0, got %f", tripMinutes.Min)
	}

	tripMiles := findStat(t, rows, statTripMiles, "")
	if !almostEqual(tripMiles.Max, 1, 1e-4) {
		t.Errorf("trip miles max = %f, want 1", tripMiles.Max)
	}

	activityCount := findStat(t, rows, statActivityCount, "")
	if !almostEqual(activityCount.Mean, 1, 1e-9) {
		t.Errorf("activity count mean = %f, want 1", activityCount.Mean)
	}

	complete := findStat(t, rows, statTripComplete, "")
	if !almostEqual(complete.Mean, 0.5, 1e-9) {
		t.Errorf("complete trip mean = %f, want 0.5", complete.Mean)
	}
}

func TestOverviewRecordedMinutesCap(t *testing.T) {
	p := testPipeline(t)
	mon := time.Date(2023, 6, 5, 8, 0, 0, 0, time.UTC)
	valid := &ValidSet{
		DaySummaries: []models.DaySummary{
			// An overlap artifact pushing past 24 recorded hours.
			{UserID: "u1", StartDate: models.NewDate(mon), NoOff: 25, IsWeekend: models.LabelWeekday},
		},
	}

	rows := p.OverviewStatistics(valid, nil, nil, nil, false)
	recorded := findStat(t, rows, statRecordedMinutes, "")
	if recorded.Max != 1440 {
		t.Errorf("recorded minutes max must cap at 1440, got %f", recorded.Max)
	}
}

func TestOverviewByWeekend(t *testing.T) {
	p := testPipeline(t)
	valid, trips := overviewFixture(t)

	rows := p.OverviewStatistics(valid, trips, nil, nil, true)

	weekday := findStat(t, rows, statTripMinutes, models.LabelWeekday)
	if !almostEqual(weekday.Mean, 30, 1e-6) {
		t.Errorf("weekday trip minutes mean = %f, want 30", weekday.Mean)
	}
	weekend := findStat(t, rows, statTripMinutes, models.LabelWeekend)
	if !almostEqual(weekend.Mean, 0, 1e-9) {
		t.Errorf("weekend trip minutes mean = %f, want 0", weekend.Mean)
	}

	// Weekday group rows must precede weekend group rows.
	firstWeekend := -1
	lastWeekday := -1
	for i, r := range rows {
		switch r.IsWeekend {
		case models.LabelWeekday:
			lastWeekday = i
		case models.LabelWeekend:
			if firstWeekend < 0 {
				firstWeekend = i
			}
		}
	}
	if firstWeekend >= 0 && lastWeekday > firstWeekend {
		t.Errorf("weekday rows must come before weekend rows")
	}
}

func TestOverviewGeometryStats(t *testing.T) {
	p := testPipeline(t)
	valid, trips := overviewFixture(t)
	mon := models.NewDate(time.Date(2023, 6, 5, 0, 0, 0, 0, time.UTC))

	hulls := []models.ConvexHullRow{{UserID: "u1", StartDate: mon, AreaMile: 2.5}}
	sdes := []models.SDERow{{UserID: "u1", StartDate: mon, SxMile: 1.5, SyMile: 0.5, AreaMile: 2.36}}

	rows := p.OverviewStatistics(valid, trips, hulls, sdes, false)
	if got := findStat(t, rows, statHullArea, ""); !almostEqual(got.Mean, 2.5, 1e-9) {
		t.Errorf("hull area mean = %f", got.Mean)
	}
	if got := findStat(t, rows, statEllipseMajor, ""); !almostEqual(got.Mean, 1.5, 1e-9) {
		t.Errorf("ellipse major mean = %f", got.Mean)
	}
}
