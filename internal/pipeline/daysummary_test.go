package pipeline

import (
	"testing"
	"time"

	"github.com/umn-mobility/daynamica-go/internal/models"
)

func testFragment(t *testing.T, user string, date time.Time, fragType, subtype string, hours float64) models.Fragment {
	t.Helper()
	d := models.NewDate(date)
	return models.Fragment{
		UserID:        user,
		Type:          fragType,
		Subtype:       subtype,
		StartDT:       models.DateTime{Time: date},
		EndDT:         models.DateTime{Time: date.Add(time.Duration(hours * float64(time.Hour)))},
		StartDate:     d,
		EndDate:       d,
		DurationHours: hours,
		DOW:           d.DayName(),
		IsWeekend:     models.WeekendLabel(d),
	}
}

func TestSummarizeDaysColumns(t *testing.T) {
	p := testPipeline(t)
	day := time.Date(2023, 6, 5, 8, 0, 0, 0, time.UTC) // a Monday

	home := testFragment(t, "u1", day, models.TypeActivity, models.SubtypeHome, 10)
	home.InteractByConfirm = true
	home.InteractWithApp = true
	walk := testFragment(t, "u1", day.Add(10*time.Hour), models.TypeTrip, "WALK", 1)
	walk.SurveyNotNull = true
	off := testFragment(t, "u1", day.Add(11*time.Hour), models.TypeOff, "", 5)
	bare := testFragment(t, "u1", day.Add(16*time.Hour), models.TypeActivity, models.TypeActivity, 2)

	days := p.SummarizeDays([]models.Fragment{home, walk, off, bare})
	if len(days) != 1 {
		t.Fatalf("expected 1 person-day, got %d", len(days))
	}
	d := days[0]

	if d.UserID != "u1" || d.DOW != "Monday" || d.IsWeekend != models.LabelWeekday {
		t.Errorf("wrong day identity: %+v", d)
	}
	if !almostEqual(d.Total, 18, 1e-9) {
		t.Errorf("total = %f, want 18", d.Total)
	}
	if !almostEqual(d.NoOff, 13, 1e-9) {
		t.Errorf("no_off must exclude device-off hours, got %f", d.NoOff)
	}
	if d.InteractWithApp != 1 || d.InteractByConfirm != 1 || d.InteractByEdit != 0 {
		t.Errorf("interaction counts wrong: %+v", d)
	}
	// The bare ACTIVITY subtype does not count as meaningful.
	if !almostEqual(d.WithSubtype, 11, 1e-9) {
		t.Errorf("with_subtype = %f, want 11", d.WithSubtype)
	}
	// Survey coverage: the answered walk plus the home exemption.
	if !almostEqual(d.WithSurvey, 11, 1e-9) {
		t.Errorf("with_survey = %f, want 11", d.WithSurvey)
	}
	if d.TripCount != 1 || !almostEqual(d.TripDuration, 1, 1e-9) {
		t.Errorf("trip stats wrong: %+v", d)
	}
	if d.ActivityCount != 2 || !almostEqual(d.ActivityDuration, 12, 1e-9) {
		t.Errorf("activity stats wrong: %+v", d)
	}
}

func TestSummarizeDaysHomeExemptOff(t *testing.T) {
	p := testPipeline(t)
	p.cfg.Survey.HomeExempt = false
	day := time.Date(2023, 6, 5, 8, 0, 0, 0, time.UTC)

	home := testFragment(t, "u1", day, models.TypeActivity, models.SubtypeHome, 10)
	days := p.SummarizeDays([]models.Fragment{home})
	if days[0].WithSurvey != 0 {
		t.Errorf("with home_exempt off an unanswered home must not count, got %f", days[0].WithSurvey)
	}
}

func TestSummarizeDaysOrdering(t *testing.T) {
	p := testPipeline(t)
	d1 := time.Date(2023, 6, 6, 8, 0, 0, 0, time.UTC)
	d2 := time.Date(2023, 6, 5, 8, 0, 0, 0, time.UTC)

	days := p.SummarizeDays([]models.Fragment{
		testFragment(t, "u2", d2, models.TypeActivity, models.SubtypeHome, 1),
		testFragment(t, "u1", d1, models.TypeActivity, models.SubtypeHome, 1),
		testFragment(t, "u1", d2, models.TypeActivity, models.SubtypeHome, 1),
	})
	if len(days) != 3 {
		t.Fatalf("expected 3 person-days, got %d", len(days))
	}
	if days[0].UserID != "u1" || days[0].StartDate.String() != "2023-06-05" {
		t.Errorf("rows must sort by (person, date), got %+v", days[0])
	}
	if days[2].UserID != "u2" {
		t.Errorf("u2 must come last, got %+v", days[2])
	}
}
