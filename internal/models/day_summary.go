package models

// Day summary statistic column names. Duration statistics hold hours;
// count statistics hold fragment counts.
const (
	StatTotal             = "total"
	StatNoOff             = "no_off"
	StatInteractWithApp   = "interact_with_app"
	StatInteractByConfirm = "interact_by_confirm"
	StatInteractByEdit    = "interact_by_edit"
	StatWithSubtype       = "with_subtype"
	StatWithSurvey        = "with_survey"
	StatTripCount         = "trip_count"
	StatTripDuration      = "trip_duration"
	StatActivityCount     = "activity_count"
	StatActivityDuration  = "activity_duration"
)

// DaySummary is one observed person-day with its per-predicate statistics.
// Every column is present on every row; a predicate with no matching
// fragments contributes 0.
type DaySummary struct {
	UserID    string `csv:"user_id" db:"user_id"`
	DOW       string `csv:"dow" db:"dow"`
	StartDate Date   `csv:"start_date" db:"start_date"`

	Total             float64 `csv:"total" db:"total"`                             // hours of any data
	NoOff             float64 `csv:"no_off" db:"no_off"`                           // hours of trip/activity data
	InteractWithApp   float64 `csv:"interact_with_app" db:"interact_with_app"`     // count
	InteractByConfirm float64 `csv:"interact_by_confirm" db:"interact_by_confirm"` // count
	InteractByEdit    float64 `csv:"interact_by_edit" db:"interact_by_edit"`       // count
	WithSubtype       float64 `csv:"with_subtype" db:"with_subtype"`               // hours
	WithSurvey        float64 `csv:"with_survey" db:"with_survey"`                 // hours
	TripCount         float64 `csv:"trip_count" db:"trip_count"`                   // count
	TripDuration      float64 `csv:"trip_duration" db:"trip_duration"`             // hours
	ActivityCount     float64 `csv:"activity_count" db:"activity_count"`           // count
	ActivityDuration  float64 `csv:"activity_duration" db:"activity_duration"`     // hours

	IsWeekend string `csv:"is_weekend" db:"is_weekend"`
}

// Stat returns the named statistic column. The second return is false for
// unknown column names.
func (d *DaySummary) Stat(name string) (float64, bool) {
	switch name {
	case StatTotal:
		return d.Total, true
	case StatNoOff:
		return d.NoOff, true
	case StatInteractWithApp:
		return d.InteractWithApp, true
	case StatInteractByConfirm:
		return d.InteractByConfirm, true
	case StatInteractByEdit:
		return d.InteractByEdit, true
	case StatWithSubtype:
		return d.WithSubtype, true
	case StatWithSurvey:
		return d.WithSurvey, true
	case StatTripCount:
		return d.TripCount, true
	case StatTripDuration:
		return d.TripDuration, true
	case StatActivityCount:
		return d.ActivityCount, true
	case StatActivityDuration:
		return d.ActivityDuration, true
	}
	return 0, false
}

// StatColumns lists the statistic columns in output order.
func StatColumns() []string {
	return []string{
		StatTotal, StatNoOff,
		StatInteractWithApp, StatInteractByConfirm, StatInteractByEdit,
		StatWithSubtype, StatWithSurvey,
		StatTripCount, StatTripDuration,
		StatActivityCount, StatActivityDuration,
	}
}
