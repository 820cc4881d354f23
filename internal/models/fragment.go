package models

// Fragment is the portion of one calendar item confined to a single local
// calendar day. Splitting a multi-day item yields one fragment per day
// touched; duration and distance are prorated so that the fragments of an
// item sum back to the original values.
type Fragment struct {
	// Parent item attributes, carried through unchanged.
	UserID           string  `csv:"user_id" db:"user_id"`
	CalItemID        string  `csv:"cal_item_id" db:"cal_item_id"`
	StartTimestamp   int64   `csv:"start_timestamp" db:"start_timestamp"`
	EndTimestamp     int64   `csv:"end_timestamp" db:"end_timestamp"`
	Type             string  `csv:"type_decoded" db:"type_decoded"`
	Subtype          string  `csv:"subtype_decoded" db:"subtype_decoded"`
	ConfirmTimestamp int64   `csv:"confirm_timestamp" db:"confirm_timestamp"`
	EditTimestamp    int64   `csv:"edit_timestamp" db:"edit_timestamp"`
	Centroid         string  `csv:"centroid" db:"centroid"`
	DistanceBefore   float64 `csv:"distance" db:"distance"`
	DurationBefore   float64 `csv:"duration_before_split" db:"duration_before_split"` // hours

	// ID is a stable back-reference to the parent item: fragments of one
	// item share the same ID, assigned in (user, start) order at split time.
	ID int `csv:"id" db:"id"`

	// Per-day attributes.
	StartDT       DateTime `csv:"start_dt" db:"start_dt"`
	EndDT         DateTime `csv:"end_dt" db:"end_dt"`
	StartDate     Date     `csv:"start_date" db:"start_date"`
	EndDate       Date     `csv:"end_date" db:"end_date"`
	DurationHours float64  `csv:"duration_after_split" db:"duration_after_split"`
	DistanceM     float64  `csv:"distance_after_split" db:"distance_after_split"`
	DOW           string   `csv:"dow" db:"dow"`
	IsWeekend     string   `csv:"is_weekend" db:"is_weekend"`

	// Interaction and survey flags.
	SurveyNotNull     bool `csv:"survey_not_null" db:"survey_not_null"`
	InteractWithApp   bool `csv:"interact_with_app" db:"interact_with_app"`
	InteractByConfirm bool `csv:"interact_by_confirm" db:"interact_by_confirm"`
	InteractByEdit    bool `csv:"interact_by_edit" db:"interact_by_edit"`
}

// IsTripOrActivity reports whether the fragment carries recorded data.
func (f *Fragment) IsTripOrActivity() bool {
	return f.Type == TypeActivity || f.Type == TypeTrip
}
