package models

// Trip is a maximal contiguous run of trip fragments within one person-day,
// merged into a single logical trip. Non-trip fragments pass through as
// singleton runs with their original type so downstream views can still
// filter by type.
type Trip struct {
	UserID    string `csv:"user_id" db:"user_id"`
	StartDate Date   `csv:"start_date" db:"start_date"`
	RunID     int    `csv:"leg2tripid" db:"leg2tripid"`

	// Subtype of the member leg group with the largest summed distance.
	// Ties resolve to the group whose first leg starts earliest.
	Subtype string `csv:"subtype_decoded" db:"subtype_decoded"`
	Type    string `csv:"type_decoded" db:"type_decoded"` // first member's type

	DistanceM     float64 `csv:"distance_after_split" db:"distance_after_split"`
	DurationHours float64 `csv:"duration_after_split" db:"duration_after_split"`

	StartTimestamp int64    `csv:"start_timestamp" db:"start_timestamp"` // first member
	EndTimestamp   int64    `csv:"end_timestamp" db:"end_timestamp"`     // last member
	StartDT        DateTime `csv:"start_dt" db:"start_dt"`
	EndDT          DateTime `csv:"end_dt" db:"end_dt"`
	EndDate        Date     `csv:"end_date" db:"end_date"`
	DOW            string   `csv:"dow" db:"dow"`
	IsWeekend      string   `csv:"is_weekend" db:"is_weekend"`
	SurveyNotNull  bool     `csv:"survey_not_null" db:"survey_not_null"` // any member answered
	ID             int      `csv:"id" db:"id"`                           // first member's item id

	// Per-leg audit strings in chronological order, underscore-joined:
	// subtype, duration in minutes rounded up, distance in meters rounded up.
	SegmentSubtypes    string `csv:"segment_subtype" db:"segment_subtype"`
	SegmentDurationMin string `csv:"segment_duration_minute" db:"segment_duration_minute"`
	SegmentDistanceM   string `csv:"segment_distance_meter" db:"segment_distance_meter"`
}
