package models

// Episode type constants as they appear in the export
const (
	TypeActivity         = "ACTIVITY"
	TypeTrip             = "TRIP"
	TypeOff              = "OFF"
	TypeInacc            = "INACC"
	TypeCollectionStart  = "DATA COLLECTION STARTED"
	TypeDeviceOff        = "DEVICE OFF" // presentation recode of OFF / INACC / DATA COLLECTION STARTED
	SubtypeHome          = "HOME"
	SubtypeWork          = "WORK"
	SubtypeWorkplace     = "WORKPLACE"
	SubtypeOther         = "OTHER"
	SubtypeOtherActivity = "OTHER ACTIVITIES"
	SubtypeOtherTrip     = "OTHER TRIPS"
)

// CalendarItem is one raw trip or activity episode from the ucalitems export.
// Timestamps are epoch values in the configured unit (milliseconds by
// default). An item may span any number of calendar days; the splitter owns
// it during processing and never mutates it.
type CalendarItem struct {
	UserID           string  `csv:"user_id" db:"user_id"`
	CalItemID        string  `csv:"cal_item_id" db:"cal_item_id"`
	StartTimestamp   int64   `csv:"start_timestamp" db:"start_timestamp"`
	EndTimestamp     int64   `csv:"end_timestamp" db:"end_timestamp"`
	Type             string  `csv:"type_decoded" db:"type_decoded"`
	Subtype          string  `csv:"subtype_decoded" db:"subtype_decoded"`
	Distance         float64 `csv:"distance" db:"distance"` // meters, 0 when absent
	ConfirmTimestamp int64   `csv:"confirm_timestamp" db:"confirm_timestamp"`
	EditTimestamp    int64   `csv:"edit_timestamp" db:"edit_timestamp"`
	Centroid         string  `csv:"centroid" db:"centroid"` // encoded polyline point, may be empty
}

// IsTripOrActivity reports whether the episode carries recorded data, as
// opposed to a device-off or sentinel episode.
func (c *CalendarItem) IsTripOrActivity() bool {
	return c.Type == TypeActivity || c.Type == TypeTrip
}

// CalendarItemSurvey is one in-app survey answer attached to a calendar
// item. Items join on (user, item id, item start timestamp).
type CalendarItemSurvey struct {
	UserID                string `csv:"user_id" db:"user_id"`
	CalendarItemID        string `csv:"calendar_item_id" db:"calendar_item_id"`
	CalendarItemTimestamp int64  `csv:"calendar_item_timestamp" db:"calendar_item_timestamp"`
	QuestionID            string `csv:"question_id" db:"question_id"`
	Response              string `csv:"response" db:"response"` // empty means unanswered
}

// EmaSurveyRow is one daily (EMA style) survey response.
type EmaSurveyRow struct {
	UserID     string `csv:"user_id" db:"user_id"`
	SurveyDate Date   `csv:"ema_survey_date" db:"ema_survey_date"`
	QuestionID string `csv:"question_id" db:"question_id"`
	Response   string `csv:"response" db:"response"`
}

// ExitSurveyRow is one exit survey response.
type ExitSurveyRow struct {
	UserID     string `csv:"user_id" db:"user_id"`
	QuestionID string `csv:"question_id" db:"question_id"`
	Response   string `csv:"response" db:"response"`
}

// TableSet is the raw export read from one dataset directory.
type TableSet struct {
	CalendarItems []CalendarItem
	ItemSurvey    []CalendarItemSurvey
	EmaSurvey     []EmaSurveyRow
	ExitSurvey    []ExitSurveyRow
}
