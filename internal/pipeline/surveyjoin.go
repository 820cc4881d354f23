package pipeline

import (
	"log"

	"github.com/umn-mobility/daynamica-go/internal/models"
)

// SurveyKey identifies the calendar item a survey answer belongs to.
// Answers join items on (person, item id, item start timestamp).
type SurveyKey struct {
	UserID    string
	CalItemID string
	StartTS   int64
}

// SurveyAnswered aggregates the item survey: every key with at least one
// non-empty response is marked answered. The count itself is not kept, only
// the count > 0 fact, which becomes the survey_not_null flag on fragments.
func SurveyAnswered(rows []models.CalendarItemSurvey) map[SurveyKey]bool {
	answered := make(map[SurveyKey]bool)
	kept := 0
	for _, r := range rows {
		if r.Response == "" {
			continue
		}
		kept++
		answered[SurveyKey{
			UserID:    r.UserID,
			CalItemID: r.CalendarItemID,
			StartTS:   r.CalendarItemTimestamp,
		}] = true
	}
	log.Printf("[SurveyJoin] %d survey rows, %d non-null, %d answered items",
		len(rows), kept, len(answered))
	if len(rows) > 0 && len(answered) == 0 {
		log.Printf("[SurveyJoin] warning: survey join produced zero answered items")
	}
	return answered
}
