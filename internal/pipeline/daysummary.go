package pipeline

import (
	"log"
	"sort"

	"github.com/umn-mobility/daynamica-go/internal/models"
)

// SummarizeDays folds fragments into one row per observed (person, date)
// with the fixed statistic columns. Duration statistics sum hours; the
// interaction and trip/activity count statistics count fragments. Days with
// no matching fragments for a predicate carry 0 in that column; person-days
// with no fragments at all are absent.
func (p *Pipeline) SummarizeDays(frags []models.Fragment) []models.DaySummary {
	type dayKey struct {
		user string
		date string
	}

	byDay := make(map[dayKey]*models.DaySummary)
	order := make([]dayKey, 0)

	for i := range frags {
		f := &frags[i]
		key := dayKey{user: f.UserID, date: f.StartDate.String()}
		row, ok := byDay[key]
		if !ok {
			row = &models.DaySummary{
				UserID:    f.UserID,
				DOW:       f.StartDate.DayName(),
				StartDate: f.StartDate,
				IsWeekend: models.WeekendLabel(f.StartDate),
			}
			byDay[key] = row
			order = append(order, key)
		}

		row.Total += f.DurationHours
		if f.IsTripOrActivity() {
			row.NoOff += f.DurationHours
		}
		if f.InteractWithApp {
			row.InteractWithApp++
		}
		if f.InteractByConfirm {
			row.InteractByConfirm++
		}
		if f.InteractByEdit {
			row.InteractByEdit++
		}
		if p.hasMeaningfulSubtype(f) {
			row.WithSubtype += f.DurationHours
		}
		if p.hasSurveyCoverage(f) {
			row.WithSurvey += f.DurationHours
		}
		switch f.Type {
		case models.TypeTrip:
			row.TripCount++
			row.TripDuration += f.DurationHours
		case models.TypeActivity:
			row.ActivityCount++
			row.ActivityDuration += f.DurationHours
		}
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].user != order[j].user {
			return order[i].user < order[j].user
		}
		return order[i].date < order[j].date
	})

	result := make([]models.DaySummary, 0, len(order))
	for _, key := range order {
		result = append(result, *byDay[key])
	}

	log.Printf("[DaySummary] %d fragments -> %d person-days", len(frags), len(result))
	if len(frags) > 0 && len(result) == 0 {
		log.Printf("[DaySummary] warning: aggregation produced zero person-days")
	}
	return result
}

// hasMeaningfulSubtype: a trip or activity whose subtype is more specific
// than the bare type name.
func (p *Pipeline) hasMeaningfulSubtype(f *models.Fragment) bool {
	if !f.IsTripOrActivity() {
		return false
	}
	return f.Subtype != models.TypeActivity && f.Subtype != models.TypeTrip
}

// hasSurveyCoverage: the item had at least one survey answer, or is a home
// activity when the study design does not survey home time.
func (p *Pipeline) hasSurveyCoverage(f *models.Fragment) bool {
	if f.SurveyNotNull {
		return true
	}
	return p.cfg.Survey.HomeExempt && f.Subtype == models.SubtypeHome
}
