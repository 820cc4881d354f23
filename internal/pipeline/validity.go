package pipeline

import (
	"fmt"
	"log"

	"github.com/umn-mobility/daynamica-go/internal/models"
)

// DayPredicate selects person-days from the day summary.
type DayPredicate func(*models.DaySummary) bool

// DenominatorPredicate resolves the configured denominator population
// predicate for the valid-day tables.
func (p *Pipeline) DenominatorPredicate() DayPredicate {
	return p.Predicate(p.cfg.Validity.DenominatorPredicate)
}

// Predicate resolves a day predicate by name: "interacted", "confirmed" or
// "confirmed_with_subtype".
func (p *Pipeline) Predicate(name string) DayPredicate {
	minSubtype := p.cfg.Validity.MinSubtypeHours
	switch name {
	case "confirmed":
		return func(d *models.DaySummary) bool { return d.InteractByConfirm > 0 }
	case "confirmed_with_subtype":
		return func(d *models.DaySummary) bool {
			return d.InteractByConfirm > 0 && d.WithSubtype >= minSubtype
		}
	default: // interacted
		return func(d *models.DaySummary) bool { return d.InteractWithApp > 0 }
	}
}

var weekdayNames = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// CountValidDays builds the valid-day table: for every day of the week plus
// a Total row, the denominator population size and, per descending hour
// threshold, how many of those days clear the threshold on the numerator
// column. Thresholds are reduced by the configured epsilon to tolerate
// floating rounding. Day-of-week populations of zero produce N/A cells.
func (p *Pipeline) CountValidDays(days []models.DaySummary, numerator string, denominator DayPredicate) (*models.ValidityTable, error) {
	if _, ok := (&models.DaySummary{}).Stat(numerator); !ok {
		return nil, &models.SchemaError{Table: "day_summary", Column: numerator}
	}

	population := make([]models.DaySummary, 0, len(days))
	for i := range days {
		if denominator(&days[i]) {
			population = append(population, days[i])
		}
	}
	if len(days) > 0 && len(population) == 0 {
		log.Printf("[Validity] warning: denominator predicate matched zero of %d days", len(days))
	}

	thresholds := make([]float64, len(p.cfg.Validity.HourThresholds))
	for i, th := range p.cfg.Validity.HourThresholds {
		thresholds[i] = th - p.cfg.Validity.ThresholdEpsilon
	}

	table := &models.ValidityTable{
		NumeratorColumn: numerator,
		Thresholds:      thresholds,
	}
	for _, dow := range weekdayNames {
		table.Rows = append(table.Rows, validityRow(population, numerator, thresholds, dow))
	}
	table.Rows = append(table.Rows, validityRow(population, numerator, thresholds, ""))

	log.Printf("[Validity] numerator=%s: %d of %d days in denominator", numerator, len(population), len(days))
	return table, nil
}

// validityRow computes one day-of-week row; an empty dow means the Total row.
func validityRow(population []models.DaySummary, numerator string, thresholds []float64, dow string) models.ValidityRow {
	label := dow
	if dow == "" {
		label = "Total"
	}

	var subset []models.DaySummary
	for i := range population {
		if dow == "" || population[i].DOW == dow {
			subset = append(subset, population[i])
		}
	}

	row := models.ValidityRow{DayOfWeek: label, TotalDays: len(subset)}
	for _, th := range thresholds {
		cell := models.ValidityCell{Formatted: models.NASentinel}
		if len(subset) > 0 {
			n := 0
			for i := range subset {
				v, _ := subset[i].Stat(numerator)
				if v >= th {
					n++
				}
			}
			cell.Count = n
			cell.Percent = float64(n) / float64(len(subset)) * 100
			cell.Formatted = fmt.Sprintf("%d (%.1f%%)", n, cell.Percent)
		}
		row.Cells = append(row.Cells, cell)
	}
	return row
}

// ValidSet is the table dictionary restricted to the person-days matching a
// day predicate.
type ValidSet struct {
	DaySummaries []models.DaySummary
	Fragments    []models.Fragment
	// Presentation is a copy of Fragments with device-off sentinels and
	// catch-all subtypes recoded for reporting.
	Presentation  []models.Fragment
	ActivityItems []models.CalendarItem
	EmaSurvey     []models.EmaSurveyRow
	ItemSurvey    []models.CalendarItemSurvey
}

// FilterValidDays restricts every table to person-days matching the
// predicate: day summaries and fragments by (person, date), activity items
// by the local date of their start, and the survey tables by surviving
// person-days / items.
func (p *Pipeline) FilterValidDays(tables *models.TableSet, frags []models.Fragment, days []models.DaySummary, pred DayPredicate) *ValidSet {
	type dayKey struct {
		user string
		date string
	}
	validDay := make(map[dayKey]bool)

	set := &ValidSet{}
	for i := range days {
		if pred(&days[i]) {
			set.DaySummaries = append(set.DaySummaries, days[i])
			validDay[dayKey{days[i].UserID, days[i].StartDate.String()}] = true
		}
	}
	log.Printf("[Validity] %d of %d days kept by filter", len(set.DaySummaries), len(days))

	validItem := make(map[SurveyKey]bool)
	for i := range frags {
		f := &frags[i]
		if !validDay[dayKey{f.UserID, f.StartDate.String()}] {
			continue
		}
		set.Fragments = append(set.Fragments, *f)
		validItem[SurveyKey{f.UserID, f.CalItemID, f.StartTimestamp}] = true
	}
	log.Printf("[Validity] fragments %d -> %d", len(frags), len(set.Fragments))

	set.Presentation = DecodeForPresentation(set.Fragments)

	for i := range tables.CalendarItems {
		it := &tables.CalendarItems[i]
		if it.Type != models.TypeActivity || it.Centroid == "" {
			continue
		}
		date := models.NewDate(p.cfg.EpochToTime(it.StartTimestamp).In(p.loc))
		if validDay[dayKey{it.UserID, date.String()}] {
			set.ActivityItems = append(set.ActivityItems, *it)
		}
	}
	log.Printf("[Validity] %d activity items with centroid kept", len(set.ActivityItems))

	for i := range tables.EmaSurvey {
		r := &tables.EmaSurvey[i]
		if validDay[dayKey{r.UserID, r.SurveyDate.String()}] {
			set.EmaSurvey = append(set.EmaSurvey, *r)
		}
	}
	log.Printf("[Validity] ema survey %d -> %d", len(tables.EmaSurvey), len(set.EmaSurvey))

	for i := range tables.ItemSurvey {
		r := &tables.ItemSurvey[i]
		if validItem[SurveyKey{r.UserID, r.CalendarItemID, r.CalendarItemTimestamp}] {
			set.ItemSurvey = append(set.ItemSurvey, *r)
		}
	}
	log.Printf("[Validity] item survey %d -> %d", len(tables.ItemSurvey), len(set.ItemSurvey))

	return set
}

// SelectUsers restricts fragments and day summaries to one person; used for
// the individual timeline pages.
func SelectUsers(frags []models.Fragment, users []string) []models.Fragment {
	want := make(map[string]bool, len(users))
	for _, u := range users {
		want[u] = true
	}
	var out []models.Fragment
	for i := range frags {
		if want[frags[i].UserID] {
			out = append(out, frags[i])
		}
	}
	return out
}
