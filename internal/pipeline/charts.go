package pipeline

import (
	"sort"

	"github.com/umn-mobility/daynamica-go/internal/models"
)

// recodeForComposition collapses trips and device-off fragments into
// pseudo-activity subtypes so one stacked chart can show how a full day is
// composed.
func recodeForComposition(frags []models.Fragment) []models.Fragment {
	out := make([]models.Fragment, len(frags))
	copy(out, frags)
	for i := range out {
		f := &out[i]
		switch f.Type {
		case models.TypeTrip:
			f.Subtype = models.TypeTrip
			f.Type = models.TypeActivity
		case models.TypeDeviceOff:
			f.Subtype = models.TypeDeviceOff
			f.Type = models.TypeActivity
		}
		if f.Subtype == models.SubtypeWork {
			f.Subtype = models.SubtypeWorkplace
		}
	}
	return out
}

// ActivityComposition builds the day-composition rate table behind the
// activity duration chart: trips and device-off time fold in as their own
// subtypes and each day-type column is rescaled to stack to 24 hours.
func (p *Pipeline) ActivityComposition(frags []models.Fragment, days []models.DaySummary) *SubtypeTable {
	episodes := EpisodesFromFragments(recodeForComposition(frags), models.TypeActivity)
	table := p.SubtypeRates(episodes, days, models.TypeActivity, -1)

	durIdx := -1
	for c, col := range table.Columns {
		if col == "Activity Duration in Hours" {
			durIdx = c
		}
	}
	if durIdx < 0 || len(table.Rows) == 0 {
		return table
	}

	totals := table.Rows[len(table.Rows)-1] // trailing Total row
	for d := range table.DayTypes {
		total := totals.Values[durIdx][d]
		if total == 0 {
			continue
		}
		for r := range table.Rows {
			table.Rows[r].Values[durIdx][d] *= 24 / total
		}
	}
	return table
}

// TimelineEntry is one (date, subtype) block of a person's daily timeline.
type TimelineEntry struct {
	Date    string
	Subtype string
	Hours   float64
}

// PersonTimeline sums one person's day-composition hours per (date, subtype)
// for the individual timeline page. Entries come back date-ordered.
func PersonTimeline(frags []models.Fragment, userID string) []TimelineEntry {
	recoded := recodeForComposition(SelectUsers(frags, []string{userID}))

	type cell struct {
		date    string
		subtype string
	}
	hours := make(map[cell]float64)
	for i := range recoded {
		f := &recoded[i]
		hours[cell{f.StartDate.String(), f.Subtype}] += f.DurationHours
	}

	entries := make([]TimelineEntry, 0, len(hours))
	for c, h := range hours {
		entries = append(entries, TimelineEntry{Date: c.date, Subtype: c.subtype, Hours: h})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date < entries[j].Date
		}
		return entries[i].Subtype < entries[j].Subtype
	})
	return entries
}
