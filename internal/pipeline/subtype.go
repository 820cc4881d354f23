package pipeline

import (
	"log"
	"sort"

	"github.com/umn-mobility/daynamica-go/internal/models"
)

// Day type labels for the subtype rate columns.
const (
	DayTypeAll     = "All Days"
	DayTypeWeekday = models.LabelWeekday
	DayTypeWeekend = models.LabelWeekend
)

// SubtypeEpisode is the unified view the subtype summaries aggregate over;
// it is built from either split fragments (segment view) or merged trips
// (complete view).
type SubtypeEpisode struct {
	UserID  string
	Date    models.Date
	Weekend string
	Subtype string
	// DurationH is in hours; DistanceM in meters. Units convert at
	// aggregation time: hours for activities, minutes and miles for trips.
	DurationH float64
	DistanceM float64
}

// EpisodesFromFragments selects fragments of one episode type.
func EpisodesFromFragments(frags []models.Fragment, epType string) []SubtypeEpisode {
	var out []SubtypeEpisode
	for i := range frags {
		f := &frags[i]
		if f.Type != epType {
			continue
		}
		out = append(out, SubtypeEpisode{
			UserID:    f.UserID,
			Date:      f.StartDate,
			Weekend:   f.IsWeekend,
			Subtype:   f.Subtype,
			DurationH: f.DurationHours,
			DistanceM: f.DistanceM,
		})
	}
	return out
}

// EpisodesFromTrips selects merged trips of one episode type.
func EpisodesFromTrips(trips []models.Trip, epType string) []SubtypeEpisode {
	var out []SubtypeEpisode
	for i := range trips {
		t := &trips[i]
		if t.Type != epType {
			continue
		}
		out = append(out, SubtypeEpisode{
			UserID:    t.UserID,
			Date:      t.StartDate,
			Weekend:   t.IsWeekend,
			Subtype:   t.Subtype,
			DurationH: t.DurationHours,
			DistanceM: t.DistanceM,
		})
	}
	return out
}

// ValidDaysCount counts the valid days overall and by weekend/weekday,
// keeping only days with strictly more than minTripCount trips (-1 keeps
// every day).
func ValidDaysCount(days []models.DaySummary, minTripCount float64) map[string]int {
	counts := map[string]int{DayTypeAll: 0, DayTypeWeekend: 0, DayTypeWeekday: 0}
	for i := range days {
		if days[i].TripCount <= minTripCount {
			continue
		}
		counts[DayTypeAll]++
		counts[models.WeekendLabel(days[i].StartDate)]++
	}
	return counts
}

// SubtypeTable is the per-subtype daily-rate table: one row per observed
// subtype in canonical order plus a trailing Total row, one value per
// (variable, day type).
type SubtypeTable struct {
	EpisodeType string
	Columns     []string // variable display names
	DayTypes    []string
	Rows        []SubtypeTableRow
}

// SubtypeTableRow holds Values indexed as [column][dayType].
type SubtypeTableRow struct {
	Subtype string
	Values  [][]float64
}

// SubtypeRates computes, per subtype, the mean-per-valid-day totals over all
// days, weekend days and weekday days; each day type divides by its own
// valid-day count. A day type with zero valid days yields zeros.
func (p *Pipeline) SubtypeRates(episodes []SubtypeEpisode, days []models.DaySummary, epType string, minTripCount float64) *SubtypeTable {
	validDays := ValidDaysCount(days, minTripCount)
	log.Printf("[Subtype] %s: %d episodes over valid days %v", epType, len(episodes), validDays)

	columns := subtypeColumns(epType)
	dayTypes := []string{DayTypeAll, DayTypeWeekday, DayTypeWeekend}

	// totals[subtype][column][dayType]
	totals := make(map[string][][]float64)
	for _, e := range episodes {
		cells, ok := totals[e.Subtype]
		if !ok {
			cells = make([][]float64, len(columns))
			for c := range cells {
				cells[c] = make([]float64, len(dayTypes))
			}
			totals[e.Subtype] = cells
		}
		for c, col := range columns {
			v := episodeValue(e, col, epType)
			cells[c][0] += v
			if e.Weekend == DayTypeWeekend {
				cells[c][2] += v
			} else {
				cells[c][1] += v
			}
		}
	}

	table := &SubtypeTable{EpisodeType: epType, Columns: columns, DayTypes: dayTypes}
	for _, subtype := range p.orderedSubtypes(totals, epType) {
		cells := totals[subtype]
		row := SubtypeTableRow{Subtype: subtype, Values: make([][]float64, len(columns))}
		for c := range columns {
			row.Values[c] = make([]float64, len(dayTypes))
			for d, dayType := range dayTypes {
				if n := validDays[dayType]; n > 0 {
					row.Values[c][d] = cells[c][d] / float64(n)
				}
			}
		}
		table.Rows = append(table.Rows, row)
	}

	total := SubtypeTableRow{Subtype: "Total", Values: make([][]float64, len(columns))}
	for c := range columns {
		total.Values[c] = make([]float64, len(dayTypes))
		for _, row := range table.Rows {
			for d := range dayTypes {
				total.Values[c][d] += row.Values[c][d]
			}
		}
	}
	table.Rows = append(table.Rows, total)
	return table
}

// Variable display names per episode type, in column order.
func subtypeColumns(epType string) []string {
	if epType == models.TypeTrip {
		return []string{"Trip Counts", "Trip Distance in Miles", "Trip Duration in Minutes"}
	}
	return []string{"Activity Counts", "Activity Duration in Hours"}
}

func episodeValue(e SubtypeEpisode, column, epType string) float64 {
	switch column {
	case "Activity Counts", "Trip Counts":
		return 1
	case "Activity Duration in Hours":
		return e.DurationH
	case "Trip Duration in Minutes":
		return e.DurationH * 60
	case "Trip Distance in Miles":
		return e.DistanceM / MetersPerMile
	}
	return 0
}

// orderedSubtypes returns the observed subtypes in canonical palette order;
// unknown subtypes sort after the known ones alphabetically, or are dropped
// when configured.
func (p *Pipeline) orderedSubtypes(totals map[string][][]float64, epType string) []string {
	order := p.cfg.Subtypes.ActivityOrder
	if epType == models.TypeTrip {
		order = p.cfg.Subtypes.TripOrder
	}
	rank := make(map[string]int, len(order))
	for i, s := range order {
		rank[s] = i
	}

	var known, unknown []string
	for subtype := range totals {
		if _, ok := rank[subtype]; ok {
			known = append(known, subtype)
		} else if !p.cfg.Subtypes.DropUnknown {
			unknown = append(unknown, subtype)
		}
	}
	sort.Slice(known, func(i, j int) bool { return rank[known[i]] < rank[known[j]] })
	sort.Strings(unknown)
	return append(known, unknown...)
}

// PersonDaySubtypeRow is one person-day of the wide subtype table.
type PersonDaySubtypeRow struct {
	UserID  string
	Weekend string
	Date    models.Date
	Values  []float64 // aligned with PersonDaySubtypeTable.Columns
}

// PersonDaySubtypeTable pivots episodes into one row per person-day with a
// column per (variable, subtype) pair; missing combinations are 0.
type PersonDaySubtypeTable struct {
	EpisodeType string
	Columns     []string
	Rows        []PersonDaySubtypeRow
}

// PersonDaySubtype builds the wide per person-day subtype table used for
// individual-level inspection and export.
func (p *Pipeline) PersonDaySubtype(episodes []SubtypeEpisode, epType string) *PersonDaySubtypeTable {
	variables := subtypeColumns(epType)

	observed := make(map[string]bool)
	for _, e := range episodes {
		observed[e.Subtype] = true
	}
	subtypes := make([]string, 0, len(observed))
	for s := range observed {
		subtypes = append(subtypes, s)
	}
	sort.Strings(subtypes)

	columns := make([]string, 0, len(variables)*len(subtypes))
	colIndex := make(map[string]int)
	for _, v := range variables {
		for _, s := range subtypes {
			colIndex[v+"_"+s] = len(columns)
			columns = append(columns, v+"_"+s)
		}
	}

	type dayKey struct {
		user string
		date string
	}
	byDay := make(map[dayKey]*PersonDaySubtypeRow)
	var keys []dayKey
	for _, e := range episodes {
		key := dayKey{e.UserID, e.Date.String()}
		row, ok := byDay[key]
		if !ok {
			row = &PersonDaySubtypeRow{
				UserID:  e.UserID,
				Weekend: e.Weekend,
				Date:    e.Date,
				Values:  make([]float64, len(columns)),
			}
			byDay[key] = row
			keys = append(keys, key)
		}
		for _, v := range variables {
			row.Values[colIndex[v+"_"+e.Subtype]] += episodeValue(e, v, epType)
		}
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].user != keys[j].user {
			return keys[i].user < keys[j].user
		}
		return keys[i].date < keys[j].date
	})

	table := &PersonDaySubtypeTable{EpisodeType: epType, Columns: columns}
	for _, key := range keys {
		table.Rows = append(table.Rows, *byDay[key])
	}
	return table
}
