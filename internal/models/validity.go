package models

import "fmt"

// NASentinel marks cells whose denominator population is empty.
const NASentinel = "N/A"

// ValidityCell is one (day-of-week, threshold) entry of a valid-day table.
type ValidityCell struct {
	Count     int
	Percent   float64
	Formatted string // "12 (34.5%)", or NASentinel when the population is empty
}

// ValidityRow is one day-of-week row (or the trailing "Total" row) of a
// valid-day table.
type ValidityRow struct {
	DayOfWeek string
	Cells     []ValidityCell // one per threshold, descending threshold order
	TotalDays int
}

// ValidityTable counts, per day-of-week, the person-days whose numerator
// column clears each hour threshold within a denominator population.
type ValidityTable struct {
	NumeratorColumn string
	Thresholds      []float64 // already reduced by the rounding epsilon
	Rows            []ValidityRow
}

// Header returns the column headers in output order.
func (t *ValidityTable) Header() []string {
	h := []string{"Day of the Week"}
	for _, th := range t.Thresholds {
		h = append(h, thresholdHeader(th))
	}
	return append(h, "Total # of Days")
}

func thresholdHeader(th float64) string {
	// Thresholds carry the epsilon; display rounds back to whole hours.
	return fmt.Sprintf("# of days with more than %.0f hours of data", th)
}
