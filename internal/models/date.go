package models

import (
	"fmt"
	"math"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05.000 -0700"
)

// Date is a local calendar date. It marshals as YYYY-MM-DD for CSV output
// and compares by day.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date, keeping the location.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, t.Location())}
}

// MarshalCSV implements the gocsv marshaller.
func (d Date) MarshalCSV() (string, error) {
	return d.Format(dateLayout), nil
}

// UnmarshalCSV implements the gocsv unmarshaller.
func (d *Date) UnmarshalCSV(s string) error {
	if s == "" {
		*d = Date{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// String returns the YYYY-MM-DD form.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// AddDays returns the date n days later.
func (d Date) AddDays(n int) Date {
	return NewDate(d.AddDate(0, 0, n))
}

// DaysUntil returns the number of calendar days from d to other. Negative
// when other is earlier. Rounding absorbs DST days that are not 24h long.
func (d Date) DaysUntil(other Date) int {
	return int(math.Round(other.Sub(d.Time).Hours() / 24))
}

// DayName returns the English weekday name, e.g. "Monday".
func (d Date) DayName() string {
	return d.Weekday().String()
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DateTime is a zoned local datetime with millisecond precision used for
// fragment boundaries.
type DateTime struct {
	time.Time
}

// MarshalCSV implements the gocsv marshaller.
func (d DateTime) MarshalCSV() (string, error) {
	return d.Format(dateTimeLayout), nil
}

// UnmarshalCSV implements the gocsv unmarshaller.
func (d *DateTime) UnmarshalCSV(s string) error {
	if s == "" {
		*d = DateTime{}
		return nil
	}
	t, err := time.Parse(dateTimeLayout, s)
	if err != nil {
		return fmt.Errorf("invalid datetime %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// String returns the zoned millisecond form used in output files.
func (d DateTime) String() string {
	return d.Format(dateTimeLayout)
}

// WeekendLabel is the Weekend/Weekday tag carried on person-day rows.
const (
	LabelWeekend = "Weekend"
	LabelWeekday = "Weekday"
)

// WeekendLabel returns "Weekend" for Saturday/Sunday and "Weekday"
// otherwise.
func WeekendLabel(d Date) string {
	if d.IsWeekend() {
		return LabelWeekend
	}
	return LabelWeekday
}
