package pipeline

import (
	"log"

	"github.com/umn-mobility/daynamica-go/internal/models"
	"github.com/umn-mobility/daynamica-go/internal/stats"
)

// Unit conversions shared by the summaries.
const (
	MetersPerMile = 1609.344
	milesPerMeter = 0.000621371
	minutesInDay  = 1440
)

// Overview statistic display names, in report order.
const (
	statRecordedMinutes = "Recorded Data per Day (Minutes)"
	statActivityMinutes = "Total Activity Duration per Day (Minutes)"
	statTripMinutes     = "Total Trip Duration per Day (Minutes)"
	statTripMiles       = "Total Trip Distance per Day (Miles)"
	statActivityCount   = "Activity Count per Day"
	statTripSegments    = "Trip (Segment) Count per Day"
	statTripComplete    = "Trip (Complete) Count per Day"
	statHullArea        = "Convex Hull Area (Square Miles)"
	statEllipseArea     = "Ellipse Area (Square Miles)"
	statEllipseMajor    = "Ellipse semi-major Axis (Miles)"
	statEllipseMinor    = "Ellipse semi-minor Axis (Miles)"
)

// OverviewRow is one (group, statistic) row of the population overview.
type OverviewRow struct {
	IsWeekend string // empty when not grouped by weekend
	Statistic string
	Median    float64
	Mean      float64
	SD        float64
	Min       float64
	Max       float64
}

type overviewSample struct {
	weekend string
	value   float64
}

// OverviewStatistics computes median/mean/sd/min/max across valid
// person-days for the fixed menu of daily quantities, optionally split by
// weekend/weekday. Trip and activity day totals are zero-filled against the
// valid-day universe; activity-space quantities cover only the days with
// geometry. The recorded-minutes maximum is capped at one full day.
func (p *Pipeline) OverviewStatistics(valid *ValidSet, trips []models.Trip, hulls []models.ConvexHullRow, sdes []models.SDERow, byWeekend bool) []OverviewRow {
	quantities := p.overviewQuantities(valid, trips, hulls, sdes)

	var rows []OverviewRow
	if !byWeekend {
		for _, q := range quantities {
			values := make([]float64, len(q.samples))
			for i, s := range q.samples {
				values[i] = s.value
			}
			rows = append(rows, overviewRow("", q.name, values))
		}
	} else {
		for _, weekend := range []string{models.LabelWeekday, models.LabelWeekend} {
			for _, q := range quantities {
				var values []float64
				for _, s := range q.samples {
					if s.weekend == weekend {
						values = append(values, s.value)
					}
				}
				if len(values) == 0 {
					continue
				}
				rows = append(rows, overviewRow(weekend, q.name, values))
			}
		}
	}

	log.Printf("[Overview] %d statistic rows (byWeekend=%v)", len(rows), byWeekend)
	return rows
}

func overviewRow(weekend, name string, values []float64) OverviewRow {
	s := stats.Describe(values)
	if name == statRecordedMinutes && s.Max > minutesInDay {
		s.Max = minutesInDay
	}
	return OverviewRow{
		IsWeekend: weekend,
		Statistic: name,
		Median:    s.Median,
		Mean:      s.Mean,
		SD:        s.SD,
		Min:       s.Min,
		Max:       s.Max,
	}
}

type overviewQuantity struct {
	name    string
	samples []overviewSample
}

func (p *Pipeline) overviewQuantities(valid *ValidSet, trips []models.Trip, hulls []models.ConvexHullRow, sdes []models.SDERow) []overviewQuantity {
	type dayKey struct {
		user string
		date string
	}

	// The valid day summaries are the person-day universe that zero-fills
	// the fragment- and trip-based quantities.
	universe := make([]dayKey, 0, len(valid.DaySummaries))
	weekendOf := make(map[dayKey]string, len(valid.DaySummaries))
	recorded := make([]overviewSample, 0, len(valid.DaySummaries))
	for i := range valid.DaySummaries {
		d := &valid.DaySummaries[i]
		key := dayKey{d.UserID, d.StartDate.String()}
		universe = append(universe, key)
		weekendOf[key] = models.WeekendLabel(d.StartDate)
		recorded = append(recorded, overviewSample{weekendOf[key], d.NoOff * 60})
	}

	perDay := func(add func(map[dayKey]float64)) []overviewSample {
		acc := make(map[dayKey]float64)
		add(acc)
		samples := make([]overviewSample, 0, len(universe))
		for _, key := range universe {
			samples = append(samples, overviewSample{weekendOf[key], acc[key]})
		}
		return samples
	}

	fragSum := func(fragType string, value func(*models.Fragment) float64) []overviewSample {
		return perDay(func(acc map[dayKey]float64) {
			for i := range valid.Fragments {
				f := &valid.Fragments[i]
				if f.Type != fragType {
					continue
				}
				acc[dayKey{f.UserID, f.StartDate.String()}] += value(f)
			}
		})
	}

	completeTrips := perDay(func(acc map[dayKey]float64) {
		for i := range trips {
			t := &trips[i]
			if t.Type != models.TypeTrip {
				continue
			}
			acc[dayKey{t.UserID, t.StartDate.String()}]++
		}
	})

	geoSamples := func(n int, at func(int) (models.Date, float64)) []overviewSample {
		samples := make([]overviewSample, 0, n)
		for i := 0; i < n; i++ {
			date, v := at(i)
			samples = append(samples, overviewSample{models.WeekendLabel(date), v})
		}
		return samples
	}

	duration := func(f *models.Fragment) float64 { return f.DurationHours * 60 }
	distance := func(f *models.Fragment) float64 { return f.DistanceM * milesPerMeter }
	count := func(f *models.Fragment) float64 { return 1 }

	return []overviewQuantity{
		{statRecordedMinutes, recorded},
		{statActivityMinutes, fragSum(models.TypeActivity, duration)},
		{statTripMinutes, fragSum(models.TypeTrip, duration)},
		{statTripMiles, fragSum(models.TypeTrip, distance)},
		{statActivityCount, fragSum(models.TypeActivity, count)},
		{statTripSegments, fragSum(models.TypeTrip, count)},
		{statTripComplete, completeTrips},
		{statHullArea, geoSamples(len(hulls), func(i int) (models.Date, float64) {
			return hulls[i].StartDate, hulls[i].AreaMile
		})},
		{statEllipseArea, geoSamples(len(sdes), func(i int) (models.Date, float64) {
			return sdes[i].StartDate, sdes[i].AreaMile
		})},
		{statEllipseMajor, geoSamples(len(sdes), func(i int) (models.Date, float64) {
			return sdes[i].StartDate, sdes[i].SxMile
		})},
		{statEllipseMinor, geoSamples(len(sdes), func(i int) (models.Date, float64) {
			return sdes[i].StartDate, sdes[i].SyMile
		})},
	}
}
