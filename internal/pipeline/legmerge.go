package pipeline

import (
	"log"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/umn-mobility/daynamica-go/internal/models"
)

// MergeLegs merges contiguous runs of trip fragments within each person-day
// into complete trips. The run id increments at every non-trip fragment and
// at the first trip fragment after a non-trip fragment (or after a
// person-day boundary), so only consecutive trip legs merge; everything else
// passes through as a singleton run with its original type. The merged
// trip's subtype comes from the leg subtype with the largest summed distance
// contribution; exact ties resolve to the subtype whose first leg starts
// earliest.
func MergeLegs(frags []models.Fragment) []models.Trip {
	ordered := make([]models.Fragment, len(frags))
	copy(ordered, frags)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].UserID != ordered[j].UserID {
			return ordered[i].UserID < ordered[j].UserID
		}
		return ordered[i].StartDT.Before(ordered[j].StartDT.Time)
	})

	var trips []models.Trip
	runID := 0
	start := 0
	for i := range ordered {
		if i == 0 {
			continue
		}
		cur, prev := &ordered[i], &ordered[i-1]
		sameGroup := cur.UserID == prev.UserID && cur.StartDate.Equal(prev.StartDate.Time)
		continues := sameGroup && cur.Type == models.TypeTrip && prev.Type == models.TypeTrip
		if !continues {
			runID++
			trips = append(trips, mergeRun(ordered[start:i], runID))
			start = i
		}
	}
	if start < len(ordered) {
		runID++
		trips = append(trips, mergeRun(ordered[start:], runID))
	}

	log.Printf("[LegMerge] %d fragments -> %d runs", len(frags), len(trips))
	return trips
}

// mergeRun aggregates one maximal run of fragments into a Trip. The run is
// never empty by construction.
func mergeRun(run []models.Fragment, runID int) models.Trip {
	first, last := &run[0], &run[len(run)-1]

	trip := models.Trip{
		UserID:    first.UserID,
		StartDate: first.StartDate,
		RunID:     runID,
		Type:      first.Type,

		StartTimestamp: first.StartTimestamp,
		EndTimestamp:   last.EndTimestamp,
		StartDT:        first.StartDT,
		EndDT:          last.EndDT,
		EndDate:        last.EndDate,
		DOW:            first.DOW,
		IsWeekend:      first.IsWeekend,
		ID:             first.ID,
	}

	bySubtype := make(map[string]*subtypeAgg)

	subtypes := make([]string, 0, len(run))
	durations := make([]string, 0, len(run))
	distances := make([]string, 0, len(run))

	for i := range run {
		f := &run[i]
		trip.DistanceM += f.DistanceM
		trip.DurationHours += f.DurationHours
		if f.SurveyNotNull {
			trip.SurveyNotNull = true
		}

		agg, ok := bySubtype[f.Subtype]
		if !ok {
			agg = &subtypeAgg{subtype: f.Subtype, firstStart: f.StartDT.Time, firstIndex: i}
			bySubtype[f.Subtype] = agg
		}
		agg.distance += f.DistanceM

		subtypes = append(subtypes, segmentSubtype(f.Subtype))
		durations = append(durations, strconv.Itoa(int(math.Ceil(f.DurationHours*60))))
		distances = append(distances, strconv.Itoa(int(math.Ceil(f.DistanceM))))
	}

	trip.Subtype = dominantSubtype(bySubtype)
	trip.SegmentSubtypes = strings.Join(subtypes, "_")
	trip.SegmentDurationMin = strings.Join(durations, "_")
	trip.SegmentDistanceM = strings.Join(distances, "_")
	return trip
}

type subtypeAgg struct {
	subtype    string
	distance   float64
	firstStart time.Time
	firstIndex int
}

// dominantSubtype picks the subtype with the largest distance contribution;
// ties go to the earliest first leg, then the earliest run position.
func dominantSubtype(bySubtype map[string]*subtypeAgg) string {
	var best *subtypeAgg
	for _, agg := range bySubtype {
		if best == nil || betterSubtype(agg, best) {
			best = agg
		}
	}
	return best.subtype
}

func betterSubtype(a, b *subtypeAgg) bool {
	if a.distance != b.distance {
		return a.distance > b.distance
	}
	if !a.firstStart.Equal(b.firstStart) {
		return a.firstStart.Before(b.firstStart)
	}
	return a.firstIndex < b.firstIndex
}

// segmentSubtype writes the per-leg audit subtype; all-blank subtypes
// collapse to the empty string.
func segmentSubtype(subtype string) string {
	if strings.TrimSpace(subtype) == "" {
		return ""
	}
	return subtype
}
