package pipeline

import (
	"errors"
	"log"
	"sort"
	"strconv"
	"time"

	"github.com/umn-mobility/daynamica-go/internal/models"
)

// Local-midnight offsets for fragment boundaries. A fragment ending at a day
// boundary closes at 23:59:59.999 and the next one opens at 00:00:00.001 of
// the following day.
const (
	dayStartOffset = time.Millisecond
	dayEndOffset   = 24*time.Hour - time.Millisecond
)

// Timestamps outside this window cannot come from a live export and are
// treated as parse failures rather than data.
var (
	minRepresentable = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	maxRepresentable = time.Date(2200, 1, 1, 0, 0, 0, 0, time.UTC)
)

// Split converts raw calendar items into per-day fragments. Items whose end
// precedes their start are filtered, not errors. Each fragment is confined
// to one local calendar day with duration in hours and distance prorated by
// duration share; interaction and survey flags are attached from the parent
// item. Fragments of one item share a sequential item id assigned in
// (person, start time) order.
func (p *Pipeline) Split(items []models.CalendarItem, answered map[SurveyKey]bool) ([]models.Fragment, error) {
	type timed struct {
		item    models.CalendarItem
		startDT time.Time
		endDT   time.Time
	}

	kept := make([]timed, 0, len(items))
	dropped := 0
	for _, it := range items {
		start := p.cfg.EpochToTime(it.StartTimestamp).In(p.loc)
		end := p.cfg.EpochToTime(it.EndTimestamp).In(p.loc)
		if err := checkRepresentable(start, it.StartTimestamp); err != nil {
			return nil, err
		}
		if err := checkRepresentable(end, it.EndTimestamp); err != nil {
			return nil, err
		}
		if end.Before(start) {
			dropped++
			continue
		}
		kept = append(kept, timed{item: it, startDT: start, endDT: end})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].item.UserID != kept[j].item.UserID {
			return kept[i].item.UserID < kept[j].item.UserID
		}
		return kept[i].startDT.Before(kept[j].startDT)
	})

	var frags []models.Fragment
	var hoursBefore, hoursAfter, distBefore, distAfter float64
	for id, t := range kept {
		durBefore := t.endDT.Sub(t.startDT).Hours()
		hoursBefore += durBefore
		distBefore += t.item.Distance

		startDate := models.NewDate(t.startDT)
		endDate := models.NewDate(t.endDT)
		days := startDate.DaysUntil(endDate) + 1

		for d := 0; d < days; d++ {
			day := startDate.AddDays(d)
			fragStart := day.Add(dayStartOffset)
			if d == 0 {
				fragStart = t.startDT
			}
			fragEnd := day.Add(dayEndOffset)
			if d == days-1 {
				fragEnd = t.endDT
			}

			dur := fragEnd.Sub(fragStart).Hours()
			dist := 0.0
			if durBefore > 0 {
				dist = dur / durBefore * t.item.Distance
			}
			hoursAfter += dur
			distAfter += dist

			frags = append(frags, models.Fragment{
				UserID:           t.item.UserID,
				CalItemID:        t.item.CalItemID,
				StartTimestamp:   t.item.StartTimestamp,
				EndTimestamp:     t.item.EndTimestamp,
				Type:             t.item.Type,
				Subtype:          t.item.Subtype,
				ConfirmTimestamp: t.item.ConfirmTimestamp,
				EditTimestamp:    t.item.EditTimestamp,
				Centroid:         t.item.Centroid,
				DistanceBefore:   t.item.Distance,
				DurationBefore:   durBefore,

				ID: id,

				StartDT:       models.DateTime{Time: fragStart},
				EndDT:         models.DateTime{Time: fragEnd},
				StartDate:     day,
				EndDate:       models.NewDate(fragEnd),
				DurationHours: dur,
				DistanceM:     dist,
				DOW:           day.DayName(),
				IsWeekend:     models.WeekendLabel(day),

				SurveyNotNull: answered[SurveyKey{
					UserID:    t.item.UserID,
					CalItemID: t.item.CalItemID,
					StartTS:   t.item.StartTimestamp,
				}],
				InteractWithApp:   p.interacted(t.item.ConfirmTimestamp) || p.interacted(t.item.EditTimestamp),
				InteractByConfirm: p.interacted(t.item.ConfirmTimestamp),
				InteractByEdit:    p.interacted(t.item.EditTimestamp),
			})
		}
	}

	log.Printf("[Split] %d items in, %d dropped (end before start), %d fragments out",
		len(items), dropped, len(frags))
	log.Printf("[Split] hours %.2f -> %.2f, distance %.2f -> %.2f",
		hoursBefore, hoursAfter, distBefore, distAfter)
	if len(items) > 0 && len(frags) == 0 {
		log.Printf("[Split] warning: splitting produced zero fragments")
	}
	return frags, nil
}

func (p *Pipeline) interacted(ts int64) bool {
	return ts > p.cfg.MinInteractionTimestamp
}

func checkRepresentable(t time.Time, raw int64) error {
	if t.Before(minRepresentable) || t.After(maxRepresentable) {
		return &models.ValueError{
			Table: "ucalitems",
			Field: "timestamp",
			Value: strconv.FormatInt(raw, 10),
			Err:   errors.New("timestamp outside representable datetime range"),
		}
	}
	return nil
}
