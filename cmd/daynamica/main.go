package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/umn-mobility/daynamica-go/internal/config"
	"github.com/umn-mobility/daynamica-go/internal/export"
	"github.com/umn-mobility/daynamica-go/internal/ingest"
	"github.com/umn-mobility/daynamica-go/internal/models"
	"github.com/umn-mobility/daynamica-go/internal/pipeline"
	"github.com/umn-mobility/daynamica-go/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default: ./config.yaml or DAYNAMICA_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	if err := run(cfg); err != nil {
		log.Fatal("Pipeline failed: ", err)
	}
}

func run(cfg *config.Config) error {
	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	tables, err := ingest.ReadDir(cfg.InputDir)
	if err != nil {
		// A missing input directory behaves as an empty study; anything
		// else is fatal.
		var pathErr *models.PathError
		if !errors.As(err, &pathErr) {
			return err
		}
	}

	answered := pipeline.SurveyAnswered(tables.ItemSurvey)
	frags, err := p.Split(tables.CalendarItems, answered)
	if err != nil {
		return err
	}
	days := p.SummarizeDays(frags)

	validTable, err := p.CountValidDays(days, cfg.Validity.NumeratorColumn, p.DenominatorPredicate())
	if err != nil {
		return err
	}
	subtypeConfirmed, err := p.CountValidDays(days, models.StatWithSubtype, p.Predicate("confirmed"))
	if err != nil {
		return err
	}
	surveyAnswered, err := p.CountValidDays(days, models.StatWithSurvey, p.Predicate("confirmed_with_subtype"))
	if err != nil {
		return err
	}

	valid := p.FilterValidDays(tables, frags, days, p.DenominatorPredicate())
	trips := pipeline.MergeLegs(valid.Presentation)
	hulls, sdes := p.ActivitySpaces(valid)

	overview := p.OverviewStatistics(valid, trips, hulls, sdes, false)
	overviewByWeekend := p.OverviewStatistics(valid, trips, hulls, sdes, true)

	activityEpisodes := pipeline.EpisodesFromFragments(valid.Presentation, models.TypeActivity)
	segmentEpisodes := pipeline.EpisodesFromFragments(valid.Presentation, models.TypeTrip)
	completeEpisodes := pipeline.EpisodesFromTrips(trips, models.TypeTrip)

	activitySubtype := p.SubtypeRates(activityEpisodes, valid.DaySummaries, models.TypeActivity, -1)
	tripSegmentSubtype := p.SubtypeRates(segmentEpisodes, valid.DaySummaries, models.TypeTrip, -1)
	tripCompleteSubtype := p.SubtypeRates(completeEpisodes, valid.DaySummaries, models.TypeTrip, -1)
	composition := p.ActivityComposition(valid.Presentation, valid.DaySummaries)

	if err := writeOutputs(cfg, p, frags, days, valid, trips, hulls, sdes, outputTables{
		validTable:          validTable,
		subtypeConfirmed:    subtypeConfirmed,
		surveyAnswered:      surveyAnswered,
		overview:            overview,
		overviewByWeekend:   overviewByWeekend,
		activitySubtype:     activitySubtype,
		tripSegmentSubtype:  tripSegmentSubtype,
		tripCompleteSubtype: tripCompleteSubtype,
		composition:         composition,
	}); err != nil {
		return err
	}

	return saveRun(cfg, frags, days, trips, hulls, sdes)
}

type outputTables struct {
	validTable          *models.ValidityTable
	subtypeConfirmed    *models.ValidityTable
	surveyAnswered      *models.ValidityTable
	overview            []pipeline.OverviewRow
	overviewByWeekend   []pipeline.OverviewRow
	activitySubtype     *pipeline.SubtypeTable
	tripSegmentSubtype  *pipeline.SubtypeTable
	tripCompleteSubtype *pipeline.SubtypeTable
	composition         *pipeline.SubtypeTable
}

func writeOutputs(cfg *config.Config, p *pipeline.Pipeline,
	frags []models.Fragment, days []models.DaySummary, valid *pipeline.ValidSet,
	trips []models.Trip, hulls []models.ConvexHullRow, sdes []models.SDERow,
	t outputTables) error {

	out := func(name string) string { return filepath.Join(cfg.OutputDir, name) }

	if err := export.WriteTable(out("ucalitems_split.csv"), &frags); err != nil {
		return err
	}
	if err := export.WriteTable(out("day_summary.csv"), &days); err != nil {
		return err
	}
	if err := export.WriteTable(out("leg2trip.csv"), &trips); err != nil {
		return err
	}
	if err := export.WriteTable(out("convex_hull.csv"), &hulls); err != nil {
		return err
	}
	if err := export.WriteTable(out("sde.csv"), &sdes); err != nil {
		return err
	}
	if err := export.WriteValidityTable(out("valid_days.csv"), t.validTable); err != nil {
		return err
	}
	if err := export.WriteOverview(out("overview_statistics.csv"), t.overview, false); err != nil {
		return err
	}
	if err := export.WriteOverview(out("overview_statistics_by_weekend.csv"), t.overviewByWeekend, true); err != nil {
		return err
	}
	if err := export.WriteSubtypeTable(out("activity_subtype.csv"), t.activitySubtype); err != nil {
		return err
	}
	if err := export.WriteSubtypeTable(out("trip_segment_subtype.csv"), t.tripSegmentSubtype); err != nil {
		return err
	}
	if err := export.WriteSubtypeTable(out("trip_complete_subtype.csv"), t.tripCompleteSubtype); err != nil {
		return err
	}

	activityEpisodes := pipeline.EpisodesFromFragments(valid.Presentation, models.TypeActivity)
	segmentEpisodes := pipeline.EpisodesFromFragments(valid.Presentation, models.TypeTrip)
	completeEpisodes := pipeline.EpisodesFromTrips(trips, models.TypeTrip)
	if err := export.WritePersonDaySubtype(out("person_day_activity.csv"),
		p.PersonDaySubtype(activityEpisodes, models.TypeActivity)); err != nil {
		return err
	}
	if err := export.WritePersonDaySubtype(out("person_day_trip_segment.csv"),
		p.PersonDaySubtype(segmentEpisodes, models.TypeTrip)); err != nil {
		return err
	}
	if err := export.WritePersonDaySubtype(out("person_day_trip_complete.csv"),
		p.PersonDaySubtype(completeEpisodes, models.TypeTrip)); err != nil {
		return err
	}

	if err := export.WriteWorkbook(out("tables.xlsx"), &export.Workbook{
		SubtypeConfirmed: t.subtypeConfirmed,
		SurveyAnswered:   t.surveyAnswered,
		DailySummary:     t.overview,
		Activity:         t.activitySubtype,
		TripSegment:      t.tripSegmentSubtype,
		TripComplete:     t.tripCompleteSubtype,
	}); err != nil {
		return err
	}

	return writeCharts(cfg, valid, t)
}

func writeCharts(cfg *config.Config, valid *pipeline.ValidSet, t outputTables) error {
	chartDir := filepath.Join(cfg.OutputDir, "charts")
	st := cfg.Subtypes

	charts := []struct {
		name   string
		table  *pipeline.SubtypeTable
		column string
		order  []string
		colors map[string]string
	}{
		{"activity_duration.html", t.composition, "Activity Duration in Hours", st.ActivityOrder, st.ActivityColors},
		{"trip_segment_counts.html", t.tripSegmentSubtype, "Trip Counts", st.TripOrder, st.TripColors},
		{"trip_segment_duration.html", t.tripSegmentSubtype, "Trip Duration in Minutes", st.TripOrder, st.TripColors},
		{"trip_segment_distance.html", t.tripSegmentSubtype, "Trip Distance in Miles", st.TripOrder, st.TripColors},
		{"trip_complete_counts.html", t.tripCompleteSubtype, "Trip Counts", st.TripOrder, st.TripColors},
		{"trip_complete_duration.html", t.tripCompleteSubtype, "Trip Duration in Minutes", st.TripOrder, st.TripColors},
		{"trip_complete_distance.html", t.tripCompleteSubtype, "Trip Distance in Miles", st.TripOrder, st.TripColors},
	}
	for _, c := range charts {
		title := strings.TrimSuffix(c.name, ".html")
		if err := export.WriteSubtypeChart(filepath.Join(chartDir, c.name), title, c.table, c.column, c.order, c.colors); err != nil {
			return fmt.Errorf("chart %s: %w", title, err)
		}
	}

	for _, userID := range cfg.SelectedUsers {
		entries := pipeline.PersonTimeline(valid.Presentation, userID)
		name := fmt.Sprintf("timeline_%s.html", userID)
		if err := export.WritePersonTimeline(filepath.Join(chartDir, name), userID, entries, st.ActivityOrder, st.ActivityColors); err != nil {
			return err
		}
	}
	return nil
}

func saveRun(cfg *config.Config, frags []models.Fragment, days []models.DaySummary,
	trips []models.Trip, hulls []models.ConvexHullRow, sdes []models.SDERow) error {

	db, err := store.Open(cfg.SQLitePath)
	if err != nil {
		return err
	}
	defer db.Close()

	s := store.New(db)
	if err := s.InitSchema(); err != nil {
		return err
	}

	run := store.NewRun(cfg.Timezone, cfg.InputDir)
	run.Fragments = frags
	run.DaySummaries = days
	run.Trips = trips
	run.Hulls = hulls
	run.SDEs = sdes
	return s.SaveRun(run)
}
