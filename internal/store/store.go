package store

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/umn-mobility/daynamica-go/internal/models"
)

// Store writes the derived tables of one pipeline run.
type Store struct {
	db *sql.DB
}

// New creates a store over an open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS pipeline_runs (
	run_id TEXT PRIMARY KEY,
	created_at TIMESTAMP NOT NULL,
	timezone TEXT NOT NULL,
	input_dir TEXT NOT NULL,
	fragment_count INTEGER NOT NULL,
	day_count INTEGER NOT NULL,
	trip_count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS fragments (
	run_id TEXT NOT NULL REFERENCES pipeline_runs(run_id),
	user_id TEXT NOT NULL,
	cal_item_id TEXT NOT NULL,
	id INTEGER NOT NULL,
	type_decoded TEXT NOT NULL,
	subtype_decoded TEXT NOT NULL,
	start_timestamp INTEGER NOT NULL,
	end_timestamp INTEGER NOT NULL,
	start_dt TEXT NOT NULL,
	end_dt TEXT NOT NULL,
	start_date TEXT NOT NULL,
	end_date TEXT NOT NULL,
	duration_after_split REAL NOT NULL,
	distance_after_split REAL NOT NULL,
	dow TEXT NOT NULL,
	is_weekend TEXT NOT NULL,
	survey_not_null INTEGER NOT NULL,
	interact_with_app INTEGER NOT NULL,
	interact_by_confirm INTEGER NOT NULL,
	interact_by_edit INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_fragments_person_day ON fragments(run_id, user_id, start_date);
CREATE TABLE IF NOT EXISTS day_summaries (
	run_id TEXT NOT NULL REFERENCES pipeline_runs(run_id),
	user_id TEXT NOT NULL,
	start_date TEXT NOT NULL,
	dow TEXT NOT NULL,
	is_weekend TEXT NOT NULL,
	total REAL NOT NULL,
	no_off REAL NOT NULL,
	interact_with_app REAL NOT NULL,
	interact_by_confirm REAL NOT NULL,
	interact_by_edit REAL NOT NULL,
	with_subtype REAL NOT NULL,
	with_survey REAL NOT NULL,
	trip_count REAL NOT NULL,
	trip_duration REAL NOT NULL,
	activity_count REAL NOT NULL,
	activity_duration REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_day_summaries_person ON day_summaries(run_id, user_id);
CREATE TABLE IF NOT EXISTS trips (
	run_id TEXT NOT NULL REFERENCES pipeline_runs(run_id),
	user_id TEXT NOT NULL,
	start_date TEXT NOT NULL,
	leg2tripid INTEGER NOT NULL,
	type_decoded TEXT NOT NULL,
	subtype_decoded TEXT NOT NULL,
	distance_after_split REAL NOT NULL,
	duration_after_split REAL NOT NULL,
	start_timestamp INTEGER NOT NULL,
	end_timestamp INTEGER NOT NULL,
	segment_subtype TEXT NOT NULL,
	segment_duration_minute TEXT NOT NULL,
	segment_distance_meter TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS activity_spaces (
	run_id TEXT NOT NULL REFERENCES pipeline_runs(run_id),
	user_id TEXT NOT NULL,
	start_date TEXT NOT NULL,
	geometry_type TEXT NOT NULL,
	len_meter REAL NOT NULL,
	hull_area_mile REAL NOT NULL,
	sx_meter REAL NOT NULL,
	sy_meter REAL NOT NULL,
	theta REAL NOT NULL,
	ellipse_area_mile REAL NOT NULL
);
`

// InitSchema creates the derived tables if they do not exist.
func (s *Store) InitSchema() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Run bundles everything one pipeline invocation derived.
type Run struct {
	ID        string
	CreatedAt time.Time
	Timezone  string
	InputDir  string

	Fragments    []models.Fragment
	DaySummaries []models.DaySummary
	Trips        []models.Trip
	Hulls        []models.ConvexHullRow
	SDEs         []models.SDERow
}

// NewRun assigns a fresh run id and stamps the creation time.
func NewRun(timezone, inputDir string) *Run {
	return &Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Timezone:  timezone,
		InputDir:  inputDir,
	}
}

// SaveRun persists the run manifest and every derived table in a single
// transaction.
func (s *Store) SaveRun(run *Run) error {
	err := Transaction(s.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO pipeline_runs (run_id, created_at, timezone, input_dir, fragment_count, day_count, trip_count)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, run.CreatedAt, run.Timezone, run.InputDir,
			len(run.Fragments), len(run.DaySummaries), len(run.Trips),
		)
		if err != nil {
			return fmt.Errorf("failed to insert run manifest: %w", err)
		}
		if err := insertFragments(tx, run.ID, run.Fragments); err != nil {
			return err
		}
		if err := insertDaySummaries(tx, run.ID, run.DaySummaries); err != nil {
			return err
		}
		if err := insertTrips(tx, run.ID, run.Trips); err != nil {
			return err
		}
		return insertActivitySpaces(tx, run.ID, run.Hulls, run.SDEs)
	})
	if err != nil {
		return err
	}
	log.Printf("[Store] run %s: %d fragments, %d days, %d trips saved",
		run.ID, len(run.Fragments), len(run.DaySummaries), len(run.Trips))
	return nil
}

func insertFragments(tx *sql.Tx, runID string, frags []models.Fragment) error {
	stmt, err := tx.Prepare(
		`INSERT INTO fragments (run_id, user_id, cal_item_id, id, type_decoded, subtype_decoded,
			start_timestamp, end_timestamp, start_dt, end_dt, start_date, end_date,
			duration_after_split, distance_after_split, dow, is_weekend,
			survey_not_null, interact_with_app, interact_by_confirm, interact_by_edit)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare fragment insert: %w", err)
	}
	defer stmt.Close()

	for i := range frags {
		f := &frags[i]
		_, err := stmt.Exec(
			runID, f.UserID, f.CalItemID, f.ID, f.Type, f.Subtype,
			f.StartTimestamp, f.EndTimestamp, f.StartDT.String(), f.EndDT.String(),
			f.StartDate.String(), f.EndDate.String(),
			f.DurationHours, f.DistanceM, f.DOW, f.IsWeekend,
			f.SurveyNotNull, f.InteractWithApp, f.InteractByConfirm, f.InteractByEdit,
		)
		if err != nil {
			return fmt.Errorf("failed to insert fragment: %w", err)
		}
	}
	return nil
}

func insertDaySummaries(tx *sql.Tx, runID string, days []models.DaySummary) error {
	stmt, err := tx.Prepare(
		`INSERT INTO day_summaries (run_id, user_id, start_date, dow, is_weekend,
			total, no_off, interact_with_app, interact_by_confirm, interact_by_edit,
			with_subtype, with_survey, trip_count, trip_duration, activity_count, activity_duration)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare day summary insert: %w", err)
	}
	defer stmt.Close()

	for i := range days {
		d := &days[i]
		_, err := stmt.Exec(
			runID, d.UserID, d.StartDate.String(), d.DOW, d.IsWeekend,
			d.Total, d.NoOff, d.InteractWithApp, d.InteractByConfirm, d.InteractByEdit,
			d.WithSubtype, d.WithSurvey, d.TripCount, d.TripDuration, d.ActivityCount, d.ActivityDuration,
		)
		if err != nil {
			return fmt.Errorf("failed to insert day summary: %w", err)
		}
	}
	return nil
}

func insertTrips(tx *sql.Tx, runID string, trips []models.Trip) error {
	stmt, err := tx.Prepare(
		`INSERT INTO trips (run_id, user_id, start_date, leg2tripid, type_decoded, subtype_decoded,
			distance_after_split, duration_after_split, start_timestamp, end_timestamp,
			segment_subtype, segment_duration_minute, segment_distance_meter)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare trip insert: %w", err)
	}
	defer stmt.Close()

	for i := range trips {
		t := &trips[i]
		_, err := stmt.Exec(
			runID, t.UserID, t.StartDate.String(), t.RunID, t.Type, t.Subtype,
			t.DistanceM, t.DurationHours, t.StartTimestamp, t.EndTimestamp,
			t.SegmentSubtypes, t.SegmentDurationMin, t.SegmentDistanceM,
		)
		if err != nil {
			return fmt.Errorf("failed to insert trip: %w", err)
		}
	}
	return nil
}

// insertActivitySpaces joins the hull and ellipse rows on person-day; the
// two slices are produced together and always align.
func insertActivitySpaces(tx *sql.Tx, runID string, hulls []models.ConvexHullRow, sdes []models.SDERow) error {
	stmt, err := tx.Prepare(
		`INSERT INTO activity_spaces (run_id, user_id, start_date, geometry_type, len_meter,
			hull_area_mile, sx_meter, sy_meter, theta, ellipse_area_mile)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare activity space insert: %w", err)
	}
	defer stmt.Close()

	type dayKey struct {
		user string
		date string
	}
	sdeOf := make(map[dayKey]*models.SDERow, len(sdes))
	for i := range sdes {
		sdeOf[dayKey{sdes[i].UserID, sdes[i].StartDate.String()}] = &sdes[i]
	}

	for i := range hulls {
		h := &hulls[i]
		var sde models.SDERow
		if m, ok := sdeOf[dayKey{h.UserID, h.StartDate.String()}]; ok {
			sde = *m
		}
		_, err := stmt.Exec(
			runID, h.UserID, h.StartDate.String(), h.GeometryType, h.LengthMeter,
			h.AreaMile, sde.SxMeter, sde.SyMeter, sde.Theta, sde.AreaMile,
		)
		if err != nil {
			return fmt.Errorf("failed to insert activity space: %w", err)
		}
	}
	return nil
}
