package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/banshee-data/sightline/internal/vision/bench"
	"github.com/google/uuid"
)

// ErrRunNotFound is returned by Get for an unknown run ID.
var ErrRunNotFound = errors.New("benchmark run not found")

// RunStore provides persistence for benchmark runs and their samples.
type RunStore struct {
	db *sql.DB
}

// NewRunStore creates a new RunStore.
func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

// Insert persists a run row. If run.ID is empty, a UUID is generated.
// Samples are not written; see InsertSamples.
func (s *RunStore) Insert(run *bench.Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	summary, err := json.Marshal(run.Summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	sc := run.Scenario
	return retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO bench_runs (
				run_id, scenario, method, agents, targets, occluders,
				iterations, ticks, seed, started_at, finished_at, summary_json
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, sc.Name, string(run.Method), sc.Agents, sc.Targets, sc.Occluders,
			sc.Iterations, sc.Ticks, sc.Seed, run.StartedAt.UnixNano(), run.FinishedAt.UnixNano(), string(summary),
		)
		return err
	})
}

// InsertSamples writes samples for runID in one transaction.
func (s *RunStore) InsertSamples(runID string, samples []bench.Sample) error {
	return retryOnBusy(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		stmt, err := tx.Prepare(`
			INSERT INTO bench_samples (
				run_id, iteration, tick, elapsed_ns, passes, queries, anomalies, detections
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, sm := range samples {
			if _, err := stmt.Exec(runID, sm.Iteration, sm.Tick, int64(sm.Elapsed),
				sm.Passes, sm.Queries, sm.Anomalies, sm.Detections); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
}

const runColumns = `run_id, scenario, method, agents, targets, occluders,
	iterations, ticks, seed, started_at, finished_at, summary_json`

func scanRun(row interface{ Scan(...any) error }) (*bench.Run, error) {
	var (
		run               bench.Run
		method            string
		started, finished int64
		summary           sql.NullString
	)
	sc := &run.Scenario
	if err := row.Scan(&run.ID, &sc.Name, &method, &sc.Agents, &sc.Targets, &sc.Occluders,
		&sc.Iterations, &sc.Ticks, &sc.Seed, &started, &finished, &summary); err != nil {
		return nil, err
	}
	run.Method = bench.Method(method)
	run.StartedAt = time.Unix(0, started)
	run.FinishedAt = time.Unix(0, finished)
	if summary.Valid && summary.String != "" {
		if err := json.Unmarshal([]byte(summary.String), &run.Summary); err != nil {
			return nil, fmt.Errorf("failed to decode summary for run %s: %w", run.ID, err)
		}
	}
	return &run, nil
}

// Get returns the run with runID, without samples.
func (s *RunStore) Get(runID string) (*bench.Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM bench_runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return run, err
}

// ListByScenario returns all runs of a scenario, newest first.
func (s *RunStore) ListByScenario(scenario string) ([]*bench.Run, error) {
	rows, err := s.db.Query(`SELECT `+runColumns+` FROM bench_runs
		WHERE scenario = ? ORDER BY started_at DESC`, scenario)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*bench.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Samples returns the samples of runID ordered by iteration and tick.
func (s *RunStore) Samples(runID string) ([]bench.Sample, error) {
	rows, err := s.db.Query(`
		SELECT iteration, tick, elapsed_ns, passes, queries, anomalies, detections
		FROM bench_samples WHERE run_id = ? ORDER BY iteration, tick`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []bench.Sample
	for rows.Next() {
		var sm bench.Sample
		var elapsed int64
		if err := rows.Scan(&sm.Iteration, &sm.Tick, &elapsed, &sm.Passes, &sm.Queries, &sm.Anomalies, &sm.Detections); err != nil {
			return nil, err
		}
		sm.Elapsed = time.Duration(elapsed)
		out = append(out, sm)
	}
	return out, rows.Err()
}

// Delete removes a run and, by cascade, its samples.
func (s *RunStore) Delete(runID string) error {
	return retryOnBusy(func() error {
		_, err := s.db.Exec(`DELETE FROM bench_runs WHERE run_id = ?`, runID)
		return err
	})
}
