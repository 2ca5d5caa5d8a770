package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/presence.report/internal/csi/pipeline"
)

// ErrRunNotFound is returned by RunResults for an unknown run id.
var ErrRunNotFound = errors.New("run not found")

// Run is one archived analysis invocation.
type Run struct {
	ID        string
	CreatedAt time.Time
	Baseline  string
	// ConfigJSON is the effective pipeline configuration, stored verbatim.
	ConfigJSON string
	Results    []Result
}

// Result is one dataset's row within a Run.
type Result struct {
	Dataset          string  `json:"dataset"`
	Path             string  `json:"path"`
	Frames           int     `json:"frames"`
	Subcarriers      int     `json:"subcarriers"`
	RejectedLines    int     `json:"rejected_lines"`
	MeanEnergy       float64 `json:"mean_energy"`
	TemporalVariance float64 `json:"temporal_variance"`
	MotionVariance   float64 `json:"motion_variance"`
	ZEnergy          float64 `json:"z_energy"`
	ZMotion          float64 `json:"z_motion"`
	Label            string  `json:"label"`
	Confidence       string  `json:"confidence"`
	Baseline         bool    `json:"baseline"`
}

// RunSummary is a Run without its results.
type RunSummary struct {
	ID        string
	CreatedAt time.Time
	Baseline  string
	Datasets  int
}

// NewRun builds a Run from evaluations. ID and CreatedAt are filled in by
// RecordRun.
func NewRun(baseline, configJSON string, evals []pipeline.Evaluation) *Run {
	run := &Run{Baseline: baseline, ConfigJSON: configJSON, Results: make([]Result, len(evals))}
	for i, e := range evals {
		frames, subcarriers := e.Raw.Dims()
		run.Results[i] = Result{
			Dataset:          e.Dataset.Name,
			Path:             e.Dataset.Path,
			Frames:           frames,
			Subcarriers:      subcarriers,
			RejectedLines:    e.Stats.Rejected,
			MeanEnergy:       e.Features.MeanEnergy,
			TemporalVariance: e.Features.TemporalVariance,
			MotionVariance:   e.Features.MotionVariance,
			ZEnergy:          e.Result.ZEnergy,
			ZMotion:          e.Result.ZMotion,
			Label:            string(e.Result.Label),
			Confidence:       string(e.Result.Confidence),
			Baseline:         e.Baseline,
		}
	}
	return run
}

// RecordRun stores run and its results in one transaction and returns the
// run id. A missing ID is generated and a zero CreatedAt is set to now.
func (db *DB) RecordRun(run *Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = db.clock().Now().UTC()
	}
	if run.ConfigJSON == "" {
		run.ConfigJSON = "{}"
	}

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO runs (run_id, created_at_ns, baseline, config_json) VALUES (?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UnixNano(), run.Baseline, run.ConfigJSON,
	); err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO run_results (
			run_id, position, dataset, path, frames, subcarriers, rejected_lines,
			mean_energy, temporal_variance, motion_variance, z_energy, z_motion,
			label, confidence, is_baseline
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare result insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range run.Results {
		if _, err := stmt.Exec(
			run.ID, i, r.Dataset, r.Path, r.Frames, r.Subcarriers, r.RejectedLines,
			r.MeanEnergy, r.TemporalVariance, r.MotionVariance, r.ZEnergy, r.ZMotion,
			r.Label, r.Confidence, r.Baseline,
		); err != nil {
			return "", fmt.Errorf("failed to insert result %q: %w", r.Dataset, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return run.ID, nil
}

// ListRuns returns up to limit runs, newest first. limit <= 0 returns all.
func (db *DB) ListRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.Query(`
		SELECT r.run_id, r.created_at_ns, r.baseline, COUNT(rr.position)
		FROM runs r
		LEFT JOIN run_results rr ON rr.run_id = r.run_id
		GROUP BY r.run_id
		ORDER BY r.created_at_ns DESC, r.run_id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		var createdNs int64
		if err := rows.Scan(&s.ID, &createdNs, &s.Baseline, &s.Datasets); err != nil {
			return nil, err
		}
		s.CreatedAt = time.Unix(0, createdNs).UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}

// RunResults returns the results of one run in their original order.
func (db *DB) RunResults(runID string) ([]Result, error) {
	var exists int
	err := db.QueryRow(`SELECT 1 FROM runs WHERE run_id = ?`, runID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	rows, err := db.Query(`
		SELECT dataset, path, frames, subcarriers, rejected_lines,
		       mean_energy, temporal_variance, motion_variance, z_energy, z_motion,
		       label, confidence, is_baseline
		FROM run_results
		WHERE run_id = ?
		ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(
			&r.Dataset, &r.Path, &r.Frames, &r.Subcarriers, &r.RejectedLines,
			&r.MeanEnergy, &r.TemporalVariance, &r.MotionVariance, &r.ZEnergy, &r.ZMotion,
			&r.Label, &r.Confidence, &r.Baseline,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
