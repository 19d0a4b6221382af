package db

import (
	"fmt"
	"time"

	"github.com/tlegoff/municrawl/models"
)

// RunRecord is one row from the runs table.
type RunRecord struct {
	RunID     int64
	Selector  string
	Mode      string
	MaxPages  int
	StartedAt time.Time
	EndedAt   time.Time
	Attempted int
	Succeeded int
	Failed    int
	Status    string
}

// StartRun inserts a new run row and returns its ID.
func (db *DB) StartRun(selector string, mode models.CrawlMode, maxPages int, startedAt time.Time) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO runs (selector, mode, max_pages, started_at, status)
		VALUES (?, ?, ?, ?, 'running')
	`, selector, string(mode), maxPages, startedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}
	return runID, nil
}

// RecordSourceResult stores one source's counts for a run.
func (db *DB) RecordSourceResult(runID int64, source string, stats models.SourceStats) error {
	_, err := db.Exec(`
		INSERT INTO run_sources (run_id, source, attempted, succeeded, failed)
		VALUES (?, ?, ?, ?, ?)
	`, runID, source, stats.Attempted, stats.Succeeded, stats.Failed)
	if err != nil {
		return fmt.Errorf("failed to insert source result: %w", err)
	}
	return nil
}

// FinishRun finalizes a run row with totals and a terminal status.
func (db *DB) FinishRun(runID int64, status string, totals models.SourceStats, endedAt time.Time) error {
	_, err := db.Exec(`
		UPDATE runs
		SET ended_at = ?, attempted = ?, succeeded = ?, failed = ?, status = ?
		WHERE run_id = ?
	`, endedAt, totals.Attempted, totals.Succeeded, totals.Failed, status, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`
		SELECT run_id, selector, mode, max_pages, started_at,
		       COALESCE(ended_at, started_at), attempted, succeeded, failed, status
		FROM runs
		ORDER BY run_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.RunID, &r.Selector, &r.Mode, &r.MaxPages, &r.StartedAt,
			&r.EndedAt, &r.Attempted, &r.Succeeded, &r.Failed, &r.Status); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// SourceResults returns the per-source breakdown for one run.
func (db *DB) SourceResults(runID int64) (map[string]models.SourceStats, error) {
	rows, err := db.Query(`
		SELECT source, attempted, succeeded, failed
		FROM run_sources
		WHERE run_id = ?
		ORDER BY run_source_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query source results: %w", err)
	}
	defer rows.Close()

	results := make(map[string]models.SourceStats)
	for rows.Next() {
		var source string
		var stats models.SourceStats
		if err := rows.Scan(&source, &stats.Attempted, &stats.Succeeded, &stats.Failed); err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		results[source] = stats
	}
	return results, rows.Err()
}
