package model

import (
	"database/sql"
	"time"
)

// DigestRun is one row of the digest_runs table. Only aggregate counts are stored, never
// the trade records themselves.
type DigestRun struct {
	ID            string    `json:"id"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	Status        string    `json:"status"`
	RowsSeen      int       `json:"rows_seen"`
	RowsParsed    int       `json:"rows_parsed"`
	RowsSkipped   int       `json:"rows_skipped"`
	RecordsPassed int       `json:"records_passed"`
	ItemsRendered int       `json:"items_rendered"`
	Anomaly       string    `json:"anomaly,omitempty"`
	Error         string    `json:"error,omitempty"`
}

// Duration is the wall-clock time the run took.
func (r DigestRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// InsertRun stores a finished run. Timestamps are kept as Unix milliseconds.
func InsertRun(db *sql.DB, run DigestRun) error {
	query := `
		INSERT INTO digest_runs (id, started_at, finished_at, status, rows_seen, rows_parsed, rows_skipped,
			records_passed, items_rendered, anomaly, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.Exec(query,
		run.ID,
		run.StartedAt.UnixMilli(),
		run.FinishedAt.UnixMilli(),
		run.Status,
		run.RowsSeen,
		run.RowsParsed,
		run.RowsSkipped,
		run.RecordsPassed,
		run.ItemsRendered,
		run.Anomaly,
		run.Error,
	)
	return err
}

// ListRecentRuns returns up to limit runs, newest first.
func ListRecentRuns(db *sql.DB, limit int) ([]DigestRun, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, started_at, finished_at, status, rows_seen, rows_parsed, rows_skipped,
			records_passed, items_rendered, anomaly, error
		FROM digest_runs
		ORDER BY started_at DESC
		LIMIT ?`
	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []DigestRun{}
	for rows.Next() {
		var run DigestRun
		var startedMs, finishedMs int64
		if err := rows.Scan(
			&run.ID,
			&startedMs,
			&finishedMs,
			&run.Status,
			&run.RowsSeen,
			&run.RowsParsed,
			&run.RowsSkipped,
			&run.RecordsPassed,
			&run.ItemsRendered,
			&run.Anomaly,
			&run.Error,
		); err != nil {
			return nil, err
		}
		run.StartedAt = time.UnixMilli(startedMs).UTC()
		run.FinishedAt = time.UnixMilli(finishedMs).UTC()
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
