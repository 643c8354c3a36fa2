package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RehearsalRun is one row of the rehearsal log: the outcome of a single
// script run, fingerprinted by its timeline digest so identical drills
// can be spotted across runs.
type RehearsalRun struct {
	RunID          string
	Slot           int
	LevelKey       string
	OK             bool
	ErrorKind      string
	Steps          int64
	Score          int
	TimelineDigest string
	CreatedAt      time.Time
}

type RunLogRepo struct {
	db *DB
}

func NewRunLogRepo(db *DB) *RunLogRepo {
	return &RunLogRepo{db: db}
}

// Append records a run. A zero RunID is filled with a fresh UUID, which
// is also returned.
func (r *RunLogRepo) Append(ctx context.Context, run *RehearsalRun) (string, error) {
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	_, err := r.db.SQL.ExecContext(ctx,
		`INSERT INTO rehearsal_log (run_id, slot, level_key, ok, error_kind, steps, score, timeline_digest)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Slot, run.LevelKey, run.OK, run.ErrorKind, run.Steps, run.Score, run.TimelineDigest,
	)
	if err != nil {
		return "", fmt.Errorf("append run log: %w", err)
	}
	return run.RunID, nil
}

// Recent returns the latest runs for a slot, newest first.
func (r *RunLogRepo) Recent(ctx context.Context, slot, limit int) ([]RehearsalRun, error) {
	rows, err := r.db.SQL.QueryContext(ctx,
		`SELECT run_id, slot, level_key, ok, error_kind, steps, score, timeline_digest, created_at
		 FROM rehearsal_log WHERE slot = ?
		 ORDER BY created_at DESC, run_id LIMIT ?`, slot, limit)
	if err != nil {
		return nil, fmt.Errorf("recent runs: %w", err)
	}
	defer rows.Close()

	var out []RehearsalRun
	for rows.Next() {
		var run RehearsalRun
		if err := rows.Scan(&run.RunID, &run.Slot, &run.LevelKey, &run.OK, &run.ErrorKind,
			&run.Steps, &run.Score, &run.TimelineDigest, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
