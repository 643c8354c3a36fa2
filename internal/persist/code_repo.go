package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CodeRepo autosaves rehearsal code per slot and level key ("week_3",
// "sandbox").
type CodeRepo struct {
	db *DB
}

func NewCodeRepo(db *DB) *CodeRepo {
	return &CodeRepo{db: db}
}

// Load returns the autosaved code, or "" if none exists.
func (r *CodeRepo) Load(ctx context.Context, slot int, levelKey string) (string, error) {
	var code string
	err := r.db.SQL.QueryRowContext(ctx,
		`SELECT code FROM level_code WHERE slot = ? AND level_key = ?`, slot, levelKey,
	).Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load code %d/%s: %w", slot, levelKey, err)
	}
	return code, nil
}

// Save upserts the autosaved code.
func (r *CodeRepo) Save(ctx context.Context, slot int, levelKey, code string) error {
	_, err := r.db.SQL.ExecContext(ctx,
		`INSERT INTO level_code (slot, level_key, code, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(slot, level_key) DO UPDATE SET
		   code = excluded.code,
		   updated_at = CURRENT_TIMESTAMP`,
		slot, levelKey, code,
	)
	if err != nil {
		return fmt.Errorf("save code %d/%s: %w", slot, levelKey, err)
	}
	return nil
}
