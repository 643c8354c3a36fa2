// Package persist stores save slots, per-level rehearsal code, and the
// rehearsal run log in a local SQLite database.
package persist

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // pure Go driver, no CGO
)

// DB wraps the sqlite handle.
type DB struct {
	SQL *sql.DB
	log *zap.Logger
}

// Open creates or opens the database at path, creating parent
// directories and applying pending migrations.
func Open(path string, log *zap.Logger) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create save dir %s: %w", dir, err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db %s: %w", path, err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	// One writer at a time; the whole game is single-session anyway.
	sqlDB.SetMaxOpenConns(1)

	db := &DB{SQL: sqlDB, log: log}
	if err := runMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return db, nil
}

func (db *DB) Close() error {
	return db.SQL.Close()
}
