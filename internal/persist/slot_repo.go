package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SaveSlot mirrors one row of save_slots: campaign progress for one
// local profile.
type SaveSlot struct {
	Slot           int
	Name           string
	WeekUnlocked   int
	LastPlayedWeek int
	PridePoints    int
	Streak         int
	HintsUsed      int
}

// NewSaveSlot returns a fresh slot with starting progress.
func NewSaveSlot(slot int) *SaveSlot {
	return &SaveSlot{
		Slot:           slot,
		Name:           "DIRECTOR",
		WeekUnlocked:   1,
		LastPlayedWeek: 1,
	}
}

type SlotRepo struct {
	db *DB
}

func NewSlotRepo(db *DB) *SlotRepo {
	return &SlotRepo{db: db}
}

// Load returns the slot, or nil if it has never been saved.
func (r *SlotRepo) Load(ctx context.Context, slot int) (*SaveSlot, error) {
	s := &SaveSlot{}
	err := r.db.SQL.QueryRowContext(ctx,
		`SELECT slot, name, week_unlocked, last_played_week, pride_points, streak, hints_used
		 FROM save_slots WHERE slot = ?`, slot,
	).Scan(&s.Slot, &s.Name, &s.WeekUnlocked, &s.LastPlayedWeek, &s.PridePoints, &s.Streak, &s.HintsUsed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load slot %d: %w", slot, err)
	}
	return s, nil
}

// Save upserts the slot.
func (r *SlotRepo) Save(ctx context.Context, s *SaveSlot) error {
	_, err := r.db.SQL.ExecContext(ctx,
		`INSERT INTO save_slots (slot, name, week_unlocked, last_played_week, pride_points, streak, hints_used, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(slot) DO UPDATE SET
		   name = excluded.name,
		   week_unlocked = excluded.week_unlocked,
		   last_played_week = excluded.last_played_week,
		   pride_points = excluded.pride_points,
		   streak = excluded.streak,
		   hints_used = excluded.hints_used,
		   updated_at = CURRENT_TIMESTAMP`,
		s.Slot, s.Name, s.WeekUnlocked, s.LastPlayedWeek, s.PridePoints, s.Streak, s.HintsUsed,
	)
	if err != nil {
		return fmt.Errorf("save slot %d: %w", s.Slot, err)
	}
	return nil
}

// Delete removes the slot and, via cascade, its autosaved code.
func (r *SlotRepo) Delete(ctx context.Context, slot int) error {
	if _, err := r.db.SQL.ExecContext(ctx, `DELETE FROM save_slots WHERE slot = ?`, slot); err != nil {
		return fmt.Errorf("delete slot %d: %w", slot, err)
	}
	return nil
}

// List returns all existing slots ordered by slot number.
func (r *SlotRepo) List(ctx context.Context) ([]SaveSlot, error) {
	rows, err := r.db.SQL.QueryContext(ctx,
		`SELECT slot, name, week_unlocked, last_played_week, pride_points, streak, hints_used
		 FROM save_slots ORDER BY slot`)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var out []SaveSlot
	for rows.Next() {
		var s SaveSlot
		if err := rows.Scan(&s.Slot, &s.Name, &s.WeekUnlocked, &s.LastPlayedWeek, &s.PridePoints, &s.Streak, &s.HintsUsed); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
