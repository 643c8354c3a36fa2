package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bandgo/server/internal/persist"
)

func newSlotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Inspect and manage save slots",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(ctx context.Context, db *persist.DB) error {
				slots, err := persist.NewSlotRepo(db).List(ctx)
				if err != nil {
					return err
				}
				if len(slots) == 0 {
					fmt.Println("no save slots yet")
					return nil
				}
				for _, s := range slots {
					fmt.Printf("slot %d  %-12s week %d/%d  %d PP  streak %d  hints %d\n",
						s.Slot, s.Name, s.LastPlayedWeek, s.WeekUnlocked,
						s.PridePoints, s.Streak, s.HintsUsed)
				}
				return nil
			})
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "delete <slot>",
			Short: "Delete a save slot and its autosaved code",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("bad slot number %q", args[0])
				}
				return withDB(func(ctx context.Context, db *persist.DB) error {
					return persist.NewSlotRepo(db).Delete(ctx, n)
				})
			},
		},
		&cobra.Command{
			Use:   "log <slot>",
			Short: "Show a slot's recent rehearsal runs",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("bad slot number %q", args[0])
				}
				return withDB(func(ctx context.Context, db *persist.DB) error {
					runs, err := persist.NewRunLogRepo(db).Recent(ctx, n, 20)
					if err != nil {
						return err
					}
					for _, run := range runs {
						verdict := "ok"
						if !run.OK {
							verdict = run.ErrorKind
						}
						fmt.Printf("%s  %-10s %-10s score %-4d digest %s\n",
							run.CreatedAt.Format("2006-01-02 15:04"),
							run.LevelKey, verdict, run.Score, run.TimelineDigest)
					}
					return nil
				})
			},
		},
	)
	return cmd
}

// withDB opens the save file, runs fn, and closes it.
func withDB(fn func(context.Context, *persist.DB) error) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	db, err := persist.Open(app.cfg.Paths.Database, app.log)
	if err != nil {
		return fmt.Errorf("open save file: %w", err)
	}
	defer db.Close()

	return fn(context.Background(), db)
}
