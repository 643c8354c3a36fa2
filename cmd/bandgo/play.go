package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bandgo/server/internal/data"
	"github.com/bandgo/server/internal/persist"
	"github.com/bandgo/server/internal/rehearsal"
	"github.com/bandgo/server/internal/scripting"
	"github.com/bandgo/server/internal/tui"
)

func newPlayCmd() *cobra.Command {
	var (
		week    int
		slotNum int
		sandbox bool
		noSave  bool
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a campaign week (or free rehearsal) in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			var store *tui.Store
			var starter string
			var level *data.Level

			if !noSave {
				db, err := persist.Open(app.cfg.Paths.Database, app.log)
				if err != nil {
					return fmt.Errorf("open save file: %w", err)
				}
				defer db.Close()

				ctx := context.Background()
				slots := persist.NewSlotRepo(db)
				slot, err := slots.Load(ctx, slotNum)
				if err != nil {
					return err
				}
				if slot == nil {
					slot = persist.NewSaveSlot(slotNum)
					if err := slots.Save(ctx, slot); err != nil {
						return err
					}
				}
				store = &tui.Store{
					Slot:  slot,
					Slots: slots,
					Codes: persist.NewCodeRepo(db),
					Runs:  persist.NewRunLogRepo(db),
				}

				if !sandbox {
					if week == 0 {
						week = slot.LastPlayedWeek
					}
					if week > slot.WeekUnlocked {
						return fmt.Errorf("week %d is locked (unlocked through week %d)", week, slot.WeekUnlocked)
					}
				}
			} else if !sandbox && week == 0 {
				week = 1
			}

			if !sandbox {
				level = app.levels.ByWeek(week)
				if level == nil {
					return fmt.Errorf("no level for week %d", week)
				}
				starter = level.StarterCode
				if store != nil {
					key := fmt.Sprintf("week_%d", week)
					if code, err := store.Codes.Load(context.Background(), slotNum, key); err == nil && code != "" {
						starter = code
					}
				}
			} else if store != nil {
				if code, err := store.Codes.Load(context.Background(), slotNum, "sandbox"); err == nil {
					starter = code
				}
			}

			sb := scripting.New(app.cfg.Sandbox.StepLimit, app.log)
			sess := rehearsal.NewSession(level, sb, app.rules, app.cfg.Sandbox.MaxCounts, app.log)
			model := tui.NewModel(sess, starter, app.cfg, store, app.log)

			_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		},
	}

	cmd.Flags().IntVarP(&week, "week", "w", 0, "campaign week to play (default: last played)")
	cmd.Flags().IntVar(&slotNum, "slot", 1, "save slot")
	cmd.Flags().BoolVar(&sandbox, "sandbox", false, "free rehearsal, no objective or scoring")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not touch the save file")
	return cmd
}
