package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLevelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "List the campaign levels",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			for _, lv := range app.levels.All() {
				fmt.Printf("week %-3d %-28s %-16s %d marchers\n",
					lv.Week, lv.Title, lv.Objective.Kind, len(lv.Start))
			}
			return nil
		},
	}
}
