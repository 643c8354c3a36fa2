package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bandgo/server/internal/data"
	"github.com/bandgo/server/internal/rehearsal"
	"github.com/bandgo/server/internal/scripting"
)

func newRunCmd() *cobra.Command {
	var week int

	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Run a drill script once and judge the objective",
		Long: `Run executes a script file against a level's starting layout,
builds the full playback timeline, and reports the final formation and
objective verdict. Nothing is saved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read script: %w", err)
			}

			var level *data.Level
			if week > 0 {
				level = app.levels.ByWeek(week)
				if level == nil {
					return fmt.Errorf("no level for week %d", week)
				}
			}

			sb := scripting.New(app.cfg.Sandbox.StepLimit, app.log)
			sb.Print = func(msg string) { fmt.Println(msg) }
			sess := rehearsal.NewSession(level, sb, app.rules, app.cfg.Sandbox.MaxCounts, app.log)

			res := sess.Run(string(src))
			if !res.OK {
				if res.Line > 0 {
					return fmt.Errorf("%s at line %d: %s", res.Kind, res.Line, res.Message)
				}
				return fmt.Errorf("%s: %s", res.Kind, res.Message)
			}

			tl := sess.Timeline()
			sess.Seek(len(tl) - 1)

			fmt.Printf("counts:  %d\n", len(tl)-1)
			fmt.Printf("digest:  %s\n", strconv.FormatUint(tl.Digest(), 16))
			fmt.Println("final formation:")
			printFormation(sess)

			if level != nil {
				fmt.Printf("objective: %s\n", sess.ObjectiveText())
				if sess.ObjectiveMet() {
					fmt.Println("verdict: PASS")
				} else {
					fmt.Println("verdict: FAIL")
					os.Exit(2)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&week, "week", "w", 0, "judge against this campaign week (0 = free rehearsal)")
	return cmd
}

func printFormation(sess *rehearsal.Session) {
	b := sess.Band()
	names := b.Names()
	sort.Strings(names)
	for _, name := range names {
		e := b.Entity(name)
		fmt.Printf("  %-8s %-6s (%d,%d)\n", name, e.Section, e.X, e.Y)
	}
}
