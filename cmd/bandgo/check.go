package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bandgo/server/internal/band"
	"github.com/bandgo/server/internal/scripting"
)

func newCheckCmd() *cobra.Command {
	var (
		week   int
		counts int
	)

	cmd := &cobra.Command{
		Use:   "check <script>",
		Short: "Fast-forward a drill script without playback",
		Long: `Check runs a script and advances every queued action straight to its
end state, skipping intermediate counts. Useful for quick iteration and
for diffing two drills by digest.`,
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

			b := band.New()
			if week > 0 {
				level := app.levels.ByWeek(week)
				if level == nil {
					return fmt.Errorf("no level for week %d", week)
				}
				for _, e := range level.Start {
					b.Spawn(e.Name, e.Section, e.X, e.Y)
				}
			}

			sb := scripting.New(app.cfg.Sandbox.StepLimit, app.log)
			sb.Print = func(msg string) { fmt.Println(msg) }

			res := sb.Execute(string(src), scripting.Bindings{
				"band": scripting.NewBandValue(b),
			})
			if !res.OK {
				if res.Line > 0 {
					return fmt.Errorf("%s at line %d: %s", res.Kind, res.Line, res.Message)
				}
				return fmt.Errorf("%s: %s", res.Kind, res.Message)
			}

			if counts == 0 {
				counts = app.cfg.Sandbox.MaxCounts
			}
			queued := b.QueuedCounts()
			b.Simulate(counts)

			if queued > counts {
				fmt.Printf("counts:  %d (queued %d, truncated)\n", counts, queued)
			} else {
				fmt.Printf("counts:  %d\n", queued)
			}
			snap := b.Snapshot()
			fmt.Printf("digest:  %s\n", strconv.FormatUint(snap.Digest(), 16))

			names := b.Names()
			sort.Strings(names)
			for _, name := range names {
				e := b.Entity(name)
				fmt.Printf("  %-8s %-6s (%d,%d)\n", name, e.Section, e.X, e.Y)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&week, "week", "w", 0, "seed the field from this campaign week's layout")
	cmd.Flags().IntVar(&counts, "counts", 0, "count budget (default: sandbox max_counts)")
	return cmd
}
