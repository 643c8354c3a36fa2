package rehearsal

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bandgo/server/internal/config"
	"github.com/bandgo/server/internal/persist"
)

func scoringDefaults() config.ScoringConfig {
	return config.Default().Scoring
}

func TestComputeScore(t *testing.T) {
	cfg := scoringDefaults()

	cases := []struct {
		name     string
		code     string
		usedHint bool
		streak   int
		want     Score
	}{
		{
			name: "plain pass",
			code: "band.wait(8)\n",
			want: Score{Base: 100, Clean: 10, Total: 110},
		},
		{
			name: "loop bonus",
			code: "for i in range(3):\n    band.wait(1)\n",
			want: Score{Base: 100, Efficiency: 20, Clean: 10, Total: 130},
		},
		{
			name:     "hint penalty",
			code:     "band.wait(8)\n",
			usedHint: true,
			want:     Score{Base: 100, Clean: 10, HintPenalty: -10, Total: 100},
		},
		{
			name:   "streak bonus",
			code:   "band.wait(8)\n",
			streak: 3,
			want:   Score{Base: 100, Clean: 10, StreakBonus: 50, Total: 160},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ComputeScore(cfg, tc.code, tc.usedHint, tc.streak))
		})
	}
}

func TestRecordPassProgress(t *testing.T) {
	cfg := scoringDefaults()
	slot := persist.NewSaveSlot(1)

	sc := RecordPass(cfg, slot, 1, "band.wait(8)\n", false)
	require.Equal(t, 110, sc.Total)
	require.Equal(t, 1, slot.Streak)
	require.Equal(t, 110, slot.PridePoints)
	require.Equal(t, 2, slot.WeekUnlocked)
	require.Equal(t, 1, slot.LastPlayedWeek)

	// Replaying an already-cleared week does not unlock further.
	RecordPass(cfg, slot, 1, "band.wait(8)\n", false)
	require.Equal(t, 2, slot.WeekUnlocked)
}

func TestRecordPassHintCount(t *testing.T) {
	slot := persist.NewSaveSlot(1)
	RecordPass(scoringDefaults(), slot, 1, "x = 1\n", true)
	require.Equal(t, 1, slot.HintsUsed)
}

func TestRecordPassWeekCap(t *testing.T) {
	cfg := scoringDefaults()
	slot := persist.NewSaveSlot(1)
	slot.WeekUnlocked = cfg.MaxWeek

	RecordPass(cfg, slot, cfg.MaxWeek, "x = 1\n", false)
	require.Equal(t, cfg.MaxWeek, slot.WeekUnlocked)
}

func TestRecordFailure(t *testing.T) {
	slot := persist.NewSaveSlot(1)
	slot.Streak = 4
	RecordFailure(slot)
	require.Equal(t, 0, slot.Streak)
}
