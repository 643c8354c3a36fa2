package rehearsal

import (
	"strings"

	"github.com/bandgo/server/internal/config"
	"github.com/bandgo/server/internal/persist"
)

// Score is the breakdown for one passed rehearsal.
type Score struct {
	Base        int
	Efficiency  int // loop bonus
	Clean       int // no-error bonus
	StreakBonus int
	HintPenalty int // negative or zero
	Total       int
}

// ComputeScore scores a passing run. streak is the slot's streak
// including this pass.
func ComputeScore(cfg config.ScoringConfig, code string, usedHint bool, streak int) Score {
	sc := Score{
		Base:  cfg.Base,
		Clean: cfg.CleanBonus,
	}
	if strings.Contains(code, "for ") && strings.Contains(code, "range") {
		sc.Efficiency = cfg.LoopBonus
	}
	if usedHint {
		sc.HintPenalty = -cfg.HintPenalty
	}
	if streak >= cfg.StreakThreshold {
		sc.StreakBonus = cfg.StreakBonus
	}
	sc.Total = sc.Base + sc.Efficiency + sc.Clean + sc.StreakBonus + sc.HintPenalty
	return sc
}

// RecordPass applies a passed level to the save slot: streak, pride
// points, hint count, and the week unlock (capped at MaxWeek). It
// returns the computed score. The caller persists the slot.
func RecordPass(cfg config.ScoringConfig, slot *persist.SaveSlot, week int, code string, usedHint bool) Score {
	slot.Streak++
	sc := ComputeScore(cfg, code, usedHint, slot.Streak)
	slot.PridePoints += sc.Total
	if usedHint {
		slot.HintsUsed++
	}
	if week == slot.WeekUnlocked && slot.WeekUnlocked < cfg.MaxWeek {
		slot.WeekUnlocked++
	}
	slot.LastPlayedWeek = week
	return sc
}

// RecordFailure resets the streak after a failed run. The caller
// persists the slot.
func RecordFailure(slot *persist.SaveSlot) {
	slot.Streak = 0
}
