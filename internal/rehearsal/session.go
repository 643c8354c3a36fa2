// Package rehearsal orchestrates one level's play loop: seed the band
// from the level layout, run the player's script in the sandbox, build
// the playback timeline, and judge the objective.
package rehearsal

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/bandgo/server/internal/band"
	"github.com/bandgo/server/internal/data"
	"github.com/bandgo/server/internal/rules"
	"github.com/bandgo/server/internal/scripting"
)

// Session owns the band and queue for one level (or free-play sandbox).
// The scripting sandbox borrows the band only for the duration of each
// Run call.
type Session struct {
	Level    *data.Level // nil in free-play
	UsedHint bool

	band      *band.Band
	sandbox   *scripting.Sandbox
	rules     *rules.Engine // nil when no objective scripts are loaded
	maxCounts int
	log       *zap.Logger

	timeline band.Timeline
	markers  []int
}

// NewSession creates a session for the given level; a nil level means
// free-play. The band starts seeded with the level layout.
func NewSession(level *data.Level, sb *scripting.Sandbox, re *rules.Engine, maxCounts int, log *zap.Logger) *Session {
	s := &Session{
		Level:     level,
		band:      band.New(),
		sandbox:   sb,
		rules:     re,
		maxCounts: maxCounts,
		log:       log,
	}
	s.LoadLevel()
	return s
}

// Band exposes the session's registry for rendering and checks.
func (s *Session) Band() *band.Band { return s.band }

// LoadLevel resets the band to the level's starting layout and drops
// any queued actions and timeline.
func (s *Session) LoadLevel() {
	s.band.Reset()
	s.timeline = nil
	s.markers = nil
	if s.Level != nil {
		for _, e := range s.Level.Start {
			s.band.Spawn(e.Name, e.Section, e.X, e.Y)
		}
	}
}

// LevelKey identifies the level for code autosave and the run log.
func (s *Session) LevelKey() string {
	if s.Level == nil {
		return "sandbox"
	}
	return fmt.Sprintf("week_%d", s.Level.Week)
}

// Run executes one rehearsal script. Levels re-seed the starting layout
// first, so every run starts the drill from the top; free-play keeps the
// band where the last run left it and only clears the queue. The script
// populates the queue through the band binding, and on success the
// playback timeline is materialized and the band is parked at timeline
// index 0. On failure the old timeline is discarded.
func (s *Session) Run(code string) scripting.Result {
	if s.Level != nil {
		s.LoadLevel()
	} else {
		s.band.ResetActions()
		s.timeline = nil
		s.markers = nil
	}

	res := s.sandbox.Execute(code, scripting.Bindings{
		"band": scripting.NewBandValue(s.band),
	})
	if !res.OK {
		s.log.Info("rehearsal failed",
			zap.String("level", s.LevelKey()),
			zap.String("kind", res.Kind.String()),
			zap.Int("line", res.Line))
		return res
	}

	s.markers = s.band.MarkerCounts()
	s.timeline = s.band.MakeTimeline(s.maxCounts)
	s.band.ApplySnapshot(s.timeline[0])

	s.log.Debug("rehearsal ok",
		zap.String("level", s.LevelKey()),
		zap.Int64("steps", res.Steps),
		zap.Int("counts", len(s.timeline)-1))
	return res
}

// Timeline returns the playback timeline from the last successful Run,
// or nil.
func (s *Session) Timeline() band.Timeline { return s.timeline }

// Markers returns the cumulative count at which each queued action
// ended, for the scrub bar.
func (s *Session) Markers() []int { return s.markers }

// Seek parks the band at timeline index i (clamped). The registry is
// advanced by applying the snapshot, never by re-simulating.
func (s *Session) Seek(i int) {
	if len(s.timeline) == 0 {
		return
	}
	if i < 0 {
		i = 0
	}
	if i >= len(s.timeline) {
		i = len(s.timeline) - 1
	}
	s.band.ApplySnapshot(s.timeline[i])
}

// ObjectiveMet judges the level objective against the band's current
// positions. Free-play has no objective.
func (s *Session) ObjectiveMet() bool {
	if s.Level == nil {
		return false
	}
	return objectiveMet(s.band, s.Level.Objective, s.rules)
}

// ObjectiveText is the one-line goal description shown on screen.
func (s *Session) ObjectiveText() string {
	if s.Level == nil {
		return "Objective: Free rehearsal"
	}
	return objectiveText(s.Level.Objective)
}
