package band

import "math"

// Snapshot is an immutable copy of every marcher's position at one
// count.
type Snapshot map[string]Point

// Clone returns an independent copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for name, p := range s {
		out[name] = p
	}
	return out
}

// Timeline is the ordered sequence of snapshots produced by expanding
// the action queue. Index 0 is the state before any action executes;
// index i > 0 is the state after i counts have elapsed.
type Timeline []Snapshot

// Final returns the last snapshot, or nil for an empty timeline.
func (t Timeline) Final() Snapshot {
	if len(t) == 0 {
		return nil
	}
	return t[len(t)-1]
}

// lerp interpolates one axis of a move at count t+1 of counts. Rounding
// is half away from zero (math.Round) on both axes; this is part of the
// public contract, since objective checks compare exact integers. At
// the final count of a move the factor reaches 1, so the marcher lands
// exactly on the action's end coordinate regardless of rounding.
func lerp(start, end, t, counts int) int {
	f := float64(start) + float64(end-start)*float64(t+1)/float64(counts)
	return int(math.Round(f))
}

// MakeTimeline expands the queued actions into a per-count timeline
// without leaving any lasting change on the registry: the initial
// snapshot is restored before returning, so two consecutive calls with
// no mutation in between yield identical timelines. Expansion stops
// silently once maxCounts global counts have been produced; the
// resulting length is 1 + min(total queued counts, maxCounts). This is
// the playback-mode consumer of the queue; a queue should be consumed
// by either MakeTimeline or Simulate, never both.
func (b *Band) MakeTimeline(maxCounts int) Timeline {
	initial := b.Snapshot()
	timeline := Timeline{initial.Clone()}
	pos := initial.Clone()

	global := 0
	for _, act := range b.queue {
		for t := 0; t < act.Counts; t++ {
			global++
			if global > maxCounts {
				break
			}
			if !act.IsWait() {
				pos[act.Entity] = Point{
					X: lerp(act.Start.X, act.End.X, t, act.Counts),
					Y: lerp(act.Start.Y, act.End.Y, t, act.Counts),
				}
			}
			timeline = append(timeline, pos.Clone())
		}
		if global > maxCounts {
			break
		}
	}

	b.ApplySnapshot(initial)
	return timeline
}

// Simulate steps through the queued actions mutating the registry in
// place, leaving only the final resting state. Same interpolation and
// truncation rules as MakeTimeline, but no history is kept. This is the
// batch-mode consumer for callers that never scrub; do not run it over
// a queue that MakeTimeline already consumed and expect the registry to
// advance again.
func (b *Band) Simulate(maxCounts int) {
	b.time = 0
	for _, act := range b.queue {
		for t := 0; t < act.Counts; t++ {
			b.time++
			if b.time > maxCounts {
				return
			}
			if act.IsWait() {
				continue
			}
			e, ok := b.entities[act.Entity]
			if !ok {
				continue
			}
			e.X = lerp(act.Start.X, act.End.X, t, act.Counts)
			e.Y = lerp(act.Start.Y, act.End.Y, t, act.Counts)
		}
	}
}

// Time returns the counts consumed by the last Simulate call.
func (b *Band) Time() int { return b.time }

// MarkerCounts returns the cumulative count index at which each queued
// action finishes. The scrub bar draws these as set markers.
func (b *Band) MarkerCounts() []int {
	var marks []int
	total := 0
	for _, a := range b.queue {
		total += a.Counts
		marks = append(marks, total)
	}
	return marks
}
