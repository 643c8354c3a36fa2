// Package band holds the canonical simulation state for one rehearsal:
// the marcher registry, the queued drill actions, and the timeline
// builder that expands those actions into per-count snapshots.
package band

import (
	"fmt"
	"sort"
)

// SectionGenerated is the section tag given to marchers that were not
// spawned explicitly (auto-spawn on write, snapshot restore).
const SectionGenerated = "GEN"

// waitSentinel marks a queued action that only advances time.
const waitSentinel = "__WAIT__"

// Point is an integer field coordinate.
type Point struct {
	X int
	Y int
}

// Entity is one named marcher on the field.
type Entity struct {
	Name    string
	Section string
	X       int
	Y       int
}

// Action is one queued drill step: either a move interpolated over
// Counts counts, or a pure wait. Start and End are captured when the
// action is queued and never recomputed, so later registry reads or
// queue reordering cannot change an already-queued action.
type Action struct {
	Entity     string
	Start      Point
	End        Point
	Counts     int
	Progressed int
}

// IsWait reports whether the action advances time without moving anyone.
func (a Action) IsWait() bool { return a.Entity == waitSentinel }

// UnknownEntityError is returned by reads that name a marcher the
// registry has never seen. Writes auto-spawn instead; that asymmetry is
// deliberate (scripts may query marchers they assume exist, and that is
// a script bug worth surfacing, while moving an unknown name is how
// levels conjure extra marchers).
type UnknownEntityError struct {
	Name string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown entity %q (spawn it or move it first)", e.Name)
}

// Band is the entity registry plus the action queue for one rehearsal.
// It is owned by a single session and is not safe for concurrent use;
// the sandbox borrows it for the duration of one script run.
type Band struct {
	entities map[string]*Entity
	order    []string // insertion order of names
	queue    []Action
	time     int // counts consumed by Simulate
}

// New returns an empty band.
func New() *Band {
	return &Band{entities: make(map[string]*Entity)}
}

// Spawn inserts or overwrites a marcher. Respawning an existing name
// keeps its original position in Names().
func (b *Band) Spawn(name, section string, x, y int) {
	if e, ok := b.entities[name]; ok {
		e.Section = section
		e.X, e.Y = x, y
		return
	}
	b.entities[name] = &Entity{Name: name, Section: section, X: x, Y: y}
	b.order = append(b.order, name)
}

// SetPos moves a marcher, auto-spawning it (section GEN) if unknown.
func (b *Band) SetPos(name string, x, y int) {
	e, ok := b.entities[name]
	if !ok {
		b.Spawn(name, SectionGenerated, x, y)
		return
	}
	e.X, e.Y = x, y
}

// GetPos returns a marcher's current position. Unknown names fail; reads
// never auto-spawn.
func (b *Band) GetPos(name string) (Point, error) {
	e, ok := b.entities[name]
	if !ok {
		return Point{}, &UnknownEntityError{Name: name}
	}
	return Point{X: e.X, Y: e.Y}, nil
}

// Entity returns the marcher with the given name, or nil.
func (b *Band) Entity(name string) *Entity {
	return b.entities[name]
}

// Names lists all known marcher names in insertion order.
func (b *Band) Names() []string {
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}

// Len returns the number of known marchers.
func (b *Band) Len() int { return len(b.entities) }

// IsOccupied reports whether any marcher currently stands exactly at
// (x, y).
func (b *Band) IsOccupied(x, y int) bool {
	for _, e := range b.entities {
		if e.X == x && e.Y == y {
			return true
		}
	}
	return false
}

// StepTo queues one move action per name toward (x, y) over counts
// counts. Each action captures that marcher's current position as its
// start, so names passed together move simultaneously from wherever
// they are. Unknown names are auto-spawned at the origin first. counts
// is clamped to at least 1.
func (b *Band) StepTo(names []string, x, y, counts int) {
	if counts < 1 {
		counts = 1
	}
	for _, n := range names {
		e, ok := b.entities[n]
		if !ok {
			b.Spawn(n, SectionGenerated, 0, 0)
			e = b.entities[n]
		}
		b.queue = append(b.queue, Action{
			Entity: n,
			Start:  Point{X: e.X, Y: e.Y},
			End:    Point{X: x, Y: y},
			Counts: counts,
		})
	}
}

// Wait queues a pure time advance of counts counts (minimum 1).
func (b *Band) Wait(counts int) {
	if counts < 1 {
		counts = 1
	}
	b.queue = append(b.queue, Action{Entity: waitSentinel, Counts: counts})
}

// ResetActions clears the queue and the simulated-count counter. Called
// once before every script run.
func (b *Band) ResetActions() {
	b.queue = b.queue[:0]
	b.time = 0
}

// Queue returns the queued actions in execution order. The returned
// slice is a copy; queued actions are never mutated by consumers.
func (b *Band) Queue() []Action {
	out := make([]Action, len(b.queue))
	copy(out, b.queue)
	return out
}

// QueuedCounts returns the total counts across all queued actions.
func (b *Band) QueuedCounts() int {
	total := 0
	for _, a := range b.queue {
		total += a.Counts
	}
	return total
}

// Snapshot captures every marcher's current position.
func (b *Band) Snapshot() Snapshot {
	snap := make(Snapshot, len(b.entities))
	for name, e := range b.entities {
		snap[name] = Point{X: e.X, Y: e.Y}
	}
	return snap
}

// ApplySnapshot restores positions from snap. Known marchers keep their
// section; names present in snap but absent from the registry are
// spawned with section GEN, in sorted order so Names() stays
// deterministic.
func (b *Band) ApplySnapshot(snap Snapshot) {
	var missing []string
	for name, p := range snap {
		if e, ok := b.entities[name]; ok {
			e.X, e.Y = p.X, p.Y
		} else {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	for _, name := range missing {
		p := snap[name]
		b.Spawn(name, SectionGenerated, p.X, p.Y)
	}
}

// Reset drops every marcher and all queued actions. Used between levels.
func (b *Band) Reset() {
	b.entities = make(map[string]*Entity)
	b.order = nil
	b.queue = nil
	b.time = 0
}
