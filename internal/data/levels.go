// Package data loads static game tables from YAML files.
package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Objective kinds understood by the built-in evaluator. A level may
// instead name a Lua predicate via Check.
const (
	ObjectiveReach          = "reach"
	ObjectiveLine           = "line"
	ObjectiveSyncSwap       = "sync_swap"
	ObjectiveAvoidCollision = "avoid_collision"
	ObjectiveArc            = "arc"
	ObjectiveCustom         = "custom"
)

// Coord is a field coordinate in level data.
type Coord struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// StartEntity is one marcher in a level's starting layout.
type StartEntity struct {
	Name    string `yaml:"name"`
	Section string `yaml:"section"`
	X       int    `yaml:"x"`
	Y       int    `yaml:"y"`
}

// Objective describes the drill goal for one level. Only the fields
// relevant to Kind are populated.
type Objective struct {
	Kind string `yaml:"kind"`

	// reach, avoid_collision
	Entity string `yaml:"entity"`
	Target *Coord `yaml:"target"`

	// line
	Y      int `yaml:"y"`
	XStart int `yaml:"x_start"`
	DX     int `yaml:"dx"`
	Count  int `yaml:"count"`

	// sync_swap
	Names   []string `yaml:"names"`
	TargetX int      `yaml:"target_x"`

	// avoid_collision
	Obstacle string `yaml:"obstacle"`

	// arc
	Center   *Coord   `yaml:"center"`
	Radius   float64  `yaml:"radius"`
	Entities []string `yaml:"entities"`

	// custom: name of a Lua predicate plus free-form params for it.
	Check  string         `yaml:"check"`
	Params map[string]any `yaml:"params"`
}

// Level is one rehearsal level.
type Level struct {
	ID           int           `yaml:"id"`
	Week         int           `yaml:"week"`
	Title        string        `yaml:"title"`
	Mentor       string        `yaml:"mentor"`
	DialoguePre  string        `yaml:"dialogue_pre"`
	HintText     string        `yaml:"hint_text"`
	DialoguePost string        `yaml:"dialogue_post"`
	AllowedAPI   []string      `yaml:"allowed_api"`
	Start        []StartEntity `yaml:"start_entities"`
	Objective    Objective     `yaml:"objective"`
	StarterCode  string        `yaml:"starter_code"`
}

// Meta describes the level set as a whole.
type Meta struct {
	Title      string `yaml:"title"`
	TotalWeeks int    `yaml:"total_weeks"`
}

type levelFile struct {
	Meta   Meta    `yaml:"meta"`
	Levels []Level `yaml:"levels"`
}

// LevelTable holds all levels indexed by week.
type LevelTable struct {
	Meta   Meta
	levels []Level
	byWeek map[int]*Level
}

// LoadLevels loads the level table from a YAML file.
func LoadLevels(path string) (*LevelTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read levels: %w", err)
	}
	var f levelFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse levels: %w", err)
	}

	t := &LevelTable{
		Meta:   f.Meta,
		levels: f.Levels,
		byWeek: make(map[int]*Level, len(f.Levels)),
	}
	for i := range t.levels {
		lv := &t.levels[i]
		if lv.Week <= 0 {
			return nil, fmt.Errorf("level %d: bad week %d", lv.ID, lv.Week)
		}
		if _, dup := t.byWeek[lv.Week]; dup {
			return nil, fmt.Errorf("level %d: duplicate week %d", lv.ID, lv.Week)
		}
		t.byWeek[lv.Week] = lv
	}
	return t, nil
}

// ByWeek returns the level for a week, or nil.
func (t *LevelTable) ByWeek(week int) *Level {
	return t.byWeek[week]
}

// All returns the levels in file order.
func (t *LevelTable) All() []Level {
	return t.levels
}

// Len returns the number of levels.
func (t *LevelTable) Len() int {
	return len(t.levels)
}
