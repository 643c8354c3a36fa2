package tui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/bandgo/server/internal/config"
	"github.com/bandgo/server/internal/persist"
	"github.com/bandgo/server/internal/rehearsal"
)

// Store bundles the optional persistence hooks. A nil Store (or nil
// fields) runs the TUI without saves, e.g. in free-play.
type Store struct {
	Slot  *persist.SaveSlot
	Slots *persist.SlotRepo
	Codes *persist.CodeRepo
	Runs  *persist.RunLogRepo
}

// Model drives one rehearsal screen.
type Model struct {
	session *rehearsal.Session
	editor  textarea.Model
	cfg     *config.Config
	store   *Store
	log     *zap.Logger

	scrubFocus bool // tab toggles editor vs scrub focus
	playing    bool
	evalOnEnd  bool // score the run when playback reaches the end
	idx        int  // current timeline index

	errMsg  string
	errLine int
	toast   string
	pass    bool

	quitting bool
}

// NewModel builds the rehearsal screen. starter is the initial editor
// content (autosaved code, else the level's starter code).
func NewModel(sess *rehearsal.Session, starter string, cfg *config.Config, store *Store, log *zap.Logger) Model {
	ed := textarea.New()
	ed.Placeholder = "# write drill code, ctrl+r to run"
	ed.SetValue(starter)
	ed.SetWidth(46)
	ed.SetHeight(16)
	ed.Focus()

	m := Model{
		session: sess,
		editor:  ed,
		cfg:     cfg,
		store:   store,
		log:     log,
	}
	if lv := sess.Level; lv != nil {
		m.toast = lv.DialoguePre
	} else {
		m.toast = "Sandbox mode: experiment freely."
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.autosave()
		m.quitting = true
		return m, tea.Quit
	case "ctrl+r":
		return m.runScript()
	case "ctrl+e":
		return m.resetLevel()
	case "ctrl+h":
		return m.useHint()
	case "tab":
		m.scrubFocus = !m.scrubFocus
		if m.scrubFocus {
			m.editor.Blur()
		} else {
			m.editor.Focus()
		}
		return m, nil
	}

	if m.scrubFocus {
		switch msg.String() {
		case " ":
			if len(m.session.Timeline()) > 0 {
				m.playing = !m.playing
				m.evalOnEnd = false // replaying never re-scores
				if m.playing {
					return m, tickCmd(m.cfg.Playback.CountStep)
				}
			}
			return m, nil
		case "left", "right":
			if m.playing || len(m.session.Timeline()) == 0 {
				return m, nil
			}
			d := 1
			if msg.String() == "left" {
				d = -1
			}
			m.seek(m.idx + d)
			return m, nil
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if !m.playing {
		return m, nil
	}
	tl := m.session.Timeline()
	if m.idx < len(tl)-1 {
		m.seek(m.idx + 1)
	}
	if m.idx >= len(tl)-1 {
		m.playing = false
		if m.evalOnEnd {
			m.evalOnEnd = false
			m.judge()
		}
		return m, nil
	}
	return m, tickCmd(m.cfg.Playback.CountStep)
}

func (m *Model) seek(i int) {
	tl := m.session.Timeline()
	if len(tl) == 0 {
		return
	}
	if i < 0 {
		i = 0
	}
	if i > len(tl)-1 {
		i = len(tl) - 1
	}
	m.idx = i
	m.session.Seek(i)
}

func (m Model) runScript() (tea.Model, tea.Cmd) {
	m.errMsg, m.errLine = "", 0
	m.pass = false
	m.autosave()

	res := m.session.Run(m.editor.Value())
	if !res.OK {
		m.errMsg = res.Message
		m.errLine = res.Line
		m.recordRun(res.OK, res.Kind.String(), res.Steps, 0)
		if m.store != nil && m.store.Slot != nil && m.session.Level != nil {
			rehearsal.RecordFailure(m.store.Slot)
			m.saveSlot()
		}
		return m, nil
	}

	m.idx = 0
	m.playing = true
	m.evalOnEnd = true
	m.toast = ""
	return m, tickCmd(m.cfg.Playback.CountStep)
}

// judge runs once when a scored playback reaches its final count.
func (m *Model) judge() {
	met := m.session.ObjectiveMet()
	score := 0
	if met && m.session.Level != nil {
		m.pass = true
		m.toast = m.session.Level.DialoguePost
		if m.store != nil && m.store.Slot != nil {
			sc := rehearsal.RecordPass(m.cfg.Scoring, m.store.Slot, m.session.Level.Week,
				m.editor.Value(), m.session.UsedHint)
			score = sc.Total
			m.toast = fmt.Sprintf("PASS +%d PP: %s", sc.Total, m.session.Level.DialoguePost)
			m.saveSlot()
		}
	} else if m.session.Level != nil {
		m.toast = "Drill incomplete. Scrub the counts and adjust."
	}
	m.recordRun(true, "", 0, score)
}

func (m *Model) useHint() (tea.Model, tea.Cmd) {
	lv := m.session.Level
	if lv == nil {
		return m, nil
	}
	m.session.UsedHint = true
	m.editor.SetValue(m.editor.Value() + "\n# HINT: " + lv.HintText)
	m.autosave()
	return m, nil
}

func (m Model) resetLevel() (tea.Model, tea.Cmd) {
	m.session.UsedHint = false
	m.session.LoadLevel()
	m.idx = 0
	m.playing = false
	m.errMsg, m.errLine = "", 0
	m.pass = false
	if lv := m.session.Level; lv != nil {
		m.editor.SetValue(lv.StarterCode)
	} else {
		m.editor.SetValue("")
	}
	return m, nil
}

func (m *Model) autosave() {
	if m.store == nil || m.store.Codes == nil || m.store.Slot == nil {
		return
	}
	err := m.store.Codes.Save(context.Background(), m.store.Slot.Slot, m.session.LevelKey(), m.editor.Value())
	if err != nil {
		m.log.Warn("autosave failed", zap.Error(err))
	}
}

func (m *Model) saveSlot() {
	if m.store == nil || m.store.Slots == nil || m.store.Slot == nil {
		return
	}
	if err := m.store.Slots.Save(context.Background(), m.store.Slot); err != nil {
		m.log.Warn("slot save failed", zap.Error(err))
	}
}

func (m *Model) recordRun(ok bool, kind string, steps int64, score int) {
	if m.store == nil || m.store.Runs == nil || m.store.Slot == nil {
		return
	}
	digest := ""
	if tl := m.session.Timeline(); tl != nil {
		digest = strconv.FormatUint(tl.Digest(), 16)
	}
	_, err := m.store.Runs.Append(context.Background(), &persist.RehearsalRun{
		Slot:           m.store.Slot.Slot,
		LevelKey:       m.session.LevelKey(),
		OK:             ok,
		ErrorKind:      kind,
		Steps:          steps,
		Score:          score,
		TimelineDigest: digest,
	})
	if err != nil {
		m.log.Warn("run log failed", zap.Error(err))
	}
}
