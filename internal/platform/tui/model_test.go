package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-osu/internal/beatmap"
	"github.com/vovakirdan/tui-osu/internal/clock"
	"github.com/vovakirdan/tui-osu/internal/config"
	"github.com/vovakirdan/tui-osu/internal/core"
	"github.com/vovakirdan/tui-osu/internal/mods"
	"github.com/vovakirdan/tui-osu/internal/scoring"
	"github.com/vovakirdan/tui-osu/internal/session"
)

func testConfig(m mods.Mods) config.Session {
	return config.Session{
		Player:   "tester",
		Mods:     m,
		Keys:     config.KeyBindings{K1: "z", K2: "x"},
		TickRate: 60,
	}
}

func newAutoModel(t *testing.T) Model {
	t.Helper()
	cfg := testConfig(mods.Auto)
	s, field, err := NewSession(session.Options{Beatmap: beatmap.Demo(), Config: cfg})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if err := s.Start(session.Normal); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return NewModel(s, field, cfg, 100, 40)
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewSessionSizesPlayfield(t *testing.T) {
	s, field, err := NewSession(session.Options{Beatmap: beatmap.Demo(), Config: testConfig(mods.None)})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if field.radius != s.Params().Radius() || field.radius <= 0 {
		t.Errorf("playfield radius = %v, want %v", field.radius, s.Params().Radius())
	}
}

func TestModelPlaysAutoToResults(t *testing.T) {
	m := newAutoModel(t)

	sawObjects := false
	for i := 0; i < 10000 && m.Session().Outcome() == nil; i++ {
		m = update(t, m, TickMsg{})
		if i%50 == 0 {
			if view := m.View(); view == "" {
				t.Fatalf("empty view at tick %d", i)
			}
			sawObjects = sawObjects || len(m.field.Views()) > 0
		}
	}

	out := m.Session().Outcome()
	if out == nil {
		t.Fatal("autoplay did not finish")
	}
	if out.Failed || out.State.Counts[scoring.Miss] != 0 {
		t.Errorf("autoplay outcome = %+v", out)
	}
	if !sawObjects {
		t.Error("no objects were drawn during play")
	}
	if m.field.Sounds() == 0 {
		t.Error("no hit sounds played")
	}

	view := m.View()
	if !strings.Contains(view, "Score") || !strings.Contains(view, "Accuracy") {
		t.Errorf("results view missing score lines:\n%s", view)
	}

	// Any key other than retry leaves the result screen.
	m = update(t, m, keyMsg("b"))
	if !m.BackToMenu() {
		t.Error("key on result screen did not go back")
	}
}

func TestModelQuitAborts(t *testing.T) {
	m := newAutoModel(t)
	m = update(t, m, TickMsg{})
	m = update(t, m, keyMsg("q"))
	if !m.IsQuitting() || !m.Session().Aborted() {
		t.Errorf("quit: IsQuitting = %v, Aborted = %v", m.IsQuitting(), m.Session().Aborted())
	}
	if m.View() != "" {
		t.Error("view not empty after quit")
	}
}

func TestModelPauseStopsClock(t *testing.T) {
	m := newAutoModel(t)
	m = update(t, m, TickMsg{})
	m = update(t, m, keyMsg("p"))
	pos := m.Session().Position()
	for range 10 {
		m = update(t, m, TickMsg{})
	}
	if got := m.Session().Position(); got != pos {
		t.Errorf("position moved while paused: %d -> %d", pos, got)
	}

	m = update(t, m, keyMsg("p"))
	m = update(t, m, TickMsg{})
	if got := m.Session().Position(); got <= pos {
		t.Errorf("position did not move after resume: %d -> %d", pos, got)
	}
}

func TestModelLiveKeys(t *testing.T) {
	cfg := testConfig(mods.None)
	s, field, err := NewSession(session.Options{Beatmap: beatmap.Demo(), Config: cfg})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if err := s.Start(session.FirstLoad); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	m := NewModel(s, field, cfg, 100, 40)

	m = update(t, m, keyMsg("z"))
	if got := m.buttons.Keys(m.elapsed); !got.Pressed() {
		t.Errorf("K1 not held after pressing z: %v", got)
	}

	m = update(t, m, tea.MouseMsg{X: 50, Y: 20, Action: tea.MouseActionMotion})
	if want := core.Unproject(m.area(), 50, 20); m.cursor != want {
		t.Errorf("cursor = %v, want %v", m.cursor, want)
	}

	// K1 shares its bit with M1, so read the mouse edges once the keyboard
	// hold has lapsed.
	later := m.elapsed + defaultHold
	m = update(t, m, tea.MouseMsg{X: 50, Y: 20, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if got := m.buttons.Keys(later); got != core.KeyM1 {
		t.Errorf("buttons after mouse press = %v, want M1", got)
	}
	m = update(t, m, tea.MouseMsg{X: 50, Y: 20, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})
	if got := m.buttons.Keys(later); got != core.KeyNone {
		t.Errorf("buttons after mouse release = %v, want none", got)
	}
}

func TestModelReplaySpeedKey(t *testing.T) {
	b := beatmap.Demo()
	rec, err := session.New(session.Options{Beatmap: b, Config: testConfig(mods.Auto)})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := rec.Start(session.Normal); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	for i := 0; i < 10000 && rec.Outcome() == nil; i++ {
		rec.Tick(16, core.Frame{})
	}
	if rec.Outcome() == nil || rec.Outcome().Replay == nil {
		t.Fatal("autoplay run left no replay")
	}

	cfg := testConfig(mods.None)
	s, field, err := NewSession(session.Options{Beatmap: b, Config: cfg, Replay: rec.Outcome().Replay})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if err := s.Start(session.Replay); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	m := NewModel(s, field, cfg, 100, 40)

	for _, want := range []clock.Speed{clock.SpeedDouble, clock.SpeedHalf, clock.SpeedNormal} {
		m = update(t, m, keyMsg("s"))
		if got := m.Session().Speed(); got != want {
			t.Errorf("speed after s = %v, want %v", got, want)
		}
		if want != clock.SpeedNormal && !strings.Contains(m.View(), want.String()) {
			t.Errorf("view does not show %v", want)
		}
	}

	// Live play has no speed control.
	live := newAutoModel(t)
	live = update(t, live, keyMsg("s"))
	if got := live.Session().Speed(); got != clock.SpeedNormal {
		t.Errorf("live speed = %v after s", got)
	}
}
