package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-osu/internal/clock"
	"github.com/vovakirdan/tui-osu/internal/config"
	"github.com/vovakirdan/tui-osu/internal/core"
	"github.com/vovakirdan/tui-osu/internal/mods"
	"github.com/vovakirdan/tui-osu/internal/scoring"
	"github.com/vovakirdan/tui-osu/internal/session"
)

const (
	seekStep    = 5000
	hudHeight   = 2
	footHeight  = 2
	healthWidth = 30
	maxPrevious = 5
)

var (
	hudStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	healthStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dangerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	resultsStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 3)
)

// Model is the Bubble Tea model that drives one session: live play with
// keyboard and mouse, or watching autoplay and replays.
type Model struct {
	sess    *session.Session
	field   *Playfield
	screen  *core.Screen
	keys    KeyMap
	help    help.Model
	buttons *Buttons
	cursor  core.Vec2
	rate    int
	tickMs  int
	elapsed int
	width   int
	height  int

	watching bool
	replay   bool
	paused   bool
	quitting bool
	back     bool
	err      error
	previous []session.Record
}

// NewModel creates a model for a started session.
func NewModel(s *session.Session, field *Playfield, cfg config.Session, width, height int) Model {
	replay := s.State() == session.Replay
	watching := replay || s.Mods().Has(mods.Auto)
	keys := NewKeyMap(cfg.Keys)
	if watching {
		keys = keys.WatchMode(replay)
	}
	h := help.New()
	h.Width = width
	rate := cfg.TickRate
	if rate <= 0 {
		rate = 60
	}

	return Model{
		sess:     s,
		field:    field,
		screen:   core.NewScreen(width, height),
		keys:     keys,
		help:     h,
		buttons:  NewButtons(defaultHold),
		cursor:   core.PlayfieldCenter(),
		rate:     rate,
		tickMs:   cfg.TickMillis(),
		width:    width,
		height:   height,
		watching: watching,
		replay:   replay,
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.rate)
}

// Update handles messages and advances the session.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.sess.Abort()
		return m, tea.Quit

	case m.ended():
		// Result screen: any key other than retry goes back.
		if key.Matches(msg, m.keys.Retry) {
			m.retry()
			return m, nil
		}
		m.back = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.K1):
		m.buttons.Press(core.KeyK1, m.elapsed)
	case key.Matches(msg, m.keys.K2):
		m.buttons.Press(core.KeyK2, m.elapsed)

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		if m.paused {
			m.sess.Pause()
		} else {
			m.sess.Resume()
		}

	case key.Matches(msg, m.keys.Skip):
		m.sess.Skip()

	case key.Matches(msg, m.keys.Retry):
		m.retry()

	case key.Matches(msg, m.keys.SeekBack):
		m.seek(-seekStep)
	case key.Matches(msg, m.keys.SeekForward):
		m.seek(seekStep)
	case key.Matches(msg, m.keys.Speed):
		m.err = m.sess.SetSpeed(m.sess.Speed().Next())
	}

	return m, nil
}

func (m *Model) retry() {
	m.buttons.Release()
	m.field.Reset()
	m.previous = nil
	m.paused = false
	var err error
	if m.replay {
		err = m.sess.Start(session.Replay)
	} else {
		err = m.sess.Retry()
	}
	m.err = err
}

func (m *Model) seek(delta int) {
	target := core.Clamp(m.sess.Position()+delta, 0, m.sess.Beatmap().LastTime())
	m.err = m.sess.SeekReplay(target)
}

// handleMouse moves the cursor and tracks M1/M2.
func (m Model) handleMouse(msg tea.MouseMsg) Model {
	area := m.area()
	m.cursor = core.Unproject(area, msg.X, msg.Y)

	var button core.Keys
	switch msg.Button {
	case tea.MouseButtonLeft:
		button = core.KeyM1
	case tea.MouseButtonRight:
		button = core.KeyM2
	default:
		return m
	}
	switch msg.Action {
	case tea.MouseActionPress:
		m.buttons.Mouse(button, true)
	case tea.MouseActionRelease:
		m.buttons.Mouse(button, false)
	}
	return m
}

// handleTick advances the session by one tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	if !m.paused {
		m.elapsed += m.tickMs
		if m.replay {
			m.sess.TickReplay(m.tickMs)
		} else {
			f := core.Frame{X: m.cursor.X, Y: m.cursor.Y, Keys: m.buttons.Keys(m.elapsed)}
			m.sess.Tick(m.tickMs, f)
		}
	}

	if m.ended() && m.previous == nil {
		prev, err := m.sess.PreviousScores()
		if err != nil {
			m.err = err
		}
		m.previous = append(make([]session.Record, 0, len(prev)), prev...)
	}

	return m, tickCmd(m.rate)
}

func (m Model) ended() bool {
	return m.sess.Outcome() != nil
}

// area returns the screen rectangle of the playfield, 4:3 on cells that
// are about twice as tall as wide.
func (m Model) area() core.Rect {
	h := m.height - hudHeight - footHeight - 2
	w := h * 8 / 3
	if w > m.width-2 {
		w = m.width - 2
		h = w * 3 / 8
	}
	w, h = core.Max(w, 4), core.Max(h, 3)
	x := (m.width - w) / 2
	return core.NewRect(core.Max(x, 1), hudHeight+1, w, h)
}

// View renders the HUD, the playfield and the help bar.
func (m Model) View() string {
	if m.quitting || m.back {
		return ""
	}
	if m.ended() {
		return m.resultsView()
	}

	var b strings.Builder
	b.WriteString(m.hudView())
	b.WriteString("\n")

	m.screen.Clear()
	m.field.Begin(m.sess.Position())
	m.sess.Render()
	m.field.Paint(m.screen, m.area(), m.cursor, !m.watching || m.replay)
	screen := RenderScreen(m.screen)
	lines := strings.Split(screen, "\n")
	lo := core.Min(hudHeight, len(lines))
	hi := core.Min(hudHeight+m.area().H+2, len(lines))
	b.WriteString(strings.Join(lines[lo:hi], "\n"))
	b.WriteString("\n")

	status := ""
	switch {
	case m.paused:
		status = "PAUSED  "
	case m.sess.InLeadIn():
		status = "READY  "
	case m.sess.CanSkip():
		status = "SPACE to skip  "
	}
	if m.err != nil {
		status += dangerStyle.Render(m.err.Error()) + "  "
	}
	b.WriteString(hudStyle.Render(status))
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) hudView() string {
	st := m.sess.Score()
	mode := "PLAY"
	switch {
	case m.replay:
		mode = "REPLAY " + m.sess.Player().Replay().Player
		if sp := m.sess.Speed(); sp != clock.SpeedNormal {
			mode += " " + sp.String()
		}
	case m.watching:
		mode = "AUTO"
	}
	left := hudStyle.Render(fmt.Sprintf("%08d", st.DisplayScore)) +
		fmt.Sprintf("  %dx  %.2f%%  %s", st.Combo, st.Accuracy(), st.Grade())
	right := dimStyle.Render(fmt.Sprintf("%s  %s  %s", mode, m.sess.Mods(), formatTime(m.sess.Position())))
	return left + "  " + healthBar(st.Health, st.Lives) + "  " + right
}

func healthBar(percent float64, lives int) string {
	filled := core.Clamp(int(percent/100*healthWidth+0.5), 0, healthWidth)
	style := healthStyle
	if percent < 20 {
		style = dangerStyle
	}
	bar := style.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", healthWidth-filled))
	if lives > 1 {
		bar += fmt.Sprintf(" x%d", lives)
	}
	return bar
}

func formatTime(ms int) string {
	sign := ""
	if ms < 0 {
		sign, ms = "-", -ms
	}
	return fmt.Sprintf("%s%d:%02d", sign, ms/60000, ms/1000%60)
}

func (m Model) resultsView() string {
	out := m.sess.Outcome()
	st := out.State

	var b strings.Builder
	title := m.sess.Beatmap().String()
	if out.Failed {
		title += "  FAILED at " + formatTime(out.FailTime)
	}
	b.WriteString(hudStyle.Render(title))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Score     %d\n", st.Score)
	fmt.Fprintf(&b, "Accuracy  %.2f%%   Grade %s\n", st.Accuracy(), st.Grade())
	perfect := ""
	if st.Perfect {
		perfect = "  PERFECT"
	}
	fmt.Fprintf(&b, "Combo     %dx%s\n", st.MaxCombo, perfect)
	fmt.Fprintf(&b, "300 %d   100 %d   50 %d   miss %d\n",
		st.Counts[scoring.Hit300], st.Counts[scoring.Hit100], st.Counts[scoring.Hit50], st.Counts[scoring.Miss])
	fmt.Fprintf(&b, "geki %d   katu %d   mods %s\n", st.Geki, st.Katu, st.Mods)
	if out.ReplayPath != "" {
		fmt.Fprintf(&b, "replay    %s\n", out.ReplayPath)
	}

	if len(m.previous) > 0 {
		b.WriteString("\n")
		b.WriteString(hudStyle.Render("Previous scores"))
		b.WriteString("\n")
		for i, r := range m.previous[:core.Min(len(m.previous), maxPrevious)] {
			fmt.Fprintf(&b, "#%d  %-12s %10d  %6.2f%%  %4dx  %s\n", i+1, r.Player, r.Score, r.Accuracy, r.MaxCombo, r.Grade)
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("ctrl+r: retry  |  any key: back  |  q: quit"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, resultsStyle.Render(b.String()))
}

// IsQuitting returns true if the user asked to quit.
func (m Model) IsQuitting() bool { return m.quitting }

// BackToMenu returns true if the user left the result screen.
func (m Model) BackToMenu() bool { return m.back }

// Session returns the driven session.
func (m Model) Session() *session.Session { return m.sess }

// Run starts the Bubble Tea program for s on the local terminal.
func Run(s *session.Session, field *Playfield, cfg config.Session, width, height int) error {
	model := NewModel(s, field, cfg, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),      // Use alternate screen buffer
		tea.WithMouseAllMotion(), // Cursor follows the mouse
	)

	_, err := p.Run()
	return err
}
