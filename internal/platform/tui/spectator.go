package tui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-osu/internal/beatmap"
	"github.com/vovakirdan/tui-osu/internal/config"
	"github.com/vovakirdan/tui-osu/internal/mods"
	"github.com/vovakirdan/tui-osu/internal/session"
	"github.com/vovakirdan/tui-osu/internal/storage"
)

// NewSession creates a session drawing into a new playfield sized for the
// session's circles. opts.Sink is replaced.
func NewSession(opts session.Options) (*session.Session, *Playfield, error) {
	field := NewPlayfield(0)
	opts.Sink = field
	s, err := session.New(opts)
	if err != nil {
		return nil, nil, err
	}
	field.radius = s.Params().Radius()
	return s, field, nil
}

// SpectatorModel manages the flow of a spectator connection:
// menu -> autoplay, replay or scoreboard -> menu.
type SpectatorModel struct {
	store   *storage.Store
	beatmap *beatmap.Beatmap
	config  config.Session
	logger  *log.Logger
	width   int
	height  int

	menu     MenuModel
	board    *ScoreboardModel
	watch    *Model
	quitting bool
	err      error
}

// NewSpectatorModel creates the top-level model for one spectator.
func NewSpectatorModel(store *storage.Store, b *beatmap.Beatmap, cfg config.Session, logger *log.Logger, width, height int) SpectatorModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return SpectatorModel{
		store:   store,
		beatmap: b,
		config:  cfg,
		logger:  logger,
		width:   width,
		height:  height,
		menu:    NewMenuModel(store, b, width, height),
	}
}

// Init initializes the spectator flow.
func (m SpectatorModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes messages to the active screen.
func (m SpectatorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch {
	case m.watch != nil:
		return m.updateWatch(msg)
	case m.board != nil:
		return m.updateBoard(msg)
	}
	return m.updateMenu(msg)
}

func (m SpectatorModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}

	if selected.Scoreboard {
		board := NewScoreboardModel(m.store, m.width, m.height)
		board.Focus(m.beatmap.Checksum)
		m.board = &board
		return m, board.Init()
	}

	watch, err := m.startWatching(selected)
	if err != nil {
		m.logger.Warn("cannot start session", "item", selected.Title, "error", err)
		m.menu = NewMenuModel(m.store, m.beatmap, m.width, m.height)
		m.err = err
		return m, nil
	}
	m.err = nil
	m.watch = &watch
	return m, watch.Init()
}

// startWatching creates the session of a menu entry: autoplay or a saved
// replay.
func (m SpectatorModel) startWatching(item *MenuItem) (Model, error) {
	opts := session.Options{
		Beatmap: m.beatmap,
		Config:  m.config.WithMods(mods.Auto),
		Logger:  m.logger,
	}
	if m.store != nil {
		opts.Scores = m.store
	}

	state := session.Normal
	if item.Replay != nil {
		r, err := m.store.LoadReplay(item.Replay.ID)
		if err != nil {
			return Model{}, err
		}
		if r.BeatmapChecksum != m.beatmap.Checksum {
			return Model{}, fmt.Errorf("replay %s was recorded on another beatmap", item.Replay.Path)
		}
		opts.Replay = r
		state = session.Replay
	}

	s, field, err := NewSession(opts)
	if err != nil {
		return Model{}, err
	}
	if err := s.Start(state); err != nil {
		return Model{}, err
	}
	return NewModel(s, field, m.config, m.width, m.height), nil
}

func (m SpectatorModel) updateWatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.watch.Update(msg)
	if watch, ok := newModel.(Model); ok {
		m.watch = &watch
	}

	if m.watch.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.watch.BackToMenu() {
		m.watch = nil
		m.menu = NewMenuModel(m.store, m.beatmap, m.width, m.height)
		return m, m.menu.Init()
	}
	return m, cmd
}

func (m SpectatorModel) updateBoard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newBoard, cmd := m.board.Update(msg)
	if board, ok := newBoard.(ScoreboardModel); ok {
		m.board = &board
	}

	if m.board.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.board.IsGoingBack() {
		m.board = nil
		m.menu = NewMenuModel(m.store, m.beatmap, m.width, m.height)
		return m, m.menu.Init()
	}
	return m, cmd
}

// View renders the active screen.
func (m SpectatorModel) View() string {
	if m.quitting {
		return ""
	}

	switch {
	case m.watch != nil:
		return m.watch.View()
	case m.board != nil:
		return m.board.View()
	}

	view := m.menu.View()
	if m.err != nil {
		view += "\n" + dangerStyle.Render(centerText(m.err.Error(), m.width))
	}
	return view
}

// Watching returns the model of the running session, if any.
func (m SpectatorModel) Watching() *Model {
	return m.watch
}
