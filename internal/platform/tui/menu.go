package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-osu/internal/beatmap"
	"github.com/vovakirdan/tui-osu/internal/storage"
)

// MenuItem is one entry of the spectator menu.
type MenuItem struct {
	Title string
	// Replay is the replay to watch; nil watches autoplay.
	Replay *storage.ReplayEntry
	// Scoreboard opens the score tables instead of a session.
	Scoreboard bool
}

// MenuModel is the Bubble Tea model for the spectator menu.
type MenuModel struct {
	items    []MenuItem
	cursor   int
	width    int
	height   int
	title    string
	quitting bool
	selected *MenuItem // Set when user selects an entry
}

// NewMenuModel lists autoplay, the saved replays of b and the scoreboard.
// A nil store lists autoplay only.
func NewMenuModel(store *storage.Store, b *beatmap.Beatmap, width, height int) MenuModel {
	items := []MenuItem{{Title: "Watch autoplay"}}

	if store != nil {
		// Listing is best effort; the menu still offers autoplay.
		entries, _ := store.Replays(b.Checksum)
		for i := range entries {
			e := entries[i]
			items = append(items, MenuItem{
				Title:  fmt.Sprintf("Replay: %s  %d  %s", e.Player, e.Score, e.Mods),
				Replay: &e,
			})
		}
		items = append(items, MenuItem{Title: "Scoreboard", Scoreboard: true})
	}

	return MenuModel{
		items:  items,
		width:  width,
		height: height,
		title:  b.String(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit // Exit menu to start watching
		}
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("  o s u !  ", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.title, m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+item.Title, m.width))
		b.WriteString("\n")
	}

	// Footer with controls
	b.WriteString("\n")
	b.WriteString(centerText("Up/Down: Navigate  |  Enter: Select  |  Q: Quit", m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}
