package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-osu/internal/mods"
)

// ModSelectModel lets the player toggle mods before a play. Conflicting
// combinations are refused when the player confirms.
type ModSelectModel struct {
	choices  []mods.Mods
	cursor   int
	active   mods.Mods
	title    string
	width    int
	height   int
	err      error
	choosing bool
	quitting bool
	back     bool
}

// NewModSelectModel creates a selector starting from the given mods.
func NewModSelectModel(title string, initial mods.Mods, width, height int) ModSelectModel {
	var choices []mods.Mods
	for _, short := range mods.Known() {
		if m, err := mods.ParseString(short); err == nil {
			choices = append(choices, m)
		}
	}
	return ModSelectModel{
		choices:  choices,
		active:   initial,
		title:    title,
		width:    width,
		height:   height,
		choosing: true,
	}
}

// Init initializes the model.
func (m ModSelectModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m ModSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

func (m ModSelectModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Enter toggles a mod row and confirms on the Start row.
	switch msg.String() {
	case " ", "x":
		if m.cursor < len(m.choices) {
			m.active ^= m.choices[m.cursor]
			m.err = nil
		}
		return m, nil
	case "enter":
		if m.cursor < len(m.choices) {
			m.active ^= m.choices[m.cursor]
			m.err = nil
			return m, nil
		}
		if err := m.active.Validate(); err != nil {
			m.err = err
			return m, nil
		}
		m.choosing = false
		return m, tea.Quit
	}

	switch MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(m.choices) { // last row is Start
			m.cursor++
		}
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the mod list.
func (m ModSelectModel) View() string {
	if m.quitting || m.back {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(m.title, m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("Mods: %s  (score x%.2f)", m.active, m.active.ScoreMultiplier()), m.width))
	b.WriteString("\n\n")

	for i, mod := range m.choices {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		mark := "[ ]"
		if m.active.Has(mod) {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s%s %s %-12s x%.2f", cursor, mark, mod, mod.Names()[0], mod.ScoreMultiplier())
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	cursor := "  "
	if m.cursor == len(m.choices) {
		cursor = "> "
	}
	b.WriteString("\n")
	b.WriteString(centerText(cursor+"Start", m.width))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(dangerStyle.Render(centerText(m.err.Error(), m.width)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Space: Toggle  |  Enter: Start  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

// Selected returns the chosen mods, or false while still choosing or after
// the player left.
func (m ModSelectModel) Selected() (mods.Mods, bool) {
	if m.choosing || m.quitting || m.back {
		return mods.None, false
	}
	return m.active, true
}

// RunModSelector runs the mod selection and returns the chosen mods. ok is
// false when the player backed out.
func RunModSelector(title string, initial mods.Mods, width, height int) (selected mods.Mods, ok bool, err error) {
	model := NewModSelectModel(title, initial, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return mods.None, false, err
	}

	m, isModel := finalModel.(ModSelectModel)
	if !isModel {
		return mods.None, false, nil
	}

	selected, ok = m.Selected()
	return selected, ok, nil
}
