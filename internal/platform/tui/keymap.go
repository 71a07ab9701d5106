package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-osu/internal/config"
	"github.com/vovakirdan/tui-osu/internal/core"
)

const (
	// defaultHold is how long a keyboard button counts as held after its
	// last press.
	defaultHold = 250
	// retapGap is the shortest gap between two presses of a held button
	// that counts as a new tap rather than auto-repeat.
	retapGap = 90
)

// KeyMap defines the key bindings of the play and watch screens.
type KeyMap struct {
	K1          key.Binding
	K2          key.Binding
	Pause       key.Binding
	Skip        key.Binding
	Retry       key.Binding
	SeekBack    key.Binding
	SeekForward key.Binding
	Speed       key.Binding
	Quit        key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.K1, k.K2, k.Skip, k.Pause, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.K1, k.K2, k.Skip},
		{k.Pause, k.Retry, k.SeekBack, k.SeekForward, k.Speed},
		{k.Quit},
	}
}

// NewKeyMap builds the bindings for the configured K1/K2 keys.
func NewKeyMap(kb config.KeyBindings) KeyMap {
	return KeyMap{
		K1: key.NewBinding(
			key.WithKeys(kb.K1),
			key.WithHelp(kb.K1, "K1"),
		),
		K2: key.NewBinding(
			key.WithKeys(kb.K2),
			key.WithHelp(kb.K2, "K2"),
		),
		Pause: key.NewBinding(
			key.WithKeys("esc", "p"),
			key.WithHelp("esc/p", "pause"),
		),
		Skip: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "skip intro"),
		),
		Retry: key.NewBinding(
			key.WithKeys("ctrl+r", "`"),
			key.WithHelp("ctrl+r", "retry"),
		),
		SeekBack: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "-5s"),
		),
		SeekForward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "+5s"),
		),
		Speed: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "speed"),
			key.WithDisabled(),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// WatchMode drops the bindings that only make sense while playing.
func (k KeyMap) WatchMode(replay bool) KeyMap {
	k.K1.SetEnabled(false)
	k.K2.SetEnabled(false)
	k.Retry.SetEnabled(false)
	k.Skip.SetEnabled(false)
	k.SeekBack.SetEnabled(replay)
	k.SeekForward.SetEnabled(replay)
	k.Speed.SetEnabled(replay)
	return k
}

// Buttons tracks which game buttons are held. Terminals report key presses
// but not releases, so a keyboard button counts as held for a while after
// its last press. Mouse buttons report both edges.
type Buttons struct {
	hold      int
	heldUntil [2]int
	lastPress [2]int
	pressed   [2]bool
	retap     [2]bool
	mouse     core.Keys
}

// NewButtons creates a tracker that holds keyboard buttons for hold ms.
func NewButtons(hold int) *Buttons {
	if hold <= 0 {
		hold = defaultHold
	}
	return &Buttons{hold: hold}
}

func slot(k core.Keys) int {
	if k == core.KeyK2 {
		return 1
	}
	return 0
}

// Press registers a keyboard press of K1 or K2 at time now.
func (b *Buttons) Press(k core.Keys, now int) {
	i := slot(k)
	if b.held(i, now) && now-b.lastPress[i] >= retapGap {
		b.retap[i] = true
	}
	b.pressed[i] = true
	b.lastPress[i] = now
	b.heldUntil[i] = now + b.hold
}

// Mouse sets the state of a mouse button (core.KeyM1 or core.KeyM2).
func (b *Buttons) Mouse(k core.Keys, down bool) {
	if down {
		b.mouse |= k
	} else {
		b.mouse &^= k
	}
}

func (b *Buttons) held(i, now int) bool {
	return b.pressed[i] && now < b.heldUntil[i]
}

// Keys returns the held buttons at time now. A button tapped again while
// still held reads as released for one call so the tap registers as a new
// press.
func (b *Buttons) Keys(now int) core.Keys {
	k := b.mouse
	for i, bit := range [2]core.Keys{core.KeyK1, core.KeyK2} {
		switch {
		case b.retap[i]:
			b.retap[i] = false
		case b.held(i, now):
			k |= bit
		}
	}
	return k
}

// Release drops every held button.
func (b *Buttons) Release() {
	*b = Buttons{hold: b.hold}
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	}

	return MenuActionNone
}
