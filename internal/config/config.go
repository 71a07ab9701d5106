// Package config provides YAML-based session configuration: the mods,
// fixed difficulty overrides, key bindings and offsets a play runs with.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vovakirdan/tui-osu/internal/difficulty"
	"github.com/vovakirdan/tui-osu/internal/mods"
)

// ErrInvalid is wrapped by Build for unusable settings.
var ErrInvalid = errors.New("config: invalid session config")

// SessionConfig is the YAML document.
type SessionConfig struct {
	Player     string               `yaml:"player"`
	Mods       []string             `yaml:"mods"`
	Difficulty difficulty.Overrides `yaml:"difficulty"`
	Keys       KeyBindings          `yaml:"keys"`
	Audio      AudioConfig          `yaml:"audio"`
	TickRate   int                  `yaml:"tick_rate"`
	Replays    ReplayConfig         `yaml:"replays"`
}

// KeyBindings maps the two game keys to terminal key names.
type KeyBindings struct {
	K1 string `yaml:"k1"`
	K2 string `yaml:"k2"`
}

// AudioConfig holds audio timing settings.
type AudioConfig struct {
	Offset int `yaml:"offset"` // milliseconds added to every clock read
}

// ReplayConfig controls replay saving.
type ReplayConfig struct {
	Dir  string `yaml:"dir"`
	Save bool   `yaml:"save"`
}

// Session is the validated, immutable configuration of one play. It is
// built once and passed to the game; nothing reads settings from globals.
type Session struct {
	Player      string
	Mods        mods.Mods
	Overrides   difficulty.Overrides
	Keys        KeyBindings
	Offset      int
	TickRate    int
	ReplayDir   string
	SaveReplays bool
}

// TickMillis returns the duration of one tick in milliseconds.
func (s Session) TickMillis() int {
	if s.TickRate <= 0 {
		return 1000 / 60
	}
	return max(1, 1000/s.TickRate)
}

// WithMods returns a copy running with m.
func (s Session) WithMods(m mods.Mods) Session {
	s.Mods = m
	return s
}

// Build validates c and produces the session configuration.
func (c SessionConfig) Build() (Session, error) {
	m, err := mods.Parse(c.Mods)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := ValidateOverrides(c.Difficulty); err != nil {
		return Session{}, err
	}

	keys := c.Keys
	if keys.K1 == "" {
		keys.K1 = "z"
	}
	if keys.K2 == "" {
		keys.K2 = "x"
	}
	if strings.EqualFold(keys.K1, keys.K2) {
		return Session{}, fmt.Errorf("%w: k1 and k2 are both bound to %q", ErrInvalid, keys.K1)
	}

	tick := c.TickRate
	if tick == 0 {
		tick = 60
	}
	if tick < 1 || tick > 1000 {
		return Session{}, fmt.Errorf("%w: tick_rate %d not in [1, 1000]", ErrInvalid, tick)
	}
	if c.Audio.Offset < -500 || c.Audio.Offset > 500 {
		return Session{}, fmt.Errorf("%w: audio offset %d not in [-500, 500]", ErrInvalid, c.Audio.Offset)
	}

	player := strings.TrimSpace(c.Player)
	if player == "" {
		player = "guest"
	}

	return Session{
		Player:      player,
		Mods:        m,
		Overrides:   c.Difficulty,
		Keys:        keys,
		Offset:      c.Audio.Offset,
		TickRate:    tick,
		ReplayDir:   expandHome(c.Replays.Dir),
		SaveReplays: c.Replays.Save,
	}, nil
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
