package config

import (
	_ "embed"
)

//go:embed defaults/session.yaml
var defaultSessionYAML []byte

// DefaultSessionConfig returns the default session configuration.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Player:   "guest",
		Keys:     KeyBindings{K1: "z", K2: "x"},
		TickRate: 60,
		Replays: ReplayConfig{
			Dir:  "~/.osu/replays",
			Save: true,
		},
	}
}
