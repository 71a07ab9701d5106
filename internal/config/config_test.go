package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-osu/internal/difficulty"
	"github.com/vovakirdan/tui-osu/internal/mods"
)

func TestEmbeddedDefaultsBuild(t *testing.T) {
	// Run from an empty directory so ./configs is not picked up.
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if s.Player != "guest" || s.Mods != mods.None || s.TickRate != 60 {
		t.Errorf("session = %+v", s)
	}
	if s.Keys.K1 != "z" || s.Keys.K2 != "x" {
		t.Errorf("keys = %+v", s.Keys)
	}
	if !s.SaveReplays || filepath.Base(s.ReplayDir) != "replays" {
		t.Errorf("replays: dir=%q save=%v", s.ReplayDir, s.SaveReplays)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	data := []byte(`
player: cookiezi
mods: [HD, HardRock]
difficulty:
  ar: 9.5
audio:
  offset: -25
tick_rate: 120
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if s.Player != "cookiezi" || s.Mods != mods.Hidden|mods.HardRock {
		t.Errorf("player=%q mods=%v", s.Player, s.Mods)
	}
	if s.Overrides.AR == nil || *s.Overrides.AR != 9.5 || s.Overrides.OD != nil {
		t.Errorf("overrides = %+v", s.Overrides)
	}
	if s.Offset != -25 || s.TickRate != 120 || s.TickMillis() != 8 {
		t.Errorf("offset=%d tick=%d", s.Offset, s.TickRate)
	}
	// Defaults survive for fields the file leaves out.
	if s.Keys.K1 != "z" {
		t.Errorf("K1 = %q, want default", s.Keys.K1)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load of a missing custom path should fail")
	}
}

func TestBuildRejects(t *testing.T) {
	bad := 11.0
	tests := []struct {
		name string
		edit func(*SessionConfig)
	}{
		{"unknown mod", func(c *SessionConfig) { c.Mods = []string{"XX"} }},
		{"conflicting mods", func(c *SessionConfig) { c.Mods = []string{"EZ", "HR"} }},
		{"override out of range", func(c *SessionConfig) { c.Difficulty.OD = &bad }},
		{"same keys", func(c *SessionConfig) { c.Keys = KeyBindings{K1: "a", K2: "A"} }},
		{"tick rate", func(c *SessionConfig) { c.TickRate = -5 }},
		{"offset", func(c *SessionConfig) { c.Audio.Offset = 900 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSessionConfig()
			tt.edit(&cfg)
			if _, err := cfg.Build(); err == nil {
				t.Error("Build should fail")
			}
		})
	}
}

func TestApplyOverride(t *testing.T) {
	var o difficulty.Overrides
	if err := ApplyOverride(&o, "AR=9"); err != nil {
		t.Fatalf("ApplyOverride: %v", err)
	}
	if err := ApplyOverride(&o, " od = 7.5 "); err != nil {
		t.Fatalf("ApplyOverride: %v", err)
	}
	if o.AR == nil || *o.AR != 9 || o.OD == nil || *o.OD != 7.5 || o.CS != nil {
		t.Errorf("overrides = %+v", o)
	}

	for _, expr := range []string{"ar", "zz=1", "hp=abc", "cs=12"} {
		if err := ApplyOverride(&o, expr); !errors.Is(err, ErrInvalid) {
			t.Errorf("ApplyOverride(%q) error = %v, want ErrInvalid", expr, err)
		}
	}
}
