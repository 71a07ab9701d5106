package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-osu/internal/beatmap"
	"github.com/vovakirdan/tui-osu/internal/clock"
	"github.com/vovakirdan/tui-osu/internal/config"
	"github.com/vovakirdan/tui-osu/internal/core"
	"github.com/vovakirdan/tui-osu/internal/mods"
	"github.com/vovakirdan/tui-osu/internal/storage"
)

// newLogger returns a stderr logger; --verbose enables debug output.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "osu",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// uiLogger returns a logger that does not write over the alternate screen.
// With --verbose it appends to ~/.osu/debug.log.
func uiLogger() (*log.Logger, func()) {
	if !flagVerbose {
		return log.New(io.Discard), func() {}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return log.New(io.Discard), func() {}
	}
	path := filepath.Join(home, ".osu", "debug.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return log.New(io.Discard), func() {}
	}
	logger := log.NewWithOptions(f, log.Options{ReportTimestamp: true, Prefix: "osu"})
	logger.SetLevel(log.DebugLevel)
	return logger, func() { f.Close() }
}

// loadSession loads and validates the session config. modsFlag, when set,
// replaces the configured mods.
func loadSession(modsFlag string, overrides []string) (config.Session, error) {
	raw, err := config.Load(flagConfig)
	if err != nil {
		return config.Session{}, err
	}
	if flagFPS > 0 {
		raw.TickRate = flagFPS
	}
	for _, expr := range overrides {
		if err := config.ApplyOverride(&raw.Difficulty, expr); err != nil {
			return config.Session{}, err
		}
	}
	cfg, err := raw.Build()
	if err != nil {
		return config.Session{}, err
	}
	if modsFlag != "" {
		m, err := mods.ParseString(modsFlag)
		if err != nil {
			return config.Session{}, err
		}
		cfg = cfg.WithMods(m)
	}
	return cfg, nil
}

// loadBeatmap decodes the beatmap at path, or returns the demo map when no
// path is given.
func loadBeatmap(args []string, logger *log.Logger) (*beatmap.Beatmap, error) {
	if len(args) == 0 || args[0] == "demo" {
		return beatmap.Demo(), nil
	}
	return beatmap.DecodeFile(args[0], logger)
}

// audioClock opens the WAV file at path as the session clock. An empty
// path leaves the session on its built-in clock.
func audioClock(path string) (clock.AudioClock, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	st, err := clock.OpenAudio(path)
	if err != nil {
		return nil, nil, err
	}
	return st, func() { st.Close() }, nil
}

// terminalConfig returns the terminal size and tick rate.
func terminalConfig(cfg config.Session) core.RuntimeConfig {
	rc := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		rc.ScreenW = w
		rc.ScreenH = h
	}
	rc.TickRate = cfg.TickRate
	return rc
}

// openStore opens the score database with the configured replay directory.
// Sessions still run without storage, so failures only warn.
func openStore(cfg config.Session, logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		return nil
	}
	if cfg.ReplayDir != "" {
		if err := store.SetReplayDir(cfg.ReplayDir); err != nil {
			logger.Warn("could not use replay directory", "dir", cfg.ReplayDir, "error", err)
		}
	}
	return store
}

func modsArg(m mods.Mods) string {
	return fmt.Sprintf("%s (x%.2f)", m, m.ScoreMultiplier())
}
