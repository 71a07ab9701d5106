package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-osu/internal/beatmap"
	"github.com/vovakirdan/tui-osu/internal/clock"
	"github.com/vovakirdan/tui-osu/internal/config"
	"github.com/vovakirdan/tui-osu/internal/mods"
	"github.com/vovakirdan/tui-osu/internal/platform/tui"
	"github.com/vovakirdan/tui-osu/internal/replay"
	"github.com/vovakirdan/tui-osu/internal/session"
	"github.com/vovakirdan/tui-osu/internal/storage"
)

var (
	flagWatchMods   string
	flagWatchReplay string
	flagWatchID     int64
	flagWatchAudio  string
	flagWatchSpeed  string
)

var watchCmd = &cobra.Command{
	Use:   "watch [beatmap.osu]",
	Short: "Watch autoplay or a replay",
	Long: `Watch a beatmap being played: by autoplay, or from a replay file or a
replay saved in the scores database.

A replay file that does not exist falls back to autoplay.

Controls:
  Left/Right - Seek 5s (replays)
  S          - Cycle speed 1x, 2x, 0.5x (replays)
  P/Esc      - Pause
  Q/Ctrl+C   - Quit

Examples:
  osu watch ./maps/song.osu
  osu watch ./maps/song.osu --mods HD
  osu watch ./maps/song.osu --replay ./replays/abcd1234-20240301-120000.000.osr.yaml
  osu watch ./maps/song.osu --id 3
  osu watch ./maps/song.osu --id 3 --speed 2x`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&flagWatchMods, "mods", "m", "", "Mods for autoplay")
	watchCmd.Flags().StringVarP(&flagWatchReplay, "replay", "r", "", "Replay file to watch")
	watchCmd.Flags().Int64Var(&flagWatchID, "id", 0, "Replay id in the scores database")
	watchCmd.Flags().StringVar(&flagWatchAudio, "audio", "", "WAV file driving the clock")
	watchCmd.Flags().StringVar(&flagWatchSpeed, "speed", "1x", "Replay playback speed (0.5x, 1x or 2x)")
}

func runWatch(_ *cobra.Command, args []string) error {
	logger := newLogger()

	b, err := loadBeatmap(args, logger)
	if err != nil {
		return err
	}
	cfg, err := loadSession(flagWatchMods, nil)
	if err != nil {
		return err
	}
	speed, err := clock.ParseSpeed(flagWatchSpeed)
	if err != nil {
		return err
	}

	var store *storage.Store
	if flagWatchID != 0 {
		store = openStore(cfg, logger)
		if store == nil {
			return errors.New("no scores database to load the replay from")
		}
		defer store.Close()
	}

	r, err := watchedReplay(b, store, logger)
	if err != nil {
		return err
	}

	c, closeClock, err := audioClock(flagWatchAudio)
	if err != nil {
		return err
	}
	defer closeClock()

	uiLog, closeLog := uiLogger()
	defer closeLog()

	opts := session.Options{
		Beatmap: b,
		Config:  autoplayConfig(cfg, logger),
		Replay:  r,
		Clock:   c,
		Logger:  uiLog,
	}
	s, field, err := tui.NewSession(opts)
	if err != nil {
		return err
	}
	state := session.Normal
	if r != nil {
		state = session.Replay
	}
	if err := s.Start(state); err != nil {
		return err
	}
	if speed != clock.SpeedNormal {
		if err := s.SetSpeed(speed); err != nil {
			logger.Warn("playback speed only applies to replays", "speed", speed)
		}
	}

	rc := terminalConfig(cfg)
	if err := tui.Run(s, field, cfg, rc.ScreenW, rc.ScreenH); err != nil {
		return fmt.Errorf("running session: %w", err)
	}
	return nil
}

// watchedReplay loads the replay named by --replay or --id. A missing
// replay file yields nil so the caller watches autoplay instead.
func watchedReplay(b *beatmap.Beatmap, store *storage.Store, logger *log.Logger) (*replay.Replay, error) {
	var (
		r   *replay.Replay
		err error
	)
	switch {
	case flagWatchID != 0:
		r, err = store.LoadReplay(flagWatchID)
	case flagWatchReplay != "":
		r, err = replay.Load(flagWatchReplay)
	default:
		return nil, nil
	}

	if errors.Is(err, replay.ErrNotFound) {
		logger.Warn("replay not found, watching autoplay", "error", err)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if r.BeatmapChecksum != b.Checksum {
		return nil, fmt.Errorf("replay was recorded on beatmap %s, not %s", r.BeatmapChecksum, b.Checksum)
	}
	return r, nil
}

// autoplayConfig adds Auto to the configured mods, dropping them when they
// cannot run with Auto.
func autoplayConfig(cfg config.Session, logger *log.Logger) config.Session {
	m := cfg.Mods | mods.Auto
	if err := m.Validate(); err != nil {
		logger.Warn("mods cannot be combined with autoplay", "mods", cfg.Mods, "error", err)
		m = mods.Auto
	}
	return cfg.WithMods(m)
}
