package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-osu/internal/platform/tui"
	"github.com/vovakirdan/tui-osu/internal/session"
)

var (
	flagPlayMods      string
	flagSelectMods    bool
	flagAudio         string
	flagPlayOverrides []string
)

var playCmd = &cobra.Command{
	Use:   "play [beatmap.osu]",
	Short: "Play a beatmap",
	Long: `Play a beatmap in the terminal. Aim with the mouse and hit with the
mouse buttons or the K1/K2 keys.

Controls:
  z/x (config) - K1/K2
  Mouse        - Aim, left/right button hit
  Space        - Skip intro
  P/Esc        - Pause
  Ctrl+R       - Retry
  Q/Ctrl+C     - Quit

Examples:
  osu play
  osu play ./maps/song.osu
  osu play ./maps/song.osu --mods HDHR
  osu play ./maps/song.osu --select-mods
  osu play ./maps/song.osu --audio ./maps/song.wav`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVarP(&flagPlayMods, "mods", "m", "", "Mods, e.g. HDHR or hidden,hardrock")
	playCmd.Flags().BoolVar(&flagSelectMods, "select-mods", false, "Pick mods interactively before playing")
	playCmd.Flags().StringVar(&flagAudio, "audio", "", "WAV file driving the clock")
	playCmd.Flags().StringArrayVar(&flagPlayOverrides, "override", nil, "Fixed stat, e.g. ar=9.5 (repeatable)")
}

func runPlay(_ *cobra.Command, args []string) error {
	b, err := loadBeatmap(args, newLogger())
	if err != nil {
		return err
	}
	cfg, err := loadSession(flagPlayMods, flagPlayOverrides)
	if err != nil {
		return err
	}
	rc := terminalConfig(cfg)

	if flagSelectMods {
		selected, ok, selErr := tui.RunModSelector(b.String(), cfg.Mods, rc.ScreenW, rc.ScreenH)
		if selErr != nil {
			return selErr
		}
		// User pressed back or quit
		if !ok {
			return nil
		}
		cfg = cfg.WithMods(selected)
	}

	// Open score storage; the game still works without it
	store := openStore(cfg, newLogger())
	if store != nil {
		defer store.Close()
	}

	c, closeClock, err := audioClock(flagAudio)
	if err != nil {
		return err
	}
	defer closeClock()

	logger, closeLog := uiLogger()
	defer closeLog()

	opts := session.Options{
		Beatmap: b,
		Config:  cfg,
		Clock:   c,
		Logger:  logger,
	}
	if store != nil {
		opts.Scores = store
		opts.Replays = store
	}

	s, field, err := tui.NewSession(opts)
	if err != nil {
		return err
	}
	if err := s.Start(session.FirstLoad); err != nil {
		return err
	}

	if err := tui.Run(s, field, cfg, rc.ScreenW, rc.ScreenH); err != nil {
		return fmt.Errorf("running session: %w", err)
	}

	printOutcome(s)
	return nil
}

// printOutcome writes the result of a finished or failed play to stdout.
func printOutcome(s *session.Session) {
	out := s.Outcome()
	if out == nil {
		return
	}
	st := out.State
	status := "Cleared"
	if out.Failed {
		status = "Failed at " + clockTime(out.FailTime)
	}
	fmt.Printf("%s - %s\n", s.Beatmap().String(), status)
	fmt.Printf("  Score %d  Accuracy %.2f%%  Grade %s  Combo %dx  Mods %s\n",
		st.Score, st.Accuracy(), st.Grade(), st.MaxCombo, st.Mods)
	if out.Submitted {
		fmt.Printf("  Saved as score #%d\n", out.RecordID)
	}
	if out.ReplayPath != "" {
		fmt.Printf("  Replay: %s\n", out.ReplayPath)
	}
}
