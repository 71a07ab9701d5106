package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-osu/internal/core"
	"github.com/vovakirdan/tui-osu/internal/replay"
	"github.com/vovakirdan/tui-osu/internal/scoring"
	"github.com/vovakirdan/tui-osu/internal/session"
)

var (
	flagSimMods   string
	flagSimReplay string
	flagSimStep   int
	flagSimTrace  bool
	flagSimOut    string
)

// maxSimTicks bounds a headless run; the demo map needs a few thousand.
const maxSimTicks = 1 << 20

var simulateCmd = &cobra.Command{
	Use:   "simulate [beatmap.osu]",
	Short: "Run autoplay or a replay headless",
	Long: `Run a session without a terminal UI and print the result. Without
--replay the map is played by autoplay with the given mods.

The replay recorded during an autoplay run can be written with --out and
watched later.

Examples:
  osu simulate
  osu simulate ./maps/song.osu --mods HR --trace
  osu simulate ./maps/song.osu --replay ./replays/play.osr.yaml
  osu simulate ./maps/song.osu --out ./replays`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVarP(&flagSimMods, "mods", "m", "", "Mods for autoplay")
	simulateCmd.Flags().StringVarP(&flagSimReplay, "replay", "r", "", "Replay file to run instead of autoplay")
	simulateCmd.Flags().IntVar(&flagSimStep, "step", 0, "Tick length in ms (0 = from tick rate)")
	simulateCmd.Flags().BoolVar(&flagSimTrace, "trace", false, "Print every judgement")
	simulateCmd.Flags().StringVar(&flagSimOut, "out", "", "Directory to write the recorded replay to")
}

func runSimulate(_ *cobra.Command, args []string) error {
	logger := newLogger()

	b, err := loadBeatmap(args, logger)
	if err != nil {
		return err
	}
	cfg, err := loadSession(flagSimMods, nil)
	if err != nil {
		return err
	}

	var r *replay.Replay
	if flagSimReplay != "" {
		r, err = replay.Load(flagSimReplay)
		if err != nil {
			return err
		}
	}

	s, err := session.New(session.Options{
		Beatmap: b,
		Config:  autoplayConfig(cfg, logger),
		Replay:  r,
		Logger:  logger,
	})
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

	step := flagSimStep
	if step <= 0 {
		step = cfg.TickMillis()
	}

	for i := 0; s.Outcome() == nil; i++ {
		if i == maxSimTicks {
			return errors.New("simulation did not reach the end of the map")
		}
		var results []scoring.HitResult
		if r != nil {
			results = s.TickReplay(step)
		} else {
			results = s.Tick(step, core.Frame{})
		}
		if flagSimTrace {
			for _, h := range results {
				traceResult(h)
			}
		}
	}

	printOutcome(s)
	st := s.Outcome().State
	fmt.Printf("  300 %d  100 %d  50 %d  miss %d  geki %d  katu %d\n",
		st.Counts[scoring.Hit300], st.Counts[scoring.Hit100], st.Counts[scoring.Hit50], st.Counts[scoring.Miss],
		st.Geki, st.Katu)

	if flagSimOut != "" && s.Outcome().Replay != nil {
		path, err := replay.Save(flagSimOut, s.Outcome().Replay)
		if err != nil {
			return err
		}
		fmt.Printf("  Replay: %s\n", path)
	}
	return nil
}

func traceResult(h scoring.HitResult) {
	if h.Result == scoring.SpinnerHold {
		return
	}
	kind := "object"
	if h.Tick {
		kind = "tick"
	}
	end := ""
	if h.ComboEnd {
		end = " combo-end"
	}
	fmt.Printf("%8d  #%-4d %-6s %s%s\n", h.Time, h.Object, kind, h.Result, end)
}
