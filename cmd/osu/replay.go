package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-osu/internal/replay"
)

var flagReplayFrames int

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Inspect a replay file",
	Long: `Print the metadata, score summary and life bar of a replay file.

Examples:
  osu replay ./replays/abcd1234-20240301-120000.000.osr.yaml
  osu replay ./replays/play.osr.yaml --frames 20`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().IntVar(&flagReplayFrames, "frames", 0, "Print the first N input frames")
}

func runReplay(_ *cobra.Command, args []string) error {
	r, err := replay.Load(args[0])
	if err != nil {
		return err
	}

	sum := r.Summary
	fmt.Printf("Replay %s\n", args[0])
	fmt.Printf("  Version:   %d\n", r.Version)
	fmt.Printf("  Beatmap:   %s\n", r.BeatmapChecksum)
	fmt.Printf("  Player:    %s\n", r.Player)
	fmt.Printf("  Mods:      %s\n", r.Mods)
	fmt.Printf("  Recorded:  %s\n", r.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("  Score:     %d  (%dx%s)\n", sum.Score, sum.MaxCombo, perfectMark(sum.Perfect))
	fmt.Printf("  Hits:      300 %d  100 %d  50 %d  miss %d  geki %d  katu %d\n",
		sum.Hit300, sum.Hit100, sum.Hit50, sum.Miss, sum.Geki, sum.Katu)
	fmt.Printf("  Frames:    %d over %s\n", len(r.Body()), clockTime(r.Duration()))
	if r.SkipTime > 0 {
		fmt.Printf("  Skipped:   intro to %s\n", clockTime(r.SkipTime))
	}

	if len(r.LifeFrames) > 0 {
		lowest := r.LifeFrames[0]
		for _, lf := range r.LifeFrames {
			if lf.Ratio < lowest.Ratio {
				lowest = lf
			}
		}
		fmt.Printf("  Life:      %d samples, lowest %.0f%% at %s\n", len(r.LifeFrames), lowest.Ratio*100, clockTime(lowest.Time))
	}

	if flagReplayFrames > 0 {
		fmt.Println()
		fmt.Printf("  %8s  %6s  %7s  %7s  %s\n", "Time", "Diff", "X", "Y", "Keys")
		for _, f := range r.Body()[:min(flagReplayFrames, len(r.Body()))] {
			fmt.Printf("  %8d  %6d  %7.1f  %7.1f  %s\n", f.Time, f.TimeDiff, f.X, f.Y, f.Keys)
		}
	}
	return nil
}

func perfectMark(perfect bool) string {
	if perfect {
		return ", perfect"
	}
	return ""
}
