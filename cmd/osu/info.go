package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-osu/internal/difficulty"
)

var (
	flagInfoMods      string
	flagInfoOverrides []string
)

var infoCmd = &cobra.Command{
	Use:   "info [beatmap.osu]",
	Short: "Show beatmap and difficulty details",
	Long: `Show the beatmap metadata, object counts and the timing windows,
sizes and health drain the judgement engine derives for the chosen mods.

Examples:
  osu info ./maps/song.osu
  osu info ./maps/song.osu --mods HR
  osu info --override ar=9.5 --override od=8`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().StringVarP(&flagInfoMods, "mods", "m", "", "Mods, e.g. HDHR or hidden,hardrock")
	infoCmd.Flags().StringArrayVar(&flagInfoOverrides, "override", nil, "Fixed stat, e.g. ar=9.5 (repeatable)")
}

func runInfo(_ *cobra.Command, args []string) error {
	logger := newLogger()

	b, err := loadBeatmap(args, logger)
	if err != nil {
		return err
	}
	cfg, err := loadSession(flagInfoMods, flagInfoOverrides)
	if err != nil {
		return err
	}

	raw := difficulty.FromBeatmap(b.Difficulty)
	stats := difficulty.Adjust(raw, cfg.Mods, cfg.Overrides)
	params := difficulty.Calculate(stats)
	drop := difficulty.DropRate(b, stats.HP, params.ApproachTime)

	var circles, sliders, spinners int
	for _, o := range b.Objects {
		switch {
		case o.IsCircle():
			circles++
		case o.IsSlider():
			sliders++
		case o.IsSpinner():
			spinners++
		}
	}

	fmt.Println(b.String())
	fmt.Printf("  Creator:   %s\n", b.Creator)
	fmt.Printf("  Checksum:  %s\n", b.Checksum)
	if b.AudioFilename != "" {
		fmt.Printf("  Audio:     %s (lead-in %dms)\n", b.AudioFilename, b.AudioLeadIn)
	}
	fmt.Printf("  Objects:   %d (%d circles, %d sliders, %d spinners)\n", len(b.Objects), circles, sliders, spinners)
	fmt.Printf("  Length:    %s (drain %s, %d breaks)\n", clockTime(b.LastTime()), clockTime(b.DrainLength()), len(b.Breaks))
	fmt.Println()

	fmt.Printf("Difficulty with %s\n", modsArg(cfg.Mods))
	fmt.Printf("  %-4s  %5s  %5s\n", "Stat", "Raw", "Used")
	fmt.Printf("  %-4s  %5.1f  %5.2f\n", "CS", raw.CS, stats.CS)
	fmt.Printf("  %-4s  %5.1f  %5.2f\n", "AR", raw.AR, stats.AR)
	fmt.Printf("  %-4s  %5.1f  %5.2f\n", "OD", raw.OD, stats.OD)
	fmt.Printf("  %-4s  %5.1f  %5.2f\n", "HP", raw.HP, stats.HP)
	fmt.Println()

	fmt.Printf("  Circle diameter:  %.1fpx\n", params.CircleDiameter)
	fmt.Printf("  Approach time:    %dms\n", params.ApproachTime)
	fmt.Printf("  Hit windows:      300 ±%dms  100 ±%dms  50 ±%dms  miss %dms\n",
		params.Window300, params.Window100, params.Window50, params.MissWindow)
	fmt.Printf("  HP drain:         %.5f/ms (x%.2f normal, x%.2f combo end)\n",
		drop.Rate, drop.MultiplierNormal, drop.MultiplierComboEnd)
	fmt.Printf("  Score difficulty: %d\n", difficulty.ScoreDifficulty(b))

	return nil
}

func clockTime(ms int) string {
	return fmt.Sprintf("%d:%02d", ms/60000, ms/1000%60)
}
