package main

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-osu/internal/platform/tui"
	"github.com/vovakirdan/tui-osu/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresAll   bool
	flagScoresTUI   bool
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [beatmap.osu]",
	Short: "Show scores",
	Long: `Display the top scores of a beatmap, statistics for every played
beatmap, or the interactive scoreboard.

Failed plays are counted in the statistics but never ranked.

Examples:
  osu scores ./maps/song.osu
  osu scores ./maps/song.osu --limit 20
  osu scores --all
  osu scores --tui`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVarP(&flagScoresLimit, "limit", "n", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagScoresAll, "all", false, "Show statistics for every played beatmap")
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Open the interactive scoreboard")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete every score of the beatmap")
}

func runScores(_ *cobra.Command, args []string) error {
	logger := newLogger()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	switch {
	case flagScoresTUI:
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		_, err := tui.RunScoreboard(store, width, height)
		return err
	case flagScoresAll:
		return printAllStats(store)
	}

	b, err := loadBeatmap(args, logger)
	if err != nil {
		return err
	}

	if flagScoresClear {
		if err := store.ClearScores(b.Checksum); err != nil {
			return err
		}
		fmt.Printf("Cleared scores of %s\n", b.String())
		return nil
	}

	scores, err := store.TopScores(b.Checksum, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", b.String())
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'osu play' on this beatmap to set the first high score!")
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-12s  %-10s  %-7s  %-6s  %-5s  %-8s  %s\n", "Rank", "Player", "Score", "Acc", "Combo", "Grade", "Mods", "Date")
	fmt.Printf("  %-4s  %-12s  %-10s  %-7s  %-6s  %-5s  %-8s  %s\n", "----", "------", "-----", "---", "-----", "-----", "----", "----")

	for i, r := range scores {
		fmt.Printf("  %-4d  %-12s  %-10d  %6.2f%%  %5dx  %-5s  %-8s  %s\n",
			i+1, r.Player, r.Score, r.Accuracy, r.MaxCombo, r.Grade, r.Mods, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.GetBeatmapStats(b.Checksum)
	if err == nil {
		fmt.Println()
		fmt.Printf("Plays: %d (%d failed)  Average accuracy: %.2f%%\n", stats.Plays, stats.Fails, stats.AvgAccuracy)
	}
	return nil
}

func printAllStats(store *storage.Store) error {
	all, err := store.GetAllBeatmapStats()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		return errors.New("no plays recorded yet")
	}

	stats := make([]*storage.BeatmapStats, 0, len(all))
	for _, st := range all {
		stats = append(stats, st)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].LastPlayed.After(stats[j].LastPlayed) })

	fmt.Printf("  %-40s  %5s  %5s  %-10s  %-7s  %s\n", "Beatmap", "Plays", "Fails", "Best", "Acc", "Last played")
	for _, st := range stats {
		name := st.Beatmap
		if len(name) > 40 {
			name = name[:39] + "."
		}
		fmt.Printf("  %-40s  %5d  %5d  %-10d  %6.2f%%  %s\n",
			name, st.Plays, st.Fails, st.BestScore, st.AvgAccuracy, st.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}
