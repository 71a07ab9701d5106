// osu is a terminal osu! player: it plays beatmaps with the mouse, watches
// autoplay and replays, and keeps a local score board.
//
// Usage:
//
//	osu info [beatmap.osu]      - Show beatmap and difficulty details
//	osu play [beatmap.osu]      - Play a beatmap
//	osu watch [beatmap.osu]     - Watch autoplay or a replay
//	osu simulate [beatmap.osu]  - Run autoplay or a replay headless
//	osu replay <file>           - Inspect a replay file
//	osu scores [beatmap.osu]    - Show scores
//	osu serve [beatmap.osu]     - Start SSH spectator server
//
// Without a beatmap argument the built-in demo map is used.
//
// Global flags:
//
//	--db <path>      - Set database path (default: ~/.osu/scores.db)
//	--config <path>  - Session config YAML
//	--fps <rate>     - Set tick rate (overrides the config)
//	--verbose        - Debug logging
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagDBPath  string
	flagConfig  string
	flagFPS     int
	flagVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "osu",
	Short: "osu! in your terminal",
	Long: `osu is a terminal client for osu! standard beatmaps.

Available commands:
  info      - Beatmap and difficulty details
  play      - Play a beatmap with the mouse and keyboard
  watch     - Watch autoplay or a saved replay
  simulate  - Run autoplay or a replay without a terminal UI
  replay    - Inspect a replay file
  scores    - View scores
  serve     - Start SSH server for spectators

Examples:
  osu info ./maps/song.osu
  osu play ./maps/song.osu --mods HDHR
  osu watch --replay ~/.osu/replays/abcd1234-20240301-120000.000.osr.yaml
  osu simulate --mods HR
  osu scores ./maps/song.osu
  osu serve --ssh :2222`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.osu/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to session config YAML")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (0 = from config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")

	// Add subcommands
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}
