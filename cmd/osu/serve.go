package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-osu/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve [beatmap.osu]",
	Short: "Start the SSH spectator server",
	Long: `Start an SSH server that lets users connect and watch a beatmap being
played by autoplay or from the replays saved in the scores database.

Each SSH connection gets its own session with a menu of autoplay, saved
replays and the scoreboard.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.osu/host_key

Examples:
  osu serve                              # Demo map on :23234
  osu serve ./maps/song.osu --ssh :2222  # Listen on port 2222
  osu serve --host-key ./my_host_key     # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, args []string) error {
	logger := newLogger()

	b, err := loadBeatmap(args, logger)
	if err != nil {
		return err
	}
	cfg, err := loadSession("", nil)
	if err != nil {
		return err
	}

	srvCfg := tui.DefaultSSHServerConfig()
	srvCfg.Address = flagSSHAddr
	srvCfg.HostKeyPath = flagHostKey
	srvCfg.DBPath = flagDBPath
	if cfg.ReplayDir != "" {
		srvCfg.ReplayDir = cfg.ReplayDir
	}
	srvCfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	srvCfg.Beatmap = b
	srvCfg.Session = cfg
	srvCfg.Logger = logger

	server, err := tui.NewSSHServer(srvCfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Serving %s on %s\n", b.String(), srvCfg.Address)
	fmt.Println("Connect with: ssh localhost -p 23234")
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}
