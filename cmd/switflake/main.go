package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	clientcmd "github.com/rubberove/switflake/internal/cmd/client"
	serverrun "github.com/rubberove/switflake/internal/cmd/server"
	cfgpkg "github.com/rubberove/switflake/internal/config"
	pebblestore "github.com/rubberove/switflake/internal/storage/pebble"
	logpkg "github.com/rubberove/switflake/pkg/log"
	"github.com/spf13/cobra"
)

func main() {
	// Respect SWITFLAKE_LOG_LEVEL for both CLI and server start output.
	level := os.Getenv("SWITFLAKE_LOG_LEVEL")
	parsed, err := logpkg.ParseLevel(level)
	if err != nil || level == "" {
		parsed = logpkg.InfoLevel
	}
	logger := logpkg.NewLogger(
		logpkg.WithLevel(parsed),
		logpkg.WithFormatter(&logpkg.TextFormatter{}),
		logpkg.WithOutput(logpkg.NewConsoleOutput()),
	)

	// Redirect standard library logs (used by Pebble) to our logger.
	logpkg.RedirectStdLog(logger)

	rootCmd := &cobra.Command{
		Use:   "switflake",
		Short: "Switflake ID generator CLI",
		Long:  "Switflake mints sortable 64-bit identifiers. This CLI manages the server and basic operations.",
	}

	// server start
	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start switflake server (HTTP API)",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDir, _ := cmd.Flags().GetString("data-dir")
			httpAddr, _ := cmd.Flags().GetString("http")
			configPath, _ := cmd.Flags().GetString("config")
			nodeID, _ := cmd.Flags().GetInt("node-id")
			takeover, _ := cmd.Flags().GetBool("claim-takeover")
			fsyncMode, _ := cmd.Flags().GetString("fsync")
			fsyncIntervalMs, _ := cmd.Flags().GetInt("fsync-interval-ms")
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFormat, _ := cmd.Flags().GetString("log-format")

			mode := pebblestore.FsyncModeAlways
			switch fsyncMode {
			case "never":
				mode = pebblestore.FsyncModeNever
			case "interval":
				mode = pebblestore.FsyncModeInterval
			case "always":
				mode = pebblestore.FsyncModeAlways
			default:
				return fmt.Errorf("invalid --fsync; use always|interval|never")
			}

			cfg, err := cfgpkg.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfgpkg.FromEnv(&cfg)
			if cmd.Flags().Changed("node-id") {
				if nodeID < 0 {
					return fmt.Errorf("invalid --node-id; must be non-negative")
				}
				cfg.NodeID = uint32(nodeID)
			}
			if takeover {
				cfg.ClaimTakeover = true
			}
			if logLevel != "" {
				_ = os.Setenv("SWITFLAKE_LOG_LEVEL", logLevel)
			}
			if logFormat != "" {
				_ = os.Setenv("SWITFLAKE_LOG_FORMAT", logFormat)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if err := serverrun.Run(ctx, serverrun.Options{
				DataDir:       dataDir,
				HTTPAddr:      httpAddr,
				Fsync:         mode,
				FsyncInterval: time.Duration(fsyncIntervalMs) * time.Millisecond,
				Config:        cfg,
			}); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			// brief delay to allow logs flush
			time.Sleep(100 * time.Millisecond)
			return nil
		},
	}
	serverStartCmd.Flags().String("data-dir", "", "Data directory (if not specified, uses OS-specific application data directory)")
	serverStartCmd.Flags().String("http", ":8080", "HTTP listen address")
	serverStartCmd.Flags().String("config", os.Getenv("SWITFLAKE_CONFIG"), "Path to JSON config file")
	serverStartCmd.Flags().Int("node-id", 0, "Node id embedded in generated identifiers (0-4095)")
	serverStartCmd.Flags().Bool("claim-takeover", false, "Take over a stale node-id claim left by a crashed process")
	serverStartCmd.Flags().String("fsync", "always", "Fsync mode: always|interval|never")
	serverStartCmd.Flags().Int("fsync-interval-ms", 5, "When --fsync=interval, group-commit window in ms (default 5)")
	serverStartCmd.Flags().String("log-level", os.Getenv("SWITFLAKE_LOG_LEVEL"), "Log level: debug|info|warn|error")
	serverStartCmd.Flags().String("log-format", os.Getenv("SWITFLAKE_LOG_FORMAT"), "Log format: text|json (default text)")
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)

	// id commands (gen/decode/inspect against a running server)
	rootCmd.AddCommand(clientcmd.NewIDCommand(apiURL))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func apiURL() string {
	if v := os.Getenv("SWITFLAKE_HTTP"); v != "" {
		return v
	}
	return "http://127.0.0.1:8080"
}
