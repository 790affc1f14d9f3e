package cmd

import (
	"errors"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/linesim/linesim/server"
	"github.com/linesim/linesim/sim"
)

var (
	// CLI flags; non-empty/non-zero values override the config file.
	configFile string // YAML config path (optional)
	listenAddr string // HTTP listen address
	stateFile  string // default save/load target
	logLevel   string // log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "linesim",
	Short: "Tick-driven production line simulator",
}

// serveCmd boots the engine, the driver loop, and the HTTP/WebSocket control
// plane, then blocks for process lifetime.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the simulator and its HTTP control plane",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := sim.DefaultConfig()
		if configFile != "" {
			loaded, err := sim.LoadConfig(configFile)
			if err != nil {
				if errors.Is(err, sim.ErrNotFound) {
					logrus.Fatalf("config file not found: %s", configFile)
				}
				logrus.Fatalf("loading config: %v", err)
			}
			cfg = loaded
		}
		if listenAddr != "" {
			cfg.ListenAddr = listenAddr
		}
		if stateFile != "" {
			cfg.StateFile = stateFile
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}

		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", cfg.LogLevel)
		}
		logrus.SetLevel(level)

		logrus.Infof("starting line with %d stations, tick cadence %v", len(cfg.Stations), cfg.TickInterval)
		line := sim.NewLine(cfg)
		driver := sim.NewDriver(line, cfg.TickInterval)
		go driver.Run()

		srv := server.New(line, cfg.ListenAddr, cfg.StateFile, cfg.BroadcastInterval)
		srv.Start()

		// The driver and the server own the process from here.
		select {}
	},
}

func init() {
	serveCmd.Flags().StringVar(&configFile, "config", "", "Path to YAML config file")
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "HTTP listen address (overrides config)")
	serveCmd.Flags().StringVar(&stateFile, "state-file", "", "Persistence target (overrides config)")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
