package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentic-research/depscope/internal/config"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	configPath  string
	sseAddr     string
	logLevel    string
	loadTimeout time.Duration
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "depscope.yaml", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().DurationVar(&loadTimeout, "load-timeout", 0, "Model load timeout")
	rootCmd.Flags().StringVar(&sseAddr, "sse", "", "Serve over SSE on this address instead of stdio (e.g. :8008)")
}

var rootCmd = &cobra.Command{
	Use:   "depscope",
	Short: "Depscope: structural query server for dependency-graph models",
	Long: `Depscope caches dependency-graph models in memory and serves structural
queries over MCP: name/type/attribute search, dependency-chain traversal,
subtree dependency analysis, and hierarchical overviews.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("sse") {
			cfg.SSEAddr = sseAddr
		}
		return serve(cfg, logger)
	},
}

// loadConfig resolves file config plus flag overrides and builds the logger.
// Logs go to stderr: stdout belongs to the stdio transport.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return cfg, nil, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("load-timeout") {
		cfg.LoadTimeout = loadTimeout
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	return cfg, logger, nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
