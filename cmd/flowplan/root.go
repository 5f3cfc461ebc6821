package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/flowplan/internal/config"
	"github.com/ShayCichocki/flowplan/internal/diag"
)

var (
	flagLogLevel string

	// Set by the root PersistentPreRunE before any subcommand runs.
	cfg    *config.Config
	logger *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "flowplan",
	Short: "Turn process descriptions into task graphs and agentic plans",
	Long: `flowplan decomposes a free-text process description into a dependency
graph of tasks, each owned by an autonomous agent or a human, and plans
the roster of agents and human roles that will carry them out.

An LLM oracle is used when configured. Every command still works without
one: deterministic heuristics take over whenever the oracle is missing,
slow, or returns something unusable.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}

		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded

		level := cfg.Log.Level
		if flagLogLevel != "" {
			level = flagLogLevel
		}
		logger, err = diag.New(level, cfg.Log.Format, os.Stderr)
		if err != nil {
			return err
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Override log.level (debug, info, warn, error)")

	rootCmd.AddCommand(decomposeCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// commandContext returns a context cancelled on SIGINT/SIGTERM that
// carries the CLI logger.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	return diag.WithLogger(ctx, logger), stop
}
