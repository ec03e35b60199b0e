package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"circle-route/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	baseURLEnv  = "CIRCLE_ROUTE_BASE_URL"
	logLevelEnv = "CIRCLE_ROUTE_LOG_LEVEL"
)

var (
	outputJSON    bool
	outputCompact bool
	verbose       bool
	cfg           = storage.DefaultConfig()
	logger        = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "circle-route",
		Short: "Plan a walking route through a comic market wish list",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if outputJSON && outputCompact {
				return fmt.Errorf("choose either --json or --compact")
			}
			return initConfig()
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output JSON")
	root.PersistentFlags().BoolVar(&outputCompact, "compact", false, "Output compact text")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(sourceCmd())
	root.AddCommand(fetchCmd())
	root.AddCommand(routeCmd())
	root.AddCommand(nextCmd())
	root.AddCommand(buyCmd())
	root.AddCommand(holdCmd())
	root.AddCommand(undoCmd())
	root.AddCommand(resetCmd())
	root.AddCommand(statusCmd())
	root.AddCommand(syncCmd())
	root.AddCommand(walkCmd())
	root.AddCommand(parseCmd())
	root.AddCommand(layoutCmd())
	return root
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func initConfig() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	level, err := logLevel(os.Getenv(logLevelEnv))
	if err != nil {
		return err
	}
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	loaded, err := storage.LoadConfig()
	if err != nil {
		return err
	}
	cfg = loaded
	logger.Debug("config loaded", "row_weight", cfg.RowWeight, "two_opt", cfg.TwoOpt)
	return nil
}

func logLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelWarn, fmt.Errorf("invalid %s %q (expected debug, info, warn or error)", logLevelEnv, value)
}
