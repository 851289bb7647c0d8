package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/christopherklint97/pontaj/internal/config"
	"github.com/christopherklint97/pontaj/internal/records"
	"github.com/christopherklint97/pontaj/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "pontaj",
	Short: "Timesheet reports with overtime, ISO weeks and imports",
	Long:  "pontaj aggregates per-worker shift records into daily, weekly and period hour summaries with a regular/overtime split, and merges external timesheets into the record store.",
	SilenceUsage: true,
}

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles what every command needs.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func setup() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	level := cfg.LogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return &app{cfg: cfg, logger: logger}, nil
}

// records opens the data directory, preferring a --dir flag over config.
func (a *app) records(cmd *cobra.Command) *records.Dir {
	dir := a.cfg.Data.Dir
	if f := cmd.Flags().Lookup("dir"); f != nil && f.Changed {
		dir = f.Value.String()
	}
	return records.Open(dir, a.logger)
}

// history opens the history database. Failures are logged and yield nil so
// callers can carry on without a ledger.
func (a *app) history() *store.DB {
	path, err := a.cfg.HistoryPath()
	if err != nil {
		a.logger.Warn("history unavailable", "error", err)
		return nil
	}
	db, err := store.Open(path)
	if err != nil {
		a.logger.Warn("history unavailable", "path", path, "error", err)
		return nil
	}
	return db
}
