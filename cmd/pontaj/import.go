package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/christopherklint97/pontaj/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import SOURCE",
	Short: "Merge a CSV, JSON, YAML, XLSX or ICS timesheet into a worker record",
	Example: `  pontaj import export.csv --worker "Ana Popescu"
  pontaj import https://example.com/shifts.xlsx --worker Dan
  pontaj import calendar.ics --worker Dan --format ics`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringP("worker", "w", "", "Worker the rows belong to")
	importCmd.Flags().String("dir", "", "Directory of worker records (default: from config)")
	importCmd.Flags().String("format", "", "Source format: csv, json, yaml, xlsx or ics (default: from extension)")
	_ = importCmd.MarkFlagRequired("worker")
}

func runImport(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}

	worker, _ := cmd.Flags().GetString("worker")
	req := importer.Request{Source: args[0], Worker: worker}
	if name, _ := cmd.Flags().GetString("format"); name != "" {
		if req.Format, err = importer.FormatOf("source." + name); err != nil {
			return err
		}
	}

	opts := []importer.Option{}
	if db := a.history(); db != nil {
		defer db.Close()
		opts = append(opts, importer.WithHistory(db))
	}
	im := importer.New(a.records(cmd), a.logger, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := im.Import(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d rows for %s from %s (%s)\n", res.Read, res.Worker, args[0], res.Format)
	fmt.Printf("  %d new, %d total in %s\n", res.Added, res.Total, res.Path)
	if res.Added == 0 {
		fmt.Fprintln(os.Stderr, "Nothing new: every row was already recorded.")
	}
	return nil
}
