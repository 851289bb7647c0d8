package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/christopherklint97/pontaj/internal/config"
	"github.com/christopherklint97/pontaj/internal/records"
	"github.com/christopherklint97/pontaj/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent imports and generated reports",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of a worker record file",
	Args:  cobra.NoArgs,
	RunE:  runSchema,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every worker record against the schema",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Open config file in your editor",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 10, "Entries to show per section")
	validateCmd.Flags().String("dir", "", "Directory of worker records (default: from config)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	a, err := setup()
	if err != nil {
		return err
	}
	path, err := a.cfg.HistoryPath()
	if err != nil {
		return err
	}
	db, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	imports, err := db.RecentImports(ctx, limit)
	if err != nil {
		return fmt.Errorf("fetching imports: %w", err)
	}
	runs, err := db.RecentReports(ctx, limit)
	if err != nil {
		return fmt.Errorf("fetching reports: %w", err)
	}

	if len(imports) == 0 {
		fmt.Println("No imports recorded.")
	} else {
		fmt.Println("Recent imports:")
		for _, imp := range imports {
			fmt.Printf("  %-14s  %-20s  %-4s  +%d/%d rows  %s\n",
				humanize.Time(imp.CreatedAt), imp.Worker, imp.Format, imp.Added, imp.Read, imp.Source)
		}
	}

	fmt.Println()
	if len(runs) == 0 {
		fmt.Println("No reports recorded.")
		return nil
	}
	fmt.Println("Recent reports:")
	for _, r := range runs {
		period := periodLabel(r.From, r.To)
		line := fmt.Sprintf("  %-14s  %-25s  %d workers  %.2f h",
			humanize.Time(r.CreatedAt), period, r.Workers, r.TotalHours)
		if r.ExportPath != "" {
			line += "  -> " + r.ExportPath
		}
		fmt.Println(line)
	}
	return nil
}

func periodLabel(from, to string) string {
	if from == "" {
		from = "…"
	}
	if to == "" {
		to = "…"
	}
	return from + " - " + to
}

func runSchema(cmd *cobra.Command, args []string) error {
	data, err := records.Schema()
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	dir := a.records(cmd)
	problems, err := dir.ValidateAll()
	if err != nil {
		return err
	}
	if len(problems) == 0 {
		fmt.Printf("All records in %s are valid.\n", dir.Path())
		return nil
	}

	names := make([]string, 0, len(problems))
	for name := range problems {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Println(name)
		for _, p := range problems[name] {
			fmt.Println("  -", p)
		}
	}
	return errors.New(english.Plural(len(problems), "invalid record", "invalid records"))
}

func runConfig(cmd *cobra.Command, args []string) error {
	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if err := config.WriteDefault(configPath); err != nil {
		return err
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	fmt.Printf("Opening %s with %s...\n", configPath, editor)

	proc := os.ProcAttr{
		Files: []*os.File{os.Stdin, os.Stdout, os.Stderr},
	}
	process, err := os.StartProcess(editor, []string{editor, configPath}, &proc)
	if err != nil {
		fmt.Printf("Could not open editor. Config file is at: %s\n", configPath)
		return nil
	}
	_, err = process.Wait()
	return err
}
