package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/tj/go-naturaldate"

	"github.com/christopherklint97/pontaj/internal/export"
	"github.com/christopherklint97/pontaj/internal/format"
	"github.com/christopherklint97/pontaj/internal/report"
	"github.com/christopherklint97/pontaj/internal/scheduler"
	"github.com/christopherklint97/pontaj/internal/store"
	"github.com/christopherklint97/pontaj/internal/timesheet"
	"github.com/christopherklint97/pontaj/internal/tui"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print hour totals per worker for a period",
	Example: `  pontaj report --from 01/09/2025 --to 30/09/2025
  pontaj report --since "last monday" --format hours-minutes
  pontaj report --from 2025-09-01 --export september.xlsx`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse a report per worker in the terminal",
	Args:  cobra.NoArgs,
	RunE:  runBrowse,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate a report export on a schedule",
	Example: `  pontaj watch --every 1h --export /srv/share/pontaj.xlsx --since "first day of this month"`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	for _, c := range []*cobra.Command{reportCmd, browseCmd, watchCmd} {
		addReportFlags(c)
	}
	for _, c := range []*cobra.Command{reportCmd, watchCmd} {
		c.Flags().String("export", "", "Also write the report to this file")
		c.Flags().String("export-format", "", "Export format: csv, xlsx, pdf, json or yaml (default: from extension)")
	}
	watchCmd.Flags().Duration("every", time.Hour, "Interval between exports")
	_ = watchCmd.MarkFlagRequired("export")
}

func addReportFlags(c *cobra.Command) {
	c.Flags().String("from", "", "First day, DD/MM/YYYY or YYYY-MM-DD (default: open)")
	c.Flags().String("to", "", "Last day, DD/MM/YYYY or YYYY-MM-DD (default: open)")
	c.Flags().String("since", "", `First day in plain words, e.g. "last monday" or "2 weeks ago"`)
	c.Flags().String("dir", "", "Directory of worker records (default: from config)")
	c.Flags().String("format", "", "Hours format: decimal or hours-minutes")
	c.Flags().String("dates", "", "Date labels: dmy or iso")
	c.Flags().Float64("threshold", 0, "Hours per shift before overtime starts")
	c.Flags().Float64("rate", 0, "Overtime weighting factor")
	c.MarkFlagsMutuallyExclusive("from", "since")
}

// reportInput is everything needed to aggregate, resolved from config and
// flags once so scheduled runs can reuse it.
type reportInput struct {
	rng    report.Range
	policy timesheet.Policy
	opts   format.Options
}

func resolveReportInput(cmd *cobra.Command, a *app) (reportInput, error) {
	flags := cmd.Flags()
	from, _ := flags.GetString("from")
	to, _ := flags.GetString("to")
	since, _ := flags.GetString("since")

	if since != "" {
		t, err := naturaldate.Parse(since, time.Now(), naturaldate.WithDirection(naturaldate.Past))
		if err != nil {
			return reportInput{}, fmt.Errorf("parsing --since %q: %w", since, err)
		}
		from = t.Format(timesheet.DateLayout)
		a.logger.Debug("resolved --since", "since", since, "from", from)
	}

	rng, err := report.ParseRange(from, to)
	if err != nil {
		return reportInput{}, err
	}

	policy := a.cfg.Policy()
	if flags.Changed("threshold") {
		policy.Threshold, _ = flags.GetFloat64("threshold")
	}
	if flags.Changed("rate") {
		policy.Rate, _ = flags.GetFloat64("rate")
	}
	if err := policy.Validate(); err != nil {
		return reportInput{}, err
	}

	hours := a.cfg.Output.Hours
	if flags.Changed("format") {
		hours, _ = flags.GetString("format")
	}
	mode, err := format.ParseMode(hours)
	if err != nil {
		return reportInput{}, err
	}

	dates := a.cfg.Output.Dates
	if flags.Changed("dates") {
		dates, _ = flags.GetString("dates")
	}
	if dates != format.DateDMY && dates != format.DateISO {
		return reportInput{}, fmt.Errorf("unknown date format %q (want %q or %q)", dates, format.DateDMY, format.DateISO)
	}

	return reportInput{rng: rng, policy: policy, opts: format.Options{Mode: mode, Dates: dates}}, nil
}

func buildReport(cmd *cobra.Command, a *app, in reportInput) (report.Report, error) {
	sheets, err := a.records(cmd).LoadAll()
	if err != nil {
		return report.Report{}, err
	}
	rep := report.Aggregate(sheets, in.rng, in.policy)
	a.logger.Debug("aggregated report", "records", len(sheets), "workers", len(rep.Workers))
	return rep, nil
}

// exportTarget resolves --export and --export-format. An empty path means no
// export was requested.
func exportTarget(cmd *cobra.Command) (string, export.Format, error) {
	path, _ := cmd.Flags().GetString("export")
	if path == "" {
		return "", "", nil
	}
	name, _ := cmd.Flags().GetString("export-format")
	if name != "" {
		f, err := export.ParseFormat(name)
		return path, f, err
	}
	f, err := export.FormatFromPath(path)
	return path, f, err
}

func writeExport(path string, f export.Format, rep report.Report, opts format.Options) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := export.Write(out, rep, f, export.Options{Text: opts}); err != nil {
		out.Close()
		return fmt.Errorf("writing %s export: %w", f, err)
	}
	return out.Close()
}

func recordRun(ctx context.Context, a *app, db *store.DB, rep report.Report, exportPath string) {
	if db == nil {
		return
	}
	run := &store.ReportRun{
		From:       rep.Metadata.From,
		To:         rep.Metadata.To,
		Workers:    len(rep.Workers),
		TotalHours: rep.Comparisons.Totals.TotalHours,
		ExportPath: exportPath,
	}
	if err := db.RecordReport(ctx, run); err != nil {
		a.logger.Warn("recording report run", "error", err)
	}
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	in, err := resolveReportInput(cmd, a)
	if err != nil {
		return err
	}
	path, f, err := exportTarget(cmd)
	if err != nil {
		return err
	}

	rep, err := buildReport(cmd, a, in)
	if err != nil {
		return err
	}

	text := format.Text(rep, in.opts)
	switch {
	case text == "":
		fmt.Println(format.NoActivity)
	case tui.ConfigureColor(a.cfg.Output.Color, os.Stdout):
		fmt.Println(tui.Highlight(text))
	default:
		fmt.Println(text)
	}

	if path != "" {
		if err := writeExport(path, f, rep, in.opts); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Exported %s report to %s\n", f, path)
	}

	db := a.history()
	if db != nil {
		defer db.Close()
	}
	recordRun(context.Background(), a, db, rep, path)
	return nil
}

func runBrowse(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	in, err := resolveReportInput(cmd, a)
	if err != nil {
		return err
	}
	rep, err := buildReport(cmd, a, in)
	if err != nil {
		return err
	}

	tui.ConfigureColor(a.cfg.Output.Color, os.Stdout)
	p := tea.NewProgram(tui.NewViewer(rep, in.opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	in, err := resolveReportInput(cmd, a)
	if err != nil {
		return err
	}
	path, f, err := exportTarget(cmd)
	if err != nil {
		return err
	}
	every, _ := cmd.Flags().GetDuration("every")

	db := a.history()
	if db != nil {
		defer db.Close()
	}

	job := func(ctx context.Context, tick time.Time) error {
		rep, err := buildReport(cmd, a, in)
		if err != nil {
			return err
		}
		if err := writeExport(path, f, rep, in.opts); err != nil {
			return err
		}
		a.logger.Info("report exported", "path", path, "format", f, "workers", len(rep.Workers), "tick", tick.Format(time.RFC3339))
		recordRun(ctx, a, db, rep, path)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	fmt.Fprintf(os.Stderr, "Exporting %s every %s (Ctrl+C to stop)\n", path, every)
	return scheduler.New(every, job, a.logger).Run(ctx)
}
