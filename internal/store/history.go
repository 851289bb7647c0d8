package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// timeLayout is fixed-width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000Z"

// Import is one merged import into a worker record.
type Import struct {
	ID         string
	Worker     string
	Source     string
	Format     string
	RecordPath string
	Read       int
	Added      int
	Total      int
	CreatedAt  time.Time
}

// ReportRun is one generated report.
type ReportRun struct {
	ID         string
	From       string
	To         string
	Workers    int
	TotalHours float64
	ExportPath string
	CreatedAt  time.Time
}

func stamp(id *string, at *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	if at.IsZero() {
		*at = time.Now()
	}
	*at = at.UTC()
}

func (db *DB) RecordImport(ctx context.Context, imp *Import) error {
	stamp(&imp.ID, &imp.CreatedAt)
	_, err := db.ExecContext(ctx,
		`INSERT INTO imports (id, worker, source, format, record_path, rows_read, rows_added, rows_total, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		imp.ID, imp.Worker, imp.Source, imp.Format, imp.RecordPath,
		imp.Read, imp.Added, imp.Total,
		imp.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting import: %w", err)
	}
	return nil
}

// RecentImports returns up to limit imports, newest first.
func (db *DB) RecentImports(ctx context.Context, limit int) ([]Import, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, worker, source, format, record_path, rows_read, rows_added, rows_total, created_at
		 FROM imports
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying imports: %w", err)
	}
	defer rows.Close()

	var out []Import
	for rows.Next() {
		var imp Import
		var created string
		if err := rows.Scan(
			&imp.ID, &imp.Worker, &imp.Source, &imp.Format, &imp.RecordPath,
			&imp.Read, &imp.Added, &imp.Total, &created,
		); err != nil {
			return nil, fmt.Errorf("scanning import: %w", err)
		}
		if t, err := time.Parse(timeLayout, created); err == nil {
			imp.CreatedAt = t
		}
		out = append(out, imp)
	}
	return out, rows.Err()
}

func (db *DB) RecordReport(ctx context.Context, run *ReportRun) error {
	stamp(&run.ID, &run.CreatedAt)
	_, err := db.ExecContext(ctx,
		`INSERT INTO report_runs (id, range_from, range_to, workers, total_hours, export_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, nullable(run.From), nullable(run.To), run.Workers, run.TotalHours,
		nullable(run.ExportPath), run.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting report run: %w", err)
	}
	return nil
}

// RecentReports returns up to limit report runs, newest first.
func (db *DB) RecentReports(ctx context.Context, limit int) ([]ReportRun, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, range_from, range_to, workers, total_hours, export_path, created_at
		 FROM report_runs
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying report runs: %w", err)
	}
	defer rows.Close()

	var out []ReportRun
	for rows.Next() {
		var run ReportRun
		var from, to, export sql.NullString
		var created string
		if err := rows.Scan(&run.ID, &from, &to, &run.Workers, &run.TotalHours, &export, &created); err != nil {
			return nil, fmt.Errorf("scanning report run: %w", err)
		}
		run.From = from.String
		run.To = to.String
		run.ExportPath = export.String
		if t, err := time.Parse(timeLayout, created); err == nil {
			run.CreatedAt = t
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
