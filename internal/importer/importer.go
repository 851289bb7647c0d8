package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/christopherklint97/pontaj/internal/records"
	"github.com/christopherklint97/pontaj/internal/store"
)

// History receives a ledger entry for every completed import.
type History interface {
	RecordImport(ctx context.Context, imp *store.Import) error
}

type Importer struct {
	records  *records.Dir
	history  History
	client   *http.Client
	logger   *slog.Logger
	location *time.Location
	backoff  func(attempt int) time.Duration
}

type Option func(*Importer)

// WithHistory records each import in h.
func WithHistory(h History) Option {
	return func(im *Importer) { im.history = h }
}

func WithHTTPClient(c *http.Client) Option {
	return func(im *Importer) { im.client = c }
}

// WithLocation sets the zone calendar events are read in.
func WithLocation(loc *time.Location) Option {
	return func(im *Importer) { im.location = loc }
}

// WithBackoff replaces the delay between retries of a remote fetch.
func WithBackoff(f func(attempt int) time.Duration) Option {
	return func(im *Importer) { im.backoff = f }
}

func New(dir *records.Dir, logger *slog.Logger, opts ...Option) *Importer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	im := &Importer{
		records: dir,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:   logger,
		location: time.Local,
		backoff:  backoff,
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

type Request struct {
	// Source is a file path or an http(s) URL.
	Source string
	Worker string
	// Format overrides detection from the source extension.
	Format Format
}

type Result struct {
	Worker string
	Path   string
	Format Format
	// Read counts valid rows in the source, Added those that were new.
	Read  int
	Added int
	Total int
}

// Import reads req.Source, merges its valid rows into the worker's record and
// saves it.
func (im *Importer) Import(ctx context.Context, req Request) (Result, error) {
	worker := strings.TrimSpace(req.Worker)
	if worker == "" {
		return Result{}, errors.New("worker name is required")
	}

	f := req.Format
	if f == "" {
		var err error
		if f, err = FormatOf(req.Source); err != nil {
			return Result{}, err
		}
	}

	data, err := im.open(ctx, req.Source)
	if err != nil {
		return Result{}, err
	}
	raw, err := Decode(bytes.NewReader(data), f, im.location)
	if err != nil {
		return Result{}, err
	}
	rows := Sanitize(raw)
	if len(rows) == 0 {
		return Result{}, fmt.Errorf("%w: %s", ErrNothingToImport, req.Source)
	}

	ts, found, err := im.records.Load(worker)
	if err != nil {
		return Result{}, fmt.Errorf("loading record for %s: %w", worker, err)
	}
	before := len(ts.Rows)
	ts.Rows = Merge(ts.Rows, rows)

	path, err := im.records.Save(ts)
	if err != nil {
		return Result{}, fmt.Errorf("saving record for %s: %w", worker, err)
	}

	res := Result{
		Worker: ts.Worker(),
		Path:   path,
		Format: f,
		Read:   len(rows),
		Added:  len(ts.Rows) - before,
		Total:  len(ts.Rows),
	}
	im.logger.Info("imported rows", "worker", res.Worker, "source", req.Source, "read", res.Read, "added", res.Added, "total", res.Total, "new_record", !found)

	if im.history != nil {
		entry := &store.Import{
			Worker:     res.Worker,
			Source:     req.Source,
			Format:     string(f),
			RecordPath: path,
			Read:       res.Read,
			Added:      res.Added,
			Total:      res.Total,
		}
		if err := im.history.RecordImport(ctx, entry); err != nil {
			im.logger.Warn("failed to record import history", "error", err)
		}
	}
	return res, nil
}
