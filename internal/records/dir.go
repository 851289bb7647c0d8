// Package records reads and writes the flat per-worker files that hold raw
// shift data: one pontaj_<slug>.json per worker.
package records

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/christopherklint97/pontaj/internal/timesheet"
)

const (
	filePrefix = "pontaj_"
	fileExt    = ".json"
)

// ErrSourceNotFound is returned when the data directory does not exist.
var ErrSourceNotFound = errors.New("data directory not found")

type Dir struct {
	path   string
	logger *slog.Logger
}

func Open(path string, logger *slog.Logger) *Dir {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dir{path: path, logger: logger}
}

func (d *Dir) Path() string {
	return d.path
}

// Files lists worker record files in name order.
func (d *Dir) Files() ([]string, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, d.path)
		}
		return nil, fmt.Errorf("reading data directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileExt) {
			continue
		}
		files = append(files, filepath.Join(d.path, name))
	}
	return files, nil
}

// LoadAll reads every worker record in the directory. A record without a
// worker name is named after its file.
func (d *Dir) LoadAll() ([]timesheet.WorkerTimesheet, error) {
	files, err := d.Files()
	if err != nil {
		return nil, err
	}

	sheets := make([]timesheet.WorkerTimesheet, 0, len(files))
	for _, f := range files {
		ts, err := readFile(f)
		if err != nil {
			return nil, err
		}
		if timesheet.Text(ts.Meta["worker"]) == "" {
			if ts.Meta == nil {
				ts.Meta = timesheet.Meta{}
			}
			ts.Meta["worker"] = filepath.Base(f)
		}
		d.logger.Debug("loaded worker record", "file", filepath.Base(f), "worker", ts.Worker(), "rows", len(ts.Rows))
		sheets = append(sheets, ts)
	}
	return sheets, nil
}

// PathFor returns the record file used for worker.
func (d *Dir) PathFor(worker string) string {
	return filepath.Join(d.path, filePrefix+Slug(worker)+fileExt)
}

// Load reads worker's record. A missing file yields an empty record named
// after worker and found == false.
func (d *Dir) Load(worker string) (ts timesheet.WorkerTimesheet, found bool, err error) {
	ts, err = readFile(d.PathFor(worker))
	if errors.Is(err, fs.ErrNotExist) {
		return timesheet.WorkerTimesheet{Meta: timesheet.Meta{"worker": worker}}, false, nil
	}
	if err != nil {
		return timesheet.WorkerTimesheet{}, false, err
	}
	return ts, true, nil
}

// Save writes ts to the file for its worker, replacing it atomically, and
// returns the file path.
func (d *Dir) Save(ts timesheet.WorkerTimesheet) (string, error) {
	if err := os.MkdirAll(d.path, 0755); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}

	meta := make(timesheet.Meta, len(ts.Meta)+2)
	for k, v := range ts.Meta {
		meta[k] = v
	}
	meta["worker"] = ts.Worker()
	meta["updatedAt"] = time.Now().UTC().Format(time.RFC3339)

	rows := ts.Rows
	if rows == nil {
		rows = []timesheet.ShiftRow{}
	}
	data, err := json.MarshalIndent(timesheet.WorkerTimesheet{Meta: meta, Rows: rows}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding worker record: %w", err)
	}

	path := d.PathFor(ts.Worker())
	tmp, err := os.CreateTemp(d.path, ".pontaj-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing worker record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("writing worker record: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("replacing worker record: %w", err)
	}

	d.logger.Debug("saved worker record", "file", filepath.Base(path), "rows", len(rows))
	return path, nil
}

func readFile(path string) (timesheet.WorkerTimesheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return timesheet.WorkerTimesheet{}, err
	}
	var ts timesheet.WorkerTimesheet
	if err := json.Unmarshal(data, &ts); err != nil {
		return timesheet.WorkerTimesheet{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return ts, nil
}

// Fold strips diacritics: "Ștefan Pană" becomes "Stefan Pana".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Slug turns a worker name into a file-name-safe token.
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(Fold(name)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		return timesheet.UnknownWorker
	}
	return slug
}
