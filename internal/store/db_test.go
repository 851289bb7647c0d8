package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "history", "pontaj.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_MigratesIdempotently(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pontaj.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	v, err := db.GetState(context.Background(), "schema_version")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestState(t *testing.T) {
	db := openTemp(t)
	ctx := context.Background()

	v, err := db.GetState(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, db.SetState(ctx, "last_dir", "/a"))
	require.NoError(t, db.SetState(ctx, "last_dir", "/b"))
	v, err = db.GetState(ctx, "last_dir")
	require.NoError(t, err)
	assert.Equal(t, "/b", v)
}

func TestImports_RoundTrip(t *testing.T) {
	db := openTemp(t)
	ctx := context.Background()
	base := time.Date(2025, 9, 10, 8, 0, 0, 0, time.UTC)

	first := &Import{Worker: "Alice", Source: "a.csv", Format: "csv", RecordPath: "/data/pontaj_alice.json", Read: 2, Added: 2, Total: 3, CreatedAt: base}
	second := &Import{Worker: "Bob", Source: "https://example.com/b.json", Format: "json", RecordPath: "/data/pontaj_bob.json", Read: 4, Added: 1, Total: 9, CreatedAt: base.Add(time.Minute)}
	require.NoError(t, db.RecordImport(ctx, first))
	require.NoError(t, db.RecordImport(ctx, second))
	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	got, err := db.RecentImports(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, *second, got[0])
	assert.Equal(t, *first, got[1])

	got, err = db.RecentImports(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Bob", got[0].Worker)
}

func TestReports_RoundTrip(t *testing.T) {
	db := openTemp(t)
	ctx := context.Background()

	run := &ReportRun{From: "2025-09-01", Workers: 2, TotalHours: 30.5}
	require.NoError(t, db.RecordReport(ctx, run))
	assert.False(t, run.CreatedAt.IsZero())
	assert.Equal(t, time.UTC, run.CreatedAt.Location())

	got, err := db.RecentReports(ctx, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, run.ID, got[0].ID)
	assert.Equal(t, "2025-09-01", got[0].From)
	assert.Empty(t, got[0].To)
	assert.Empty(t, got[0].ExportPath)
	assert.InDelta(t, 30.5, got[0].TotalHours, 1e-9)
	assert.WithinDuration(t, run.CreatedAt, got[0].CreatedAt, time.Microsecond)
}
