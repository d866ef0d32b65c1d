package cli

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/sessionlens/internal/event"
	"github.com/runnerr0/sessionlens/internal/storage"
)

// cliBase anchors test event timestamps; commands get their clock injected.
var cliBase = time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

// setupTestStore creates an in-memory store with migrations applied.
func setupTestStore(t *testing.T) (*storage.SQLiteStore, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	runner := storage.NewMigrationRunner(db)
	require.NoError(t, runner.Run())

	store, err := storage.NewSQLiteStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store, db
}

// seedEvents inserts events into the store, failing the test on error.
func seedEvents(t *testing.T, store storage.Store, events []event.Event) {
	t.Helper()
	_, err := store.AddEvents(context.Background(), events)
	require.NoError(t, err)
}

// steadyEvents produces n events spaced interval apart on one domain.
func steadyEvents(idPrefix string, n int, start time.Time, interval time.Duration, typ event.Type, url string) []event.Event {
	events := make([]event.Event, n)
	for i := range events {
		events[i] = event.Event{
			ID:        fmt.Sprintf("%s-%03d", idPrefix, i),
			Timestamp: start.Add(time.Duration(i) * interval),
			Type:      typ,
			URL:       url,
		}
	}
	return events
}

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}
