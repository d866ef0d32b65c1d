package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const importBatch = `{"id":"e1","ts":1754038800000,"type":"page_load","url":"https://github.com/runnerr0","title":"GitHub"}
{"id":"e2","ts":1754038860000,"type":"scroll","url":"https://github.com/runnerr0"}
{"id":"e3","ts":1754038920000,"type":"page_load","url":"https://example.com","metadata":{"incognito":true}}
not json at all
`

func writeBatchFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestImport_InsertsEvents(t *testing.T) {
	store, _ := setupTestStore(t)
	file := writeBatchFile(t, importBatch)

	cmd := &ImportCommand{globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, file, true))
	})

	assert.Contains(t, output, "Imported 2 events")
	assert.Contains(t, output, "Skipped:   1")
	assert.Contains(t, output, "Incognito: 1")

	got, err := store.EventsBetween(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestImport_KeepsIncognitoWhenAllowed(t *testing.T) {
	store, _ := setupTestStore(t)
	file := writeBatchFile(t, importBatch)

	cmd := &ImportCommand{globals: &GlobalFlags{}}
	captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, file, false))
	})

	got, err := store.EventsBetween(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestImport_DryRun(t *testing.T) {
	store, _ := setupTestStore(t)
	file := writeBatchFile(t, importBatch)

	cmd := &ImportCommand{globals: &GlobalFlags{}, DryRun: true}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, file, true))
	})

	assert.Contains(t, output, "Would import 2 events")

	got, err := store.EventsBetween(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestImport_AssignsSessionID(t *testing.T) {
	store, _ := setupTestStore(t)
	file := writeBatchFile(t, importBatch)

	cmd := &ImportCommand{globals: &GlobalFlags{}, SessionID: "manual-1"}
	captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, file, true))
	})

	got, err := store.EventsForSession(context.Background(), "manual-1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestImport_JSONOutput(t *testing.T) {
	store, _ := setupTestStore(t)
	file := writeBatchFile(t, importBatch)

	cmd := &ImportCommand{globals: &GlobalFlags{JSON: true}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, file, true))
	})

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &out))
	assert.Equal(t, float64(3), out["decoded"])
	assert.Equal(t, float64(1), out["skipped"])
	assert.Equal(t, float64(1), out["incognito"])
	assert.Equal(t, float64(2), out["inserted"])
	assert.Equal(t, false, out["dry_run"])
}

func TestImport_ReimportIsIdempotent(t *testing.T) {
	store, _ := setupTestStore(t)
	file := writeBatchFile(t, importBatch)

	cmd := &ImportCommand{globals: &GlobalFlags{}}
	captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, file, true))
	})
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, file, true))
	})

	assert.Contains(t, output, "Imported 0 events")
}

func TestImport_MissingFile(t *testing.T) {
	store, _ := setupTestStore(t)

	cmd := &ImportCommand{globals: &GlobalFlags{}}
	err := cmd.executeWithStore(store, "/nonexistent/batch.jsonl", true)
	assert.Error(t, err)
}
