package cli

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/sessionlens/internal/config"
	"github.com/runnerr0/sessionlens/internal/event"
)

func TestPrune_RemovesOldEvents(t *testing.T) {
	store, _ := setupTestStore(t)
	now := cliBase

	var events []event.Event
	events = append(events, steadyEvents("old", 3, now.Add(-100*24*time.Hour), time.Minute, event.PageLoad, "https://a.example")...)
	events = append(events, steadyEvents("new", 2, now.Add(-time.Hour), time.Minute, event.PageLoad, "https://a.example")...)
	seedEvents(t, store, events)

	cmd := &PruneCommand{globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, config.DefaultConfig(), now))
	})

	assert.Contains(t, output, "Pruned 3 events")

	remaining, err := store.EventsBetween(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}

func TestPrune_OlderThanOverride(t *testing.T) {
	store, _ := setupTestStore(t)
	now := cliBase

	var events []event.Event
	events = append(events, steadyEvents("wk", 3, now.Add(-8*24*time.Hour), time.Minute, event.PageLoad, "https://a.example")...)
	events = append(events, steadyEvents("dy", 2, now.Add(-time.Hour), time.Minute, event.PageLoad, "https://a.example")...)
	seedEvents(t, store, events)

	cmd := &PruneCommand{globals: &GlobalFlags{}, OlderThan: "7d"}
	captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, config.DefaultConfig(), now))
	})

	remaining, err := store.EventsBetween(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}

func TestPrune_DryRun(t *testing.T) {
	store, _ := setupTestStore(t)
	now := cliBase
	seedEvents(t, store, steadyEvents("old", 3, now.Add(-100*24*time.Hour), time.Minute, event.PageLoad, "https://a.example"))

	cmd := &PruneCommand{globals: &GlobalFlags{}, DryRun: true}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, config.DefaultConfig(), now))
	})

	assert.Contains(t, output, "Would prune")

	remaining, err := store.EventsBetween(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, remaining, 3, "dry run must not delete")
}

func TestPrune_DryRunNothingToPrune(t *testing.T) {
	store, _ := setupTestStore(t)
	now := cliBase
	seedEvents(t, store, steadyEvents("new", 2, now.Add(-time.Hour), time.Minute, event.PageLoad, "https://a.example"))

	cmd := &PruneCommand{globals: &GlobalFlags{}, DryRun: true}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, config.DefaultConfig(), now))
	})

	assert.Contains(t, output, "Nothing to prune.")
}

func TestPrune_JSONOutput(t *testing.T) {
	store, _ := setupTestStore(t)
	now := cliBase
	seedEvents(t, store, steadyEvents("old", 3, now.Add(-100*24*time.Hour), time.Minute, event.PageLoad, "https://a.example"))

	cmd := &PruneCommand{globals: &GlobalFlags{JSON: true}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, config.DefaultConfig(), now))
	})

	var out struct {
		Pruned int64  `json:"pruned"`
		Cutoff string `json:"cutoff"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &out))
	assert.Equal(t, int64(3), out.Pruned)
	assert.NotEmpty(t, out.Cutoff)
}

func TestPrune_InvalidOlderThan(t *testing.T) {
	store, _ := setupTestStore(t)

	cmd := &PruneCommand{globals: &GlobalFlags{}, OlderThan: "soon"}
	err := cmd.executeWithStore(store, config.DefaultConfig(), cliBase)
	assert.Error(t, err)
}
