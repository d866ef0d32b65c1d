package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/runnerr0/sessionlens/internal/event"
	"github.com/runnerr0/sessionlens/internal/storage"
)

// Execute implements the go-flags Commander interface for ImportCommand.
func (c *ImportCommand) Execute(args []string) error {
	file := c.File
	if file == "" && len(args) > 0 {
		file = args[0]
	}
	if file == "" {
		return fmt.Errorf("--file is required for import command")
	}

	cfg := loadConfig(c.globals)
	store, db, err := openStore(c.globals, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(store, file, cfg.Capture.ExcludeIncognito)
}

// executeWithStore runs the import against a provided store (for testing).
func (c *ImportCommand) executeWithStore(store storage.Store, file string, excludeIncognito bool) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open batch file: %w", err)
	}
	defer f.Close()

	batch, err := event.DecodeBatch(f)
	if err != nil {
		return fmt.Errorf("decode batch: %w", err)
	}

	events := batch.Events
	dropped := 0
	if excludeIncognito {
		kept := events[:0]
		for _, ev := range events {
			if ev.Metadata.Incognito {
				dropped++
				continue
			}
			kept = append(kept, ev)
		}
		events = kept
	}

	if c.SessionID != "" {
		for i := range events {
			if events[i].SessionID == "" {
				events[i].SessionID = c.SessionID
			}
		}
	}

	inserted := 0
	if !c.DryRun {
		ctx := context.Background()
		inserted, err = store.AddEvents(ctx, events)
		if err != nil {
			return fmt.Errorf("store events: %w", err)
		}
	}

	if c.globals != nil && c.globals.JSON {
		out := map[string]any{
			"file":      file,
			"decoded":   len(batch.Events),
			"skipped":   batch.Skipped,
			"incognito": dropped,
			"inserted":  inserted,
			"dry_run":   c.DryRun,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if c.DryRun {
		fmt.Printf("Would import %d events from %s\n", len(events), file)
	} else {
		fmt.Printf("Imported %d events from %s\n", inserted, file)
	}
	if batch.Skipped > 0 {
		fmt.Printf("  Skipped:   %d malformed lines\n", batch.Skipped)
	}
	if dropped > 0 {
		fmt.Printf("  Incognito: %d events excluded\n", dropped)
	}
	if len(events) > 0 {
		first := events[0].Timestamp.Local().Format(time.DateTime)
		last := events[len(events)-1].Timestamp.Local().Format(time.DateTime)
		fmt.Printf("  Range:     %s .. %s\n", first, last)
	}

	return nil
}
