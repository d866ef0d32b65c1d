package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/runnerr0/sessionlens/internal/config"
	"github.com/runnerr0/sessionlens/internal/storage"
)

// Execute implements the go-flags Commander interface for PruneCommand.
func (c *PruneCommand) Execute(args []string) error {
	cfg := loadConfig(c.globals)
	store, db, err := openStore(c.globals, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(store, cfg, time.Now())
}

// executeWithStore runs pruning against a provided store (for testing).
func (c *PruneCommand) executeWithStore(store storage.Store, cfg *config.Config, now time.Time) error {
	retention := time.Duration(cfg.Retention.Days) * 24 * time.Hour
	if c.OlderThan != "" {
		dur, err := parseDuration(c.OlderThan)
		if err != nil {
			return fmt.Errorf("invalid --older-than value %q: %w", c.OlderThan, err)
		}
		retention = dur
	}
	cutoff := now.Add(-retention)

	ctx := context.Background()

	if c.DryRun {
		stats, err := store.GetStats(ctx)
		if err != nil {
			return fmt.Errorf("get stats: %w", err)
		}
		affected := stats.TotalEvents > 0 && stats.OldestEvent.Before(cutoff)

		if c.globals != nil && c.globals.JSON {
			enc := json.NewEncoder(os.Stdout)
			return enc.Encode(map[string]any{
				"dry_run":      true,
				"cutoff":       cutoff.UTC().Format(time.RFC3339),
				"would_affect": affected,
			})
		}
		if affected {
			fmt.Printf("Would prune events older than %s.\n", cutoff.Local().Format("2006-01-02"))
		} else {
			fmt.Println("Nothing to prune.")
		}
		return nil
	}

	pruned, err := store.PruneExpired(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("prune: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(map[string]any{
			"pruned": pruned,
			"cutoff": cutoff.UTC().Format(time.RFC3339),
		})
	}

	fmt.Printf("Pruned %d events older than %s.\n", pruned, cutoff.Local().Format("2006-01-02"))
	return nil
}
