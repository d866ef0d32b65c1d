package cli

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/runnerr0/sessionlens/internal/analytics"
	"github.com/runnerr0/sessionlens/internal/config"
	"github.com/runnerr0/sessionlens/internal/detector"
	"github.com/runnerr0/sessionlens/internal/storage"
)

// loadConfig resolves the effective configuration: --config path if given,
// otherwise the default path (created on first use). An unreadable file
// falls back to defaults rather than blocking read-only commands.
func loadConfig(globals *GlobalFlags) *config.Config {
	if globals != nil && globals.Config != "" {
		cfg, err := config.Load(globals.Config)
		if err != nil {
			return config.DefaultConfig()
		}
		return cfg
	}
	cfg, err := config.LoadOrCreate()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// resolveDBPath determines the SQLite database file path.
// Priority: --db-path flag > config file > default config.
func resolveDBPath(globals *GlobalFlags, cfg *config.Config) (string, error) {
	if globals != nil && globals.DBPath != "" {
		return globals.DBPath, nil
	}

	storagePath := cfg.Storage.Path
	if strings.HasPrefix(storagePath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		storagePath = filepath.Join(home, storagePath[1:])
	}

	return filepath.Join(storagePath, cfg.Storage.SQLiteFile), nil
}

// openStore opens the configured SQLite store with migrations applied.
func openStore(globals *GlobalFlags, cfg *config.Config) (*storage.SQLiteStore, *sql.DB, error) {
	dbPath, err := resolveDBPath(globals, cfg)
	if err != nil {
		return nil, nil, err
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	runner := storage.NewMigrationRunner(db)
	if err := runner.Run(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	store, err := storage.NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("init store: %w", err)
	}

	return store, db, nil
}

// detectorConfig maps the file configuration onto the detector package.
func detectorConfig(cfg *config.Config) detector.Config {
	rules := cfg.CategoryRules()
	return detector.Config{
		IdleThreshold:        time.Duration(cfg.Detection.IdleThresholdMinutes) * time.Minute,
		SessionGap:           time.Duration(cfg.Detection.SessionGapMinutes) * time.Minute,
		DomainChangeBoundary: cfg.Detection.DomainChangeBoundary,
		BoundaryThreshold:    cfg.Detection.BoundaryThreshold,
		Classify:             rules.Classify,
	}
}

// engineConfig maps the file configuration onto the analytics package.
func engineConfig(cfg *config.Config) analytics.Config {
	rules := cfg.CategoryRules()
	return analytics.Config{
		BlockGap:             time.Duration(cfg.Analytics.BlockGapMinutes) * time.Minute,
		BlockMaxEvents:       cfg.Analytics.BlockMaxEvents,
		VisitGap:             time.Duration(cfg.Analytics.VisitGapMinutes) * time.Minute,
		DeepWorkThreshold:    time.Duration(cfg.Analytics.DeepWorkThresholdMinutes) * time.Minute,
		DistractionThreshold: time.Duration(cfg.Analytics.DistractionThresholdMinutes) * time.Minute,
		Classify:             rules.Classify,
	}
}

// parseDuration parses a human-friendly duration string like "30d", "7d", "24h", "2w".
func parseDuration(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration: %q", s)
	}

	suffix := s[len(s)-1]
	numStr := s[:len(s)-1]

	n, err := strconv.Atoi(numStr)
	if err != nil {
		return 0, fmt.Errorf("invalid duration: %q", s)
	}

	switch suffix {
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'w':
		return time.Duration(n) * 7 * 24 * time.Hour, nil
	case 'm':
		return time.Duration(n) * time.Minute, nil
	default:
		return 0, fmt.Errorf("invalid duration: %q (use d, h, w, or m suffix)", s)
	}
}

// timeWindow converts --since/--until durations into absolute bounds.
func timeWindow(since, until string, now time.Time) (time.Time, time.Time, error) {
	var start, end time.Time

	if since != "" {
		dur, err := parseDuration(since)
		if err != nil {
			return start, end, fmt.Errorf("invalid --since value %q: %w", since, err)
		}
		start = now.Add(-dur)
	}
	if until != "" {
		dur, err := parseDuration(until)
		if err != nil {
			return start, end, fmt.Errorf("invalid --until value %q: %w", until, err)
		}
		end = now.Add(-dur)
	}
	return start, end, nil
}

// formatDurationHuman formats a duration into a human-readable string like
// "2h 05m" or "45m".
func formatDurationHuman(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %02dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", int(d.Seconds()))
}
