package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default config file path.
const DefaultConfigPath = "~/.config/sessionlens/config.yaml"

// Config holds all SessionLens configuration.
type Config struct {
	Detection  DetectionConfig     `yaml:"detection"`
	Analytics  AnalyticsConfig     `yaml:"analytics"`
	Capture    CaptureConfig       `yaml:"capture"`
	Retention  RetentionConfig     `yaml:"retention"`
	Storage    StorageConfig       `yaml:"storage"`
	Logging    LoggingConfig       `yaml:"logging"`
	Categories map[string][]string `yaml:"categories"`
}

// DetectionConfig tunes the session boundary detector. The boundary
// threshold is a calibration constant, not a business rule; it is exposed
// here so deployments can tune it without a rebuild.
type DetectionConfig struct {
	IdleThresholdMinutes int     `yaml:"idle_threshold_minutes"`
	SessionGapMinutes    int     `yaml:"session_gap_minutes"`
	DomainChangeBoundary bool    `yaml:"domain_change_boundary"`
	BoundaryThreshold    float64 `yaml:"boundary_threshold"`
}

// AnalyticsConfig tunes the batch analytics engine.
type AnalyticsConfig struct {
	BlockGapMinutes             int `yaml:"block_gap_minutes"`
	BlockMaxEvents              int `yaml:"block_max_events"`
	VisitGapMinutes             int `yaml:"visit_gap_minutes"`
	DeepWorkThresholdMinutes    int `yaml:"deep_work_threshold_minutes"`
	DistractionThresholdMinutes int `yaml:"distraction_threshold_minutes"`
}

// CaptureConfig mirrors the capture-side toggles. The extension consumes
// these; SessionLens only honors exclude_incognito at import time.
type CaptureConfig struct {
	TrackScrolling        bool `yaml:"track_scrolling"`
	TrackClicks           bool `yaml:"track_clicks"`
	TrackFormInteractions bool `yaml:"track_form_interactions"`
	ExcludeIncognito      bool `yaml:"exclude_incognito"`
}

type RetentionConfig struct {
	Days               int `yaml:"days"`
	PruneIntervalHours int `yaml:"prune_interval_hours"`
}

type StorageConfig struct {
	Path              string `yaml:"path"`
	SQLiteFile        string `yaml:"sqlite_file"`
	SQLiteJournalMode string `yaml:"sqlite_journal_mode"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// ExcludeIncognito is always true regardless of config file.
	cfg.Capture.ExcludeIncognito = true

	return cfg, nil
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	path, err := expandPath(DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		return cfg, nil
	}

	return Load(path)
}

// CategoryRules returns the domain categorization tables for this config:
// the curated defaults, with any categories: section from the YAML file
// replacing the defaults for the categories it names.
func (c *Config) CategoryRules() *Rules {
	rules := DefaultCategoryRules()
	for category, domains := range c.Categories {
		rules.Domains[category] = domains
	}
	return rules
}
