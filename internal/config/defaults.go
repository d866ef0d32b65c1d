package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Detection: DetectionConfig{
			IdleThresholdMinutes: 30,
			SessionGapMinutes:    30,
			DomainChangeBoundary: true,
			BoundaryThreshold:    0.7,
		},
		Analytics: AnalyticsConfig{
			BlockGapMinutes:             5,
			BlockMaxEvents:              50,
			VisitGapMinutes:             10,
			DeepWorkThresholdMinutes:    15,
			DistractionThresholdMinutes: 5,
		},
		Capture: CaptureConfig{
			TrackScrolling:        true,
			TrackClicks:           true,
			TrackFormInteractions: true,
			ExcludeIncognito:      true,
		},
		Retention: RetentionConfig{
			Days:               90,
			PruneIntervalHours: 24,
		},
		Storage: StorageConfig{
			Path:              "~/.config/sessionlens",
			SQLiteFile:        "sessionlens.db",
			SQLiteJournalMode: "wal",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "sessionlens.log",
		},
		Categories: map[string][]string{},
	}
}
