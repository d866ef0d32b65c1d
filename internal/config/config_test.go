package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 30, cfg.Detection.IdleThresholdMinutes)
	assert.Equal(t, 30, cfg.Detection.SessionGapMinutes)
	assert.True(t, cfg.Detection.DomainChangeBoundary)
	assert.InDelta(t, 0.7, cfg.Detection.BoundaryThreshold, 1e-9)

	assert.Equal(t, 5, cfg.Analytics.BlockGapMinutes)
	assert.Equal(t, 50, cfg.Analytics.BlockMaxEvents)
	assert.Equal(t, 10, cfg.Analytics.VisitGapMinutes)
	assert.Equal(t, 15, cfg.Analytics.DeepWorkThresholdMinutes)
	assert.Equal(t, 5, cfg.Analytics.DistractionThresholdMinutes)

	assert.True(t, cfg.Capture.ExcludeIncognito)
	assert.Equal(t, 90, cfg.Retention.Days)
	assert.Equal(t, "~/.config/sessionlens", cfg.Storage.Path)
	assert.Equal(t, "sessionlens.db", cfg.Storage.SQLiteFile)
	assert.Equal(t, "wal", cfg.Storage.SQLiteJournalMode)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadValidYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yamlContent := `
detection:
  idle_threshold_minutes: 45
  domain_change_boundary: false
analytics:
  deep_work_threshold_minutes: 25
retention:
  days: 14
capture:
  exclude_incognito: false
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(yamlContent), 0644))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, 45, cfg.Detection.IdleThresholdMinutes)
	assert.False(t, cfg.Detection.DomainChangeBoundary)
	assert.Equal(t, 25, cfg.Analytics.DeepWorkThresholdMinutes)
	assert.Equal(t, 14, cfg.Retention.Days)

	// Untouched values keep defaults.
	assert.Equal(t, 30, cfg.Detection.SessionGapMinutes)
	assert.Equal(t, 5, cfg.Analytics.BlockGapMinutes)

	// Incognito exclusion cannot be disabled.
	assert.True(t, cfg.Capture.ExcludeIncognito)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("detection: [not a map"), 0644))

	_, err := Load(cfgPath)
	assert.Error(t, err)
}

func TestLoadOrCreateAt_WritesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "nested", "config.yaml")

	cfg, err := LoadOrCreateAt(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Detection.IdleThresholdMinutes)

	// File should now exist and load cleanly.
	_, err = os.Stat(cfgPath)
	require.NoError(t, err)

	again, err := LoadOrCreateAt(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, cfg.Detection, again.Detection)
}

func TestDefaultCategoryRules_Classify(t *testing.T) {
	rules := DefaultCategoryRules()

	tests := []struct {
		domain   string
		expected string
	}{
		{"github.com", CategoryWork},
		{"gist.github.com", CategoryWork},
		{"reddit.com", CategorySocial},
		{"www.youtube.com", CategoryEntertainment},
		{"amazon.com", CategoryShopping},
		{"news.ycombinator.com", CategoryNews},
		{"en.wikipedia.org", CategoryEducation},
		{"randomsite.io", CategoryOther},
		{"", CategoryOther},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, rules.Classify(tc.domain), "category for %q", tc.domain)
	}
}

func TestClassify_KeywordFallback(t *testing.T) {
	rules := DefaultCategoryRules()

	assert.Equal(t, CategoryWork, rules.Classify("jira.mycorp.internal"))
	assert.Equal(t, CategoryEducation, rules.Classify("cs.stanford.edu"))
	assert.Equal(t, CategoryShopping, rules.Classify("bikestore.example"))
}

func TestCategoryRules_ConfigOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Categories = map[string][]string{
		CategoryWork: {"mycorp.example"},
	}

	rules := cfg.CategoryRules()
	assert.Equal(t, CategoryWork, rules.Classify("mycorp.example"))
	// Override replaces the work list entirely; github falls back to the
	// keyword tables and classifies as other.
	assert.Equal(t, CategoryOther, rules.Classify("github.com"))
	// Other categories keep their defaults.
	assert.Equal(t, CategorySocial, rules.Classify("reddit.com"))
}
