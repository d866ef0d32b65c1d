package analytics

import (
	"time"

	"github.com/runnerr0/sessionlens/internal/event"
)

// BlockType classifies a time block by the kind of activity inside it.
type BlockType string

const (
	BlockActive     BlockType = "active"
	BlockIdle       BlockType = "idle"
	BlockFocused    BlockType = "focused"
	BlockDistracted BlockType = "distracted"
)

// TimeBlock is a contiguous run of events, rebuilt in full on every batch.
type TimeBlock struct {
	Start          time.Time
	End            time.Time
	Duration       time.Duration
	Type           BlockType
	Events         []event.Event
	Domains        map[string]struct{}
	TabSwitches    int
	WindowSwitches int
}

// Productivity levels for a domain.
const (
	ProductivityHigh   = "high"
	ProductivityMedium = "medium"
	ProductivityLow    = "low"
)

// DomainAnalytics aggregates usage of a single domain across a batch.
type DomainAnalytics struct {
	Domain               string
	TotalTime            time.Duration
	VisitCount           int
	AverageVisitDuration time.Duration
	FocusScore           float64 // 0..100
	Productivity         string
	Category             string
	PeakHours            []int
	Patterns             []string // reserved
}

// PatternType names a detected activity pattern.
type PatternType string

const (
	PatternFocusPeriod   PatternType = "focus_period"
	PatternMultitasking  PatternType = "multitasking"
	PatternBrowsingSpree PatternType = "browsing_spree"
	PatternResearchMode  PatternType = "research_mode"
)

// PatternCharacteristics snapshots the numbers behind a detected pattern.
type PatternCharacteristics struct {
	DomainCount   int
	TabSwitchRate float64 // switches per minute
	AvgPageTime   time.Duration
	ScrollEvents  int
}

// ActivityPattern is one detected behavioral pattern.
type ActivityPattern struct {
	Type            PatternType
	StartTime       time.Time
	Duration        time.Duration
	Confidence      float64 // 0..1
	Characteristics PatternCharacteristics
}

// TimeRange is a half-open [Start, End) span.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// ProductivityMetrics summarizes a whole batch.
type ProductivityMetrics struct {
	SessionID          string
	TotalTime          time.Duration
	ActiveTime         time.Duration
	IdleTime           time.Duration
	TabSwitches        int
	WindowSwitches     int
	UniqueDomains      int
	PageCount          int
	ScrollEvents       int
	ClickEvents        int
	FormInteractions   int
	DeepWorkPeriods    []TimeRange
	DistractionPeriods []TimeRange
	FocusScore         float64 // 0..100
}

// Config holds the engine's thresholds. Classify maps a hostname to a
// category; nil classifies everything as "other".
type Config struct {
	BlockGap             time.Duration
	BlockMaxEvents       int
	VisitGap             time.Duration
	DeepWorkThreshold    time.Duration
	DistractionThreshold time.Duration
	Classify             func(domain string) string
}

// DefaultConfig returns engine defaults matching the shipped config file.
// The numeric values are calibration constants carried over from tuning,
// not load-bearing business rules.
func DefaultConfig() Config {
	return Config{
		BlockGap:             5 * time.Minute,
		BlockMaxEvents:       50,
		VisitGap:             10 * time.Minute,
		DeepWorkThreshold:    15 * time.Minute,
		DistractionThreshold: 5 * time.Minute,
	}
}

// Metric names accepted by Query. Unknown names are ignored.
const (
	MetricTime         = "time"
	MetricProductivity = "productivity"
	MetricPatterns     = "patterns"
	MetricDomains      = "domains"
	MetricActivity     = "activity"
)

// Query selects a date range, an optional session, and the metric sections
// to include in the result.
type Query struct {
	Start     time.Time
	End       time.Time
	SessionID string
	Metrics   []string
}

// TimeSummary is the time section of a query result.
type TimeSummary struct {
	TotalTime      time.Duration
	ActiveTime     time.Duration
	IdleTime       time.Duration
	FocusedTime    time.Duration
	DistractedTime time.Duration
	BlockCount     int
	FirstActivity  time.Time
	LastActivity   time.Time
}

// ActivitySummary is the raw event-count section of a query result.
type ActivitySummary struct {
	TotalEvents      int
	PageViews        int
	Scrolls          int
	Clicks           int
	FormInteractions int
	TabSwitches      int
	WindowSwitches   int
}

// Result carries only the sections a query requested; the rest stay nil.
type Result struct {
	Time         *TimeSummary
	Productivity *ProductivityMetrics
	Patterns     []ActivityPattern
	Domains      []DomainAnalytics
	Activity     *ActivitySummary
}

// Stats is the engine's introspection view.
type Stats struct {
	Processed  bool
	EventCount int
	TimeBlocks int
	Domains    int
	Patterns   int
}
