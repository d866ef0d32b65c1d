// Package analytics is the batch half of the core: it segments a finished
// event set into classified time blocks, profiles domain usage, detects
// behavioral patterns, and scores productivity, all behind a query surface
// that never fails on bad input.
package analytics

import (
	"time"

	"github.com/runnerr0/sessionlens/internal/event"
)

// Engine recomputes all derived state from scratch on every batch. It holds
// no history across unrelated batches and performs no I/O. Callers must not
// query concurrently with an in-flight ProcessEvents on the same instance.
type Engine struct {
	cfg Config

	events   []event.Event
	blocks   []TimeBlock
	domains  []DomainAnalytics
	patterns []ActivityPattern
	metrics  *ProductivityMetrics
}

// NewEngine returns an Engine with the given configuration. Zero-valued
// thresholds fall back to defaults.
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.BlockGap <= 0 {
		cfg.BlockGap = def.BlockGap
	}
	if cfg.BlockMaxEvents <= 0 {
		cfg.BlockMaxEvents = def.BlockMaxEvents
	}
	if cfg.VisitGap <= 0 {
		cfg.VisitGap = def.VisitGap
	}
	if cfg.DeepWorkThreshold <= 0 {
		cfg.DeepWorkThreshold = def.DeepWorkThreshold
	}
	if cfg.DistractionThreshold <= 0 {
		cfg.DistractionThreshold = def.DistractionThreshold
	}
	return &Engine{cfg: cfg}
}

// ProcessEvents discards all prior derived state and recomputes it from the
// batch. An empty batch leaves the engine empty. The input slice is not
// mutated; events are copied and stably sorted by timestamp.
func (e *Engine) ProcessEvents(events []event.Event) {
	e.Clear()
	if len(events) == 0 {
		return
	}

	sorted := make([]event.Event, len(events))
	copy(sorted, events)
	event.SortByTimestamp(sorted)

	e.events = sorted
	e.blocks = segmentBlocks(sorted, e.cfg)
	e.domains = analyzeDomains(sorted, e.blocks, e.cfg)
	e.patterns = detectPatterns(e.blocks, e.cfg)
	e.metrics = computeProductivity(sorted, e.blocks, e.cfg)
}

// UpdateConfig replaces the threshold configuration for future batches.
// Already-computed state is not recomputed.
func (e *Engine) UpdateConfig(cfg Config) {
	if cfg.BlockGap > 0 {
		e.cfg.BlockGap = cfg.BlockGap
	}
	if cfg.BlockMaxEvents > 0 {
		e.cfg.BlockMaxEvents = cfg.BlockMaxEvents
	}
	if cfg.VisitGap > 0 {
		e.cfg.VisitGap = cfg.VisitGap
	}
	if cfg.DeepWorkThreshold > 0 {
		e.cfg.DeepWorkThreshold = cfg.DeepWorkThreshold
	}
	if cfg.DistractionThreshold > 0 {
		e.cfg.DistractionThreshold = cfg.DistractionThreshold
	}
	if cfg.Classify != nil {
		e.cfg.Classify = cfg.Classify
	}
}

// Clear drops every piece of derived state.
func (e *Engine) Clear() {
	e.events = nil
	e.blocks = nil
	e.domains = nil
	e.patterns = nil
	e.metrics = nil
}

// Stats returns the engine's introspection counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Processed:  e.metrics != nil,
		EventCount: len(e.events),
		TimeBlocks: len(e.blocks),
		Domains:    len(e.domains),
		Patterns:   len(e.patterns),
	}
}

// Blocks returns the classified time blocks of the current batch.
func (e *Engine) Blocks() []TimeBlock {
	return e.blocks
}

// Query assembles the requested metric sections for a date range and an
// optional session. Invalid input never errors: an inverted range or a
// session with no events yields empty, zero-valued sections, and unknown
// metric names are ignored. An empty metric set selects every section.
func (e *Engine) Query(q Query) Result {
	var res Result

	want := make(map[string]bool, len(q.Metrics))
	for _, m := range q.Metrics {
		want[m] = true
	}
	all := len(q.Metrics) == 0

	inverted := !q.Start.IsZero() && !q.End.IsZero() && q.Start.After(q.End)

	blocks := e.blocks
	events := e.events
	patterns := e.patterns
	domains := e.domains
	if inverted {
		blocks, events, patterns, domains = nil, nil, nil, nil
	} else {
		blocks = filterBlocks(blocks, q)
		events = filterEvents(events, q)
		patterns = filterPatterns(patterns, q)
	}

	if all || want[MetricTime] {
		res.Time = summarizeTime(blocks)
	}
	if all || want[MetricProductivity] {
		if e.metrics != nil && !inverted {
			m := *e.metrics
			res.Productivity = &m
		} else {
			res.Productivity = &ProductivityMetrics{}
		}
	}
	if all || want[MetricPatterns] {
		res.Patterns = patterns
	}
	if all || want[MetricDomains] {
		res.Domains = domains
	}
	if all || want[MetricActivity] {
		res.Activity = summarizeActivity(events)
	}

	return res
}

func inRange(t time.Time, q Query) bool {
	if !q.Start.IsZero() && t.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && t.After(q.End) {
		return false
	}
	return true
}

func filterBlocks(blocks []TimeBlock, q Query) []TimeBlock {
	var out []TimeBlock
	for _, b := range blocks {
		if !inRange(b.Start, q) {
			continue
		}
		if q.SessionID != "" && !blockHasSession(b, q.SessionID) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func blockHasSession(b TimeBlock, sessionID string) bool {
	for _, ev := range b.Events {
		if ev.SessionID == sessionID {
			return true
		}
	}
	return false
}

func filterEvents(events []event.Event, q Query) []event.Event {
	var out []event.Event
	for _, ev := range events {
		if !inRange(ev.Timestamp, q) {
			continue
		}
		if q.SessionID != "" && ev.SessionID != q.SessionID {
			continue
		}
		out = append(out, ev)
	}
	return out
}

func filterPatterns(patterns []ActivityPattern, q Query) []ActivityPattern {
	var out []ActivityPattern
	for _, p := range patterns {
		if inRange(p.StartTime, q) {
			out = append(out, p)
		}
	}
	return out
}

func summarizeTime(blocks []TimeBlock) *TimeSummary {
	s := &TimeSummary{BlockCount: len(blocks)}
	for _, b := range blocks {
		if s.FirstActivity.IsZero() || b.Start.Before(s.FirstActivity) {
			s.FirstActivity = b.Start
		}
		if b.End.After(s.LastActivity) {
			s.LastActivity = b.End
		}
		switch b.Type {
		case BlockIdle:
			s.IdleTime += b.Duration
		case BlockFocused:
			s.FocusedTime += b.Duration
			s.ActiveTime += b.Duration
		case BlockDistracted:
			s.DistractedTime += b.Duration
			s.ActiveTime += b.Duration
		default:
			s.ActiveTime += b.Duration
		}
	}
	if !s.FirstActivity.IsZero() {
		s.TotalTime = s.LastActivity.Sub(s.FirstActivity)
	}
	if s.ActiveTime > s.TotalTime {
		s.ActiveTime = s.TotalTime
	}
	return s
}

func summarizeActivity(events []event.Event) *ActivitySummary {
	s := &ActivitySummary{TotalEvents: len(events)}
	for _, ev := range events {
		switch ev.Type {
		case event.PageLoad, event.NavigationComplete:
			s.PageViews++
		case event.Scroll:
			s.Scrolls++
		case event.Click:
			s.Clicks++
		case event.FormInteraction:
			s.FormInteractions++
		case event.TabActivated:
			s.TabSwitches++
		case event.WindowCreated, event.WindowRemoved:
			s.WindowSwitches++
		}
	}
	return s
}
