// Package detector decides where one browsing session ends and the next
// begins. It consumes events one at a time against a rolling context, runs
// five independent heuristics over each, and turns strong agreement between
// them into a session boundary.
package detector

import (
	"time"

	"github.com/google/uuid"
	"github.com/runnerr0/sessionlens/internal/event"
)

// Signal history caps, kept purely for diagnostics.
const (
	maxSignalHistory  = 100
	trimSignalHistory = 50
)

// Detector is the online session boundary classifier. It holds the only
// long-lived state in the core; callers invoke it serially, one event per
// call. Not safe for concurrent use.
type Detector struct {
	cfg     Config
	ctx     *Context
	history []Signal
}

// New returns a Detector with the given configuration. Zero-valued
// thresholds fall back to defaults; a nil clock means time.Now.
func New(cfg Config) *Detector {
	def := DefaultConfig()
	if cfg.IdleThreshold <= 0 {
		cfg.IdleThreshold = def.IdleThreshold
	}
	if cfg.SessionGap <= 0 {
		cfg.SessionGap = def.SessionGap
	}
	if cfg.BoundaryThreshold <= 0 {
		cfg.BoundaryThreshold = def.BoundaryThreshold
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Detector{
		cfg: cfg,
		ctx: NewContext(),
	}
}

// AnalyzeEvent folds the event into the rolling context, then runs every
// signal detector against the updated context. It never fails; an event
// that trips no heuristic yields an empty slice.
func (d *Detector) AnalyzeEvent(ev event.Event) []Signal {
	d.ctx.Update(ev)

	now := d.cfg.Now()
	var signals []Signal
	for _, detect := range allSignals {
		signals = append(signals, detect(d.ctx, ev, d.cfg, now)...)
	}

	d.history = append(d.history, signals...)
	if len(d.history) > maxSignalHistory {
		d.history = d.history[len(d.history)-trimSignalHistory:]
	}

	return signals
}

// ShouldCreateBoundary aggregates the signals from one detection pass. When
// the mean strength crosses the boundary threshold it returns an "end"
// boundary attributed to the strongest signal; otherwise nil.
func (d *Detector) ShouldCreateBoundary(signals []Signal) *Boundary {
	if len(signals) == 0 {
		return nil
	}

	var sum float64
	primary := signals[0]
	for _, s := range signals {
		sum += s.Strength
		if s.Strength > primary.Strength {
			primary = s
		}
	}
	if sum/float64(len(signals)) < d.cfg.BoundaryThreshold {
		return nil
	}

	types := make([]string, len(signals))
	for i, s := range signals {
		types[i] = string(s.Type)
	}

	metadata := map[string]any{
		"primary_signal":     string(primary.Type),
		"primary_strength":   primary.Strength,
		"signal_count":       len(signals),
		"contributing_types": types,
	}
	for k, v := range primary.Metadata {
		metadata[k] = v
	}

	return &Boundary{
		ID:        uuid.NewString(),
		Type:      "end",
		Reason:    reasonFor(primary.Type),
		Timestamp: primary.Timestamp,
		Metadata:  metadata,
	}
}

// Reset clears the rolling context and signal history. The caller decides
// when to reset; creating a boundary does not do it implicitly.
func (d *Detector) Reset() {
	d.ctx = NewContext()
	d.history = nil
}

// RecentSignals returns the bounded diagnostic signal history.
func (d *Detector) RecentSignals() []Signal {
	out := make([]Signal, len(d.history))
	copy(out, d.history)
	return out
}

// ContextSnapshot returns a diagnostic view of the rolling context.
func (d *Detector) ContextSnapshot() Snapshot {
	return d.ctx.Snapshot()
}
