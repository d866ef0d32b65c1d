package detector

import "time"

// SignalType identifies which heuristic produced a signal.
type SignalType string

const (
	SignalIdle          SignalType = "idle"
	SignalDomainChange  SignalType = "domain_change"
	SignalNavigationGap SignalType = "navigation_gap"
	SignalWindowPattern SignalType = "window_pattern"
	SignalTimeBased     SignalType = "time_based"
)

// Signal is one weighted vote for a session boundary, produced and
// consumed within a single detection pass. Strength is in [0,1].
type Signal struct {
	Type      SignalType
	Strength  float64
	Timestamp time.Time
	Metadata  map[string]any
}

// Reason explains why a boundary was created.
type Reason string

const (
	ReasonIdleTimeout   Reason = "idle_timeout"
	ReasonDomainChange  Reason = "domain_change"
	ReasonNavigationGap Reason = "navigation_gap"
	ReasonUserInitiated Reason = "user_initiated"
)

// Boundary marks the end of a browsing session. SessionID is left blank
// for the session manager to fill when it closes the session.
type Boundary struct {
	ID        string
	Type      string // only "end" boundaries are produced
	Reason    Reason
	Timestamp time.Time
	SessionID string
	Metadata  map[string]any
}

// Config holds the detector's thresholds and injected collaborators.
// Classify maps a hostname to a category; nil disables category-difference
// scoring in the domain-change detector. Now is the clock used by the
// time-based detector; nil means time.Now.
type Config struct {
	IdleThreshold        time.Duration
	SessionGap           time.Duration
	DomainChangeBoundary bool
	BoundaryThreshold    float64
	Classify             func(domain string) string
	Now                  func() time.Time
}

// DefaultConfig returns detector defaults matching the shipped config file.
func DefaultConfig() Config {
	return Config{
		IdleThreshold:        30 * time.Minute,
		SessionGap:           30 * time.Minute,
		DomainChangeBoundary: true,
		BoundaryThreshold:    0.7,
	}
}

func reasonFor(t SignalType) Reason {
	switch t {
	case SignalIdle:
		return ReasonIdleTimeout
	case SignalDomainChange:
		return ReasonDomainChange
	case SignalNavigationGap:
		return ReasonNavigationGap
	default:
		// Window and time-of-day patterns reflect the user wrapping up
		// rather than a measured discontinuity.
		return ReasonUserInitiated
	}
}
