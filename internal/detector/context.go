package detector

import (
	"time"

	"github.com/runnerr0/sessionlens/internal/event"
)

// Bounded-collection caps. The context must stay O(1) in memory no matter
// how long a tracking lifetime runs.
const (
	maxWindowEvents   = 50
	maxActiveDomains  = 10
	domainPruneWindow = 20
	maxGapHistory     = 10
	maxTransitions    = 20
)

// transition records a switch from one domain to another.
type transition struct {
	From string
	To   string
	At   time.Time
}

// Context is the detector's rolling view of recent activity. One instance
// lives for the whole tracking lifetime; Update mutates it on every event.
// Not safe for concurrent use.
type Context struct {
	events        []event.Event
	activeDomains map[string]struct{}
	lastDomain    string

	lastActivity time.Time
	// lastGap is the interval between the current event and the activity
	// that preceded it, captured before lastActivity is advanced.
	lastGap time.Duration
	// prevDomains snapshots the active set as it was before the current
	// event, so detectors can compare against pre-event state.
	prevDomains   map[string]struct{}
	domainChanged bool

	windowCount int
	tabCount    int

	lastNavTime    time.Time
	navigationGaps []time.Duration

	transitions []transition
}

// NewContext returns an empty rolling context.
func NewContext() *Context {
	return &Context{
		activeDomains: make(map[string]struct{}),
		prevDomains:   make(map[string]struct{}),
	}
}

// Update folds one event into the context: appends to the rolling window,
// maintains the domain set and transition list, advances activity and
// navigation bookkeeping, and prunes every bounded collection.
func (c *Context) Update(ev event.Event) {
	// Activity gap, before the clock moves.
	if c.lastActivity.IsZero() {
		c.lastGap = 0
	} else {
		c.lastGap = ev.Timestamp.Sub(c.lastActivity)
	}

	c.events = append(c.events, ev)
	if len(c.events) > maxWindowEvents {
		c.events = c.events[len(c.events)-maxWindowEvents:]
	}

	c.updateDomains(ev)
	c.updateCounters(ev)
	c.updateNavigation(ev)

	c.lastActivity = ev.Timestamp
}

func (c *Context) updateDomains(ev event.Event) {
	c.prevDomains = make(map[string]struct{}, len(c.activeDomains))
	for d := range c.activeDomains {
		c.prevDomains[d] = struct{}{}
	}
	c.domainChanged = false

	d := ev.Domain()
	if d == "" {
		return
	}

	if _, seen := c.activeDomains[d]; !seen {
		c.domainChanged = true
		c.activeDomains[d] = struct{}{}

		if c.lastDomain != "" && c.lastDomain != d {
			c.transitions = append(c.transitions, transition{
				From: c.lastDomain,
				To:   d,
				At:   ev.Timestamp,
			})
			if len(c.transitions) > maxTransitions {
				c.transitions = c.transitions[len(c.transitions)-maxTransitions:]
			}
		}
	}
	c.lastDomain = d

	if len(c.activeDomains) > maxActiveDomains {
		c.pruneDomains()
	}
}

// pruneDomains shrinks the active set back to the domains seen in the most
// recent events of the rolling window.
func (c *Context) pruneDomains() {
	recent := make(map[string]struct{})
	start := len(c.events) - domainPruneWindow
	if start < 0 {
		start = 0
	}
	for _, ev := range c.events[start:] {
		if d := ev.Domain(); d != "" {
			recent[d] = struct{}{}
		}
	}
	c.activeDomains = recent
}

func (c *Context) updateCounters(ev event.Event) {
	switch ev.Type {
	case event.WindowCreated:
		c.windowCount++
	case event.WindowRemoved:
		if c.windowCount > 0 {
			c.windowCount--
		}
	case event.TabCreated:
		c.tabCount++
	case event.TabRemoved:
		if c.tabCount > 0 {
			c.tabCount--
		}
	}
}

func (c *Context) updateNavigation(ev event.Event) {
	if !ev.IsNavigation() {
		return
	}
	if !c.lastNavTime.IsZero() {
		c.navigationGaps = append(c.navigationGaps, ev.Timestamp.Sub(c.lastNavTime))
		if len(c.navigationGaps) > maxGapHistory {
			c.navigationGaps = c.navigationGaps[len(c.navigationGaps)-maxGapHistory:]
		}
	}
	c.lastNavTime = ev.Timestamp
}

// sessionDuration is the span from the oldest event still in the rolling
// window to t.
func (c *Context) sessionDuration(t time.Time) time.Duration {
	if len(c.events) == 0 {
		return 0
	}
	return t.Sub(c.events[0].Timestamp)
}

// Snapshot is a read-only diagnostic view of the context.
type Snapshot struct {
	EventCount    int
	ActiveDomains []string
	WindowCount   int
	TabCount      int
	LastActivity  time.Time
	Transitions   int
}

// Snapshot returns the current diagnostic view.
func (c *Context) Snapshot() Snapshot {
	domains := make([]string, 0, len(c.activeDomains))
	for d := range c.activeDomains {
		domains = append(domains, d)
	}
	return Snapshot{
		EventCount:    len(c.events),
		ActiveDomains: domains,
		WindowCount:   c.windowCount,
		TabCount:      c.tabCount,
		LastActivity:  c.lastActivity,
		Transitions:   len(c.transitions),
	}
}
