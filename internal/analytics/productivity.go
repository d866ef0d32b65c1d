package analytics

import (
	"github.com/runnerr0/sessionlens/internal/event"
)

// computeProductivity derives the batch-level productivity metrics from the
// sorted events and their classified blocks.
func computeProductivity(events []event.Event, blocks []TimeBlock, cfg Config) *ProductivityMetrics {
	m := &ProductivityMetrics{}
	if len(events) == 0 {
		return m
	}

	m.SessionID = events[0].SessionID
	m.TotalTime = events[len(events)-1].Timestamp.Sub(events[0].Timestamp)

	domains := make(map[string]struct{})
	for _, ev := range events {
		if d := ev.Domain(); d != "" {
			domains[d] = struct{}{}
		}
		switch ev.Type {
		case event.TabActivated:
			m.TabSwitches++
		case event.WindowCreated, event.WindowRemoved:
			m.WindowSwitches++
		case event.PageLoad, event.NavigationComplete:
			m.PageCount++
		case event.Scroll:
			m.ScrollEvents++
		case event.Click:
			m.ClickEvents++
		case event.FormInteraction:
			m.FormInteractions++
		}
	}
	m.UniqueDomains = len(domains)

	for _, b := range blocks {
		if b.Type != BlockIdle {
			m.ActiveTime += b.Duration
		}
		if b.Type == BlockFocused && b.Duration > cfg.DeepWorkThreshold {
			m.DeepWorkPeriods = append(m.DeepWorkPeriods, TimeRange{Start: b.Start, End: b.End})
		}
		if b.Type == BlockDistracted && b.Duration > cfg.DistractionThreshold {
			m.DistractionPeriods = append(m.DistractionPeriods, TimeRange{Start: b.Start, End: b.End})
		}
	}
	if m.ActiveTime > m.TotalTime {
		m.ActiveTime = m.TotalTime
	}
	m.IdleTime = m.TotalTime - m.ActiveTime

	m.FocusScore = focusScore(m)
	return m
}

// focusScore computes the bounded 0..100 productivity score: base from the
// active-time ratio, bonuses for deep work, domain focus, and low idle,
// penalties for tab churn and distraction periods.
func focusScore(m *ProductivityMetrics) float64 {
	var activeRatio, idleRatio float64
	if m.TotalTime > 0 {
		activeRatio = float64(m.ActiveTime) / float64(m.TotalTime)
		idleRatio = float64(m.IdleTime) / float64(m.TotalTime)
	}

	score := 40 * activeRatio

	deepWork := 10 * float64(len(m.DeepWorkPeriods))
	if deepWork > 30 {
		deepWork = 30
	}
	score += deepWork

	domainBonus := 20.0
	if m.UniqueDomains > 3 {
		domainBonus -= 2 * float64(m.UniqueDomains-3)
		if domainBonus < 0 {
			domainBonus = 0
		}
	}
	score += domainBonus

	switchPenalty := 0.5 * float64(m.TabSwitches)
	if switchPenalty > 15 {
		switchPenalty = 15
	}
	score -= switchPenalty

	score -= 5 * float64(len(m.DistractionPeriods))

	score += (1 - idleRatio) * 10

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
