package detector

import (
	"time"

	"github.com/runnerr0/sessionlens/internal/event"
)

// signalFunc evaluates one heuristic against the updated context and the
// event that updated it. Detectors are pure: same inputs, same signals.
type signalFunc func(ctx *Context, ev event.Event, cfg Config, now time.Time) []Signal

// allSignals is the full detector set, composed by concatenation.
var allSignals = []signalFunc{
	detectIdle,
	detectDomainChange,
	detectNavigationGap,
	detectWindowPattern,
	detectTimeBased,
}

// detectIdle fires when the gap since the previous activity exceeds the
// idle threshold, or when a tab activation or navigation start follows a
// near-threshold quiet period (user came back after almost going idle).
// The two never fire together: once the gap crosses the threshold the
// scaled idle signal carries the full weight on its own.
func detectIdle(ctx *Context, ev event.Event, cfg Config, _ time.Time) []Signal {
	if cfg.IdleThreshold <= 0 || ctx.lastGap <= 0 {
		return nil
	}

	var signals []Signal

	if ctx.lastGap > cfg.IdleThreshold {
		strength := float64(ctx.lastGap) / float64(2*cfg.IdleThreshold)
		if strength > 1 {
			strength = 1
		}
		signals = append(signals, Signal{
			Type:      SignalIdle,
			Strength:  strength,
			Timestamp: ev.Timestamp,
			Metadata: map[string]any{
				"gap_ms":       ctx.lastGap.Milliseconds(),
				"threshold_ms": cfg.IdleThreshold.Milliseconds(),
			},
		})
	}

	resumed := ev.Type == event.TabActivated || ev.Type == event.NavigationStart
	nearThreshold := ctx.lastGap >= time.Duration(float64(cfg.IdleThreshold)*0.8) &&
		ctx.lastGap <= cfg.IdleThreshold
	if resumed && nearThreshold {
		signals = append(signals, Signal{
			Type:      SignalIdle,
			Strength:  0.6,
			Timestamp: ev.Timestamp,
			Metadata: map[string]any{
				"resumed_after_ms": ctx.lastGap.Milliseconds(),
				"event_type":       string(ev.Type),
			},
		})
	}

	return signals
}

// detectDomainChange scores how far the event's domain departs from the
// domains the context is tracking. Disabled entirely by configuration.
func detectDomainChange(ctx *Context, ev event.Event, cfg Config, _ time.Time) []Signal {
	if !cfg.DomainChangeBoundary || !ctx.domainChanged {
		return nil
	}
	domain := ev.Domain()
	if domain == "" || len(ctx.prevDomains) == 0 {
		return nil
	}

	var strength float64

	if cfg.Classify != nil {
		newCategory := cfg.Classify(domain)
		differs := true
		for d := range ctx.prevDomains {
			if cfg.Classify(d) == newCategory {
				differs = false
				break
			}
		}
		if differs {
			strength += 0.3
		}
	}

	sld := event.SecondLevelDomain(domain)
	fullSwitch := true
	for d := range ctx.prevDomains {
		if event.SecondLevelDomain(d) == sld {
			fullSwitch = false
			break
		}
	}
	if fullSwitch {
		strength += 0.4
	}

	var signals []Signal
	if strength > 0 {
		signals = append(signals, Signal{
			Type:      SignalDomainChange,
			Strength:  strength,
			Timestamp: ev.Timestamp,
			Metadata: map[string]any{
				"domain":         domain,
				"tracked_before": len(ctx.prevDomains),
			},
		})
	}

	// A complete switch away from everything active is a strong cue on
	// its own, regardless of category scoring.
	if fullSwitch {
		signals = append(signals, Signal{
			Type:      SignalDomainChange,
			Strength:  0.8,
			Timestamp: ev.Timestamp,
			Metadata: map[string]any{
				"domain":          domain,
				"complete_switch": true,
			},
		})
	}

	return signals
}

// detectNavigationGap fires when the interval between the two most recent
// navigations exceeds the session gap, and when the last three gaps form a
// strictly increasing sequence (activity winding down).
func detectNavigationGap(ctx *Context, ev event.Event, cfg Config, _ time.Time) []Signal {
	if !ev.IsNavigation() || len(ctx.navigationGaps) == 0 {
		return nil
	}

	var signals []Signal

	last := ctx.navigationGaps[len(ctx.navigationGaps)-1]
	if cfg.SessionGap > 0 && last > cfg.SessionGap {
		strength := float64(last) / float64(3*cfg.SessionGap)
		if strength > 1 {
			strength = 1
		}
		signals = append(signals, Signal{
			Type:      SignalNavigationGap,
			Strength:  strength,
			Timestamp: ev.Timestamp,
			Metadata: map[string]any{
				"gap_ms":       last.Milliseconds(),
				"threshold_ms": cfg.SessionGap.Milliseconds(),
			},
		})
	}

	if n := len(ctx.navigationGaps); n >= 3 {
		g := ctx.navigationGaps[n-3:]
		if g[0] < g[1] && g[1] < g[2] {
			signals = append(signals, Signal{
				Type:      SignalNavigationGap,
				Strength:  0.6,
				Timestamp: ev.Timestamp,
				Metadata: map[string]any{
					"increasing_gaps": true,
				},
			})
		}
	}

	return signals
}

// detectWindowPattern fires on window closures, scaled by how many windows
// remain, and on a new window appearing after a minute or more of quiet.
func detectWindowPattern(ctx *Context, ev event.Event, _ Config, _ time.Time) []Signal {
	switch ev.Type {
	case event.WindowRemoved:
		strength := 0.3
		switch ctx.windowCount {
		case 0:
			strength = 0.9
		case 1:
			strength = 0.6
		}
		return []Signal{{
			Type:      SignalWindowPattern,
			Strength:  strength,
			Timestamp: ev.Timestamp,
			Metadata: map[string]any{
				"windows_remaining": ctx.windowCount,
			},
		}}

	case event.WindowCreated:
		if ctx.lastGap >= time.Minute {
			return []Signal{{
				Type:      SignalWindowPattern,
				Strength:  0.5,
				Timestamp: ev.Timestamp,
				Metadata: map[string]any{
					"new_window_after_ms": ctx.lastGap.Milliseconds(),
				},
			}}
		}
	}
	return nil
}

// canonicalHours are the day's natural break points: start of work, lunch,
// end of work, late evening.
var canonicalHours = map[int]bool{9: true, 12: true, 17: true, 22: true}

// detectTimeBased fires near canonical hour transitions for live events,
// and with growing strength once the rolling session runs past 8 hours.
func detectTimeBased(ctx *Context, ev event.Event, cfg Config, now time.Time) []Signal {
	var signals []Signal

	// Only live events count for wall-clock transitions; replayed history
	// should not trip them.
	age := now.Sub(ev.Timestamp)
	if age < 0 {
		age = -age
	}
	if age <= 5*time.Minute && nearCanonicalHour(ev.Timestamp) {
		signals = append(signals, Signal{
			Type:      SignalTimeBased,
			Strength:  0.4,
			Timestamp: ev.Timestamp,
			Metadata: map[string]any{
				"hour": ev.Timestamp.Hour(),
			},
		})
	}

	if dur := ctx.sessionDuration(ev.Timestamp); dur > 8*time.Hour {
		strength := 0.8 * float64(dur) / float64(12*time.Hour)
		if strength > 0.8 {
			strength = 0.8
		}
		signals = append(signals, Signal{
			Type:      SignalTimeBased,
			Strength:  strength,
			Timestamp: ev.Timestamp,
			Metadata: map[string]any{
				"session_duration_ms": dur.Milliseconds(),
			},
		})
	}

	return signals
}

// nearCanonicalHour reports whether t falls within 5 minutes of one of the
// canonical hour transitions.
func nearCanonicalHour(t time.Time) bool {
	if canonicalHours[t.Hour()] && t.Minute() <= 5 {
		return true
	}
	if canonicalHours[(t.Hour()+1)%24] && t.Minute() >= 55 {
		return true
	}
	return false
}
