package analytics

import (
	"sort"
	"time"

	"github.com/runnerr0/sessionlens/internal/event"
)

// singleVisitEstimate is credited to a visit that consists of one event,
// where no real dwell time can be measured.
const singleVisitEstimate = 30 * time.Second

// visit is one contiguous stay on a domain.
type visit struct {
	Start time.Time
	End   time.Time
}

func (v visit) duration() time.Duration {
	return v.End.Sub(v.Start)
}

// analyzeDomains groups sorted events by hostname and profiles each
// domain's usage. Events without an extractable hostname are omitted.
func analyzeDomains(events []event.Event, blocks []TimeBlock, cfg Config) []DomainAnalytics {
	byDomain := make(map[string][]event.Event)
	for _, ev := range events {
		if d := ev.Domain(); d != "" {
			byDomain[d] = append(byDomain[d], ev)
		}
	}

	focused := focusedRanges(blocks)

	var out []DomainAnalytics
	for domain, evs := range byDomain {
		visits := splitVisits(evs, cfg.VisitGap)

		var total, inFocus time.Duration
		for _, v := range visits {
			total += v.duration()
			inFocus += overlapWith(v, focused)
		}

		da := DomainAnalytics{
			Domain:     domain,
			TotalTime:  total,
			VisitCount: len(visits),
			Category:   classify(cfg, domain),
			PeakHours:  peakHours(evs),
		}
		if len(visits) > 0 {
			da.AverageVisitDuration = total / time.Duration(len(visits))
		}
		if total > 0 {
			da.FocusScore = 100 * float64(inFocus) / float64(total)
			if da.FocusScore > 100 {
				da.FocusScore = 100
			}
		}
		da.Productivity = productivityFor(da.Category, da.FocusScore)

		out = append(out, da)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalTime != out[j].TotalTime {
			return out[i].TotalTime > out[j].TotalTime
		}
		return out[i].Domain < out[j].Domain
	})
	return out
}

func classify(cfg Config, domain string) string {
	if cfg.Classify == nil {
		return "other"
	}
	return cfg.Classify(domain)
}

// splitVisits cuts a domain's (sorted) events into visits wherever the
// inter-event gap exceeds the visit gap. Single-event visits get the fixed
// dwell estimate.
func splitVisits(evs []event.Event, gap time.Duration) []visit {
	var visits []visit
	start := 0
	for i := 1; i <= len(evs); i++ {
		if i == len(evs) || evs[i].Timestamp.Sub(evs[i-1].Timestamp) > gap {
			v := visit{Start: evs[start].Timestamp, End: evs[i-1].Timestamp}
			if i-start == 1 {
				v.End = v.Start.Add(singleVisitEstimate)
			}
			visits = append(visits, v)
			start = i
		}
	}
	return visits
}

// focusedRanges extracts the time ranges of blocks classified as focused.
func focusedRanges(blocks []TimeBlock) []TimeRange {
	var out []TimeRange
	for _, b := range blocks {
		if b.Type == BlockFocused {
			out = append(out, TimeRange{Start: b.Start, End: b.End})
		}
	}
	return out
}

// overlapWith sums the portion of v that falls inside any of the ranges.
func overlapWith(v visit, ranges []TimeRange) time.Duration {
	var total time.Duration
	for _, r := range ranges {
		start := v.Start
		if r.Start.After(start) {
			start = r.Start
		}
		end := v.End
		if r.End.Before(end) {
			end = r.End
		}
		if end.After(start) {
			total += end.Sub(start)
		}
	}
	return total
}

// productivityFor combines a domain's category with its focus score.
// Leisure categories never rate above low, whatever the focus score says.
func productivityFor(category string, focusScore float64) string {
	switch category {
	case "work", "education":
		if focusScore > 70 {
			return ProductivityHigh
		}
		if focusScore > 40 {
			return ProductivityMedium
		}
		return ProductivityLow
	case "news", "other":
		if focusScore > 80 {
			return ProductivityMedium
		}
		return ProductivityLow
	default:
		return ProductivityLow
	}
}

// peakHours returns the hours of day whose event count exceeds 1.5x the
// 24-hour average for this domain.
func peakHours(evs []event.Event) []int {
	var counts [24]int
	for _, ev := range evs {
		counts[ev.Timestamp.Hour()]++
	}
	avg := float64(len(evs)) / 24.0

	var hours []int
	for h, n := range counts {
		if float64(n) > 1.5*avg {
			hours = append(hours, h)
		}
	}
	return hours
}
