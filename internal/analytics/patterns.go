package analytics

import (
	"time"

	"github.com/runnerr0/sessionlens/internal/event"
)

// detectPatterns inspects each block together with up to two neighbors on
// each side and emits at most one pattern per block. Checks run in
// precedence order; the first match wins, and a block matching nothing
// emits nothing.
func detectPatterns(blocks []TimeBlock, cfg Config) []ActivityPattern {
	var patterns []ActivityPattern

	for i, b := range blocks {
		window := neighborhood(blocks, i, 2)
		ch := characterize(b, window)

		switch {
		case b.Type == BlockFocused && b.Duration > cfg.DeepWorkThreshold:
			patterns = append(patterns, pattern(PatternFocusPeriod, b, 0.9, ch))

		case ch.DomainCount >= 3 && ch.TabSwitchRate > 3:
			patterns = append(patterns, pattern(PatternMultitasking, b, 0.8, ch))

		case ch.AvgPageTime < 30*time.Second && len(b.Events) > 10:
			patterns = append(patterns, pattern(PatternBrowsingSpree, b, 0.7, ch))

		case ch.DomainCount >= 2 && ch.ScrollEvents > 5 && b.Duration > 5*time.Minute:
			patterns = append(patterns, pattern(PatternResearchMode, b, 0.6, ch))
		}
	}

	return patterns
}

func pattern(t PatternType, b TimeBlock, confidence float64, ch PatternCharacteristics) ActivityPattern {
	return ActivityPattern{
		Type:            t,
		StartTime:       b.Start,
		Duration:        b.Duration,
		Confidence:      confidence,
		Characteristics: ch,
	}
}

// neighborhood returns blocks[i] plus up to radius neighbors on each side.
func neighborhood(blocks []TimeBlock, i, radius int) []TimeBlock {
	lo := i - radius
	if lo < 0 {
		lo = 0
	}
	hi := i + radius + 1
	if hi > len(blocks) {
		hi = len(blocks)
	}
	return blocks[lo:hi]
}

// characterize computes the pattern inputs: switch rate and dwell time come
// from the block itself, domain and scroll context from the neighborhood.
func characterize(b TimeBlock, window []TimeBlock) PatternCharacteristics {
	minutes := b.Duration.Minutes()
	if minutes < 1.0/60.0 {
		minutes = 1.0 / 60.0
	}

	domains := make(map[string]struct{})
	scrolls := 0
	for _, w := range window {
		for d := range w.Domains {
			domains[d] = struct{}{}
		}
		for _, ev := range w.Events {
			if ev.Type == event.Scroll {
				scrolls++
			}
		}
	}

	var avgPage time.Duration
	if n := len(b.Events); n > 0 {
		avgPage = b.Duration / time.Duration(n)
	}

	return PatternCharacteristics{
		DomainCount:   len(domains),
		TabSwitchRate: float64(b.TabSwitches) / minutes,
		AvgPageTime:   avgPage,
		ScrollEvents:  scrolls,
	}
}
