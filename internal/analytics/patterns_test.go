package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/sessionlens/internal/event"
)

func TestDetectPatterns_FocusPeriod(t *testing.T) {
	cfg := DefaultConfig()
	blocks := segmentBlocks(steadyStream(30, time.Minute, event.PageLoad, "https://github.com/a"), cfg)
	require.Len(t, blocks, 1)
	require.Equal(t, BlockFocused, blocks[0].Type)

	patterns := detectPatterns(blocks, cfg)
	require.Len(t, patterns, 1)
	assert.Equal(t, PatternFocusPeriod, patterns[0].Type)
	assert.InDelta(t, 0.9, patterns[0].Confidence, 1e-9)
	assert.Equal(t, blocks[0].Start, patterns[0].StartTime)
	assert.Equal(t, blocks[0].Duration, patterns[0].Duration)
}

func TestDetectPatterns_Multitasking(t *testing.T) {
	cfg := DefaultConfig()
	var events []event.Event
	for i := 0; i < 40; i++ {
		url := fmt.Sprintf("https://site%d.example", i%4)
		events = append(events, mkEvent(time.Duration(i)*5*time.Second, event.TabActivated, url))
	}

	blocks := segmentBlocks(events, cfg)
	patterns := detectPatterns(blocks, cfg)
	require.NotEmpty(t, patterns)
	assert.Equal(t, PatternMultitasking, patterns[0].Type)
	assert.InDelta(t, 0.8, patterns[0].Confidence, 1e-9)
	assert.Equal(t, 4, patterns[0].Characteristics.DomainCount)
	assert.Greater(t, patterns[0].Characteristics.TabSwitchRate, 3.0)
}

func TestDetectPatterns_BrowsingSpree(t *testing.T) {
	cfg := DefaultConfig()
	// Twelve page loads ten seconds apart across two domains: fast skimming,
	// but not enough domains to read as multitasking.
	var events []event.Event
	for i := 0; i < 12; i++ {
		url := fmt.Sprintf("https://site%d.example", i%2)
		events = append(events, mkEvent(time.Duration(i)*10*time.Second, event.PageLoad, url))
	}

	blocks := segmentBlocks(events, cfg)
	patterns := detectPatterns(blocks, cfg)
	require.Len(t, patterns, 1)
	assert.Equal(t, PatternBrowsingSpree, patterns[0].Type)
	assert.InDelta(t, 0.7, patterns[0].Confidence, 1e-9)
	assert.Less(t, patterns[0].Characteristics.AvgPageTime, 30*time.Second)
}

func TestDetectPatterns_ResearchMode(t *testing.T) {
	cfg := DefaultConfig()
	// Six minutes across two domains with heavy scrolling. The block
	// classifies focused but is too short for a focus period.
	events := []event.Event{
		mkEvent(0, event.PageLoad, "https://a.example"),
		mkEvent(time.Minute, event.Scroll, "https://a.example"),
		mkEvent(2*time.Minute, event.Scroll, "https://a.example"),
		mkEvent(3*time.Minute, event.Scroll, "https://b.example"),
		mkEvent(4*time.Minute, event.Scroll, "https://b.example"),
		mkEvent(5*time.Minute, event.Scroll, "https://b.example"),
		mkEvent(5*time.Minute + 30*time.Second, event.Scroll, "https://a.example"),
		mkEvent(6*time.Minute, event.PageLoad, "https://b.example"),
	}

	blocks := segmentBlocks(events, cfg)
	patterns := detectPatterns(blocks, cfg)
	require.Len(t, patterns, 1)
	assert.Equal(t, PatternResearchMode, patterns[0].Type)
	assert.InDelta(t, 0.6, patterns[0].Confidence, 1e-9)
	assert.GreaterOrEqual(t, patterns[0].Characteristics.ScrollEvents, 6)
}

func TestDetectPatterns_NoMatchEmitsNothing(t *testing.T) {
	cfg := DefaultConfig()
	// A handful of slow events on one domain: no pattern applies.
	events := []event.Event{
		mkEvent(0, event.PageLoad, "https://a.example"),
		mkEvent(time.Minute, event.Click, "https://a.example"),
		mkEvent(2*time.Minute, event.Click, "https://a.example"),
	}

	blocks := segmentBlocks(events, cfg)
	assert.Empty(t, detectPatterns(blocks, cfg))
}

func TestNeighborhood_Bounds(t *testing.T) {
	blocks := make([]TimeBlock, 5)
	assert.Len(t, neighborhood(blocks, 0, 2), 3)
	assert.Len(t, neighborhood(blocks, 2, 2), 5)
	assert.Len(t, neighborhood(blocks, 4, 2), 3)
}

func TestCharacterize_UsesNeighborhoodForDomains(t *testing.T) {
	cfg := DefaultConfig()
	// Two adjacent blocks on different domains; the window around either
	// block sees both.
	events := []event.Event{
		mkEvent(0, event.PageLoad, "https://a.example"),
		mkEvent(time.Minute, event.Scroll, "https://a.example"),
		mkEvent(10*time.Minute, event.PageLoad, "https://b.example"),
		mkEvent(11*time.Minute, event.Scroll, "https://b.example"),
	}

	blocks := segmentBlocks(events, cfg)
	require.Len(t, blocks, 2)

	ch := characterize(blocks[0], neighborhood(blocks, 0, 2))
	assert.Equal(t, 2, ch.DomainCount)
	assert.Equal(t, 2, ch.ScrollEvents)
}
