package analytics

import (
	"time"

	"github.com/runnerr0/sessionlens/internal/event"
)

// segmentBlocks cuts a sorted event slice into time blocks. A block closes
// when the gap to the next event exceeds the block gap, when it reaches the
// event cap, or when input runs out.
func segmentBlocks(events []event.Event, cfg Config) []TimeBlock {
	if len(events) == 0 {
		return nil
	}

	var blocks []TimeBlock
	current := newBlock(events[0])

	for i, ev := range events {
		appendToBlock(&current, ev)

		closeBlock := false
		if i == len(events)-1 {
			closeBlock = true
		} else if events[i+1].Timestamp.Sub(ev.Timestamp) > cfg.BlockGap {
			closeBlock = true
		} else if len(current.Events) >= cfg.BlockMaxEvents {
			closeBlock = true
		}

		if closeBlock {
			finishBlock(&current)
			blocks = append(blocks, current)
			if i < len(events)-1 {
				current = newBlock(events[i+1])
			}
		}
	}

	return blocks
}

func newBlock(first event.Event) TimeBlock {
	return TimeBlock{
		Start:   first.Timestamp,
		Domains: make(map[string]struct{}),
	}
}

func appendToBlock(b *TimeBlock, ev event.Event) {
	b.Events = append(b.Events, ev)
	b.End = ev.Timestamp
	if d := ev.Domain(); d != "" {
		b.Domains[d] = struct{}{}
	}
	if ev.IsTabSwitch() {
		b.TabSwitches++
	}
	if ev.IsWindowEvent() {
		b.WindowSwitches++
	}
}

func finishBlock(b *TimeBlock) {
	b.Duration = b.End.Sub(b.Start)
	b.Type = classifyBlock(b)
}

// classifyBlock assigns the block type. The rules are mutually exclusive
// and checked in precedence order: idle, focused, distracted, active.
func classifyBlock(b *TimeBlock) BlockType {
	minutes := b.Duration.Minutes()
	if minutes < 1.0/60.0 {
		// Floor at one second so single-event blocks don't divide by zero.
		minutes = 1.0 / 60.0
	}

	density := float64(len(b.Events)) / minutes
	diversity := len(b.Domains)
	switchRate := float64(b.TabSwitches+b.WindowSwitches) / minutes

	// A block is idle when events barely trickle in. Long blocks count as
	// idle only while sparse; a dense hour of work is not idle just for
	// being long.
	if density < 0.1 || (b.Duration > 10*time.Minute && density < 0.5) {
		return BlockIdle
	}
	if diversity <= 2 && switchRate < 2 && b.Duration > 3*time.Minute {
		return BlockFocused
	}
	if diversity > 5 || switchRate > 5 {
		return BlockDistracted
	}
	return BlockActive
}
