package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/runnerr0/sessionlens/internal/detector"
	"github.com/runnerr0/sessionlens/internal/event"
	"github.com/runnerr0/sessionlens/internal/storage"
)

// Execute implements the go-flags Commander interface for SessionsCommand.
func (c *SessionsCommand) Execute(args []string) error {
	cfg := loadConfig(c.globals)
	store, db, err := openStore(c.globals, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(store, detectorConfig(cfg), time.Now())
}

// executeWithStore replays stored events through the detector (for testing,
// store and clock are injectable).
func (c *SessionsCommand) executeWithStore(store storage.Store, dcfg detector.Config, now time.Time) error {
	start, end, err := timeWindow(c.Since, c.Until, now)
	if err != nil {
		return err
	}

	ctx := context.Background()
	events, err := store.EventsBetween(ctx, start, end)
	if err != nil {
		return fmt.Errorf("load events: %w", err)
	}

	sessions, open := replaySessions(events, dcfg)

	if c.Record {
		for i := range sessions {
			if err := store.RecordSession(ctx, &sessions[i]); err != nil {
				return fmt.Errorf("record session %s: %w", sessions[i].ID, err)
			}
		}
	}

	if c.Limit > 0 && len(sessions) > c.Limit {
		sessions = sessions[len(sessions)-c.Limit:]
	}

	if c.globals != nil && c.globals.JSON {
		return printSessionsJSON(sessions, open)
	}
	return printSessionsHuman(sessions, open)
}

// replaySessions feeds events through a fresh detector and cuts sessions at
// every boundary. The detector context resets at each boundary so a new
// session starts clean; the trailing session stays open.
func replaySessions(events []event.Event, dcfg detector.Config) ([]storage.Session, *storage.Session) {
	if len(events) == 0 {
		return nil, nil
	}

	det := detector.New(dcfg)

	var sessions []storage.Session
	sessionStart := events[0].Timestamp
	prevTS := events[0].Timestamp
	count := 0

	for _, ev := range events {
		signals := det.AnalyzeEvent(ev)

		if b := det.ShouldCreateBoundary(signals); b != nil && count > 0 {
			sessions = append(sessions, storage.Session{
				ID:         b.ID,
				StartedAt:  sessionStart,
				EndedAt:    prevTS,
				EndReason:  string(b.Reason),
				EventCount: count,
			})
			// The triggering event opens the next session.
			det.Reset()
			det.AnalyzeEvent(ev)
			sessionStart = ev.Timestamp
			count = 0
		}

		count++
		prevTS = ev.Timestamp
	}

	open := &storage.Session{
		ID:         uuid.NewString(),
		StartedAt:  sessionStart,
		EndedAt:    prevTS,
		EventCount: count,
	}
	return sessions, open
}

func printSessionsHuman(sessions []storage.Session, open *storage.Session) error {
	if len(sessions) == 0 && open == nil {
		fmt.Println("No events found.")
		return nil
	}

	if len(sessions) > 0 {
		fmt.Printf("Detected %d session boundaries\n\n", len(sessions))
		for i, s := range sessions {
			dur := s.EndedAt.Sub(s.StartedAt)
			fmt.Printf("%d. %s\n", i+1, s.ID)
			fmt.Printf("   %s .. %s (%s)\n",
				s.StartedAt.Local().Format("2006-01-02 15:04"),
				s.EndedAt.Local().Format("2006-01-02 15:04"),
				formatDurationHuman(dur))
			fmt.Printf("   %d events, ended by %s\n", s.EventCount, s.EndReason)
			fmt.Println()
		}
	} else {
		fmt.Println("No session boundaries detected.")
		fmt.Println()
	}

	if open != nil {
		fmt.Printf("Open session: %d events since %s\n",
			open.EventCount, open.StartedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

type sessionJSON struct {
	ID         string `json:"id"`
	StartedAt  string `json:"started_at"`
	EndedAt    string `json:"ended_at"`
	EndReason  string `json:"end_reason,omitempty"`
	EventCount int    `json:"event_count"`
	Open       bool   `json:"open,omitempty"`
}

func printSessionsJSON(sessions []storage.Session, open *storage.Session) error {
	out := make([]sessionJSON, 0, len(sessions)+1)
	for _, s := range sessions {
		out = append(out, sessionJSON{
			ID:         s.ID,
			StartedAt:  s.StartedAt.UTC().Format(time.RFC3339),
			EndedAt:    s.EndedAt.UTC().Format(time.RFC3339),
			EndReason:  s.EndReason,
			EventCount: s.EventCount,
		})
	}
	if open != nil {
		out = append(out, sessionJSON{
			ID:         open.ID,
			StartedAt:  open.StartedAt.UTC().Format(time.RFC3339),
			EndedAt:    open.EndedAt.UTC().Format(time.RFC3339),
			EventCount: open.EventCount,
			Open:       true,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"count":    len(sessions),
		"sessions": out,
	})
}
