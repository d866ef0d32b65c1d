package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/runnerr0/sessionlens/internal/analytics"
	"github.com/runnerr0/sessionlens/internal/event"
	"github.com/runnerr0/sessionlens/internal/storage"
)

// Execute implements the go-flags Commander interface for AnalyzeCommand.
func (c *AnalyzeCommand) Execute(args []string) error {
	cfg := loadConfig(c.globals)
	store, db, err := openStore(c.globals, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(store, engineConfig(cfg), time.Now())
}

// executeWithStore runs the analysis against a provided store (for testing).
func (c *AnalyzeCommand) executeWithStore(store storage.Store, ecfg analytics.Config, now time.Time) error {
	start, end, err := timeWindow(c.Since, c.Until, now)
	if err != nil {
		return err
	}

	ctx := context.Background()
	loaded, err := loadEvents(ctx, store, c.SessionID, start, end)
	if err != nil {
		return err
	}

	engine := analytics.NewEngine(ecfg)
	engine.ProcessEvents(loaded)

	var metrics []string
	if c.Metrics != "" {
		for _, m := range strings.Split(c.Metrics, ",") {
			if m = strings.TrimSpace(m); m != "" {
				metrics = append(metrics, m)
			}
		}
	}

	result := engine.Query(analytics.Query{
		Start:     start,
		End:       end,
		SessionID: c.SessionID,
		Metrics:   metrics,
	})

	if c.globals != nil && c.globals.JSON {
		return printResultJSON(result)
	}
	printResultHuman(result, engine.Stats())
	return nil
}

func loadEvents(ctx context.Context, store storage.Store, sessionID string, start, end time.Time) ([]event.Event, error) {
	if sessionID != "" {
		return store.EventsForSession(ctx, sessionID)
	}
	return store.EventsBetween(ctx, start, end)
}

func printResultHuman(r analytics.Result, stats analytics.Stats) {
	fmt.Println("SessionLens Analysis")
	fmt.Println("====================")
	fmt.Printf("Events:    %d\n", stats.EventCount)
	fmt.Printf("Blocks:    %d\n", stats.TimeBlocks)
	fmt.Println()

	if r.Time != nil {
		fmt.Println("Time:")
		fmt.Printf("  Total:      %s\n", formatDurationHuman(r.Time.TotalTime))
		fmt.Printf("  Active:     %s\n", formatDurationHuman(r.Time.ActiveTime))
		fmt.Printf("  Idle:       %s\n", formatDurationHuman(r.Time.IdleTime))
		fmt.Printf("  Focused:    %s\n", formatDurationHuman(r.Time.FocusedTime))
		fmt.Printf("  Distracted: %s\n", formatDurationHuman(r.Time.DistractedTime))
		fmt.Println()
	}

	if r.Productivity != nil {
		p := r.Productivity
		fmt.Println("Productivity:")
		fmt.Printf("  Focus score:     %.0f/100\n", p.FocusScore)
		fmt.Printf("  Deep work:       %d periods\n", len(p.DeepWorkPeriods))
		fmt.Printf("  Distractions:    %d periods\n", len(p.DistractionPeriods))
		fmt.Printf("  Tab switches:    %d\n", p.TabSwitches)
		fmt.Printf("  Unique domains:  %d\n", p.UniqueDomains)
		fmt.Printf("  Pages:           %d\n", p.PageCount)
		fmt.Println()
	}

	if len(r.Domains) > 0 {
		fmt.Println("Top domains:")
		limit := len(r.Domains)
		if limit > 10 {
			limit = 10
		}
		for _, d := range r.Domains[:limit] {
			fmt.Printf("  %-28s %8s  %2d visits  %-13s focus %.0f%%\n",
				d.Domain, formatDurationHuman(d.TotalTime), d.VisitCount,
				d.Category+"/"+d.Productivity, d.FocusScore)
		}
		fmt.Println()
	}

	if len(r.Patterns) > 0 {
		fmt.Println("Patterns:")
		for _, p := range r.Patterns {
			fmt.Printf("  %-15s %s (%s, confidence %.1f)\n",
				p.Type,
				p.StartTime.Local().Format("2006-01-02 15:04"),
				formatDurationHuman(p.Duration),
				p.Confidence)
		}
		fmt.Println()
	}

	if r.Activity != nil {
		a := r.Activity
		fmt.Println("Activity:")
		fmt.Printf("  Page views: %d  Scrolls: %d  Clicks: %d  Forms: %d\n",
			a.PageViews, a.Scrolls, a.Clicks, a.FormInteractions)
		fmt.Printf("  Tab switches: %d  Window switches: %d\n",
			a.TabSwitches, a.WindowSwitches)
	}
}

type timeJSON struct {
	TotalMs      int64 `json:"total_ms"`
	ActiveMs     int64 `json:"active_ms"`
	IdleMs       int64 `json:"idle_ms"`
	FocusedMs    int64 `json:"focused_ms"`
	DistractedMs int64 `json:"distracted_ms"`
	Blocks       int   `json:"blocks"`
}

type domainJSON struct {
	Domain       string  `json:"domain"`
	TotalMs      int64   `json:"total_ms"`
	Visits       int     `json:"visits"`
	AvgVisitMs   int64   `json:"avg_visit_ms"`
	FocusScore   float64 `json:"focus_score"`
	Productivity string  `json:"productivity"`
	Category     string  `json:"category"`
	PeakHours    []int   `json:"peak_hours,omitempty"`
}

type patternJSON struct {
	Type       string  `json:"type"`
	StartTime  string  `json:"start_time"`
	DurationMs int64   `json:"duration_ms"`
	Confidence float64 `json:"confidence"`
}

type productivityJSON struct {
	FocusScore       float64 `json:"focus_score"`
	TotalMs          int64   `json:"total_ms"`
	ActiveMs         int64   `json:"active_ms"`
	IdleMs           int64   `json:"idle_ms"`
	TabSwitches      int     `json:"tab_switches"`
	WindowSwitches   int     `json:"window_switches"`
	UniqueDomains    int     `json:"unique_domains"`
	PageCount        int     `json:"page_count"`
	ScrollEvents     int     `json:"scroll_events"`
	ClickEvents      int     `json:"click_events"`
	FormInteractions int     `json:"form_interactions"`
	DeepWorkPeriods  int     `json:"deep_work_periods"`
	Distractions     int     `json:"distraction_periods"`
}

func printResultJSON(r analytics.Result) error {
	out := map[string]any{}

	if r.Time != nil {
		out["time"] = timeJSON{
			TotalMs:      r.Time.TotalTime.Milliseconds(),
			ActiveMs:     r.Time.ActiveTime.Milliseconds(),
			IdleMs:       r.Time.IdleTime.Milliseconds(),
			FocusedMs:    r.Time.FocusedTime.Milliseconds(),
			DistractedMs: r.Time.DistractedTime.Milliseconds(),
			Blocks:       r.Time.BlockCount,
		}
	}
	if r.Productivity != nil {
		p := r.Productivity
		out["productivity"] = productivityJSON{
			FocusScore:       p.FocusScore,
			TotalMs:          p.TotalTime.Milliseconds(),
			ActiveMs:         p.ActiveTime.Milliseconds(),
			IdleMs:           p.IdleTime.Milliseconds(),
			TabSwitches:      p.TabSwitches,
			WindowSwitches:   p.WindowSwitches,
			UniqueDomains:    p.UniqueDomains,
			PageCount:        p.PageCount,
			ScrollEvents:     p.ScrollEvents,
			ClickEvents:      p.ClickEvents,
			FormInteractions: p.FormInteractions,
			DeepWorkPeriods:  len(p.DeepWorkPeriods),
			Distractions:     len(p.DistractionPeriods),
		}
	}
	if r.Domains != nil {
		domains := make([]domainJSON, len(r.Domains))
		for i, d := range r.Domains {
			domains[i] = domainJSON{
				Domain:       d.Domain,
				TotalMs:      d.TotalTime.Milliseconds(),
				Visits:       d.VisitCount,
				AvgVisitMs:   d.AverageVisitDuration.Milliseconds(),
				FocusScore:   d.FocusScore,
				Productivity: d.Productivity,
				Category:     d.Category,
				PeakHours:    d.PeakHours,
			}
		}
		out["domains"] = domains
	}
	if r.Patterns != nil {
		patterns := make([]patternJSON, len(r.Patterns))
		for i, p := range r.Patterns {
			patterns[i] = patternJSON{
				Type:       string(p.Type),
				StartTime:  p.StartTime.UTC().Format(time.RFC3339),
				DurationMs: p.Duration.Milliseconds(),
				Confidence: p.Confidence,
			}
		}
		out["patterns"] = patterns
	}
	if r.Activity != nil {
		a := r.Activity
		out["activity"] = map[string]int{
			"total_events":      a.TotalEvents,
			"page_views":        a.PageViews,
			"scrolls":           a.Scrolls,
			"clicks":            a.Clicks,
			"form_interactions": a.FormInteractions,
			"tab_switches":      a.TabSwitches,
			"window_switches":   a.WindowSwitches,
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
