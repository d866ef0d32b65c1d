package event

import (
	"net/url"
	"sort"
	"strings"
	"time"
)

// Type identifies what kind of browsing activity an event records.
type Type string

const (
	TabCreated         Type = "tab_created"
	TabActivated       Type = "tab_activated"
	TabUpdated         Type = "tab_updated"
	TabRemoved         Type = "tab_removed"
	WindowCreated      Type = "window_created"
	WindowRemoved      Type = "window_removed"
	NavigationStart    Type = "navigation_start"
	NavigationComplete Type = "navigation_complete"
	PageLoad           Type = "page_load"
	PageUnload         Type = "page_unload"
	Scroll             Type = "scroll"
	Click              Type = "click"
	FormInteraction    Type = "form_interaction"
	VisibilityChange   Type = "visibility_change"
)

// Metadata is the bounded per-event envelope. Every field is optional;
// unknown keys in the wire form are dropped on decode.
type Metadata struct {
	Domain         string `json:"domain,omitempty"`
	TabID          int    `json:"tab_id,omitempty"`
	WindowID       int    `json:"window_id,omitempty"`
	ScrollCount    int    `json:"scroll_count,omitempty"`
	ClickCount     int    `json:"click_count,omitempty"`
	FormFieldCount int    `json:"form_field_count,omitempty"`
	Incognito      bool   `json:"incognito,omitempty"`
}

// Event is a single captured browsing event. Events are immutable once
// created; this package and everything downstream only reads them.
type Event struct {
	ID        string
	Timestamp time.Time
	Type      Type
	SessionID string
	URL       string
	Title     string
	Metadata  Metadata
}

// Domain returns the event's hostname, preferring the capture layer's
// metadata over parsing the URL. Returns "" when neither yields one;
// callers treat that as "no domain signal", never as an error.
func (e Event) Domain() string {
	if e.Metadata.Domain != "" {
		return e.Metadata.Domain
	}
	if e.URL == "" {
		return ""
	}
	u, err := url.Parse(e.URL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// IsNavigation reports whether the event marks a page navigation.
func (e Event) IsNavigation() bool {
	switch e.Type {
	case NavigationStart, NavigationComplete, PageLoad:
		return true
	}
	return false
}

// IsTabSwitch reports whether the event is a tab activation.
func (e Event) IsTabSwitch() bool {
	return e.Type == TabActivated
}

// IsWindowEvent reports whether the event is a window lifecycle change.
func (e Event) IsWindowEvent() bool {
	return e.Type == WindowCreated || e.Type == WindowRemoved
}

// IsInteraction reports whether the event records direct user interaction
// with page content.
func (e Event) IsInteraction() bool {
	switch e.Type {
	case Scroll, Click, FormInteraction:
		return true
	}
	return false
}

// SecondLevelDomain reduces a hostname to its last two labels, so
// "docs.github.com" and "gist.github.com" compare equal. Hostnames with
// fewer than two labels are returned unchanged.
func SecondLevelDomain(host string) string {
	parts := strings.Split(host, ".")
	if len(parts) < 2 {
		return host
	}
	return strings.Join(parts[len(parts)-2:], ".")
}

// SortByTimestamp orders events ascending by timestamp. The sort is stable:
// events sharing a timestamp keep their input order.
func SortByTimestamp(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
}
