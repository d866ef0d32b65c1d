package storage

import "time"

// Session is one recorded browsing session, closed by a detector boundary.
type Session struct {
	ID         string
	StartedAt  time.Time
	EndedAt    time.Time
	EndReason  string // idle_timeout, domain_change, navigation_gap, user_initiated
	EventCount int
}

// Stats holds aggregate statistics about the SessionLens database.
type Stats struct {
	TotalEvents   int64
	TotalSessions int64
	OldestEvent   time.Time
	NewestEvent   time.Time
	TopDomains    []DomainCount
}

// DomainCount pairs a domain with its event count.
type DomainCount struct {
	Domain string
	Count  int64
}
