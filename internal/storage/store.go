// Package storage persists captured events and recorded sessions. The core
// detector and analytics packages never import it; it exists so the CLI has
// something durable to replay and analyze.
package storage

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/runnerr0/sessionlens/internal/event"
)

// Store defines the interface for SessionLens data operations.
type Store interface {
	AddEvent(ctx context.Context, ev *event.Event) error
	AddEvents(ctx context.Context, events []event.Event) (int, error)
	EventsBetween(ctx context.Context, since, until time.Time) ([]event.Event, error)
	EventsForSession(ctx context.Context, sessionID string) ([]event.Event, error)
	RecordSession(ctx context.Context, s *Session) error
	Sessions(ctx context.Context, limit int) ([]Session, error)
	PruneExpired(ctx context.Context, olderThan time.Time) (int64, error)
	PurgeAll(ctx context.Context) error
	GetStats(ctx context.Context) (*Stats, error)
	Close() error
}

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB

	insertEvent   *sql.Stmt
	insertSession *sql.Stmt
}

// NewSQLiteStore creates a new SQLiteStore from an already-opened and
// migrated database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}
	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}
	return s, nil
}

const insertEventSQL = `
	INSERT INTO events (id, ts, type, session_id, url, title, domain, metadata)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.insertEvent, err = s.db.Prepare(insertEventSQL)
	if err != nil {
		return err
	}

	s.insertSession, err = s.db.Prepare(`
		INSERT INTO sessions (id, started_at, ended_at, end_reason, event_count)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}

	return nil
}

// generateID creates a SessionLens event ID: SLN- + 8 random hex chars.
func generateID() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "SLN-" + hex.EncodeToString(b), nil
}

// parseTimestamp tries several common SQLite timestamp formats.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %s", s)
}

func eventArgs(ev *event.Event) ([]any, error) {
	meta, err := json.Marshal(ev.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	return []any{
		ev.ID,
		ev.Timestamp.UTC().Format(time.RFC3339),
		string(ev.Type),
		ev.SessionID,
		ev.URL,
		ev.Title,
		ev.Domain(),
		string(meta),
	}, nil
}

// AddEvent inserts a single event. An empty ID is populated automatically;
// a zero timestamp is set to now.
func (s *SQLiteStore) AddEvent(ctx context.Context, ev *event.Event) error {
	if ev.ID == "" {
		id, err := generateID()
		if err != nil {
			return fmt.Errorf("generate ID: %w", err)
		}
		ev.ID = id
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	args, err := eventArgs(ev)
	if err != nil {
		return err
	}
	if _, err := s.insertEvent.ExecContext(ctx, args...); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// AddEvents inserts a batch of events in one transaction and returns the
// number inserted. Duplicate IDs are skipped rather than failing the batch.
func (s *SQLiteStore) AddEvents(ctx context.Context, events []event.Event) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// OR IGNORE: re-imports of the same batch file are common.
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO events (id, ts, type, session_id, url, title, domain, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare batch insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for i := range events {
		ev := events[i]
		if ev.ID == "" {
			id, err := generateID()
			if err != nil {
				return inserted, fmt.Errorf("generate ID: %w", err)
			}
			ev.ID = id
		}

		args, err := eventArgs(&ev)
		if err != nil {
			return inserted, err
		}

		res, err := stmt.ExecContext(ctx, args...)
		if err != nil {
			return inserted, fmt.Errorf("insert event %s: %w", ev.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

const selectEventSQL = `
	SELECT id, ts, type, session_id, url, title, metadata FROM events
`

// EventsBetween returns events with since <= ts <= until, ascending by
// timestamp. Zero bounds are open-ended.
func (s *SQLiteStore) EventsBetween(ctx context.Context, since, until time.Time) ([]event.Event, error) {
	query := selectEventSQL
	var clauses []string
	var args []any

	if !since.IsZero() {
		clauses = append(clauses, "ts >= ?")
		args = append(args, since.UTC().Format(time.RFC3339))
	}
	if !until.IsZero() {
		clauses = append(clauses, "ts <= ?")
		args = append(args, until.UTC().Format(time.RFC3339))
	}
	for i, c := range clauses {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY ts ASC"

	return s.scanEvents(ctx, query, args...)
}

// EventsForSession returns a session's events ascending by timestamp.
func (s *SQLiteStore) EventsForSession(ctx context.Context, sessionID string) ([]event.Event, error) {
	return s.scanEvents(ctx, selectEventSQL+" WHERE session_id = ? ORDER BY ts ASC", sessionID)
}

// scanEvents executes a query and scans results into event slices.
func (s *SQLiteStore) scanEvents(ctx context.Context, query string, args ...any) ([]event.Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []event.Event{}
	for rows.Next() {
		var ev event.Event
		var tsStr, typeStr, metaStr string
		if err := rows.Scan(&ev.ID, &tsStr, &typeStr, &ev.SessionID, &ev.URL, &ev.Title, &metaStr); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Timestamp, _ = parseTimestamp(tsStr)
		ev.Type = event.Type(typeStr)
		// Tolerate rows written before the metadata column carried JSON.
		_ = json.Unmarshal([]byte(metaStr), &ev.Metadata)
		events = append(events, ev)
	}

	return events, rows.Err()
}

// RecordSession persists a session closed by a detector boundary.
func (s *SQLiteStore) RecordSession(ctx context.Context, sess *Session) error {
	_, err := s.insertSession.ExecContext(ctx,
		sess.ID,
		sess.StartedAt.UTC().Format(time.RFC3339),
		sess.EndedAt.UTC().Format(time.RFC3339),
		sess.EndReason,
		sess.EventCount,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// Sessions returns the most recent sessions, newest first.
func (s *SQLiteStore) Sessions(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, ended_at, end_reason, event_count
		FROM sessions ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var sess Session
		var startStr, endStr string
		if err := rows.Scan(&sess.ID, &startStr, &endStr, &sess.EndReason, &sess.EventCount); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess.StartedAt, _ = parseTimestamp(startStr)
		sess.EndedAt, _ = parseTimestamp(endStr)
		sessions = append(sessions, sess)
	}

	return sessions, rows.Err()
}

// PruneExpired deletes events and sessions older than olderThan and returns
// the number of events removed.
func (s *SQLiteStore) PruneExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	cutoff := olderThan.UTC().Format(time.RFC3339)

	if _, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE ended_at < ?", cutoff); err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE ts < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	return res.RowsAffected()
}

// PurgeAll deletes all events and sessions.
func (s *SQLiteStore) PurgeAll(ctx context.Context) error {
	stmts := []string{
		"DELETE FROM sessions",
		"DELETE FROM events",
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("purge (%s): %w", stmt, err)
		}
	}
	return nil
}

// GetStats returns aggregate statistics about the database.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&stats.TotalEvents); err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions").Scan(&stats.TotalSessions); err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}

	if stats.TotalEvents > 0 {
		var oldestStr, newestStr string
		err := s.db.QueryRowContext(ctx, "SELECT MIN(ts), MAX(ts) FROM events").Scan(&oldestStr, &newestStr)
		if err != nil {
			return nil, fmt.Errorf("event time range: %w", err)
		}
		stats.OldestEvent, _ = parseTimestamp(oldestStr)
		stats.NewestEvent, _ = parseTimestamp(newestStr)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT domain, COUNT(*) as cnt FROM events
		WHERE domain != '' GROUP BY domain ORDER BY cnt DESC LIMIT 10
	`)
	if err != nil {
		return nil, fmt.Errorf("top domains: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var dc DomainCount
		if err := rows.Scan(&dc.Domain, &dc.Count); err != nil {
			return nil, err
		}
		stats.TopDomains = append(stats.TopDomains, dc)
	}

	return stats, rows.Err()
}

// Close releases all prepared statements. The underlying *sql.DB is NOT
// closed — that is the caller's responsibility.
func (s *SQLiteStore) Close() error {
	for _, stmt := range []*sql.Stmt{s.insertEvent, s.insertSession} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}
