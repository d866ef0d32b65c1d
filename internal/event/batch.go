package event

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
	"time"
)

// wireEvent is the JSONL record emitted by the capture extension.
// Timestamps are epoch milliseconds UTC.
type wireEvent struct {
	ID        string   `json:"id"`
	TS        int64    `json:"ts"`
	Type      string   `json:"type"`
	SessionID string   `json:"session_id"`
	URL       string   `json:"url"`
	Title     string   `json:"title"`
	Metadata  Metadata `json:"metadata"`
}

// BatchResult reports the outcome of decoding a JSONL batch.
type BatchResult struct {
	Events  []Event
	Skipped int // malformed or empty-typed lines dropped
}

// DecodeBatch reads newline-delimited JSON events from r. Malformed lines
// and lines without a type are counted and skipped rather than failing the
// batch; upstream capture occasionally truncates its last line mid-write.
func DecodeBatch(r io.Reader) (BatchResult, error) {
	var res BatchResult

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var w wireEvent
		if err := json.Unmarshal([]byte(line), &w); err != nil {
			res.Skipped++
			continue
		}
		if w.Type == "" || w.TS <= 0 {
			res.Skipped++
			continue
		}

		res.Events = append(res.Events, Event{
			ID:        w.ID,
			Timestamp: time.UnixMilli(w.TS).UTC(),
			Type:      Type(w.Type),
			SessionID: w.SessionID,
			URL:       w.URL,
			Title:     w.Title,
			Metadata:  w.Metadata,
		})
	}

	if err := scanner.Err(); err != nil {
		return res, err
	}

	SortByTimestamp(res.Events)
	return res, nil
}
