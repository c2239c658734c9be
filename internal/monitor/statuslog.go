package monitor

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aerolith-io/groundwatch/internal/severity"
)

const timestampLayout = "2006-01-02 15:04:05"

// Entry is one received status text, timestamped on arrival. Display
// label and style are derived from the severity catalog at render time
// rather than stored.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Severity  uint8     `json:"severity"`
	Text      string    `json:"text"`
}

// Line renders the fixed-width display form: timestamp padded to 20,
// bracketed label padded to 12, text padded to 60, so log columns stay
// aligned in any monospace view.
func (e Entry) Line(catalog severity.Catalog) string {
	level := catalog.Resolve(e.Severity)
	return fmt.Sprintf("%-20s [%-12s] %-60s",
		e.Timestamp.Format(timestampLayout), level.Label, e.Text)
}

// StatusLog is the bounded newest-first status history. Writes happen
// on the dispatch goroutine only; the lock exists for the read models
// handed to the HTTP API.
type StatusLog struct {
	mu      sync.RWMutex
	max     int
	entries []Entry
}

func NewStatusLog(maxMessages int) *StatusLog {
	if maxMessages <= 0 {
		maxMessages = 100
	}
	return &StatusLog{max: maxMessages}
}

// Insert pushes a new entry to the front and evicts the tail entry when
// the log is at capacity. Eviction and insertion are one atomic step,
// so the log never holds more than max entries. Reports whether an
// eviction happened.
func (l *StatusLog) Insert(severityCode uint8, text string) (Entry, bool) {
	entry := Entry{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		Severity:  severityCode,
		Text:      text,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, Entry{})
	copy(l.entries[1:], l.entries)
	l.entries[0] = entry

	evicted := false
	if len(l.entries) > l.max {
		l.entries = l.entries[:l.max]
		evicted = true
	}

	return entry, evicted
}

// Clear empties the log. Safe to call repeatedly.
func (l *StatusLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

func (l *StatusLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Entries returns a newest-first copy safe to retain without locking.
func (l *StatusLog) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Entry(nil), l.entries...)
}
