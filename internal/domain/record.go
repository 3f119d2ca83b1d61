package domain

import (
	"sync"
	"time"
)

// DefaultLogCapacity is the number of records a session keeps.
const DefaultLogCapacity = 10

// RecordKind tells request records apart from synthetic ones.
type RecordKind string

const (
	RecordRequest   RecordKind = "request"
	RecordMilestone RecordKind = "milestone"
	RecordToken     RecordKind = "token"
)

// ResultRecord is one logged outcome: a request attempt or a synthetic milestone.
type ResultRecord struct {
	ID         uint64     `json:"id"`
	Title      string     `json:"title"`
	Payload    string     `json:"payload"`
	Succeeded  bool       `json:"succeeded"`
	RecordedAt time.Time  `json:"recorded_at"`
	Kind       RecordKind `json:"kind"`
}

// ResultLog is a fixed-capacity log ordered most-recent-first.
// When full, appending evicts the oldest record.
type ResultLog struct {
	mu      sync.RWMutex
	cap     int
	records []ResultRecord
	nextID  uint64
	now     func() time.Time
}

// ResultLogOption configures a ResultLog.
type ResultLogOption func(*ResultLog)

// WithLogClock overrides the clock used for RecordedAt (useful for tests).
func WithLogClock(now func() time.Time) ResultLogOption {
	return func(l *ResultLog) { l.now = now }
}

// NewResultLog returns an empty log. A capacity <= 0 falls back to DefaultLogCapacity.
func NewResultLog(capacity int, opts ...ResultLogOption) *ResultLog {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	l := &ResultLog{
		cap:     capacity,
		records: make([]ResultRecord, 0, capacity),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append stamps the record with the next id and the current time, stores it at the
// front and returns the stored copy.
func (l *ResultLog) Append(title, payload string, succeeded bool, kind RecordKind) ResultRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	rec := ResultRecord{
		ID:         l.nextID,
		Title:      title,
		Payload:    payload,
		Succeeded:  succeeded,
		RecordedAt: l.now(),
		Kind:       kind,
	}

	if len(l.records) < l.cap {
		l.records = append(l.records, ResultRecord{})
	}
	copy(l.records[1:], l.records[:len(l.records)-1])
	l.records[0] = rec
	return rec
}

// Records returns a copy of the log, most recent first.
func (l *ResultLog) Records() []ResultRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]ResultRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Clear drops every record. Ids keep increasing afterwards.
func (l *ResultLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = l.records[:0]
}

func (l *ResultLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

func (l *ResultLog) Cap() int {
	return l.cap
}
