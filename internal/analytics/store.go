package analytics

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"bridgeanchor/internal/models"
)

// ErrInvalidEvent is returned when an ingested payload is not a JSON object.
var ErrInvalidEvent = errors.New("analytics event must be a JSON object")

// Record is one stored event: the verbatim payload and its typed view.
type Record struct {
	Raw   models.AnalyticsEvent
	Event Event
}

// Store is the append-only, process-lifetime sequence of analytics records.
// Records are immutable once appended, so a snapshot taken under the read lock
// stays consistent while later appends proceed.
type Store struct {
	records []Record
	mu      sync.RWMutex
	now     func() time.Time
}

// NewStore creates an empty event store
func NewStore() *Store {
	return &Store{
		now: time.Now,
	}
}

// Append stamps the payload with receivedAt and stores it.
func (s *Store) Append(fields map[string]json.RawMessage) (Record, error) {
	if fields == nil {
		return Record{}, ErrInvalidEvent
	}

	// The caller keeps its map; the stored copy must never change.
	stored := make(map[string]json.RawMessage, len(fields))
	for key, value := range fields {
		stored[key] = append(json.RawMessage(nil), value...)
	}

	record := Record{
		Raw: models.AnalyticsEvent{
			Fields:     stored,
			ReceivedAt: s.now().UnixMilli(),
		},
		Event: Decode(stored),
	}

	s.mu.Lock()
	s.records = append(s.records, record)
	s.mu.Unlock()

	return record, nil
}

// Snapshot returns every record appended so far, in insertion order.
func (s *Store) Snapshot() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Cap the slice so appends by the caller can never write into the store's array.
	return s.records[:len(s.records):len(s.records)]
}

// Len returns the number of stored records
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Recent returns the raw form of the last n records, oldest first.
func (s *Store) Recent(n int) []models.AnalyticsEvent {
	return recentEvents(s.Snapshot(), n)
}

// Dashboard aggregates a snapshot of the store.
func (s *Store) Dashboard(opts Options) (*models.DashboardResponse, error) {
	return Aggregate(s.Snapshot(), opts)
}
