package memory

import (
	"context"
	"sync"

	"github.com/agencykit/runway/internal/clock"
	"github.com/agencykit/runway/service/dao"
	"github.com/agencykit/runway/service/journal"
	"github.com/agencykit/runway/service/messaging"
	qmem "github.com/agencykit/runway/service/messaging/memory"
)

type Option func(*service)

// WithQueue attaches a fan-out queue; every appended entry is published to it
// so push-style observers do not need to poll.
func WithQueue(queue messaging.Queue[journal.Entry]) Option {
	return func(s *service) { s.events = queue }
}

type service struct {
	mu      sync.RWMutex
	entries map[string][]*journal.Entry
	events  messaging.Queue[journal.Entry]
}

// New creates an in-memory journal.
func New(options ...Option) *service {
	ret := &service{
		entries: make(map[string][]*journal.Entry),
		events:  qmem.NewQueue[journal.Entry](qmem.DefaultConfig()),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Append assigns the next per-run sequence ID and stores the entry. Appends
// within a run are serialized by the store lock, so observed order matches
// append order.
func (s *service) Append(ctx context.Context, entry *journal.Entry) error {
	if entry == nil {
		return dao.ErrNilEntity
	}
	if entry.RunID == "" {
		return dao.ErrInvalidID
	}
	if entry.Level == "" {
		entry.Level = journal.LevelInfo
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = clock.Now()
	}

	s.mu.Lock()
	entry.ID = int64(len(s.entries[entry.RunID]) + 1)
	s.entries[entry.RunID] = append(s.entries[entry.RunID], entry)
	s.mu.Unlock()

	if s.events != nil {
		// best effort – dropping a notification never blocks the engine
		_ = s.events.Publish(ctx, entry)
	}
	return nil
}

// Tail returns entries for the run with ID greater than sinceID, in append
// order. A tenant mismatch yields no entries.
func (s *service) Tail(_ context.Context, tenantID, runID string, sinceID int64) ([]*journal.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*journal.Entry
	for _, entry := range s.entries[runID] {
		if entry.ID <= sinceID {
			continue
		}
		if tenantID != "" && entry.TenantID != tenantID {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

// Queue exposes the fan-out queue for push consumers.
func (s *service) Queue() messaging.Queue[journal.Entry] {
	return s.events
}

var _ journal.Service = (*service)(nil)
