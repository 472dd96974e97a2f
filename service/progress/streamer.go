package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/agencykit/runway/runtime/execution"
	"github.com/agencykit/runway/service/dao"
	"github.com/agencykit/runway/service/journal"
)

// Streamer turns the run ledger and journal into a poll or watch surface.
type Streamer struct {
	runs     dao.Service[string, execution.Run]
	journal  journal.Service
	interval time.Duration
}

// Option customizes a Streamer.
type Option func(*Streamer)

// WithInterval sets the Watch polling interval.
func WithInterval(interval time.Duration) Option {
	return func(s *Streamer) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// NewStreamer creates a progress streamer.
func NewStreamer(runs dao.Service[string, execution.Run], log journal.Service, options ...Option) *Streamer {
	ret := &Streamer{
		runs:     runs,
		journal:  log,
		interval: 100 * time.Millisecond,
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Poll returns one event per journal line appended since sinceID, each
// stamped with the run's current state and percentage. When no lines were
// appended it returns a single heartbeat event carrying the cursor unchanged.
func (s *Streamer) Poll(ctx context.Context, tenantID, runID string, sinceID int64) ([]*Event, error) {
	run, err := s.loadRun(ctx, tenantID, runID)
	if err != nil {
		return nil, err
	}
	state := run.GetState()
	percent := RunPercent(run)

	entries, err := s.journal.Tail(ctx, tenantID, runID, sinceID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []*Event{{
			RunID:   runID,
			State:   state,
			Percent: percent,
			LogID:   sinceID,
			At:      time.Now(),
		}}, nil
	}
	out := make([]*Event, 0, len(entries))
	for _, entry := range entries {
		out = append(out, &Event{
			RunID:   runID,
			State:   state,
			Percent: percent,
			Message: entry.Message,
			LogID:   entry.ID,
			At:      entry.CreatedAt,
		})
	}
	return out, nil
}

// Watch streams progress events until the run reaches a terminal state or the
// context is cancelled. The returned channel is closed after the final event.
func (s *Streamer) Watch(ctx context.Context, tenantID, runID string) (<-chan *Event, error) {
	// fail fast on unknown runs before spawning the poller
	if _, err := s.loadRun(ctx, tenantID, runID); err != nil {
		return nil, err
	}
	events := make(chan *Event)
	go func() {
		defer close(events)
		var cursor int64
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			batch, err := s.Poll(ctx, tenantID, runID, cursor)
			if err != nil {
				return
			}
			terminal := false
			for _, event := range batch {
				if event.LogID > cursor {
					cursor = event.LogID
					select {
					case events <- event:
					case <-ctx.Done():
						return
					}
				}
				if event.Terminal() {
					terminal = true
				}
			}
			if terminal {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return events, nil
}

func (s *Streamer) loadRun(ctx context.Context, tenantID, runID string) (*execution.Run, error) {
	run, err := s.runs.Load(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run == nil || run.TenantID != tenantID {
		return nil, fmt.Errorf("run %s: %w", runID, dao.ErrNotFound)
	}
	return run, nil
}
