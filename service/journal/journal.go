package journal

import (
	"context"
	"fmt"
	"time"
)

// Entry levels
const (
	LevelInfo  = "info"
	LevelError = "error"
)

// Entry is one append-only log line for a run. IDs increase monotonically
// within a run, which lets clients tail the log with a since-cursor.
type Entry struct {
	ID        int64     `json:"id"`
	TenantID  string    `json:"tenantId"`
	RunID     string    `json:"runId"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Service is the append-only execution log. Entries are never mutated or
// deleted, and Tail must return them in append order.
type Service interface {
	// Append assigns the entry its per-run sequence ID and stores it.
	Append(ctx context.Context, entry *Entry) error

	// Tail returns entries for the run with ID greater than sinceID.
	Tail(ctx context.Context, tenantID, runID string, sinceID int64) ([]*Entry, error)
}

// Info appends an informational entry.
func Info(ctx context.Context, s Service, tenantID, runID, message string) error {
	return s.Append(ctx, &Entry{TenantID: tenantID, RunID: runID, Level: LevelInfo, Message: message})
}

// Infof appends a formatted informational entry.
func Infof(ctx context.Context, s Service, tenantID, runID, format string, args ...interface{}) error {
	return Info(ctx, s, tenantID, runID, fmt.Sprintf(format, args...))
}

// Errorf appends a formatted error-level entry.
func Errorf(ctx context.Context, s Service, tenantID, runID, format string, args ...interface{}) error {
	return s.Append(ctx, &Entry{TenantID: tenantID, RunID: runID, Level: LevelError, Message: fmt.Sprintf(format, args...)})
}
