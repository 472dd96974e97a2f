package approval

import (
	"time"
)

// Request states. Rejection is deliberately not modelled – approving is the
// only decision outcome.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

// Standard event topics
const (
	TopicRequestCreated  = "request.created"
	TopicDecisionCreated = "decision.created"
)

// Event envelope published on the service queue.
type Event struct {
	Topic   string            // see topic constants above
	Data    *Request          // snapshot of the request at publication time
	Headers map[string]string `json:"headers,omitempty"` // optional – tenant, correlation-id etc.
}

// Request represents a pending-or-decided approval gate tied to a run and
// the step name that triggered it.
type Request struct {
	ID       string `json:"id"`
	TenantID string `json:"tenantId"`
	RunID    string `json:"runId"`

	// StepName is the name of the gated step at the time it blocked.
	StepName string `json:"stepName"`

	Status string `json:"status"`

	RequestedAt time.Time  `json:"requestedAt"`
	DecidedAt   *time.Time `json:"decidedAt,omitempty"`
	DecidedBy   string     `json:"decidedBy,omitempty"`
}

// Pending reports whether the request still awaits a decision.
func (r *Request) Pending() bool {
	return r != nil && r.Status == StatusPending
}
