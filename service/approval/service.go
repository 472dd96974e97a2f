package approval

import (
	"context"

	"github.com/agencykit/runway/service/messaging"
)

// Service defines the approval gate interface.
type Service interface {
	// Request registers a pending approval.
	Request(ctx context.Context, r *Request) error

	// ListPending returns every request still awaiting a decision.
	ListPending(ctx context.Context) ([]*Request, error)

	// Approve records a positive decision for the request with the given id.
	// Approving an already-approved request is a no-op returning the stored
	// request.
	Approve(ctx context.Context, id, approverID string) (*Request, error)

	// Queue exposes request/decision notifications for external observers.
	Queue() messaging.Queue[Event]
}
