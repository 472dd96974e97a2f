package approval

import (
	"context"
)

// PendingFilter narrows ListPending results.
type PendingFilter func(r *Request) bool

// WithTenant keeps requests owned by the given tenant.
func WithTenant(tenantID string) PendingFilter {
	return func(r *Request) bool { return r.TenantID == tenantID }
}

// WithRun keeps requests tied to the given run.
func WithRun(runID string) PendingFilter {
	return func(r *Request) bool { return r.RunID == runID }
}

// WithStep keeps requests triggered by the given step name.
func WithStep(stepName string) PendingFilter {
	return func(r *Request) bool { return r.StepName == stepName }
}

// ListPending returns pending requests matching all supplied filters.
func ListPending(ctx context.Context, svc Service, filters ...PendingFilter) ([]*Request, error) {
	pending, err := svc.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	if len(filters) == 0 {
		return pending, nil
	}
	var out []*Request
outer:
	for _, request := range pending {
		for _, filter := range filters {
			if !filter(request) {
				continue outer
			}
		}
		out = append(out, request)
	}
	return out, nil
}

// FirstPending returns the oldest pending request for the run, or nil when
// the run has none. While a run is blocked the engine guarantees exactly one.
func FirstPending(ctx context.Context, svc Service, tenantID, runID string) (*Request, error) {
	pending, err := ListPending(ctx, svc, WithTenant(tenantID), WithRun(runID))
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return nil, nil
	}
	oldest := pending[0]
	for _, request := range pending[1:] {
		if request.RequestedAt.Before(oldest.RequestedAt) {
			oldest = request
		}
	}
	return oldest, nil
}
