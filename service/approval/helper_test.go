package approval_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agencykit/runway/service/approval"
	memApproval "github.com/agencykit/runway/service/approval/memory"
)

func TestListPending(t *testing.T) {
	ctx := context.Background()
	svc := memApproval.New()

	now := time.Now()
	requests := []*approval.Request{
		{ID: "r1", TenantID: "t1", RunID: "run-1", StepName: "intake", RequestedAt: now},
		{ID: "r2", TenantID: "t1", RunID: "run-2", StepName: "publish", RequestedAt: now},
		{ID: "r3", TenantID: "t2", RunID: "run-3", StepName: "intake", RequestedAt: now},
	}
	for _, r := range requests {
		assert.NoError(t, svc.Request(ctx, r))
	}

	type testCase struct {
		name     string
		filters  []approval.PendingFilter
		expected []*approval.Request
	}

	tests := []testCase{
		{
			name:     "filter by tenant",
			filters:  []approval.PendingFilter{approval.WithTenant("t1")},
			expected: []*approval.Request{requests[0], requests[1]},
		},
		{
			name:     "filter by step",
			filters:  []approval.PendingFilter{approval.WithStep("intake")},
			expected: []*approval.Request{requests[0], requests[2]},
		},
		{
			name:     "filter by tenant and run",
			filters:  []approval.PendingFilter{approval.WithTenant("t1"), approval.WithRun("run-2")},
			expected: []*approval.Request{requests[1]},
		},
		{
			name:     "no filters",
			filters:  nil,
			expected: requests,
		},
	}

	sortByID := func(in []*approval.Request) []*approval.Request {
		out := make([]*approval.Request, len(in))
		copy(out, in)
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return out
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := approval.ListPending(ctx, svc, tc.filters...)
			assert.NoError(t, err)
			assert.EqualValues(t, sortByID(tc.expected), sortByID(actual))
		})
	}
}

func TestApprove(t *testing.T) {
	ctx := context.Background()
	svc := memApproval.New()

	request := &approval.Request{TenantID: "t1", RunID: "run-1", StepName: "publish"}
	assert.NoError(t, svc.Request(ctx, request))
	assert.NotEmpty(t, request.ID)
	assert.Equal(t, approval.StatusPending, request.Status)

	decided, err := svc.Approve(ctx, request.ID, "user-9")
	assert.NoError(t, err)
	assert.Equal(t, approval.StatusApproved, decided.Status)
	assert.Equal(t, "user-9", decided.DecidedBy)
	assert.NotNil(t, decided.DecidedAt)

	// approving twice is a no-op, not an error
	again, err := svc.Approve(ctx, request.ID, "user-10")
	assert.NoError(t, err)
	assert.Equal(t, "user-9", again.DecidedBy)

	pending, err := svc.ListPending(ctx)
	assert.NoError(t, err)
	assert.Empty(t, pending)
}

func TestApproveUnknownRequest(t *testing.T) {
	ctx := context.Background()
	svc := memApproval.New()

	_, err := svc.Approve(ctx, "missing", "user-1")
	assert.Error(t, err)
	assert.True(t, memApproval.IsNotFound(err))
}

func TestFirstPending(t *testing.T) {
	ctx := context.Background()
	svc := memApproval.New()

	earlier := time.Now().Add(-time.Minute)
	assert.NoError(t, svc.Request(ctx, &approval.Request{ID: "newer", TenantID: "t1", RunID: "run-1", RequestedAt: time.Now()}))
	assert.NoError(t, svc.Request(ctx, &approval.Request{ID: "older", TenantID: "t1", RunID: "run-1", RequestedAt: earlier}))

	first, err := approval.FirstPending(ctx, svc, "t1", "run-1")
	assert.NoError(t, err)
	assert.Equal(t, "older", first.ID)

	none, err := approval.FirstPending(ctx, svc, "t2", "run-1")
	assert.NoError(t, err)
	assert.Nil(t, none)
}

func TestQueueNotifications(t *testing.T) {
	ctx := context.Background()
	svc := memApproval.New()

	request := &approval.Request{TenantID: "t1", RunID: "run-1", StepName: "publish"}
	assert.NoError(t, svc.Request(ctx, request))
	_, err := svc.Approve(ctx, request.ID, "user-9")
	assert.NoError(t, err)

	event, err := svc.Queue().Consume(ctx)
	assert.NoError(t, err)
	assert.Equal(t, approval.TopicRequestCreated, event.T().Topic)
	assert.NoError(t, event.Ack())

	event, err = svc.Queue().Consume(ctx)
	assert.NoError(t, err)
	assert.Equal(t, approval.TopicDecisionCreated, event.T().Topic)
	assert.Equal(t, approval.StatusApproved, event.T().Data.Status)
	assert.NoError(t, event.Ack())
}
