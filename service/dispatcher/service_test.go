package dispatcher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agencykit/runway/model"
	"github.com/agencykit/runway/runtime/execution"
	approvalmem "github.com/agencykit/runway/service/approval/memory"
	jobmem "github.com/agencykit/runway/service/dao/job/memory"
	runmem "github.com/agencykit/runway/service/dao/run/memory"
	templatemem "github.com/agencykit/runway/service/dao/template/memory"
	"github.com/agencykit/runway/service/executor"
	journalmem "github.com/agencykit/runway/service/journal/memory"
	qmem "github.com/agencykit/runway/service/messaging/memory"
)

func TestService_Submit(t *testing.T) {
	ctx := context.Background()

	templates := templatemem.New()
	runs := runmem.New()
	jobs := jobmem.New()

	exec, err := executor.New(
		executor.WithTemplateDAO(templates),
		executor.WithRunDAO(runs),
		executor.WithJobDAO(jobs),
		executor.WithJournal(journalmem.New()),
		executor.WithApprovalService(approvalmem.New()),
	)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	svc, err := New(
		WithExecutor(exec),
		WithJobDAO(jobs),
		WithQueue(qmem.NewQueue[execution.Job](qmem.DefaultConfig())),
		WithWorkerCount(2),
	)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	assert.NoError(t, templates.Save(ctx, &model.Template{
		ID:       "tpl-1",
		TenantID: "acme",
		Name:     "client onboarding",
		Steps: []*model.Step{
			{Order: 1, Name: "collect brief"},
			{Order: 2, Name: "draft proposal"},
		},
	}))

	run := execution.NewRun("run-1", "acme", "tpl-1", "amy")
	assert.NoError(t, runs.Save(ctx, run))

	job, err := svc.Submit(ctx, run)
	assert.NoError(t, err)
	assert.Equal(t, execution.StateQueued, job.GetState())
	assert.Equal(t, "run-1", job.RunID)

	assert.NoError(t, svc.Start(ctx))
	defer svc.Shutdown()

	assert.True(t, waitForState(ctx, runs, "run-1", execution.StateSucceeded, 2*time.Second))
	assert.Equal(t, execution.StateSucceeded, job.GetState())
	assert.Equal(t, 100, job.GetProgress())
}

func TestService_SubmitDuplicateDelivery(t *testing.T) {
	ctx := context.Background()

	templates := templatemem.New()
	runs := runmem.New()
	jobs := jobmem.New()
	queue := qmem.NewQueue[execution.Job](qmem.DefaultConfig())

	exec, err := executor.New(
		executor.WithTemplateDAO(templates),
		executor.WithRunDAO(runs),
		executor.WithJobDAO(jobs),
		executor.WithJournal(journalmem.New()),
		executor.WithApprovalService(approvalmem.New()),
	)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	svc, err := New(WithExecutor(exec), WithJobDAO(jobs), WithQueue(queue))
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	assert.NoError(t, templates.Save(ctx, &model.Template{
		ID:       "tpl-1",
		TenantID: "acme",
		Name:     "client onboarding",
		Steps:    []*model.Step{{Order: 1, Name: "collect brief"}},
	}))
	run := execution.NewRun("run-1", "acme", "tpl-1", "amy")
	assert.NoError(t, runs.Save(ctx, run))

	job, err := svc.Submit(ctx, run)
	assert.NoError(t, err)
	// a redelivered job for an already-started run is acked, not retried
	assert.NoError(t, queue.Publish(ctx, job))

	assert.NoError(t, svc.Start(ctx))
	defer svc.Shutdown()

	assert.True(t, waitForState(ctx, runs, "run-1", execution.StateSucceeded, 2*time.Second))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, queue.DLQSize())
}

func waitForState(ctx context.Context, runs interface {
	Load(ctx context.Context, id string) (*execution.Run, error)
}, runID, state string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		run, err := runs.Load(ctx, runID)
		if err == nil && run != nil && run.GetState() == state {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}
