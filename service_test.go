package runway_test

import (
	"context"
	"embed"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	_ "github.com/viant/afs/embed"

	"github.com/agencykit/runway"
	"github.com/agencykit/runway/runtime/execution"
)

//go:embed testdata/*
var embedFS embed.FS

func newEngine() *runway.Service {
	return runway.New(
		runway.WithTemplateBaseURL("embed:///testdata"),
		runway.WithTemplateFsOptions(&embedFS),
	)
}

func TestService(t *testing.T) {
	ctx := context.Background()
	rt := newEngine().Runtime()

	template, err := rt.Template(ctx, "acme", "onboarding")
	assert.Nil(t, err)
	if !assert.NotNil(t, template) {
		t.FailNow()
	}
	assert.Equal(t, "client onboarding", template.Name)
	assert.Len(t, template.Steps, 4)

	templates, err := rt.Templates(ctx, "acme")
	assert.Nil(t, err)
	assert.Len(t, templates, 1)
}

func TestService_RunLifecycle(t *testing.T) {
	ctx := context.Background()
	rt := newEngine().Runtime()

	run, err := rt.CreateRun(ctx, "acme", "onboarding", "amy", runway.ForClient("client-7"))
	assert.Nil(t, err)
	if !assert.NotNil(t, run) {
		t.FailNow()
	}
	assert.Equal(t, execution.StateQueued, run.GetState())
	assert.Equal(t, "client-7", run.ClientID)

	assert.Nil(t, rt.StartRun(ctx, "acme", run.ID))

	loaded, err := rt.Run(ctx, "acme", run.ID)
	assert.Nil(t, err)
	assert.Equal(t, execution.StateBlocked, loaded.GetState())
	assert.Equal(t, 2, loaded.Cursor)

	pending, err := rt.PendingApprovals(ctx, "acme")
	assert.Nil(t, err)
	if assert.Len(t, pending, 1) {
		assert.Equal(t, "client sign-off", pending[0].StepName)
		assert.Equal(t, run.ID, pending[0].RunID)
	}

	// other tenants see neither the run nor the approval
	_, err = rt.Run(ctx, "globex", run.ID)
	assert.NotNil(t, err)
	otherPending, err := rt.PendingApprovals(ctx, "globex")
	assert.Nil(t, err)
	assert.Empty(t, otherPending)

	assert.Nil(t, rt.ResumeRun(ctx, "acme", run.ID, "boss"))

	loaded, err = rt.Run(ctx, "acme", run.ID)
	assert.Nil(t, err)
	assert.Equal(t, execution.StateSucceeded, loaded.GetState())
	assert.Equal(t, 4, loaded.CompletedSteps())

	job, err := rt.Job(ctx, "acme", run.ID)
	assert.Nil(t, err)
	if assert.NotNil(t, job) {
		assert.Equal(t, execution.StateSucceeded, job.GetState())
		assert.Equal(t, 100, job.GetProgress())
	}

	entries, err := rt.Journal(ctx, "acme", run.ID, 0)
	assert.Nil(t, err)
	if assert.NotEmpty(t, entries) {
		assert.Equal(t, "Workflow started", entries[0].Message)
		assert.Equal(t, "Workflow succeeded", entries[len(entries)-1].Message)
	}

	events, err := rt.Progress(ctx, "acme", run.ID, 0)
	assert.Nil(t, err)
	assert.Len(t, events, len(entries))
	assert.Equal(t, 100, events[len(events)-1].Percent)
}

func TestService_SubmitRun(t *testing.T) {
	ctx := context.Background()
	rt := newEngine().Runtime()
	assert.Nil(t, rt.Start(ctx))
	defer rt.Shutdown(ctx)

	run, err := rt.CreateRun(ctx, "globex", "retainer", "gil")
	assert.Nil(t, err)

	job, err := rt.SubmitRun(ctx, "globex", run.ID)
	assert.Nil(t, err)
	assert.NotNil(t, job)

	assert.True(t, waitFor(func() bool {
		loaded, err := rt.Run(ctx, "globex", run.ID)
		return err == nil && loaded.GetState() == execution.StateBlocked
	}, 2*time.Second))
	assert.Equal(t, 33, job.GetProgress())

	assert.Nil(t, rt.ResumeRun(ctx, "globex", run.ID, "partner"))
	loaded, err := rt.Run(ctx, "globex", run.ID)
	assert.Nil(t, err)
	assert.Equal(t, execution.StateSucceeded, loaded.GetState())
}

func TestService_CreateRunUnknownTemplate(t *testing.T) {
	ctx := context.Background()
	rt := newEngine().Runtime()

	_, err := rt.CreateRun(ctx, "acme", "no-such-template", "amy")
	assert.NotNil(t, err)

	// tenant mismatch reads the same as absence
	_, err = rt.CreateRun(ctx, "acme", "retainer", "amy")
	assert.NotNil(t, err)
}

func waitFor(condition func() bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}
