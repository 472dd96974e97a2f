package progress

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agencykit/runway/runtime/execution"
	runmem "github.com/agencykit/runway/service/dao/run/memory"
	"github.com/agencykit/runway/service/journal"
	journalmem "github.com/agencykit/runway/service/journal/memory"
)

func TestRunPercent(t *testing.T) {
	testCases := []struct {
		description string
		run         *execution.Run
		expect      int
	}{
		{
			description: "nil run",
			expect:      0,
		},
		{
			description: "queued run with no steps yet",
			run:         &execution.Run{State: execution.StateQueued, TotalSteps: 4},
			expect:      0,
		},
		{
			description: "two of four completed",
			run: &execution.Run{
				State:      execution.StateRunning,
				TotalSteps: 4,
				Steps: []*execution.StepRun{
					{Name: "a", State: execution.StepSucceeded},
					{Name: "b", State: execution.StepSucceeded},
					{Name: "c", State: execution.StepRunning},
				},
			},
			expect: 50,
		},
		{
			description: "blocked at second of three floors down",
			run: &execution.Run{
				State:      execution.StateBlocked,
				TotalSteps: 3,
				Steps: []*execution.StepRun{
					{Name: "a", State: execution.StepSucceeded},
					{Name: "b", State: execution.StepBlocked},
				},
			},
			expect: 33,
		},
		{
			description: "succeeded reads full even with no steps",
			run:         &execution.Run{State: execution.StateSucceeded},
			expect:      100,
		},
		{
			description: "failed keeps last percentage",
			run: &execution.Run{
				State:      execution.StateFailed,
				TotalSteps: 2,
				Steps: []*execution.StepRun{
					{Name: "a", State: execution.StepSucceeded},
				},
			},
			expect: 50,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			assert.Equal(t, testCase.expect, RunPercent(testCase.run))
		})
	}
}

func TestStreamer_Poll(t *testing.T) {
	ctx := context.Background()
	runs := runmem.New()
	log := journalmem.New()

	run := execution.NewRun("run-1", "acme", "tpl-1", "amy")
	run.TotalSteps = 2
	run.SetState(execution.StateRunning)
	run.PushStep(&execution.StepRun{Name: "collect brief", State: execution.StepSucceeded})
	assert.NoError(t, runs.Save(ctx, run))

	assert.NoError(t, journal.Info(ctx, log, "acme", "run-1", "Workflow started"))
	assert.NoError(t, journal.Info(ctx, log, "acme", "run-1", "Step 1: collect brief started"))
	assert.NoError(t, journal.Info(ctx, log, "acme", "run-1", "Step 1: collect brief completed"))

	streamer := NewStreamer(runs, log)

	events, err := streamer.Poll(ctx, "acme", "run-1", 0)
	assert.NoError(t, err)
	if !assert.Len(t, events, 3) {
		t.FailNow()
	}
	assert.Equal(t, "Workflow started", events[0].Message)
	assert.Equal(t, int64(3), events[2].LogID)
	assert.Equal(t, 50, events[2].Percent)
	assert.Equal(t, execution.StateRunning, events[2].State)

	// cursor skips already-delivered lines
	events, err = streamer.Poll(ctx, "acme", "run-1", 3)
	assert.NoError(t, err)
	if !assert.Len(t, events, 1) {
		t.FailNow()
	}
	assert.Empty(t, events[0].Message)
	assert.Equal(t, int64(3), events[0].LogID)
}

func TestStreamer_PollTenantMismatch(t *testing.T) {
	ctx := context.Background()
	runs := runmem.New()
	log := journalmem.New()
	assert.NoError(t, runs.Save(ctx, execution.NewRun("run-1", "acme", "tpl-1", "amy")))

	streamer := NewStreamer(runs, log)
	_, err := streamer.Poll(ctx, "globex", "run-1", 0)
	assert.Error(t, err)
}

func TestStreamer_Watch(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	runs := runmem.New()
	log := journalmem.New()

	run := execution.NewRun("run-1", "acme", "tpl-1", "amy")
	run.TotalSteps = 1
	run.SetState(execution.StateRunning)
	assert.NoError(t, runs.Save(ctx, run))
	assert.NoError(t, journal.Info(ctx, log, "acme", "run-1", "Workflow started"))

	streamer := NewStreamer(runs, log, WithInterval(10*time.Millisecond))
	events, err := streamer.Watch(ctx, "acme", "run-1")
	assert.NoError(t, err)

	// finish the run while the watcher is live
	go func() {
		time.Sleep(30 * time.Millisecond)
		run.PushStep(&execution.StepRun{Name: "collect brief", State: execution.StepSucceeded})
		run.SetState(execution.StateSucceeded)
		_ = runs.Save(ctx, run)
		_ = journal.Info(ctx, log, "acme", "run-1", "Workflow succeeded")
	}()

	var messages []string
	var last *Event
	for event := range events {
		if event.Message != "" {
			messages = append(messages, event.Message)
		}
		last = event
	}
	assert.Equal(t, []string{"Workflow started", "Workflow succeeded"}, messages)
	if assert.NotNil(t, last) {
		assert.True(t, last.Terminal())
		assert.Equal(t, 100, last.Percent)
	}
}
