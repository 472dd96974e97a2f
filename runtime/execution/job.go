package execution

import (
	"sync"
	"time"

	"github.com/agencykit/runway/internal/clock"
)

// JobKindRun identifies jobs that track a workflow run.
const JobKindRun = "workflow_run"

// Job is a coarse progress-tracking facade mirroring a run at a higher level
// of abstraction, intended for lightweight polling without exposing run and
// step detail.
type Job struct {
	ID       string `json:"id"`
	TenantID string `json:"tenantId"`
	RunID    string `json:"runId"`
	Kind     string `json:"kind"`

	State string `json:"state"`

	// Progress is a floored percentage in [0,100].
	Progress int `json:"progress"`

	Payload map[string]interface{} `json:"payload,omitempty"`
	Error   string                 `json:"error,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	mu sync.RWMutex
}

// NewJob creates a queued tracking job for the given run.
func NewJob(id, tenantID, runID string) *Job {
	now := clock.Now()
	return &Job{
		ID:        id,
		TenantID:  tenantID,
		RunID:     runID,
		Kind:      JobKindRun,
		State:     StateQueued,
		Payload:   map[string]interface{}{"runId": runID},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GetState returns the job state.
func (j *Job) GetState() string {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.State
}

// GetProgress returns the job progress percentage.
func (j *Job) GetProgress() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.Progress
}

// Update sets state and progress in one step.
func (j *Job) Update(state string, progress int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.State = state
	j.Progress = progress
	j.UpdatedAt = clock.Now()
}

// Fail marks the job failed and records the error message.
func (j *Job) Fail(message string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.State = StateFailed
	j.Error = message
	j.UpdatedAt = clock.Now()
}
