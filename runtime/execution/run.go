package execution

import (
	"sync"
	"time"

	"github.com/agencykit/runway/internal/clock"
)

// Run state constants
const (
	StateQueued    = "queued"
	StateRunning   = "running"
	StateBlocked   = "blocked"
	StateSucceeded = "succeeded"
	StateFailed    = "failed"

	// StateCanceled exists in the status vocabulary but no engine
	// transition produces it.
	StateCanceled = "canceled"
)

// IsTerminal reports whether the supplied state permits no further
// transitions.
func IsTerminal(state string) bool {
	switch state {
	case StateSucceeded, StateFailed, StateCanceled:
		return true
	}
	return false
}

// Run is one execution attempt of a template. Steps accumulate in execution
// order; Cursor is the index of the next template step to execute and is
// advanced atomically with each step completion, so resume never needs to
// reconstruct position from step names.
type Run struct {
	ID          string `json:"id"`
	TenantID    string `json:"tenantId"`
	TemplateID  string `json:"templateId"`
	TriggeredBy string `json:"triggeredBy,omitempty"`

	// Optional references to the business entity the run is about, used by
	// dashboard rollups.
	ClientID  string `json:"clientId,omitempty"`
	ProjectID string `json:"projectId,omitempty"`

	State  string `json:"state"`
	Cursor int    `json:"cursor"`

	// TotalSteps is a snapshot of the template step count taken when the run
	// starts; it decouples progress math from later template edits.
	TotalSteps int `json:"totalSteps"`

	CreatedAt time.Time  `json:"createdAt"`
	StartedAt *time.Time `json:"startedAt,omitempty"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`

	Steps []*StepRun `json:"steps,omitempty"`

	mu sync.RWMutex
}

// NewRun creates a queued run for the given template.
func NewRun(id, tenantID, templateID, triggeredBy string) *Run {
	return &Run{
		ID:          id,
		TenantID:    tenantID,
		TemplateID:  templateID,
		TriggeredBy: triggeredBy,
		State:       StateQueued,
		CreatedAt:   clock.Now(),
	}
}

// GetState returns the run state.
func (r *Run) GetState() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.State
}

// SetState updates the run state, stamping StartedAt on the first transition
// to running and EndedAt on any terminal transition.
func (r *Run) SetState(state string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.State = state
	switch {
	case state == StateRunning && r.StartedAt == nil:
		r.StartedAt = clock.NowPtr()
	case IsTerminal(state):
		r.EndedAt = clock.NowPtr()
	}
}

// PushStep appends a step record to the run.
func (r *Run) PushStep(step *StepRun) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Steps = append(r.Steps, step)
}

// AdvanceCursor moves the cursor past the step that just completed.
func (r *Run) AdvanceCursor() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Cursor++
	return r.Cursor
}

// LastBlocked returns the most recent step record in blocked state, or nil.
func (r *Run) LastBlocked() *StepRun {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.Steps) - 1; i >= 0; i-- {
		if r.Steps[i].State == StepBlocked {
			return r.Steps[i]
		}
	}
	return nil
}

// CompletedSteps returns the number of steps that reached succeeded.
func (r *Run) CompletedSteps() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, step := range r.Steps {
		if step.State == StepSucceeded {
			count++
		}
	}
	return count
}

// ActiveSteps returns the number of steps currently running or blocked.
// The engine keeps this at most one per run.
func (r *Run) ActiveSteps() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, step := range r.Steps {
		if step.State == StepRunning || step.State == StepBlocked {
			count++
		}
	}
	return count
}

// Clone creates a deep copy safe for reads outside the owning store. The
// sync.RWMutex is intentionally not copied.
func (r *Run) Clone() *Run {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := &Run{
		ID:          r.ID,
		TenantID:    r.TenantID,
		TemplateID:  r.TemplateID,
		TriggeredBy: r.TriggeredBy,
		ClientID:    r.ClientID,
		ProjectID:   r.ProjectID,
		State:       r.State,
		Cursor:      r.Cursor,
		TotalSteps:  r.TotalSteps,
		CreatedAt:   r.CreatedAt,
		StartedAt:   r.StartedAt,
		EndedAt:     r.EndedAt,
	}
	if len(r.Steps) > 0 {
		out.Steps = make([]*StepRun, len(r.Steps))
		for i, step := range r.Steps {
			out.Steps[i] = step.Clone()
		}
	}
	return out
}
