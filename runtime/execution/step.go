package execution

import "time"

// Step state constants
const (
	StepQueued    = "queued"
	StepRunning   = "running"
	StepSucceeded = "succeeded"
	StepBlocked   = "blocked"
)

// StepRun records the execution of one template step within one run. Name is
// copied from the step definition at execution time so run history survives
// template edits.
type StepRun struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	State string `json:"state"`

	// Output is populated only when the step succeeds.
	Output map[string]interface{} `json:"output,omitempty"`

	StartedAt *time.Time `json:"startedAt,omitempty"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
}

// Clone returns a copy with its own output map.
func (s *StepRun) Clone() *StepRun {
	if s == nil {
		return nil
	}
	out := *s
	if len(s.Output) > 0 {
		out.Output = make(map[string]interface{}, len(s.Output))
		for k, v := range s.Output {
			out.Output[k] = v
		}
	}
	return &out
}
