// Package progress projects run state into client-facing progress: a floored
// percentage plus the journal lines appended since the client's cursor.
package progress

import (
	"time"

	"github.com/agencykit/runway/runtime/execution"
)

// Event is one progress observation delivered to a watcher. LogID carries the
// journal cursor so a reconnecting client resumes without replaying lines.
type Event struct {
	RunID   string    `json:"runId"`
	State   string    `json:"state"`
	Percent int       `json:"percent"`
	Message string    `json:"message,omitempty"`
	LogID   int64     `json:"logId,omitempty"`
	At      time.Time `json:"at"`
}

// Terminal reports whether the event describes a finished run.
func (e *Event) Terminal() bool {
	return execution.IsTerminal(e.State)
}

// RunPercent computes the floored completion percentage of a run from its
// step records. A succeeded run always reads 100 even when the template had
// no steps.
func RunPercent(run *execution.Run) int {
	if run == nil {
		return 0
	}
	if run.GetState() == execution.StateSucceeded {
		return 100
	}
	total := run.TotalSteps
	if total <= 0 {
		return 0
	}
	percent := run.CompletedSteps() * 100 / total
	if percent > 100 {
		percent = 100
	}
	return percent
}
