package executor

import "errors"

var (
	// ErrRunNotQueued is returned when Start is invoked on a run that has
	// already left the queued state.
	ErrRunNotQueued = errors.New("executor: run is not queued")

	// ErrInvalidTemplate is returned when the run's template fails
	// structural validation.
	ErrInvalidTemplate = errors.New("executor: invalid template")
)
