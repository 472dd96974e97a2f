// Package approval implements the human-in-the-loop gate that blocks a run
// at approve-gated steps. While a run is blocked exactly one pending request
// exists for it, and approving that request is the only way to unblock the
// run. Rejection, timeout and delegation are not modelled.
package approval
