// Package execution holds the run ledger types: the Run aggregate with its
// per-step records, and the Job facade used for coarse progress polling.
package execution
