// Package executor implements the run executor: it walks a template's steps
// in order, applies the gating policy at each one, records every transition
// on the run ledger and journal, and creates or resolves approval requests.
// A run advances to completion or to the next approve-gated step within a
// single invocation; resuming a blocked run is a separate entry point, not a
// parked continuation.
package executor
