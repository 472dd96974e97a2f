// Package journal implements the append-only, per-run execution log that
// narrates workflow progress for human observers. Entries are keyed by run,
// carry a per-run monotonically increasing ID and are exposed for
// tail-following via a since-cursor.
package journal
