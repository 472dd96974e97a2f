package clock

import "time"

// NowFunc returns the current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// NowPtr returns a pointer to the current time, convenient for the
// nullable started/ended timestamps carried by runs and steps.
func NowPtr() *time.Time {
	ts := NowFunc()
	return &ts
}
