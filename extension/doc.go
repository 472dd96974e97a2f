// Package extension provides the action registry that maps opaque step
// action labels to registered Go services and their input/output types.
package extension
