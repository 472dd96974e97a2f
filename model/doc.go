// Package model defines the workflow template vocabulary shared by the
// engine: templates, step definitions and gating policies.
package model
