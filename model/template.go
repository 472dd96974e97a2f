package model

import (
	"fmt"
	"sort"
	"time"
)

// GatePolicy controls whether a step proceeds unattended or pauses the run
// for a human decision. The set is closed – the executor dispatches on it
// with a single switch.
type GatePolicy string

const (
	// GateAuto executes the step without human involvement.
	GateAuto GatePolicy = "auto"

	// GateApprove blocks the run until a pending approval is decided.
	GateApprove GatePolicy = "approve"

	// GatePause is accepted as a valid policy but currently carries the same
	// runtime behaviour as GateAuto.
	GatePause GatePolicy = "pause"
)

// Valid reports whether the policy belongs to the closed set.
func (g GatePolicy) Valid() bool {
	switch g {
	case GateAuto, GateApprove, GatePause:
		return true
	}
	return false
}

// Step is a single definition within a template. Action and Agent are opaque
// labels interpreted by the action registry; Config is passed through to the
// action untouched.
type Step struct {
	// Order defines the execution sequence; positive and unique within a template.
	Order int `json:"order" yaml:"order"`

	// Name identifies the step; unique within a template.
	Name string `json:"name" yaml:"name"`

	// Action is an optional "service.method" label resolved against the
	// action registry. Unresolved labels are recorded, not executed.
	Action string `json:"action,omitempty" yaml:"action,omitempty"`

	// Agent is the assignee label carried into the step output.
	Agent string `json:"agent,omitempty" yaml:"agent,omitempty"`

	// Gate selects the gating policy; empty defaults to GateAuto.
	Gate GatePolicy `json:"gate,omitempty" yaml:"gate,omitempty"`

	// Config is an opaque structured payload handed to the action input.
	Config map[string]interface{} `json:"config,omitempty" yaml:"config,omitempty"`
}

// Policy returns the effective gating policy, defaulting to GateAuto.
func (s *Step) Policy() GatePolicy {
	if s.Gate == "" {
		return GateAuto
	}
	return s.Gate
}

// Template is a tenant-owned, named, ordered list of step definitions.
// Once runs reference it the step list is treated as immutable.
type Template struct {
	ID          string    `json:"id" yaml:"id,omitempty"`
	TenantID    string    `json:"tenantId" yaml:"tenant,omitempty"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Version     int       `json:"version,omitempty" yaml:"version,omitempty"`
	CreatedBy   string    `json:"createdBy,omitempty" yaml:"createdBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty" yaml:"-"`

	Steps []*Step `json:"steps,omitempty" yaml:"steps,omitempty"`
}

// AppendStep adds a step assigning the next order when none was supplied.
func (t *Template) AppendStep(step *Step) {
	if step == nil {
		return
	}
	if step.Order == 0 {
		maxOrder := 0
		for _, s := range t.Steps {
			if s.Order > maxOrder {
				maxOrder = s.Order
			}
		}
		step.Order = maxOrder + 1
	}
	t.Steps = append(t.Steps, step)
}

// OrderedSteps returns a copy of the step list sorted ascending by order.
func (t *Template) OrderedSteps() []*Step {
	steps := make([]*Step, len(t.Steps))
	copy(steps, t.Steps)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Order < steps[j].Order })
	return steps
}

// Validate performs a best-effort structural validation of the template.
// The returned slice is empty when the template is sound; otherwise it
// contains human-readable error descriptions. Step name uniqueness is
// enforced here even though execution no longer depends on it – renaming a
// step must never be able to desync run history.
func (t *Template) Validate() []error {
	var issues []error
	if t.Name == "" {
		issues = append(issues, fmt.Errorf("template name is empty"))
	}

	names := map[string]bool{}
	orders := map[int]bool{}
	for _, step := range t.Steps {
		if step.Name == "" {
			issues = append(issues, fmt.Errorf("step with order %d has no name", step.Order))
		}
		if names[step.Name] {
			issues = append(issues, fmt.Errorf("duplicate step name %q", step.Name))
		}
		names[step.Name] = true

		if step.Order <= 0 {
			issues = append(issues, fmt.Errorf("step %q has non-positive order %d", step.Name, step.Order))
		}
		if orders[step.Order] {
			issues = append(issues, fmt.Errorf("duplicate step order %d", step.Order))
		}
		orders[step.Order] = true

		if step.Gate != "" && !step.Gate.Valid() {
			issues = append(issues, fmt.Errorf("step %q has unknown gate policy %q", step.Name, step.Gate))
		}
	}
	return issues
}
