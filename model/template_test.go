package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTemplate_Validate(t *testing.T) {
	testCases := []struct {
		description  string
		template     *Template
		expectIssues int
	}{
		{
			description: "valid template",
			template: &Template{
				Name: "client onboarding",
				Steps: []*Step{
					{Order: 1, Name: "collect brief"},
					{Order: 2, Name: "sign off", Gate: GateApprove},
				},
			},
		},
		{
			description:  "missing name",
			template:     &Template{},
			expectIssues: 1,
		},
		{
			description: "duplicate step name",
			template: &Template{
				Name: "t",
				Steps: []*Step{
					{Order: 1, Name: "same"},
					{Order: 2, Name: "same"},
				},
			},
			expectIssues: 1,
		},
		{
			description: "duplicate order",
			template: &Template{
				Name: "t",
				Steps: []*Step{
					{Order: 1, Name: "a"},
					{Order: 1, Name: "b"},
				},
			},
			expectIssues: 1,
		},
		{
			description: "non-positive order",
			template: &Template{
				Name:  "t",
				Steps: []*Step{{Order: 0, Name: "a"}},
			},
			expectIssues: 1,
		},
		{
			description: "unknown gate policy",
			template: &Template{
				Name:  "t",
				Steps: []*Step{{Order: 1, Name: "a", Gate: "manual"}},
			},
			expectIssues: 1,
		},
		{
			description: "unnamed step",
			template: &Template{
				Name:  "t",
				Steps: []*Step{{Order: 1}},
			},
			expectIssues: 1,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			issues := testCase.template.Validate()
			assert.Len(t, issues, testCase.expectIssues)
		})
	}
}

func TestTemplate_OrderedSteps(t *testing.T) {
	template := &Template{
		Name: "t",
		Steps: []*Step{
			{Order: 3, Name: "c"},
			{Order: 1, Name: "a"},
			{Order: 2, Name: "b"},
		},
	}
	steps := template.OrderedSteps()
	assert.Equal(t, []string{"a", "b", "c"}, []string{steps[0].Name, steps[1].Name, steps[2].Name})
	// the template's own slice is left untouched
	assert.Equal(t, "c", template.Steps[0].Name)
}

func TestTemplate_AppendStep(t *testing.T) {
	template := &Template{Name: "t"}
	template.AppendStep(&Step{Name: "a"})
	template.AppendStep(&Step{Name: "b"})
	template.AppendStep(&Step{Name: "z", Order: 10})
	template.AppendStep(&Step{Name: "c"})

	orders := make([]int, 0, len(template.Steps))
	for _, step := range template.Steps {
		orders = append(orders, step.Order)
	}
	assert.Equal(t, []int{1, 2, 10, 11}, orders)
}

func TestStep_Policy(t *testing.T) {
	assert.Equal(t, GateAuto, (&Step{}).Policy())
	assert.Equal(t, GateApprove, (&Step{Gate: GateApprove}).Policy())
	assert.Equal(t, GatePause, (&Step{Gate: GatePause}).Policy())
}

func TestGatePolicy_Valid(t *testing.T) {
	assert.True(t, GateAuto.Valid())
	assert.True(t, GateApprove.Valid())
	assert.True(t, GatePause.Valid())
	assert.False(t, GatePolicy("manual").Valid())
	assert.False(t, GatePolicy("").Valid())
}
