package executor

import (
	"time"

	"github.com/agencykit/runway/extension"
	"github.com/agencykit/runway/model"
	"github.com/agencykit/runway/runtime/execution"
	"github.com/agencykit/runway/service/approval"
	"github.com/agencykit/runway/service/dao"
	"github.com/agencykit/runway/service/journal"
)

type Option func(*Service)

// WithTemplateDAO sets the template store implementation
func WithTemplateDAO(templates dao.Service[string, model.Template]) Option {
	return func(s *Service) { s.templates = templates }
}

// WithRunDAO sets the run ledger store implementation
func WithRunDAO(runs dao.Service[string, execution.Run]) Option {
	return func(s *Service) { s.runs = runs }
}

// WithJobDAO sets the tracking job store implementation
func WithJobDAO(jobs dao.Service[string, execution.Job]) Option {
	return func(s *Service) { s.jobs = jobs }
}

// WithJournal sets the execution log implementation
func WithJournal(log journal.Service) Option {
	return func(s *Service) { s.journal = log }
}

// WithApprovalService sets the approval gate implementation
func WithApprovalService(svc approval.Service) Option {
	return func(s *Service) { s.approvals = svc }
}

// WithActions sets the action registry steps resolve their action labels
// against. Without a registry every step is recorded-only.
func WithActions(actions *extension.Actions) Option {
	return func(s *Service) { s.actions = actions }
}

// WithStepDelay sets a per-step pause simulating step work, used by demos
// and the CLI so progress is observable.
func WithStepDelay(delay time.Duration) Option {
	return func(s *Service) { s.config.StepDelay = delay }
}

// WithConfig sets the configuration for the service
func WithConfig(config Config) Option {
	return func(s *Service) { s.config = config }
}
