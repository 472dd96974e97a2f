package executor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/viant/structology/conv"

	"github.com/agencykit/runway/extension"
	"github.com/agencykit/runway/internal/clock"
	"github.com/agencykit/runway/internal/idgen"
	"github.com/agencykit/runway/model"
	"github.com/agencykit/runway/runtime/execution"
	"github.com/agencykit/runway/service/approval"
	"github.com/agencykit/runway/service/dao"
	"github.com/agencykit/runway/service/journal"
	"github.com/agencykit/runway/tracing"
)

// Config represents executor service configuration
type Config struct {
	// StepDelay is an artificial per-step pause simulating step work.
	StepDelay time.Duration
}

// DefaultConfig returns the default executor configuration
func DefaultConfig() Config {
	return Config{}
}

// Service walks a run's template steps in order, applying the gating policy
// at each one. Concurrent invocations on the same run are serialized by a
// per-run lock so the single-active-step and single-pending-approval
// invariants hold.
type Service struct {
	config    Config
	templates dao.Service[string, model.Template]
	runs      dao.Service[string, execution.Run]
	jobs      dao.Service[string, execution.Job]
	journal   journal.Service
	approvals approval.Service
	actions   *extension.Actions
	converter *conv.Converter

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a new executor service
func New(options ...Option) (*Service, error) {
	converterOptions := conv.DefaultOptions()
	converterOptions.ClonePointerData = true
	converterOptions.IgnoreUnmapped = true

	s := &Service{
		config:    DefaultConfig(),
		converter: conv.NewConverter(converterOptions),
		locks:     make(map[string]*sync.Mutex),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.templates == nil {
		return nil, fmt.Errorf("template DAO is required")
	}
	if s.runs == nil {
		return nil, fmt.Errorf("run DAO is required")
	}
	if s.jobs == nil {
		return nil, fmt.Errorf("job DAO is required")
	}
	if s.journal == nil {
		return nil, fmt.Errorf("journal is required")
	}
	if s.approvals == nil {
		return nil, fmt.Errorf("approval service is required")
	}
	return s, nil
}

// Start begins execution of a queued run. It returns once the run reaches a
// terminal state or blocks at the first approve-gated step.
func (s *Service) Start(ctx context.Context, tenantID, runID string) (err error) {
	ctx, span := tracing.StartSpan(ctx, fmt.Sprintf("executor.Start %s", runID), "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()

	unlock := s.lockRun(runID)
	var run *execution.Run
	defer func() {
		unlock()
		s.dropLock(run)
	}()

	run, err = s.loadRun(ctx, tenantID, runID)
	if err != nil {
		return err
	}
	if state := run.GetState(); state != execution.StateQueued {
		return fmt.Errorf("%w: run %s is %s", ErrRunNotQueued, runID, state)
	}
	template, err := s.loadTemplate(ctx, tenantID, run.TemplateID)
	if err != nil {
		return err
	}
	steps := template.OrderedSteps()

	run.TotalSteps = len(steps)
	run.SetState(execution.StateRunning)
	job := s.jobFor(ctx, run)
	job.Update(execution.StateRunning, 0)
	_ = journal.Info(ctx, s.journal, run.TenantID, run.ID, "Workflow started")
	if err = s.persist(ctx, run, job); err != nil {
		return err
	}
	return s.advance(ctx, run, steps, job)
}

// Resume unblocks a run previously halted at an approve-gated step: the
// pending approval is resolved, the blocked step succeeds and execution
// continues from the cursor. Calling Resume on a run that is not blocked is
// a silent no-op.
func (s *Service) Resume(ctx context.Context, tenantID, runID, approverID string) (err error) {
	ctx, span := tracing.StartSpan(ctx, fmt.Sprintf("executor.Resume %s", runID), "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()

	unlock := s.lockRun(runID)
	var run *execution.Run
	defer func() {
		unlock()
		s.dropLock(run)
	}()

	run, err = s.loadRun(ctx, tenantID, runID)
	if err != nil {
		return err
	}
	if run.GetState() != execution.StateBlocked {
		return nil
	}
	template, err := s.loadTemplate(ctx, tenantID, run.TemplateID)
	if err != nil {
		return err
	}
	steps := template.OrderedSteps()

	pending, err := approval.FirstPending(ctx, s.approvals, tenantID, runID)
	if err != nil {
		return err
	}
	if pending != nil {
		if _, err = s.approvals.Approve(ctx, pending.ID, approverID); err != nil {
			return err
		}
	}

	run.SetState(execution.StateRunning)
	if blocked := run.LastBlocked(); blocked != nil {
		blocked.State = execution.StepSucceeded
		blocked.EndedAt = clock.NowPtr()
		run.AdvanceCursor()
	}
	_ = journal.Info(ctx, s.journal, run.TenantID, run.ID, "Approval granted, workflow resumed")

	job := s.jobFor(ctx, run)
	job.Update(execution.StateRunning, percent(run.Cursor, run.TotalSteps))
	if err = s.persist(ctx, run, job); err != nil {
		return err
	}
	return s.advance(ctx, run, steps, job)
}

// advance executes steps from the run cursor onwards, always stopping at the
// next approve-gated step. Consecutive approval gates therefore require one
// resume call each.
func (s *Service) advance(ctx context.Context, run *execution.Run, steps []*model.Step, job *execution.Job) error {
	// Progress is computed against the step count snapshotted when the run
	// started, so a template edited mid-run cannot skew the percentage.
	total := run.TotalSteps
	for idx := run.Cursor; idx < len(steps); idx++ {
		step := steps[idx]
		record := &execution.StepRun{
			ID:        idgen.New(),
			Name:      step.Name,
			State:     execution.StepRunning,
			StartedAt: clock.NowPtr(),
		}
		run.PushStep(record)
		_ = journal.Infof(ctx, s.journal, run.TenantID, run.ID, "Step %d: %s started", idx+1, step.Name)
		if err := s.runs.Save(ctx, run); err != nil {
			return s.fail(ctx, run, job, err)
		}

		switch step.Policy() {
		case model.GateApprove:
			record.State = execution.StepBlocked
			record.EndedAt = clock.NowPtr()
			run.SetState(execution.StateBlocked)
			job.Update(execution.StateBlocked, percent(idx, total))
			request := &approval.Request{TenantID: run.TenantID, RunID: run.ID, StepName: step.Name}
			if err := s.approvals.Request(ctx, request); err != nil {
				return s.fail(ctx, run, job, err)
			}
			_ = journal.Infof(ctx, s.journal, run.TenantID, run.ID, "Step %d blocked for approval", idx+1)
			return s.persist(ctx, run, job)
		default:
			// GateAuto; GatePause carries no distinct behaviour yet
			if err := s.pause(ctx); err != nil {
				return s.fail(ctx, run, job, err)
			}
			output, err := s.perform(ctx, step)
			if err != nil {
				return s.fail(ctx, run, job, err)
			}
			record.State = execution.StepSucceeded
			record.Output = output
			record.EndedAt = clock.NowPtr()
			run.AdvanceCursor()
			job.Update(execution.StateRunning, percent(idx+1, total))
			_ = journal.Infof(ctx, s.journal, run.TenantID, run.ID, "Step %d: %s completed", idx+1, step.Name)
			if err := s.persist(ctx, run, job); err != nil {
				return err
			}
		}
	}

	run.SetState(execution.StateSucceeded)
	job.Update(execution.StateSucceeded, 100)
	_ = journal.Info(ctx, s.journal, run.TenantID, run.ID, "Workflow succeeded")
	return s.persist(ctx, run, job)
}

// fail transitions the run and its tracking job to failed in the same
// handler, so the two never disagree about the outcome.
func (s *Service) fail(ctx context.Context, run *execution.Run, job *execution.Job, cause error) error {
	run.SetState(execution.StateFailed)
	job.Fail(cause.Error())
	_ = journal.Errorf(ctx, s.journal, run.TenantID, run.ID, "Workflow failed: %v", cause)
	_ = s.runs.Save(ctx, run)
	_ = s.jobs.Save(ctx, job)
	return cause
}

// percent returns floor(completed/total*100), guarding empty templates and
// capping at 100 when a run outgrows its snapshotted step count.
func percent(completed, total int) int {
	if total < 1 {
		total = 1
	}
	if completed >= total {
		return 100
	}
	return completed * 100 / total
}

func (s *Service) pause(ctx context.Context) error {
	if s.config.StepDelay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.config.StepDelay):
		return nil
	}
}

func (s *Service) persist(ctx context.Context, run *execution.Run, job *execution.Job) error {
	if err := s.runs.Save(ctx, run); err != nil {
		return err
	}
	return s.jobs.Save(ctx, job)
}

// loadRun fetches the run, treating a tenant mismatch as not-found so run
// identifiers never leak across tenants.
func (s *Service) loadRun(ctx context.Context, tenantID, runID string) (*execution.Run, error) {
	if runID == "" {
		return nil, dao.ErrInvalidID
	}
	run, err := s.runs.Load(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run == nil || run.TenantID != tenantID {
		return nil, fmt.Errorf("run %s: %w", runID, dao.ErrNotFound)
	}
	return run, nil
}

func (s *Service) loadTemplate(ctx context.Context, tenantID, templateID string) (*model.Template, error) {
	template, err := s.templates.Load(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if template == nil || template.TenantID != tenantID {
		return nil, fmt.Errorf("template %s: %w", templateID, dao.ErrNotFound)
	}
	if issues := template.Validate(); len(issues) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, issues[0])
	}
	return template, nil
}

// jobFor returns the tracking job associated with the run, creating one when
// the run was started directly rather than submitted through the dispatcher.
func (s *Service) jobFor(ctx context.Context, run *execution.Run) *execution.Job {
	jobs, err := s.jobs.List(ctx, dao.NewParameter("TenantID", run.TenantID), dao.NewParameter("RunID", run.ID))
	if err == nil && len(jobs) > 0 {
		return jobs[0]
	}
	return execution.NewJob(idgen.New(), run.TenantID, run.ID)
}

func (s *Service) lockRun(runID string) func() {
	s.mu.Lock()
	lock, ok := s.locks[runID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[runID] = lock
	}
	s.mu.Unlock()
	lock.Lock()
	return lock.Unlock
}

// dropLock discards the per-run mutex once the run reaches a terminal state,
// so the lock table does not grow with every finished run.
func (s *Service) dropLock(run *execution.Run) {
	if run == nil || !execution.IsTerminal(run.GetState()) {
		return
	}
	s.mu.Lock()
	delete(s.locks, run.ID)
	s.mu.Unlock()
}
