package runway

import (
	"context"
	"fmt"

	"github.com/agencykit/runway/internal/idgen"
	"github.com/agencykit/runway/model"
	"github.com/agencykit/runway/runtime/execution"
	"github.com/agencykit/runway/service/approval"
	"github.com/agencykit/runway/service/dao"
	tfs "github.com/agencykit/runway/service/dao/template/fs"
	"github.com/agencykit/runway/service/dispatcher"
	"github.com/agencykit/runway/service/executor"
	"github.com/agencykit/runway/service/journal"
	"github.com/agencykit/runway/service/progress"
)

// Runtime is the operational surface of the engine: template access, run
// lifecycle, approvals and progress observation.
type Runtime struct {
	templateDAO dao.Service[string, model.Template]
	runDAO      dao.Service[string, execution.Run]
	jobDAO      dao.Service[string, execution.Job]
	journal     journal.Service
	approvals   approval.Service
	executor    *executor.Service
	dispatcher  *dispatcher.Service
	streamer    *progress.Streamer
}

// RunOption customizes a run at creation time.
type RunOption func(*execution.Run)

// ForClient tags the run with the client it concerns.
func ForClient(clientID string) RunOption {
	return func(r *execution.Run) { r.ClientID = clientID }
}

// ForProject tags the run with the project it concerns.
func ForProject(projectID string) RunOption {
	return func(r *execution.Run) { r.ProjectID = projectID }
}

// CreateRun creates a queued run for the tenant's template. The run does not
// execute until StartRun or SubmitRun is called.
func (r *Runtime) CreateRun(ctx context.Context, tenantID, templateID, triggeredBy string, options ...RunOption) (*execution.Run, error) {
	template, err := r.Template(ctx, tenantID, templateID)
	if err != nil {
		return nil, err
	}
	if issues := template.Validate(); len(issues) > 0 {
		return nil, issues[0]
	}
	run := execution.NewRun(idgen.New(), tenantID, template.ID, triggeredBy)
	for _, option := range options {
		option(run)
	}
	if err = r.runDAO.Save(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to save run: %w", err)
	}
	return run, nil
}

// StartRun executes a queued run synchronously, returning when the run
// completes or blocks at an approval gate.
func (r *Runtime) StartRun(ctx context.Context, tenantID, runID string) error {
	return r.executor.Start(ctx, tenantID, runID)
}

// SubmitRun enqueues a queued run for asynchronous execution and returns its
// tracking job. The dispatcher worker pool must be started via Start.
func (r *Runtime) SubmitRun(ctx context.Context, tenantID, runID string) (*execution.Job, error) {
	run, err := r.Run(ctx, tenantID, runID)
	if err != nil {
		return nil, err
	}
	return r.dispatcher.Submit(ctx, run)
}

// ResumeRun approves the pending gate of a blocked run and continues
// execution up to the next gate or completion. Resuming a run that is not
// blocked is a no-op.
func (r *Runtime) ResumeRun(ctx context.Context, tenantID, runID, approverID string) error {
	return r.executor.Resume(ctx, tenantID, runID, approverID)
}

// PendingApprovals lists the tenant's undecided approval requests.
func (r *Runtime) PendingApprovals(ctx context.Context, tenantID string) ([]*approval.Request, error) {
	return approval.ListPending(ctx, r.approvals, approval.WithTenant(tenantID))
}

// Run returns the tenant's run by ID.
func (r *Runtime) Run(ctx context.Context, tenantID, runID string) (*execution.Run, error) {
	run, err := r.runDAO.Load(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run == nil || run.TenantID != tenantID {
		return nil, fmt.Errorf("run %s: %w", runID, dao.ErrNotFound)
	}
	return run, nil
}

// Runs lists the tenant's runs, optionally narrowed by criteria parameters.
func (r *Runtime) Runs(ctx context.Context, tenantID string, parameters ...*dao.Parameter) ([]*execution.Run, error) {
	parameters = append(parameters, dao.NewParameter("TenantID", tenantID))
	return r.runDAO.List(ctx, parameters...)
}

// Job returns the tracking job of the tenant's run, or nil when the run was
// never submitted.
func (r *Runtime) Job(ctx context.Context, tenantID, runID string) (*execution.Job, error) {
	jobs, err := r.jobDAO.List(ctx,
		dao.NewParameter("TenantID", tenantID),
		dao.NewParameter("RunID", runID))
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, nil
	}
	return jobs[0], nil
}

// Template returns the tenant's template by ID.
func (r *Runtime) Template(ctx context.Context, tenantID, templateID string) (*model.Template, error) {
	template, err := r.templateDAO.Load(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if template == nil || template.TenantID != tenantID {
		return nil, fmt.Errorf("template %s: %w", templateID, dao.ErrNotFound)
	}
	return template, nil
}

// Templates lists the tenant's templates.
func (r *Runtime) Templates(ctx context.Context, tenantID string) ([]*model.Template, error) {
	return r.templateDAO.List(ctx, dao.NewParameter("TenantID", tenantID))
}

// UpsertTemplate stores a template definition.
func (r *Runtime) UpsertTemplate(ctx context.Context, template *model.Template) error {
	if template == nil {
		return dao.ErrNilEntity
	}
	if template.ID == "" {
		template.ID = idgen.New()
	}
	if issues := template.Validate(); len(issues) > 0 {
		return issues[0]
	}
	return r.templateDAO.Save(ctx, template)
}

// RefreshTemplates rescans filesystem-backed template storage so edits made
// on disk become visible without a restart. A no-op for in-memory storage.
func (r *Runtime) RefreshTemplates(ctx context.Context) error {
	if fsDAO, ok := r.templateDAO.(*tfs.Service); ok {
		return fsDAO.Refresh(ctx)
	}
	return nil
}

// Journal returns run journal entries appended after sinceID, in append order.
func (r *Runtime) Journal(ctx context.Context, tenantID, runID string, sinceID int64) ([]*journal.Entry, error) {
	if _, err := r.Run(ctx, tenantID, runID); err != nil {
		return nil, err
	}
	return r.journal.Tail(ctx, tenantID, runID, sinceID)
}

// Progress returns progress events derived from journal lines appended after
// sinceID.
func (r *Runtime) Progress(ctx context.Context, tenantID, runID string, sinceID int64) ([]*progress.Event, error) {
	return r.streamer.Poll(ctx, tenantID, runID, sinceID)
}

// Watch streams progress events until the run reaches a terminal state.
func (r *Runtime) Watch(ctx context.Context, tenantID, runID string) (<-chan *progress.Event, error) {
	return r.streamer.Watch(ctx, tenantID, runID)
}

// Start launches the dispatcher worker pool.
func (r *Runtime) Start(ctx context.Context) error {
	return r.dispatcher.Start(ctx)
}

// Shutdown stops the dispatcher worker pool.
func (r *Runtime) Shutdown(ctx context.Context) error {
	r.dispatcher.Shutdown()
	return nil
}
