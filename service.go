package runway

import (
	"github.com/viant/afs/storage"
	"github.com/viant/x"

	"github.com/agencykit/runway/extension"
	"github.com/agencykit/runway/model/types"
	"github.com/agencykit/runway/runtime/execution"
	"github.com/agencykit/runway/service/action/nop"
	"github.com/agencykit/runway/service/action/notify"
	"github.com/agencykit/runway/service/approval"
	amemory "github.com/agencykit/runway/service/approval/memory"
	jmemory "github.com/agencykit/runway/service/dao/job/memory"
	rmemory "github.com/agencykit/runway/service/dao/run/memory"
	tfs "github.com/agencykit/runway/service/dao/template/fs"
	tmemory "github.com/agencykit/runway/service/dao/template/memory"
	"github.com/agencykit/runway/service/dispatcher"
	"github.com/agencykit/runway/service/executor"
	"github.com/agencykit/runway/service/journal"
	lmemory "github.com/agencykit/runway/service/journal/memory"
	"github.com/agencykit/runway/service/messaging"
	mmemory "github.com/agencykit/runway/service/messaging/memory"
	"github.com/agencykit/runway/service/progress"
)

type Service struct {
	runtime           *Runtime
	actions           *extension.Actions
	extensionTypes    []*x.Type
	extensionServices []types.Service
	executor          *executor.Service
	executorOptions   []executor.Option
	queue             messaging.Queue[execution.Job]
	journalService    journal.Service
	approvalService   approval.Service
	templateBaseURL   string
	templateFsOptions []storage.Option
	workerCount       int
}

func (s *Service) init(options []Option) {
	for _, option := range options {
		option(s)
	}
	s.ensureBaseSetup()
	s.actions = extension.NewActions(s.extensionTypes...)
	s.actions.Register(nop.New())
	s.actions.Register(notify.New())
	for _, service := range s.extensionServices {
		s.actions.Register(service)
	}

	executorOptions := append([]executor.Option{
		executor.WithTemplateDAO(s.runtime.templateDAO),
		executor.WithRunDAO(s.runtime.runDAO),
		executor.WithJobDAO(s.runtime.jobDAO),
		executor.WithJournal(s.journalService),
		executor.WithApprovalService(s.approvalService),
		executor.WithActions(s.actions),
	}, s.executorOptions...)
	s.executor, _ = executor.New(executorOptions...)
	s.runtime.executor = s.executor

	s.runtime.dispatcher, _ = dispatcher.New(
		dispatcher.WithExecutor(s.executor),
		dispatcher.WithJobDAO(s.runtime.jobDAO),
		dispatcher.WithQueue(s.queue),
		dispatcher.WithWorkerCount(s.workerCount),
	)
	s.runtime.journal = s.journalService
	s.runtime.approvals = s.approvalService
	s.runtime.streamer = progress.NewStreamer(s.runtime.runDAO, s.journalService)
}

func (s *Service) ensureBaseSetup() {
	if s.runtime.templateDAO == nil {
		if s.templateBaseURL != "" {
			if fsDAO, err := tfs.New(s.templateBaseURL, s.templateFsOptions...); err == nil {
				s.runtime.templateDAO = fsDAO
			}
		}
		if s.runtime.templateDAO == nil {
			s.runtime.templateDAO = tmemory.New()
		}
	}
	if s.runtime.runDAO == nil {
		s.runtime.runDAO = rmemory.New()
	}
	if s.runtime.jobDAO == nil {
		s.runtime.jobDAO = jmemory.New()
	}
	if s.journalService == nil {
		s.journalService = lmemory.New()
	}
	if s.approvalService == nil {
		s.approvalService = amemory.New()
	}
	if s.queue == nil {
		s.queue = mmemory.NewQueue[execution.Job](mmemory.DefaultConfig())
	}
}

// RegisterExtensionTypes registers additional Go types with the action
// registry.
func (s *Service) RegisterExtensionTypes(types ...*x.Type) {
	for i := range types {
		s.actions.Types().Register(types[i])
	}
}

// RegisterExtensionServices registers additional action services.
func (s *Service) RegisterExtensionServices(services ...types.Service) {
	for i := range services {
		s.actions.Register(services[i])
	}
}

// Runtime returns the engine runtime.
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// New creates an engine service with in-memory defaults for every collaborator
// not supplied as an option.
func New(options ...Option) *Service {
	ret := &Service{runtime: &Runtime{}}
	ret.init(options)
	return ret
}
