package dispatcher

import (
	"github.com/agencykit/runway/runtime/execution"
	"github.com/agencykit/runway/service/dao"
	"github.com/agencykit/runway/service/executor"
	"github.com/agencykit/runway/service/messaging"
)

type Option func(*Service)

// WithConfig sets the configuration for the service
func WithConfig(config Config) Option {
	return func(s *Service) { s.config = config }
}

// WithWorkerCount sets the number of workers consuming submitted runs
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.config.WorkerCount = count
		}
	}
}

// WithExecutor sets the run executor
func WithExecutor(exec *executor.Service) Option {
	return func(s *Service) { s.executor = exec }
}

// WithQueue sets the submission queue
func WithQueue(queue messaging.Queue[execution.Job]) Option {
	return func(s *Service) { s.queue = queue }
}

// WithJobDAO sets the tracking job store implementation
func WithJobDAO(jobs dao.Service[string, execution.Job]) Option {
	return func(s *Service) { s.jobs = jobs }
}
