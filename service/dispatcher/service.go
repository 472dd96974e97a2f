// Package dispatcher decouples run submission from run execution. Submit
// enqueues a tracking job and returns immediately; a pool of workers consumes
// the queue and drives the executor, so callers never block on step work.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/agencykit/runway/internal/idgen"
	"github.com/agencykit/runway/runtime/execution"
	"github.com/agencykit/runway/service/dao"
	"github.com/agencykit/runway/service/executor"
	"github.com/agencykit/runway/service/messaging"
)

// Config represents dispatcher configuration
type Config struct {
	// WorkerCount is the number of workers consuming submitted runs
	WorkerCount int
}

// DefaultConfig returns the default dispatcher configuration
func DefaultConfig() Config {
	return Config{WorkerCount: 5}
}

// Service owns the submission queue and its worker pool.
type Service struct {
	config   Config
	jobs     dao.Service[string, execution.Job]
	queue    messaging.Queue[execution.Job]
	executor *executor.Service

	workers    []*worker
	workerWg   sync.WaitGroup
	shutdownCh chan struct{}
	started    bool
	mu         sync.Mutex
}

type worker struct {
	id       int
	service  *Service
	ctx      context.Context
	cancelFn context.CancelFunc
}

// New creates a new dispatcher service
func New(options ...Option) (*Service, error) {
	s := &Service{
		config:     DefaultConfig(),
		shutdownCh: make(chan struct{}),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.executor == nil {
		return nil, fmt.Errorf("executor is required")
	}
	if s.queue == nil {
		return nil, fmt.Errorf("message queue is required")
	}
	if s.jobs == nil {
		return nil, fmt.Errorf("job DAO is required")
	}
	return s, nil
}

// Submit enqueues a queued run for asynchronous execution and returns its
// tracking job.
func (s *Service) Submit(ctx context.Context, run *execution.Run) (*execution.Job, error) {
	if run == nil {
		return nil, dao.ErrNilEntity
	}
	job := execution.NewJob(idgen.New(), run.TenantID, run.ID)
	if err := s.jobs.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}
	if err := s.queue.Publish(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to enqueue run %s: %w", run.ID, err)
	}
	return job, nil
}

// Start launches the worker pool. It is idempotent.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	for i := 0; i < s.config.WorkerCount; i++ {
		workerCtx, cancel := context.WithCancel(ctx)
		worker := &worker{
			id:       i,
			service:  s,
			ctx:      workerCtx,
			cancelFn: cancel,
		}
		s.workers = append(s.workers, worker)
		s.workerWg.Add(1)
		go worker.run()
	}
	s.started = true
	return nil
}

// Shutdown stops the workers and waits for in-flight runs to finish their
// current invocation.
func (s *Service) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	close(s.shutdownCh)
	for _, worker := range s.workers {
		worker.cancelFn()
	}
	s.workerWg.Wait()
	s.workers = nil
	s.started = false
}

// run consumes submitted jobs until the worker context is cancelled.
func (w *worker) run() {
	defer w.service.workerWg.Done()
	for {
		select {
		case <-w.service.shutdownCh:
			return
		default:
		}
		msg, err := w.service.queue.Consume(w.ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			time.Sleep(100 * time.Millisecond)
			continue
		}
		if msg == nil {
			continue
		}
		if pErr := w.service.processMessage(w.ctx, msg); pErr != nil {
			log.Printf("dispatcher worker %d: failed to process run: %v", w.id, pErr)
		}
	}
}

// processMessage drives the executor for one submitted job. A run rejected as
// no longer queued is acked rather than retried – some other invocation
// already owns it.
func (s *Service) processMessage(ctx context.Context, msg messaging.Message[execution.Job]) error {
	job := msg.T()
	if job == nil {
		return msg.Ack()
	}
	err := s.executor.Start(ctx, job.TenantID, job.RunID)
	switch {
	case err == nil, errors.Is(err, executor.ErrRunNotQueued):
		return msg.Ack()
	default:
		_ = msg.Nack(err)
		return err
	}
}
