package memory

import (
	"context"
	"errors"

	"github.com/agencykit/runway/internal/clock"
	"github.com/agencykit/runway/internal/idgen"
	"github.com/agencykit/runway/service/approval"
	"github.com/agencykit/runway/service/dao"
	"github.com/agencykit/runway/service/dao/store"
	"github.com/agencykit/runway/service/messaging"
	qmem "github.com/agencykit/runway/service/messaging/memory"
)

type service struct {
	requests *store.MemoryStore[string, approval.Request]
	events   messaging.Queue[approval.Event]
}

func requestKey(r *approval.Request) string { return r.ID }

// New creates an in-memory approval service.
func New(options ...Option) approval.Service {
	ret := &service{
		requests: store.NewMemoryStore[string, approval.Request](requestKey),
		events:   qmem.NewQueue[approval.Event](qmem.DefaultConfig()),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

func (s *service) Request(ctx context.Context, r *approval.Request) error {
	if r == nil {
		return dao.ErrNilEntity
	}
	if r.ID == "" {
		r.ID = idgen.New()
	}
	if r.Status == "" {
		r.Status = approval.StatusPending
	}
	if r.RequestedAt.IsZero() {
		r.RequestedAt = clock.Now()
	}
	if err := s.requests.Save(ctx, r); err != nil {
		return err
	}
	_ = s.events.Publish(ctx, &approval.Event{Topic: approval.TopicRequestCreated, Data: snapshot(r)})
	return nil
}

func (s *service) ListPending(ctx context.Context) ([]*approval.Request, error) {
	all, err := s.requests.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []*approval.Request
	for _, request := range all {
		if request.Pending() {
			out = append(out, request)
		}
	}
	return out, nil
}

func (s *service) Approve(ctx context.Context, id, approverID string) (*approval.Request, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	request, err := s.requests.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, dao.ErrNotFound
	}
	if !request.Pending() {
		return request, nil
	}
	request.Status = approval.StatusApproved
	request.DecidedAt = clock.NowPtr()
	request.DecidedBy = approverID
	if err := s.requests.Save(ctx, request); err != nil {
		return nil, err
	}
	_ = s.events.Publish(ctx, &approval.Event{Topic: approval.TopicDecisionCreated, Data: snapshot(request)})
	return request, nil
}

func (s *service) Queue() messaging.Queue[approval.Event] {
	return s.events
}

// snapshot copies the request so queue consumers never observe later
// mutations.
func snapshot(r *approval.Request) *approval.Request {
	if r == nil {
		return nil
	}
	out := *r
	return &out
}

// IsNotFound reports whether the error denotes a missing request.
func IsNotFound(err error) bool {
	return errors.Is(err, dao.ErrNotFound)
}

var _ approval.Service = (*service)(nil)
