// Package memory provides an in-memory job DAO.
package memory

import (
	"context"

	"github.com/agencykit/runway/runtime/execution"
	"github.com/agencykit/runway/service/dao"
	"github.com/agencykit/runway/service/dao/criteria"
	"github.com/agencykit/runway/service/dao/store"
)

type service struct {
	*store.MemoryStore[string, execution.Job]
}

// New creates an in-memory job DAO.
func New() dao.Service[string, execution.Job] {
	return &service{
		MemoryStore: store.NewMemoryStore[string, execution.Job](func(j *execution.Job) string {
			return j.ID
		}),
	}
}

// List returns jobs matching the criteria parameters, in insertion order.
// Supported criteria: ID, TenantID, RunID, Kind, State.
func (s *service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*execution.Job, error) {
	all, err := s.MemoryStore.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(parameters) == 0 {
		return all, nil
	}
	var out []*execution.Job
	for _, job := range all {
		fields := map[string]string{
			"ID":       job.ID,
			"TenantID": job.TenantID,
			"RunID":    job.RunID,
			"Kind":     job.Kind,
			"State":    job.GetState(),
		}
		if criteria.Matches(parameters, fields) {
			out = append(out, job)
		}
	}
	return out, nil
}

var _ dao.Service[string, execution.Job] = (*service)(nil)
