// Package memory provides an in-memory run DAO.
package memory

import (
	"context"

	"github.com/agencykit/runway/runtime/execution"
	"github.com/agencykit/runway/service/dao"
	"github.com/agencykit/runway/service/dao/criteria"
	"github.com/agencykit/runway/service/dao/store"
)

type service struct {
	*store.MemoryStore[string, execution.Run]
}

// New creates an in-memory run DAO.
func New() dao.Service[string, execution.Run] {
	return &service{
		MemoryStore: store.NewMemoryStore[string, execution.Run](func(r *execution.Run) string {
			return r.ID
		}),
	}
}

// List returns runs matching the criteria parameters, in insertion order.
// Supported criteria: ID, TenantID, TemplateID, State.
func (s *service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*execution.Run, error) {
	all, err := s.MemoryStore.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(parameters) == 0 {
		return all, nil
	}
	var out []*execution.Run
	for _, run := range all {
		fields := map[string]string{
			"ID":         run.ID,
			"TenantID":   run.TenantID,
			"TemplateID": run.TemplateID,
			"State":      run.GetState(),
		}
		if criteria.Matches(parameters, fields) {
			out = append(out, run)
		}
	}
	return out, nil
}

var _ dao.Service[string, execution.Run] = (*service)(nil)
