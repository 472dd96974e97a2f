// Package memory provides an in-memory template DAO.
package memory

import (
	"context"

	"github.com/agencykit/runway/model"
	"github.com/agencykit/runway/service/dao"
	"github.com/agencykit/runway/service/dao/criteria"
	"github.com/agencykit/runway/service/dao/store"
)

type service struct {
	*store.MemoryStore[string, model.Template]
}

// New creates an in-memory template DAO.
func New() dao.Service[string, model.Template] {
	return &service{
		MemoryStore: store.NewMemoryStore[string, model.Template](func(t *model.Template) string {
			return t.ID
		}),
	}
}

// List returns templates matching the criteria parameters, in insertion order.
func (s *service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Template, error) {
	all, err := s.MemoryStore.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(parameters) == 0 {
		return all, nil
	}
	var out []*model.Template
	for _, template := range all {
		fields := map[string]string{
			"ID":       template.ID,
			"TenantID": template.TenantID,
			"Name":     template.Name,
		}
		if criteria.Matches(parameters, fields) {
			out = append(out, template)
		}
	}
	return out, nil
}

var _ dao.Service[string, model.Template] = (*service)(nil)
