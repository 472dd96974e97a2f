// Package fs implements a filesystem-backed run DAO. Each run is persisted as
// one JSON document under a base URL, which makes a finished run inspectable
// with nothing more than cat.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"

	"github.com/agencykit/runway/runtime/execution"
	"github.com/agencykit/runway/service/dao"
	"github.com/agencykit/runway/service/dao/criteria"
)

// Service implements dao.Service for runs stored as JSON files.
type Service struct {
	baseURL string
	fs      afs.Service
	mu      sync.RWMutex
}

var _ dao.Service[string, execution.Run] = (*Service)(nil)

// New creates a filesystem run DAO rooted at baseURL, creating the directory
// when missing.
func New(baseURL string) (*Service, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	fs := afs.New()
	ctx := context.Background()
	if ok, _ := fs.Exists(ctx, baseURL); !ok {
		if err := fs.Create(ctx, baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create run store at %s: %w", baseURL, err)
		}
	}
	return &Service{
		baseURL: url.Normalize(baseURL, file.Scheme),
		fs:      fs,
	}, nil
}

// Save persists a run snapshot.
func (s *Service) Save(ctx context.Context, run *execution.Run) error {
	if run == nil {
		return dao.ErrNilEntity
	}
	if run.ID == "" {
		return dao.ErrInvalidID
	}
	data, err := json.Marshal(run.Clone())
	if err != nil {
		return fmt.Errorf("failed to marshal run %s: %w", run.ID, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err = s.fs.Upload(ctx, s.runURL(run.ID), file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}
	return nil
}

// Load returns a run by ID, or nil when absent.
func (s *Service) Load(ctx context.Context, id string) (*execution.Run, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	location := s.runURL(id)
	if ok, _ := s.fs.Exists(ctx, location); !ok {
		return nil, nil
	}
	data, err := s.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read run %s: %w", id, err)
	}
	run := &execution.Run{}
	if err = json.Unmarshal(data, run); err != nil {
		return nil, fmt.Errorf("failed to parse run %s: %w", id, err)
	}
	return run, nil
}

// Delete removes a run document.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	location := s.runURL(id)
	if ok, _ := s.fs.Exists(ctx, location); !ok {
		return nil
	}
	if err := s.fs.Delete(ctx, location); err != nil {
		return fmt.Errorf("failed to delete run %s: %w", id, err)
	}
	return nil
}

// List returns runs matching the criteria parameters.
// Supported criteria: ID, TenantID, TemplateID, State.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*execution.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	objects, err := s.fs.List(ctx, s.baseURL, option.NewRecursive(true))
	if err != nil {
		return nil, fmt.Errorf("failed to list runs at %s: %w", s.baseURL, err)
	}
	var out []*execution.Run
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			continue
		}
		run := &execution.Run{}
		if err = json.Unmarshal(data, run); err != nil {
			continue
		}
		fields := map[string]string{
			"ID":         run.ID,
			"TenantID":   run.TenantID,
			"TemplateID": run.TemplateID,
			"State":      run.State,
		}
		if criteria.Matches(parameters, fields) {
			out = append(out, run)
		}
	}
	return out, nil
}

func (s *Service) runURL(id string) string {
	return url.Join(s.baseURL, path.Clean(id)+".json")
}
