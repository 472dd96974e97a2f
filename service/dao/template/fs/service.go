// Package fs implements a filesystem-backed template DAO. Templates live as
// YAML documents under a base URL (file, embed or any scheme afs supports)
// and are cached in memory after the first scan.
package fs

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"

	"github.com/agencykit/runway/model"
	"github.com/agencykit/runway/service/dao"
	"github.com/agencykit/runway/service/dao/criteria"
)

// Service implements dao.Service for templates stored as YAML files.
type Service struct {
	baseURL   string
	fs        afs.Service
	fsOptions []storage.Option

	mu      sync.RWMutex
	cache   map[string]*model.Template
	scanned bool
}

var _ dao.Service[string, model.Template] = (*Service)(nil)

// New creates a filesystem template DAO rooted at baseURL.
func New(baseURL string, fsOptions ...storage.Option) (*Service, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	return &Service{
		baseURL:   url.Normalize(baseURL, file.Scheme),
		fs:        afs.New(),
		fsOptions: fsOptions,
		cache:     make(map[string]*model.Template),
	}, nil
}

// Save uploads the template as YAML and refreshes the cache entry.
func (s *Service) Save(ctx context.Context, template *model.Template) error {
	if template == nil {
		return dao.ErrNilEntity
	}
	if template.ID == "" {
		return dao.ErrInvalidID
	}
	if issues := template.Validate(); len(issues) > 0 {
		return issues[0]
	}
	data, err := yaml.Marshal(template)
	if err != nil {
		return fmt.Errorf("failed to marshal template %s: %w", template.ID, err)
	}
	if err = s.fs.Upload(ctx, s.templateURL(template.ID), file.DefaultFileOsMode, bytes.NewReader(data), s.fsOptions...); err != nil {
		return fmt.Errorf("failed to save template %s: %w", template.ID, err)
	}
	s.mu.Lock()
	s.cache[template.ID] = template
	s.mu.Unlock()
	return nil
}

// Load returns a template by ID, or nil when absent.
func (s *Service) Load(ctx context.Context, id string) (*model.Template, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	if err := s.ensureScanned(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache[id], nil
}

// Delete removes the template file and cache entry.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	location := s.templateURL(id)
	if ok, _ := s.fs.Exists(ctx, location, s.fsOptions...); ok {
		if err := s.fs.Delete(ctx, location, s.fsOptions...); err != nil {
			return fmt.Errorf("failed to delete template %s: %w", id, err)
		}
	}
	s.mu.Lock()
	delete(s.cache, id)
	s.mu.Unlock()
	return nil
}

// List returns cached templates matching the criteria parameters.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Template, error) {
	if err := s.ensureScanned(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Template
	for _, template := range s.cache {
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

// Refresh drops the cache and rescans the base URL.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.cache = make(map[string]*model.Template)
	s.scanned = false
	s.mu.Unlock()
	return s.ensureScanned(ctx)
}

func (s *Service) ensureScanned(ctx context.Context) error {
	s.mu.RLock()
	scanned := s.scanned
	s.mu.RUnlock()
	if scanned {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scanned {
		return nil
	}
	objects, err := s.fs.List(ctx, s.baseURL, append([]storage.Option{option.NewRecursive(true)}, s.fsOptions...)...)
	if err != nil {
		return fmt.Errorf("failed to list templates at %s: %w", s.baseURL, err)
	}
	for _, object := range objects {
		if object.IsDir() || !isYAML(object.Name()) {
			continue
		}
		data, err := s.fs.Download(ctx, object, s.fsOptions...)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", object.URL(), err)
		}
		template := &model.Template{}
		if err = yaml.Unmarshal(data, template); err != nil {
			return fmt.Errorf("failed to parse template %s: %w", object.URL(), err)
		}
		if template.ID == "" {
			template.ID = templateID(object.Name())
		}
		if template.Name == "" {
			template.Name = template.ID
		}
		s.cache[template.ID] = template
	}
	s.scanned = true
	return nil
}

func (s *Service) templateURL(id string) string {
	return url.Join(s.baseURL, id+".yaml")
}

func isYAML(name string) bool {
	ext := path.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}

func templateID(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}
