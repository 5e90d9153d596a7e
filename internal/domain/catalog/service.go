package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type CatalogService struct {
	services ServiceRepository
	configs  ConfigRepository
}

func NewCatalogService(services ServiceRepository, configs ConfigRepository) *CatalogService {
	return &CatalogService{services: services, configs: configs}
}

func (s *CatalogService) GetService(ctx context.Context, id string) (*Service, error) {
	return s.services.GetByID(ctx, id)
}

func (s *CatalogService) ListServices(ctx context.Context) ([]*Service, error) {
	return s.services.List(ctx)
}

func (s *CatalogService) GetConfig(ctx context.Context, serviceID string) (*ServiceConfig, error) {
	if _, err := s.services.GetByID(ctx, serviceID); err != nil {
		return nil, fmt.Errorf("unknown service: %s", serviceID)
	}
	return s.configs.Get(ctx, serviceID)
}

// SaveConfig validates and persists a service's form configuration.
// Custom fields outside the number/text/boolean set are rejected; fields
// without an id are assigned one.
func (s *CatalogService) SaveConfig(ctx context.Context, cfg *ServiceConfig) error {
	if cfg.ServiceID == "" {
		return fmt.Errorf("service_id is required")
	}
	if _, err := s.services.GetByID(ctx, cfg.ServiceID); err != nil {
		return fmt.Errorf("unknown service: %s", cfg.ServiceID)
	}
	for i := range cfg.CustomFields {
		f := &cfg.CustomFields[i]
		if strings.TrimSpace(f.Label) == "" {
			return fmt.Errorf("custom field label is required")
		}
		if !f.Type.Valid() {
			return fmt.Errorf("invalid custom field type: %s", f.Type)
		}
		if f.ID == "" {
			f.ID = uuid.NewString()
		}
	}
	if cfg.LabelOverrides == nil {
		cfg.LabelOverrides = map[string]string{}
	}
	if cfg.HiddenFields == nil {
		cfg.HiddenFields = []string{}
	}
	if cfg.CustomFields == nil {
		cfg.CustomFields = []CustomField{}
	}
	return s.configs.Put(ctx, cfg)
}
