package catalog

import "context"

// ServiceRepository provides read access to the service reference table.
type ServiceRepository interface {
	GetByID(ctx context.Context, id string) (*Service, error)
	List(ctx context.Context) ([]*Service, error)
}

// ConfigRepository stores per-service form configuration.
type ConfigRepository interface {
	Get(ctx context.Context, serviceID string) (*ServiceConfig, error)
	Put(ctx context.Context, cfg *ServiceConfig) error
}
