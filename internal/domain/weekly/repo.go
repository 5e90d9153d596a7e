package weekly

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository stores weekly reports keyed by id, unique per (service, week).
type Repository interface {
	Create(ctx context.Context, r *WeeklyReport) error
	Update(ctx context.Context, r *WeeklyReport) error
	// GetByID returns ErrNotFound when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*WeeklyReport, error)
	// GetByWeek fetches the report for the week starting at weekStart.
	// Returns ErrNotFound when absent.
	GetByWeek(ctx context.Context, serviceID string, weekStart time.Time) (*WeeklyReport, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]*WeeklyReport, int, error)
}
