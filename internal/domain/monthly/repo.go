package monthly

import (
	"context"
	"time"
)

// Repository stores monthly reports, unique per (service, year, month).
type Repository interface {
	// GetByMonth returns ErrNotFound when absent.
	GetByMonth(ctx context.Context, serviceID string, year int, month time.Month) (*MonthlyReport, error)
	Upsert(ctx context.Context, r *MonthlyReport) error
	// ListYear returns the stored reports of a service for one year, in month
	// order.
	ListYear(ctx context.Context, serviceID string, year int) ([]*MonthlyReport, error)
}
