package daily

import (
	"context"
	"fmt"
	"time"

	"github.com/har/har/internal/domain/catalog"
)

type Service struct {
	reports  Repository
	services catalog.ServiceRepository
}

func NewService(reports Repository, services catalog.ServiceRepository) *Service {
	return &Service{reports: reports, services: services}
}

// Save validates and upserts a daily report. Saving the same
// (service, date, dateEnd) key again overwrites the stored figures.
func (s *Service) Save(ctx context.Context, d *DailyReport) error {
	if d.ServiceID == "" {
		return fmt.Errorf("serviceId is required")
	}
	if d.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if _, err := s.services.GetByID(ctx, d.ServiceID); err != nil {
		return fmt.Errorf("unknown service: %s", d.ServiceID)
	}
	d.Date = Day(d.Date)
	if d.DateEnd != nil {
		end := Day(*d.DateEnd)
		if end.Before(d.Date) {
			return fmt.Errorf("dateEnd %s precedes date %s",
				end.Format("2006-01-02"), d.Date.Format("2006-01-02"))
		}
		if end.Equal(d.Date) {
			d.DateEnd = nil
		} else {
			d.DateEnd = &end
		}
	}
	return s.reports.Upsert(ctx, d)
}

func (s *Service) Get(ctx context.Context, serviceID string, date time.Time, dateEnd *time.Time) (*DailyReport, error) {
	return s.reports.GetByKey(ctx, serviceID, Day(date), dateEnd)
}

func (s *Service) ListRange(ctx context.Context, serviceID string, from, to time.Time, limit, offset int) ([]*DailyReport, int, error) {
	if to.Before(from) {
		return nil, 0, fmt.Errorf("invalid range: to precedes from")
	}
	return s.reports.ListRange(ctx, serviceID, Day(from), Day(to), limit, offset)
}
