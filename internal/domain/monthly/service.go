package monthly

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/har/har/internal/domain/catalog"
	"github.com/har/har/internal/domain/daily"
	"github.com/har/har/internal/platform/auth"
	"github.com/har/har/internal/platform/report"
)

// Options tune the monthly aggregation.
type Options struct {
	// HeadcountSnapshot applies the weekly first/last headcount correction to
	// the monthly sum as well. Off by default: the monthly report historically
	// carries the raw sum.
	HeadcountSnapshot bool
}

type Service struct {
	reports  Repository
	dailies  daily.Repository
	services catalog.ServiceRepository
	opts     Options
}

func NewService(reports Repository, dailies daily.Repository, services catalog.ServiceRepository, opts Options) *Service {
	return &Service{reports: reports, dailies: dailies, services: services, opts: opts}
}

// GetOrGenerate returns the stored report when it has been validated (frozen),
// and otherwise recomputes the aggregate from the month's daily reports.
// Observations typed by hand into a pending draft survive the recomputation.
func (s *Service) GetOrGenerate(ctx context.Context, serviceID string, year int, month time.Month) (*MonthlyReport, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("invalid month: %d", month)
	}

	stored, err := s.reports.GetByMonth(ctx, serviceID, year, month)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if stored != nil && stored.Validated() {
		return stored, nil
	}

	generated, err := s.generate(ctx, serviceID, year, month)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		generated.ID = stored.ID
		generated.Status = stored.Status
		generated.CreatedAt = stored.CreatedAt
		keepManualObservations(generated, stored)
	}
	return generated, nil
}

// keepManualObservations carries a pending draft's hand-edited narrative over
// the freshly stamped one.
func keepManualObservations(generated, stored *MonthlyReport) {
	if stored.Data.Observations.Pannes != "" {
		generated.Data.Observations.Pannes = stored.Data.Observations.Pannes
	}
	if stored.Data.Observations.General != "" {
		generated.Data.Observations.General = stored.Data.Observations.General
	}
}

func (s *Service) generate(ctx context.Context, serviceID string, year int, month time.Month) (*MonthlyReport, error) {
	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("unknown service: %s", serviceID)
	}

	start, end := report.MonthBounds(year, month)
	days, err := daily.ListRangeAll(ctx, s.dailies, serviceID, start, end)
	if err != nil {
		return nil, fmt.Errorf("aggregate %d-%02d: %w", year, month, err)
	}

	entries := make([]report.DayEntry, 0, len(days))
	for _, d := range days {
		entries = append(entries, report.DayEntry{Date: d.Date, Data: &d.Data})
	}
	data := report.Combine(entries, report.CombineOptions{
		HeadcountSnapshot: s.opts.HeadcountSnapshot,
		StampObservations: true,
	})
	if svc.HasBeds {
		data.TauxOccupation = report.Occupancy(data, svc.BedCapacity)
	}

	return &MonthlyReport{
		ServiceID:         serviceID,
		Year:              year,
		Month:             month,
		DailyReportsCount: len(entries),
		Data:              *data,
		Status:            report.StatusDraft,
	}, nil
}

// Save upserts a draft. A validated month is frozen and cannot be overwritten.
func (s *Service) Save(ctx context.Context, m *MonthlyReport) error {
	if m.ServiceID == "" {
		return fmt.Errorf("serviceId is required")
	}
	if m.Month < time.January || m.Month > time.December {
		return fmt.Errorf("invalid month: %d", m.Month)
	}
	if _, err := s.services.GetByID(ctx, m.ServiceID); err != nil {
		return fmt.Errorf("unknown service: %s", m.ServiceID)
	}

	stored, err := s.reports.GetByMonth(ctx, m.ServiceID, m.Year, m.Month)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if stored != nil {
		if stored.Validated() {
			return report.ErrTerminalStatus
		}
		m.ID = stored.ID
		m.CreatedAt = stored.CreatedAt
	}
	if m.Status == "" {
		m.Status = report.StatusDraft
	}
	return s.reports.Upsert(ctx, m)
}

// Validate freezes the month on behalf of the service's chef. The report is
// generated first when nothing is stored yet.
func (s *Service) Validate(ctx context.Context, actor auth.Actor, serviceID string, year int, month time.Month) (*MonthlyReport, error) {
	if !actor.HasRole(report.RoleAdmin) {
		if !actor.HasRole(report.RoleChief) {
			return nil, report.ErrRoleNotAllowed
		}
		if actor.ServiceID != serviceID {
			return nil, report.ErrRoleNotAllowed
		}
	}

	m, err := s.GetOrGenerate(ctx, serviceID, year, month)
	if err != nil {
		return nil, err
	}
	if m.Validated() {
		return nil, report.ErrTerminalStatus
	}

	now := time.Now()
	m.Status = report.StatusValidatedChief
	m.ValidatedAt = &now
	m.ValidatedBy = actor.DisplayName()
	if err := s.reports.Upsert(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) ListYear(ctx context.Context, serviceID string, year int) ([]*MonthlyReport, error) {
	return s.reports.ListYear(ctx, serviceID, year)
}
