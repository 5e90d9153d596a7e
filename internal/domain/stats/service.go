package stats

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/har/har/internal/domain/catalog"
	"github.com/har/har/internal/domain/daily"
	"github.com/har/har/internal/domain/weekly"
	"github.com/har/har/internal/platform/report"
)

type Service struct {
	services catalog.ServiceRepository
	dailies  daily.Repository
	weeklies weekly.Repository
}

func NewService(services catalog.ServiceRepository, dailies daily.Repository, weeklies weekly.Repository) *Service {
	return &Service{services: services, dailies: dailies, weeklies: weeklies}
}

// Overview aggregates every service's activity over [from, to] together with
// the validation pipeline's status counts.
func (s *Service) Overview(ctx context.Context, from, to time.Time) (*Overview, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("invalid range: to precedes from")
	}

	services, err := s.services.List(ctx)
	if err != nil {
		return nil, err
	}

	o := &Overview{From: from, To: to, WeeklyStatusCounts: map[string]int{}}
	for _, svc := range services {
		totals, err := s.serviceTotals(ctx, svc, from, to)
		if err != nil {
			return nil, fmt.Errorf("totals for %s: %w", svc.ID, err)
		}
		o.Services = append(o.Services, *totals)
	}

	for _, st := range []report.Status{
		report.StatusDraft, report.StatusTransmitted, report.StatusValidatedChief,
		report.StatusValidatedDirection, report.StatusRejected,
	} {
		_, total, err := s.weeklies.List(ctx, weekly.Filter{Status: st}, 1, 0)
		if err != nil {
			return nil, fmt.Errorf("status counts: %w", err)
		}
		o.WeeklyStatusCounts[string(st)] = total
	}
	return o, nil
}

func (s *Service) serviceTotals(ctx context.Context, svc *catalog.Service, from, to time.Time) (*ServiceTotals, error) {
	days, err := daily.ListRangeAll(ctx, s.dailies, svc.ID, from, to)
	if err != nil {
		return nil, err
	}

	totals := &ServiceTotals{ServiceID: svc.ID, ServiceName: svc.Name, DaysReported: len(days)}
	var occSum, occDays int
	for _, d := range days {
		if m := d.Data.Movements; m != nil {
			totals.Admissions += m.Admissions
			totals.Sorties += m.Sorties.Total()
			totals.Deces += m.Sorties.Deces
			if occ := report.Occupancy(&d.Data, svc.BedCapacity); occ != nil {
				occSum += *occ
				occDays++
			}
		}
		for _, n := range d.Data.Consultations {
			totals.Consultations += n
		}
		for _, n := range d.Data.Actes {
			totals.Actes += n
		}
	}
	if svc.HasBeds && occDays > 0 {
		mean := int(math.Round(float64(occSum) / float64(occDays)))
		totals.MeanOccupancy = &mean
	}
	return totals, nil
}
