package weekly

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/har/har/internal/domain/catalog"
	"github.com/har/har/internal/domain/daily"
	"github.com/har/har/internal/platform/report"
)

// Compiler builds weekly aggregates from stored daily reports.
type Compiler struct {
	dailies  daily.Repository
	services catalog.ServiceRepository
}

func NewCompiler(dailies daily.Repository, services catalog.ServiceRepository) *Compiler {
	return &Compiler{dailies: dailies, services: services}
}

// Compile aggregates the ISO week containing anyDay for the given service.
// The 7 days are fetched concurrently and reassembled by day index; days
// without a report are skipped. Any fetch failure other than a missing day
// aborts the compilation with no partial result.
func (c *Compiler) Compile(ctx context.Context, serviceID string, anyDay time.Time) (*WeeklyReport, error) {
	svc, err := c.services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("unknown service: %s", serviceID)
	}

	weekStart, weekEnd := report.WeekBounds(anyDay)
	days := make([]*daily.DailyReport, 7)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 7; i++ {
		i := i
		date := weekStart.AddDate(0, 0, i)
		g.Go(func() error {
			d, err := c.dailies.GetByDate(gctx, serviceID, date)
			if errors.Is(err, daily.ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("fetch %s: %w", date.Format("2006-01-02"), err)
			}
			days[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("compile week of %s: %w", weekStart.Format("2006-01-02"), err)
	}

	var entries []report.DayEntry
	for i, d := range days {
		if d != nil {
			entries = append(entries, report.DayEntry{Date: weekStart.AddDate(0, 0, i), Data: &d.Data})
		}
	}

	data := report.Combine(entries, report.CombineOptions{HeadcountSnapshot: true})
	if svc.HasBeds {
		data.TauxOccupation = report.Occupancy(data, svc.BedCapacity)
	}

	year, week := weekStart.ISOWeek()
	return &WeeklyReport{
		ServiceID:         serviceID,
		WeekStart:         weekStart,
		WeekEnd:           weekEnd,
		Year:              year,
		Week:              week,
		DailyReportsCount: len(entries),
		Data:              *data,
		Status:            report.StatusDraft,
	}, nil
}
