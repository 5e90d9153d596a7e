package stats

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/har/har/internal/domain/catalog"
	"github.com/har/har/internal/domain/daily"
	"github.com/har/har/internal/domain/weekly"
	"github.com/har/har/internal/platform/report"
)

type mockServiceRepo struct {
	services []*catalog.Service
}

func (m *mockServiceRepo) GetByID(_ context.Context, id string) (*catalog.Service, error) {
	for _, s := range m.services {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockServiceRepo) List(_ context.Context) ([]*catalog.Service, error) {
	return m.services, nil
}

type mockDailyRepo struct {
	reports []*daily.DailyReport
}

func (m *mockDailyRepo) GetByKey(_ context.Context, _ string, _ time.Time, _ *time.Time) (*daily.DailyReport, error) {
	return nil, daily.ErrNotFound
}

func (m *mockDailyRepo) GetByDate(_ context.Context, _ string, _ time.Time) (*daily.DailyReport, error) {
	return nil, daily.ErrNotFound
}

func (m *mockDailyRepo) Upsert(_ context.Context, d *daily.DailyReport) error {
	m.reports = append(m.reports, d)
	return nil
}

// ListRange applies limit and offset like the real repository so that callers
// which page through a large range are exercised for real.
func (m *mockDailyRepo) ListRange(_ context.Context, serviceID string, from, to time.Time, limit, offset int) ([]*daily.DailyReport, int, error) {
	var r []*daily.DailyReport
	for _, d := range m.reports {
		if serviceID != "" && d.ServiceID != serviceID {
			continue
		}
		if d.Date.Before(from) || d.Date.After(to) {
			continue
		}
		r = append(r, d)
	}
	sort.Slice(r, func(i, j int) bool { return r[i].Date.After(r[j].Date) })
	total := len(r)
	if offset >= len(r) {
		return nil, total, nil
	}
	r = r[offset:]
	if len(r) > limit {
		r = r[:limit]
	}
	return r, total, nil
}

type mockWeeklyRepo struct {
	reports []*weekly.WeeklyReport
}

func (m *mockWeeklyRepo) Create(_ context.Context, w *weekly.WeeklyReport) error {
	m.reports = append(m.reports, w)
	return nil
}

func (m *mockWeeklyRepo) Update(_ context.Context, _ *weekly.WeeklyReport) error {
	return nil
}

func (m *mockWeeklyRepo) GetByID(_ context.Context, _ uuid.UUID) (*weekly.WeeklyReport, error) {
	return nil, weekly.ErrNotFound
}

func (m *mockWeeklyRepo) GetByWeek(_ context.Context, _ string, _ time.Time) (*weekly.WeeklyReport, error) {
	return nil, weekly.ErrNotFound
}

func (m *mockWeeklyRepo) List(_ context.Context, f weekly.Filter, limit, offset int) ([]*weekly.WeeklyReport, int, error) {
	var r []*weekly.WeeklyReport
	for _, w := range m.reports {
		if f.Status != "" && w.Status != f.Status {
			continue
		}
		r = append(r, w)
	}
	total := len(r)
	if len(r) > limit {
		r = r[:limit]
	}
	return r, total, nil
}

func date(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func newTestService() (*Service, *mockDailyRepo, *mockWeeklyRepo) {
	services := &mockServiceRepo{services: []*catalog.Service{
		{ID: "medecine", Name: "Médecine Générale", HasBeds: true, BedCapacity: 20},
		{ID: "dispensaire", Name: "Dispensaire", HasBeds: false},
	}}
	dailies := &mockDailyRepo{}
	weeklies := &mockWeeklyRepo{}
	return NewService(services, dailies, weeklies), dailies, weeklies
}

func TestOverview_SumsPerService(t *testing.T) {
	svc, dailies, _ := newTestService()
	dailies.reports = []*daily.DailyReport{
		{ServiceID: "medecine", Date: date("2026-03-02"), Data: report.Data{
			Movements:     &report.Movements{EffectifDebut: 10, Admissions: 3, Sorties: report.Sorties{Domicile: 2, Deces: 1}, EffectifFin: 10},
			Consultations: map[string]int{"generale": 5},
			Actes:         map[string]int{"pansement": 2},
		}},
		{ServiceID: "medecine", Date: date("2026-03-03"), Data: report.Data{
			Movements:     &report.Movements{EffectifDebut: 10, Admissions: 2, EffectifFin: 10},
			Consultations: map[string]int{"generale": 4},
		}},
		{ServiceID: "dispensaire", Date: date("2026-03-02"), Data: report.Data{
			Consultations: map[string]int{"generale": 7},
		}},
	}

	o, err := svc.Overview(context.Background(), date("2026-03-01"), date("2026-03-07"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(o.Services) != 2 {
		t.Fatalf("expected 2 services, got %d", len(o.Services))
	}

	var med ServiceTotals
	for _, s := range o.Services {
		if s.ServiceID == "medecine" {
			med = s
		}
	}
	if med.Admissions != 5 {
		t.Errorf("expected 5 admissions, got %d", med.Admissions)
	}
	if med.Sorties != 3 {
		t.Errorf("expected 3 sorties, got %d", med.Sorties)
	}
	if med.Deces != 1 {
		t.Errorf("expected 1 deces, got %d", med.Deces)
	}
	if med.Consultations != 9 {
		t.Errorf("expected 9 consultations, got %d", med.Consultations)
	}
	if med.Actes != 2 {
		t.Errorf("expected 2 actes, got %d", med.Actes)
	}
	if med.DaysReported != 2 {
		t.Errorf("expected 2 days, got %d", med.DaysReported)
	}
	if med.MeanOccupancy == nil || *med.MeanOccupancy != 50 {
		t.Errorf("expected mean occupancy 50, got %v", med.MeanOccupancy)
	}
}

func TestOverview_PagesThroughLongRanges(t *testing.T) {
	svc, dailies, _ := newTestService()
	// A year of daily reports plus overnight entries exceeds any single page.
	start := date("2025-03-01")
	for i := 0; i < 450; i++ {
		dailies.reports = append(dailies.reports, &daily.DailyReport{
			ServiceID: "medecine",
			Date:      start.AddDate(0, 0, i%400).Add(time.Duration(i) * time.Second),
			Data:      report.Data{Consultations: map[string]int{"generale": 1}},
		})
	}

	o, err := svc.Overview(context.Background(), date("2025-03-01"), date("2026-04-30"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var med ServiceTotals
	for _, s := range o.Services {
		if s.ServiceID == "medecine" {
			med = s
		}
	}
	if med.Consultations != 450 {
		t.Errorf("expected 450 consultations, got %d", med.Consultations)
	}
	if med.DaysReported != 450 {
		t.Errorf("expected 450 reports counted, got %d", med.DaysReported)
	}
}

func TestOverview_NoOccupancyWithoutBeds(t *testing.T) {
	svc, dailies, _ := newTestService()
	dailies.reports = []*daily.DailyReport{
		{ServiceID: "dispensaire", Date: date("2026-03-02"), Data: report.Data{
			Consultations: map[string]int{"generale": 7},
		}},
	}
	o, err := svc.Overview(context.Background(), date("2026-03-01"), date("2026-03-07"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range o.Services {
		if s.ServiceID == "dispensaire" && s.MeanOccupancy != nil {
			t.Errorf("expected no occupancy for bedless service, got %d", *s.MeanOccupancy)
		}
	}
}

func TestOverview_WeeklyStatusCounts(t *testing.T) {
	svc, _, weeklies := newTestService()
	weeklies.reports = []*weekly.WeeklyReport{
		{Status: report.StatusTransmitted},
		{Status: report.StatusTransmitted},
		{Status: report.StatusValidatedChief},
	}
	o, err := svc.Overview(context.Background(), date("2026-03-01"), date("2026-03-07"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.WeeklyStatusCounts["transmitted_to_chief"] != 2 {
		t.Errorf("expected 2 transmitted, got %d", o.WeeklyStatusCounts["transmitted_to_chief"])
	}
	if o.WeeklyStatusCounts["validated_by_chief"] != 1 {
		t.Errorf("expected 1 chief-validated, got %d", o.WeeklyStatusCounts["validated_by_chief"])
	}
}

func TestOverview_InvalidRange(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Overview(context.Background(), date("2026-03-07"), date("2026-03-01")); err == nil {
		t.Fatal("expected error for inverted range")
	}
}
