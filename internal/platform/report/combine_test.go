package report

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCombine_Empty(t *testing.T) {
	got := Combine(nil, CombineOptions{HeadcountSnapshot: true})
	if got == nil {
		t.Fatal("expected a zero aggregate, got nil")
	}
	if got.Movements != nil || len(got.Consultations) != 0 {
		t.Error("empty input should produce an all-zero aggregate")
	}
}

func TestCombine_HeadcountSnapshot(t *testing.T) {
	// Monday 10, Wednesday 14; Tuesday missing. Start must be Monday's,
	// end must be Wednesday's, regardless of input order.
	entries := []DayEntry{
		{Date: day("2025-01-08"), Data: &Data{Movements: &Movements{EffectifDebut: 14, EffectifFin: 12}}},
		{Date: day("2025-01-06"), Data: &Data{Movements: &Movements{EffectifDebut: 10, EffectifFin: 13}}},
	}
	got := Combine(entries, CombineOptions{HeadcountSnapshot: true})
	if got.Movements.EffectifDebut != 10 {
		t.Errorf("expected effectifDebut 10, got %d", got.Movements.EffectifDebut)
	}
	if got.Movements.EffectifFin != 12 {
		t.Errorf("expected effectifFin 12, got %d", got.Movements.EffectifFin)
	}
}

func TestCombine_NoSnapshotSumsHeadcounts(t *testing.T) {
	entries := []DayEntry{
		{Date: day("2025-01-06"), Data: &Data{Movements: &Movements{EffectifDebut: 10, EffectifFin: 13}}},
		{Date: day("2025-01-07"), Data: &Data{Movements: &Movements{EffectifDebut: 13, EffectifFin: 12}}},
	}
	got := Combine(entries, CombineOptions{})
	if got.Movements.EffectifDebut != 23 {
		t.Errorf("expected raw sum 23, got %d", got.Movements.EffectifDebut)
	}
}

func TestCombine_ObservationOrder(t *testing.T) {
	entries := []DayEntry{
		{Date: day("2025-01-08"), Data: &Data{Observations: Observations{Pannes: "RAS"}}},
		{Date: day("2025-01-06"), Data: &Data{Observations: Observations{Pannes: "Panne climatiseur"}}},
		{Date: day("2025-01-07"), Data: &Data{Observations: Observations{Pannes: "  "}}},
	}
	got := Combine(entries, CombineOptions{})
	if got.Observations.Pannes != "Panne climatiseur\nRAS" {
		t.Errorf("unexpected concat: %q", got.Observations.Pannes)
	}
}

func TestCombine_StampObservations(t *testing.T) {
	entries := []DayEntry{
		{Date: day("2025-03-02"), Data: &Data{Observations: Observations{General: "Garde agitée"}}},
		{Date: day("2025-03-01"), Data: &Data{Observations: Observations{General: "RAS"}}},
	}
	got := Combine(entries, CombineOptions{StampObservations: true})
	want := "01/03 - RAS\n02/03 - Garde agitée"
	if got.Observations.General != want {
		t.Errorf("expected %q, got %q", want, got.Observations.General)
	}
}

func TestCombine_StampDoesNotMutateInput(t *testing.T) {
	src := &Data{Observations: Observations{General: "RAS"}}
	Combine([]DayEntry{{Date: day("2025-03-01"), Data: src}}, CombineOptions{StampObservations: true})
	if src.Observations.General != "RAS" {
		t.Errorf("input payload was mutated: %q", src.Observations.General)
	}
}

func TestOccupancy(t *testing.T) {
	data := &Data{Movements: &Movements{EffectifDebut: 8, EffectifFin: 12}}
	got := Occupancy(data, 10)
	if got == nil || *got != 100 {
		t.Fatalf("expected 100, got %v", got)
	}
}

func TestOccupancy_NoCapacity(t *testing.T) {
	data := &Data{Movements: &Movements{EffectifDebut: 8, EffectifFin: 12}}
	if Occupancy(data, 0) != nil {
		t.Error("expected nil without bed capacity")
	}
	if Occupancy(&Data{}, 10) != nil {
		t.Error("expected nil without hospitalization figures")
	}
}

func TestOccupancy_Rounds(t *testing.T) {
	data := &Data{Movements: &Movements{EffectifDebut: 7, EffectifFin: 8}}
	got := Occupancy(data, 10)
	if got == nil || *got != 75 {
		t.Fatalf("expected 75, got %v", got)
	}
}

func TestWeekBounds(t *testing.T) {
	// 2025-01-08 is a Wednesday; its ISO week runs Mon 06 → Sun 12.
	start, end := WeekBounds(day("2025-01-08"))
	if start.Format("2006-01-02") != "2025-01-06" {
		t.Errorf("expected week start 2025-01-06, got %s", start.Format("2006-01-02"))
	}
	if end.Format("2006-01-02") != "2025-01-12" {
		t.Errorf("expected week end 2025-01-12, got %s", end.Format("2006-01-02"))
	}
}

func TestWeekBounds_SundayBelongsToPrecedingMonday(t *testing.T) {
	start, _ := WeekBounds(day("2025-01-12"))
	if start.Format("2006-01-02") != "2025-01-06" {
		t.Errorf("expected 2025-01-06, got %s", start.Format("2006-01-02"))
	}
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds(2024, time.February)
	if start.Day() != 1 || end.Day() != 29 {
		t.Errorf("expected 1..29 for Feb 2024, got %d..%d", start.Day(), end.Day())
	}
}
