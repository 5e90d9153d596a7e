package stats

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExportOverview(t *testing.T) {
	occ := 75
	o := &Overview{
		Services: []ServiceTotals{
			{ServiceID: "medecine", ServiceName: "Médecine Générale", DaysReported: 5,
				Admissions: 12, Sorties: 10, Deces: 1, Consultations: 40, Actes: 8, MeanOccupancy: &occ},
			{ServiceID: "dispensaire", ServiceName: "Dispensaire", DaysReported: 3, Consultations: 25},
		},
		WeeklyStatusCounts: map[string]int{},
	}

	blob, err := ExportOverview(o)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(blob))
	if err != nil {
		t.Fatalf("workbook does not reopen: %v", err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue("Statistiques", "A1"); got != "Service" {
		t.Errorf("expected header 'Service' in A1, got %q", got)
	}
	if got, _ := f.GetCellValue("Statistiques", "A2"); got != "Médecine Générale" {
		t.Errorf("expected first service row, got %q", got)
	}
	if got, _ := f.GetCellValue("Statistiques", "H2"); got != "75" {
		t.Errorf("expected occupancy 75 in H2, got %q", got)
	}
	if got, _ := f.GetCellValue("Statistiques", "H3"); got != "" {
		t.Errorf("expected empty occupancy for bedless service, got %q", got)
	}
}

func TestExportOverview_EmptyStillValid(t *testing.T) {
	blob, err := ExportOverview(&Overview{WeeklyStatusCounts: map[string]int{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := excelize.OpenReader(bytes.NewReader(blob)); err != nil {
		t.Fatalf("empty workbook does not reopen: %v", err)
	}
}
