package stats

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

var overviewHeader = []string{
	"Service",
	"Jours saisis",
	"Admissions",
	"Sorties",
	"Décès",
	"Consultations",
	"Actes",
	"Taux d'occupation moyen (%)",
}

// ExportOverview renders the overview as a single-sheet Excel workbook.
func ExportOverview(o *Overview) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Statistiques"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for col, header := range overviewHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("set header %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("style header %s: %w", cell, err)
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "B", "H", 16); err != nil {
		return nil, err
	}

	for i, s := range o.Services {
		row := i + 2
		values := []interface{}{
			s.ServiceName, s.DaysReported, s.Admissions, s.Sorties,
			s.Deces, s.Consultations, s.Actes,
		}
		if s.MeanOccupancy != nil {
			values = append(values, *s.MeanOccupancy)
		} else {
			values = append(values, "")
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
