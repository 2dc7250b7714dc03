package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"calibration-report/internal/lib/numeric"
)

const (
	sheetReadings = "Lecturas"
	sheetBudget   = "Presupuesto"
)

var readingsHeaders = []string{
	"Item", "Marca", "Modelo", "Serie", "Electrodo serie",
	"pH 7.01 inicial", "pH 4.01 inicial", "EC inicial",
	"pH 7.01 calibración", "pH 4.01 calibración", "EC calibración",
	"Estado pH final", "Estado EC final", "Estado general", "Conclusión",
}

// Excel renders the readings of every equipment on one sheet and the budget on another.
func Excel(doc *Document) ([]byte, error) {
	const op = "report.Excel"

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetReadings); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := f.NewSheet(sheetBudget); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"21618C"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: header style: %w", op, err)
	}
	failStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Color: "C0392B"}})
	if err != nil {
		return nil, fmt.Errorf("%s: fail style: %w", op, err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return nil, fmt.Errorf("%s: money style: %w", op, err)
	}

	writeHeader(f, sheetReadings, readingsHeaders, headerStyle)

	for i, a := range doc.Equipments {
		row := i + 2
		eq := a.Equipment
		values := []any{
			a.Label, eq.Brand, eq.Model, eq.Serial, eq.ElectrodeSerial,
			num(eq.PH701Initial), num(eq.PH401Initial), num(eq.ECInitial),
			num(eq.PH701Calibration), num(eq.PH401Calibration), num(eq.ECCalibration),
			orNA(eq.PHFinalStatus()), orNA(eq.ECFinalStatus()),
			a.Overall.Status, a.Verdict.Conclusion,
		}
		for col, v := range values {
			f.SetCellValue(sheetReadings, cellName(col+1, row), v)
		}

		// readings outside their band are highlighted
		for j, r := range append(append([]Reading{}, a.Initial...), a.Calibrate...) {
			if !r.Valid {
				cell := cellName(6+j, row)
				f.SetCellStyle(sheetReadings, cell, cell, failStyle)
			}
		}
	}

	f.SetPanes(sheetReadings, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	f.SetColWidth(sheetReadings, "A", "N", 16)
	f.SetColWidth(sheetReadings, "O", "O", 80)

	writeHeader(f, sheetBudget, []string{"N°", "Descripción", "Cantidad", "Precio", "Subtotal"}, headerStyle)
	for i, l := range doc.Budget {
		row := i + 2
		f.SetCellValue(sheetBudget, cellName(1, row), l.Number)
		f.SetCellValue(sheetBudget, cellName(2, row), l.Description)
		f.SetCellValue(sheetBudget, cellName(3, row), l.Quantity.Or(0))
		f.SetCellValue(sheetBudget, cellName(4, row), l.Price.Or(0))
		f.SetCellValue(sheetBudget, cellName(5, row), l.Subtotal)
	}

	row := len(doc.Budget) + 2
	totals := [][2]any{}
	if doc.Totals.Breakdown {
		totals = append(totals, [2]any{"Subtotal", doc.Totals.Subtotal}, [2]any{doc.TaxLabel, doc.Totals.Tax})
	}
	totals = append(totals, [2]any{"TOTAL (" + doc.Totals.Currency + ")", doc.Totals.Total})
	for _, t := range totals {
		f.SetCellValue(sheetBudget, cellName(4, row), t[0])
		f.SetCellValue(sheetBudget, cellName(5, row), t[1])
		row++
	}
	f.SetCellStyle(sheetBudget, "D2", cellName(5, row-1), moneyStyle)
	f.SetColWidth(sheetBudget, "B", "B", 50)
	f.SetColWidth(sheetBudget, "C", "E", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) {
	for i, name := range headers {
		f.SetCellValue(sheet, cellName(i+1, 1), name)
	}
	f.SetCellStyle(sheet, "A1", cellName(len(headers), 1), style)
}

func num(v numeric.Value) any {
	if f, ok := v.Float(); ok {
		return f
	}
	return NotAvailable
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
