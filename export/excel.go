/*
excel.go - xlsx rendering for the daily production report

PURPOSE:
  Turns one production day (the planned items plus their checklist
  state) into a printable spreadsheet for the shop floor. The sheet
  carries one row per planned order with its quantity for the day and
  two checklist columns (weld cap, assembly) shown as Sim/Não.

LAYOUT:
  Row 1: title "Produção <DATE>"
  Row 2: column headers
  Row 3+: one row per planned item, urgency order (earliest deadline
          first, as produced by the planning report)

SEE ALSO:
  - planning/report.go: Produces the ProductionDay being rendered
  - api/handlers.go: Serves the document on /api/production/{date}/export
*/
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/klinke/planning-engine/planning"
)

const sheetName = "Produção"

// DayReport renders one production day as an xlsx document.
func DayReport(day planning.ProductionDay, checklists []planning.ChecklistEntry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", sheetName)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})

	f.SetCellValue(sheetName, "A1", fmt.Sprintf("Produção %s", day.Date))
	f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	headers := []string{"Pedido", "Produto", "Família", "Qtd", "Prazo", "Status", "Solda Tampa", "Montagem"}
	for i, name := range headers {
		f.SetCellValue(sheetName, cellName(i+1, 2), name)
	}
	f.SetCellStyle(sheetName, "A2", cellName(len(headers), 2), headerStyle)

	// Checklist state indexed by order for row lookup.
	done := make(map[string]planning.ChecklistEntry, len(checklists))
	for _, entry := range checklists {
		done[entry.OrderID] = entry
	}

	for i, item := range day.Items {
		row := i + 3
		f.SetCellValue(sheetName, cellName(1, row), item.Number)
		f.SetCellValue(sheetName, cellName(2, row), item.Product)
		f.SetCellValue(sheetName, cellName(3, row), string(item.Family))
		f.SetCellValue(sheetName, cellName(4, row), item.Quantity)
		f.SetCellValue(sheetName, cellName(5, row), item.Deadline)
		f.SetCellValue(sheetName, cellName(6, row), string(item.Status))
		entry := done[item.OrderID]
		f.SetCellValue(sheetName, cellName(7, row), simNao(entry.WeldCap))
		f.SetCellValue(sheetName, cellName(8, row), simNao(entry.Assembly))
	}

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		XSplit:      0,
		YSplit:      2,
		TopLeftCell: "A3",
	})
	f.SetColWidth(sheetName, "A", "H", 15)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func simNao(v bool) string {
	if v {
		return "Sim"
	}
	return "Não"
}
