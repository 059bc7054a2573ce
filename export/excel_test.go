package export_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/klinke/planning-engine/export"
	"github.com/klinke/planning-engine/planning"
)

func TestDayReport_Layout(t *testing.T) {
	day := planning.ProductionDay{
		Date: "2024-06-03",
		Items: []planning.ProductionItem{
			{OrderID: "a", Number: "P-1001", Product: "Torre Inox", Quantity: 100,
				Family: planning.FamilyTorre, Deadline: "2024-06-10", Status: planning.StatusInProgress},
			{OrderID: "b", Number: "P-1002", Product: "Puxador 30cm", Quantity: 40,
				Family: planning.FamilyPuxador, Deadline: "2024-06-20", Status: planning.StatusNotStarted},
		},
	}
	checklists := []planning.ChecklistEntry{
		{OrderID: "a", Date: "2024-06-03", WeldCap: true, Assembly: false},
	}

	doc, err := export.DayReport(day, checklists)
	require.NoError(t, err)
	require.NotEmpty(t, doc)

	f, err := excelize.OpenReader(bytes.NewReader(doc))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Produção", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Produção 2024-06-03", title)

	header, err := f.GetCellValue("Produção", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Pedido", header)

	// First item row carries its checklist state.
	number, _ := f.GetCellValue("Produção", "A3")
	assert.Equal(t, "P-1001", number)
	weldCap, _ := f.GetCellValue("Produção", "G3")
	assert.Equal(t, "Sim", weldCap)
	assembly, _ := f.GetCellValue("Produção", "H3")
	assert.Equal(t, "Não", assembly)

	// Second item has no checklist entry: both flags read Não.
	weldCap, _ = f.GetCellValue("Produção", "G4")
	assert.Equal(t, "Não", weldCap)
}

func TestDayReport_EmptyDay(t *testing.T) {
	doc, err := export.DayReport(planning.ProductionDay{Date: "2024-06-03"}, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(doc))
	require.NoError(t, err)
	defer f.Close()

	value, err := f.GetCellValue("Produção", "A3")
	require.NoError(t, err)
	assert.Empty(t, value)
}
