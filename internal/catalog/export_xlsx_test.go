package catalog

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCostingMath(t *testing.T) {
	c := costing(Product{
		GoldPurity:  "18K",
		GoldRate24k: "430",
		GrossWt:     "10g",
		DiaWt:       "0.52 CT",
		DiaRate:     "450",
		Making:      "350 AED",
	})
	// rate18k = 430 * 0.750 = 322.5, gold value = 3225
	require.InDelta(t, 10.0, c.goldWt18k, 1e-9)
	require.InDelta(t, 0.0, c.goldWt14k, 1e-9)
	require.InDelta(t, 3225.0, c.goldValue18k, 1e-9)
	require.InDelta(t, 234.0, c.diaValue, 1e-9)
	require.InDelta(t, 350.0, c.making, 1e-9)
	require.InDelta(t, 3809.0, c.cost18k, 1e-9)
	require.InDelta(t, 584.0, c.cost14k, 1e-9)
}

func TestCostingFor14kPurity(t *testing.T) {
	c := costing(Product{GoldPurity: "14K", GoldRate24k: "400", GrossWt: "5"})
	require.InDelta(t, 5.0, c.goldWt14k, 1e-9)
	require.InDelta(t, 5.0*400*0.585, c.goldValue14k, 1e-9)
	require.InDelta(t, 0.0, c.goldValue18k, 1e-9)
}

func TestParseNumberStripsUnits(t *testing.T) {
	require.InDelta(t, 9.74, parseNumber("9.74g"), 1e-9)
	require.InDelta(t, 350.0, parseNumber("350 AED"), 1e-9)
	require.InDelta(t, 0.0, parseNumber("garbled"), 1e-9)
	require.InDelta(t, 0.0, parseNumber(""), 1e-9)
}

func TestExportXLSXSheetLayout(t *testing.T) {
	svc, _ := newTestService(t)

	products := []Product{
		{ID: "1", Name: "R1", Category: "Rings", GoldPurity: "18K", GoldRate24k: "430", GrossWt: "10g"},
		{ID: "2", Name: "N1", Category: "Necklace", GoldPurity: "14K", GoldRate24k: "430", GrossWt: "8g"},
	}
	raw, err := svc.ExportXLSX(context.Background(), products)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Contains(t, sheets, "All Items")
	require.Contains(t, sheets, "Rings")
	require.Contains(t, sheets, "Necklace")
	require.NotContains(t, sheets, "Pendant")
	require.NotContains(t, sheets, "Sheet1")

	header, err := f.GetCellValue("All Items", "B1")
	require.NoError(t, err)
	require.Equal(t, "CODE", header)

	code, err := f.GetCellValue("Rings", "B2")
	require.NoError(t, err)
	require.Equal(t, "R1", code)

	cost, err := f.GetCellValue("Rings", "W2")
	require.NoError(t, err)
	require.Equal(t, "3225.00", cost)
}

func TestExportXLSXEmptyCatalog(t *testing.T) {
	svc, _ := newTestService(t)

	raw, err := svc.ExportXLSX(context.Background(), nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()
	require.Equal(t, []string{"Sheet1"}, f.GetSheetList())
}
