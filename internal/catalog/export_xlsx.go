package catalog

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// WorkbookName is the suggested download filename for catalog exports.
const WorkbookName = "Rrumi_Detailed_Catalog.xlsx"

var exportColumns = []struct {
	header string
	width  float64
}{
	{"Sr No", 6},
	{"CODE", 15},
	{"PRODUCT", 15},
	{"SHAPE", 10},
	{"SOLITAIRE WT", 12},
	{"CAD", 6},
	{"H/D", 6},
	{"STL", 6},
	{"RENDER PICK", 12},
	{"GOLD WT 14K", 12},
	{"GOLD WT 18K", 12},
	{"24K GOLD RATE", 12},
	{"14K GOLD VALUE", 12},
	{"18K GOLD VALUE", 12},
	{"Shape", 8},
	{"Size", 8},
	{"Pcs", 6},
	{"TOTAL DIAMOND WT", 15},
	{"RATE", 8},
	{"TOTAL DIAMOND VALUE", 15},
	{"MAKING", 10},
	{"14K COST", 12},
	{"18K COST", 12},
}

// ExportXLSX renders the costing workbook: one "All Items" sheet followed by
// one sheet per category that has products. Gold value uses the 24k rate
// scaled by fineness (0.585 for 14k, 0.750 for 18k); cost is gold value plus
// diamond value plus making.
func (s *Service) ExportXLSX(ctx context.Context, products []Product) ([]byte, error) {
	start := time.Now()
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1A472A"}},
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: header style: %w", err)
	}

	if len(products) > 0 {
		if err := addSheet(f, "All Items", products, headerStyle); err != nil {
			return nil, err
		}
	}
	for _, category := range Categories {
		grouped := []Product{}
		for _, p := range products {
			if p.Category == category {
				grouped = append(grouped, p)
			}
		}
		if len(grouped) == 0 {
			continue
		}
		if err := addSheet(f, category, grouped, headerStyle); err != nil {
			return nil, err
		}
	}

	// Drop the default sheet once real sheets exist; keep it for an empty
	// catalog so the workbook stays valid.
	if len(f.GetSheetList()) > 1 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, fmt.Errorf("catalog: delete default sheet: %w", err)
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("catalog: xlsx write: %w", err)
	}
	s.logger.Info("catalog exported",
		slog.Int("products", len(products)),
		slog.Int64("elapsed_ms", time.Since(start).Milliseconds()))
	return buf.Bytes(), nil
}

func addSheet(f *excelize.File, name string, products []Product, headerStyle int) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("catalog: sheet %s: %w", name, err)
	}
	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(name, cell, col.header); err != nil {
			return err
		}
		colName, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(name, colName, colName, col.width)
	}
	lastCol, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
	if err := f.SetCellStyle(name, "A1", lastCol, headerStyle); err != nil {
		return err
	}

	for i, p := range products {
		row := i + 2
		c := costing(p)

		values := []any{
			i + 1,
			p.Name,
			"", // image cell
			p.Shape,
			p.SolitaireWt,
			p.CAD,
			p.Quality,
			"",
			"",
			blankIfZero(c.goldWt14k),
			blankIfZero(c.goldWt18k),
			p.GoldRate24k,
			fmt.Sprintf("%.2f", c.goldValue14k),
			fmt.Sprintf("%.2f", c.goldValue18k),
			"RD",
			"",
			"",
			p.DiaWt,
			p.DiaRate,
			fmt.Sprintf("%.2f", c.diaValue),
			c.making,
			fmt.Sprintf("%.2f", c.cost14k),
			fmt.Sprintf("%.2f", c.cost18k),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(name, cell, v); err != nil {
				return err
			}
		}

		if embedProductImage(f, name, row, p) {
			_ = f.SetRowHeight(name, row, 65)
		} else {
			_ = f.SetRowHeight(name, row, 20)
		}
	}
	return nil
}

type productCosting struct {
	goldWt14k    float64
	goldWt18k    float64
	goldValue14k float64
	goldValue18k float64
	diaValue     float64
	making       float64
	cost14k      float64
	cost18k      float64
}

func costing(p Product) productCosting {
	rate24k := parseNumber(p.GoldRate24k)
	rate14k := rate24k * 0.585
	rate18k := rate24k * 0.750

	grossWt := parseNumber(p.GrossWt)
	var c productCosting
	if p.GoldPurity == "14K" {
		c.goldWt14k = grossWt
	}
	if p.GoldPurity == "18K" {
		c.goldWt18k = grossWt
	}
	c.goldValue14k = c.goldWt14k * rate14k
	c.goldValue18k = c.goldWt18k * rate18k
	c.diaValue = parseNumber(p.DiaWt) * parseNumber(p.DiaRate)
	c.making = parseNumber(p.Making)
	c.cost14k = c.goldValue14k + c.diaValue + c.making
	c.cost18k = c.goldValue18k + c.diaValue + c.making
	return c
}

var nonNumericRe = regexp.MustCompile(`[^\d.]`)

// parseNumber pulls the numeric part out of a tag field like "9.74g" or
// "350 AED". Unparseable input counts as zero.
func parseNumber(raw string) float64 {
	cleaned := nonNumericRe.ReplaceAllString(raw, "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

func blankIfZero(v float64) any {
	if v == 0 {
		return ""
	}
	return v
}

var dataURLRe = regexp.MustCompile(`^data:image/(\w+);base64,`)

// embedProductImage decodes the stored data URL and anchors the picture in
// the PRODUCT column. A bad image is skipped, never fatal.
func embedProductImage(f *excelize.File, sheet string, row int, p Product) bool {
	m := dataURLRe.FindStringSubmatch(p.Image)
	if m == nil {
		return false
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(p.Image, m[0]))
	if err != nil {
		return false
	}
	cell, _ := excelize.CoordinatesToCellName(3, row)
	err = f.AddPictureFromBytes(sheet, cell, &excelize.Picture{
		Extension: "." + m[1],
		File:      data,
		Format:    &excelize.GraphicOptions{ScaleX: 0.5, ScaleY: 0.5, Positioning: "oneCell"},
	})
	return err == nil
}
