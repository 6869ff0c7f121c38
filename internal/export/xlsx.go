package export

import (
	"bytes"
	"fmt"

	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/model"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the sales report workbook.
const (
	SheetDaily       = "Daily"
	SheetTopProducts = "Top Products"
	SheetCategories  = "Categories"
)

// SalesReportXLSX renders the report as a workbook with one sheet per table.
// Amounts are written as numbers in the smallest currency unit.
func SalesReportXLSX(r *model.SalesReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetDaily); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetTopProducts); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetCategories); err != nil {
		return nil, err
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	daily := [][]interface{}{{"Date", "Transactions", "Items", "Revenue"}}
	for _, d := range r.Daily {
		daily = append(daily, []interface{}{d.Date, d.Transactions, d.Items, d.Revenue})
	}
	daily = append(daily, []interface{}{"TOTAL", r.TotalTransactions, r.TotalItems, r.TotalRevenue})

	products := [][]interface{}{{"Product", "Category", "Quantity", "Revenue"}}
	for _, p := range r.TopProducts {
		products = append(products, []interface{}{p.Name, p.Category, p.Quantity, p.Revenue})
	}

	categories := [][]interface{}{{"Category", "Quantity", "Revenue"}}
	for _, c := range r.Categories {
		categories = append(categories, []interface{}{nonEmpty(c.Category, "Uncategorized"), c.Quantity, c.Revenue})
	}

	for sheet, rows := range map[string][][]interface{}{
		SheetDaily:       daily,
		SheetTopProducts: products,
		SheetCategories:  categories,
	} {
		if err := writeRows(f, sheet, rows, header); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i, values := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("xlsx: %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "A", 28)
}
