// Package xlsxexport renders a bill of costs as an xlsx workbook in
// the conventional taxation layout: one row per item in chronological
// order, with fee, disbursement and VAT columns and a totals block.
package xlsxexport

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"lexbill/internal/domain"
)

const sheetName = "Bill of Costs"

var columns = []string{
	"Item",
	"Date",
	"Tariff Code",
	"Description",
	"Quantity",
	"Unit",
	"Rate",
	"Amount (ex VAT)",
	"VAT",
	"Total",
	"Vouched",
	"Taxation Risk",
	"Warnings",
}

// Write renders the bill as an xlsx workbook to w.
func Write(w io.Writer, matter *domain.Matter, bill *domain.Bill) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("xlsxexport: create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("xlsxexport: delete default sheet: %w", err)
	}

	row := 1
	setRow(f, row, "Matter", matter.Reference)
	row++
	setRow(f, row, "Court", fmt.Sprintf("%s (%s)", matter.CourtType, matter.Scale))
	row++
	setRow(f, row, "Bill type", string(bill.BillType))
	row++
	setRow(f, row, "Costs order", string(bill.CostsOrder))
	row++
	setRow(f, row, "Status", string(bill.Status))
	row += 2

	headerRow := row
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		_ = f.SetCellValue(sheetName, cell, col)
	}
	row++

	for i, result := range bill.Results {
		line := bill.Lines[i]
		vouched := "no"
		if line.IsVouched {
			vouched = "yes"
		}
		warnings := ""
		for j, wmsg := range result.Warnings {
			if j > 0 {
				warnings += "; "
			}
			warnings += wmsg
		}
		values := []interface{}{
			line.Position,
			line.Date.Format("2006-01-02"),
			result.ItemCode,
			lineDescription(line, result),
			toFloat(result.Quantity),
			string(line.Unit),
			toFloat(result.RateApplied),
			toFloat(result.AmountExVAT),
			toFloat(result.VATAmount),
			toFloat(result.TotalAmount),
			vouched,
			string(result.Compliance.Risk),
			warnings,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}
		row++
	}

	row++
	setRow(f, row, "Fees", toFloat(bill.Totals.SubtotalFees))
	row++
	setRow(f, row, "Disbursements", toFloat(bill.Totals.SubtotalDisbursements))
	row++
	setRow(f, row, "Counsel", toFloat(bill.Totals.SubtotalCounsel))
	row++
	setRow(f, row, "VAT", toFloat(bill.Totals.TotalVAT))
	row++
	setRow(f, row, "Grand total", toFloat(bill.Totals.GrandTotal))

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsxexport: write workbook: %w", err)
	}
	return nil
}

func lineDescription(line domain.BillLineItem, result domain.ComputedLineResult) string {
	if line.Narrative != "" {
		return line.Narrative
	}
	return result.Label
}

func setRow(f *excelize.File, row int, label string, value interface{}) {
	labelCell, _ := excelize.CoordinatesToCellName(1, row)
	valueCell, _ := excelize.CoordinatesToCellName(2, row)
	_ = f.SetCellValue(sheetName, labelCell, label)
	_ = f.SetCellValue(sheetName, valueCell, value)
}

func toFloat(d decimal.Decimal) float64 {
	v, _ := d.Float64()
	return v
}
