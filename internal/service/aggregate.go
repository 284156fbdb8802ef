package service

import (
	"github.com/shopspring/decimal"

	"lexbill/internal/domain"
)

// Aggregate folds computed line results into category subtotals, the
// VAT total and the grand total. It is always recomputed from the full
// line set and is order-independent: decimal accumulation, no
// incremental patching.
func Aggregate(results []domain.ComputedLineResult) domain.BillTotals {
	totals := domain.BillTotals{
		SubtotalFees:          decimal.Zero,
		SubtotalDisbursements: decimal.Zero,
		SubtotalCounsel:       decimal.Zero,
		TotalVAT:              decimal.Zero,
		GrandTotal:            decimal.Zero,
	}
	for i := range results {
		r := &results[i]
		switch r.Category {
		case domain.CategoryDisbursements:
			totals.SubtotalDisbursements = totals.SubtotalDisbursements.Add(r.AmountExVAT)
		case domain.CategoryCounsel:
			totals.SubtotalCounsel = totals.SubtotalCounsel.Add(r.AmountExVAT)
		default:
			totals.SubtotalFees = totals.SubtotalFees.Add(r.AmountExVAT)
		}
		totals.TotalVAT = totals.TotalVAT.Add(r.VATAmount)
	}
	totals.GrandTotal = totals.SubtotalFees.
		Add(totals.SubtotalDisbursements).
		Add(totals.SubtotalCounsel).
		Add(totals.TotalVAT)
	return totals
}
