package xlsxexport_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"lexbill/internal/domain"
	"lexbill/internal/xlsxexport"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestWrite(t *testing.T) {
	lineID := uuid.New()
	matter := &domain.Matter{
		Reference: "SMITH-v-JONES-001",
		CourtType: domain.MagistratesCourt,
		Scale:     domain.ScaleA,
	}
	bill := &domain.Bill{
		BillType:   domain.BillPartyAndParty,
		CostsOrder: domain.CostsInTheCause,
		Status:     domain.BillStatusDraft,
		Lines: []domain.BillLineItem{
			{
				ID:        lineID,
				Position:  1,
				Date:      time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC),
				ItemCode:  "1.1",
				Quantity:  d("4"),
				Unit:      domain.UnitPerPage,
				Narrative: "Perusing the particulars of claim",
			},
		},
		Results: []domain.ComputedLineResult{
			{
				LineID:      lineID,
				ItemCode:    "1.1",
				Label:       "Perusal of documents",
				Category:    domain.CategoryFees,
				Quantity:    d("4"),
				RateApplied: d("285.00"),
				AmountExVAT: d("1140.00"),
				VATAmount:   d("171.00"),
				TotalAmount: d("1311.00"),
				Warnings:    []string{"rate from superseded version"},
				Compliance:  domain.ComplianceVerdict{Allowed: true, Risk: domain.RiskLow},
			},
		},
		Totals: domain.BillTotals{
			SubtotalFees: d("1140.00"),
			TotalVAT:     d("171.00"),
			GrandTotal:   d("1311.00"),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, xlsxexport.Write(&buf, matter, bill))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	const sheet = "Bill of Costs"
	assert.Equal(t, []string{sheet}, f.GetSheetList())

	cell := func(ref string) string {
		v, err := f.GetCellValue(sheet, ref)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Matter", cell("A1"))
	assert.Equal(t, "SMITH-v-JONES-001", cell("B1"))
	assert.Equal(t, "Bill type", cell("A3"))
	assert.Equal(t, string(domain.BillPartyAndParty), cell("B3"))

	// Header block occupies rows 1-5, column headers sit on row 7.
	assert.Equal(t, "Item", cell("A7"))
	assert.Equal(t, "Warnings", cell("M7"))

	assert.Equal(t, "2025-03-03", cell("B8"))
	assert.Equal(t, "1.1", cell("C8"))
	assert.Equal(t, "Perusing the particulars of claim", cell("D8"))
	assert.Equal(t, "285", cell("G8"))
	assert.Equal(t, "1140", cell("H8"))
	assert.Equal(t, "171", cell("I8"))
	assert.Equal(t, "1311", cell("J8"))
	assert.Equal(t, "no", cell("K8"))
	assert.Equal(t, string(domain.RiskLow), cell("L8"))
	assert.Equal(t, "rate from superseded version", cell("M8"))

	assert.Equal(t, "Fees", cell("A10"))
	assert.Equal(t, "Grand total", cell("A14"))
	assert.Equal(t, "1311", cell("B14"))
}
