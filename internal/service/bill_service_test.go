package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lexbill/internal/calc"
	"lexbill/internal/compliance"
	"lexbill/internal/config"
	"lexbill/internal/deadline"
	"lexbill/internal/domain"
	"lexbill/internal/service"
	"lexbill/internal/tariff"
	"lexbill/mocks"
)

func day(y int, m time.Month, dd int) time.Time {
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

type billServiceFixture struct {
	billRepo   *mocks.MockBillRepo
	matterRepo *mocks.MockMatterRepo
	notices    *mocks.MockNoticeSender
	storage    *mocks.MockObjectStorage
	svc        service.BillService
}

func newBillServiceFixture() *billServiceFixture {
	billRepo := new(mocks.MockBillRepo)
	matterRepo := new(mocks.MockMatterRepo)
	notices := new(mocks.MockNoticeSender)
	storage := new(mocks.MockObjectStorage)

	svc := service.NewBillService(
		billRepo,
		matterRepo,
		tariff.NewRepository(tariff.DefaultSchedules()),
		calc.NewEngine(calc.DefaultConfig()),
		compliance.NewValidator(compliance.DefaultConfig()),
		deadline.NewCalculator(2024, 2027),
		notices,
		storage,
		"lexbill-vouchers",
		config.TaxationConfig{InspectionDays: 5, ObjectionDays: 10, SetDownDays: 15},
	)
	return &billServiceFixture{
		billRepo:   billRepo,
		matterRepo: matterRepo,
		notices:    notices,
		storage:    storage,
		svc:        svc,
	}
}

func testMatter() *domain.Matter {
	return &domain.Matter{
		ID:            uuid.New(),
		Reference:     "SMITH-v-JONES-001",
		MatterType:    domain.MatterOrdinary,
		CourtType:     domain.MagistratesCourt,
		Scale:         domain.ScaleA,
		AttorneyName:  "T Mokoena",
		AttorneyEmail: "tm@example.co.za",
	}
}

func draftBill(matterID uuid.UUID) *domain.Bill {
	return &domain.Bill{
		ID:         uuid.New(),
		MatterID:   matterID,
		BillType:   domain.BillPartyAndParty,
		CostsOrder: domain.CostsInTheCause,
		Status:     domain.BillStatusDraft,
	}
}

func TestBillService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates_draft", func(t *testing.T) {
		f := newBillServiceFixture()
		matter := testMatter()
		f.matterRepo.On("GetByID", ctx, matter.ID).Return(matter, nil)
		f.billRepo.On("Create", ctx, mock.AnythingOfType("*domain.Bill")).Return(nil)

		bill, err := f.svc.Create(ctx, matter.ID, service.CreateBillInput{
			BillType:   domain.BillPartyAndParty,
			CostsOrder: domain.CostsInTheCause,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.BillStatusDraft, bill.Status)
		assert.Equal(t, matter.ID, bill.MatterID)
		f.billRepo.AssertExpectations(t)
	})

	t.Run("unknown_matter", func(t *testing.T) {
		f := newBillServiceFixture()
		id := uuid.New()
		f.matterRepo.On("GetByID", ctx, id).Return(nil, domain.ErrMatterNotFound)

		_, err := f.svc.Create(ctx, id, service.CreateBillInput{
			BillType:   domain.BillPartyAndParty,
			CostsOrder: domain.CostsInTheCause,
		})
		assert.ErrorIs(t, err, domain.ErrMatterNotFound)
	})
}

func TestBillService_AddLine(t *testing.T) {
	ctx := context.Background()

	t.Run("full_pipeline", func(t *testing.T) {
		f := newBillServiceFixture()
		matter := testMatter()
		bill := draftBill(matter.ID)
		f.billRepo.On("GetByID", ctx, bill.ID).Return(bill, nil)
		f.matterRepo.On("GetByID", ctx, matter.ID).Return(matter, nil)
		f.billRepo.On("AddLine", ctx, mock.AnythingOfType("*domain.BillLineItem"), mock.AnythingOfType("*domain.ComputedLineResult")).Return(nil)

		result, err := f.svc.AddLine(ctx, bill.ID, service.AddLineInput{
			Date:       day(2024, time.June, 3),
			ItemCode:   "1.1",
			Quantity:   d("4"),
			Narrative:  "Perusing the particulars of claim",
			Necessary:  true,
			Reasonable: true,
		})
		require.NoError(t, err)

		assert.True(t, result.AmountExVAT.Equal(d("1140.00")), "got %s", result.AmountExVAT)
		assert.True(t, result.VATAmount.Equal(d("171.00")), "got %s", result.VATAmount)
		assert.True(t, result.TotalAmount.Equal(d("1311.00")), "got %s", result.TotalAmount)
		assert.True(t, result.Compliance.Allowed)
		f.billRepo.AssertExpectations(t)
	})

	t.Run("historical_rate_for_old_work_date", func(t *testing.T) {
		f := newBillServiceFixture()
		matter := testMatter()
		bill := draftBill(matter.ID)
		f.billRepo.On("GetByID", ctx, bill.ID).Return(bill, nil)
		f.matterRepo.On("GetByID", ctx, matter.ID).Return(matter, nil)
		f.billRepo.On("AddLine", ctx, mock.Anything, mock.Anything).Return(nil)

		result, err := f.svc.AddLine(ctx, bill.ID, service.AddLineInput{
			Date:       day(2023, time.June, 1),
			ItemCode:   "1.1",
			Quantity:   d("4"),
			Necessary:  true,
			Reasonable: true,
		})
		require.NoError(t, err)
		assert.True(t, result.RateApplied.Equal(d("241.00")), "got %s", result.RateApplied)
	})

	t.Run("disallowed_line_is_still_recorded", func(t *testing.T) {
		f := newBillServiceFixture()
		matter := testMatter()
		bill := draftBill(matter.ID)
		f.billRepo.On("GetByID", ctx, bill.ID).Return(bill, nil)
		f.matterRepo.On("GetByID", ctx, matter.ID).Return(matter, nil)
		f.billRepo.On("AddLine", ctx, mock.Anything, mock.Anything).Return(nil)

		result, err := f.svc.AddLine(ctx, bill.ID, service.AddLineInput{
			Date:         day(2024, time.June, 3),
			ItemCode:     "6.1",
			Narrative:    "Sheriff's fees for service",
			Necessary:    true,
			Reasonable:   true,
			ActualAmount: dp("840.50"),
		})
		require.NoError(t, err)
		assert.False(t, result.Compliance.Allowed)
		assert.True(t, result.Compliance.RequiresVoucher)
		f.billRepo.AssertExpectations(t)
	})

	t.Run("finalized_bill_rejects_lines", func(t *testing.T) {
		f := newBillServiceFixture()
		matter := testMatter()
		bill := draftBill(matter.ID)
		bill.Status = domain.BillStatusFinalized
		f.billRepo.On("GetByID", ctx, bill.ID).Return(bill, nil)

		_, err := f.svc.AddLine(ctx, bill.ID, service.AddLineInput{
			Date:     day(2024, time.June, 3),
			ItemCode: "1.1",
			Quantity: d("1"),
		})
		assert.ErrorIs(t, err, domain.ErrBillFinalized)
	})

	t.Run("actual_cost_item_requires_amount", func(t *testing.T) {
		f := newBillServiceFixture()
		matter := testMatter()
		bill := draftBill(matter.ID)
		f.billRepo.On("GetByID", ctx, bill.ID).Return(bill, nil)
		f.matterRepo.On("GetByID", ctx, matter.ID).Return(matter, nil)

		_, err := f.svc.AddLine(ctx, bill.ID, service.AddLineInput{
			Date:     day(2024, time.June, 3),
			ItemCode: "6.1",
			Quantity: d("1"),
		})
		assert.ErrorIs(t, err, domain.ErrActualCostRequired)
	})
}

func TestBillService_Finalize(t *testing.T) {
	ctx := context.Background()

	allowedLine := func() (domain.BillLineItem, domain.ComputedLineResult) {
		lineID := uuid.New()
		line := domain.BillLineItem{ID: lineID, Narrative: "Perusal", Necessary: true, Reasonable: true}
		result := domain.ComputedLineResult{
			LineID:      lineID,
			Category:    domain.CategoryFees,
			AmountExVAT: d("1140.00"),
			Compliance:  domain.ComplianceVerdict{Allowed: true, Risk: domain.RiskLow},
		}
		return line, result
	}

	t.Run("computes_schedule_and_notifies", func(t *testing.T) {
		f := newBillServiceFixture()
		matter := testMatter()
		bill := draftBill(matter.ID)
		line, result := allowedLine()

		f.billRepo.On("GetByID", ctx, bill.ID).Return(bill, nil)
		f.matterRepo.On("GetByID", ctx, matter.ID).Return(matter, nil)
		f.billRepo.On("ListLines", ctx, bill.ID).Return([]domain.BillLineItem{line}, []domain.ComputedLineResult{result}, nil)
		f.billRepo.On("Update", ctx, bill).Return(nil)
		f.notices.On("SendTaxationNotice", ctx, matter.AttorneyEmail, matter.AttorneyName, mock.AnythingOfType("domain.TaxationSchedule")).Return(nil)

		// Monday 2 June 2025; 16 June (Youth Day) falls inside the
		// objection window.
		schedule, err := f.svc.Finalize(ctx, bill.ID, day(2025, time.June, 2))
		require.NoError(t, err)

		assert.Equal(t, day(2025, time.June, 9), schedule.InspectionDeadline)
		assert.Equal(t, day(2025, time.June, 17), schedule.ObjectionDeadline)
		assert.Equal(t, day(2025, time.June, 24), schedule.SetDownDate)
		assert.False(t, schedule.Adjusted)
		assert.Equal(t, domain.BillStatusFinalized, bill.Status)
		f.notices.AssertExpectations(t)
		f.billRepo.AssertExpectations(t)
	})

	t.Run("unvouched_disbursement_blocks_finalization", func(t *testing.T) {
		f := newBillServiceFixture()
		matter := testMatter()
		bill := draftBill(matter.ID)
		lineID := uuid.New()
		line := domain.BillLineItem{ID: lineID, Narrative: "Sheriff's fees", IsVouched: false}
		result := domain.ComputedLineResult{
			LineID:   lineID,
			Category: domain.CategoryDisbursements,
			Compliance: domain.ComplianceVerdict{
				Allowed:         false,
				RequiresVoucher: true,
				Risk:            domain.RiskHigh,
			},
		}

		f.billRepo.On("GetByID", ctx, bill.ID).Return(bill, nil)
		f.matterRepo.On("GetByID", ctx, matter.ID).Return(matter, nil)
		f.billRepo.On("ListLines", ctx, bill.ID).Return([]domain.BillLineItem{line}, []domain.ComputedLineResult{result}, nil)

		_, err := f.svc.Finalize(ctx, bill.ID, day(2025, time.June, 2))
		assert.ErrorIs(t, err, domain.ErrMissingVoucherBlocked)
		f.billRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("already_finalized", func(t *testing.T) {
		f := newBillServiceFixture()
		matter := testMatter()
		bill := draftBill(matter.ID)
		bill.Status = domain.BillStatusFinalized
		f.billRepo.On("GetByID", ctx, bill.ID).Return(bill, nil)

		_, err := f.svc.Finalize(ctx, bill.ID, day(2025, time.June, 2))
		assert.ErrorIs(t, err, domain.ErrBillNotDraft)
	})

	t.Run("notice_failure_does_not_roll_back", func(t *testing.T) {
		f := newBillServiceFixture()
		matter := testMatter()
		bill := draftBill(matter.ID)
		line, result := allowedLine()

		f.billRepo.On("GetByID", ctx, bill.ID).Return(bill, nil)
		f.matterRepo.On("GetByID", ctx, matter.ID).Return(matter, nil)
		f.billRepo.On("ListLines", ctx, bill.ID).Return([]domain.BillLineItem{line}, []domain.ComputedLineResult{result}, nil)
		f.billRepo.On("Update", ctx, bill).Return(nil)
		f.notices.On("SendTaxationNotice", ctx, matter.AttorneyEmail, matter.AttorneyName, mock.Anything).Return(errors.New("ses: sending quota exceeded"))

		schedule, err := f.svc.Finalize(ctx, bill.ID, day(2025, time.June, 2))
		require.NoError(t, err)
		assert.NotNil(t, schedule)
	})
}

func TestBillService_RemoveLine(t *testing.T) {
	ctx := context.Background()

	t.Run("removes_from_draft", func(t *testing.T) {
		f := newBillServiceFixture()
		matter := testMatter()
		bill := draftBill(matter.ID)
		lineID := uuid.New()
		f.billRepo.On("GetByID", ctx, bill.ID).Return(bill, nil)
		f.billRepo.On("ListLines", ctx, bill.ID).Return([]domain.BillLineItem{{ID: lineID}}, nil, nil)
		f.billRepo.On("RemoveLine", ctx, bill.ID, lineID).Return(nil)

		assert.NoError(t, f.svc.RemoveLine(ctx, bill.ID, lineID))
		f.billRepo.AssertExpectations(t)
		f.storage.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("deletes_linked_voucher_object", func(t *testing.T) {
		f := newBillServiceFixture()
		matter := testMatter()
		bill := draftBill(matter.ID)
		lineID := uuid.New()
		ref := "vouchers/" + bill.ID.String() + "/" + lineID.String() + "/receipt.pdf"
		f.billRepo.On("GetByID", ctx, bill.ID).Return(bill, nil)
		f.billRepo.On("ListLines", ctx, bill.ID).Return([]domain.BillLineItem{
			{ID: lineID, IsVouched: true, VoucherReference: ref},
		}, nil, nil)
		f.billRepo.On("RemoveLine", ctx, bill.ID, lineID).Return(nil)
		f.storage.On("Delete", ctx, "lexbill-vouchers", ref).Return(nil)

		assert.NoError(t, f.svc.RemoveLine(ctx, bill.ID, lineID))
		f.storage.AssertExpectations(t)
	})

	t.Run("finalized_bill_rejects_removal", func(t *testing.T) {
		f := newBillServiceFixture()
		matter := testMatter()
		bill := draftBill(matter.ID)
		bill.Status = domain.BillStatusFinalized
		f.billRepo.On("GetByID", ctx, bill.ID).Return(bill, nil)

		err := f.svc.RemoveLine(ctx, bill.ID, uuid.New())
		assert.ErrorIs(t, err, domain.ErrBillFinalized)
	})
}

func TestBillService_Totals(t *testing.T) {
	ctx := context.Background()
	f := newBillServiceFixture()
	matter := testMatter()
	bill := draftBill(matter.ID)
	f.billRepo.On("GetByID", ctx, bill.ID).Return(bill, nil)
	f.billRepo.On("ListLines", ctx, bill.ID).Return(nil, sampleResults(), nil)

	totals, err := f.svc.Totals(ctx, bill.ID)
	require.NoError(t, err)
	assert.True(t, totals.GrandTotal.Equal(d("17182.00")), "got %s", totals.GrandTotal)
}
