package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"lexbill/internal/calc"
	"lexbill/internal/compliance"
	"lexbill/internal/config"
	"lexbill/internal/deadline"
	"lexbill/internal/domain"
	"lexbill/internal/port"
	"lexbill/internal/tariff"
)

// CreateBillInput is the DTO for creating a bill of costs.
type CreateBillInput struct {
	BillType   domain.BillType   `json:"bill_type" binding:"required"`
	CostsOrder domain.CostsOrder `json:"costs_order" binding:"required"`
}

// AddLineInput is the DTO for adding a billable work item to a bill.
type AddLineInput struct {
	Date             time.Time        `json:"date" binding:"required"`
	ItemCode         string           `json:"item_code" binding:"required"`
	Quantity         decimal.Decimal  `json:"quantity"`
	Narrative        string           `json:"narrative"`
	IsVouched        bool             `json:"is_vouched"`
	VoucherReference string           `json:"voucher_reference"`
	Necessary        bool             `json:"necessary"`
	Reasonable       bool             `json:"reasonable"`
	Justified        bool             `json:"justified"`
	ActualAmount     *decimal.Decimal `json:"actual_amount"`
}

// BillService runs the calculation pipeline for bills of costs:
// tariff resolution, monetary computation, compliance validation and
// aggregation, plus taxation scheduling on finalization.
type BillService interface {
	Create(ctx context.Context, matterID uuid.UUID, input CreateBillInput) (*domain.Bill, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Bill, error)
	ListByMatter(ctx context.Context, matterID uuid.UUID) ([]domain.Bill, error)
	AddLine(ctx context.Context, billID uuid.UUID, input AddLineInput) (*domain.ComputedLineResult, error)
	RemoveLine(ctx context.Context, billID, lineID uuid.UUID) error
	Totals(ctx context.Context, billID uuid.UUID) (*domain.BillTotals, error)
	Finalize(ctx context.Context, billID uuid.UUID, finalizedOn time.Time) (*domain.TaxationSchedule, error)
}

type billService struct {
	billRepo      port.BillRepository
	matterRepo    port.MatterRepository
	tariffs       *tariff.Repository
	engine        *calc.Engine
	validator     *compliance.Validator
	deadlines     *deadline.Calculator
	notices       port.NoticeSender
	storage       port.ObjectStorage
	voucherBucket string
	taxCfg        config.TaxationConfig
}

// NewBillService creates a new BillService implementation.
func NewBillService(
	billRepo port.BillRepository,
	matterRepo port.MatterRepository,
	tariffs *tariff.Repository,
	engine *calc.Engine,
	validator *compliance.Validator,
	deadlines *deadline.Calculator,
	notices port.NoticeSender,
	storage port.ObjectStorage,
	voucherBucket string,
	taxCfg config.TaxationConfig,
) BillService {
	return &billService{
		billRepo:      billRepo,
		matterRepo:    matterRepo,
		tariffs:       tariffs,
		engine:        engine,
		validator:     validator,
		deadlines:     deadlines,
		notices:       notices,
		storage:       storage,
		voucherBucket: voucherBucket,
		taxCfg:        taxCfg,
	}
}

func (s *billService) Create(ctx context.Context, matterID uuid.UUID, input CreateBillInput) (*domain.Bill, error) {
	if _, err := s.matterRepo.GetByID(ctx, matterID); err != nil {
		return nil, err
	}
	bill := &domain.Bill{
		ID:         uuid.New(),
		MatterID:   matterID,
		BillType:   input.BillType,
		CostsOrder: input.CostsOrder,
		Status:     domain.BillStatusDraft,
	}
	if err := s.billRepo.Create(ctx, bill); err != nil {
		return nil, err
	}
	return bill, nil
}

func (s *billService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bill, error) {
	bill, err := s.billRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	lines, results, err := s.billRepo.ListLines(ctx, id)
	if err != nil {
		return nil, err
	}
	bill.Lines = lines
	bill.Results = results
	bill.Totals = Aggregate(results)
	return bill, nil
}

func (s *billService) ListByMatter(ctx context.Context, matterID uuid.UUID) ([]domain.Bill, error) {
	return s.billRepo.ListByMatter(ctx, matterID)
}

// AddLine runs the full pipeline for one work item: resolve the tariff
// rate for the work date, compute the amounts, validate billing scope,
// and persist the raw line with its computed result.
func (s *billService) AddLine(ctx context.Context, billID uuid.UUID, input AddLineInput) (*domain.ComputedLineResult, error) {
	bill, err := s.billRepo.GetByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill.Status == domain.BillStatusFinalized {
		return nil, domain.ErrBillFinalized
	}
	matter, err := s.matterRepo.GetByID(ctx, bill.MatterID)
	if err != nil {
		return nil, err
	}

	res, err := s.tariffs.ResolveRate(matter.CourtType, matter.Scale, input.ItemCode, input.Date)
	if err != nil {
		return nil, fmt.Errorf("resolving rate for item %q: %w", input.ItemCode, err)
	}
	if res.FuzzyMatched {
		log.Printf("billService.AddLine: bill %s item %q fuzzy-matched tariff item %s (%s)",
			billID, input.ItemCode, res.Item.ItemCode, res.Item.Label)
	}

	amounts, err := s.computeAmounts(res.Item, input)
	if err != nil {
		return nil, err
	}
	warnings := amounts.Warnings
	if res.FallbackApplied {
		warnings = append(warnings, fmt.Sprintf(
			"no tariff version in force on %s; historical rate of %s applied",
			input.Date.Format("2006-01-02"), res.Version.EffectiveFrom.Format("2006-01-02")))
	}

	vouched := input.IsVouched || input.VoucherReference != ""
	verdict, err := s.validator.Validate(compliance.LineContext{
		BillType:    bill.BillType,
		CostsOrder:  bill.CostsOrder,
		ItemCode:    res.Item.ItemCode,
		Description: input.Narrative,
		Category:    res.Item.Category,
		Amount:      amounts.AmountExVAT,
		Necessary:   input.Necessary,
		Reasonable:  input.Reasonable,
		Vouched:     vouched,
		Justified:   input.Justified,
	})
	if err != nil {
		return nil, fmt.Errorf("validating line: %w", err)
	}

	line := &domain.BillLineItem{
		ID:               uuid.New(),
		BillID:           billID,
		Date:             input.Date,
		ItemCode:         input.ItemCode,
		Quantity:         input.Quantity,
		Unit:             res.Item.Unit,
		Narrative:        input.Narrative,
		IsVouched:        vouched,
		VoucherReference: input.VoucherReference,
		Necessary:        input.Necessary,
		Reasonable:       input.Reasonable,
		Justified:        input.Justified,
		ActualAmount:     input.ActualAmount,
	}
	result := &domain.ComputedLineResult{
		LineID:      line.ID,
		ItemCode:    res.Item.ItemCode,
		Label:       res.Item.Label,
		Category:    res.Item.Category,
		Quantity:    amounts.Quantity,
		RateApplied: amounts.RateApplied,
		AmountExVAT: amounts.AmountExVAT,
		VATAmount:   amounts.VATAmount,
		TotalAmount: amounts.TotalAmount,
		Warnings:    warnings,
		Compliance:  verdict,
	}
	if err := s.billRepo.AddLine(ctx, line, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *billService) computeAmounts(item domain.TariffRateItem, input AddLineInput) (*calc.LineAmounts, error) {
	if item.Unit == domain.UnitActualCost && item.Rate.IsZero() {
		if input.ActualAmount == nil {
			return nil, fmt.Errorf("item %s: %w", item.ItemCode, domain.ErrActualCostRequired)
		}
		return s.engine.ComputeDisbursement(item, *input.ActualAmount)
	}
	return s.engine.ComputeLine(item, input.Quantity)
}

func (s *billService) RemoveLine(ctx context.Context, billID, lineID uuid.UUID) error {
	bill, err := s.billRepo.GetByID(ctx, billID)
	if err != nil {
		return err
	}
	if bill.Status == domain.BillStatusFinalized {
		return domain.ErrBillFinalized
	}

	lines, _, err := s.billRepo.ListLines(ctx, billID)
	if err != nil {
		return err
	}
	voucherRef := ""
	for i := range lines {
		if lines[i].ID == lineID {
			voucherRef = lines[i].VoucherReference
			break
		}
	}

	if err := s.billRepo.RemoveLine(ctx, billID, lineID); err != nil {
		return err
	}
	if voucherRef != "" {
		// An orphaned object is preferable to resurrecting the line.
		if err := s.storage.Delete(ctx, s.voucherBucket, voucherRef); err != nil {
			log.Printf("billService.RemoveLine: deleting voucher %s failed: %v", voucherRef, err)
		}
	}
	return nil
}

func (s *billService) Totals(ctx context.Context, billID uuid.UUID) (*domain.BillTotals, error) {
	if _, err := s.billRepo.GetByID(ctx, billID); err != nil {
		return nil, err
	}
	_, results, err := s.billRepo.ListLines(ctx, billID)
	if err != nil {
		return nil, err
	}
	totals := Aggregate(results)
	return &totals, nil
}

// Finalize closes the bill, computes the taxation timetable from the
// finalization date and notifies the instructing attorney. Bills with
// hard-blocked lines cannot be finalized.
func (s *billService) Finalize(ctx context.Context, billID uuid.UUID, finalizedOn time.Time) (*domain.TaxationSchedule, error) {
	bill, err := s.billRepo.GetByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill.Status == domain.BillStatusFinalized {
		return nil, domain.ErrBillNotDraft
	}
	matter, err := s.matterRepo.GetByID(ctx, bill.MatterID)
	if err != nil {
		return nil, err
	}
	lines, results, err := s.billRepo.ListLines(ctx, billID)
	if err != nil {
		return nil, err
	}
	for i := range results {
		lc := compliance.LineContext{
			BillType:    bill.BillType,
			Description: lines[i].Narrative,
			Category:    results[i].Category,
			Vouched:     lines[i].IsVouched,
		}
		if blockErr := compliance.BlockedError(lc, results[i].Compliance); blockErr != nil {
			return nil, fmt.Errorf("line %s: %w", results[i].LineID, blockErr)
		}
	}

	inspection := s.deadlines.CalculateDeadline(finalizedOn, s.taxCfg.InspectionDays, matter.MatterType)
	objection := s.deadlines.CalculateDeadline(finalizedOn, s.taxCfg.ObjectionDays, matter.MatterType)
	setDown := s.deadlines.CalculateDeadline(finalizedOn, s.taxCfg.SetDownDays, matter.MatterType)

	schedule := domain.TaxationSchedule{
		BillID:             billID,
		FinalizedOn:        finalizedOn,
		InspectionDeadline: inspection.AdjustedDate,
		ObjectionDeadline:  objection.AdjustedDate,
		SetDownDate:        setDown.AdjustedDate,
		Adjusted:           inspection.WasAdjusted || objection.WasAdjusted || setDown.WasAdjusted,
	}
	for _, r := range []deadline.Result{setDown, objection, inspection} {
		if r.Reason != "" {
			schedule.AdjustmentReason = r.Reason
		}
	}

	now := time.Now().UTC()
	bill.Status = domain.BillStatusFinalized
	bill.FinalizedAt = &now
	if err := s.billRepo.Update(ctx, bill); err != nil {
		return nil, err
	}

	if matter.AttorneyEmail != "" {
		if err := s.notices.SendTaxationNotice(ctx, matter.AttorneyEmail, matter.AttorneyName, schedule); err != nil {
			// Notice delivery must not roll back finalization.
			log.Printf("billService.Finalize: taxation notice for bill %s failed: %v", billID, err)
		}
	}
	return &schedule, nil
}
