package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"lexbill/internal/domain"
	"lexbill/internal/port"
)

type billRepo struct {
	db *sqlx.DB
}

// NewBillRepo creates a new PostgreSQL-backed BillRepository.
func NewBillRepo(db *sqlx.DB) port.BillRepository {
	return &billRepo{db: db}
}

func (r *billRepo) Create(ctx context.Context, bill *domain.Bill) error {
	if bill.ID == uuid.Nil {
		bill.ID = uuid.New()
	}
	now := time.Now().UTC()
	bill.CreatedAt = now
	bill.UpdatedAt = now

	query := `INSERT INTO bills (id, matter_id, bill_type, costs_order, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		bill.ID, bill.MatterID, bill.BillType, bill.CostsOrder, bill.Status,
		bill.CreatedAt, bill.UpdatedAt)
	if err != nil {
		return fmt.Errorf("billRepo.Create: %w", err)
	}
	return nil
}

func (r *billRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bill, error) {
	var bill domain.Bill
	err := r.db.GetContext(ctx, &bill,
		"SELECT id, matter_id, bill_type, costs_order, status, finalized_at, created_at, updated_at FROM bills WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBillNotFound
		}
		return nil, fmt.Errorf("billRepo.GetByID: %w", err)
	}
	return &bill, nil
}

func (r *billRepo) ListByMatter(ctx context.Context, matterID uuid.UUID) ([]domain.Bill, error) {
	var bills []domain.Bill
	err := r.db.SelectContext(ctx, &bills,
		"SELECT id, matter_id, bill_type, costs_order, status, finalized_at, created_at, updated_at FROM bills WHERE matter_id = $1 ORDER BY created_at DESC",
		matterID)
	if err != nil {
		return nil, fmt.Errorf("billRepo.ListByMatter: %w", err)
	}
	return bills, nil
}

func (r *billRepo) Update(ctx context.Context, bill *domain.Bill) error {
	bill.UpdatedAt = time.Now().UTC()
	query := `UPDATE bills SET bill_type = $1, costs_order = $2, status = $3,
		finalized_at = $4, updated_at = $5 WHERE id = $6`
	result, err := r.db.ExecContext(ctx, query,
		bill.BillType, bill.CostsOrder, bill.Status, bill.FinalizedAt,
		bill.UpdatedAt, bill.ID)
	if err != nil {
		return fmt.Errorf("billRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrBillNotFound
	}
	return nil
}

// lineRow flattens a raw line item and its computed result into the
// single bill_line_items row they are stored as.
type lineRow struct {
	ID               uuid.UUID        `db:"id"`
	BillID           uuid.UUID        `db:"bill_id"`
	Position         int              `db:"position"`
	WorkDate         time.Time        `db:"work_date"`
	ItemCode         string           `db:"item_code"`
	Quantity         decimal.Decimal  `db:"quantity"`
	Unit             string           `db:"unit"`
	Narrative        string           `db:"narrative"`
	IsVouched        bool             `db:"is_vouched"`
	VoucherReference string           `db:"voucher_reference"`
	Necessary        bool             `db:"necessary"`
	Reasonable       bool             `db:"reasonable"`
	Justified        bool             `db:"justified"`
	ActualAmount     *decimal.Decimal `db:"actual_amount"`
	Label            string           `db:"label"`
	Category         string           `db:"category"`
	ComputedQuantity decimal.Decimal  `db:"computed_quantity"`
	RateApplied      decimal.Decimal  `db:"rate_applied"`
	AmountExVAT      decimal.Decimal  `db:"amount_ex_vat"`
	VATAmount        decimal.Decimal  `db:"vat_amount"`
	TotalAmount      decimal.Decimal  `db:"total_amount"`
	Warnings         []byte           `db:"warnings"`
	Allowed          bool             `db:"allowed"`
	Reason           string           `db:"reason"`
	Recommendation   string           `db:"recommendation"`
	RequiresVoucher  bool             `db:"requires_voucher"`
	TaxationRisk     string           `db:"taxation_risk"`
	CreatedAt        time.Time        `db:"created_at"`
}

func (r *billRepo) AddLine(ctx context.Context, line *domain.BillLineItem, result *domain.ComputedLineResult) error {
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	result.LineID = line.ID
	line.CreatedAt = time.Now().UTC()

	warnings, err := json.Marshal(result.Warnings)
	if err != nil {
		return fmt.Errorf("billRepo.AddLine marshal warnings: %w", err)
	}

	query := `INSERT INTO bill_line_items (
		id, bill_id, position, work_date, item_code, quantity, unit, narrative,
		is_vouched, voucher_reference, necessary, reasonable, justified, actual_amount,
		label, category, computed_quantity, rate_applied, amount_ex_vat, vat_amount, total_amount,
		warnings, allowed, reason, recommendation, requires_voucher, taxation_risk, created_at
	) VALUES (
		$1, $2,
		(SELECT COALESCE(MAX(position), 0) + 1 FROM bill_line_items WHERE bill_id = $2),
		$3, $4, $5, $6, $7,
		$8, $9, $10, $11, $12, $13,
		$14, $15, $16, $17, $18, $19, $20,
		$21, $22, $23, $24, $25, $26, $27
	)`

	_, err = r.db.ExecContext(ctx, query,
		line.ID, line.BillID,
		line.Date, line.ItemCode, line.Quantity, line.Unit, line.Narrative,
		line.IsVouched, line.VoucherReference, line.Necessary, line.Reasonable, line.Justified, line.ActualAmount,
		result.Label, result.Category, result.Quantity, result.RateApplied,
		result.AmountExVAT, result.VATAmount, result.TotalAmount,
		warnings, result.Compliance.Allowed, result.Compliance.Reason,
		result.Compliance.Recommendation, result.Compliance.RequiresVoucher, result.Compliance.Risk,
		line.CreatedAt)
	if err != nil {
		return fmt.Errorf("billRepo.AddLine: %w", err)
	}
	return nil
}

func (r *billRepo) RemoveLine(ctx context.Context, billID, lineID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM bill_line_items WHERE bill_id = $1 AND id = $2", billID, lineID)
	if err != nil {
		return fmt.Errorf("billRepo.RemoveLine: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrLineNotFound
	}
	return nil
}

func (r *billRepo) ListLines(ctx context.Context, billID uuid.UUID) ([]domain.BillLineItem, []domain.ComputedLineResult, error) {
	var rows []lineRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM bill_line_items WHERE bill_id = $1 ORDER BY position", billID)
	if err != nil {
		return nil, nil, fmt.Errorf("billRepo.ListLines: %w", err)
	}

	lines := make([]domain.BillLineItem, 0, len(rows))
	results := make([]domain.ComputedLineResult, 0, len(rows))
	for _, row := range rows {
		var warnings []string
		if len(row.Warnings) > 0 {
			if err := json.Unmarshal(row.Warnings, &warnings); err != nil {
				return nil, nil, fmt.Errorf("billRepo.ListLines unmarshal warnings: %w", err)
			}
		}
		lines = append(lines, domain.BillLineItem{
			ID:               row.ID,
			BillID:           row.BillID,
			Position:         row.Position,
			Date:             row.WorkDate,
			ItemCode:         row.ItemCode,
			Quantity:         row.Quantity,
			Unit:             domain.TariffUnit(row.Unit),
			Narrative:        row.Narrative,
			IsVouched:        row.IsVouched,
			VoucherReference: row.VoucherReference,
			Necessary:        row.Necessary,
			Reasonable:       row.Reasonable,
			Justified:        row.Justified,
			ActualAmount:     row.ActualAmount,
			CreatedAt:        row.CreatedAt,
		})
		results = append(results, domain.ComputedLineResult{
			LineID:      row.ID,
			ItemCode:    row.ItemCode,
			Label:       row.Label,
			Category:    domain.ItemCategory(row.Category),
			Quantity:    row.ComputedQuantity,
			RateApplied: row.RateApplied,
			AmountExVAT: row.AmountExVAT,
			VATAmount:   row.VATAmount,
			TotalAmount: row.TotalAmount,
			Warnings:    warnings,
			Compliance: domain.ComplianceVerdict{
				Allowed:         row.Allowed,
				Reason:          row.Reason,
				Recommendation:  row.Recommendation,
				RequiresVoucher: row.RequiresVoucher,
				Risk:            domain.TaxationRisk(row.TaxationRisk),
			},
		})
	}
	return lines, results, nil
}

func (r *billRepo) SetLineVoucher(ctx context.Context, billID, lineID uuid.UUID, reference string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE bill_line_items SET is_vouched = TRUE, voucher_reference = $1 WHERE bill_id = $2 AND id = $3",
		reference, billID, lineID)
	if err != nil {
		return fmt.Errorf("billRepo.SetLineVoucher: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrLineNotFound
	}
	return nil
}

func (r *billRepo) UpdateLineVerdict(ctx context.Context, billID, lineID uuid.UUID, verdict domain.ComplianceVerdict) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE bill_line_items SET allowed = $1, reason = $2, recommendation = $3,
			requires_voucher = $4, taxation_risk = $5
		WHERE bill_id = $6 AND id = $7`,
		verdict.Allowed, verdict.Reason, verdict.Recommendation,
		verdict.RequiresVoucher, string(verdict.Risk), billID, lineID)
	if err != nil {
		return fmt.Errorf("billRepo.UpdateLineVerdict: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrLineNotFound
	}
	return nil
}
