package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Matter represents a legal matter for which costs are billed.
type Matter struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	Reference     string          `db:"reference" json:"reference"`
	Description   string          `db:"description" json:"description"`
	MatterType    MatterType      `db:"matter_type" json:"matter_type"`
	CourtType     CourtType       `db:"court_type" json:"court_type"`
	Scale         TariffScale     `db:"scale" json:"scale"`
	ClaimValue    decimal.Decimal `db:"claim_value" json:"claim_value"`
	AttorneyName  string          `db:"attorney_name" json:"attorney_name"`
	AttorneyEmail string          `db:"attorney_email" json:"attorney_email"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// TariffRateItem is a single chargeable item within a tariff version.
// Immutable once published; a rate change creates a new TariffVersion.
type TariffRateItem struct {
	ItemCode      string           `db:"item_code" json:"item_code"`
	Label         string           `db:"label" json:"label"`
	Description   string           `db:"description" json:"description"`
	Rate          decimal.Decimal  `db:"rate" json:"rate"`
	Unit          TariffUnit       `db:"unit" json:"unit"`
	MinimumUnits  *decimal.Decimal `db:"minimum_units" json:"minimum_units,omitempty"`
	MaximumUnits  *decimal.Decimal `db:"maximum_units" json:"maximum_units,omitempty"`
	CapAmount     *decimal.Decimal `db:"cap_amount" json:"cap_amount,omitempty"`
	VATApplicable bool             `db:"vat_applicable" json:"vat_applicable"`
	Category      ItemCategory     `db:"category" json:"category"`
	Subcategory   string           `db:"subcategory" json:"subcategory,omitempty"`
}

// TariffVersion is one published revision of a tariff schedule. A nil
// EffectiveTo means the version is open-ended. Ranges are half-open:
// [EffectiveFrom, EffectiveTo).
type TariffVersion struct {
	ID            uuid.UUID        `db:"id" json:"id"`
	CourtType     CourtType        `db:"court_type" json:"court_type"`
	Scale         TariffScale      `db:"scale" json:"scale"`
	EffectiveFrom time.Time        `db:"effective_from" json:"effective_from"`
	EffectiveTo   *time.Time       `db:"effective_to" json:"effective_to,omitempty"`
	GazetteRef    string           `db:"gazette_ref" json:"gazette_ref"`
	Items         []TariffRateItem `json:"items"`
}

// InForceOn reports whether the version's range contains the date.
func (v *TariffVersion) InForceOn(d time.Time) bool {
	if d.Before(v.EffectiveFrom) {
		return false
	}
	return v.EffectiveTo == nil || d.Before(*v.EffectiveTo)
}

// TariffSchedule groups the versions published for one court and scale,
// ordered by EffectiveFrom descending. At most one version's range
// contains any given date.
type TariffSchedule struct {
	CourtType CourtType       `json:"court_type"`
	Scale     TariffScale     `json:"scale"`
	Versions  []TariffVersion `json:"versions"`
}

// BillLineItem is a unit of billable work supplied by the caller. The
// raw item is retained alongside its computed amounts for audit and
// taxation purposes, never discarded.
type BillLineItem struct {
	ID               uuid.UUID        `db:"id" json:"id"`
	BillID           uuid.UUID        `db:"bill_id" json:"bill_id"`
	Position         int              `db:"position" json:"position"`
	Date             time.Time        `db:"work_date" json:"date"`
	ItemCode         string           `db:"item_code" json:"item_code"`
	Quantity         decimal.Decimal  `db:"quantity" json:"quantity"`
	Unit             TariffUnit       `db:"unit" json:"unit"`
	Narrative        string           `db:"narrative" json:"narrative"`
	IsVouched        bool             `db:"is_vouched" json:"is_vouched"`
	VoucherReference string           `db:"voucher_reference" json:"voucher_reference,omitempty"`
	Necessary        bool             `db:"necessary" json:"necessary"`
	Reasonable       bool             `db:"reasonable" json:"reasonable"`
	Justified        bool             `db:"justified" json:"justified"`
	ActualAmount     *decimal.Decimal `db:"actual_amount" json:"actual_amount,omitempty"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
}

// ComplianceVerdict is the billing-scope decision for a single line.
// An advisory aid for the practitioner, not a legal determination.
type ComplianceVerdict struct {
	Allowed         bool         `db:"allowed" json:"allowed"`
	Reason          string       `db:"reason" json:"reason,omitempty"`
	Recommendation  string       `db:"recommendation" json:"recommendation,omitempty"`
	RequiresVoucher bool         `db:"requires_voucher" json:"requires_voucher"`
	Risk            TaxationRisk `db:"taxation_risk" json:"taxation_risk"`
}

// ComputedLineResult is the priced and validated outcome for one line.
type ComputedLineResult struct {
	LineID      uuid.UUID         `json:"line_id"`
	ItemCode    string            `json:"item_code"`
	Label       string            `json:"label"`
	Category    ItemCategory      `json:"category"`
	Quantity    decimal.Decimal   `json:"quantity"`
	RateApplied decimal.Decimal   `json:"rate_applied"`
	AmountExVAT decimal.Decimal   `json:"amount_ex_vat"`
	VATAmount   decimal.Decimal   `json:"vat_amount"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Warnings    []string          `json:"warnings,omitempty"`
	Compliance  ComplianceVerdict `json:"compliance"`
}

// BillTotals aggregates a bill's computed lines. Recomputed in full on
// every change, never patched incrementally.
type BillTotals struct {
	SubtotalFees          decimal.Decimal `json:"subtotal_fees"`
	SubtotalDisbursements decimal.Decimal `json:"subtotal_disbursements"`
	SubtotalCounsel       decimal.Decimal `json:"subtotal_counsel"`
	TotalVAT              decimal.Decimal `json:"total_vat"`
	GrandTotal            decimal.Decimal `json:"grand_total"`
}

// Bill owns an ordered sequence of computed line results. Order is
// insertion order, relevant for display only.
type Bill struct {
	ID          uuid.UUID            `db:"id" json:"id"`
	MatterID    uuid.UUID            `db:"matter_id" json:"matter_id"`
	BillType    BillType             `db:"bill_type" json:"bill_type"`
	CostsOrder  CostsOrder           `db:"costs_order" json:"costs_order"`
	Status      BillStatus           `db:"status" json:"status"`
	Lines       []BillLineItem       `json:"lines,omitempty"`
	Results     []ComputedLineResult `json:"results,omitempty"`
	Totals      BillTotals           `json:"totals"`
	FinalizedAt *time.Time           `db:"finalized_at" json:"finalized_at,omitempty"`
	CreatedAt   time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time            `db:"updated_at" json:"updated_at"`
}

// TaxationSchedule is the business-day timetable computed when a bill
// is finalized.
type TaxationSchedule struct {
	BillID             uuid.UUID `json:"bill_id"`
	FinalizedOn        time.Time `json:"finalized_on"`
	InspectionDeadline time.Time `json:"inspection_deadline"`
	ObjectionDeadline  time.Time `json:"objection_deadline"`
	SetDownDate        time.Time `json:"set_down_date"`
	Adjusted           bool      `json:"adjusted"`
	AdjustmentReason   string    `json:"adjustment_reason,omitempty"`
}
