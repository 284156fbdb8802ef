// Package calc prices a resolved tariff item for a requested quantity:
// time rounding, minimum/maximum clamping, amount cap and VAT, in that
// order. All arithmetic is decimal; amounts are rounded to cents.
package calc

import (
	"fmt"

	"github.com/shopspring/decimal"

	"lexbill/internal/domain"
)

// Config carries the engagement-level calculation settings. They are
// firm settings injected by the caller, never hard-coded in the engine.
type Config struct {
	// VATRate is the VAT fraction, e.g. 0.15.
	VATRate decimal.Decimal
	// TimeRoundingMinutes is the increment time quantities round up to:
	// 6, 15 or 30.
	TimeRoundingMinutes int
	// VATVendor is whether the billing party is a registered VAT vendor.
	// When false no line ever attracts VAT, regardless of the item.
	VATVendor bool
}

// DefaultConfig returns the standard engagement settings: 15% VAT,
// 15-minute rounding, registered vendor.
func DefaultConfig() Config {
	return Config{
		VATRate:             decimal.NewFromFloat(0.15),
		TimeRoundingMinutes: 15,
		VATVendor:           true,
	}
}

// LineAmounts is the monetary breakdown for a single computed line.
type LineAmounts struct {
	Quantity    decimal.Decimal
	RateApplied decimal.Decimal
	AmountExVAT decimal.Decimal
	VATAmount   decimal.Decimal
	TotalAmount decimal.Decimal
	Warnings    []string
}

// Engine applies the per-item monetary calculation rules. Construct one
// per engagement with the firm's settings; it holds no mutable state.
type Engine struct {
	cfg       Config
	increment decimal.Decimal
}

// NewEngine creates an Engine. A zero or unrecognised rounding increment
// falls back to the 15-minute default.
func NewEngine(cfg Config) *Engine {
	switch cfg.TimeRoundingMinutes {
	case 6, 15, 30:
	default:
		cfg.TimeRoundingMinutes = 15
	}
	if cfg.VATRate.IsZero() {
		cfg.VATRate = decimal.NewFromFloat(0.15)
	}
	return &Engine{
		cfg:       cfg,
		increment: decimal.New(int64(cfg.TimeRoundingMinutes), 0).Div(decimal.New(60, 0)),
	}
}

// ComputeLine prices a rate item for the requested quantity.
//
// Steps, in order: reject non-positive quantities; round time units up
// to the configured increment; raise to the item minimum; lower to the
// item maximum; amount = quantity x rate; apply the cap to the amount;
// VAT if the item is VATable and the firm is a vendor. Each adjustment
// appends a warning.
func (e *Engine) ComputeLine(item domain.TariffRateItem, requestedQty decimal.Decimal) (*LineAmounts, error) {
	if requestedQty.Sign() <= 0 {
		return nil, fmt.Errorf("item %s: %w", item.ItemCode, domain.ErrInvalidQuantity)
	}
	if item.Unit == domain.UnitActualCost && item.Rate.IsZero() {
		// Zero rate on an actual-cost unit is a pass-through sentinel,
		// not a zero price.
		return nil, fmt.Errorf("item %s: %w", item.ItemCode, domain.ErrActualCostRequired)
	}

	var warnings []string
	qty := requestedQty

	if item.Unit.IsTime() {
		rounded := roundUpToIncrement(qty, e.increment)
		if !rounded.Equal(qty) {
			warnings = append(warnings, fmt.Sprintf(
				"time rounded up from %s to %s hours (%d-minute increment)",
				qty.String(), rounded.String(), e.cfg.TimeRoundingMinutes))
			qty = rounded
		}
	}

	if item.MinimumUnits != nil && qty.LessThan(*item.MinimumUnits) {
		warnings = append(warnings, fmt.Sprintf(
			"quantity %s raised to tariff minimum %s", qty.String(), item.MinimumUnits.String()))
		qty = *item.MinimumUnits
	}

	if item.MaximumUnits != nil && qty.GreaterThan(*item.MaximumUnits) {
		warnings = append(warnings, fmt.Sprintf(
			"quantity %s reduced to tariff maximum %s", qty.String(), item.MaximumUnits.String()))
		qty = *item.MaximumUnits
	}

	amount := qty.Mul(item.Rate).Round(2)

	if item.CapAmount != nil && amount.GreaterThan(*item.CapAmount) {
		warnings = append(warnings, fmt.Sprintf(
			"amount %s capped at %s", amount.StringFixed(2), item.CapAmount.StringFixed(2)))
		amount = *item.CapAmount
	}

	vat := e.vatOn(amount, item.VATApplicable)

	return &LineAmounts{
		Quantity:    qty,
		RateApplied: item.Rate,
		AmountExVAT: amount,
		VATAmount:   vat,
		TotalAmount: amount.Add(vat),
		Warnings:    warnings,
	}, nil
}

// ComputeDisbursement prices a pass-through item whose amount is
// supplied externally (counsel fees, sheriff's fees and other vouched
// disbursements). The cap still applies to the supplied amount.
func (e *Engine) ComputeDisbursement(item domain.TariffRateItem, actualAmount decimal.Decimal) (*LineAmounts, error) {
	if actualAmount.Sign() <= 0 {
		return nil, fmt.Errorf("item %s: %w", item.ItemCode, domain.ErrInvalidQuantity)
	}

	var warnings []string
	amount := actualAmount.Round(2)

	if item.CapAmount != nil && amount.GreaterThan(*item.CapAmount) {
		warnings = append(warnings, fmt.Sprintf(
			"amount %s capped at %s", amount.StringFixed(2), item.CapAmount.StringFixed(2)))
		amount = *item.CapAmount
	}

	vat := e.vatOn(amount, item.VATApplicable)

	return &LineAmounts{
		Quantity:    decimal.New(1, 0),
		RateApplied: amount,
		AmountExVAT: amount,
		VATAmount:   vat,
		TotalAmount: amount.Add(vat),
		Warnings:    warnings,
	}, nil
}

func (e *Engine) vatOn(amount decimal.Decimal, applicable bool) decimal.Decimal {
	if !applicable || !e.cfg.VATVendor {
		return decimal.Zero
	}
	return amount.Mul(e.cfg.VATRate).Round(2)
}

// roundUpToIncrement rounds q up to the nearest multiple of inc. It is
// idempotent: a quantity already on the increment passes unchanged.
func roundUpToIncrement(q, inc decimal.Decimal) decimal.Decimal {
	return q.Div(inc).Ceil().Mul(inc)
}
