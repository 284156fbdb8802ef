// Package compliance decides whether a bill line item is allowable
// under its bill type and costs order, and grades its taxation risk.
// Verdicts are advisory aids for the practitioner, not legal
// determinations; "not allowed" is an expected outcome, never an error.
package compliance

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"lexbill/internal/domain"
)

// LineContext bundles everything the validator needs about one line.
type LineContext struct {
	BillType    domain.BillType
	CostsOrder  domain.CostsOrder
	ItemCode    string
	Description string
	Category    domain.ItemCategory
	Amount      decimal.Decimal
	Necessary   bool
	Reasonable  bool
	Vouched     bool
	Justified   bool
}

var errMissingBillType = errors.New("line context is missing a bill type")

// Weights are the advisory taxation-risk scoring inputs. They are
// heuristics, not cited rules; callers may tune them per firm.
type Weights struct {
	BillType        map[domain.BillType]int
	AmountTiers     []AmountTier
	MissingVoucher  int
	NecessityFail   int
	Reasonablenes   int
	MediumThreshold int
	HighThreshold   int
}

// AmountTier maps an amount ceiling to a risk weight. Tiers are checked
// in order; the first ceiling the amount does not exceed applies.
type AmountTier struct {
	UpTo   decimal.Decimal
	Weight int
}

// DefaultWeights returns the standard advisory scoring: party-and-party
// scrutiny is the strictest, own-client the most lenient.
func DefaultWeights() Weights {
	return Weights{
		BillType: map[domain.BillType]int{
			domain.BillPartyAndParty:     3,
			domain.BillAttorneyAndClient: 2,
			domain.BillOwnClient:         1,
		},
		AmountTiers: []AmountTier{
			{UpTo: decimal.New(1000, 0), Weight: 0},
			{UpTo: decimal.New(10000, 0), Weight: 1},
			{UpTo: decimal.New(50000, 0), Weight: 2},
		},
		MissingVoucher:  2,
		NecessityFail:   2,
		Reasonablenes:   2,
		MediumThreshold: 4,
		HighThreshold:   7,
	}
}

// Config carries the validator's tunable thresholds.
type Config struct {
	// MaterialityThreshold is the amount above which attorney-and-client
	// items are expected to be vouched.
	MaterialityThreshold decimal.Decimal
	// HighFeeThreshold is the own-client amount above which a written
	// justification flag is required.
	HighFeeThreshold decimal.Decimal
	Weights          Weights
}

// DefaultConfig returns the standard thresholds: 500 materiality,
// 100 000 high-fee.
func DefaultConfig() Config {
	return Config{
		MaterialityThreshold: decimal.New(500, 0),
		HighFeeThreshold:     decimal.New(100000, 0),
		Weights:              DefaultWeights(),
	}
}

// Validator evaluates billing-scope rules. It holds only immutable
// configuration and is safe for concurrent use.
type Validator struct {
	cfg         Config
	ppRules     []RestrictionRule
	acRules     []RestrictionRule
	ethicsRules []RestrictionRule
}

// NewValidator creates a Validator with the given thresholds and the
// built-in restriction rule lists.
func NewValidator(cfg Config) *Validator {
	if cfg.MaterialityThreshold.IsZero() {
		cfg.MaterialityThreshold = decimal.New(500, 0)
	}
	if cfg.HighFeeThreshold.IsZero() {
		cfg.HighFeeThreshold = decimal.New(100000, 0)
	}
	if cfg.Weights.BillType == nil {
		cfg.Weights = DefaultWeights()
	}
	return &Validator{
		cfg:         cfg,
		ppRules:     PartyAndPartyRestrictions(),
		acRules:     AttorneyClientRestrictions(),
		ethicsRules: OwnClientEthicsRules(),
	}
}

// Validate returns a verdict for the line. It errors only on a
// malformed context; every well-formed line gets a verdict, allowed or
// not.
func (v *Validator) Validate(lc LineContext) (domain.ComplianceVerdict, error) {
	if lc.BillType == "" {
		return domain.ComplianceVerdict{}, errMissingBillType
	}
	if !domain.ValidBillTypes[lc.BillType] {
		return domain.ComplianceVerdict{}, fmt.Errorf("unknown bill type %q", lc.BillType)
	}

	var verdict domain.ComplianceVerdict
	switch lc.BillType {
	case domain.BillPartyAndParty:
		verdict = v.validatePartyAndParty(lc)
	case domain.BillAttorneyAndClient:
		verdict = v.validateAttorneyAndClient(lc)
	case domain.BillOwnClient:
		verdict = v.validateOwnClient(lc)
	}

	verdict.Risk = v.scoreRisk(lc, verdict)
	return verdict, nil
}

func (v *Validator) validatePartyAndParty(lc LineContext) domain.ComplianceVerdict {
	if !domain.RecoverableOrders[lc.CostsOrder] {
		return domain.ComplianceVerdict{
			Allowed: false,
			Reason:  fmt.Sprintf("the costs order %q does not support recovery between the parties", lc.CostsOrder),
		}
	}
	if rule := matchRestriction(v.ppRules, lc.Description); rule != nil {
		return domain.ComplianceVerdict{Allowed: false, Reason: rule.Reason}
	}
	if !lc.Necessary {
		return domain.ComplianceVerdict{
			Allowed: false,
			Reason:  "only costs necessary for the conduct of the litigation are recoverable between parties",
		}
	}
	if !lc.Reasonable {
		return domain.ComplianceVerdict{
			Allowed: false,
			Reason:  "the amount claimed is not reasonable for the work described",
		}
	}
	if lc.Category == domain.CategoryDisbursements {
		if !lc.Vouched {
			// Hard block: the taxing master disallows unvouched
			// disbursements outright.
			return domain.ComplianceVerdict{
				Allowed:         false,
				RequiresVoucher: true,
				Reason:          "disbursement cannot be allowed on taxation without a supporting voucher",
			}
		}
		return domain.ComplianceVerdict{Allowed: true, RequiresVoucher: true}
	}
	return domain.ComplianceVerdict{Allowed: true}
}

func (v *Validator) validateAttorneyAndClient(lc LineContext) domain.ComplianceVerdict {
	if rule := matchRestriction(v.acRules, lc.Description); rule != nil {
		return domain.ComplianceVerdict{Allowed: false, Reason: rule.Reason}
	}
	if !lc.Reasonable {
		return domain.ComplianceVerdict{
			Allowed: false,
			Reason:  "the amount claimed is not reasonable for the work described",
		}
	}
	verdict := domain.ComplianceVerdict{Allowed: true}
	if lc.Amount.GreaterThan(v.cfg.MaterialityThreshold) {
		verdict.RequiresVoucher = true
		if !lc.Vouched {
			verdict.Recommendation = fmt.Sprintf(
				"attach a voucher: amounts above %s are likely to be queried on review",
				v.cfg.MaterialityThreshold.StringFixed(2))
		}
	}
	return verdict
}

func (v *Validator) validateOwnClient(lc LineContext) domain.ComplianceVerdict {
	if rule := matchRestriction(v.ethicsRules, lc.Description); rule != nil {
		return domain.ComplianceVerdict{Allowed: false, Reason: rule.Reason}
	}
	if lc.Amount.GreaterThan(v.cfg.HighFeeThreshold) && !lc.Justified {
		return domain.ComplianceVerdict{
			Allowed: false,
			Reason: fmt.Sprintf(
				"fees above %s require a recorded written justification",
				v.cfg.HighFeeThreshold.StringFixed(2)),
		}
	}
	return domain.ComplianceVerdict{Allowed: true}
}

// scoreRisk computes the advisory taxation-risk band from the weighted
// factors.
func (v *Validator) scoreRisk(lc LineContext, verdict domain.ComplianceVerdict) domain.TaxationRisk {
	w := v.cfg.Weights
	score := w.BillType[lc.BillType]
	score += v.amountWeight(lc.Amount)
	if verdict.RequiresVoucher && !lc.Vouched {
		score += w.MissingVoucher
	}
	if !lc.Necessary && lc.BillType == domain.BillPartyAndParty {
		score += w.NecessityFail
	}
	if !lc.Reasonable {
		score += w.Reasonablenes
	}
	switch {
	case score >= w.HighThreshold:
		return domain.RiskHigh
	case score >= w.MediumThreshold:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

func (v *Validator) amountWeight(amount decimal.Decimal) int {
	for _, tier := range v.cfg.Weights.AmountTiers {
		if !amount.GreaterThan(tier.UpTo) {
			return tier.Weight
		}
	}
	return len(v.cfg.Weights.AmountTiers)
}

// BlockedError maps a disallowed verdict to its sentinel error, for
// callers that must fail hard (bill finalization). Returns nil for
// allowed verdicts.
func BlockedError(lc LineContext, verdict domain.ComplianceVerdict) error {
	if verdict.Allowed {
		return nil
	}
	if verdict.RequiresVoucher && !lc.Vouched && lc.BillType == domain.BillPartyAndParty {
		return domain.ErrMissingVoucherBlocked
	}
	if lc.BillType == domain.BillOwnClient {
		if rule := matchRestriction(OwnClientEthicsRules(), lc.Description); rule != nil {
			return domain.ErrEthicsViolationBlocked
		}
	}
	return nil
}
