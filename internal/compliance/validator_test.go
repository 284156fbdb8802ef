package compliance_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexbill/internal/compliance"
	"lexbill/internal/domain"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func validLine() compliance.LineContext {
	return compliance.LineContext{
		BillType:    domain.BillPartyAndParty,
		CostsOrder:  domain.CostsInTheCause,
		ItemCode:    "1.1",
		Description: "Perusing the particulars of claim",
		Category:    domain.CategoryFees,
		Amount:      d("1140.00"),
		Necessary:   true,
		Reasonable:  true,
	}
}

func TestValidate_PartyAndParty(t *testing.T) {
	v := compliance.NewValidator(compliance.DefaultConfig())

	t.Run("necessary_and_reasonable_fee_allowed", func(t *testing.T) {
		verdict, err := v.Validate(validLine())
		require.NoError(t, err)
		assert.True(t, verdict.Allowed)
		assert.False(t, verdict.RequiresVoucher)
	})

	t.Run("non_recoverable_costs_order", func(t *testing.T) {
		lc := validLine()
		lc.CostsOrder = "costs_reserved"
		verdict, err := v.Validate(lc)
		require.NoError(t, err)
		assert.False(t, verdict.Allowed)
		assert.Contains(t, verdict.Reason, "costs order")
	})

	t.Run("internal_consultation_restricted", func(t *testing.T) {
		lc := validLine()
		lc.Description = "Internal consultation with senior partner re strategy"
		verdict, err := v.Validate(lc)
		require.NoError(t, err)
		assert.False(t, verdict.Allowed)
		assert.Contains(t, verdict.Reason, "internal consultations")
	})

	t.Run("not_necessary_disallowed", func(t *testing.T) {
		lc := validLine()
		lc.Necessary = false
		verdict, err := v.Validate(lc)
		require.NoError(t, err)
		assert.False(t, verdict.Allowed)
		assert.Contains(t, verdict.Reason, "necessary")
	})

	t.Run("not_reasonable_disallowed", func(t *testing.T) {
		lc := validLine()
		lc.Reasonable = false
		verdict, err := v.Validate(lc)
		require.NoError(t, err)
		assert.False(t, verdict.Allowed)
	})

	t.Run("unvouched_disbursement_blocked", func(t *testing.T) {
		lc := validLine()
		lc.Category = domain.CategoryDisbursements
		lc.Description = "Sheriff's fees for service of summons"
		lc.Vouched = false
		verdict, err := v.Validate(lc)
		require.NoError(t, err)
		assert.False(t, verdict.Allowed)
		assert.True(t, verdict.RequiresVoucher)
	})

	t.Run("vouched_disbursement_allowed", func(t *testing.T) {
		lc := validLine()
		lc.Category = domain.CategoryDisbursements
		lc.Description = "Sheriff's fees for service of summons"
		lc.Vouched = true
		verdict, err := v.Validate(lc)
		require.NoError(t, err)
		assert.True(t, verdict.Allowed)
		assert.True(t, verdict.RequiresVoucher)
	})
}

func TestValidate_AttorneyAndClient(t *testing.T) {
	v := compliance.NewValidator(compliance.DefaultConfig())

	base := func() compliance.LineContext {
		lc := validLine()
		lc.BillType = domain.BillAttorneyAndClient
		return lc
	}

	t.Run("reasonable_fee_allowed", func(t *testing.T) {
		lc := base()
		lc.Amount = d("400.00")
		verdict, err := v.Validate(lc)
		require.NoError(t, err)
		assert.True(t, verdict.Allowed)
		assert.Empty(t, verdict.Recommendation)
	})

	t.Run("research_allowed_between_attorney_and_client", func(t *testing.T) {
		// Legal research is restricted party-and-party but chargeable
		// to the client.
		lc := base()
		lc.Description = "Legal research on prescription"
		verdict, err := v.Validate(lc)
		require.NoError(t, err)
		assert.True(t, verdict.Allowed)
	})

	t.Run("referral_fee_prohibited", func(t *testing.T) {
		lc := base()
		lc.Description = "Referral fee to introducing agent"
		verdict, err := v.Validate(lc)
		require.NoError(t, err)
		assert.False(t, verdict.Allowed)
	})

	t.Run("unvouched_above_materiality_gets_recommendation", func(t *testing.T) {
		lc := base()
		lc.Amount = d("2500.00")
		lc.Vouched = false
		verdict, err := v.Validate(lc)
		require.NoError(t, err)
		assert.True(t, verdict.Allowed, "soft recommendation, not a block")
		assert.True(t, verdict.RequiresVoucher)
		assert.Contains(t, verdict.Recommendation, "voucher")
	})
}

func TestValidate_OwnClient(t *testing.T) {
	v := compliance.NewValidator(compliance.DefaultConfig())

	base := func() compliance.LineContext {
		lc := validLine()
		lc.BillType = domain.BillOwnClient
		return lc
	}

	t.Run("contract_rate_allowed", func(t *testing.T) {
		verdict, err := v.Validate(base())
		require.NoError(t, err)
		assert.True(t, verdict.Allowed)
	})

	t.Run("success_fee_blocked", func(t *testing.T) {
		lc := base()
		lc.Description = "Success fee on settlement of the claim"
		verdict, err := v.Validate(lc)
		require.NoError(t, err)
		assert.False(t, verdict.Allowed)
	})

	t.Run("high_fee_needs_justification", func(t *testing.T) {
		lc := base()
		lc.Amount = d("150000.00")
		lc.Justified = false
		verdict, err := v.Validate(lc)
		require.NoError(t, err)
		assert.False(t, verdict.Allowed)

		lc.Justified = true
		verdict, err = v.Validate(lc)
		require.NoError(t, err)
		assert.True(t, verdict.Allowed)
	})
}

func TestValidate_RiskScoring(t *testing.T) {
	v := compliance.NewValidator(compliance.DefaultConfig())

	t.Run("own_client_small_fee_low_risk", func(t *testing.T) {
		lc := validLine()
		lc.BillType = domain.BillOwnClient
		lc.Amount = d("800.00")
		verdict, err := v.Validate(lc)
		require.NoError(t, err)
		assert.Equal(t, domain.RiskLow, verdict.Risk)
	})

	t.Run("party_and_party_large_amount_medium_risk", func(t *testing.T) {
		lc := validLine()
		lc.Amount = d("20000.00")
		verdict, err := v.Validate(lc)
		require.NoError(t, err)
		assert.Equal(t, domain.RiskMedium, verdict.Risk)
	})

	t.Run("unvouched_unnecessary_disbursement_high_risk", func(t *testing.T) {
		lc := validLine()
		lc.Category = domain.CategoryDisbursements
		lc.Amount = d("20000.00")
		lc.Necessary = false
		lc.Vouched = false
		verdict, err := v.Validate(lc)
		require.NoError(t, err)
		assert.Equal(t, domain.RiskHigh, verdict.Risk)
	})
}

func TestValidate_MalformedContext(t *testing.T) {
	v := compliance.NewValidator(compliance.DefaultConfig())

	t.Run("missing_bill_type", func(t *testing.T) {
		lc := validLine()
		lc.BillType = ""
		_, err := v.Validate(lc)
		assert.Error(t, err)
	})

	t.Run("unknown_bill_type", func(t *testing.T) {
		lc := validLine()
		lc.BillType = "third_party"
		_, err := v.Validate(lc)
		assert.Error(t, err)
	})
}

func TestBlockedError(t *testing.T) {
	v := compliance.NewValidator(compliance.DefaultConfig())

	t.Run("missing_voucher_hard_blocks", func(t *testing.T) {
		lc := validLine()
		lc.Category = domain.CategoryDisbursements
		lc.Vouched = false
		verdict, err := v.Validate(lc)
		require.NoError(t, err)

		assert.ErrorIs(t, compliance.BlockedError(lc, verdict), domain.ErrMissingVoucherBlocked)
	})

	t.Run("ethics_violation_hard_blocks", func(t *testing.T) {
		lc := validLine()
		lc.BillType = domain.BillOwnClient
		lc.Description = "Contingency arrangement: 20% percentage of award"
		verdict, err := v.Validate(lc)
		require.NoError(t, err)

		assert.ErrorIs(t, compliance.BlockedError(lc, verdict), domain.ErrEthicsViolationBlocked)
	})

	t.Run("allowed_verdict_is_nil", func(t *testing.T) {
		lc := validLine()
		verdict, err := v.Validate(lc)
		require.NoError(t, err)
		assert.NoError(t, compliance.BlockedError(lc, verdict))
	})

	t.Run("soft_disallow_is_not_a_block", func(t *testing.T) {
		lc := validLine()
		lc.Necessary = false
		verdict, err := v.Validate(lc)
		require.NoError(t, err)
		assert.NoError(t, compliance.BlockedError(lc, verdict))
	})
}
