package tariff_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexbill/internal/domain"
	"lexbill/internal/tariff"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return v
}

func newRepo(t *testing.T) *tariff.Repository {
	t.Helper()
	return tariff.NewRepository(tariff.DefaultSchedules())
}

func TestResolveRate_VersionSelection(t *testing.T) {
	r := newRepo(t)

	t.Run("current_version", func(t *testing.T) {
		res, err := r.ResolveRate(domain.MagistratesCourt, domain.ScaleA, "1.1", day(2024, time.June, 1))
		require.NoError(t, err)

		assert.Equal(t, "285", res.Item.Rate.String())
		assert.False(t, res.FallbackApplied)
		assert.False(t, res.FuzzyMatched)
		assert.Equal(t, day(2024, time.April, 12), res.Version.EffectiveFrom)
	})

	t.Run("historical_work_date_uses_old_version", func(t *testing.T) {
		// Work done in 2023 is billed at the 2022 rates even though a
		// newer version has since been published.
		res, err := r.ResolveRate(domain.MagistratesCourt, domain.ScaleA, "1.1", day(2023, time.June, 1))
		require.NoError(t, err)

		assert.Equal(t, "241", res.Item.Rate.String())
		assert.False(t, res.FallbackApplied)
	})

	t.Run("version_boundary_is_half_open", func(t *testing.T) {
		// On the effective date itself the new version applies.
		res, err := r.ResolveRate(domain.MagistratesCourt, domain.ScaleA, "1.1", day(2024, time.April, 12))
		require.NoError(t, err)
		assert.Equal(t, "285", res.Item.Rate.String())

		// The day before still belongs to the old version.
		res, err = r.ResolveRate(domain.MagistratesCourt, domain.ScaleA, "1.1", day(2024, time.April, 11))
		require.NoError(t, err)
		assert.Equal(t, "241", res.Item.Rate.String())
	})

	t.Run("date_before_all_versions", func(t *testing.T) {
		_, err := r.ResolveRate(domain.MagistratesCourt, domain.ScaleA, "1.1", day(2020, time.January, 1))
		assert.ErrorIs(t, err, domain.ErrNoTariffInForce)
	})

	t.Run("unknown_schedule", func(t *testing.T) {
		_, err := r.ResolveRate(domain.RegionalCourt, domain.ScaleA, "1.1", day(2024, time.June, 1))
		assert.ErrorIs(t, err, domain.ErrScheduleNotFound)
	})
}

func TestResolveRate_FallbackInGap(t *testing.T) {
	// A schedule whose open version ends before the work date: the most
	// recent version is applied and the resolution is flagged.
	to := day(2023, time.January, 1)
	schedules := []domain.TariffSchedule{{
		CourtType: domain.MagistratesCourt,
		Scale:     domain.ScaleA,
		Versions: []domain.TariffVersion{{
			CourtType:     domain.MagistratesCourt,
			Scale:         domain.ScaleA,
			EffectiveFrom: day(2022, time.January, 1),
			EffectiveTo:   &to,
			Items: []domain.TariffRateItem{
				{ItemCode: "1.1", Label: "Perusal of documents", Rate: decimalFromString(t, "241.00"), Unit: domain.UnitPerPage, Category: domain.CategoryFees},
			},
		}},
	}}
	r := tariff.NewRepository(schedules)

	res, err := r.ResolveRate(domain.MagistratesCourt, domain.ScaleA, "1.1", day(2024, time.June, 1))
	require.NoError(t, err)
	assert.True(t, res.FallbackApplied)
}

func TestResolveRate_ItemLookup(t *testing.T) {
	r := newRepo(t)
	onDate := day(2024, time.June, 1)

	t.Run("exact_code_wins", func(t *testing.T) {
		res, err := r.ResolveRate(domain.MagistratesCourt, domain.ScaleA, "2.1", onDate)
		require.NoError(t, err)
		assert.Equal(t, "Consultation", res.Item.Label)
		assert.False(t, res.FuzzyMatched)
	})

	t.Run("fuzzy_label_match", func(t *testing.T) {
		res, err := r.ResolveRate(domain.MagistratesCourt, domain.ScaleA, "perusal", onDate)
		require.NoError(t, err)
		assert.Equal(t, "1.1", res.Item.ItemCode)
		assert.True(t, res.FuzzyMatched)
	})

	t.Run("fuzzy_description_match", func(t *testing.T) {
		res, err := r.ResolveRate(domain.MagistratesCourt, domain.ScaleA, "sheriff", onDate)
		require.NoError(t, err)
		assert.Equal(t, "6.1", res.Item.ItemCode)
		assert.True(t, res.FuzzyMatched)
	})

	t.Run("no_match", func(t *testing.T) {
		_, err := r.ResolveRate(domain.MagistratesCourt, domain.ScaleA, "99.9", onDate)
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
	})
}

func TestReload_SwapsSnapshot(t *testing.T) {
	r := newRepo(t)

	res, err := r.ResolveRate(domain.HighCourt, domain.ScaleHighCourt, "A1", day(2024, time.June, 1))
	require.NoError(t, err)
	assert.Equal(t, "478", res.Item.Rate.String())

	// Reload with a single-schedule snapshot; the High Court schedule
	// is gone and the replacement rate is visible.
	r.Reload([]domain.TariffSchedule{{
		CourtType: domain.HighCourt,
		Scale:     domain.ScaleHighCourt,
		Versions: []domain.TariffVersion{{
			CourtType:     domain.HighCourt,
			Scale:         domain.ScaleHighCourt,
			EffectiveFrom: day(2024, time.January, 1),
			Items: []domain.TariffRateItem{
				{ItemCode: "A1", Label: "Perusal of documents", Rate: decimalFromString(t, "500.00"), Unit: domain.UnitPerPage, Category: domain.CategoryFees},
			},
		}},
	}})

	res, err = r.ResolveRate(domain.HighCourt, domain.ScaleHighCourt, "A1", day(2024, time.June, 1))
	require.NoError(t, err)
	assert.Equal(t, "500", res.Item.Rate.String())

	_, err = r.ResolveRate(domain.MagistratesCourt, domain.ScaleA, "1.1", day(2024, time.June, 1))
	assert.ErrorIs(t, err, domain.ErrScheduleNotFound)
}

func TestSchedules_SortedAndComplete(t *testing.T) {
	r := newRepo(t)
	schedules := r.Schedules()

	require.NotEmpty(t, schedules)
	for i := 1; i < len(schedules); i++ {
		prev, cur := schedules[i-1], schedules[i]
		if prev.CourtType == cur.CourtType {
			assert.True(t, prev.Scale < cur.Scale)
		}
	}
}
