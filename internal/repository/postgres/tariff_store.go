package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"lexbill/internal/domain"
	"lexbill/internal/port"
)

type tariffStore struct {
	db *sqlx.DB
}

// NewTariffStore creates a new PostgreSQL-backed TariffStore.
func NewTariffStore(db *sqlx.DB) port.TariffStore {
	return &tariffStore{db: db}
}

// LoadSchedules reads all published tariff versions and their items,
// grouped by court type and scale. Versions within a schedule are
// ordered by effective_from descending.
func (s *tariffStore) LoadSchedules(ctx context.Context) ([]domain.TariffSchedule, error) {
	var versions []domain.TariffVersion
	err := s.db.SelectContext(ctx, &versions,
		`SELECT id, court_type, scale, effective_from, effective_to, gazette_ref
		FROM tariff_versions
		ORDER BY court_type, scale, effective_from DESC`)
	if err != nil {
		return nil, fmt.Errorf("tariffStore.LoadSchedules versions: %w", err)
	}
	if len(versions) == 0 {
		return nil, nil
	}

	for i := range versions {
		var items []domain.TariffRateItem
		err = s.db.SelectContext(ctx, &items,
			`SELECT item_code, label, description, rate, unit,
				minimum_units, maximum_units, cap_amount,
				vat_applicable, category, subcategory
			FROM tariff_rate_items WHERE version_id = $1 ORDER BY item_code`,
			versions[i].ID)
		if err != nil {
			return nil, fmt.Errorf("tariffStore.LoadSchedules items: %w", err)
		}
		versions[i].Items = items
	}

	var schedules []domain.TariffSchedule
	for _, v := range versions {
		if n := len(schedules); n > 0 &&
			schedules[n-1].CourtType == v.CourtType && schedules[n-1].Scale == v.Scale {
			schedules[n-1].Versions = append(schedules[n-1].Versions, v)
			continue
		}
		schedules = append(schedules, domain.TariffSchedule{
			CourtType: v.CourtType,
			Scale:     v.Scale,
			Versions:  []domain.TariffVersion{v},
		})
	}
	return schedules, nil
}
