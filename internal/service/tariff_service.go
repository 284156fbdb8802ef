package service

import (
	"context"
	"log"
	"time"

	"lexbill/internal/domain"
	"lexbill/internal/port"
	"lexbill/internal/tariff"
)

// TariffService exposes rate resolution and schedule administration.
type TariffService interface {
	Resolve(court domain.CourtType, scale domain.TariffScale, itemCode string, onDate time.Time) (*tariff.Resolution, error)
	Schedules() []domain.TariffSchedule
	Reload(ctx context.Context) (int, error)
}

type tariffService struct {
	repo  *tariff.Repository
	store port.TariffStore
}

// NewTariffService creates a new TariffService implementation.
func NewTariffService(repo *tariff.Repository, store port.TariffStore) TariffService {
	return &tariffService{repo: repo, store: store}
}

func (s *tariffService) Resolve(court domain.CourtType, scale domain.TariffScale, itemCode string, onDate time.Time) (*tariff.Resolution, error) {
	return s.repo.ResolveRate(court, scale, itemCode, onDate)
}

func (s *tariffService) Schedules() []domain.TariffSchedule {
	return s.repo.Schedules()
}

// Reload atomically swaps the in-memory snapshot with the schedules
// currently published in the store. An empty store falls back to the
// built-in gazette defaults so the engine never runs without rates.
func (s *tariffService) Reload(ctx context.Context) (int, error) {
	schedules, err := s.store.LoadSchedules(ctx)
	if err != nil {
		return 0, err
	}
	if len(schedules) == 0 {
		log.Printf("tariffService.Reload: store is empty, loading built-in default schedules")
		schedules = tariff.DefaultSchedules()
	}
	s.repo.Reload(schedules)
	return len(schedules), nil
}
