package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lexbill/internal/domain"
)

// MockTariffStore is a mock implementation of port.TariffStore.
type MockTariffStore struct {
	mock.Mock
}

func (m *MockTariffStore) LoadSchedules(ctx context.Context) ([]domain.TariffSchedule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TariffSchedule), args.Error(1)
}
