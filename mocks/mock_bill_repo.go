package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"lexbill/internal/domain"
)

// MockBillRepo is a mock implementation of port.BillRepository.
type MockBillRepo struct {
	mock.Mock
}

func (m *MockBillRepo) Create(ctx context.Context, bill *domain.Bill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockBillRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bill), args.Error(1)
}

func (m *MockBillRepo) ListByMatter(ctx context.Context, matterID uuid.UUID) ([]domain.Bill, error) {
	args := m.Called(ctx, matterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Bill), args.Error(1)
}

func (m *MockBillRepo) Update(ctx context.Context, bill *domain.Bill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockBillRepo) AddLine(ctx context.Context, line *domain.BillLineItem, result *domain.ComputedLineResult) error {
	args := m.Called(ctx, line, result)
	return args.Error(0)
}

func (m *MockBillRepo) RemoveLine(ctx context.Context, billID, lineID uuid.UUID) error {
	args := m.Called(ctx, billID, lineID)
	return args.Error(0)
}

func (m *MockBillRepo) ListLines(ctx context.Context, billID uuid.UUID) ([]domain.BillLineItem, []domain.ComputedLineResult, error) {
	args := m.Called(ctx, billID)
	var lines []domain.BillLineItem
	var results []domain.ComputedLineResult
	if args.Get(0) != nil {
		lines = args.Get(0).([]domain.BillLineItem)
	}
	if args.Get(1) != nil {
		results = args.Get(1).([]domain.ComputedLineResult)
	}
	return lines, results, args.Error(2)
}

func (m *MockBillRepo) SetLineVoucher(ctx context.Context, billID, lineID uuid.UUID, reference string) error {
	args := m.Called(ctx, billID, lineID, reference)
	return args.Error(0)
}

func (m *MockBillRepo) UpdateLineVerdict(ctx context.Context, billID, lineID uuid.UUID, verdict domain.ComplianceVerdict) error {
	args := m.Called(ctx, billID, lineID, verdict)
	return args.Error(0)
}
