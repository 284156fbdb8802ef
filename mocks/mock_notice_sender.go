package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lexbill/internal/domain"
)

// MockNoticeSender is a mock implementation of port.NoticeSender.
type MockNoticeSender struct {
	mock.Mock
}

func (m *MockNoticeSender) SendTaxationNotice(ctx context.Context, toEmail, toName string, schedule domain.TaxationSchedule) error {
	args := m.Called(ctx, toEmail, toName, schedule)
	return args.Error(0)
}
