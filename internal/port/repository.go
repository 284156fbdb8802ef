package port

import (
	"context"

	"github.com/google/uuid"

	"lexbill/internal/domain"
)

// MatterRepository defines the contract for matter persistence.
type MatterRepository interface {
	Create(ctx context.Context, matter *domain.Matter) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Matter, error)
	List(ctx context.Context, offset, limit int) ([]domain.Matter, int, error)
	Update(ctx context.Context, matter *domain.Matter) error
}

// BillRepository defines the contract for bill and line-item
// persistence. Raw line items are retained alongside computed amounts
// for audit purposes.
type BillRepository interface {
	Create(ctx context.Context, bill *domain.Bill) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Bill, error)
	ListByMatter(ctx context.Context, matterID uuid.UUID) ([]domain.Bill, error)
	Update(ctx context.Context, bill *domain.Bill) error
	AddLine(ctx context.Context, line *domain.BillLineItem, result *domain.ComputedLineResult) error
	RemoveLine(ctx context.Context, billID, lineID uuid.UUID) error
	ListLines(ctx context.Context, billID uuid.UUID) ([]domain.BillLineItem, []domain.ComputedLineResult, error)
	SetLineVoucher(ctx context.Context, billID, lineID uuid.UUID, reference string) error
	UpdateLineVerdict(ctx context.Context, billID, lineID uuid.UUID, verdict domain.ComplianceVerdict) error
}

// TariffStore loads published tariff schedules for the in-memory
// repository snapshot.
type TariffStore interface {
	LoadSchedules(ctx context.Context) ([]domain.TariffSchedule, error)
}
