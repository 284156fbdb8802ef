package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"lexbill/internal/domain"
	"lexbill/internal/forum"
	"lexbill/internal/port"
)

// CreateMatterInput is the DTO for creating a matter. CourtType and
// Scale are optional; when omitted the forum is detected from the claim
// value and matter type.
type CreateMatterInput struct {
	Reference     string             `json:"reference" binding:"required"`
	Description   string             `json:"description"`
	MatterType    domain.MatterType  `json:"matter_type"`
	CourtType     domain.CourtType   `json:"court_type"`
	Scale         domain.TariffScale `json:"scale"`
	ClaimValue    decimal.Decimal    `json:"claim_value"`
	AttorneyName  string             `json:"attorney_name"`
	AttorneyEmail string             `json:"attorney_email"`
}

// UpdateMatterInput is the DTO for updating a matter. Nil fields are
// left unchanged.
type UpdateMatterInput struct {
	Description   *string `json:"description"`
	AttorneyName  *string `json:"attorney_name"`
	AttorneyEmail *string `json:"attorney_email"`
}

// MatterService defines the matter management contract.
type MatterService interface {
	Create(ctx context.Context, input CreateMatterInput) (*domain.Matter, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Matter, error)
	List(ctx context.Context, offset, limit int) ([]domain.Matter, int, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateMatterInput) (*domain.Matter, error)
}

type matterService struct {
	repo port.MatterRepository
}

// NewMatterService creates a new MatterService implementation.
func NewMatterService(repo port.MatterRepository) MatterService {
	return &matterService{repo: repo}
}

func (s *matterService) Create(ctx context.Context, input CreateMatterInput) (*domain.Matter, error) {
	if input.MatterType == "" {
		input.MatterType = domain.MatterOrdinary
	}
	if input.CourtType == "" || input.Scale == "" {
		f := forum.Detect(input.ClaimValue, input.MatterType)
		input.CourtType = f.CourtType
		input.Scale = f.Scale
	}
	matter := &domain.Matter{
		ID:            uuid.New(),
		Reference:     input.Reference,
		Description:   input.Description,
		MatterType:    input.MatterType,
		CourtType:     input.CourtType,
		Scale:         input.Scale,
		ClaimValue:    input.ClaimValue,
		AttorneyName:  input.AttorneyName,
		AttorneyEmail: input.AttorneyEmail,
	}
	if err := s.repo.Create(ctx, matter); err != nil {
		return nil, err
	}
	return matter, nil
}

func (s *matterService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Matter, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *matterService) List(ctx context.Context, offset, limit int) ([]domain.Matter, int, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *matterService) Update(ctx context.Context, id uuid.UUID, input UpdateMatterInput) (*domain.Matter, error) {
	matter, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Description != nil {
		matter.Description = *input.Description
	}
	if input.AttorneyName != nil {
		matter.AttorneyName = *input.AttorneyName
	}
	if input.AttorneyEmail != nil {
		matter.AttorneyEmail = *input.AttorneyEmail
	}
	if err := s.repo.Update(ctx, matter); err != nil {
		return nil, err
	}
	return matter, nil
}
