package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"lexbill/internal/domain"
	"lexbill/internal/port"
)

type matterRepo struct {
	db *sqlx.DB
}

// NewMatterRepo creates a new PostgreSQL-backed MatterRepository.
func NewMatterRepo(db *sqlx.DB) port.MatterRepository {
	return &matterRepo{db: db}
}

func (r *matterRepo) Create(ctx context.Context, matter *domain.Matter) error {
	if matter.ID == uuid.Nil {
		matter.ID = uuid.New()
	}
	now := time.Now().UTC()
	matter.CreatedAt = now
	matter.UpdatedAt = now

	query := `INSERT INTO matters (
		id, reference, description, matter_type, court_type, scale,
		claim_value, attorney_name, attorney_email, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		matter.ID, matter.Reference, matter.Description, matter.MatterType,
		matter.CourtType, matter.Scale, matter.ClaimValue,
		matter.AttorneyName, matter.AttorneyEmail, matter.CreatedAt, matter.UpdatedAt)
	if err != nil {
		return fmt.Errorf("matterRepo.Create: %w", err)
	}
	return nil
}

func (r *matterRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Matter, error) {
	var matter domain.Matter
	err := r.db.GetContext(ctx, &matter, "SELECT * FROM matters WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatterNotFound
		}
		return nil, fmt.Errorf("matterRepo.GetByID: %w", err)
	}
	return &matter, nil
}

func (r *matterRepo) List(ctx context.Context, offset, limit int) ([]domain.Matter, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM matters")
	if err != nil {
		return nil, 0, fmt.Errorf("matterRepo.List count: %w", err)
	}

	var matters []domain.Matter
	err = r.db.SelectContext(ctx, &matters,
		"SELECT * FROM matters ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("matterRepo.List: %w", err)
	}
	return matters, total, nil
}

func (r *matterRepo) Update(ctx context.Context, matter *domain.Matter) error {
	matter.UpdatedAt = time.Now().UTC()
	query := `UPDATE matters SET reference = $1, description = $2, matter_type = $3,
		court_type = $4, scale = $5, claim_value = $6,
		attorney_name = $7, attorney_email = $8, updated_at = $9
		WHERE id = $10`
	result, err := r.db.ExecContext(ctx, query,
		matter.Reference, matter.Description, matter.MatterType,
		matter.CourtType, matter.Scale, matter.ClaimValue,
		matter.AttorneyName, matter.AttorneyEmail, matter.UpdatedAt, matter.ID)
	if err != nil {
		return fmt.Errorf("matterRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrMatterNotFound
	}
	return nil
}
