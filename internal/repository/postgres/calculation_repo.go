package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"marithon/internal/domain"
	"marithon/internal/port"
)

type calculationRepo struct {
	db *sqlx.DB
}

// NewCalculationRepo creates a new PostgreSQL-backed CalculationRepository.
func NewCalculationRepo(db *sqlx.DB) port.CalculationRepository {
	return &calculationRepo{db: db}
}

func (r *calculationRepo) Create(ctx context.Context, calc *domain.Calculation) error {
	if calc.ID == uuid.Nil {
		calc.ID = uuid.New()
	}
	now := time.Now().UTC()
	calc.CreatedAt = now
	calc.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `INSERT INTO calculations (
		id, user_id, document_id, form_data, events_data,
		required_days, allowed_days, delta_days, mode, amount,
		created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		calc.ID, calc.UserID, calc.DocumentID, calc.FormData, calc.EventsData,
		calc.RequiredDays, calc.AllowedDays, calc.DeltaDays, calc.Mode, calc.Amount,
		calc.CreatedAt, calc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("calculationRepo.Create: %w", err)
	}
	return nil
}

func (r *calculationRepo) GetByID(ctx context.Context, userID, calcID uuid.UUID) (*domain.Calculation, error) {
	var calc domain.Calculation
	err := r.db.GetContext(ctx, &calc,
		"SELECT * FROM calculations WHERE id = $1 AND user_id = $2", calcID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCalculationNotFound
		}
		return nil, fmt.Errorf("calculationRepo.GetByID: %w", err)
	}
	return &calc, nil
}

func (r *calculationRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Calculation, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM calculations WHERE user_id = $1", userID)
	if err != nil {
		return nil, 0, fmt.Errorf("calculationRepo.ListByUser count: %w", err)
	}

	var calcs []domain.Calculation
	err = r.db.SelectContext(ctx, &calcs,
		"SELECT * FROM calculations WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("calculationRepo.ListByUser: %w", err)
	}
	return calcs, total, nil
}

func (r *calculationRepo) UpdateEvents(ctx context.Context, calc *domain.Calculation) error {
	calc.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		"UPDATE calculations SET events_data = $1, updated_at = $2 WHERE id = $3 AND user_id = $4",
		calc.EventsData, calc.UpdatedAt, calc.ID, calc.UserID)
	if err != nil {
		return fmt.Errorf("calculationRepo.UpdateEvents: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrCalculationNotFound
	}
	return nil
}

func (r *calculationRepo) Delete(ctx context.Context, userID, calcID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM calculations WHERE id = $1 AND user_id = $2", calcID, userID)
	if err != nil {
		return fmt.Errorf("calculationRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrCalculationNotFound
	}
	return nil
}
