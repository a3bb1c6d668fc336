package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"marithon/internal/domain"
)

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// TokenDenylist records revoked token IDs until their expiry.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

// CalculationRepository defines the contract for calculation persistence.
// Query methods take the owner's userID so one user never sees another's rows.
type CalculationRepository interface {
	Create(ctx context.Context, calc *domain.Calculation) error
	GetByID(ctx context.Context, userID, calcID uuid.UUID) (*domain.Calculation, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Calculation, int, error)
	UpdateEvents(ctx context.Context, calc *domain.Calculation) error
	Delete(ctx context.Context, userID, calcID uuid.UUID) error
}
