package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"marithon/internal/port"
)

type tokenDenylistRepo struct {
	db *sqlx.DB
}

// NewTokenDenylistRepo creates a PostgreSQL-backed TokenDenylist.
func NewTokenDenylistRepo(db *sqlx.DB) port.TokenDenylist {
	return &tokenDenylistRepo{db: db}
}

func (r *tokenDenylistRepo) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO revoked_tokens (token_id, expires_at) VALUES ($1, $2)
		 ON CONFLICT (token_id) DO NOTHING`,
		tokenID, expiresAt.UTC())
	if err != nil {
		return fmt.Errorf("tokenDenylistRepo.Revoke: %w", err)
	}
	return nil
}

func (r *tokenDenylistRepo) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var revoked bool
	err := r.db.GetContext(ctx, &revoked,
		"SELECT EXISTS(SELECT 1 FROM revoked_tokens WHERE token_id = $1 AND expires_at > NOW())", tokenID)
	if err != nil {
		return false, fmt.Errorf("tokenDenylistRepo.IsRevoked: %w", err)
	}
	return revoked, nil
}

func (r *tokenDenylistRepo) PurgeExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM revoked_tokens WHERE expires_at <= NOW()")
	if err != nil {
		return 0, fmt.Errorf("tokenDenylistRepo.PurgeExpired: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}
