package repository

import (
	"context"
	"log/slog"
	"time"

	"easyrent/internal/infra"
	"easyrent/internal/infra/db"

	"github.com/google/uuid"
)

const updateLastLoginSQL = `UPDATE users SET last_login = $2, updated_at = $2 WHERE id = $1`

type UserRepository struct {
	logger *slog.Logger
}

func NewUserRepository(logger *slog.Logger) *UserRepository {
	return &UserRepository{logger: logger}
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, tx db.DBTX, userID uuid.UUID, at time.Time) error {
	_, err := tx.Exec(ctx, updateLastLoginSQL, userID, at)
	if err != nil {
		return infra.WrapPgErr(r.logger, "failed to update user last login", err)
	}
	return nil
}
