package readstore

import (
	"context"
	"log/slog"

	"easyrent/internal/infra"
	"easyrent/internal/infra/db"
	"easyrent/internal/pkg/pgconv"
	"easyrent/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const findUserByIDSQL = `
SELECT id, email, role, agency_id, is_active
FROM users
WHERE id = $1`

// Active accounts win over deactivated ones sharing the address.
const findUserByEmailSQL = `
SELECT id, email, role, agency_id, is_active, password_hash
FROM users
WHERE email = $1
ORDER BY is_active DESC, created_at DESC
LIMIT 1`

type UserReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewUserReadStore(db db.DBTX, logger *slog.Logger) *UserReadStore {
	return &UserReadStore{
		db:     db,
		logger: logger,
	}
}

func (r *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.UserView, error) {
	var (
		view     queries.UserView
		agencyID pgtype.UUID
	)
	err := r.db.QueryRow(ctx, findUserByIDSQL, id).Scan(&view.ID, &view.Email, &view.Role, &agencyID, &view.IsActive)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "user not found", err)
		}
		return nil, infra.WrapPgErr(r.logger, "failed to find user by ID", err)
	}
	view.AgencyID = pgconv.UUIDPtrFromPgtype(agencyID)
	return &view, nil
}

func (r *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.UserView, string, error) {
	var (
		view     queries.UserView
		agencyID pgtype.UUID
		hash     string
	)
	err := r.db.QueryRow(ctx, findUserByEmailSQL, email).Scan(&view.ID, &view.Email, &view.Role, &agencyID, &view.IsActive, &hash)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, "", infra.WrapRepoErr(r.logger, infra.KindNotFound, "user not found", err)
		}
		return nil, "", infra.WrapPgErr(r.logger, "failed to find user by email", err)
	}
	view.AgencyID = pgconv.UUIDPtrFromPgtype(agencyID)
	return &view, hash, nil
}
