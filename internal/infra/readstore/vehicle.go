package readstore

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"easyrent/internal/infra"
	"easyrent/internal/infra/db"
	"easyrent/internal/pkg/pgconv"
	"easyrent/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const vehicleColumns = `
SELECT c.id, c.agency_id, a.name, c.make, c.model, c.seats,
       c.price_per_day, c.price_per_hour, c.monthly_price,
       c.driver_available, c.active, c.created_at, c.updated_at
FROM cars c
JOIN agencies a ON a.id = c.agency_id`

type VehicleReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewVehicleReadStore(db db.DBTX, logger *slog.Logger) *VehicleReadStore {
	return &VehicleReadStore{
		db:     db,
		logger: logger,
	}
}

// FindByID returns inactive cars too; callers decide what inactive means.
func (r *VehicleReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.VehicleView, error) {
	view, err := scanVehicle(r.db.QueryRow(ctx, vehicleColumns+" WHERE c.id = $1", id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "car not found", err)
		}
		return nil, infra.WrapPgErr(r.logger, "failed to find car by ID", err)
	}
	return view, nil
}

// List returns active cars only, newest first.
func (r *VehicleReadStore) List(ctx context.Context, filter queries.VehicleFilter) ([]*queries.VehicleView, error) {
	sql, args := buildVehicleListQuery(filter)
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to list cars", err)
	}
	defer rows.Close()

	views := []*queries.VehicleView{}
	for rows.Next() {
		view, err := scanVehicle(rows)
		if err != nil {
			return nil, infra.WrapPgErr(r.logger, "failed to scan car", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to list cars", err)
	}
	return views, nil
}

func buildVehicleListQuery(filter queries.VehicleFilter) (string, []any) {
	conds := []string{"c.active = true"}
	var args []any
	if filter.AgencyID != nil {
		args = append(args, *filter.AgencyID)
		conds = append(conds, "c.agency_id = $"+strconv.Itoa(len(args)))
	}
	if filter.WithDriver != nil {
		args = append(args, *filter.WithDriver)
		conds = append(conds, "c.driver_available = $"+strconv.Itoa(len(args)))
	}
	args = append(args, filter.Limit)
	sql := vehicleColumns +
		" WHERE " + strings.Join(conds, " AND ") +
		" ORDER BY c.created_at DESC, c.id DESC LIMIT $" + strconv.Itoa(len(args))
	return sql, args
}

func scanVehicle(row pgx.Row) (*queries.VehicleView, error) {
	var (
		view                 queries.VehicleView
		seats                int32
		perHour, monthly     pgtype.Int8
		createdAt, updatedAt pgtype.Timestamptz
	)
	err := row.Scan(
		&view.ID, &view.AgencyID, &view.AgencyName, &view.Make, &view.Model, &seats,
		&view.PricePerDay, &perHour, &monthly,
		&view.DriverAvailable, &view.Active, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	view.Seats = int(seats)
	view.PricePerHour = pgconv.Int64PtrFromPgtype(perHour)
	view.MonthlyPrice = pgconv.Int64PtrFromPgtype(monthly)
	view.CreatedAt = createdAt.Time
	view.UpdatedAt = updatedAt.Time
	return &view, nil
}
