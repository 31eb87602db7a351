package repository

import (
	"context"
	"log/slog"

	"easyrent/internal/domain/pricing"
	"easyrent/internal/domain/vehicle"
	"easyrent/internal/infra"
	"easyrent/internal/infra/db"
	"easyrent/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const selectVehicleForUpdateSQL = `
SELECT id, agency_id, make, model, seats,
       price_per_day, price_per_hour, monthly_price,
       driver_available, active, created_at, updated_at
FROM cars
WHERE id = $1
FOR UPDATE`

const updateVehiclePricesSQL = `
UPDATE cars
SET price_per_day = $2, price_per_hour = $3, monthly_price = $4, updated_at = $5
WHERE id = $1`

type VehicleRepository struct {
	logger *slog.Logger
}

func NewVehicleRepository(logger *slog.Logger) *VehicleRepository {
	return &VehicleRepository{logger: logger}
}

func (r *VehicleRepository) FindByIDForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*vehicle.Vehicle, error) {
	var row vehicleRow
	err := tx.QueryRow(ctx, selectVehicleForUpdateSQL, id).Scan(
		&row.ID, &row.AgencyID, &row.Make, &row.Model, &row.Seats,
		&row.PricePerDay, &row.PricePerHour, &row.MonthlyPrice,
		&row.DriverAvailable, &row.Active, &row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "car not found", err)
		}
		return nil, infra.WrapPgErr(r.logger, "failed to lock car", err)
	}

	return vehicle.ReconstructVehicle(
		row.ID, row.AgencyID,
		row.Make, row.Model,
		int(row.Seats),
		pricing.Money(row.PricePerDay),
		moneyFromPgtype(row.PricePerHour), moneyFromPgtype(row.MonthlyPrice),
		row.DriverAvailable, row.Active,
		row.CreatedAt.Time, row.UpdatedAt.Time,
	), nil
}

func (r *VehicleRepository) UpdatePrices(ctx context.Context, tx db.DBTX, v *vehicle.Vehicle) error {
	tag, err := tx.Exec(ctx, updateVehiclePricesSQL,
		v.ID(),
		v.PricePerDay().Int64(),
		moneyToPgtype(v.PricePerHour()),
		moneyToPgtype(v.MonthlyPrice()),
		v.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapPgErr(r.logger, "failed to update car prices", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "car not found", nil)
	}
	return nil
}

type vehicleRow struct {
	ID              uuid.UUID
	AgencyID        uuid.UUID
	Make            string
	Model           string
	Seats           int32
	PricePerDay     int64
	PricePerHour    pgtype.Int8
	MonthlyPrice    pgtype.Int8
	DriverAvailable bool
	Active          bool
	CreatedAt       pgtype.Timestamptz
	UpdatedAt       pgtype.Timestamptz
}

func moneyFromPgtype(v pgtype.Int8) *pricing.Money {
	if !v.Valid {
		return nil
	}
	m := pricing.Money(v.Int64)
	return &m
}

func moneyToPgtype(m *pricing.Money) pgtype.Int8 {
	if m == nil {
		return pgtype.Int8{Valid: false}
	}
	return pgtype.Int8{Int64: m.Int64(), Valid: true}
}
