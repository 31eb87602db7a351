package repository

import (
	"context"
	"log/slog"
	"time"

	"easyrent/internal/domain/booking"
	"easyrent/internal/domain/pricing"
	"easyrent/internal/infra"
	"easyrent/internal/infra/db"
	"easyrent/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const insertBookingSQL = `
INSERT INTO bookings (
    id, car_id, agency_id, user_id, driver_id, period,
    rental_type, with_driver, status, total_price, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, tstzrange($6, $7, '[)'), $8, $9, $10, $11, $12, $13)`

const selectBookingForUpdateSQL = `
SELECT id, car_id, agency_id, user_id, driver_id,
       lower(period), upper(period),
       rental_type, with_driver, status, total_price, created_at, updated_at
FROM bookings
WHERE id = $1
FOR UPDATE`

const updateBookingStatusSQL = `
UPDATE bookings SET status = $2, updated_at = $3 WHERE id = $1`

type BookingRepository struct {
	logger *slog.Logger
}

func NewBookingRepository(logger *slog.Logger) *BookingRepository {
	return &BookingRepository{logger: logger}
}

// Create relies on the bookings_no_overlap exclusion constraint; a violation
// surfaces as KindConflict. The period bounds are bound as timestamptz so
// sub-second precision survives into the range.
func (r *BookingRepository) Create(ctx context.Context, tx db.DBTX, b *booking.Booking) error {
	_, err := tx.Exec(ctx, insertBookingSQL,
		b.ID(),
		b.CarID(),
		b.AgencyID(),
		b.UserID(),
		pgconv.UUIDPtrToPgtype(b.DriverID()),
		b.Slot().Start(),
		b.Slot().End(),
		b.RentalType().String(),
		b.WithDriver(),
		b.Status().String(),
		b.TotalPrice().Int64(),
		b.CreatedAt(),
		b.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapPgErr(r.logger, "failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) FindByIDForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	var (
		row        bookingRow
		driverID   pgtype.UUID
		rentalType string
		status     string
	)
	err := tx.QueryRow(ctx, selectBookingForUpdateSQL, id).Scan(
		&row.id, &row.carID, &row.agencyID, &row.userID, &driverID,
		&row.start, &row.end,
		&rentalType, &row.withDriver, &status, &row.totalPrice, &row.createdAt, &row.updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "booking not found", err)
		}
		return nil, infra.WrapPgErr(r.logger, "failed to lock booking", err)
	}
	row.driverID = pgconv.UUIDPtrFromPgtype(driverID)
	row.rentalType = pricing.Mode(rentalType)
	row.status = booking.Status(status)
	return row.toDomain()
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, tx db.DBTX, b *booking.Booking) error {
	tag, err := tx.Exec(ctx, updateBookingStatusSQL, b.ID(), b.Status().String(), b.UpdatedAt())
	if err != nil {
		return infra.WrapPgErr(r.logger, "failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "booking not found", nil)
	}
	return nil
}

type bookingRow struct {
	id, carID, agencyID, userID uuid.UUID
	driverID                    *uuid.UUID
	start, end                  time.Time
	rentalType                  pricing.Mode
	withDriver                  bool
	status                      booking.Status
	totalPrice                  int64
	createdAt, updatedAt        time.Time
}

func (row bookingRow) toDomain() (*booking.Booking, error) {
	slot, err := booking.NewSlot(row.start, row.end)
	if err != nil {
		return nil, infra.WrapRepoErr(nil, infra.KindDBFailure, "stored booking period is invalid", err)
	}
	return booking.ReconstructBooking(
		row.id, row.carID, row.agencyID, row.userID,
		row.driverID,
		slot,
		row.rentalType,
		row.withDriver,
		row.status,
		pricing.Money(row.totalPrice),
		row.createdAt, row.updatedAt,
	), nil
}
