package readstore

import (
	"context"
	"log/slog"
	"time"

	"easyrent/internal/infra"
	"easyrent/internal/infra/db"
	"easyrent/internal/pkg/pgconv"
	"easyrent/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const bookingColumns = `
SELECT b.id, b.car_id, c.make || ' ' || c.model, b.agency_id, b.user_id, u.email, b.driver_id,
       lower(b.period), upper(b.period),
       b.rental_type, b.with_driver, b.status, b.total_price, b.created_at, b.updated_at
FROM bookings b
JOIN cars c ON c.id = b.car_id
JOIN users u ON u.id = b.user_id`

const listBookingsByUserSQL = bookingColumns + `
WHERE b.user_id = $1
  AND ($2::timestamptz IS NULL OR (b.created_at, b.id) < ($2::timestamptz, $3::uuid))
ORDER BY b.created_at DESC, b.id DESC
LIMIT $4`

const occupiedSlotsSQL = `
SELECT lower(period), upper(period)
FROM bookings
WHERE car_id = $1
  AND status <> 'cancelled'
  AND upper(period) > $2
ORDER BY lower(period)`

const carActiveSQL = `SELECT active FROM cars WHERE id = $1`

const slotTakenSQL = `
SELECT EXISTS (
    SELECT 1 FROM bookings
    WHERE car_id = $1
      AND status <> 'cancelled'
      AND period && tstzrange($2, $3, '[)')
)`

type BookingReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewBookingReadStore(db db.DBTX, logger *slog.Logger) *BookingReadStore {
	return &BookingReadStore{
		db:     db,
		logger: logger,
	}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	view, err := scanBooking(r.db.QueryRow(ctx, bookingColumns+" WHERE b.id = $1", id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "booking not found", err)
		}
		return nil, infra.WrapPgErr(r.logger, "failed to find booking by ID", err)
	}
	return view, nil
}

func (r *BookingReadStore) ListByUser(ctx context.Context, userID uuid.UUID, after *queries.BookingKey, limit int) ([]*queries.BookingView, error) {
	var (
		afterAt pgtype.Timestamptz
		afterID pgtype.UUID
	)
	if after != nil {
		afterAt = pgtype.Timestamptz{Time: after.CreatedAt, Valid: true}
		afterID = pgconv.UUIDToPgtype(after.ID)
	}

	rows, err := r.db.Query(ctx, listBookingsByUserSQL, userID, afterAt, afterID, limit)
	if err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to list bookings", err)
	}
	defer rows.Close()

	views := []*queries.BookingView{}
	for rows.Next() {
		view, err := scanBooking(rows)
		if err != nil {
			return nil, infra.WrapPgErr(r.logger, "failed to scan booking", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to list bookings", err)
	}
	return views, nil
}

func (r *BookingReadStore) OccupiedSlots(ctx context.Context, carID uuid.UUID, after time.Time) ([]queries.OccupiedSlotView, error) {
	rows, err := r.db.Query(ctx, occupiedSlotsSQL, carID, after)
	if err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to list occupied slots", err)
	}
	defer rows.Close()

	slots := []queries.OccupiedSlotView{}
	for rows.Next() {
		var s queries.OccupiedSlotView
		if err := rows.Scan(&s.StartDate, &s.EndDate); err != nil {
			return nil, infra.WrapPgErr(r.logger, "failed to scan occupied slot", err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to list occupied slots", err)
	}
	return slots, nil
}

func (r *BookingReadStore) CarIsFree(ctx context.Context, carID uuid.UUID, start, end time.Time) (bool, error) {
	var active bool
	if err := r.db.QueryRow(ctx, carActiveSQL, carID).Scan(&active); err != nil {
		if pgconv.IsNoRows(err) {
			return false, infra.WrapRepoErr(r.logger, infra.KindNotFound, "car not found", err)
		}
		return false, infra.WrapPgErr(r.logger, "failed to look up car", err)
	}
	if !active {
		return false, nil
	}
	return slotIsFree(ctx, r.db, r.logger, carID, start, end)
}

// slotIsFree also serves the command side inside the booking transaction.
func slotIsFree(ctx context.Context, dbtx db.DBTX, logger *slog.Logger, carID uuid.UUID, start, end time.Time) (bool, error) {
	var taken bool
	if err := dbtx.QueryRow(ctx, slotTakenSQL, carID, start, end).Scan(&taken); err != nil {
		return false, infra.WrapPgErr(logger, "failed to check slot", err)
	}
	return !taken, nil
}

func scanBooking(row pgx.Row) (*queries.BookingView, error) {
	var (
		view     queries.BookingView
		driverID pgtype.UUID
	)
	err := row.Scan(
		&view.ID, &view.CarID, &view.CarLabel, &view.AgencyID, &view.UserID, &view.UserEmail, &driverID,
		&view.StartDate, &view.EndDate,
		&view.RentalType, &view.WithDriver, &view.Status, &view.TotalPrice, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	view.DriverID = pgconv.UUIDPtrFromPgtype(driverID)
	return &view, nil
}
