package readstore

import (
	"context"
	"log/slog"

	"easyrent/internal/domain/booking"
	"easyrent/internal/infra"
	"easyrent/internal/infra/db"
	"easyrent/internal/pkg/pgconv"
	"easyrent/internal/usecase/shared"

	"github.com/google/uuid"
)

const findDriverSQL = `
SELECT id, email, is_active
FROM users
WHERE id = $1 AND role = 'driver'`

const bookingForPaymentSQL = `
SELECT b.id, b.user_id, b.status, b.total_price, c.make || ' ' || c.model
FROM bookings b
JOIN cars c ON c.id = b.car_id
WHERE b.id = $1`

// CommandReadStore answers the lookups commands make before writing. Bound
// to a transaction it sees that transaction's writes.
type CommandReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

var _ shared.CommandReads = (*CommandReadStore)(nil)

func NewCommandReadStore(db db.DBTX, logger *slog.Logger) *CommandReadStore {
	return &CommandReadStore{
		db:     db,
		logger: logger,
	}
}

func (r *CommandReadStore) SlotIsFree(ctx context.Context, carID uuid.UUID, slot booking.Slot) (bool, error) {
	return slotIsFree(ctx, r.db, r.logger, carID, slot.Start(), slot.End())
}

// DriverByID only finds users holding the driver role.
func (r *CommandReadStore) DriverByID(ctx context.Context, id uuid.UUID) (*shared.DriverSnapshot, error) {
	var s shared.DriverSnapshot
	if err := r.db.QueryRow(ctx, findDriverSQL, id).Scan(&s.ID, &s.Email, &s.IsActive); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "driver not found", err)
		}
		return nil, infra.WrapPgErr(r.logger, "failed to find driver", err)
	}
	return &s, nil
}

func (r *CommandReadStore) BookingForPayment(ctx context.Context, id uuid.UUID) (*shared.PaymentTargetSnapshot, error) {
	var (
		s      shared.PaymentTargetSnapshot
		status string
	)
	err := r.db.QueryRow(ctx, bookingForPaymentSQL, id).Scan(&s.BookingID, &s.UserID, &status, &s.TotalPrice, &s.CarLabel)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "booking not found", err)
		}
		return nil, infra.WrapPgErr(r.logger, "failed to load booking for payment", err)
	}
	s.Status = booking.Status(status)

	paid, err := hasSucceededPayment(ctx, r.db, r.logger, id)
	if err != nil {
		return nil, err
	}
	s.Paid = paid
	return &s, nil
}
