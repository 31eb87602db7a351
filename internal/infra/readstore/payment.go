package readstore

import (
	"context"
	"log/slog"

	"easyrent/internal/infra"
	"easyrent/internal/infra/db"

	"github.com/google/uuid"
)

const paymentSucceededSQL = `
SELECT EXISTS (SELECT 1 FROM payments WHERE booking_id = $1 AND status = 'succeeded')`

type PaymentReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewPaymentReadStore(db db.DBTX, logger *slog.Logger) *PaymentReadStore {
	return &PaymentReadStore{
		db:     db,
		logger: logger,
	}
}

func (r *PaymentReadStore) HasSucceeded(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	return hasSucceededPayment(ctx, r.db, r.logger, bookingID)
}

func hasSucceededPayment(ctx context.Context, dbtx db.DBTX, logger *slog.Logger, bookingID uuid.UUID) (bool, error) {
	var paid bool
	if err := dbtx.QueryRow(ctx, paymentSucceededSQL, bookingID).Scan(&paid); err != nil {
		return false, infra.WrapPgErr(logger, "failed to check payment status", err)
	}
	return paid, nil
}
