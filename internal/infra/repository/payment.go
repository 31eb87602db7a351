package repository

import (
	"context"
	"log/slog"

	"easyrent/internal/domain/payment"
	"easyrent/internal/infra"
	"easyrent/internal/infra/db"
	"easyrent/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const insertPaymentSQL = `
INSERT INTO payments (
    id, booking_id, user_id, method, amount, currency,
    status, reference, failure_reason, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

const selectSucceededReferenceSQL = `
SELECT reference FROM payments WHERE booking_id = $1 AND status = 'succeeded'`

type PaymentRepository struct {
	logger *slog.Logger
}

func NewPaymentRepository(logger *slog.Logger) *PaymentRepository {
	return &PaymentRepository{logger: logger}
}

// Create returns KindDuplicateKey when a succeeded payment already exists
// for the booking.
func (r *PaymentRepository) Create(ctx context.Context, tx db.DBTX, p *payment.Payment) error {
	_, err := tx.Exec(ctx, insertPaymentSQL,
		p.ID(),
		p.BookingID(),
		p.UserID(),
		p.Method().String(),
		p.Amount().Int64(),
		p.Currency(),
		p.Status().String(),
		pgconv.StringPtrToPgtype(optionalText(p.Reference())),
		pgconv.StringPtrToPgtype(optionalText(p.FailureReason())),
		p.CreatedAt(),
	)
	if err != nil {
		return infra.WrapPgErr(r.logger, "failed to record payment", err)
	}
	return nil
}

// SucceededReference returns the gateway reference of the booking's
// successful payment.
func (r *PaymentRepository) SucceededReference(ctx context.Context, tx db.DBTX, bookingID uuid.UUID) (string, error) {
	var ref pgtype.Text
	if err := tx.QueryRow(ctx, selectSucceededReferenceSQL, bookingID).Scan(&ref); err != nil {
		if pgconv.IsNoRows(err) {
			return "", infra.WrapRepoErr(r.logger, infra.KindNotFound, "no successful payment", err)
		}
		return "", infra.WrapPgErr(r.logger, "failed to read payment reference", err)
	}
	return ref.String, nil
}

func optionalText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
