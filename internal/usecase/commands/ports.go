package commands

import (
	"context"
	"time"

	"easyrent/internal/domain/payment"
	"easyrent/internal/usecase/queries"

	"github.com/google/uuid"
)

//go:generate mockgen -source=ports.go -destination=../../../tests/mock/commands/ports_mock.go -package=commandsmock

type IdempotencyStatus string

const (
	IdempotencyProcessing IdempotencyStatus = "processing"
	IdempotencyCompleted  IdempotencyStatus = "completed"
)

type IdempotencyRecord struct {
	Status      IdempotencyStatus `json:"status"`
	RequestHash string            `json:"request_hash"`
	ResultID    *uuid.UUID        `json:"result_id,omitempty"`
}

// IdempotencyStore remembers client supplied keys for a limited time.
type IdempotencyStore interface {
	// Begin claims the key. It returns nil when this call owns the key and
	// the stored record otherwise.
	Begin(ctx context.Context, scope string, userID, key uuid.UUID, requestHash string) (*IdempotencyRecord, error)
	Complete(ctx context.Context, scope string, userID, key, resultID uuid.UUID) error
	// Release drops a claim whose request failed so the client may retry.
	Release(ctx context.Context, scope string, userID, key uuid.UUID) error
}

type NotificationPublisher interface {
	Publish(ctx context.Context, n *queries.NotificationView) error
}

// PaymentGateway settles a charge. Declines wrap payment.ErrDeclined.
type PaymentGateway interface {
	Charge(ctx context.Context, charge payment.Charge) (payment.Receipt, error)
}

type ExpiryScheduler interface {
	SchedulePendingExpiry(ctx context.Context, bookingID uuid.UUID, after time.Duration) error
}

// RatesInvalidator drops cached vehicle rates after a price change.
type RatesInvalidator interface {
	Invalidate(carID uuid.UUID)
}
