package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"easyrent/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

//go:generate mockgen -source=expiry.go -destination=../../../tests/mock/worker/expiry_mock.go -package=workermock

const TypeBookingExpire = "booking:expire"

const expireMaxRetry = 5

type expirePayload struct {
	BookingID uuid.UUID `json:"booking_id"`
}

// Enqueuer is the part of *asynq.Client the scheduler needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Expirer cancels a booking that is still pending.
type Expirer interface {
	ExpirePending(ctx context.Context, bookingID uuid.UUID) (bool, error)
}

func NewExpireTask(bookingID uuid.UUID) (*asynq.Task, error) {
	b, err := json.Marshal(expirePayload{BookingID: bookingID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBookingExpire, b), nil
}

type ExpiryScheduler struct {
	client Enqueuer
	logger *slog.Logger
}

func NewExpiryScheduler(client Enqueuer, logger *slog.Logger) *ExpiryScheduler {
	return &ExpiryScheduler{client: client, logger: logger}
}

// SchedulePendingExpiry enqueues one expiry task per booking. A second call
// for the same booking is a no-op.
func (s *ExpiryScheduler) SchedulePendingExpiry(ctx context.Context, bookingID uuid.UUID, after time.Duration) error {
	task, err := NewExpireTask(bookingID)
	if err != nil {
		return errs.Wrap(err, "build expiry task")
	}

	info, err := s.client.EnqueueContext(ctx, task,
		asynq.ProcessIn(after),
		asynq.TaskID(TypeBookingExpire+":"+bookingID.String()),
		asynq.MaxRetry(expireMaxRetry),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	if err != nil {
		return errs.Wrap(err, "enqueue expiry task")
	}

	s.logger.Debug("scheduled pending expiry",
		slog.String("booking_id", bookingID.String()),
		slog.String("task_id", info.ID),
		slog.Time("process_at", info.NextProcessAt))
	return nil
}

// NewExpiryHandler processes booking:expire tasks. Malformed payloads are
// not retried.
func NewExpiryHandler(expirer Expirer, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p expirePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil || p.BookingID == uuid.Nil {
			logger.Error("invalid expiry payload", slog.String("payload", string(task.Payload())))
			return fmt.Errorf("invalid expiry payload: %w", asynq.SkipRetry)
		}

		expired, err := expirer.ExpirePending(ctx, p.BookingID)
		if err != nil {
			logger.Error("failed to expire pending booking",
				slog.String("booking_id", p.BookingID.String()),
				slog.Any("error", err))
			return err
		}

		if expired {
			logger.Info("pending booking expired", slog.String("booking_id", p.BookingID.String()))
		} else {
			logger.Debug("booking no longer pending", slog.String("booking_id", p.BookingID.String()))
		}
		return nil
	}
}
