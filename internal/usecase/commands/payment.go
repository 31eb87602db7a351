package commands

import (
	"context"
	"fmt"
	"log/slog"

	"easyrent/internal/domain/booking"
	"easyrent/internal/domain/notification"
	"easyrent/internal/domain/payment"
	"easyrent/internal/domain/pricing"
	"easyrent/internal/infra"
	"easyrent/internal/pkg/clock"
	"easyrent/internal/pkg/config"
	"easyrent/internal/pkg/errs"
	"easyrent/internal/usecase/queries"
	"easyrent/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=payment.go -destination=../../../tests/mock/commands/payment_mock.go -package=commandsmock

var (
	ErrPaymentFailed  = errs.New("payment failed")
	ErrAlreadyPaid    = errs.New("booking is already paid")
	ErrInvalidPayment = errs.New("invalid payment details")

	errSuccessRecorded = errs.New("successful payment already recorded")
)

type PayInput struct {
	BookingID       uuid.UUID
	Method          string
	PhoneNumber     string
	PaymentMethodID string
}

type PaymentResult struct {
	PaymentID uuid.UUID
	BookingID uuid.UUID
	Status    string
	Reference string
	Amount    int64
	Currency  string
	Booking   *queries.BookingView
}

type PaymentCommands interface {
	// Pay charges the booking total and confirms the booking on success.
	// A failed charge is recorded and returned as ErrPaymentFailed; the
	// caller may retry.
	Pay(ctx context.Context, in PayInput, actor shared.Actor) (*PaymentResult, error)
}

type paymentCommandsImpl struct {
	uow       shared.UnitOfWork
	gateway   PaymentGateway
	publisher NotificationPublisher
	bookings  queries.BookingQueries
	clock     clock.Clock
	currency  string
}

func NewPaymentCommands(
	uow shared.UnitOfWork,
	gateway PaymentGateway,
	publisher NotificationPublisher,
	bookings queries.BookingQueries,
	clock clock.Clock,
	cfg config.Config,
) PaymentCommands {
	return &paymentCommandsImpl{
		uow:       uow,
		gateway:   gateway,
		publisher: publisher,
		bookings:  bookings,
		clock:     clock,
		currency:  cfg.Pricing.Currency,
	}
}

func (c *paymentCommandsImpl) Pay(ctx context.Context, in PayInput, actor shared.Actor) (*PaymentResult, error) {
	instruction, err := payment.NewInstruction(in.Method, in.PhoneNumber, in.PaymentMethodID)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidPayment)
	}

	target, err := c.uow.CommandReads().BookingForPayment(ctx, in.BookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if target.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if target.Status == booking.StatusCancelled {
		return nil, ErrBookingCancelled
	}
	if target.Paid {
		return nil, ErrAlreadyPaid
	}

	charge := payment.Charge{
		BookingID:      target.BookingID,
		Amount:         pricing.Money(target.TotalPrice),
		Currency:       c.currency,
		Description:    fmt.Sprintf("EASY-RENT booking %s (%s)", target.BookingID.String()[:8], target.CarLabel),
		Instruction:    instruction,
		IdempotencyKey: payment.IdempotencyKey(target.BookingID, instruction),
	}

	// The gateway call stays outside any database transaction. Two attempts
	// racing past the Paid check share the idempotency key, so the gateway
	// captures once.
	receipt, chargeErr := c.gateway.Charge(ctx, charge)
	if chargeErr != nil {
		return nil, c.recordFailure(ctx, charge, target.UserID, chargeErr)
	}
	return c.recordSuccess(ctx, charge, target.UserID, receipt)
}

func (c *paymentCommandsImpl) recordFailure(ctx context.Context, charge payment.Charge, userID uuid.UUID, chargeErr error) error {
	reason := "payment could not be processed"
	if errs.Is(chargeErr, payment.ErrDeclined) {
		reason = chargeErr.Error()
	}
	slog.Warn("payment failed",
		"booking_id", charge.BookingID,
		"method", charge.Instruction.Method().String(),
		"error", chargeErr.Error())

	failed := payment.NewFailed(charge, userID, reason, c.clock.Now())
	var outbox []*notification.Notification
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		outbox = nil
		if err := tx.Payments().Create(ctx, tx.DB(), failed); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		n, err := paymentNotification(failed, notification.EventPaymentFailed)
		if err != nil {
			return err
		}
		if err := tx.Notifications().Create(ctx, tx.DB(), n); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		outbox = append(outbox, n)
		return nil
	})
	if err != nil {
		slog.Error("failed to record failed payment", "booking_id", charge.BookingID, "error", err.Error())
	}
	publishAll(ctx, c.publisher, outbox)

	return errs.Mark(chargeErr, ErrPaymentFailed)
}

func (c *paymentCommandsImpl) recordSuccess(ctx context.Context, charge payment.Charge, userID uuid.UUID, receipt payment.Receipt) (*PaymentResult, error) {
	now := c.clock.Now()
	succeeded, err := payment.NewSucceeded(charge, userID, receipt, now)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidPayment)
	}

	var (
		outbox       []*notification.Notification
		cancelledErr error
	)
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		outbox, cancelledErr = nil, nil

		// The charge went through, so the payment row is written even if
		// the booking was cancelled meanwhile; it is the refund record.
		if err := tx.Payments().Create(ctx, tx.DB(), succeeded); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errSuccessRecorded
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		n, err := paymentNotification(succeeded, notification.EventPaymentSucceeded)
		if err != nil {
			return err
		}
		if err := tx.Notifications().Create(ctx, tx.DB(), n); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		outbox = append(outbox, n)

		b, err := tx.Bookings().FindByIDForUpdate(ctx, tx.DB(), charge.BookingID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		changed, err := b.Confirm(now)
		if err != nil {
			cancelledErr = errs.Mark(err, ErrBookingCancelled)
			return nil
		}
		if !changed {
			return nil
		}
		if err := tx.Bookings().UpdateStatus(ctx, tx.DB(), b); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		confirmed, err := bookingNotification(b, notification.EventBookingConfirmed, "")
		if err != nil {
			return err
		}
		if err := tx.Notifications().Create(ctx, tx.DB(), confirmed); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		outbox = append(outbox, confirmed)
		return nil
	})
	if errs.Is(err, errSuccessRecorded) {
		return nil, c.settleDuplicate(ctx, charge, userID, receipt)
	}
	if err != nil {
		return nil, err
	}
	publishAll(ctx, c.publisher, outbox)
	if cancelledErr != nil {
		slog.Error("payment captured for a cancelled booking",
			"booking_id", charge.BookingID,
			"payment_id", succeeded.ID(),
			"reference", receipt.Reference)
		return nil, cancelledErr
	}

	view, err := c.bookings.GetByIDSystem(ctx, charge.BookingID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return &PaymentResult{
		PaymentID: succeeded.ID(),
		BookingID: charge.BookingID,
		Status:    succeeded.Status().String(),
		Reference: succeeded.Reference(),
		Amount:    succeeded.Amount().Int64(),
		Currency:  succeeded.Currency(),
		Booking:   view,
	}, nil
}

// settleDuplicate runs when another attempt already recorded the booking's
// success. The same reference means the gateway deduplicated the capture;
// any other reference is a second capture and is kept as a refund_due row.
func (c *paymentCommandsImpl) settleDuplicate(ctx context.Context, charge payment.Charge, userID uuid.UUID, receipt payment.Receipt) error {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		ref, err := tx.Payments().SucceededReference(ctx, tx.DB(), charge.BookingID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if ref == receipt.Reference {
			return nil
		}
		refund := payment.NewRefundDue(charge, userID, receipt, c.clock.Now())
		if err := tx.Payments().Create(ctx, tx.DB(), refund); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		slog.Error("second capture for a paid booking recorded for refund",
			"booking_id", charge.BookingID,
			"payment_id", refund.ID(),
			"reference", receipt.Reference,
			"paid_reference", ref)
		return nil
	})
	if err != nil {
		slog.Error("failed to settle duplicate capture",
			"booking_id", charge.BookingID,
			"reference", receipt.Reference,
			"error", err.Error())
		return err
	}
	return ErrAlreadyPaid
}

func paymentNotification(p *payment.Payment, event notification.Event) (*notification.Notification, error) {
	bookingID := p.BookingID()
	ref := bookingID.String()[:8]
	var msg string
	if event == notification.EventPaymentSucceeded {
		msg = fmt.Sprintf("Payment of %d %s for booking %s succeeded (ref %s).", p.Amount().Int64(), p.Currency(), ref, p.Reference())
	} else {
		msg = fmt.Sprintf("Payment for booking %s failed: %s. You can try again.", ref, p.FailureReason())
	}
	return notification.NewNotification(p.UserID(), event, &bookingID, msg, p.CreatedAt())
}
