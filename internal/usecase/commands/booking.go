package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"easyrent/internal/domain/booking"
	"easyrent/internal/domain/notification"
	"easyrent/internal/domain/pricing"
	"easyrent/internal/domain/vehicle"
	"easyrent/internal/infra"
	"easyrent/internal/pkg/config"
	"easyrent/internal/pkg/errs"
	"easyrent/internal/usecase/queries"
	"easyrent/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/commands/booking_mock.go -package=commandsmock

var (
	ErrCarNotFound             = errs.New("car not found")
	ErrBookingNotFound         = errs.New("booking not found")
	ErrDriverNotFound          = errs.New("driver not found")
	ErrForbidden               = errs.New("operation not allowed for this user")
	ErrValidation              = errs.New("validation error")
	ErrSlotUnavailable         = errs.New("car is already booked for this period")
	ErrCarUnavailable          = errs.New("car is not available for rent")
	ErrBookingCancelled        = errs.New("booking is cancelled")
	ErrIdempotencyInProgress   = errs.New("a request with this idempotency key is in progress")
	ErrIdempotencyKeyReused    = errs.New("idempotency key was used with a different request")
	ErrIdempotencyCheckFailed  = errs.New("idempotency check failed")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

const idempotencyScopeCreateBooking = "booking:create"

type CreateBookingInput struct {
	CarID      uuid.UUID  `json:"car_id"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	DriverID   *uuid.UUID `json:"driver_id,omitempty"`
	StartDate  time.Time  `json:"start_date"`
	EndDate    time.Time  `json:"end_date"`
	RentalType string     `json:"rental_type"`
	WithDriver bool       `json:"with_driver"`
}

type CreateBookingResult struct {
	Booking    *queries.BookingView
	IsReplayed bool
}

type BookingCommands interface {
	Create(ctx context.Context, in CreateBookingInput, actor shared.Actor, idempotencyKey *uuid.UUID) (*CreateBookingResult, error)
	Confirm(ctx context.Context, actor shared.Actor, bookingID uuid.UUID) (*queries.BookingView, error)
	Cancel(ctx context.Context, actor shared.Actor, bookingID uuid.UUID) (*queries.BookingView, error)
	// ExpirePending cancels a booking that is still pending. It reports
	// whether anything changed.
	ExpirePending(ctx context.Context, bookingID uuid.UUID) (bool, error)
}

type bookingCommandsImpl struct {
	uow         shared.UnitOfWork
	services    *booking.Services
	queries     queries.BookingQueries
	idempotency IdempotencyStore
	publisher   NotificationPublisher
	expiry      ExpiryScheduler
	pendingTTL  time.Duration
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	services *booking.Services,
	bookingQueries queries.BookingQueries,
	idempotency IdempotencyStore,
	publisher NotificationPublisher,
	expiry ExpiryScheduler,
	cfg config.Config,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:         uow,
		services:    services,
		queries:     bookingQueries,
		idempotency: idempotency,
		publisher:   publisher,
		expiry:      expiry,
		pendingTTL:  cfg.Worker.PendingTTL,
	}
}

func (c *bookingCommandsImpl) Create(
	ctx context.Context,
	in CreateBookingInput,
	actor shared.Actor,
	idempotencyKey *uuid.UUID,
) (*CreateBookingResult, error) {
	owner, err := resolveOwner(in.UserID, actor)
	if err != nil {
		return nil, err
	}
	slot, err := booking.NewSlot(in.StartDate, in.EndDate)
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}
	mode, err := pricing.NewMode(in.RentalType)
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}

	if idempotencyKey == nil {
		view, err := c.createNewBooking(ctx, in, owner, slot, mode)
		if err != nil {
			return nil, err
		}
		return &CreateBookingResult{Booking: view}, nil
	}

	requestHash := calculateRequestHash(in, owner)
	replayed, err := c.handleIdempotency(ctx, owner, *idempotencyKey, requestHash)
	if err != nil {
		return nil, err
	}
	if replayed != nil {
		return &CreateBookingResult{Booking: replayed, IsReplayed: true}, nil
	}

	view, err := c.createNewBooking(ctx, in, owner, slot, mode)
	if err != nil {
		if releaseErr := c.idempotency.Release(ctx, idempotencyScopeCreateBooking, owner, *idempotencyKey); releaseErr != nil {
			slog.Warn("failed to release idempotency key", "key", idempotencyKey.String(), "error", releaseErr.Error())
		}
		return nil, err
	}

	if err := c.idempotency.Complete(ctx, idempotencyScopeCreateBooking, owner, *idempotencyKey, view.ID); err != nil {
		// The booking exists; a replay would create a second one only after the key expires
		slog.Warn("failed to complete idempotency key", "key", idempotencyKey.String(), "booking_id", view.ID, "error", err.Error())
	}
	return &CreateBookingResult{Booking: view}, nil
}

func (c *bookingCommandsImpl) handleIdempotency(
	ctx context.Context,
	owner, key uuid.UUID,
	requestHash string,
) (*queries.BookingView, error) {
	existing, err := c.idempotency.Begin(ctx, idempotencyScopeCreateBooking, owner, key, requestHash)
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}
	if existing == nil {
		return nil, nil
	}
	if existing.RequestHash != requestHash {
		return nil, ErrIdempotencyKeyReused
	}

	switch existing.Status {
	case IdempotencyCompleted:
		if existing.ResultID == nil {
			return nil, errs.Mark(errs.New("completed request missing result booking ID"), ErrIdempotencyCheckFailed)
		}
		return c.queries.GetByIDSystem(ctx, *existing.ResultID)
	case IdempotencyProcessing:
		return nil, ErrIdempotencyInProgress
	default:
		return nil, errs.Mark(errs.Newf("invalid idempotency status %q", existing.Status), ErrIdempotencyCheckFailed)
	}
}

func (c *bookingCommandsImpl) createNewBooking(
	ctx context.Context,
	in CreateBookingInput,
	owner uuid.UUID,
	slot booking.Slot,
	mode pricing.Mode,
) (*queries.BookingView, error) {
	var (
		created *booking.Booking
		outbox  []*notification.Notification
	)

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Reset on retry
		created, outbox = nil, nil

		// The row lock serializes concurrent bookings of the same car
		car, err := tx.Vehicles().FindByIDForUpdate(ctx, tx.DB(), in.CarID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrCarNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if in.WithDriver && in.DriverID != nil {
			if err := checkDriver(ctx, tx.Reads(), *in.DriverID); err != nil {
				return err
			}
		}

		b, err := booking.NewBooking(c.services, carSpec(car), owner, in.DriverID, slot, mode, in.WithDriver)
		if err != nil {
			return mapBookingDomainErr(err)
		}

		free, err := tx.Reads().SlotIsFree(ctx, car.ID(), slot)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !free {
			return ErrSlotUnavailable
		}

		if err := tx.Bookings().Create(ctx, tx.DB(), b); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrSlotUnavailable
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		n, err := bookingNotification(b, notification.EventBookingCreated, carLabel(car))
		if err != nil {
			return err
		}
		if err := tx.Notifications().Create(ctx, tx.DB(), n); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		created = b
		outbox = append(outbox, n)
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishAll(ctx, c.publisher, outbox)
	c.scheduleExpiry(ctx, created.ID())

	// Read-after-write: Get the complete booking view from read store
	view, err := c.queries.GetByIDSystem(ctx, created.ID())
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (c *bookingCommandsImpl) scheduleExpiry(ctx context.Context, bookingID uuid.UUID) {
	if c.expiry == nil || c.pendingTTL <= 0 {
		return
	}
	if err := c.expiry.SchedulePendingExpiry(ctx, bookingID, c.pendingTTL); err != nil {
		slog.Warn("failed to schedule pending booking expiry", "booking_id", bookingID, "error", err.Error())
	}
}

func (c *bookingCommandsImpl) Confirm(ctx context.Context, actor shared.Actor, bookingID uuid.UUID) (*queries.BookingView, error) {
	return c.transition(ctx, bookingID, func(b *booking.Booking) (notification.Event, bool, error) {
		if !b.IsOwnedBy(actor.UserID) && !actor.ActsFor(b.AgencyID()) {
			return "", false, ErrForbidden
		}
		changed, err := b.Confirm(c.services.Clock.Now())
		if err != nil {
			return "", false, mapBookingDomainErr(err)
		}
		return notification.EventBookingConfirmed, changed, nil
	})
}

func (c *bookingCommandsImpl) Cancel(ctx context.Context, actor shared.Actor, bookingID uuid.UUID) (*queries.BookingView, error) {
	return c.transition(ctx, bookingID, func(b *booking.Booking) (notification.Event, bool, error) {
		if !b.IsOwnedBy(actor.UserID) && !actor.IsAdmin() {
			return "", false, ErrForbidden
		}
		if err := b.Cancel(c.services.Clock.Now()); err != nil {
			return "", false, mapBookingDomainErr(err)
		}
		return notification.EventBookingCancelled, true, nil
	})
}

func (c *bookingCommandsImpl) ExpirePending(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	expired := false
	_, err := c.transition(ctx, bookingID, func(b *booking.Booking) (notification.Event, bool, error) {
		expired = false
		if b.Status() != booking.StatusPending {
			return "", false, nil
		}
		if err := b.Cancel(c.services.Clock.Now()); err != nil {
			return "", false, err
		}
		expired = true
		return notification.EventBookingCancelled, true, nil
	})
	if errors.Is(err, ErrBookingNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return expired, nil
}

type transitionFunc func(b *booking.Booking) (event notification.Event, changed bool, err error)

func (c *bookingCommandsImpl) transition(ctx context.Context, bookingID uuid.UUID, apply transitionFunc) (*queries.BookingView, error) {
	var outbox []*notification.Notification

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		outbox = nil

		b, err := tx.Bookings().FindByIDForUpdate(ctx, tx.DB(), bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		event, changed, err := apply(b)
		if err != nil || !changed {
			return err
		}

		if err := tx.Bookings().UpdateStatus(ctx, tx.DB(), b); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		n, err := bookingNotification(b, event, "")
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
		return nil, err
	}

	publishAll(ctx, c.publisher, outbox)
	return c.queries.GetByIDSystem(ctx, bookingID)
}

// resolveOwner lets admins book on behalf of another user. Everyone else
// books for themselves and may only echo their own id.
func resolveOwner(requested *uuid.UUID, actor shared.Actor) (uuid.UUID, error) {
	if requested == nil || *requested == actor.UserID {
		return actor.UserID, nil
	}
	if actor.IsAdmin() {
		return *requested, nil
	}
	return uuid.Nil, ErrForbidden
}

func checkDriver(ctx context.Context, reads shared.CommandReads, driverID uuid.UUID) error {
	driver, err := reads.DriverByID(ctx, driverID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrDriverNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !driver.IsActive {
		return ErrDriverNotFound
	}
	return nil
}

func carSpec(v *vehicle.Vehicle) booking.CarSpec {
	return booking.CarSpec{
		ID:              v.ID(),
		AgencyID:        v.AgencyID(),
		Rates:           v.Rates(),
		DriverAvailable: v.DriverAvailable(),
		Active:          v.IsActive(),
	}
}

func carLabel(v *vehicle.Vehicle) string {
	return v.Make() + " " + v.Model()
}

func mapBookingDomainErr(err error) error {
	switch {
	case errors.Is(err, booking.ErrCarUnavailable):
		return errs.Mark(err, ErrCarUnavailable)
	case errors.Is(err, booking.ErrBookingCancelled):
		return errs.Mark(err, ErrBookingCancelled)
	case errors.Is(err, booking.ErrSlotTaken):
		return errs.Mark(err, ErrSlotUnavailable)
	default:
		return errs.Mark(err, ErrValidation)
	}
}

func calculateRequestHash(in CreateBookingInput, owner uuid.UUID) string {
	in.UserID = &owner
	in.StartDate = in.StartDate.UTC()
	in.EndDate = in.EndDate.UTC()
	data, _ := json.Marshal(in)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
