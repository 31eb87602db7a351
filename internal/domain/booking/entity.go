package booking

import (
	"errors"
	"time"

	"easyrent/internal/domain/pricing"
	"easyrent/internal/pkg/clock"

	"github.com/google/uuid"
)

var (
	ErrInvalidSlot        = errors.New("start must be before end")
	ErrStartInPast        = errors.New("start cannot be in the past")
	ErrDriverRequired     = errors.New("a driver must be selected when a chauffeur is requested")
	ErrDriverUnavailable  = errors.New("this car is not offered with a driver")
	ErrCarUnavailable     = errors.New("car is not available for rent")
	ErrSlotTaken          = errors.New("car is already booked for this period")
	ErrBookingCancelled   = errors.New("booking is cancelled")
	ErrInvalidStatus      = errors.New("invalid booking status")
	ErrInvalidRentalQuote = errors.New("rental cannot be priced")
)

type CarSpec struct {
	ID              uuid.UUID
	AgencyID        uuid.UUID
	Rates           pricing.Rates
	DriverAvailable bool
	Active          bool
}

type Services struct {
	Clock      clock.Clock
	Calculator pricing.Calculator
}

type Booking struct {
	id         uuid.UUID
	carID      uuid.UUID
	agencyID   uuid.UUID
	userID     uuid.UUID
	driverID   *uuid.UUID
	slot       Slot
	rentalType pricing.Mode
	withDriver bool
	status     Status
	totalPrice pricing.Money
	createdAt  time.Time
	updatedAt  time.Time
}

func NewBooking(
	services *Services,
	car CarSpec,
	userID uuid.UUID,
	driverID *uuid.UUID,
	slot Slot,
	rentalType pricing.Mode,
	withDriver bool,
) (*Booking, error) {
	now := services.Clock.Now()
	if !car.Active {
		return nil, ErrCarUnavailable
	}
	if slot.Start().Before(now) {
		return nil, ErrStartInPast
	}
	if withDriver {
		if !car.DriverAvailable {
			return nil, ErrDriverUnavailable
		}
		if driverID == nil {
			return nil, ErrDriverRequired
		}
	} else {
		driverID = nil
	}

	q := services.Calculator.Quote(pricing.Request{
		Mode:       rentalType,
		Start:      slot.Start(),
		End:        slot.End(),
		WithDriver: withDriver,
		Rates:      car.Rates,
	})
	if !q.Valid {
		return nil, ErrInvalidRentalQuote
	}

	return &Booking{
		id:         uuid.New(),
		carID:      car.ID,
		agencyID:   car.AgencyID,
		userID:     userID,
		driverID:   driverID,
		slot:       slot,
		rentalType: rentalType,
		withDriver: withDriver,
		status:     StatusPending,
		totalPrice: q.TotalPrice,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

func ReconstructBooking(
	id, carID, agencyID, userID uuid.UUID,
	driverID *uuid.UUID,
	slot Slot,
	rentalType pricing.Mode,
	withDriver bool,
	status Status,
	totalPrice pricing.Money,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:         id,
		carID:      carID,
		agencyID:   agencyID,
		userID:     userID,
		driverID:   driverID,
		slot:       slot,
		rentalType: rentalType,
		withDriver: withDriver,
		status:     status,
		totalPrice: totalPrice,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// Confirm moves a pending booking to confirmed. It reports false when the
// booking was already confirmed.
func (b *Booking) Confirm(now time.Time) (bool, error) {
	switch b.status {
	case StatusConfirmed:
		return false, nil
	case StatusCancelled:
		return false, ErrBookingCancelled
	}
	b.status = StatusConfirmed
	b.updatedAt = now
	return true, nil
}

func (b *Booking) Cancel(now time.Time) error {
	if b.status == StatusCancelled {
		return ErrBookingCancelled
	}
	b.status = StatusCancelled
	b.updatedAt = now
	return nil
}

func (b *Booking) IsOwnedBy(userID uuid.UUID) bool {
	return b.userID == userID
}

func (b *Booking) ID() uuid.UUID             { return b.id }
func (b *Booking) CarID() uuid.UUID          { return b.carID }
func (b *Booking) AgencyID() uuid.UUID       { return b.agencyID }
func (b *Booking) UserID() uuid.UUID         { return b.userID }
func (b *Booking) DriverID() *uuid.UUID      { return b.driverID }
func (b *Booking) Slot() Slot                { return b.slot }
func (b *Booking) RentalType() pricing.Mode  { return b.rentalType }
func (b *Booking) WithDriver() bool          { return b.withDriver }
func (b *Booking) Status() Status            { return b.status }
func (b *Booking) TotalPrice() pricing.Money { return b.totalPrice }
func (b *Booking) CreatedAt() time.Time      { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time      { return b.updatedAt }
