//go:build unit || e2e

package builder

import (
	"time"

	"easyrent/internal/domain/booking"
	"easyrent/internal/domain/pricing"
	"easyrent/internal/pkg/clock"

	"github.com/google/uuid"
)

// DefaultNow is the frozen "now" used by domain builders.
var DefaultNow = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

const DefaultDriverDailyRate pricing.Money = 10000

type BookingBuilder struct {
	Start      time.Time
	End        time.Time
	RentalType string
	Car        booking.CarSpec
	UserID     uuid.UUID
	DriverID   *uuid.UUID
	WithDriver bool
	Now        time.Time
}

func NewBookingBuilder() *BookingBuilder {
	start := DefaultNow.Add(24 * time.Hour)
	return &BookingBuilder{
		Start:      start,
		End:        start.Add(72 * time.Hour),
		RentalType: string(pricing.ModeDaily),
		Car: booking.CarSpec{
			ID:              uuid.New(),
			AgencyID:        uuid.New(),
			Rates:           pricing.Rates{PerDay: 25000},
			DriverAvailable: true,
			Active:          true,
		},
		UserID: uuid.New(),
		Now:    DefaultNow,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) Services() *booking.Services {
	return &booking.Services{
		Clock:      clock.NewMockClock(b.Now),
		Calculator: pricing.NewTieredCalculator(DefaultDriverDailyRate),
	}
}

func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	slot, err := booking.NewSlot(b.Start, b.End)
	if err != nil {
		return nil, err
	}
	return booking.NewBooking(b.Services(), b.Car, b.UserID, b.DriverID, slot, pricing.Mode(b.RentalType), b.WithDriver)
}

// BuildPersisted skips creation rules, for bookings loaded from storage.
func (b *BookingBuilder) BuildPersisted(id uuid.UUID, status booking.Status, total pricing.Money) *booking.Booking {
	slot, err := booking.NewSlot(b.Start, b.End)
	if err != nil {
		panic(err)
	}
	driverID := b.DriverID
	if !b.WithDriver {
		driverID = nil
	}
	return booking.ReconstructBooking(
		id, b.Car.ID, b.Car.AgencyID, b.UserID,
		driverID,
		slot,
		pricing.Mode(b.RentalType),
		b.WithDriver,
		status,
		total,
		b.Now, b.Now,
	)
}
