package queries

import (
	"time"

	"easyrent/internal/domain/pricing"

	"github.com/google/uuid"
)

// VehicleView is the catalog entry of a car. Effective prices apply the
// documented fallbacks when the optional prices are absent.
type VehicleView struct {
	ID                    uuid.UUID `json:"id"`
	AgencyID              uuid.UUID `json:"agency_id"`
	AgencyName            string    `json:"agency_name"`
	Make                  string    `json:"make"`
	Model                 string    `json:"model"`
	Seats                 int       `json:"seats"`
	PricePerDay           int64     `json:"price_per_day"`
	PricePerHour          *int64    `json:"price_per_hour,omitempty"`
	MonthlyPrice          *int64    `json:"monthly_price,omitempty"`
	EffectivePricePerHour int64     `json:"effective_price_per_hour"`
	EffectiveMonthlyPrice int64     `json:"effective_monthly_price"`
	DriverAvailable       bool      `json:"driver_available"`
	Active                bool      `json:"active"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func (v *VehicleView) Rates() pricing.Rates {
	r := pricing.Rates{PerDay: pricing.Money(v.PricePerDay)}
	if v.PricePerHour != nil {
		m := pricing.Money(*v.PricePerHour)
		r.PerHour = &m
	}
	if v.MonthlyPrice != nil {
		m := pricing.Money(*v.MonthlyPrice)
		r.Monthly = &m
	}
	return r
}

// FillEffectivePrices derives the effective prices from the stored ones.
func (v *VehicleView) FillEffectivePrices() {
	r := v.Rates()
	v.EffectivePricePerHour = r.Hourly().Int64()
	v.EffectiveMonthlyPrice = r.MonthlyRate().Int64()
}

type VehicleFilter struct {
	AgencyID   *uuid.UUID
	WithDriver *bool
	Limit      int
}

type BookingView struct {
	ID         uuid.UUID  `json:"id"`
	CarID      uuid.UUID  `json:"car_id"`
	CarLabel   string     `json:"car_label"`
	AgencyID   uuid.UUID  `json:"agency_id"`
	UserID     uuid.UUID  `json:"user_id"`
	UserEmail  string     `json:"user_email"`
	DriverID   *uuid.UUID `json:"driver_id,omitempty"`
	StartDate  time.Time  `json:"start_date"`
	EndDate    time.Time  `json:"end_date"`
	RentalType string     `json:"rental_type"`
	WithDriver bool       `json:"with_driver"`
	Status     string     `json:"status"`
	TotalPrice int64      `json:"total_price"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type OccupiedSlotView struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type NotificationView struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Event     string     `json:"event"`
	BookingID *uuid.UUID `json:"booking_id,omitempty"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"created_at"`
}

// UserView represents read-optimized user data with authorization info
type UserView struct {
	ID       uuid.UUID  `json:"id"`
	Email    string     `json:"email"`
	Role     string     `json:"role"`
	AgencyID *uuid.UUID `json:"agency_id,omitempty"`
	IsActive bool       `json:"is_active"`
}

type CheckoutView struct {
	BookingID   uuid.UUID `json:"booking_id"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Paid        bool      `json:"paid"`
}

type QuoteResult struct {
	CarID    uuid.UUID
	Currency string
	Quote    pricing.Quote
}
