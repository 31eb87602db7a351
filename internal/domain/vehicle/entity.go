package vehicle

import (
	"errors"
	"strings"
	"time"

	"easyrent/internal/domain/pricing"
	"easyrent/internal/pkg/patch"

	"github.com/google/uuid"
)

var (
	ErrInvalidDailyPrice = errors.New("daily price must be positive")
	ErrInvalidPrice      = errors.New("prices must be positive")
	ErrMissingName       = errors.New("make and model are required")
	ErrInvalidSeats      = errors.New("seats must be positive")
	ErrEmptyPriceUpdate  = errors.New("no price field to update")
)

type Vehicle struct {
	id              uuid.UUID
	agencyID        uuid.UUID
	make            string
	model           string
	seats           int
	pricePerDay     pricing.Money
	pricePerHour    *pricing.Money
	monthlyPrice    *pricing.Money
	driverAvailable bool
	active          bool
	createdAt       time.Time
	updatedAt       time.Time
}

type Spec struct {
	AgencyID        uuid.UUID
	Make            string
	Model           string
	Seats           int
	PricePerDay     pricing.Money
	PricePerHour    *pricing.Money
	MonthlyPrice    *pricing.Money
	DriverAvailable bool
}

func NewVehicle(spec Spec, now time.Time) (*Vehicle, error) {
	mk := strings.TrimSpace(spec.Make)
	model := strings.TrimSpace(spec.Model)
	if mk == "" || model == "" {
		return nil, ErrMissingName
	}
	if spec.Seats <= 0 {
		return nil, ErrInvalidSeats
	}
	if err := validatePrices(spec.PricePerDay, spec.PricePerHour, spec.MonthlyPrice); err != nil {
		return nil, err
	}
	return &Vehicle{
		id:              uuid.New(),
		agencyID:        spec.AgencyID,
		make:            mk,
		model:           model,
		seats:           spec.Seats,
		pricePerDay:     spec.PricePerDay,
		pricePerHour:    spec.PricePerHour,
		monthlyPrice:    spec.MonthlyPrice,
		driverAvailable: spec.DriverAvailable,
		active:          true,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

func ReconstructVehicle(
	id, agencyID uuid.UUID,
	mk, model string,
	seats int,
	pricePerDay pricing.Money,
	pricePerHour, monthlyPrice *pricing.Money,
	driverAvailable, active bool,
	createdAt, updatedAt time.Time,
) *Vehicle {
	return &Vehicle{
		id:              id,
		agencyID:        agencyID,
		make:            mk,
		model:           model,
		seats:           seats,
		pricePerDay:     pricePerDay,
		pricePerHour:    pricePerHour,
		monthlyPrice:    monthlyPrice,
		driverAvailable: driverAvailable,
		active:          active,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// PriceUpdate is a partial update. Nil fields keep their current value;
// the Clear flags drop an optional price so its fallback applies again.
type PriceUpdate struct {
	PricePerDay  *pricing.Money
	PricePerHour *pricing.Money
	MonthlyPrice *pricing.Money
	ClearHourly  bool
	ClearMonthly bool
}

func (u PriceUpdate) IsEmpty() bool {
	return !patch.AnyPresent(u.PricePerDay, u.PricePerHour, u.MonthlyPrice) && !u.ClearHourly && !u.ClearMonthly
}

func (v *Vehicle) UpdatePrices(u PriceUpdate, now time.Time) error {
	if u.IsEmpty() {
		return ErrEmptyPriceUpdate
	}

	daily := patch.Coalesce(u.PricePerDay, v.pricePerDay)
	hourly := v.pricePerHour
	if u.PricePerHour != nil {
		hourly = u.PricePerHour
	}
	if u.ClearHourly {
		hourly = nil
	}
	monthly := v.monthlyPrice
	if u.MonthlyPrice != nil {
		monthly = u.MonthlyPrice
	}
	if u.ClearMonthly {
		monthly = nil
	}

	if err := validatePrices(daily, hourly, monthly); err != nil {
		return err
	}
	v.pricePerDay, v.pricePerHour, v.monthlyPrice = daily, hourly, monthly
	v.updatedAt = now
	return nil
}

func (v *Vehicle) Rates() pricing.Rates {
	return pricing.Rates{
		PerDay:  v.pricePerDay,
		PerHour: v.pricePerHour,
		Monthly: v.monthlyPrice,
	}
}

func (v *Vehicle) OwnedBy(agencyID uuid.UUID) bool {
	return v.agencyID == agencyID
}

func (v *Vehicle) ID() uuid.UUID                { return v.id }
func (v *Vehicle) AgencyID() uuid.UUID          { return v.agencyID }
func (v *Vehicle) Make() string                 { return v.make }
func (v *Vehicle) Model() string                { return v.model }
func (v *Vehicle) Seats() int                   { return v.seats }
func (v *Vehicle) PricePerDay() pricing.Money   { return v.pricePerDay }
func (v *Vehicle) PricePerHour() *pricing.Money { return v.pricePerHour }
func (v *Vehicle) MonthlyPrice() *pricing.Money { return v.monthlyPrice }
func (v *Vehicle) DriverAvailable() bool        { return v.driverAvailable }
func (v *Vehicle) IsActive() bool               { return v.active }
func (v *Vehicle) CreatedAt() time.Time         { return v.createdAt }
func (v *Vehicle) UpdatedAt() time.Time         { return v.updatedAt }

func validatePrices(daily pricing.Money, hourly, monthly *pricing.Money) error {
	if daily <= 0 {
		return ErrInvalidDailyPrice
	}
	if (hourly != nil && *hourly <= 0) || (monthly != nil && *monthly <= 0) {
		return ErrInvalidPrice
	}
	return nil
}
