//go:build unit || e2e

package builder

import (
	"time"

	"easyrent/internal/domain/pricing"
	"easyrent/internal/domain/vehicle"

	"github.com/google/uuid"
)

type VehicleBuilder struct {
	AgencyID        uuid.UUID
	Make            string
	Model           string
	Seats           int
	PricePerDay     pricing.Money
	PricePerHour    *pricing.Money
	MonthlyPrice    *pricing.Money
	DriverAvailable bool
	Now             time.Time
}

func NewVehicleBuilder() *VehicleBuilder {
	return &VehicleBuilder{
		AgencyID:        uuid.New(),
		Make:            "Toyota",
		Model:           "Corolla",
		Seats:           5,
		PricePerDay:     25000,
		DriverAvailable: true,
		Now:             DefaultNow,
	}
}

func (v *VehicleBuilder) With(mutate func(*VehicleBuilder)) *VehicleBuilder {
	mutate(v)
	return v
}

func (v *VehicleBuilder) Spec() vehicle.Spec {
	return vehicle.Spec{
		AgencyID:        v.AgencyID,
		Make:            v.Make,
		Model:           v.Model,
		Seats:           v.Seats,
		PricePerDay:     v.PricePerDay,
		PricePerHour:    v.PricePerHour,
		MonthlyPrice:    v.MonthlyPrice,
		DriverAvailable: v.DriverAvailable,
	}
}

func (v *VehicleBuilder) BuildDomain() (*vehicle.Vehicle, error) {
	return vehicle.NewVehicle(v.Spec(), v.Now)
}

// BuildPersisted returns a vehicle as it would come back from the store.
func (v *VehicleBuilder) BuildPersisted(id uuid.UUID) *vehicle.Vehicle {
	return vehicle.ReconstructVehicle(
		id, v.AgencyID,
		v.Make, v.Model,
		v.Seats,
		v.PricePerDay,
		v.PricePerHour, v.MonthlyPrice,
		v.DriverAvailable, true,
		v.Now, v.Now,
	)
}

func (v *VehicleBuilder) Rates() pricing.Rates {
	return pricing.Rates{PerDay: v.PricePerDay, PerHour: v.PricePerHour, Monthly: v.MonthlyPrice}
}
