package response

import (
	"easyrent/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type CarResponse struct {
	ID                    uuid.UUID `json:"id"`
	AgencyID              uuid.UUID `json:"agencyId"`
	AgencyName            string    `json:"agencyName"`
	Make                  string    `json:"make"`
	Model                 string    `json:"model"`
	Seats                 int       `json:"seats"`
	PricePerDay           int64     `json:"pricePerDay"`
	PricePerHour          *int64    `json:"pricePerHour"`
	MonthlyPrice          *int64    `json:"monthlyPrice"`
	EffectivePricePerHour int64     `json:"effectivePricePerHour"`
	EffectiveMonthlyPrice int64     `json:"effectiveMonthlyPrice"`
	DriverAvailable       bool      `json:"driverAvailable"`
	Active                bool      `json:"active"`
}

func FromVehicleView(v *queries.VehicleView) (*CarResponse, error) {
	var out CarResponse
	if err := copier.Copy(&out, v); err != nil {
		return nil, err
	}
	return &out, nil
}

func FromVehicleViews(vs []*queries.VehicleView) ([]CarResponse, error) {
	out := make([]CarResponse, 0, len(vs))
	if err := copier.Copy(&out, &vs); err != nil {
		return nil, err
	}
	return out, nil
}
