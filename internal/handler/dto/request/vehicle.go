package request

import (
	"easyrent/internal/usecase/commands"
)

// UpdatePricesRequest is a partial update. Omitted prices keep their value;
// the clear flags drop an optional price so its fallback applies again.
type UpdatePricesRequest struct {
	PricePerDay  *int64 `json:"pricePerDay" binding:"omitempty,gt=0"`
	PricePerHour *int64 `json:"pricePerHour" binding:"omitempty,gt=0"`
	MonthlyPrice *int64 `json:"monthlyPrice" binding:"omitempty,gt=0"`
	ClearHourly  bool   `json:"clearHourly"`
	ClearMonthly bool   `json:"clearMonthly"`
}

func (r UpdatePricesRequest) ToInput() commands.UpdatePricesInput {
	return commands.UpdatePricesInput{
		PricePerDay:  r.PricePerDay,
		PricePerHour: r.PricePerHour,
		MonthlyPrice: r.MonthlyPrice,
		ClearHourly:  r.ClearHourly,
		ClearMonthly: r.ClearMonthly,
	}
}

type ListCarsQuery struct {
	AgencyID   string `form:"agencyId" binding:"omitempty,uuid"`
	WithDriver *bool  `form:"withDriver"`
	Limit      int    `form:"limit" binding:"omitempty,min=1"`
}
