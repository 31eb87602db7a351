package request

import (
	"easyrent/internal/usecase/queries"

	"github.com/google/uuid"
)

// QuoteRequest mirrors the booking form. Date and time fields may be empty
// while the user is still typing.
type QuoteRequest struct {
	CarID       uuid.UUID `json:"carId" binding:"required"`
	PricingMode string    `json:"pricingMode" binding:"required"`
	StartDate   string    `json:"startDate"`
	StartTime   string    `json:"startTime"`
	EndDate     string    `json:"endDate"`
	EndTime     string    `json:"endTime"`
	WithDriver  bool      `json:"withDriver"`
}

func (r QuoteRequest) ToInput() queries.QuoteInput {
	return queries.QuoteInput{
		CarID:      r.CarID,
		Mode:       r.PricingMode,
		StartDate:  r.StartDate,
		StartTime:  r.StartTime,
		EndDate:    r.EndDate,
		EndTime:    r.EndTime,
		WithDriver: r.WithDriver,
	}
}
