package response

import (
	"easyrent/internal/usecase/queries"

	"github.com/google/uuid"
)

// QuoteResponse is computed for every form change. Valid is false while the
// interval is incomplete or unordered, and the price fields are zero.
type QuoteResponse struct {
	CarID                    uuid.UUID `json:"carId"`
	Currency                 string    `json:"currency"`
	Valid                    bool      `json:"valid"`
	PricingMode              string    `json:"pricingMode"`
	WithDriver               bool      `json:"withDriver"`
	Unit                     string    `json:"unit,omitempty"`
	UnitPrice                int64     `json:"unitPrice"`
	Duration                 int64     `json:"duration"`
	DurationHours            int64     `json:"durationHours"`
	DiscountPercent          int       `json:"discountPercent"`
	EffectiveDiscountPercent float64   `json:"effectiveDiscountPercent"`
	ListPrice                int64     `json:"listPrice"`
	RentalPrice              int64     `json:"rentalPrice"`
	DriverFee                int64     `json:"driverFee"`
	TotalPrice               int64     `json:"totalPrice"`
}

func FromQuoteResult(r *queries.QuoteResult) *QuoteResponse {
	q := r.Quote
	return &QuoteResponse{
		CarID:                    r.CarID,
		Currency:                 r.Currency,
		Valid:                    q.Valid,
		PricingMode:              q.Mode.String(),
		WithDriver:               q.WithDriver,
		Unit:                     q.Unit.String(),
		UnitPrice:                q.UnitPrice.Int64(),
		Duration:                 q.Duration,
		DurationHours:            q.DurationHours,
		DiscountPercent:          q.DiscountPercent,
		EffectiveDiscountPercent: q.EffectiveDiscountPercent,
		ListPrice:                q.ListPrice.Int64(),
		RentalPrice:              q.RentalPrice.Int64(),
		DriverFee:                q.DriverFee.Int64(),
		TotalPrice:               q.TotalPrice.Int64(),
	}
}
