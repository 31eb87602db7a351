package pricing

import "time"

// Request holds every input a quote depends on. Nothing else is consulted.
type Request struct {
	Mode       Mode
	Start      time.Time
	End        time.Time
	WithDriver bool
	Rates      Rates
}

// Quote is the derived price bundle for one Request.
//
// DiscountPercent is the label attached to the pricing branch that was taken.
// EffectiveDiscountPercent is measured from ListPrice and RentalPrice and may
// differ from the label in monthly mode.
type Quote struct {
	Valid                    bool
	Mode                     Mode
	WithDriver               bool
	Unit                     Unit
	UnitPrice                Money
	Duration                 int64
	DurationHours            int64
	DiscountPercent          int
	EffectiveDiscountPercent float64
	ListPrice                Money
	RentalPrice              Money
	DriverFee                Money
	TotalPrice               Money
}

func invalidQuote(req Request) Quote {
	return Quote{Valid: false, Mode: req.Mode, WithDriver: req.WithDriver}
}

func effectiveDiscount(list, rental Money) float64 {
	if list <= 0 || rental >= list {
		return 0
	}
	bps := (int64(list-rental)*basisPointsWhole + int64(list)/2) / int64(list)
	return float64(bps) / 100
}
