package pricing

// Money is an amount in the smallest unit of the configured currency.
type Money int64

const basisPointsWhole = 10000

func (m Money) Int64() int64 {
	return int64(m)
}

func (m Money) Times(n int64) Money {
	return m * Money(n)
}

// Discount removes bps basis points from m, rounding half up.
func (m Money) Discount(bps int64) Money {
	return Money((int64(m)*(basisPointsWhole-bps) + basisPointsWhole/2) / basisPointsWhole)
}

// Rates are the base prices of one vehicle. PerHour and Monthly are optional
// and fall back to values derived from PerDay.
type Rates struct {
	PerDay  Money
	PerHour *Money
	Monthly *Money
}

// Hourly falls back to a tenth of the daily price.
func (r Rates) Hourly() Money {
	if r.PerHour != nil {
		return *r.PerHour
	}
	return (r.PerDay + 5) / 10
}

// MonthlyRate falls back to thirty days at 20% off.
func (r Rates) MonthlyRate() Money {
	if r.Monthly != nil {
		return *r.Monthly
	}
	return r.PerDay.Times(30).Discount(2000)
}
