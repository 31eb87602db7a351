package pricing

type Calculator interface {
	Quote(req Request) Quote
}

type tier struct {
	minDays int64
	percent int
}

// Longest first; the first tier whose threshold is met wins.
var dailyTiers = []tier{
	{minDays: 30, percent: 15},
	{minDays: 14, percent: 10},
	{minDays: 7, percent: 5},
}

const (
	monthlyLabelPercent     = 20
	monthlyRemainderPercent = 10
	subMonthFallbackPercent = 5
)

// TieredCalculator prices rentals with duration based discount tiers and an
// optional chauffeur fee per started day.
type TieredCalculator struct {
	DriverDailyRate Money
}

func NewTieredCalculator(driverDailyRate Money) *TieredCalculator {
	return &TieredCalculator{DriverDailyRate: driverDailyRate}
}

func (c *TieredCalculator) Quote(req Request) Quote {
	if !req.Mode.IsValid() {
		return invalidQuote(req)
	}
	iv, err := NewInterval(req.Start, req.End)
	if err != nil {
		return invalidQuote(req)
	}

	d := Classify(iv, req.Mode)
	q := Quote{
		Valid:         true,
		Mode:          req.Mode,
		WithDriver:    req.WithDriver,
		Unit:          d.Unit,
		Duration:      d.Count,
		DurationHours: d.Hours,
	}

	switch req.Mode {
	case ModeHourly:
		c.priceHourly(&q, d, req.Rates)
	case ModeDaily:
		c.priceDaily(&q, d, req.Rates)
	case ModeMonthly:
		c.priceMonthly(&q, d, req.Rates)
	}

	q.EffectiveDiscountPercent = effectiveDiscount(q.ListPrice, q.RentalPrice)
	c.addDriverFee(&q, d)
	return q
}

func (c *TieredCalculator) priceHourly(q *Quote, d Duration, r Rates) {
	q.UnitPrice = r.Hourly()
	q.ListPrice = q.UnitPrice.Times(d.Count)
	q.RentalPrice = q.ListPrice
}

func (c *TieredCalculator) priceDaily(q *Quote, d Duration, r Rates) {
	q.UnitPrice = r.PerDay
	q.ListPrice = r.PerDay.Times(d.Count)
	q.DiscountPercent = dailyTierPercent(d.Count)
	q.RentalPrice = q.ListPrice.Discount(percentToBps(q.DiscountPercent))
}

func (c *TieredCalculator) priceMonthly(q *Quote, d Duration, r Rates) {
	q.ListPrice = r.PerDay.Times(d.TotalDays)
	if d.Months >= 1 {
		q.UnitPrice = r.MonthlyRate()
		remainder := r.PerDay.Times(d.RemainingDays).Discount(percentToBps(monthlyRemainderPercent))
		q.RentalPrice = q.UnitPrice.Times(d.Months) + remainder
		q.DiscountPercent = monthlyLabelPercent
		return
	}
	q.UnitPrice = r.PerDay
	q.RentalPrice = q.ListPrice.Discount(percentToBps(subMonthFallbackPercent))
	q.DiscountPercent = subMonthFallbackPercent
}

// addDriverFee runs after every discount so the chauffeur fee is never discounted.
func (c *TieredCalculator) addDriverFee(q *Quote, d Duration) {
	q.TotalPrice = q.RentalPrice
	if !q.WithDriver {
		return
	}
	q.DriverFee = c.DriverDailyRate.Times(d.DriverDays())
	q.TotalPrice += q.DriverFee
}

func dailyTierPercent(days int64) int {
	for _, t := range dailyTiers {
		if days >= t.minDays {
			return t.percent
		}
	}
	return 0
}

func percentToBps(p int) int64 {
	return int64(p) * 100
}
