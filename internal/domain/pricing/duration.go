package pricing

import "time"

const (
	hoursPerDay  = 24
	daysPerMonth = 30
)

// Duration is the billable length of an interval under one pricing mode.
type Duration struct {
	Hours         int64
	Count         int64
	Unit          Unit
	TotalDays     int64
	Months        int64
	RemainingDays int64
}

// Classify converts an interval into billable units for mode. Hours are
// always rounded up to the next whole hour.
func Classify(iv Interval, mode Mode) Duration {
	hours := ceilHours(iv.Length())
	days := ceilDiv(hours, hoursPerDay)

	switch mode {
	case ModeHourly:
		return Duration{Hours: hours, Count: hours, Unit: UnitHour, TotalDays: days}
	case ModeMonthly:
		months := days / daysPerMonth
		d := Duration{
			Hours:         hours,
			TotalDays:     days,
			Months:        months,
			RemainingDays: days % daysPerMonth,
		}
		if months >= 1 {
			d.Count, d.Unit = months, UnitMonth
		} else {
			// sub-month rentals degrade to day pricing
			d.Count, d.Unit = days, UnitDay
		}
		return d
	default:
		return Duration{Hours: hours, Count: max(days, 1), Unit: UnitDay, TotalDays: days}
	}
}

// DriverDays is the number of started days a chauffeur is billed for.
func (d Duration) DriverDays() int64 {
	if d.Hours <= 0 {
		return 0
	}
	return max(1, ceilDiv(d.Hours, hoursPerDay))
}

func ceilHours(d time.Duration) int64 {
	hours := int64(d / time.Hour)
	if d%time.Hour > 0 {
		hours++
	}
	return hours
}

func ceilDiv(a, b int64) int64 {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
