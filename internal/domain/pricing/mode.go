package pricing

import "errors"

var ErrUnknownMode = errors.New("unknown pricing mode")

type Mode string

const (
	ModeHourly  Mode = "hourly"
	ModeDaily   Mode = "daily"
	ModeMonthly Mode = "monthly"
)

func (m Mode) String() string {
	return string(m)
}

func (m Mode) IsValid() bool {
	switch m {
	case ModeHourly, ModeDaily, ModeMonthly:
		return true
	default:
		return false
	}
}

func NewMode(s string) (Mode, error) {
	mode := Mode(s)
	if !mode.IsValid() {
		return "", ErrUnknownMode
	}
	return mode, nil
}

type Unit string

const (
	UnitHour  Unit = "hour"
	UnitDay   Unit = "day"
	UnitMonth Unit = "month"
)

func (u Unit) String() string {
	return string(u)
}
