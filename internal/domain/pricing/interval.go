package pricing

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrIncompleteInterval = errors.New("start and end date and time are required")
	ErrInvalidInterval    = errors.New("start must be before end")
	ErrMalformedInstant   = errors.New("date must be YYYY-MM-DD and time HH:MM")
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Interval is a half-open [start, end) span with start strictly before end.
type Interval struct {
	start time.Time
	end   time.Time
}

func NewInterval(start, end time.Time) (Interval, error) {
	if start.IsZero() || end.IsZero() {
		return Interval{}, ErrIncompleteInterval
	}
	if !start.Before(end) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{start: start, end: end}, nil
}

// ParseInstant combines a calendar date and a wall clock time in loc.
// An empty clock means midnight.
func ParseInstant(date, clock string, loc *time.Location) (time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" {
		return time.Time{}, ErrIncompleteInterval
	}
	if clock == "" {
		clock = "00:00"
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout+" "+ClockLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, ErrMalformedInstant
	}
	return t, nil
}

func ParseInterval(startDate, startClock, endDate, endClock string, loc *time.Location) (Interval, error) {
	start, err := ParseInstant(startDate, startClock, loc)
	if err != nil {
		return Interval{}, err
	}
	end, err := ParseInstant(endDate, endClock, loc)
	if err != nil {
		return Interval{}, err
	}
	return NewInterval(start, end)
}

func (iv Interval) Start() time.Time      { return iv.start }
func (iv Interval) End() time.Time        { return iv.end }
func (iv Interval) Length() time.Duration { return iv.end.Sub(iv.start) }
func (iv Interval) IsZero() bool          { return iv.start.IsZero() && iv.end.IsZero() }
