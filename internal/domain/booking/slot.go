package booking

import "time"

// Slot is a half-open [start, end) interval on a car's calendar.
type Slot struct {
	start time.Time
	end   time.Time
}

func NewSlot(start, end time.Time) (Slot, error) {
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return Slot{}, ErrInvalidSlot
	}
	return Slot{start: start, end: end}, nil
}

func (s Slot) Start() time.Time {
	return s.start
}

func (s Slot) End() time.Time {
	return s.end
}

func (s Slot) Duration() time.Duration {
	return s.end.Sub(s.start)
}

// Overlaps treats touching intervals as free: a rental ending at 10:00
// does not collide with one starting at 10:00.
func (s Slot) Overlaps(other Slot) bool {
	return s.start.Before(other.end) && other.start.Before(s.end)
}
