package availability

import "time"

// Gate decides whether the booking form may be submitted.
type Gate string

const (
	GateIncomplete Gate = "incomplete"
	GateInvalid    Gate = "invalid"
	GateChecking   Gate = "checking"
	GateReady      Gate = "ready"
	GateBlocked    Gate = "blocked"
)

func (g Gate) String() string {
	return string(g)
}

func (g Gate) CanSubmit() bool {
	return g == GateReady
}

// Evaluate composes interval validation with the probe state. A valid
// interval whose probe has not settled yet counts as checking.
func Evaluate(start, end time.Time, state State) Gate {
	if start.IsZero() || end.IsZero() {
		return GateIncomplete
	}
	if !start.Before(end) {
		return GateInvalid
	}
	switch state {
	case StateAvailable, StateUnknown:
		return GateReady
	case StateUnavailable:
		return GateBlocked
	default:
		return GateChecking
	}
}
