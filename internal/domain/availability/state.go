package availability

// State is the outcome of the latest availability probe.
type State string

const (
	StateIdle        State = "idle"
	StateChecking    State = "checking"
	StateAvailable   State = "available"
	StateUnavailable State = "unavailable"
	// StateUnknown means the probe failed in transport. It neither confirms
	// nor blocks a submission.
	StateUnknown State = "unknown"
)

func (s State) String() string {
	return string(s)
}

func (s State) IsSettled() bool {
	switch s {
	case StateAvailable, StateUnavailable, StateUnknown:
		return true
	default:
		return false
	}
}

// FromResult maps a probe answer onto a settled state.
func FromResult(available bool, err error) State {
	if err != nil {
		return StateUnknown
	}
	if available {
		return StateAvailable
	}
	return StateUnavailable
}
