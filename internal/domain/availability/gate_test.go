//go:build unit

package availability_test

import (
	"errors"
	"testing"
	"time"

	"easyrent/internal/domain/availability"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	start := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)

	tests := []struct {
		name       string
		start, end time.Time
		state      availability.State
		want       availability.Gate
	}{
		{name: "missing start", end: end, state: availability.StateAvailable, want: availability.GateIncomplete},
		{name: "missing end", start: start, state: availability.StateIdle, want: availability.GateIncomplete},
		{name: "equal instants", start: start, end: start, state: availability.StateAvailable, want: availability.GateInvalid},
		{name: "inverted", start: end, end: start, state: availability.StateAvailable, want: availability.GateInvalid},
		{name: "not yet probed", start: start, end: end, state: availability.StateIdle, want: availability.GateChecking},
		{name: "probe in flight", start: start, end: end, state: availability.StateChecking, want: availability.GateChecking},
		{name: "available", start: start, end: end, state: availability.StateAvailable, want: availability.GateReady},
		{name: "unavailable", start: start, end: end, state: availability.StateUnavailable, want: availability.GateBlocked},
		{name: "transport failure", start: start, end: end, state: availability.StateUnknown, want: availability.GateReady},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := availability.Evaluate(tt.start, tt.end, tt.state)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want == availability.GateReady, got.CanSubmit())
		})
	}
}

func TestFromResult(t *testing.T) {
	assert.Equal(t, availability.StateAvailable, availability.FromResult(true, nil))
	assert.Equal(t, availability.StateUnavailable, availability.FromResult(false, nil))
	assert.Equal(t, availability.StateUnknown, availability.FromResult(false, errors.New("timeout")))
	assert.Equal(t, availability.StateUnknown, availability.FromResult(true, errors.New("timeout")))

	assert.False(t, availability.StateChecking.IsSettled())
	assert.True(t, availability.StateUnknown.IsSettled())
}
