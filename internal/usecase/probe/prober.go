package probe

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"easyrent/internal/domain/availability"
	"easyrent/internal/pkg/clock"
	"easyrent/internal/pkg/config"

	"github.com/google/uuid"
)

//go:generate mockgen -source=prober.go -destination=../../../tests/mock/probe/prober_mock.go -package=probemock

// Checker answers whether a car is free over [start, end).
type Checker interface {
	CheckAvailability(ctx context.Context, carID uuid.UUID, start, end time.Time) (bool, error)
}

// Input is what the booking form currently holds. Zero times mean the
// field is not filled in yet.
type Input struct {
	CarID uuid.UUID
	Start time.Time
	End   time.Time
}

func (in Input) complete() bool {
	return in.CarID != uuid.Nil && !in.Start.IsZero() && !in.End.IsZero() && in.Start.Before(in.End)
}

type Snapshot struct {
	Input      Input
	State      availability.State
	Gate       availability.Gate
	Generation uint64
}

type Option func(*Prober)

// WithListener registers fn to be called after every state transition.
// fn runs outside the prober's lock and may call back into it.
func WithListener(fn func(Snapshot)) Option {
	return func(p *Prober) { p.listener = fn }
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Prober) { p.logger = logger }
}

// Prober debounces form changes into availability checks. Only the answer
// to the most recently issued check is ever applied.
type Prober struct {
	checker  Checker
	clock    clock.Clock
	debounce time.Duration
	timeout  time.Duration
	logger   *slog.Logger
	listener func(Snapshot)

	mu         sync.Mutex
	input      Input
	state      availability.State
	generation uint64
	timer      clock.Timer
	cancel     context.CancelFunc
	closed     bool
}

func New(checker Checker, clk clock.Clock, cfg config.AvailabilityConfig, opts ...Option) *Prober {
	p := &Prober{
		checker:  checker,
		clock:    clk,
		debounce: cfg.Debounce,
		timeout:  cfg.RequestTimeout,
		logger:   slog.Default(),
		state:    availability.StateIdle,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Update replaces the current input. Incomplete or unordered input drops
// any pending or in-flight check and returns to idle.
func (p *Prober) Update(in Input) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.generation++
	p.dropPendingLocked()
	p.input = in

	if !in.complete() {
		p.state = availability.StateIdle
	} else {
		p.state = availability.StateChecking
		gen := p.generation
		p.timer = p.clock.AfterFunc(p.debounce, func() { p.run(gen, in) })
	}
	snap := p.snapshotLocked()
	p.mu.Unlock()

	p.notify(snap)
}

func (p *Prober) State() availability.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Prober) Gate() availability.Gate {
	p.mu.Lock()
	defer p.mu.Unlock()
	return availability.Evaluate(p.input.Start, p.input.End, p.state)
}

func (p *Prober) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// Close stops the prober. Answers still in flight are discarded.
func (p *Prober) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.generation++
	p.dropPendingLocked()
}

func (p *Prober) run(gen uint64, in Input) {
	p.mu.Lock()
	if gen != p.generation || p.closed {
		p.mu.Unlock()
		return
	}
	p.timer = nil
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	p.cancel = cancel
	p.mu.Unlock()

	available, err := p.checker.CheckAvailability(ctx, in.CarID, in.Start, in.End)
	cancel()

	p.mu.Lock()
	if gen != p.generation {
		p.mu.Unlock()
		p.logger.Debug("discarding superseded availability answer",
			slog.Uint64("generation", gen),
			slog.String("car_id", in.CarID.String()))
		return
	}
	p.cancel = nil
	p.state = availability.FromResult(available, err)
	snap := p.snapshotLocked()
	p.mu.Unlock()

	if err != nil {
		p.logger.Warn("availability check failed",
			slog.String("car_id", in.CarID.String()),
			slog.Any("error", err))
	}
	p.notify(snap)
}

func (p *Prober) dropPendingLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

func (p *Prober) snapshotLocked() Snapshot {
	return Snapshot{
		Input:      p.input,
		State:      p.state,
		Gate:       availability.Evaluate(p.input.Start, p.input.End, p.state),
		Generation: p.generation,
	}
}

func (p *Prober) notify(snap Snapshot) {
	if p.listener != nil {
		p.listener(snap)
	}
}
