package queries

import (
	"context"
	"time"

	"easyrent/internal/domain/user"
	"easyrent/internal/infra"
	"easyrent/internal/pkg/clock"
	"easyrent/internal/pkg/errs"
	"easyrent/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/queries/booking_mock.go -package=queriesmock

var (
	ErrBookingNotFound = errs.New("booking not found")
	ErrBookingAccess   = errs.New("booking access denied")
	ErrInvalidRange    = errs.New("start date must be before end date")
)

type BookingQueries interface {
	GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*BookingView, error)
	// GetByIDSystem skips access checks; for read-after-write and replays.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, after *Cursor, limit int) ([]*BookingView, *Cursor, error)
	Occupied(ctx context.Context, carID uuid.UUID) ([]OccupiedSlotView, error)
	CheckAvailability(ctx context.Context, carID uuid.UUID, start, end time.Time) (bool, error)
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, after *BookingKey, limit int) ([]*BookingView, error)
	OccupiedSlots(ctx context.Context, carID uuid.UUID, after time.Time) ([]OccupiedSlotView, error)
	// CarIsFree returns KindNotFound when the car does not exist. Inactive
	// cars are never free.
	CarIsFree(ctx context.Context, carID uuid.UUID, start, end time.Time) (bool, error)
}

// BookingKey is the keyset position of a booking in a user's list.
type BookingKey struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

type bookingQueriesImpl struct {
	store BookingReadStore
	clock clock.Clock
}

func NewBookingQueries(store BookingReadStore, clock clock.Clock) BookingQueries {
	return &bookingQueriesImpl{store: store, clock: clock}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*BookingView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, view) {
		return nil, ErrBookingAccess
	}
	return view, nil
}

func (q *bookingQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, after *Cursor, limit int) ([]*BookingView, *Cursor, error) {
	limit = ValidateLimit(limit, MaxListLimit)

	var key *BookingKey
	if after != nil && after.After != "" {
		createdAt, id, err := DecodeAfterCursor(after.After)
		if err != nil {
			return nil, nil, err
		}
		key = &BookingKey{CreatedAt: createdAt, ID: id}
	}

	// One extra row tells whether another page exists
	rows, err := q.store.ListByUser(ctx, userID, key, limit+1)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) <= limit {
		return rows, nil, nil
	}
	rows = rows[:limit]
	last := rows[len(rows)-1]
	return rows, &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}, nil
}

func (q *bookingQueriesImpl) Occupied(ctx context.Context, carID uuid.UUID) ([]OccupiedSlotView, error) {
	slots, err := q.store.OccupiedSlots(ctx, carID, q.clock.Now())
	if err != nil {
		return nil, err
	}
	if slots == nil {
		slots = []OccupiedSlotView{}
	}
	return slots, nil
}

func (q *bookingQueriesImpl) CheckAvailability(ctx context.Context, carID uuid.UUID, start, end time.Time) (bool, error) {
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return false, ErrInvalidRange
	}
	free, err := q.store.CarIsFree(ctx, carID, start, end)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return false, ErrCarNotFound
		}
		return false, err
	}
	return free, nil
}

func canView(actor shared.Actor, view *BookingView) bool {
	switch {
	case view.UserID == actor.UserID:
		return true
	case actor.ActsFor(view.AgencyID):
		return true
	case actor.Role == user.RoleDriver && view.DriverID != nil && *view.DriverID == actor.UserID:
		return true
	default:
		return false
	}
}
