package notification

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrUnknownEvent = errors.New("unknown notification event")

type Event string

const (
	EventBookingCreated   Event = "booking_created"
	EventBookingConfirmed Event = "booking_confirmed"
	EventBookingCancelled Event = "booking_cancelled"
	EventPaymentSucceeded Event = "payment_succeeded"
	EventPaymentFailed    Event = "payment_failed"
)

func (e Event) String() string {
	return string(e)
}

func (e Event) IsValid() bool {
	switch e {
	case EventBookingCreated, EventBookingConfirmed, EventBookingCancelled,
		EventPaymentSucceeded, EventPaymentFailed:
		return true
	default:
		return false
	}
}

type Notification struct {
	id        uuid.UUID
	userID    uuid.UUID
	event     Event
	bookingID *uuid.UUID
	message   string
	createdAt time.Time
}

func NewNotification(userID uuid.UUID, event Event, bookingID *uuid.UUID, message string, now time.Time) (*Notification, error) {
	if !event.IsValid() {
		return nil, ErrUnknownEvent
	}
	return &Notification{
		id:        uuid.New(),
		userID:    userID,
		event:     event,
		bookingID: bookingID,
		message:   message,
		createdAt: now,
	}, nil
}

func ReconstructNotification(id, userID uuid.UUID, event Event, bookingID *uuid.UUID, message string, createdAt time.Time) *Notification {
	return &Notification{
		id:        id,
		userID:    userID,
		event:     event,
		bookingID: bookingID,
		message:   message,
		createdAt: createdAt,
	}
}

func (n *Notification) ID() uuid.UUID         { return n.id }
func (n *Notification) UserID() uuid.UUID     { return n.userID }
func (n *Notification) Event() Event          { return n.event }
func (n *Notification) BookingID() *uuid.UUID { return n.bookingID }
func (n *Notification) Message() string       { return n.message }
func (n *Notification) CreatedAt() time.Time  { return n.createdAt }
