package commands

import (
	"context"
	"fmt"
	"log/slog"

	"easyrent/internal/domain/booking"
	"easyrent/internal/domain/notification"
	"easyrent/internal/usecase/queries"
)

func toNotificationView(n *notification.Notification) *queries.NotificationView {
	return &queries.NotificationView{
		ID:        n.ID(),
		UserID:    n.UserID(),
		Event:     n.Event().String(),
		BookingID: n.BookingID(),
		Message:   n.Message(),
		CreatedAt: n.CreatedAt(),
	}
}

// publishAll runs after commit. The rows are already stored, so a broker
// failure only delays delivery until the next poll.
func publishAll(ctx context.Context, pub NotificationPublisher, items []*notification.Notification) {
	if pub == nil {
		return
	}
	for _, n := range items {
		if err := pub.Publish(ctx, toNotificationView(n)); err != nil {
			slog.Warn("failed to publish notification",
				"notification_id", n.ID(),
				"event", n.Event().String(),
				"error", err.Error())
		}
	}
}

func bookingNotification(b *booking.Booking, event notification.Event, carLabel string) (*notification.Notification, error) {
	id := b.ID()
	return notification.NewNotification(b.UserID(), event, &id, bookingMessage(b, event, carLabel), b.UpdatedAt())
}

func bookingMessage(b *booking.Booking, event notification.Event, carLabel string) string {
	ref := shortRef(b)
	if carLabel != "" {
		ref = carLabel + " (" + ref + ")"
	}
	from := b.Slot().Start().Format("2006-01-02 15:04")
	switch event {
	case notification.EventBookingCreated:
		return fmt.Sprintf("Booking %s from %s is awaiting payment of %d.", ref, from, b.TotalPrice().Int64())
	case notification.EventBookingConfirmed:
		return fmt.Sprintf("Booking %s from %s is confirmed.", ref, from)
	case notification.EventBookingCancelled:
		return fmt.Sprintf("Booking %s from %s was cancelled.", ref, from)
	default:
		return fmt.Sprintf("Booking %s: %s.", ref, event)
	}
}

func shortRef(b *booking.Booking) string {
	return b.ID().String()[:8]
}
