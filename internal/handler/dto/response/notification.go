package response

import (
	"time"

	"easyrent/internal/usecase/queries"

	"github.com/google/uuid"
)

type NotificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	Event     string     `json:"event"`
	BookingID *uuid.UUID `json:"bookingId,omitempty"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Frame is one WebSocket message.
type Frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func FromNotificationView(v *queries.NotificationView) *NotificationResponse {
	return &NotificationResponse{
		ID:        v.ID,
		Event:     v.Event,
		BookingID: v.BookingID,
		Message:   v.Message,
		CreatedAt: v.CreatedAt,
	}
}

func FromNotificationViews(vs []*queries.NotificationView) []*NotificationResponse {
	out := make([]*NotificationResponse, len(vs))
	for i, v := range vs {
		out[i] = FromNotificationView(v)
	}
	return out
}
