package response

import (
	"time"

	"easyrent/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID         uuid.UUID  `json:"id"`
	CarID      uuid.UUID  `json:"carId"`
	CarLabel   string     `json:"carLabel"`
	AgencyID   uuid.UUID  `json:"agencyId"`
	UserID     uuid.UUID  `json:"userId"`
	UserEmail  string     `json:"userEmail"`
	DriverID   *uuid.UUID `json:"driverId,omitempty"`
	StartDate  time.Time  `json:"startDate"`
	EndDate    time.Time  `json:"endDate"`
	RentalType string     `json:"rentalType"`
	WithDriver bool       `json:"withDriver"`
	Status     string     `json:"status"`
	TotalPrice int64      `json:"totalPrice"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type BookingListResponse struct {
	Items      []*BookingResponse `json:"items"`
	NextCursor string             `json:"nextCursor,omitempty"`
}

type OccupiedSlotResponse struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

type AvailabilityResponse struct {
	Available bool `json:"available"`
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:         v.ID,
		CarID:      v.CarID,
		CarLabel:   v.CarLabel,
		AgencyID:   v.AgencyID,
		UserID:     v.UserID,
		UserEmail:  v.UserEmail,
		DriverID:   v.DriverID,
		StartDate:  v.StartDate,
		EndDate:    v.EndDate,
		RentalType: v.RentalType,
		WithDriver: v.WithDriver,
		Status:     v.Status,
		TotalPrice: v.TotalPrice,
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
	}
}

func FromBookingViews(vs []*queries.BookingView, next *queries.Cursor) *BookingListResponse {
	out := &BookingListResponse{Items: make([]*BookingResponse, len(vs))}
	for i, v := range vs {
		out.Items[i] = FromBookingView(v)
	}
	if next != nil {
		out.NextCursor = next.After
	}
	return out
}

func FromOccupiedSlots(slots []queries.OccupiedSlotView) []OccupiedSlotResponse {
	out := make([]OccupiedSlotResponse, len(slots))
	for i, s := range slots {
		out[i] = OccupiedSlotResponse{StartDate: s.StartDate, EndDate: s.EndDate}
	}
	return out
}
