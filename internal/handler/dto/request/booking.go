package request

import (
	"time"

	"easyrent/internal/usecase/commands"

	"github.com/google/uuid"
)

type CarRef struct {
	ID uuid.UUID `json:"id" binding:"required"`
}

type CreateBookingRequest struct {
	Car        CarRef     `json:"car" binding:"required"`
	UserID     *uuid.UUID `json:"userId,omitempty"`
	DriverID   *uuid.UUID `json:"driverId,omitempty"`
	StartDate  time.Time  `json:"startDate" binding:"required"`
	EndDate    time.Time  `json:"endDate" binding:"required"`
	RentalType string     `json:"rentalType" binding:"required,oneof=hourly daily monthly"`
	WithDriver bool       `json:"withDriver"`
}

func (r CreateBookingRequest) ToInput() commands.CreateBookingInput {
	return commands.CreateBookingInput{
		CarID:      r.Car.ID,
		UserID:     r.UserID,
		DriverID:   r.DriverID,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
		RentalType: r.RentalType,
		WithDriver: r.WithDriver,
	}
}

// AvailabilityQuery takes RFC 3339 instants.
type AvailabilityQuery struct {
	CarID     string `form:"carId" binding:"required,uuid"`
	StartDate string `form:"startDate" binding:"required"`
	EndDate   string `form:"endDate" binding:"required"`
}

func (q AvailabilityQuery) Parse() (uuid.UUID, time.Time, time.Time, error) {
	carID, err := uuid.Parse(q.CarID)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, err
	}
	start, err := time.Parse(time.RFC3339, q.StartDate)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, err
	}
	end, err := time.Parse(time.RFC3339, q.EndDate)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, err
	}
	return carID, start, end, nil
}
