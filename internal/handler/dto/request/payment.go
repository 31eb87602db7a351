package request

import (
	"easyrent/internal/usecase/commands"

	"github.com/google/uuid"
)

type PaymentRequest struct {
	BookingID       uuid.UUID `json:"bookingId" binding:"required"`
	Method          string    `json:"method" binding:"required,oneof=mobile_money card"`
	PhoneNumber     string    `json:"phoneNumber,omitempty"`
	PaymentMethodID string    `json:"paymentMethodId,omitempty"`
}

func (r PaymentRequest) ToInput() commands.PayInput {
	return commands.PayInput{
		BookingID:       r.BookingID,
		Method:          r.Method,
		PhoneNumber:     r.PhoneNumber,
		PaymentMethodID: r.PaymentMethodID,
	}
}
