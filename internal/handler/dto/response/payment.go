package response

import (
	"easyrent/internal/usecase/commands"
	"easyrent/internal/usecase/queries"

	"github.com/google/uuid"
)

type CheckoutResponse struct {
	BookingID   uuid.UUID `json:"bookingId"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Paid        bool      `json:"paid"`
}

type PaymentResponse struct {
	PaymentID uuid.UUID        `json:"paymentId"`
	BookingID uuid.UUID        `json:"bookingId"`
	Status    string           `json:"status"`
	Reference string           `json:"reference,omitempty"`
	Amount    int64            `json:"amount"`
	Currency  string           `json:"currency"`
	Booking   *BookingResponse `json:"booking,omitempty"`
}

func FromCheckoutView(v *queries.CheckoutView) *CheckoutResponse {
	return &CheckoutResponse{
		BookingID:   v.BookingID,
		Amount:      v.Amount,
		Currency:    v.Currency,
		Description: v.Description,
		Status:      v.Status,
		Paid:        v.Paid,
	}
}

func FromPaymentResult(r *commands.PaymentResult) *PaymentResponse {
	out := &PaymentResponse{
		PaymentID: r.PaymentID,
		BookingID: r.BookingID,
		Status:    r.Status,
		Reference: r.Reference,
		Amount:    r.Amount,
		Currency:  r.Currency,
	}
	if r.Booking != nil {
		out.Booking = FromBookingView(r.Booking)
	}
	return out
}
