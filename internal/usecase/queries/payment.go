package queries

import (
	"context"
	"fmt"

	"easyrent/internal/pkg/config"
	"easyrent/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=payment.go -destination=../../../tests/mock/queries/payment_mock.go -package=queriesmock

type PaymentQueries interface {
	// Checkout derives the amount to pay from the stored booking.
	Checkout(ctx context.Context, actor shared.Actor, bookingID uuid.UUID) (*CheckoutView, error)
}

type PaymentReadStore interface {
	HasSucceeded(ctx context.Context, bookingID uuid.UUID) (bool, error)
}

type paymentQueriesImpl struct {
	bookings BookingQueries
	payments PaymentReadStore
	currency string
}

func NewPaymentQueries(bookings BookingQueries, payments PaymentReadStore, cfg config.Config) PaymentQueries {
	return &paymentQueriesImpl{
		bookings: bookings,
		payments: payments,
		currency: cfg.Pricing.Currency,
	}
}

func (q *paymentQueriesImpl) Checkout(ctx context.Context, actor shared.Actor, bookingID uuid.UUID) (*CheckoutView, error) {
	view, err := q.bookings.GetByID(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	paid, err := q.payments.HasSucceeded(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return &CheckoutView{
		BookingID:   view.ID,
		Amount:      view.TotalPrice,
		Currency:    q.currency,
		Description: CheckoutDescription(view.CarLabel, view.StartDate.Format("2006-01-02"), view.EndDate.Format("2006-01-02")),
		Status:      view.Status,
		Paid:        paid,
	}, nil
}

func CheckoutDescription(carLabel, from, to string) string {
	return fmt.Sprintf("Rental of %s from %s to %s", carLabel, from, to)
}
