//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"easyrent/internal/domain/user"
	"easyrent/internal/pkg/config"
	"easyrent/internal/usecase/queries"
	"easyrent/internal/usecase/shared"
	queriesmock "easyrent/tests/mock/queries"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestPaymentQueries_Checkout(t *testing.T) {
	ctrl := gomock.NewController(t)
	bookings := queriesmock.NewMockBookingQueries(ctrl)
	payments := queriesmock.NewMockPaymentReadStore(ctrl)
	q := queries.NewPaymentQueries(bookings, payments, config.NewTestConfig())

	actor := shared.Actor{UserID: uuid.New(), Role: user.RoleCustomer}
	view := &queries.BookingView{
		ID:         uuid.New(),
		CarLabel:   "Toyota Corolla",
		StartDate:  time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 6, 5, 10, 0, 0, 0, time.UTC),
		Status:     "confirmed",
		TotalPrice: 75000,
	}
	bookings.EXPECT().GetByID(gomock.Any(), actor, view.ID).Return(view, nil)
	payments.EXPECT().HasSucceeded(gomock.Any(), view.ID).Return(false, nil)

	got, err := q.Checkout(context.Background(), actor, view.ID)

	want := &queries.CheckoutView{
		BookingID:   view.ID,
		Amount:      75000,
		Currency:    "XAF",
		Description: "Rental of Toyota Corolla from 2025-06-02 to 2025-06-05",
		Status:      "confirmed",
		Paid:        false,
	}
	assert.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("checkout mismatch (-want +got):\n%s", diff)
	}
}
