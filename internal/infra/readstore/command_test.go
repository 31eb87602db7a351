//go:build unit

package readstore

import (
	"context"
	"testing"

	"easyrent/internal/domain/booking"
	"easyrent/internal/infra"
	"easyrent/tests/common/dbtest"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCommandReadStore_BookingForPayment(t *testing.T) {
	id, userID := uuid.New(), uuid.New()

	t.Run("snapshot includes payment state", func(t *testing.T) {
		db := new(dbtest.MockDB)
		db.On("QueryRow", mock.Anything, bookingForPaymentSQL, []any{id}).
			Return(dbtest.Row{Values: []any{id, userID, "confirmed", int64(75000), "Toyota Corolla"}})
		db.On("QueryRow", mock.Anything, paymentSucceededSQL, []any{id}).
			Return(dbtest.Row{Values: []any{true}})

		s, err := NewCommandReadStore(db, nil).BookingForPayment(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, booking.StatusConfirmed, s.Status)
		assert.True(t, s.Paid)
		assert.Equal(t, "Toyota Corolla", s.CarLabel)
	})

	t.Run("missing booking", func(t *testing.T) {
		db := new(dbtest.MockDB)
		db.On("QueryRow", mock.Anything, bookingForPaymentSQL, []any{id}).Return(dbtest.Row{Err: pgx.ErrNoRows})

		_, err := NewCommandReadStore(db, nil).BookingForPayment(context.Background(), id)

		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}

func TestCommandReadStore_DriverByID(t *testing.T) {
	id := uuid.New()
	db := new(dbtest.MockDB)
	db.On("QueryRow", mock.Anything, findDriverSQL, []any{id}).Return(dbtest.Row{Err: pgx.ErrNoRows})

	_, err := NewCommandReadStore(db, nil).DriverByID(context.Background(), id)

	assert.True(t, infra.IsKind(err, infra.KindNotFound))
}
