//go:build unit

package payment_test

import (
	"strings"
	"testing"
	"time"

	"easyrent/internal/domain/payment"
	"easyrent/internal/domain/pricing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInstruction(t *testing.T) {
	tests := []struct {
		name            string
		method          string
		phone           string
		paymentMethodID string
		errIs           error
	}{
		{name: "mobile money with 9 digits", method: "mobile_money", phone: "677123456"},
		{name: "mobile money with separators", method: "mobile_money", phone: " 677 12 34 56 "},
		{name: "mobile money with 8 digits", method: "mobile_money", phone: "67712345", errIs: payment.ErrInvalidPhoneNumber},
		{name: "mobile money with 10 digits", method: "mobile_money", phone: "6771234567", errIs: payment.ErrInvalidPhoneNumber},
		{name: "mobile money with letters", method: "mobile_money", phone: "67712345a", errIs: payment.ErrInvalidPhoneNumber},
		{name: "mobile money with country code", method: "mobile_money", phone: "+23767712345", errIs: payment.ErrInvalidPhoneNumber},
		{name: "card with token", method: "card", paymentMethodID: "pm_card_visa"},
		{name: "card without token", method: "card", errIs: payment.ErrMissingPaymentMethod},
		{name: "unknown method", method: "cash", errIs: payment.ErrInvalidMethod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := payment.NewInstruction(tt.method, tt.phone, tt.paymentMethodID)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, payment.Method(tt.method), got.Method())
		})
	}
}

func TestPhoneNumber_Masked(t *testing.T) {
	phone, err := payment.NewPhoneNumber("677123456")
	require.NoError(t, err)
	assert.Equal(t, "******456", phone.Masked())
	assert.Equal(t, "677123456", phone.String())
}

func TestNewSucceeded(t *testing.T) {
	instr, err := payment.NewInstruction("card", "", "pm_card_visa")
	require.NoError(t, err)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	charge := payment.Charge{BookingID: uuid.New(), Amount: 1000, Currency: "XAF", Instruction: instr}
	p, err := payment.NewSucceeded(charge, uuid.New(), payment.Receipt{Reference: "pi_123"}, now)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusSucceeded, p.Status())
	assert.Equal(t, "pi_123", p.Reference())

	charge.Amount = 0
	_, err = payment.NewSucceeded(charge, uuid.New(), payment.Receipt{}, now)
	assert.ErrorIs(t, err, payment.ErrInvalidAmount)

	failed := payment.NewFailed(charge, uuid.New(), "insufficient funds", now)
	assert.Equal(t, payment.StatusFailed, failed.Status())
	assert.Equal(t, "insufficient funds", failed.FailureReason())
}

func TestIdempotencyKey(t *testing.T) {
	bookingID := uuid.New()
	wallet, err := payment.NewInstruction("mobile_money", "677 123 456", "")
	require.NoError(t, err)
	sameWallet, err := payment.NewInstruction("mobile_money", "677123456", "")
	require.NoError(t, err)
	otherWallet, err := payment.NewInstruction("mobile_money", "677123457", "")
	require.NoError(t, err)
	visa, err := payment.NewInstruction("card", "", "pm_card_visa")
	require.NoError(t, err)

	key := payment.IdempotencyKey(bookingID, wallet)

	assert.True(t, strings.HasPrefix(key, "booking:"+bookingID.String()+":pay:"), key)
	assert.Equal(t, key, payment.IdempotencyKey(bookingID, sameWallet))
	assert.NotEqual(t, key, payment.IdempotencyKey(bookingID, otherWallet))
	assert.NotEqual(t, key, payment.IdempotencyKey(bookingID, visa))
	assert.NotEqual(t, key, payment.IdempotencyKey(uuid.New(), wallet))
}

func TestNewRefundDue(t *testing.T) {
	instr, err := payment.NewInstruction("card", "", "pm_card_visa")
	require.NoError(t, err)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	charge := payment.Charge{BookingID: uuid.New(), Amount: 1000, Currency: "XAF", Instruction: instr}

	p := payment.NewRefundDue(charge, uuid.New(), payment.Receipt{Reference: "pi_456"}, now)

	assert.Equal(t, payment.StatusRefundDue, p.Status())
	assert.Equal(t, "pi_456", p.Reference())
	assert.Equal(t, pricing.Money(1000), p.Amount())
	assert.Equal(t, charge.BookingID, p.BookingID())
}
