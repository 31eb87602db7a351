package payment

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"easyrent/internal/domain/pricing"

	"github.com/google/uuid"
)

// Instruction is what the customer submitted, after validation.
type Instruction struct {
	method          Method
	phone           PhoneNumber
	paymentMethodID string
}

func NewInstruction(method, phoneNumber, paymentMethodID string) (Instruction, error) {
	m, err := NewMethod(method)
	if err != nil {
		return Instruction{}, err
	}
	switch m {
	case MethodMobileMoney:
		phone, err := NewPhoneNumber(phoneNumber)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{method: m, phone: phone}, nil
	default:
		if paymentMethodID == "" {
			return Instruction{}, ErrMissingPaymentMethod
		}
		return Instruction{method: m, paymentMethodID: paymentMethodID}, nil
	}
}

func (i Instruction) Method() Method          { return i.method }
func (i Instruction) Phone() PhoneNumber      { return i.phone }
func (i Instruction) PaymentMethodID() string { return i.paymentMethodID }

// IdempotencyKey is stable for a booking and instruction, so a repeated or
// concurrent attempt reaches the gateway as the same request.
func IdempotencyKey(bookingID uuid.UUID, in Instruction) string {
	sum := sha256.Sum256([]byte(in.method.String() + "|" + in.phone.String() + "|" + in.paymentMethodID))
	return "booking:" + bookingID.String() + ":pay:" + hex.EncodeToString(sum[:8])
}

// Charge is handed to a gateway.
type Charge struct {
	BookingID      uuid.UUID
	Amount         pricing.Money
	Currency       string
	Description    string
	Instruction    Instruction
	IdempotencyKey string
}

// Receipt is the gateway answer for an accepted charge.
type Receipt struct {
	Reference string
}

type Payment struct {
	id            uuid.UUID
	bookingID     uuid.UUID
	userID        uuid.UUID
	method        Method
	amount        pricing.Money
	currency      string
	status        Status
	reference     string
	failureReason string
	createdAt     time.Time
}

func NewSucceeded(charge Charge, userID uuid.UUID, receipt Receipt, now time.Time) (*Payment, error) {
	if charge.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return &Payment{
		id:        uuid.New(),
		bookingID: charge.BookingID,
		userID:    userID,
		method:    charge.Instruction.Method(),
		amount:    charge.Amount,
		currency:  charge.Currency,
		status:    StatusSucceeded,
		reference: receipt.Reference,
		createdAt: now,
	}, nil
}

func NewFailed(charge Charge, userID uuid.UUID, reason string, now time.Time) *Payment {
	return &Payment{
		id:            uuid.New(),
		bookingID:     charge.BookingID,
		userID:        userID,
		method:        charge.Instruction.Method(),
		amount:        charge.Amount,
		currency:      charge.Currency,
		status:        StatusFailed,
		failureReason: reason,
		createdAt:     now,
	}
}

// NewRefundDue records a capture that arrived after the booking was already
// paid. The money has to be returned to the customer.
func NewRefundDue(charge Charge, userID uuid.UUID, receipt Receipt, now time.Time) *Payment {
	return &Payment{
		id:            uuid.New(),
		bookingID:     charge.BookingID,
		userID:        userID,
		method:        charge.Instruction.Method(),
		amount:        charge.Amount,
		currency:      charge.Currency,
		status:        StatusRefundDue,
		reference:     receipt.Reference,
		failureReason: "booking already paid",
		createdAt:     now,
	}
}

func (p *Payment) ID() uuid.UUID         { return p.id }
func (p *Payment) BookingID() uuid.UUID  { return p.bookingID }
func (p *Payment) UserID() uuid.UUID     { return p.userID }
func (p *Payment) Method() Method        { return p.method }
func (p *Payment) Amount() pricing.Money { return p.amount }
func (p *Payment) Currency() string      { return p.currency }
func (p *Payment) Status() Status        { return p.status }
func (p *Payment) Reference() string     { return p.reference }
func (p *Payment) FailureReason() string { return p.failureReason }
func (p *Payment) CreatedAt() time.Time  { return p.createdAt }
