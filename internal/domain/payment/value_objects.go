package payment

import (
	"errors"
	"strings"
)

var (
	ErrInvalidMethod        = errors.New("payment method must be mobile_money or card")
	ErrInvalidPhoneNumber   = errors.New("phone number must have exactly 9 digits")
	ErrMissingPaymentMethod = errors.New("card payments require a payment method token")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrDeclined             = errors.New("payment declined")
)

type Method string

const (
	MethodMobileMoney Method = "mobile_money"
	MethodCard        Method = "card"
)

func (m Method) String() string {
	return string(m)
}

func NewMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodMobileMoney, MethodCard:
		return Method(s), nil
	default:
		return "", ErrInvalidMethod
	}
}

type PhoneNumber struct {
	value string
}

// NewPhoneNumber accepts nine digits, ignoring spaces used as separators.
func NewPhoneNumber(s string) (PhoneNumber, error) {
	digits := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if len(digits) != 9 {
		return PhoneNumber{}, ErrInvalidPhoneNumber
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return PhoneNumber{}, ErrInvalidPhoneNumber
		}
	}
	return PhoneNumber{value: digits}, nil
}

func (p PhoneNumber) String() string {
	return p.value
}

// Masked keeps the last three digits for logs and receipts.
func (p PhoneNumber) Masked() string {
	if len(p.value) < 3 {
		return p.value
	}
	return strings.Repeat("*", len(p.value)-3) + p.value[len(p.value)-3:]
}

type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusRefundDue Status = "refund_due"
)

func (s Status) String() string {
	return string(s)
}
