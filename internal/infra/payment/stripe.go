package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	domain "easyrent/internal/domain/payment"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// IntentCreator is the part of the Stripe PaymentIntents client in use.
type IntentCreator interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// StripeGateway confirms a PaymentIntent synchronously with the card token
// collected by the client SDK.
type StripeGateway struct {
	intents IntentCreator
	logger  *slog.Logger
}

func NewStripeGateway(secretKey string, logger *slog.Logger) *StripeGateway {
	sc := client.New(secretKey, nil)
	return NewStripeGatewayWith(sc.PaymentIntents, logger)
}

func NewStripeGatewayWith(intents IntentCreator, logger *slog.Logger) *StripeGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &StripeGateway{intents: intents, logger: logger}
}

func (g *StripeGateway) Charge(ctx context.Context, charge domain.Charge) (domain.Receipt, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(charge.Amount.Int64()),
		Currency:      stripe.String(strings.ToLower(charge.Currency)),
		PaymentMethod: stripe.String(charge.Instruction.PaymentMethodID()),
		Description:   stripe.String(charge.Description),
		Confirm:       stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey(charge.IdempotencyKey)
	params.AddMetadata("booking_id", charge.BookingID.String())

	pi, err := g.intents.New(params)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) && se.Type == stripe.ErrorTypeCard {
			return domain.Receipt{}, fmt.Errorf("%s: %w", se.Msg, domain.ErrDeclined)
		}
		g.logger.Error("stripe payment intent failed", "booking_id", charge.BookingID, "error", err.Error())
		return domain.Receipt{}, err
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return domain.Receipt{}, fmt.Errorf("payment intent %s ended in status %s: %w", pi.ID, pi.Status, domain.ErrDeclined)
	}
	return domain.Receipt{Reference: pi.ID}, nil
}
