package payment

import (
	"context"
	"fmt"
	"log/slog"

	domain "easyrent/internal/domain/payment"
	"easyrent/internal/pkg/clock"
	"easyrent/internal/pkg/config"
	"easyrent/internal/usecase/commands"
)

// Router settles each charge through the gateway registered for its method.
type Router struct {
	gateways map[domain.Method]commands.PaymentGateway
}

var _ commands.PaymentGateway = (*Router)(nil)

func NewRouter(gateways map[domain.Method]commands.PaymentGateway) *Router {
	return &Router{gateways: gateways}
}

// NewGateway wires the gateways for the configured payment mode. Live mode
// sends cards to Stripe; mobile money is always simulated.
func NewGateway(cfg config.Config, clk clock.Clock, logger *slog.Logger) (*Router, error) {
	if err := cfg.Payment.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	var card commands.PaymentGateway
	switch cfg.Payment.Mode {
	case config.PaymentModeLive:
		card = NewStripeGateway(cfg.Payment.StripeSecretKey, logger)
	default:
		card = NewDemoCardGateway(clk)
	}

	logger.Info("payment gateways configured", "mode", cfg.Payment.Mode)
	return NewRouter(map[domain.Method]commands.PaymentGateway{
		domain.MethodCard:        card,
		domain.MethodMobileMoney: NewMobileMoneySimulator(clk),
	}), nil
}

func (r *Router) Charge(ctx context.Context, charge domain.Charge) (domain.Receipt, error) {
	gw, ok := r.gateways[charge.Instruction.Method()]
	if !ok {
		return domain.Receipt{}, fmt.Errorf("no gateway for payment method %q", charge.Instruction.Method())
	}
	return gw.Charge(ctx, charge)
}
