package payment

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"

	domain "easyrent/internal/domain/payment"
	"easyrent/internal/pkg/clock"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/oklog/ulid/v2"
)

// Stripe test tokens that always decline.
var declinedCardTokens = map[string]bool{
	"tok_chargeDeclined":     true,
	"pm_card_chargeDeclined": true,
}

// DeclinedMobileMoneyNumber simulates a wallet without funds.
const DeclinedMobileMoneyNumber = "699999999"

// DemoCardGateway approves every card token except the Stripe decline tokens.
type DemoCardGateway struct {
	clock    clock.Clock
	receipts *receiptLedger
}

func NewDemoCardGateway(clk clock.Clock) *DemoCardGateway {
	return &DemoCardGateway{clock: clk, receipts: newReceiptLedger()}
}

func (g *DemoCardGateway) Charge(ctx context.Context, charge domain.Charge) (domain.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return domain.Receipt{}, err
	}
	return g.receipts.settle(charge.IdempotencyKey, func() (domain.Receipt, error) {
		if declinedCardTokens[charge.Instruction.PaymentMethodID()] {
			return domain.Receipt{}, fmt.Errorf("your card was declined: %w", domain.ErrDeclined)
		}
		return domain.Receipt{Reference: reference("demo_card", g.clock)}, nil
	})
}

// MobileMoneySimulator stands in for the operator push-payment flow.
type MobileMoneySimulator struct {
	clock    clock.Clock
	receipts *receiptLedger
}

func NewMobileMoneySimulator(clk clock.Clock) *MobileMoneySimulator {
	return &MobileMoneySimulator{clock: clk, receipts: newReceiptLedger()}
}

func (g *MobileMoneySimulator) Charge(ctx context.Context, charge domain.Charge) (domain.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return domain.Receipt{}, err
	}
	return g.receipts.settle(charge.IdempotencyKey, func() (domain.Receipt, error) {
		if charge.Instruction.Phone().String() == DeclinedMobileMoneyNumber {
			return domain.Receipt{}, fmt.Errorf("insufficient funds on %s: %w", charge.Instruction.Phone().Masked(), domain.ErrDeclined)
		}
		return domain.Receipt{Reference: reference("momo", g.clock)}, nil
	})
}

const maxRememberedCharges = 4096

// receiptLedger replays the receipt of an accepted charge for a repeated
// idempotency key, the way a real gateway does. Declines are not kept.
type receiptLedger struct {
	mu      sync.Mutex
	entries *lru.Cache[string, domain.Receipt]
}

func newReceiptLedger() *receiptLedger {
	// lru.New only fails on a non-positive size
	entries, _ := lru.New[string, domain.Receipt](maxRememberedCharges)
	return &receiptLedger{entries: entries}
}

func (l *receiptLedger) settle(key string, capture func() (domain.Receipt, error)) (domain.Receipt, error) {
	if key == "" {
		return capture()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if receipt, ok := l.entries.Get(key); ok {
		return receipt, nil
	}
	receipt, err := capture()
	if err != nil {
		return domain.Receipt{}, err
	}
	l.entries.Add(key, receipt)
	return receipt, nil
}

func reference(prefix string, clk clock.Clock) string {
	id := ulid.MustNew(ulid.Timestamp(clk.Now()), rand.Reader)
	return prefix + "_" + id.String()
}
