package queries

import (
	"context"
	"errors"

	"easyrent/internal/domain/pricing"
	"easyrent/internal/infra"
	"easyrent/internal/pkg/config"
	"easyrent/internal/pkg/errs"

	"github.com/google/uuid"
)

//go:generate mockgen -source=pricing.go -destination=../../../tests/mock/queries/pricing_mock.go -package=queriesmock

var (
	ErrUnknownPricingMode = errs.New("unknown pricing mode")
	ErrMalformedInstant   = errs.New("malformed date or time")
)

// QuoteInput carries the raw form values. Empty date fields are allowed and
// produce an invalid quote rather than an error.
type QuoteInput struct {
	CarID      uuid.UUID
	Mode       string
	StartDate  string
	StartTime  string
	EndDate    string
	EndTime    string
	WithDriver bool
}

type PricingQueries interface {
	Quote(ctx context.Context, in QuoteInput) (*QuoteResult, error)
}

// RatesCache holds vehicle rates on the quote path.
type RatesCache interface {
	Get(carID uuid.UUID) (pricing.Rates, bool)
	Add(carID uuid.UUID, rates pricing.Rates)
}

type pricingQueriesImpl struct {
	vehicles   VehicleReadStore
	cache      RatesCache
	calculator pricing.Calculator
	cfg        config.PricingConfig
}

func NewPricingQueries(vehicles VehicleReadStore, cache RatesCache, calculator pricing.Calculator, cfg config.Config) PricingQueries {
	return &pricingQueriesImpl{
		vehicles:   vehicles,
		cache:      cache,
		calculator: calculator,
		cfg:        cfg.Pricing,
	}
}

func (q *pricingQueriesImpl) Quote(ctx context.Context, in QuoteInput) (*QuoteResult, error) {
	mode, err := pricing.NewMode(in.Mode)
	if err != nil {
		return nil, errs.Mark(err, ErrUnknownPricingMode)
	}

	rates, err := q.rates(ctx, in.CarID)
	if err != nil {
		return nil, err
	}

	req := pricing.Request{
		Mode:       mode,
		WithDriver: in.WithDriver,
		Rates:      rates,
	}
	iv, err := pricing.ParseInterval(in.StartDate, in.StartTime, in.EndDate, in.EndTime, q.cfg.Location())
	switch {
	case err == nil:
		req.Start, req.End = iv.Start(), iv.End()
	case errors.Is(err, pricing.ErrMalformedInstant):
		return nil, errs.Mark(err, ErrMalformedInstant)
	default:
		// Incomplete or inverted intervals price as an invalid quote
	}

	return &QuoteResult{
		CarID:    in.CarID,
		Currency: q.cfg.Currency,
		Quote:    q.calculator.Quote(req),
	}, nil
}

func (q *pricingQueriesImpl) rates(ctx context.Context, carID uuid.UUID) (pricing.Rates, error) {
	if r, ok := q.cache.Get(carID); ok {
		return r, nil
	}
	view, err := q.vehicles.FindByID(ctx, carID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return pricing.Rates{}, ErrCarNotFound
		}
		return pricing.Rates{}, err
	}
	if !view.Active {
		return pricing.Rates{}, ErrCarNotFound
	}
	r := view.Rates()
	q.cache.Add(carID, r)
	return r, nil
}
