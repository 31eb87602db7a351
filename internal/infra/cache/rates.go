package cache

import (
	"easyrent/internal/domain/pricing"
	"easyrent/internal/pkg/config"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultRatesCacheSize = 512

// RatesCache keeps the rates of recently quoted cars. Quotes are recomputed
// on every input change so the catalog row is read once per car until its
// prices change.
type RatesCache struct {
	entries *lru.Cache[uuid.UUID, pricing.Rates]
}

func NewRatesCache(cfg config.Config) (*RatesCache, error) {
	size := cfg.Cache.VehicleSize
	if size <= 0 {
		size = defaultRatesCacheSize
	}
	entries, err := lru.New[uuid.UUID, pricing.Rates](size)
	if err != nil {
		return nil, err
	}
	return &RatesCache{entries: entries}, nil
}

func (c *RatesCache) Get(carID uuid.UUID) (pricing.Rates, bool) {
	return c.entries.Get(carID)
}

func (c *RatesCache) Add(carID uuid.UUID, rates pricing.Rates) {
	c.entries.Add(carID, rates)
}

func (c *RatesCache) Invalidate(carID uuid.UUID) {
	c.entries.Remove(carID)
}

func (c *RatesCache) Len() int {
	return c.entries.Len()
}
