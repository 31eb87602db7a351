//go:build unit

package cache

import (
	"testing"

	"easyrent/internal/domain/pricing"
	"easyrent/internal/pkg/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatesCache(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.Cache.VehicleSize = 2
	c, err := NewRatesCache(cfg)
	require.NoError(t, err)

	a, b, d := uuid.New(), uuid.New(), uuid.New()
	c.Add(a, pricing.Rates{PerDay: 1})
	c.Add(b, pricing.Rates{PerDay: 2})

	got, ok := c.Get(a)
	require.True(t, ok)
	assert.Equal(t, pricing.Money(1), got.PerDay)

	// a was used last, so b is evicted
	c.Add(d, pricing.Rates{PerDay: 3})
	_, ok = c.Get(b)
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())

	c.Invalidate(a)
	_, ok = c.Get(a)
	assert.False(t, ok)
}

func TestNewRatesCache_DefaultSize(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.Cache.VehicleSize = 0

	c, err := NewRatesCache(cfg)

	require.NoError(t, err)
	assert.NotNil(t, c)
}
