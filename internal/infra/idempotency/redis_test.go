//go:build unit

package idempotency

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"easyrent/internal/infra"
	"easyrent/internal/pkg/config"
	"easyrent/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockKV struct {
	mock.Mock
}

func (m *mockKV) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	args := m.Called(ctx, key, value, expiration)
	return args.Get(0).(*redis.BoolCmd)
}

func (m *mockKV) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)
	return args.Get(0).(*redis.StringCmd)
}

func (m *mockKV) SetArgs(ctx context.Context, key string, value any, a redis.SetArgs) *redis.StatusCmd {
	args := m.Called(ctx, key, value, a)
	return args.Get(0).(*redis.StatusCmd)
}

func (m *mockKV) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	args := m.Called(ctx, keys)
	return args.Get(0).(*redis.IntCmd)
}

func encode(t *testing.T, r commands.IdempotencyRecord) string {
	t.Helper()
	raw, err := json.Marshal(r)
	require.NoError(t, err)
	return string(raw)
}

func TestRedisStore_Begin(t *testing.T) {
	userID, key := uuid.New(), uuid.New()
	k := recordKey("booking:create", userID, key)
	cfg := config.NewTestConfig()

	t.Run("first claim owns the key", func(t *testing.T) {
		kv := new(mockKV)
		kv.On("SetNX", mock.Anything, k, mock.Anything, cfg.Cache.IdempotencyTTL).Return(redis.NewBoolResult(true, nil))

		record, err := NewRedisStore(kv, cfg, nil).Begin(context.Background(), "booking:create", userID, key, "hash")

		require.NoError(t, err)
		assert.Nil(t, record)
		kv.AssertExpectations(t)
	})

	t.Run("existing claim is returned", func(t *testing.T) {
		resultID := uuid.New()
		stored := commands.IdempotencyRecord{Status: commands.IdempotencyCompleted, RequestHash: "hash", ResultID: &resultID}
		kv := new(mockKV)
		kv.On("SetNX", mock.Anything, k, mock.Anything, mock.Anything).Return(redis.NewBoolResult(false, nil))
		kv.On("Get", mock.Anything, k).Return(redis.NewStringResult(encode(t, stored), nil))

		record, err := NewRedisStore(kv, cfg, nil).Begin(context.Background(), "booking:create", userID, key, "hash")

		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, stored, *record)
	})

	t.Run("claim expiring in between is retried", func(t *testing.T) {
		kv := new(mockKV)
		kv.On("SetNX", mock.Anything, k, mock.Anything, mock.Anything).Return(redis.NewBoolResult(false, nil)).Once()
		kv.On("Get", mock.Anything, k).Return(redis.NewStringResult("", redis.Nil)).Once()
		kv.On("SetNX", mock.Anything, k, mock.Anything, mock.Anything).Return(redis.NewBoolResult(true, nil)).Once()

		record, err := NewRedisStore(kv, cfg, nil).Begin(context.Background(), "booking:create", userID, key, "hash")

		require.NoError(t, err)
		assert.Nil(t, record)
		kv.AssertExpectations(t)
	})

	t.Run("redis down", func(t *testing.T) {
		kv := new(mockKV)
		kv.On("SetNX", mock.Anything, k, mock.Anything, mock.Anything).Return(redis.NewBoolResult(false, assert.AnError))

		_, err := NewRedisStore(kv, cfg, nil).Begin(context.Background(), "booking:create", userID, key, "hash")

		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	})
}

func TestRedisStore_Complete(t *testing.T) {
	userID, key, resultID := uuid.New(), uuid.New(), uuid.New()
	k := recordKey("booking:create", userID, key)
	cfg := config.NewTestConfig()

	t.Run("keeps hash and TTL", func(t *testing.T) {
		kv := new(mockKV)
		kv.On("Get", mock.Anything, k).
			Return(redis.NewStringResult(encode(t, commands.IdempotencyRecord{Status: commands.IdempotencyProcessing, RequestHash: "hash"}), nil))
		want := encode(t, commands.IdempotencyRecord{Status: commands.IdempotencyCompleted, RequestHash: "hash", ResultID: &resultID})
		kv.On("SetArgs", mock.Anything, k, mock.MatchedBy(func(v any) bool {
			raw, ok := v.([]byte)
			return ok && string(raw) == want
		}), redis.SetArgs{Mode: "XX", KeepTTL: true}).Return(redis.NewStatusResult("OK", nil))

		err := NewRedisStore(kv, cfg, nil).Complete(context.Background(), "booking:create", userID, key, resultID)

		require.NoError(t, err)
		kv.AssertExpectations(t)
	})

	t.Run("expired claim", func(t *testing.T) {
		kv := new(mockKV)
		kv.On("Get", mock.Anything, k).Return(redis.NewStringResult("", redis.Nil))

		err := NewRedisStore(kv, cfg, nil).Complete(context.Background(), "booking:create", userID, key, resultID)

		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}

func TestRedisStore_Release(t *testing.T) {
	userID, key := uuid.New(), uuid.New()
	kv := new(mockKV)
	kv.On("Del", mock.Anything, []string{recordKey("booking:create", userID, key)}).Return(redis.NewIntResult(1, nil))

	err := NewRedisStore(kv, config.NewTestConfig(), nil).Release(context.Background(), "booking:create", userID, key)

	require.NoError(t, err)
	kv.AssertExpectations(t)
}
