package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"easyrent/internal/infra"
	"easyrent/internal/pkg/config"
	"easyrent/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "idempotency"

// KV is the subset of *redis.Client the store needs.
type KV interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	SetArgs(ctx context.Context, key string, value any, a redis.SetArgs) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore keeps one JSON record per (scope, user, key) that expires
// after the configured TTL.
type RedisStore struct {
	kv     KV
	ttl    time.Duration
	logger *slog.Logger
}

var _ commands.IdempotencyStore = (*RedisStore)(nil)

func NewRedisStore(kv KV, cfg config.Config, logger *slog.Logger) *RedisStore {
	return &RedisStore{
		kv:     kv,
		ttl:    cfg.Cache.IdempotencyTTL,
		logger: logger,
	}
}

func (s *RedisStore) Begin(ctx context.Context, scope string, userID, key uuid.UUID, requestHash string) (*commands.IdempotencyRecord, error) {
	k := recordKey(scope, userID, key)
	payload, err := json.Marshal(commands.IdempotencyRecord{
		Status:      commands.IdempotencyProcessing,
		RequestHash: requestHash,
	})
	if err != nil {
		return nil, err
	}

	// A record may expire between SetNX and Get; one more attempt settles it
	for range 2 {
		claimed, err := s.kv.SetNX(ctx, k, payload, s.ttl).Result()
		if err != nil {
			return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to claim idempotency key", err)
		}
		if claimed {
			return nil, nil
		}

		existing, err := s.load(ctx, k)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}
	return nil, infra.WrapRepoErr(s.logger, infra.KindConflict, "idempotency key churned while claiming", nil)
}

// Complete keeps the remaining TTL of the claim.
func (s *RedisStore) Complete(ctx context.Context, scope string, userID, key, resultID uuid.UUID) error {
	k := recordKey(scope, userID, key)
	record, err := s.load(ctx, k)
	if err != nil {
		return err
	}
	if record == nil {
		return infra.WrapRepoErr(s.logger, infra.KindNotFound, "idempotency claim expired before completion", nil)
	}

	record.Status = commands.IdempotencyCompleted
	record.ResultID = &resultID
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	err = s.kv.SetArgs(ctx, k, payload, redis.SetArgs{Mode: "XX", KeepTTL: true}).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to complete idempotency key", err)
	}
	return nil
}

func (s *RedisStore) Release(ctx context.Context, scope string, userID, key uuid.UUID) error {
	if err := s.kv.Del(ctx, recordKey(scope, userID, key)).Err(); err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to release idempotency key", err)
	}
	return nil
}

// load returns nil without error when the key does not exist.
func (s *RedisStore) load(ctx context.Context, k string) (*commands.IdempotencyRecord, error) {
	raw, err := s.kv.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to read idempotency key", err)
	}
	var record commands.IdempotencyRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "corrupt idempotency record", err)
	}
	return &record, nil
}

func recordKey(scope string, userID, key uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s:%s", keyPrefix, scope, userID, key)
}
