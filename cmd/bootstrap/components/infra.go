package components

import (
	"easyrent/internal/infra/broker"
	"easyrent/internal/infra/cache"
	"easyrent/internal/infra/idempotency"
	"easyrent/internal/infra/payment"
	"easyrent/internal/usecase/commands"
	"easyrent/internal/usecase/queries"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var InfraModule = fx.Module("infra",
	fx.Provide(
		// Redis backed adapters take the narrow interfaces they use
		func(client *redis.Client) broker.PubSub { return client },
		func(client *redis.Client) idempotency.KV { return client },

		fx.Annotate(
			broker.NewRedisBroker,
			fx.As(new(commands.NotificationPublisher)),
			fx.As(new(queries.NotificationSubscriber)),
		),
		fx.Annotate(
			idempotency.NewRedisStore,
			fx.As(new(commands.IdempotencyStore)),
		),
		fx.Annotate(
			cache.NewRatesCache,
			fx.As(new(queries.RatesCache)),
			fx.As(new(commands.RatesInvalidator)),
		),
		fx.Annotate(
			payment.NewGateway,
			fx.As(new(commands.PaymentGateway)),
		),
	),
)
