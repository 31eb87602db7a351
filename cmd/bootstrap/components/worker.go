package components

import (
	"context"

	"easyrent/internal/infra/worker"
	"easyrent/internal/pkg/config"
	"easyrent/internal/usecase/commands"

	"github.com/hibiken/asynq"
	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewAsynqClient,
		func(client *asynq.Client) worker.Enqueuer { return client },
		fx.Annotate(
			worker.NewExpiryScheduler,
			fx.As(new(commands.ExpiryScheduler)),
		),
		func(cmds commands.BookingCommands) worker.Expirer { return cmds },
		worker.NewServer,
	),
	fx.Invoke(startWorker),
)

func NewAsynqClient(lc fx.Lifecycle, cfg config.Config) *asynq.Client {
	client := asynq.NewClient(worker.RedisOpt(cfg.Redis))
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})
	return client
}

func startWorker(lc fx.Lifecycle, srv *worker.Server) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return srv.Start()
		},
		OnStop: func(_ context.Context) error {
			srv.Shutdown()
			return nil
		},
	})
}
