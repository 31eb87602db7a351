package worker

import (
	"fmt"
	"log/slog"

	"easyrent/internal/pkg/config"

	"github.com/hibiken/asynq"
)

func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}
}

// Server runs the background task handlers.
type Server struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *slog.Logger
}

func NewServer(cfg config.Config, expirer Expirer, logger *slog.Logger) *Server {
	srv := asynq.NewServer(RedisOpt(cfg.Redis), asynq.Config{
		Concurrency: cfg.Worker.Concurrency,
		Queues:      map[string]int{"default": 1},
		Logger:      &slogAdapter{logger: logger},
	})

	return &Server{
		srv:    srv,
		mux:    NewMux(expirer, logger),
		logger: logger,
	}
}

func NewMux(expirer Expirer, logger *slog.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingExpire, NewExpiryHandler(expirer, logger))
	return mux
}

// Start does not block.
func (s *Server) Start() error {
	s.logger.Info("starting background worker")
	return s.srv.Start(s.mux)
}

func (s *Server) Shutdown() {
	s.logger.Info("stopping background worker")
	s.srv.Shutdown()
}

type slogAdapter struct {
	logger *slog.Logger
}

func (a *slogAdapter) Debug(args ...any) { a.logger.Debug(fmt.Sprint(args...), slog.String("component", "asynq")) }
func (a *slogAdapter) Info(args ...any)  { a.logger.Info(fmt.Sprint(args...), slog.String("component", "asynq")) }
func (a *slogAdapter) Warn(args ...any)  { a.logger.Warn(fmt.Sprint(args...), slog.String("component", "asynq")) }
func (a *slogAdapter) Error(args ...any) { a.logger.Error(fmt.Sprint(args...), slog.String("component", "asynq")) }

// Fatal is only called by asynq on unrecoverable startup errors.
func (a *slogAdapter) Fatal(args ...any) {
	a.logger.Error(fmt.Sprint(args...), slog.String("component", "asynq"), slog.Bool("fatal", true))
	panic(fmt.Sprint(args...))
}
