package components

import (
	"easyrent/internal/handler"
	"easyrent/internal/handler/api"
	"easyrent/internal/handler/middleware"
	"easyrent/internal/pkg/config"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewCarHandler,
		api.NewQuoteHandler,
		api.NewBookingHandler,
		api.NewPaymentHandler,
		api.NewNotificationHandler,
		middleware.NewAuthMiddleware,
		func(cfg config.Config) *middleware.RateLimiter {
			return middleware.NewRateLimiter(cfg.RateLimit)
		},
		newHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

type handlerParams struct {
	fx.In

	Auth         *api.AuthHandler
	Car          *api.CarHandler
	Quote        *api.QuoteHandler
	Booking      *api.BookingHandler
	Payment      *api.PaymentHandler
	Notification *api.NotificationHandler
}

func newHandlers(p handlerParams) handler.Handlers {
	return handler.Handlers{
		Auth:         p.Auth,
		Car:          p.Car,
		Quote:        p.Quote,
		Booking:      p.Booking,
		Payment:      p.Payment,
		Notification: p.Notification,
	}
}
