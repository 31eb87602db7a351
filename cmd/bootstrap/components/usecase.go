package components

import (
	"easyrent/internal/domain/booking"
	"easyrent/internal/domain/pricing"
	"easyrent/internal/pkg/clock"
	"easyrent/internal/pkg/config"
	"easyrent/internal/usecase"
	"easyrent/internal/usecase/commands"
	"easyrent/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		func(cfg config.Config) *pricing.TieredCalculator {
			return pricing.NewTieredCalculator(pricing.Money(cfg.Pricing.DriverDailyRate))
		},
		fx.As(new(pricing.Calculator)),
	),
	func(clock clock.Clock, calc pricing.Calculator) *booking.Services {
		return &booking.Services{
			Clock:      clock,
			Calculator: calc,
		}
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewVehicleCommands,
		commands.NewBookingCommands,
		commands.NewPaymentCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUserQueries,
		queries.NewVehicleQueries,
		queries.NewPricingQueries,
		queries.NewBookingQueries,
		queries.NewPaymentQueries,
		queries.NewNotificationQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
