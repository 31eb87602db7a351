package commands

import (
	"context"

	"easyrent/internal/domain/pricing"
	"easyrent/internal/domain/vehicle"
	"easyrent/internal/infra"
	"easyrent/internal/pkg/clock"
	"easyrent/internal/pkg/errs"
	"easyrent/internal/usecase/queries"
	"easyrent/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=vehicle.go -destination=../../../tests/mock/commands/vehicle_mock.go -package=commandsmock

// UpdatePricesInput is a partial update; nil fields are left unchanged.
type UpdatePricesInput struct {
	PricePerDay  *int64
	PricePerHour *int64
	MonthlyPrice *int64
	ClearHourly  bool
	ClearMonthly bool
}

func (in UpdatePricesInput) toDomain() vehicle.PriceUpdate {
	return vehicle.PriceUpdate{
		PricePerDay:  moneyPtr(in.PricePerDay),
		PricePerHour: moneyPtr(in.PricePerHour),
		MonthlyPrice: moneyPtr(in.MonthlyPrice),
		ClearHourly:  in.ClearHourly,
		ClearMonthly: in.ClearMonthly,
	}
}

type VehicleCommands interface {
	UpdatePrices(ctx context.Context, actor shared.Actor, carID uuid.UUID, in UpdatePricesInput) (*queries.VehicleView, error)
}

type vehicleCommandsImpl struct {
	uow         shared.UnitOfWork
	queries     queries.VehicleQueries
	invalidator RatesInvalidator
	clock       clock.Clock
}

func NewVehicleCommands(uow shared.UnitOfWork, vehicleQueries queries.VehicleQueries, invalidator RatesInvalidator, clock clock.Clock) VehicleCommands {
	return &vehicleCommandsImpl{
		uow:         uow,
		queries:     vehicleQueries,
		invalidator: invalidator,
		clock:       clock,
	}
}

func (c *vehicleCommandsImpl) UpdatePrices(ctx context.Context, actor shared.Actor, carID uuid.UUID, in UpdatePricesInput) (*queries.VehicleView, error) {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		v, err := tx.Vehicles().FindByIDForUpdate(ctx, tx.DB(), carID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrCarNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !actor.ActsFor(v.AgencyID()) {
			return ErrForbidden
		}
		if err := v.UpdatePrices(in.toDomain(), c.clock.Now()); err != nil {
			return errs.Mark(err, ErrValidation)
		}
		if err := tx.Vehicles().UpdatePrices(ctx, tx.DB(), v); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.invalidator.Invalidate(carID)
	return c.queries.GetByID(ctx, carID)
}

func moneyPtr(v *int64) *pricing.Money {
	if v == nil {
		return nil
	}
	m := pricing.Money(*v)
	return &m
}
