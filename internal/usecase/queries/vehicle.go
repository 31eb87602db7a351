package queries

import (
	"context"

	"easyrent/internal/infra"
	"easyrent/internal/pkg/errs"

	"github.com/google/uuid"
)

//go:generate mockgen -source=vehicle.go -destination=../../../tests/mock/queries/vehicle_mock.go -package=queriesmock

var ErrCarNotFound = errs.New("car not found")

const maxVehiclePage = 100

type VehicleQueries interface {
	List(ctx context.Context, filter VehicleFilter) ([]*VehicleView, error)
	GetByID(ctx context.Context, id uuid.UUID) (*VehicleView, error)
}

type VehicleReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*VehicleView, error)
	List(ctx context.Context, filter VehicleFilter) ([]*VehicleView, error)
}

type vehicleQueriesImpl struct {
	store VehicleReadStore
}

func NewVehicleQueries(store VehicleReadStore) VehicleQueries {
	return &vehicleQueriesImpl{store: store}
}

func (q *vehicleQueriesImpl) List(ctx context.Context, filter VehicleFilter) ([]*VehicleView, error) {
	filter.Limit = ValidateLimit(filter.Limit, maxVehiclePage)
	views, err := q.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, v := range views {
		v.FillEffectivePrices()
	}
	return views, nil
}

func (q *vehicleQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*VehicleView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}
	view.FillEffectivePrices()
	return view, nil
}
