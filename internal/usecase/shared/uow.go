package shared

import (
	"context"
	"time"

	"easyrent/internal/domain/booking"
	"easyrent/internal/domain/notification"
	"easyrent/internal/domain/payment"
	"easyrent/internal/domain/vehicle"
	"easyrent/internal/infra/db"

	"github.com/google/uuid"
)

//go:generate mockgen -source=uow.go -destination=../../../tests/mock/shared/uow_mock.go -package=sharedmock

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Vehicles() VehicleRepository
	Payments() PaymentRepository
	Notifications() NotificationRepository
	Users() UserRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	// SlotIsFree reports whether no holding booking of the car overlaps slot.
	SlotIsFree(ctx context.Context, carID uuid.UUID, slot booking.Slot) (bool, error)
	DriverByID(ctx context.Context, id uuid.UUID) (*DriverSnapshot, error)
	BookingForPayment(ctx context.Context, id uuid.UUID) (*PaymentTargetSnapshot, error)
}

// Minimal snapshots for command read operations
type DriverSnapshot struct {
	ID       uuid.UUID
	Email    string
	IsActive bool
}

type PaymentTargetSnapshot struct {
	BookingID  uuid.UUID
	UserID     uuid.UUID
	Status     booking.Status
	TotalPrice int64
	CarLabel   string
	Paid       bool
}

type BookingRepository interface {
	Create(ctx context.Context, tx db.DBTX, b *booking.Booking) error
	FindByIDForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*booking.Booking, error)
	UpdateStatus(ctx context.Context, tx db.DBTX, b *booking.Booking) error
}

type VehicleRepository interface {
	FindByIDForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*vehicle.Vehicle, error)
	UpdatePrices(ctx context.Context, tx db.DBTX, v *vehicle.Vehicle) error
}

type PaymentRepository interface {
	Create(ctx context.Context, tx db.DBTX, p *payment.Payment) error
	SucceededReference(ctx context.Context, tx db.DBTX, bookingID uuid.UUID) (string, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, tx db.DBTX, n *notification.Notification) error
}

type UserRepository interface {
	UpdateLastLogin(ctx context.Context, tx db.DBTX, userID uuid.UUID, at time.Time) error
}
