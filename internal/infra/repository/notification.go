package repository

import (
	"context"
	"log/slog"

	"easyrent/internal/domain/notification"
	"easyrent/internal/infra"
	"easyrent/internal/infra/db"
	"easyrent/internal/pkg/pgconv"
)

const insertNotificationSQL = `
INSERT INTO notifications (id, user_id, event, booking_id, message, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

type NotificationRepository struct {
	logger *slog.Logger
}

func NewNotificationRepository(logger *slog.Logger) *NotificationRepository {
	return &NotificationRepository{logger: logger}
}

func (r *NotificationRepository) Create(ctx context.Context, tx db.DBTX, n *notification.Notification) error {
	_, err := tx.Exec(ctx, insertNotificationSQL,
		n.ID(),
		n.UserID(),
		n.Event().String(),
		pgconv.UUIDPtrToPgtype(n.BookingID()),
		n.Message(),
		n.CreatedAt(),
	)
	if err != nil {
		return infra.WrapPgErr(r.logger, "failed to create notification", err)
	}
	return nil
}
