package readstore

import (
	"context"
	"log/slog"

	"easyrent/internal/infra"
	"easyrent/internal/infra/db"
	"easyrent/internal/pkg/pgconv"
	"easyrent/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const recentNotificationsSQL = `
SELECT id, user_id, event, booking_id, message, created_at
FROM notifications
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2`

type NotificationReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewNotificationReadStore(db db.DBTX, logger *slog.Logger) *NotificationReadStore {
	return &NotificationReadStore{
		db:     db,
		logger: logger,
	}
}

func (r *NotificationReadStore) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]*queries.NotificationView, error) {
	rows, err := r.db.Query(ctx, recentNotificationsSQL, userID, limit)
	if err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to list notifications", err)
	}
	defer rows.Close()

	views := []*queries.NotificationView{}
	for rows.Next() {
		var (
			v         queries.NotificationView
			bookingID pgtype.UUID
		)
		if err := rows.Scan(&v.ID, &v.UserID, &v.Event, &bookingID, &v.Message, &v.CreatedAt); err != nil {
			return nil, infra.WrapPgErr(r.logger, "failed to scan notification", err)
		}
		v.BookingID = pgconv.UUIDPtrFromPgtype(bookingID)
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to list notifications", err)
	}
	return views, nil
}
