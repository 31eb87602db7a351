package queries

import (
	"context"

	"easyrent/internal/pkg/config"

	"github.com/google/uuid"
)

//go:generate mockgen -source=notification.go -destination=../../../tests/mock/queries/notification_mock.go -package=queriesmock

type NotificationQueries interface {
	// Recent returns the newest notifications first, capped at the feed limit.
	Recent(ctx context.Context, userID uuid.UUID, limit int) ([]*NotificationView, error)
	FeedLimit() int
}

type NotificationReadStore interface {
	Recent(ctx context.Context, userID uuid.UUID, limit int) ([]*NotificationView, error)
}

// NotificationSubscriber delivers notifications as they are published.
type NotificationSubscriber interface {
	Subscribe(ctx context.Context, userID uuid.UUID) (Subscription, error)
}

type Subscription interface {
	C() <-chan *NotificationView
	Close() error
}

type notificationQueriesImpl struct {
	store     NotificationReadStore
	feedLimit int
}

func NewNotificationQueries(store NotificationReadStore, cfg config.Config) NotificationQueries {
	limit := cfg.Notification.FeedLimit
	if limit <= 0 {
		limit = MaxListLimit
	}
	return &notificationQueriesImpl{store: store, feedLimit: limit}
}

func (q *notificationQueriesImpl) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]*NotificationView, error) {
	views, err := q.store.Recent(ctx, userID, ValidateLimit(limit, q.feedLimit))
	if err != nil {
		return nil, err
	}
	if views == nil {
		views = []*NotificationView{}
	}
	return views, nil
}

func (q *notificationQueriesImpl) FeedLimit() int {
	return q.feedLimit
}
