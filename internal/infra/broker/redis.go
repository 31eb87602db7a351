package broker

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"easyrent/internal/usecase/commands"
	"easyrent/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const subscriptionBuffer = 16

// PubSub is the subset of *redis.Client the broker needs.
type PubSub interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

// RedisBroker fans notifications out over one pub/sub channel per user so
// every API instance can serve any user's stream.
type RedisBroker struct {
	client PubSub
	logger *slog.Logger
}

var (
	_ commands.NotificationPublisher = (*RedisBroker)(nil)
	_ queries.NotificationSubscriber = (*RedisBroker)(nil)
)

func NewRedisBroker(client PubSub, logger *slog.Logger) *RedisBroker {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisBroker{client: client, logger: logger}
}

func Channel(userID uuid.UUID) string {
	return "notifications:" + userID.String()
}

func (b *RedisBroker) Publish(ctx context.Context, n *queries.NotificationView) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, Channel(n.UserID), payload).Err()
}

// Subscribe returns once Redis has confirmed the subscription, so nothing
// published afterwards is missed.
func (b *RedisBroker) Subscribe(ctx context.Context, userID uuid.UUID) (queries.Subscription, error) {
	ps := b.client.Subscribe(ctx, Channel(userID))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}

	s := &subscription{
		ps:   ps,
		out:  make(chan *queries.NotificationView, subscriptionBuffer),
		done: make(chan struct{}),
	}
	go s.forward(b.logger)
	return s, nil
}

type subscription struct {
	ps        *redis.PubSub
	out       chan *queries.NotificationView
	done      chan struct{}
	closeOnce sync.Once
}

func (s *subscription) C() <-chan *queries.NotificationView {
	return s.out
}

func (s *subscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.ps.Close()
	})
	return err
}

func (s *subscription) forward(logger *slog.Logger) {
	defer close(s.out)
	for {
		select {
		case <-s.done:
			return
		case msg, ok := <-s.ps.Channel():
			if !ok {
				return
			}
			var n queries.NotificationView
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				logger.Warn("dropping malformed notification", "channel", msg.Channel, "error", err.Error())
				continue
			}
			select {
			case s.out <- &n:
			case <-s.done:
				return
			}
		}
	}
}
