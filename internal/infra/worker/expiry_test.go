//go:build unit

package worker_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"easyrent/internal/infra/worker"
	workermock "easyrent/tests/mock/worker"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExpiryScheduler_SchedulePendingExpiry(t *testing.T) {
	bookingID := uuid.New()

	t.Run("enqueues a delayed task keyed by booking", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := workermock.NewMockEnqueuer(ctrl)
		s := worker.NewExpiryScheduler(client, discardLogger())

		client.EXPECT().EnqueueContext(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
				assert.Equal(t, worker.TypeBookingExpire, task.Type())
				assert.JSONEq(t, `{"booking_id":"`+bookingID.String()+`"}`, string(task.Payload()))

				got := map[asynq.OptionType]any{}
				for _, o := range opts {
					got[o.Type()] = o.Value()
				}
				assert.Equal(t, 30*time.Minute, got[asynq.ProcessInOpt])
				assert.Equal(t, "booking:expire:"+bookingID.String(), got[asynq.TaskIDOpt])
				return &asynq.TaskInfo{ID: "booking:expire:" + bookingID.String()}, nil
			})

		require.NoError(t, s.SchedulePendingExpiry(context.Background(), bookingID, 30*time.Minute))
	})

	t.Run("already scheduled is not an error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := workermock.NewMockEnqueuer(ctrl)
		s := worker.NewExpiryScheduler(client, discardLogger())

		client.EXPECT().EnqueueContext(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, asynq.ErrTaskIDConflict)

		assert.NoError(t, s.SchedulePendingExpiry(context.Background(), bookingID, time.Minute))
	})

	t.Run("redis failure is returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := workermock.NewMockEnqueuer(ctrl)
		s := worker.NewExpiryScheduler(client, discardLogger())
		redisErr := errors.New("dial tcp: connection refused")

		client.EXPECT().EnqueueContext(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, redisErr)

		assert.ErrorIs(t, s.SchedulePendingExpiry(context.Background(), bookingID, time.Minute), redisErr)
	})
}

func TestExpiryHandler(t *testing.T) {
	bookingID := uuid.New()
	task, err := worker.NewExpireTask(bookingID)
	require.NoError(t, err)

	tests := []struct {
		name    string
		expired bool
		err     error
		wantErr bool
	}{
		{name: "pending booking is cancelled", expired: true},
		{name: "booking already settled", expired: false},
		{name: "database failure is retried", err: errors.New("db down"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			expirer := workermock.NewMockExpirer(ctrl)
			expirer.EXPECT().ExpirePending(gomock.Any(), bookingID).Return(tt.expired, tt.err)

			err := worker.NewExpiryHandler(expirer, discardLogger())(context.Background(), task)

			if tt.wantErr {
				require.Error(t, err)
				assert.NotErrorIs(t, err, asynq.SkipRetry)
				return
			}
			assert.NoError(t, err)
		})
	}

	t.Run("malformed payload skips retries", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		expirer := workermock.NewMockExpirer(ctrl)

		err := worker.NewExpiryHandler(expirer, discardLogger())(context.Background(), asynq.NewTask(worker.TypeBookingExpire, []byte(`{"booking_id":""}`)))

		assert.ErrorIs(t, err, asynq.SkipRetry)
	})
}

func TestNewMux_RoutesExpiryTasks(t *testing.T) {
	bookingID := uuid.New()
	task, err := worker.NewExpireTask(bookingID)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	expirer := workermock.NewMockExpirer(ctrl)
	expirer.EXPECT().ExpirePending(gomock.Any(), bookingID).Return(true, nil)

	mux := worker.NewMux(expirer, discardLogger())

	assert.NoError(t, mux.ProcessTask(context.Background(), task))
}
