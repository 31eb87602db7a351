//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"easyrent/internal/domain/user"
	"easyrent/internal/pkg/clock"
	"easyrent/internal/pkg/jwt"
	"easyrent/internal/pkg/password"
	"easyrent/internal/usecase/commands"
	"easyrent/internal/usecase/queries"
	"easyrent/internal/usecase/shared"
	"easyrent/tests/common/builder"
	queriesmock "easyrent/tests/mock/queries"
	sharedmock "easyrent/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuthCommands_Login(t *testing.T) {
	hash, err := password.HashPassword("password123")
	require.NoError(t, err)
	jwtService := jwt.NewService("test-secret", 15*time.Minute, time.Hour)
	agencyID := uuid.New()

	setup := func(t *testing.T) (*queriesmock.MockUserReadStore, *sharedmock.MockUserRepository, commands.AuthCommands) {
		ctrl := gomock.NewController(t)
		uow := sharedmock.NewMockUnitOfWork(ctrl)
		tx := sharedmock.NewMockTx(ctrl)
		users := sharedmock.NewMockUserRepository(ctrl)
		store := queriesmock.NewMockUserReadStore(ctrl)

		uow.EXPECT().Within(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
				return fn(ctx, tx)
			}).AnyTimes()
		tx.EXPECT().DB().Return(nil).AnyTimes()
		tx.EXPECT().Users().Return(users).AnyTimes()

		return store, users, commands.NewAuthCommands(uow, store, jwtService, clock.NewMockClock(builder.DefaultNow))
	}

	t.Run("agency staff gets tokens carrying the agency", func(t *testing.T) {
		store, users, cmds := setup(t)
		view := &queries.UserView{ID: uuid.New(), Email: "staff@example.com", Role: "agency", AgencyID: &agencyID, IsActive: true}

		store.EXPECT().FindByEmail(gomock.Any(), "staff@example.com").Return(view, hash, nil)
		users.EXPECT().UpdateLastLogin(gomock.Any(), gomock.Any(), view.ID, builder.DefaultNow).Return(nil)

		result, err := cmds.Login(context.Background(), commands.LoginInput{Email: "staff@example.com", Password: "password123"})

		require.NoError(t, err)
		claims, err := jwtService.ValidateAccessToken(result.TokenPair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, view.ID, claims.UserID)
		assert.Equal(t, string(user.RoleAgency), claims.Role)
		require.NotNil(t, claims.AgencyID)
		assert.Equal(t, agencyID, *claims.AgencyID)

		_, err = jwtService.ValidateRefreshToken(result.TokenPair.RefreshToken)
		assert.NoError(t, err)
	})

	t.Run("last login failure does not fail the login", func(t *testing.T) {
		store, users, cmds := setup(t)
		view := &queries.UserView{ID: uuid.New(), Email: "a@example.com", Role: "customer", IsActive: true}

		store.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(view, hash, nil)
		users.EXPECT().UpdateLastLogin(gomock.Any(), gomock.Any(), view.ID, gomock.Any()).Return(errors.New("db down"))

		_, err := cmds.Login(context.Background(), commands.LoginInput{Email: "a@example.com", Password: "password123"})

		assert.NoError(t, err)
	})

	t.Run("failures", func(t *testing.T) {
		tests := []struct {
			name      string
			input     commands.LoginInput
			view      *queries.UserView
			storeErr  error
			wantErr   error
			skipStore bool
		}{
			{
				name:    "wrong password",
				input:   commands.LoginInput{Email: "a@example.com", Password: "wrong-password"},
				view:    &queries.UserView{ID: uuid.New(), Role: "customer", IsActive: true},
				wantErr: commands.ErrInvalidCredentials,
			},
			{
				name:     "unknown email looks like a wrong password",
				input:    commands.LoginInput{Email: "nobody@example.com", Password: "password123"},
				storeErr: errors.New("not found"),
				wantErr:  commands.ErrInvalidCredentials,
			},
			{
				name:    "inactive user",
				input:   commands.LoginInput{Email: "a@example.com", Password: "password123"},
				view:    &queries.UserView{ID: uuid.New(), Role: "customer", IsActive: false},
				wantErr: commands.ErrUserInactive,
			},
			{
				name:      "malformed email",
				input:     commands.LoginInput{Email: "not-an-email", Password: "password123"},
				wantErr:   commands.ErrAuthenticationFailed,
				skipStore: true,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				store, _, cmds := setup(t)
				if !tt.skipStore {
					store.EXPECT().FindByEmail(gomock.Any(), tt.input.Email).Return(tt.view, hash, tt.storeErr)
				}

				_, err := cmds.Login(context.Background(), tt.input)

				assertIs(t, err, tt.wantErr)
			})
		}
	})
}

func TestAuthCommands_RefreshToken(t *testing.T) {
	jwtService := jwt.NewService("test-secret", 15*time.Minute, time.Hour)
	userID := uuid.New()

	setup := func(t *testing.T) (*queriesmock.MockUserReadStore, commands.AuthCommands) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockUserReadStore(ctrl)
		return store, commands.NewAuthCommands(sharedmock.NewMockUnitOfWork(ctrl), store, jwtService, clock.NewMockClock(builder.DefaultNow))
	}

	refresh, err := jwtService.GenerateRefreshToken(jwt.Subject{UserID: userID, Role: user.RoleCustomer})
	require.NoError(t, err)

	t.Run("issues a new pair from the current role", func(t *testing.T) {
		store, cmds := setup(t)
		store.EXPECT().FindByID(gomock.Any(), userID).
			Return(&queries.UserView{ID: userID, Role: "admin", IsActive: true}, nil)

		pair, err := cmds.RefreshToken(context.Background(), refresh)

		require.NoError(t, err)
		claims, err := jwtService.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Role)
	})

	t.Run("access token is not accepted", func(t *testing.T) {
		_, cmds := setup(t)
		access, err := jwtService.GenerateAccessToken(jwt.Subject{UserID: userID, Role: user.RoleCustomer})
		require.NoError(t, err)

		_, err = cmds.RefreshToken(context.Background(), access)

		assertIs(t, err, commands.ErrTokenValidation)
	})

	t.Run("deactivated user", func(t *testing.T) {
		store, cmds := setup(t)
		store.EXPECT().FindByID(gomock.Any(), userID).
			Return(&queries.UserView{ID: userID, Role: "customer", IsActive: false}, nil)

		_, err := cmds.RefreshToken(context.Background(), refresh)

		assertIs(t, err, commands.ErrUserInactive)
	})
}
