//go:build unit

package jwt_test

import (
	"testing"
	"time"

	"easyrent/internal/domain/user"
	"easyrent/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	svc := jwt.NewService("secret", time.Minute, time.Hour)
	userID := uuid.New()
	agencyID := uuid.New()

	t.Run("access token round trip", func(t *testing.T) {
		token, err := svc.GenerateAccessToken(jwt.Subject{UserID: userID, Role: user.RoleAgency, AgencyID: &agencyID})
		require.NoError(t, err)

		claims, err := svc.ValidateAccessToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, "agency", claims.Role)
		assert.Equal(t, &agencyID, claims.AgencyID)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		token, err := svc.GenerateRefreshToken(jwt.Subject{UserID: userID, Role: user.RoleCustomer})
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(token)
		assert.ErrorIs(t, err, jwt.ErrWrongKind)

		claims, err := svc.ValidateRefreshToken(token)
		require.NoError(t, err)
		assert.Equal(t, jwt.KindRefresh, claims.Kind)
	})

	t.Run("foreign signature", func(t *testing.T) {
		other := jwt.NewService("other", time.Minute, time.Hour)
		token, err := other.GenerateAccessToken(jwt.Subject{UserID: userID, Role: user.RoleCustomer})
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		short := jwt.NewService("secret", -time.Second, time.Hour)
		token, err := short.GenerateAccessToken(jwt.Subject{UserID: userID, Role: user.RoleCustomer})
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(token)
		assert.ErrorIs(t, err, jwt.ErrExpiredToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not-a-token")
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})
}
