//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"easyrent/internal/domain/user"
	"easyrent/internal/pkg/config"
	"easyrent/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) GenerateToken(t *testing.T, userID uuid.UUID, role user.Role, agencyID *uuid.UUID) string {
	t.Helper()
	duration, err := time.ParseDuration(h.cfg.AccessTokenDuration)
	require.NoError(t, err)
	return h.generate(t, duration, jwt.Subject{UserID: userID, Role: role, AgencyID: agencyID})
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	token := h.generate(t, time.Millisecond, jwt.Subject{UserID: userID, Role: role})
	time.Sleep(10 * time.Millisecond)
	return token
}

func (h *JWTHelper) generate(t *testing.T, access time.Duration, sub jwt.Subject) string {
	t.Helper()
	refreshDuration, err := time.ParseDuration(h.cfg.RefreshTokenDuration)
	require.NoError(t, err)
	service := jwt.NewService(h.cfg.Secret, access, refreshDuration)
	token, err := service.GenerateAccessToken(sub)
	require.NoError(t, err)
	return token
}
