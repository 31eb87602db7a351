//go:build unit

package middleware_test

import (
	"errors"
	"net/http"
	nethttptest "net/http/httptest"
	"testing"

	"easyrent/internal/domain/user"
	"easyrent/internal/handler/middleware"
	"easyrent/internal/pkg/config"
	"easyrent/internal/usecase/shared"
	"easyrent/tests/common/httptest"
	usecasemock "easyrent/tests/mock/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func echoActor(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.Status(http.StatusTeapot)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": actor.UserID.String(), "role": string(actor.Role)})
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	validator := usecasemock.NewMockTokenValidator(ctrl)
	m := middleware.NewAuthMiddleware(validator)

	router := gin.New()
	router.GET("/private", m.RequireAuth(), echoActor)
	router.GET("/ws", m.RequireAuthAllowQuery(), echoActor)
	router.GET("/agency", m.RequireAuth(), m.RequireRole(user.RoleAgency, user.RoleAdmin), echoActor)

	actor := shared.Actor{UserID: uuid.New(), Role: user.RoleCustomer}

	t.Run("bearer token sets the actor", func(t *testing.T) {
		validator.EXPECT().ValidateToken("good").Return(actor, nil)

		rec := httptest.PerformRequest(t, router, http.MethodGet, "/private", nil, "good")

		var body map[string]string
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		assert.Equal(t, actor.UserID.String(), body["user_id"])
	})

	t.Run("cookie is preferred over the header", func(t *testing.T) {
		validator.EXPECT().ValidateToken("from-cookie").Return(actor, nil)

		rec := httptest.PerformRequestWithCookies(t, router, http.MethodGet, "/private", nil,
			[]*http.Cookie{{Name: "access_token", Value: "from-cookie"}}, "from-header")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing token is 401", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/private", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Access token required")
	})

	t.Run("invalid token is 401", func(t *testing.T) {
		validator.EXPECT().ValidateToken("bad").Return(shared.Actor{}, errors.New("token expired"))

		rec := httptest.PerformRequest(t, router, http.MethodGet, "/private", nil, "bad")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Invalid or expired token")
	})

	t.Run("query token only where allowed", func(t *testing.T) {
		validator.EXPECT().ValidateToken("q").Return(actor, nil)

		rec := httptest.PerformRequest(t, router, http.MethodGet, "/ws?token=q", nil, "")
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.PerformRequest(t, router, http.MethodGet, "/private?token=q", nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("role gate", func(t *testing.T) {
		agencyID := uuid.New()
		testCases := []struct {
			name       string
			actor      shared.Actor
			expectCode int
		}{
			{name: "customer refused", actor: shared.Actor{UserID: uuid.New(), Role: user.RoleCustomer}, expectCode: http.StatusForbidden},
			{name: "driver refused", actor: shared.Actor{UserID: uuid.New(), Role: user.RoleDriver}, expectCode: http.StatusForbidden},
			{name: "agency allowed", actor: shared.Actor{UserID: uuid.New(), Role: user.RoleAgency, AgencyID: &agencyID}, expectCode: http.StatusOK},
			{name: "admin allowed", actor: shared.Actor{UserID: uuid.New(), Role: user.RoleAdmin}, expectCode: http.StatusOK},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				validator.EXPECT().ValidateToken("t").Return(tc.actor, nil)

				rec := httptest.PerformRequest(t, router, http.MethodGet, "/agency", nil, "t")
				assert.Equal(t, tc.expectCode, rec.Code)
			})
		}
	})
}

func TestSetActor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(nethttptest.NewRecorder())
	actor := shared.Actor{UserID: uuid.New(), Role: user.RoleAdmin}

	middleware.SetActor(c, actor)

	got, ok := middleware.GetActor(c)
	require.True(t, ok)
	assert.Equal(t, actor, got)
	id, ok := middleware.GetUserID(c)
	require.True(t, ok)
	assert.Equal(t, actor.UserID, id)
	role, ok := middleware.GetUserRole(c)
	require.True(t, ok)
	assert.Equal(t, user.RoleAdmin, role)
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := middleware.NewRateLimiter(config.RateLimitConfig{AvailabilityPerMinute: 1, AvailabilityBurst: 2})

	router := gin.New()
	router.GET("/check", limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	request := func(ip string) int {
		req := nethttptest.NewRequest(http.MethodGet, "/check", nil)
		req.RemoteAddr = ip + ":1234"
		rec := nethttptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, request("10.0.0.1"))
	assert.Equal(t, http.StatusOK, request("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, request("10.0.0.1"))

	// Buckets are per client
	assert.Equal(t, http.StatusOK, request("10.0.0.2"))
}
