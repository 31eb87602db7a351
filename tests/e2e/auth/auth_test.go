//go:build e2e

package auth_test

import (
	"net/http"
	"testing"

	"easyrent/internal/domain/user"
	"easyrent/internal/handler/dto/request"
	resdto "easyrent/internal/handler/dto/response"
	"easyrent/tests/common/authtest"
	"easyrent/tests/common/dbtest"
	"easyrent/tests/common/httptest"
	"easyrent/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	loginURL   = "/api/auth/login"
	logoutURL  = "/api/auth/logout"
	refreshURL = "/api/auth/refresh"
	meURL      = "/api/auth/me"
)

type authSuite struct {
	e2e.SharedSuite
	jwtHelper *authtest.JWTHelper
}

func TestAuthSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(authSuite))
}

func (s *authSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwtHelper = authtest.NewJWTHelper(s.Config.JWT)
}

func (s *authSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()

	t := s.T()
	agencyID := dbtest.DefaultAgencyID(t, s.DB)
	dbtest.CreateTestUser(t, s.DB, "customer@example.com", string(user.RoleCustomer), nil)
	dbtest.CreateTestUser(t, s.DB, "staff@example.com", string(user.RoleAgency), &agencyID)
	dbtest.CreateTestUser(t, s.DB, "inactive@example.com", string(user.RoleCustomer), nil)

	_, err := s.DB.Exec(t.Context(), "UPDATE users SET is_active = false WHERE email = 'inactive@example.com'")
	require.NoError(t, err)
}

func (s *authSuite) TestLogin() {
	tests := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
	}{
		{name: "valid credentials", email: "customer@example.com", password: authtest.TestPassword, expectedStatus: http.StatusOK},
		{name: "agency staff", email: "staff@example.com", password: authtest.TestPassword, expectedStatus: http.StatusOK},
		{name: "unknown user", email: "nobody@example.com", password: authtest.TestPassword, expectedStatus: http.StatusUnauthorized},
		{name: "wrong password", email: "customer@example.com", password: "wrongpassword", expectedStatus: http.StatusUnauthorized},
		{name: "inactive user", email: "inactive@example.com", password: authtest.TestPassword, expectedStatus: http.StatusForbidden},
		{name: "empty email", email: "", password: authtest.TestPassword, expectedStatus: http.StatusBadRequest},
		{name: "short password", email: "customer@example.com", password: "short", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
				request.LoginRequest{Email: tt.email, Password: tt.password}, "")
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedStatus != http.StatusOK {
				return
			}
			var res resdto.LoginResponse
			httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
			require.NotEmpty(t, res.AccessToken)
			require.Equal(t, tt.email, res.User.Email)
			require.NotNil(t, httptest.ExtractCookie(w, "access_token"))
			require.NotNil(t, httptest.ExtractCookie(w, "refresh_token"))

			var lastLogin any
			err := s.DB.QueryRow(t.Context(), "SELECT last_login FROM users WHERE email = $1 AND is_active", tt.email).Scan(&lastLogin)
			require.NoError(t, err)
			require.NotNil(t, lastLogin, "last_login not updated")
		})
	}
}

func (s *authSuite) TestRefresh() {
	s.Run("refresh cookie issues a new pair", func() {
		t := s.T()

		login := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
			request.LoginRequest{Email: "customer@example.com", Password: authtest.TestPassword}, "")
		require.Equal(t, http.StatusOK, login.Code)
		refresh := httptest.ExtractCookie(login, "refresh_token")
		require.NotNil(t, refresh)

		w := httptest.PerformRequestWithCookies(t, s.Router, http.MethodPost, refreshURL, nil, []*http.Cookie{refresh}, "")
		var res resdto.RefreshResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
		require.NotEmpty(t, res.AccessToken)
	})

	s.Run("refresh token in body", func() {
		t := s.T()

		login := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
			request.LoginRequest{Email: "customer@example.com", Password: authtest.TestPassword}, "")
		refresh := httptest.ExtractCookie(login, "refresh_token")
		require.NotNil(t, refresh)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, refreshURL, request.RefreshRequest{RefreshToken: refresh.Value}, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	s.Run("access token is not a refresh token", func() {
		t := s.T()

		access := authtest.LoginUser(t, s.Router, "customer@example.com", authtest.TestPassword)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, refreshURL, request.RefreshRequest{RefreshToken: access}, "")
		httptest.AssertErrorResponse(t, w, http.StatusUnauthorized, "Invalid or expired refresh token")
	})

	s.Run("garbage token", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, refreshURL, request.RefreshRequest{RefreshToken: "invalid-refresh-token"}, "")
		require.Equal(s.T(), http.StatusUnauthorized, w.Code)
	})

	s.Run("missing token", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, refreshURL, nil, "")
		httptest.AssertErrorResponse(s.T(), w, http.StatusUnauthorized, "Refresh token required")
	})
}

func (s *authSuite) TestLogout() {
	s.Run("clears cookies", func() {
		t := s.T()

		token := authtest.LoginUser(t, s.Router, "customer@example.com", authtest.TestPassword)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, logoutURL, nil, token)
		require.Equal(t, http.StatusNoContent, w.Code)

		access := httptest.ExtractCookie(w, "access_token")
		require.NotNil(t, access)
		require.Empty(t, access.Value)
	})

	s.Run("requires a token", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, logoutURL, nil, "")
		require.Equal(s.T(), http.StatusUnauthorized, w.Code)
	})
}

func (s *authSuite) TestMe() {
	s.Run("returns the caller", func() {
		t := s.T()

		token := authtest.LoginUser(t, s.Router, "staff@example.com", authtest.TestPassword)
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)

		var res resdto.UserResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
		require.Equal(t, "staff@example.com", res.Email)
		require.Equal(t, string(user.RoleAgency), res.Role)
		require.NotNil(t, res.AgencyID)
		require.NotContains(t, w.Body.String(), "password")
	})

	s.Run("expired token", func() {
		t := s.T()

		userID := dbtest.CreateTestUser(t, s.DB, "expiry@example.com", string(user.RoleCustomer), nil)
		expired := s.jwtHelper.CreateExpiredToken(t, userID, user.RoleCustomer)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, expired)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	s.Run("token for a deactivated user", func() {
		t := s.T()

		userID := dbtest.CreateTestUser(t, s.DB, "gone@example.com", string(user.RoleCustomer), nil)
		token := s.jwtHelper.GenerateToken(t, userID, user.RoleCustomer, nil)
		_, err := s.DB.Exec(t.Context(), "UPDATE users SET is_active = false WHERE id = $1", userID)
		require.NoError(t, err)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)
		require.Equal(t, http.StatusForbidden, w.Code)
	})
}
