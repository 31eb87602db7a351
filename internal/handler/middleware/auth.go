package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"easyrent/internal/domain/user"
	"easyrent/internal/handler/httperr"
	"easyrent/internal/pkg/cookie"
	"easyrent/internal/pkg/errs"
	"easyrent/internal/usecase"
	"easyrent/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

const (
	ctxUserIDKey   = "user_id"
	ctxUserRoleKey = "user_role"
	ctxActorKey    = "actor"

	// TokenQueryParam carries the access token for clients that cannot set
	// headers, such as browser WebSocket connections.
	TokenQueryParam = "token"
)

var (
	errTokenRequired = errs.New("access token required")
	errForbiddenRole = errs.New("insufficient role")
)

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return m.requireAuth(false)
}

// RequireAuthAllowQuery also accepts ?token=.
func (m *AuthMiddleware) RequireAuthAllowQuery() gin.HandlerFunc {
	return m.requireAuth(true)
}

func (m *AuthMiddleware) requireAuth(allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c, allowQuery)
		if token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized, errTokenRequired, "Access token required", nil)
			return
		}

		actor, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid or expired token", nil)
			return
		}

		SetActor(c, actor)
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func (m *AuthMiddleware) RequireRole(roles ...user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("actor missing from context"), "Internal server error", nil)
			return
		}
		if !slices.Contains(roles, actor.Role) {
			httperr.AbortWithError(c, http.StatusForbidden, errForbiddenRole, "Insufficient permissions", nil)
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context, allowQuery bool) string {
	if token := cookie.GetAccessToken(c); token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	if allowQuery {
		return c.Query(TokenQueryParam)
	}
	return ""
}

func SetActor(c *gin.Context, actor shared.Actor) {
	c.Set(ctxActorKey, actor)
	c.Set(ctxUserIDKey, actor.UserID)
	c.Set(ctxUserRoleKey, actor.Role)
	c.Set("jwt_claims", map[string]any{
		"user_id": actor.UserID.String(),
		"role":    string(actor.Role),
	})
}

func GetActor(c *gin.Context) (shared.Actor, bool) {
	v, exists := c.Get(ctxActorKey)
	if !exists {
		return shared.Actor{}, false
	}
	actor, ok := v.(shared.Actor)
	return actor, ok
}

func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(ctxUserIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := userID.(uuid.UUID)
	return id, ok
}

func GetUserRole(c *gin.Context) (user.Role, bool) {
	userRole, exists := c.Get(ctxUserRoleKey)
	if !exists {
		return "", false
	}

	role, ok := userRole.(user.Role)
	return role, ok
}
