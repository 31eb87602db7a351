//go:build unit

package api_test

import (
	"easyrent/internal/domain/user"
	"easyrent/internal/handler/middleware"
	"easyrent/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// fakeAuth stands in for RequireAuth: any bearer token authenticates as actor.
func fakeAuth(actor shared.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			middleware.SetActor(c, actor)
		}
		c.Next()
	}
}

func customer() shared.Actor {
	return shared.Actor{UserID: uuid.New(), Role: user.RoleCustomer}
}
