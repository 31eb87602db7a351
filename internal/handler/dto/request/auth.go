package request

import (
	"easyrent/internal/usecase/commands"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (r LoginRequest) ToInput() commands.LoginInput {
	return commands.LoginInput{Email: r.Email, Password: r.Password}
}

// RefreshRequest may be empty when the refresh token travels in a cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}
