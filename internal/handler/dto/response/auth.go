package response

import (
	"easyrent/internal/usecase/queries"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID       uuid.UUID  `json:"id"`
	Email    string     `json:"email"`
	Role     string     `json:"role"`
	AgencyID *uuid.UUID `json:"agencyId,omitempty"`
	IsActive bool       `json:"isActive"`
}

type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	User        *UserResponse `json:"user"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

func FromUserView(v *queries.UserView) *UserResponse {
	return &UserResponse{
		ID:       v.ID,
		Email:    v.Email,
		Role:     v.Role,
		AgencyID: v.AgencyID,
		IsActive: v.IsActive,
	}
}
