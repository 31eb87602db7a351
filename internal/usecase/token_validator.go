package usecase

import (
	"easyrent/internal/domain/user"
	"easyrent/internal/pkg/jwt"
	"easyrent/internal/usecase/shared"
)

//go:generate mockgen -source=token_validator.go -destination=../../tests/mock/usecase/token_validator_mock.go -package=usecasemock

// TokenValidator provides token validation for middleware
type TokenValidator interface {
	ValidateToken(tokenString string) (shared.Actor, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (shared.Actor, error) {
	claims, err := t.jwtService.ValidateAccessToken(tokenString)
	if err != nil {
		return shared.Actor{}, err
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return shared.Actor{}, err
	}

	return shared.Actor{UserID: claims.UserID, Role: role, AgencyID: claims.AgencyID}, nil
}
