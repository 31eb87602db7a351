package jwt

import (
	"errors"
	"time"

	"easyrent/internal/domain/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrWrongKind    = errors.New("unexpected token kind")
)

type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

type Claims struct {
	UserID   uuid.UUID  `json:"user_id"`
	Role     string     `json:"role"`
	AgencyID *uuid.UUID `json:"agency_id,omitempty"`
	Kind     Kind       `json:"kind"`
	jwt.RegisteredClaims
}

// Subject identifies who a token is issued to.
type Subject struct {
	UserID   uuid.UUID
	Role     user.Role
	AgencyID *uuid.UUID
}

type Service struct {
	secretKey       []byte
	accessDuration  time.Duration
	refreshDuration time.Duration
}

func NewService(secretKey string, accessDuration, refreshDuration time.Duration) *Service {
	return &Service{
		secretKey:       []byte(secretKey),
		accessDuration:  accessDuration,
		refreshDuration: refreshDuration,
	}
}

func (s *Service) AccessDuration() time.Duration  { return s.accessDuration }
func (s *Service) RefreshDuration() time.Duration { return s.refreshDuration }

func (s *Service) GenerateAccessToken(sub Subject) (string, error) {
	return s.generate(sub, KindAccess, s.accessDuration)
}

func (s *Service) GenerateRefreshToken(sub Subject) (string, error) {
	return s.generate(sub, KindRefresh, s.refreshDuration)
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, KindAccess)
}

func (s *Service) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, KindRefresh)
}

func (s *Service) generate(sub Subject, kind Kind, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   sub.UserID,
		Role:     sub.Role.String(),
		AgencyID: sub.AgencyID,
		Kind:     kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ulid.Make().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

func (s *Service) validate(tokenString string, kind Kind) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Kind != kind {
		return nil, ErrWrongKind
	}

	return claims, nil
}
