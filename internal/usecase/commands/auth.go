package commands

import (
	"context"
	"log/slog"

	"easyrent/internal/domain/auth"
	"easyrent/internal/domain/user"
	"easyrent/internal/pkg/clock"
	"easyrent/internal/pkg/errs"
	"easyrent/internal/pkg/jwt"
	"easyrent/internal/pkg/password"
	"easyrent/internal/usecase/queries"
	"easyrent/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=auth.go -destination=../../../tests/mock/commands/auth_mock.go -package=commandsmock

var (
	ErrUserNotFound         = errs.New("user not found")
	ErrInvalidCredentials   = errs.New("invalid credentials")
	ErrUserInactive         = errs.New("user inactive")
	ErrAuthenticationFailed = errs.New("authentication failed")
	ErrTokenGeneration      = errs.New("token generation failed")
	ErrTokenValidation      = errs.New("token validation failed")
)

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	User      *queries.UserView
	TokenPair *TokenPair
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthCommands interface {
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type authCommandsImpl struct {
	uow        shared.UnitOfWork
	readStore  queries.UserReadStore
	jwtService *jwt.Service
	clock      clock.Clock
}

func NewAuthCommands(uow shared.UnitOfWork, readStore queries.UserReadStore, jwtService *jwt.Service, clock clock.Clock) AuthCommands {
	return &authCommandsImpl{
		uow:        uow,
		readStore:  readStore,
		jwtService: jwtService,
		clock:      clock,
	}
}

func (a *authCommandsImpl) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	credentials, err := auth.NewCredentials(in.Email, in.Password)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	view, err := a.validateUser(ctx, credentials)
	if err != nil {
		return nil, err
	}

	sub, err := subjectOf(view)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}
	pair, err := a.issue(sub)
	if err != nil {
		return nil, err
	}

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().UpdateLastLogin(ctx, tx.DB(), view.ID, a.clock.Now())
	})
	if err != nil {
		// login already succeeded
		slog.Warn("failed to update last login", "user_id", view.ID, "error", err.Error())
	}

	return &LoginResult{User: view, TokenPair: pair}, nil
}

func (a *authCommandsImpl) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := a.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}

	// Role and agency are re-read so a demoted user loses access on refresh
	view, err := a.readStore.FindByID(ctx, claims.UserID)
	if err != nil || view == nil {
		return nil, ErrUserNotFound
	}
	if !view.IsActive {
		return nil, ErrUserInactive
	}

	sub, err := subjectOf(view)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}
	return a.issue(sub)
}

func (a *authCommandsImpl) issue(sub jwt.Subject) (*TokenPair, error) {
	accessToken, err := a.jwtService.GenerateAccessToken(sub)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}
	refreshToken, err := a.jwtService.GenerateRefreshToken(sub)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (a *authCommandsImpl) validateUser(ctx context.Context, credentials auth.Credentials) (*queries.UserView, error) {
	view, hashedPassword, err := a.readStore.FindByEmail(ctx, credentials.Email().Value())
	if err != nil || view == nil {
		// Same error as a password mismatch to prevent user enumeration
		return nil, ErrInvalidCredentials
	}

	if !view.IsActive {
		return nil, ErrUserInactive
	}

	if err := password.ComparePassword(hashedPassword, credentials.Password().Value()); err != nil {
		return nil, ErrInvalidCredentials
	}

	return view, nil
}

func subjectOf(view *queries.UserView) (jwt.Subject, error) {
	role, err := user.NewRole(view.Role)
	if err != nil {
		return jwt.Subject{}, err
	}
	var agencyID *uuid.UUID
	if view.AgencyID != nil {
		id := *view.AgencyID
		agencyID = &id
	}
	return jwt.Subject{UserID: view.ID, Role: role, AgencyID: agencyID}, nil
}
