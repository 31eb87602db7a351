package user

import (
	"time"

	"github.com/google/uuid"
)

// User is an account holder. Agency staff carry the agency they act for.
type User struct {
	id           uuid.UUID
	email        Email
	passwordHash string
	role         Role
	agencyID     *uuid.UUID
	lastLogin    *time.Time
	isActive     bool
	createdAt    time.Time
	updatedAt    time.Time
}

func NewUser(email Email, passwordHash string, role Role, agencyID *uuid.UUID) (*User, error) {
	if role == RoleAgency && agencyID == nil {
		return nil, ErrAgencyRequired
	}
	return &User{
		id:           uuid.New(),
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		agencyID:     agencyID,
		isActive:     true,
	}, nil
}

func ReconstructUser(
	id uuid.UUID,
	email Email,
	passwordHash string,
	role Role,
	agencyID *uuid.UUID,
	lastLogin *time.Time,
	isActive bool,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:           id,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		agencyID:     agencyID,
		lastLogin:    lastLogin,
		isActive:     isActive,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (u *User) ID() uuid.UUID         { return u.id }
func (u *User) Email() Email          { return u.email }
func (u *User) PasswordHash() string  { return u.passwordHash }
func (u *User) Role() Role            { return u.role }
func (u *User) AgencyID() *uuid.UUID  { return u.agencyID }
func (u *User) LastLogin() *time.Time { return u.lastLogin }
func (u *User) IsActive() bool        { return u.isActive }
func (u *User) CreatedAt() time.Time  { return u.createdAt }
func (u *User) UpdatedAt() time.Time  { return u.updatedAt }
