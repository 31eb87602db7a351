//go:build unit || e2e

package builder

import (
	"time"

	"easyrent/internal/domain/user"
	"easyrent/internal/usecase/queries"

	"github.com/google/uuid"
)

type UserBuilder struct {
	Email        string
	PasswordHash string
	Role         string
	AgencyID     *uuid.UUID
	IsActive     bool
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		Email:        "test@example.com",
		PasswordHash: "hashed_password",
		Role:         "customer",
		IsActive:     true,
	}
}

func (u *UserBuilder) With(mutate func(*UserBuilder)) *UserBuilder {
	mutate(u)
	return u
}

// Build methods
func (u *UserBuilder) BuildDomain() (*user.User, error) {
	email, err := user.NewEmail(u.Email)
	if err != nil {
		return nil, err
	}

	role, err := user.NewRole(u.Role)
	if err != nil {
		return nil, err
	}

	return user.NewUser(email, u.PasswordHash, role, u.AgencyID)
}

func (u *UserBuilder) BuildPersisted(id uuid.UUID) *user.User {
	now := time.Now()
	email, _ := user.NewEmail(u.Email)
	return user.ReconstructUser(id, email, u.PasswordHash, user.Role(u.Role), u.AgencyID, nil, u.IsActive, now, now)
}

func (u *UserBuilder) BuildReadModel() *queries.UserView {
	return &queries.UserView{
		ID:       uuid.New(),
		Email:    u.Email,
		Role:     u.Role,
		AgencyID: u.AgencyID,
		IsActive: u.IsActive,
	}
}

// Fluent builder methods
func (u *UserBuilder) WithEmail(email string) *UserBuilder {
	u.Email = email
	return u
}

func (u *UserBuilder) WithRole(role string) *UserBuilder {
	u.Role = role
	return u
}

func (u *UserBuilder) WithPasswordHash(hash string) *UserBuilder {
	u.PasswordHash = hash
	return u
}

func (u *UserBuilder) WithAgencyID(agencyID *uuid.UUID) *UserBuilder {
	u.AgencyID = agencyID
	return u
}

func (u *UserBuilder) AsAgencyStaff() *UserBuilder {
	id := uuid.New()
	u.Role = "agency"
	u.AgencyID = &id
	return u
}

func (u *UserBuilder) AsInactive() *UserBuilder {
	u.IsActive = false
	return u
}
