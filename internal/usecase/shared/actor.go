package shared

import (
	"easyrent/internal/domain/user"

	"github.com/google/uuid"
)

// Actor is the authenticated caller of a use case.
type Actor struct {
	UserID   uuid.UUID
	Role     user.Role
	AgencyID *uuid.UUID
}

func (a Actor) IsAdmin() bool {
	return a.Role == user.RoleAdmin
}

// ActsFor reports whether the actor may manage resources of agencyID.
func (a Actor) ActsFor(agencyID uuid.UUID) bool {
	if a.IsAdmin() {
		return true
	}
	return a.Role == user.RoleAgency && a.AgencyID != nil && *a.AgencyID == agencyID
}
