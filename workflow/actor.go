package workflow

import "barangay-backend/models"

// Actor is the identity attempting an operation, as established by the auth
// layer. BarangayID scopes admins for relocation dual-approval.
type Actor struct {
	ID         string
	Role       models.Role
	BarangayID uint
}

func (a Actor) Admin() bool { return a.Role == models.RoleAdmin }
