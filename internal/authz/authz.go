// Package authz holds the ownership rules applied before any mutation.
package authz

import (
	"github.com/farmwise/backend/internal/models"
	"github.com/farmwise/backend/pkg/apperr"
)

// Owned is implemented by rows that belong to a single user.
type Owned interface {
	OwnerID() int64
}

// Owns reports whether userID owns e.
func Owns(e Owned, userID int64) bool {
	return e != nil && e.OwnerID() == userID
}

// Actor is the authenticated caller of a request.
type Actor struct {
	UserID int64
	Role   models.Role
}

// IsAdmin reports whether the actor has the admin role.
func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// CanEdit returns Forbidden unless the actor owns e.
func (a Actor) CanEdit(e Owned, what string) error {
	if !Owns(e, a.UserID) {
		return apperr.Forbidden("you can only edit your own " + what)
	}
	return nil
}

// CanDelete returns Forbidden unless the actor owns e or is an admin.
func (a Actor) CanDelete(e Owned, what string) error {
	if a.IsAdmin() || Owns(e, a.UserID) {
		return nil
	}
	return apperr.Forbidden("you can only delete your own " + what)
}

// CanActFor returns Forbidden unless the actor is userID or an admin.
// Used by per-user routes such as /user/:userId.
func (a Actor) CanActFor(userID int64) error {
	if a.IsAdmin() || a.UserID == userID {
		return nil
	}
	return apperr.Forbidden("access to another user's data is not allowed")
}
