// Package ownership implements the access-control policy for per-user
// resources. The rules live here, in one place, instead of being spread
// across services: collection queries are narrowed with Scope, and
// single objects fetched by ID are re-checked with Authorize. The admin
// bypass is an explicit field on the caller so the decision stays
// auditable and testable without a database.
package ownership

import (
	"gorm.io/gorm"

	apperrors "tripledger/internal/errors"
)

// Caller identifies the authenticated user making a request.
type Caller struct {
	UserID  uint
	IsAdmin bool
}

// Owned is implemented by every model that belongs to a single user.
// Resources without an owning user (categories, countries, cities) do
// not implement it and therefore can never reach the guard.
type Owned interface {
	OwnerID() uint
}

// Scope narrows a collection query to rows the caller may see.
// Administrators see the full collection; everyone else only their own rows.
func Scope(q *gorm.DB, caller Caller) *gorm.DB {
	if caller.IsAdmin {
		return q
	}
	return q.Where("user_id = ?", caller.UserID)
}

// Authorize checks that the caller may act on an already-fetched object.
// A non-owner gets ErrForbidden, which is deliberately distinct from the
// not-found error returned when the object does not exist at all.
func Authorize(caller Caller, obj Owned) error {
	if caller.IsAdmin {
		return nil
	}
	if obj.OwnerID() != caller.UserID {
		return apperrors.ErrForbidden
	}
	return nil
}
