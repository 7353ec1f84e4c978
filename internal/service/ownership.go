package service

import (
	"github.com/google/uuid"

	"doccompare/internal/domain"
)

// OwnershipGuard checks that a user owns the entity they are acting on.
type OwnershipGuard struct {
	opaque bool
}

// NewOwnershipGuard creates a guard. When opaque is true, a foreign entity is
// reported as not found instead of forbidden so its existence is not revealed.
func NewOwnershipGuard(opaque bool) *OwnershipGuard {
	return &OwnershipGuard{opaque: opaque}
}

// Owns reports whether userID owns e.
func (g *OwnershipGuard) Owns(e domain.Owned, userID uuid.UUID) bool {
	return e != nil && userID != uuid.Nil && e.OwnerID() == userID
}

// Require returns nil when userID owns e. Otherwise it returns ErrForbidden,
// or notFound in opaque mode.
func (g *OwnershipGuard) Require(e domain.Owned, userID uuid.UUID, notFound error) error {
	if g.Owns(e, userID) {
		return nil
	}
	if g.opaque && notFound != nil {
		return notFound
	}
	return domain.ErrForbidden
}
