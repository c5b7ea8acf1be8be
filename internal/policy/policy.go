package policy

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/bazaar/internal/models"
)

// Request carries everything a predicate needs to decide: who is acting,
// which HTTP method they use, and (for object-level checks) who owns the
// resource. Owner is nil for collection-level requests.
type Request struct {
	Actor  *models.User
	Method string
	Owner  *uuid.UUID
}

// Predicate is a single authorization rule.
type Predicate func(r Request) bool

// Owner allows an authenticated non-staff actor, and for object-level
// requests only the actor that owns the resource.
func Owner(r Request) bool {
	if r.Actor == nil || r.Actor.IsStaff {
		return false
	}
	if r.Owner != nil {
		return *r.Owner == r.Actor.ID
	}
	return true
}

// AnonymousReadOnly allows safe methods for everyone.
func AnonymousReadOnly(r Request) bool {
	switch r.Method {
	case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
		return true
	}
	return false
}

// Staff allows authenticated staff for everything except creation, so
// moderators may read, update and delete other users' resources but not
// create resources on their behalf.
func Staff(r Request) bool {
	return r.Actor != nil && r.Actor.IsStaff && r.Method != fiber.MethodPost
}

// Superuser allows authenticated superusers unconditionally.
func Superuser(r Request) bool {
	return r.Actor != nil && r.Actor.IsSuperuser
}

// Any combines predicates with OR.
func Any(predicates ...Predicate) Predicate {
	return func(r Request) bool {
		for _, p := range predicates {
			if p(r) {
				return true
			}
		}
		return false
	}
}

// All combines predicates with AND.
func All(predicates ...Predicate) Predicate {
	return func(r Request) bool {
		for _, p := range predicates {
			if !p(r) {
				return false
			}
		}
		return true
	}
}
