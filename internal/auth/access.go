package auth

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bizops-service/internal/domain"
	apperrors "github.com/spec-kit/bizops-service/pkg/util"
)

// ResourceKind tags the resource families the access checker knows about.
type ResourceKind string

const (
	ResourceProject ResourceKind = "project"
	ResourceClient  ResourceKind = "client"
	ResourceInvoice ResourceKind = "invoice"
)

// Predicate decides whether the identity's relationship to the resource
// grants access. Evaluated against current relational state on every call.
type Predicate func(ctx context.Context, identity Identity, resourceID int64) (bool, error)

// AccessChecker evaluates per-kind ownership predicates. ADMIN bypasses all
// predicates. Kinds with no registered predicate are allowed for any
// authenticated identity; that fallback mirrors the existing API behavior
// and is deliberately not tightened here.
type AccessChecker struct {
	predicates map[ResourceKind]Predicate
}

// NewAccessChecker builds an empty checker.
func NewAccessChecker() *AccessChecker {
	return &AccessChecker{predicates: make(map[ResourceKind]Predicate)}
}

// Register installs the predicate for a resource kind.
func (a *AccessChecker) Register(kind ResourceKind, pred Predicate) {
	a.predicates[kind] = pred
}

// Can reports whether the identity may access the resource.
func (a *AccessChecker) Can(ctx context.Context, identity Identity, kind ResourceKind, resourceID int64) (bool, error) {
	if identity.Role == domain.RoleAdmin {
		return true, nil
	}
	pred, ok := a.predicates[kind]
	if !ok {
		return true, nil
	}
	return pred(ctx, identity, resourceID)
}

// Require returns a route middleware that enforces the ownership check for
// the resource id found in the named path parameter.
func (a *AccessChecker) Require(kind ResourceKind, param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthenticated("no identity attached to request")
		}
		resourceID, err := strconv.ParseInt(c.Params(param), 10, 64)
		if err != nil {
			return apperrors.NewNotFound(string(kind), nil)
		}

		allowed, err := a.Can(c.Context(), *identity, kind, resourceID)
		if err != nil {
			return apperrors.NewAccessCheckFailed(err)
		}
		if !allowed {
			return apperrors.NewResourceForbidden(string(kind))
		}
		return c.Next()
	}
}
