package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/bizops-service/internal/domain"
	"github.com/spec-kit/bizops-service/internal/repository"
	apperrors "github.com/spec-kit/bizops-service/pkg/util"
)

const identityKey = "auth_identity"

// Identity is the authenticated actor, resolved fresh from the accounts
// table on every request. It is never cached across requests.
type Identity struct {
	ID     int64
	Name   string
	Email  string
	Role   domain.Role
	Active bool
}

// Middleware validates bearer credentials and loads identities.
type Middleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// Handle enforces authentication for protected routes. A missing header, a
// bad token, and a stale account are three distinct failures; all map to 401.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewCredentialRequired()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewInvalidCredential()
	}
	tokenStr := strings.TrimSpace(parts[1])
	if tokenStr == "" {
		return apperrors.NewCredentialRequired()
	}

	claims, err := m.tokens.ParseToken(tokenStr)
	if err != nil {
		return apperrors.NewInvalidCredential()
	}

	// The token only asserts the account id; role and active flag come from
	// the live record so deactivation takes effect immediately.
	user, err := m.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthenticated("account no longer exists")
		}
		return apperrors.MapError(err)
	}
	if !user.Active {
		return apperrors.NewUnauthenticated("account is deactivated")
	}

	c.Locals(identityKey, &Identity{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
		Active: user.Active,
	})
	return c.Next()
}

// IdentityFromContext retrieves the authenticated identity.
func IdentityFromContext(c *fiber.Ctx) (*Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*Identity)
	return identity, ok
}
