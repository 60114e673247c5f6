package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apphttp "github.com/spec-kit/bizops-service/internal/api/http"
	"github.com/spec-kit/bizops-service/internal/auth"
	"github.com/spec-kit/bizops-service/internal/domain"
	"github.com/spec-kit/bizops-service/internal/observability"
)

func TestRequireRoleClosedWorld(t *testing.T) {
	cases := []struct {
		name       string
		role       domain.Role
		allowed    []domain.Role
		wantStatus int
	}{
		{"admin on admin route", domain.RoleAdmin, []domain.Role{domain.RoleAdmin}, http.StatusOK},
		{"manager on admin route", domain.RoleManager, []domain.Role{domain.RoleAdmin}, http.StatusForbidden},
		{"manager on multi-role route", domain.RoleManager, []domain.Role{domain.RoleAdmin, domain.RoleManager}, http.StatusOK},
		{"employee on multi-role route", domain.RoleEmployee, []domain.Role{domain.RoleAdmin, domain.RoleManager}, http.StatusForbidden},
		{"client on employee route", domain.RoleClient, []domain.Role{domain.RoleEmployee}, http.StatusForbidden},
		{"unknown role is denied everywhere", domain.Role("SUPERUSER"), []domain.Role{domain.RoleAdmin, domain.RoleManager, domain.RoleEmployee, domain.RoleClient}, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeUserRepo(&domain.User{ID: 1, Email: "e@x.com", Role: tc.role, Active: true})
			app, tokens := buildAuthTestApp(repo, auth.RequireRole(tc.allowed...))
			token, _, err := tokens.GenerateToken(1, tc.role)
			require.NoError(t, err)

			resp := doProtectedRequest(t, app, "Bearer "+token)
			defer resp.Body.Close()
			assert.Equal(t, tc.wantStatus, resp.StatusCode)
		})
	}
}

func TestRequireAuthenticatedWithoutIdentity(t *testing.T) {
	// RequireAuthenticated mounted without the auth middleware ahead of it
	// must refuse the request rather than pass it through.
	app := fiber.New()
	apphttp.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0, false)
	app.Get("/open", auth.RequireAuthenticated(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHENTICATED", errorCode(t, resp))
}
