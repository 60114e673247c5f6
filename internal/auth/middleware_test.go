package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apphttp "github.com/spec-kit/bizops-service/internal/api/http"
	"github.com/spec-kit/bizops-service/internal/auth"
	"github.com/spec-kit/bizops-service/internal/domain"
	"github.com/spec-kit/bizops-service/internal/observability"
	"github.com/spec-kit/bizops-service/internal/repository"
)

const testSecret = "test-secret-key"

type fakeUserRepo struct {
	users map[int64]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[int64]*domain.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	out := make([]domain.User, 0, len(f.users))
	for _, user := range f.users {
		out = append(out, *user)
	}
	return out, nil
}

func (f *fakeUserRepo) SetActive(ctx context.Context, id int64, active bool) error {
	user, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Active = active
	return nil
}

func buildAuthTestApp(users repository.UserRepository, extra ...fiber.Handler) (*fiber.App, *auth.TokenManager) {
	tokens := auth.NewTokenManager(testSecret, 60)
	middleware := auth.NewMiddleware(tokens, users)

	app := fiber.New()
	apphttp.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0, false)

	handlers := append([]fiber.Handler{middleware.Handle}, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		identity, _ := auth.IdentityFromContext(c)
		return c.JSON(fiber.Map{"id": identity.ID, "role": identity.Role})
	})
	app.Get("/protected", handlers...)
	return app, tokens
}

func doProtectedRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error.Code
}

func TestMiddlewareMissingHeader(t *testing.T) {
	app, _ := buildAuthTestApp(newFakeUserRepo())
	resp := doProtectedRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "CREDENTIAL_REQUIRED", errorCode(t, resp))
}

func TestMiddlewareMalformedHeader(t *testing.T) {
	app, _ := buildAuthTestApp(newFakeUserRepo())
	resp := doProtectedRequest(t, app, "not-a-bearer-token")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIAL", errorCode(t, resp))
}

func TestMiddlewareGarbageToken(t *testing.T) {
	app, _ := buildAuthTestApp(newFakeUserRepo())
	resp := doProtectedRequest(t, app, "Bearer garbage.token.value")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIAL", errorCode(t, resp))
}

func TestMiddlewareAccountGone(t *testing.T) {
	app, tokens := buildAuthTestApp(newFakeUserRepo())
	token, _, err := tokens.GenerateToken(42, domain.RoleManager)
	require.NoError(t, err)

	resp := doProtectedRequest(t, app, "Bearer "+token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHENTICATED", errorCode(t, resp))
}

func TestMiddlewareDeactivatedAccount(t *testing.T) {
	repo := newFakeUserRepo(&domain.User{ID: 7, Email: "e@x.com", Role: domain.RoleEmployee, Active: false})
	app, tokens := buildAuthTestApp(repo)
	token, _, err := tokens.GenerateToken(7, domain.RoleEmployee)
	require.NoError(t, err)

	resp := doProtectedRequest(t, app, "Bearer "+token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHENTICATED", errorCode(t, resp))
}

func TestMiddlewareValidToken(t *testing.T) {
	repo := newFakeUserRepo(&domain.User{ID: 9, Email: "e@x.com", Role: domain.RoleManager, Active: true})
	app, tokens := buildAuthTestApp(repo)
	token, _, err := tokens.GenerateToken(9, domain.RoleManager)
	require.NoError(t, err)

	resp := doProtectedRequest(t, app, "Bearer "+token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddlewareRoleComesFromLiveRecord(t *testing.T) {
	// A token minted while the account was MANAGER must carry EMPLOYEE
	// permissions once the record is downgraded.
	repo := newFakeUserRepo(&domain.User{ID: 3, Email: "e@x.com", Role: domain.RoleManager, Active: true})
	app, tokens := buildAuthTestApp(repo, auth.RequireRole(domain.RoleManager))
	token, _, err := tokens.GenerateToken(3, domain.RoleManager)
	require.NoError(t, err)

	resp := doProtectedRequest(t, app, "Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	repo.users[3].Role = domain.RoleEmployee

	resp = doProtectedRequest(t, app, "Bearer "+token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_ROLE", errorCode(t, resp))
}
