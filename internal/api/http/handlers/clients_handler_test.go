package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apphttp "github.com/spec-kit/bizops-service/internal/api/http"
	"github.com/spec-kit/bizops-service/internal/api/http/handlers"
	"github.com/spec-kit/bizops-service/internal/auth"
	"github.com/spec-kit/bizops-service/internal/domain"
	"github.com/spec-kit/bizops-service/internal/observability"
	"github.com/spec-kit/bizops-service/internal/repository"
	"github.com/spec-kit/bizops-service/internal/service"
)

const handlerTestSecret = "handler-test-secret"

type stubUserRepo struct {
	users map[int64]*domain.User
}

func (r *stubUserRepo) Create(ctx context.Context, user *domain.User) error { return nil }
func (r *stubUserRepo) Update(ctx context.Context, user *domain.User) error { return nil }

func (r *stubUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *stubUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}

func (r *stubUserRepo) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	return nil, nil
}

func (r *stubUserRepo) SetActive(ctx context.Context, id int64, active bool) error { return nil }

type stubClientRepo struct {
	nextID     int64
	clients    map[int64]*domain.Client
	dependents map[int64]int
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{
		nextID:     1,
		clients:    make(map[int64]*domain.Client),
		dependents: make(map[int64]int),
	}
}

func (r *stubClientRepo) Create(ctx context.Context, client *domain.Client) error {
	client.ID = r.nextID
	r.nextID++
	clone := *client
	r.clients[client.ID] = &clone
	return nil
}

func (r *stubClientRepo) Update(ctx context.Context, client *domain.Client) error {
	clone := *client
	r.clients[client.ID] = &clone
	return nil
}

func (r *stubClientRepo) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	client, ok := r.clients[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *client
	return &clone, nil
}

func (r *stubClientRepo) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	for _, client := range r.clients {
		if client.Email == email {
			clone := *client
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubClientRepo) List(ctx context.Context, filter repository.ClientFilter) ([]domain.Client, error) {
	out := make([]domain.Client, 0, len(r.clients))
	for _, client := range r.clients {
		out = append(out, *client)
	}
	return out, nil
}

func (r *stubClientRepo) Delete(ctx context.Context, id int64) error {
	delete(r.clients, id)
	return nil
}

func (r *stubClientRepo) CountDependents(ctx context.Context, id int64) (int, error) {
	return r.dependents[id], nil
}

type clientsTestEnv struct {
	app     *fiber.App
	repo    *stubClientRepo
	tokens  *auth.TokenManager
	actorID int64
}

func newClientsTestEnv(t *testing.T) *clientsTestEnv {
	t.Helper()
	users := &stubUserRepo{users: map[int64]*domain.User{
		7: {ID: 7, Name: "Em Ployee", Email: "em@corp.test", Role: domain.RoleEmployee, Active: true},
	}}
	repo := newStubClientRepo()
	handler := handlers.NewClientsHandler(service.NewClientService(repo))
	tokens := auth.NewTokenManager(handlerTestSecret, 60)
	authMW := auth.NewMiddleware(tokens, users)

	app := fiber.New()
	apphttp.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0, false)
	api := app.Group("/api", authMW.Handle)
	api.Post("/clients", handler.Create)
	api.Get("/clients/:id", handler.Get)
	api.Delete("/clients/:id", handler.Delete)

	return &clientsTestEnv{app: app, repo: repo, tokens: tokens, actorID: 7}
}

func (env *clientsTestEnv) request(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	token, _, err := env.tokens.GenerateToken(env.actorID, domain.RoleEmployee)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var envelope map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope
}

func TestClientsCreate(t *testing.T) {
	env := newClientsTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/clients", map[string]any{
		"name":    "Acme",
		"email":   "Billing@ACME.test",
		"company": "Acme Inc",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, "billing@acme.test", data["email"])
	assert.Equal(t, float64(env.actorID), data["created_by"])
}

func TestClientsCreateDuplicateEmailEnvelope(t *testing.T) {
	env := newClientsTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/clients", map[string]any{
		"name": "Acme", "email": "billing@acme.test",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = env.request(t, http.MethodPost, "/api/clients", map[string]any{
		"name": "Copycat", "email": "billing@acme.test",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	errObj := envelope["error"].(map[string]any)
	assert.Equal(t, "CONFLICT", errObj["code"])
}

func TestClientsCreateValidationEnvelope(t *testing.T) {
	env := newClientsTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/clients", map[string]any{
		"name": "", "email": "not-an-email",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	errObj := envelope["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_FAILED", errObj["code"])
	details := errObj["details"].(map[string]any)
	assert.NotEmpty(t, details["errors"])
}

func TestClientsGetAndDelete(t *testing.T) {
	env := newClientsTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/clients", map[string]any{
		"name": "Acme", "email": "billing@acme.test",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeEnvelope(t, resp)["data"].(map[string]any)
	id := int64(created["id"].(float64))

	resp = env.request(t, http.MethodGet, fmt.Sprintf("/api/clients/%d", id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	env.repo.dependents[id] = 2
	resp = env.request(t, http.MethodDelete, fmt.Sprintf("/api/clients/%d", id), nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errObj := decodeEnvelope(t, resp)["error"].(map[string]any)
	assert.Equal(t, "CONFLICT", errObj["code"])

	env.repo.dependents[id] = 0
	resp = env.request(t, http.MethodDelete, fmt.Sprintf("/api/clients/%d", id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = env.request(t, http.MethodGet, fmt.Sprintf("/api/clients/%d", id), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
