package handlers_test

import (
	"bytes"
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
	"github.com/spec-kit/bizops-service/internal/api/http/handlers"
	"github.com/spec-kit/bizops-service/internal/auth"
	"github.com/spec-kit/bizops-service/internal/domain"
	"github.com/spec-kit/bizops-service/internal/observability"
	"github.com/spec-kit/bizops-service/internal/repository"
	"github.com/spec-kit/bizops-service/internal/service"
)

type stubProjectRepo struct {
	nextID   int64
	projects map[int64]*domain.Project
}

func newStubProjectRepo() *stubProjectRepo {
	return &stubProjectRepo{nextID: 1, projects: make(map[int64]*domain.Project)}
}

func (r *stubProjectRepo) Create(ctx context.Context, project *domain.Project) error {
	project.ID = r.nextID
	r.nextID++
	clone := *project
	r.projects[project.ID] = &clone
	return nil
}

func (r *stubProjectRepo) Update(ctx context.Context, project *domain.Project) error {
	clone := *project
	r.projects[project.ID] = &clone
	return nil
}

func (r *stubProjectRepo) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	project, ok := r.projects[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *project
	return &clone, nil
}

func (r *stubProjectRepo) List(ctx context.Context, filter repository.ProjectFilter) ([]domain.Project, error) {
	out := make([]domain.Project, 0, len(r.projects))
	for _, project := range r.projects {
		out = append(out, *project)
	}
	return out, nil
}

func (r *stubProjectRepo) Delete(ctx context.Context, id int64) error {
	delete(r.projects, id)
	return nil
}

func (r *stubProjectRepo) IsManagedBy(ctx context.Context, projectID, userID int64) (bool, error) {
	project, ok := r.projects[projectID]
	if !ok {
		return false, nil
	}
	return project.ManagerID == userID, nil
}

type stubTaskRepo struct{}

func (r *stubTaskRepo) Create(ctx context.Context, task *domain.Task) error { return nil }
func (r *stubTaskRepo) Update(ctx context.Context, task *domain.Task) error { return nil }

func (r *stubTaskRepo) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	return nil, pgx.ErrNoRows
}

func (r *stubTaskRepo) ListByProject(ctx context.Context, projectID int64) ([]domain.Task, error) {
	return nil, nil
}

func (r *stubTaskRepo) Delete(ctx context.Context, id int64) error { return nil }

func (r *stubTaskRepo) HasAssigneeInProject(ctx context.Context, projectID, userID int64) (bool, error) {
	return false, nil
}

// Project creation is gated on role at the route, not inside the handler, so
// the test mounts the same chain the router does.
func TestProjectsCreateRoleGating(t *testing.T) {
	users := &stubUserRepo{users: map[int64]*domain.User{
		2: {ID: 2, Name: "Mana Ger", Email: "mg@corp.test", Role: domain.RoleManager, Active: true},
		7: {ID: 7, Name: "Em Ployee", Email: "em@corp.test", Role: domain.RoleEmployee, Active: true},
	}}
	clients := newStubClientRepo()
	client := &domain.Client{Name: "Acme", Email: "billing@acme.test", CreatedBy: 2}
	require.NoError(t, clients.Create(context.Background(), client))

	projects := newStubProjectRepo()
	svc := service.NewProjectService(projects, &stubTaskRepo{}, clients, users)
	handler := handlers.NewProjectsHandler(svc)
	tokens := auth.NewTokenManager(handlerTestSecret, 60)
	authMW := auth.NewMiddleware(tokens, users)

	app := fiber.New()
	apphttp.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0, false)
	api := app.Group("/api", authMW.Handle)
	api.Post("/projects", auth.RequireRole(domain.RoleAdmin, domain.RoleManager), handler.Create)

	body := map[string]any{
		"name":       "Website revamp",
		"client_id":  client.ID,
		"manager_id": int64(2),
	}

	do := func(actorID int64, role domain.Role) *http.Response {
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
		req := httptest.NewRequest(http.MethodPost, "/api/projects", &buf)
		req.Header.Set("Content-Type", "application/json")
		token, _, err := tokens.GenerateToken(actorID, role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	resp := do(7, domain.RoleEmployee)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	errObj := decodeEnvelope(t, resp)["error"].(map[string]any)
	assert.Equal(t, "INSUFFICIENT_ROLE", errObj["code"])

	resp = do(2, domain.RoleManager)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := decodeEnvelope(t, resp)["data"].(map[string]any)
	assert.Equal(t, string(domain.ProjectStatusActive), data["status"])
}
