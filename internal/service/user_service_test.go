package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/bizops-service/internal/auth"
	"github.com/spec-kit/bizops-service/internal/config"
	"github.com/spec-kit/bizops-service/internal/domain"
)

func newTestUserService(repo *memUserRepo) *UserService {
	cfg := config.Config{}
	cfg.Auth.BcryptCost = bcrypt.MinCost
	return NewUserService(cfg, repo)
}

func TestUserCreateNormalizesEmail(t *testing.T) {
	repo := newMemUserRepo()
	svc := newTestUserService(repo)

	user, err := svc.Create(context.Background(), UserCreateInput{
		Name:     "  Dana Ops ",
		Email:    "  Dana@Example.COM ",
		Password: "s3cret-pass",
		Role:     domain.RoleEmployee,
	})
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", user.Email)
	assert.Equal(t, "Dana Ops", user.Name)
	assert.True(t, user.Active)
	assert.NoError(t, auth.ComparePassword(user.PasswordHash, "s3cret-pass"))
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	repo := newMemUserRepo()
	svc := newTestUserService(repo)

	_, err := svc.Create(context.Background(), UserCreateInput{
		Name: "First", Email: "dana@example.com", Password: "s3cret-pass", Role: domain.RoleEmployee,
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), UserCreateInput{
		Name: "Second", Email: "DANA@example.com", Password: "other-pass", Role: domain.RoleEmployee,
	})
	de := requireDomainError(t, err, "CONFLICT")
	assert.Equal(t, "dana@example.com", de.Details["email"])
}

func TestUserCreateRejectsUnknownRole(t *testing.T) {
	svc := newTestUserService(newMemUserRepo())

	_, err := svc.Create(context.Background(), UserCreateInput{
		Name: "X", Email: "x@example.com", Password: "s3cret-pass", Role: domain.Role("SUPERUSER"),
	})
	requireDomainError(t, err, "VALIDATION_FAILED")
}

func TestUserUpdateRoleGatedByFieldPolicy(t *testing.T) {
	repo := newMemUserRepo()
	svc := newTestUserService(repo)

	user, err := svc.Create(context.Background(), UserCreateInput{
		Name: "Dana", Email: "dana@example.com", Password: "s3cret-pass", Role: domain.RoleEmployee,
	})
	require.NoError(t, err)

	manager := auth.Identity{ID: 99, Role: domain.RoleManager}
	role := domain.RoleManager
	_, err = svc.Update(context.Background(), manager, user.ID, UserUpdateInput{Role: &role})
	requireDomainError(t, err, "INSUFFICIENT_ROLE")

	admin := auth.Identity{ID: 1, Role: domain.RoleAdmin}
	updated, err := svc.Update(context.Background(), admin, user.ID, UserUpdateInput{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, updated.Role)
}

func TestUserUpdatePlainFieldsAllowedForManager(t *testing.T) {
	repo := newMemUserRepo()
	svc := newTestUserService(repo)

	user, err := svc.Create(context.Background(), UserCreateInput{
		Name: "Dana", Email: "dana@example.com", Password: "s3cret-pass", Role: domain.RoleEmployee,
	})
	require.NoError(t, err)

	manager := auth.Identity{ID: 99, Role: domain.RoleManager}
	updated, err := svc.Update(context.Background(), manager, user.ID, UserUpdateInput{
		Name:  strPtr("Dana R."),
		Email: strPtr("DANA.R@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Dana R.", updated.Name)
	assert.Equal(t, "dana.r@example.com", updated.Email)
	assert.Equal(t, domain.RoleEmployee, updated.Role)
}

func TestUserDeactivateKeepsRecord(t *testing.T) {
	repo := newMemUserRepo()
	svc := newTestUserService(repo)

	user, err := svc.Create(context.Background(), UserCreateInput{
		Name: "Dana", Email: "dana@example.com", Password: "s3cret-pass", Role: domain.RoleEmployee,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), user.ID))

	got, err := svc.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
}
