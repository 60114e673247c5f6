package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/bizops-service/internal/auth"
	"github.com/spec-kit/bizops-service/internal/domain"
	apperrors "github.com/spec-kit/bizops-service/pkg/util"
)

func managerOrAssigneePredicate(managerID int64, assignees ...int64) auth.Predicate {
	return func(ctx context.Context, identity auth.Identity, resourceID int64) (bool, error) {
		if identity.ID == managerID {
			return true, nil
		}
		for _, id := range assignees {
			if identity.ID == id {
				return true, nil
			}
		}
		return false, nil
	}
}

func TestAccessCheckerManagerAllowed(t *testing.T) {
	checker := auth.NewAccessChecker()
	checker.Register(auth.ResourceProject, managerOrAssigneePredicate(10, 20))

	ok, err := checker.Can(context.Background(), auth.Identity{ID: 10, Role: domain.RoleManager}, auth.ResourceProject, 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAccessCheckerAssigneeAllowed(t *testing.T) {
	checker := auth.NewAccessChecker()
	checker.Register(auth.ResourceProject, managerOrAssigneePredicate(10, 20))

	ok, err := checker.Can(context.Background(), auth.Identity{ID: 20, Role: domain.RoleEmployee}, auth.ResourceProject, 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAccessCheckerUnrelatedDenied(t *testing.T) {
	checker := auth.NewAccessChecker()
	checker.Register(auth.ResourceProject, managerOrAssigneePredicate(10, 20))

	ok, err := checker.Can(context.Background(), auth.Identity{ID: 30, Role: domain.RoleEmployee}, auth.ResourceProject, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAccessCheckerAdminBypassesPredicates(t *testing.T) {
	checker := auth.NewAccessChecker()
	checker.Register(auth.ResourceProject, func(ctx context.Context, identity auth.Identity, resourceID int64) (bool, error) {
		t.Fatal("predicate must not run for admins")
		return false, nil
	})

	ok, err := checker.Can(context.Background(), auth.Identity{ID: 99, Role: domain.RoleAdmin}, auth.ResourceProject, 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAccessCheckerInvoiceCreatorOnly(t *testing.T) {
	checker := auth.NewAccessChecker()
	checker.Register(auth.ResourceInvoice, func(ctx context.Context, identity auth.Identity, resourceID int64) (bool, error) {
		return identity.ID == 5, nil
	})

	ok, err := checker.Can(context.Background(), auth.Identity{ID: 5, Role: domain.RoleEmployee}, auth.ResourceInvoice, 8)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = checker.Can(context.Background(), auth.Identity{ID: 6, Role: domain.RoleEmployee}, auth.ResourceInvoice, 8)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAccessCheckerUnregisteredKindAllowed(t *testing.T) {
	checker := auth.NewAccessChecker()

	ok, err := checker.Can(context.Background(), auth.Identity{ID: 1, Role: domain.RoleClient}, auth.ResourceKind("report"), 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAccessCheckerPredicateError(t *testing.T) {
	checker := auth.NewAccessChecker()
	wantErr := errors.New("connection reset")
	checker.Register(auth.ResourceProject, func(ctx context.Context, identity auth.Identity, resourceID int64) (bool, error) {
		return false, wantErr
	})

	ok, err := checker.Can(context.Background(), auth.Identity{ID: 1, Role: domain.RoleEmployee}, auth.ResourceProject, 1)
	assert.False(t, ok)
	assert.ErrorIs(t, err, wantErr)
}

func TestAccessCheckFailedMapsTo500(t *testing.T) {
	de := apperrors.ToDomainError(apperrors.NewAccessCheckFailed(errors.New("boom")))
	assert.Equal(t, "ACCESS_CHECK_FAILED", de.Code)
	assert.Equal(t, 500, de.HTTPStatus)
}
