package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/bizops-service/pkg/util"
)

func TestValidateCollectsAllViolations(t *testing.T) {
	err := Validate(CreateUserRequest{
		Email:    "not-an-email",
		Password: "short",
		Role:     "SUPERUSER",
	})
	require.Error(t, err)

	de, ok := err.(*apperrors.DomainError)
	require.True(t, ok, "expected *DomainError, got %T", err)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)

	violations, ok := de.Details["errors"].([]string)
	require.True(t, ok)
	assert.Contains(t, violations, "name is required")
	assert.Contains(t, violations, "email must be a valid email")
	assert.Contains(t, violations, "password must be at least 8")
	assert.Contains(t, violations, "role must be one of: ADMIN MANAGER EMPLOYEE CLIENT")
}

func TestValidatePassesValidRequest(t *testing.T) {
	assert.NoError(t, Validate(CreateUserRequest{
		Name:     "Dana",
		Email:    "dana@example.com",
		Password: "s3cret-pass",
		Role:     "EMPLOYEE",
	}))
}

func TestValidateSkipsOmittedOptionalFields(t *testing.T) {
	assert.NoError(t, Validate(UpdateUserRequest{}))

	bad := "nope"
	err := Validate(UpdateUserRequest{Email: &bad})
	require.Error(t, err)
}
