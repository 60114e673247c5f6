package dto

import (
	"time"

	"github.com/spec-kit/bizops-service/internal/domain"
)

// CreateUserRequest payload for new accounts.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=ADMIN MANAGER EMPLOYEE CLIENT"`
}

// UpdateUserRequest payload for partial account updates.
type UpdateUserRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email" validate:"omitempty,email"`
	Role   *string `json:"role" validate:"omitempty,oneof=ADMIN MANAGER EMPLOYEE CLIENT"`
	Active *bool   `json:"active"`
}

// UserResponse account representation.
type UserResponse struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	Active    bool        `json:"active"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
